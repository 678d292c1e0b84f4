package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/exec"
	"time"

	"github.com/google/uuid"
	"github.com/yamashi/xmake/internal/paths"
	"github.com/yamashi/xmake/internal/protocol"
	"github.com/yamashi/xmake/internal/session"
	"github.com/yamashi/xmake/internal/stream"
	"github.com/yamashi/xmake/internal/workspace"
)

// Default version control client verified at startup. Remote sync falls back
// to full-tree transfers without it, but source checkout commands sent by
// build clients require it on the host.
const DefaultVCSClient = "git"

// Holds server configuration.
type Config struct {
	Listen        string // Address to listen on (host:port). Required.
	VCSClient     string // Version control client binary. Empty uses [DefaultVCSClient].
	WorkspaceRoot string // Root directory for session workspaces. Empty uses the platform default.

	// Override for the session delegate factory. Empty uses filesystem
	// workspaces under WorkspaceRoot.
	Delegates session.DelegateFactory
}

// Listens for remote build clients and dispatches session commands.
type Server struct {
	listen    string            // Address the listener binds to.
	registry  *session.Registry // Process-wide id-to-session mapping.
	listener  net.Listener      // Listener for incoming connections.
	startedAt time.Time         // Timestamp when the server started.
	ctx       context.Context   // Root context for session operations.
	cancel    context.CancelFunc
	done      chan struct{} // Channel to signal server shutdown.
}

// Creates a new server instance.
//
// Fails fast when the listen address is absent or the required version
// control client is not discoverable on the host, so misconfiguration is
// reported before any connection is accepted. The listener is not opened
// until [Start] is called.
func New(cfg Config) (*Server, error) {
	if cfg.Listen == "" {
		return nil, fmt.Errorf("%w: no listen address configured", ErrStartup)
	}

	vcs := cfg.VCSClient
	if vcs == "" {
		vcs = DefaultVCSClient
	}
	if _, err := exec.LookPath(vcs); err != nil {
		return nil, fmt.Errorf("%w: version control client %q not found on PATH", ErrStartup, vcs)
	}

	factory := cfg.Delegates
	if factory == nil {
		root := cfg.WorkspaceRoot
		if root == "" {
			root = paths.Workspaces()
		}
		factory = workspace.NewManager(root).Delegate
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Server{
		listen:   cfg.Listen,
		registry: session.NewRegistry(factory),
		ctx:      ctx,
		cancel:   cancel,
		done:     make(chan struct{}),
	}, nil
}

// Opens the listener and begins accepting connections.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.listen)
	if err != nil {
		return fmt.Errorf("%w: failed to listen on %s: %w", ErrServer, s.listen, err)
	}

	s.listener = listener
	s.startedAt = time.Now()

	if err := writePID(); err != nil {
		slog.Warn("failed to write PID file", "error", err)
	}

	slog.Info("server listening", "address", listener.Addr())

	go s.accept()
	return nil
}

// Returns the address the listener is bound to. Valid after [Start].
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Shuts down the server and cleans up resources.
func (s *Server) Stop() error {
	close(s.done)
	s.cancel()

	if s.listener != nil {
		s.listener.Close()
	}

	os.Remove(paths.PIDFile())

	slog.Info("server stopped", "uptime", time.Since(s.startedAt).Truncate(time.Second))

	return nil
}

// Blocks until the server stops.
func (s *Server) Wait() {
	<-s.done
}

// Accepts connections in a loop until the server shuts down.
func (s *Server) accept() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				slog.Error("accept error", "error", err)
				continue
			}
		}

		go s.handle(conn)
	}
}

// Processes a single connection.
//
// The connection carries a strict request-response sequence: one framed
// message is read, dispatched, and answered before the next read begins. A
// framing error abandons this connection only; other connections are
// unaffected. A failure to send a response is logged and the connection
// abandoned, never retried.
func (s *Server) handle(conn net.Conn) {
	st := stream.New(conn)
	defer st.Close()

	connID := uuid.NewString()
	peer := st.RemoteAddr()

	slog.Debug("client connected", "conn", connID, "peer", peer)

	for {
		msg, err := st.Receive()
		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				slog.Debug("client disconnected", "conn", connID, "peer", peer)
			case errors.Is(err, protocol.ErrFraming):
				slog.Error("framing error, dropping connection", "conn", connID, "peer", peer, "error", err)
			default:
				slog.Error("read error, dropping connection", "conn", connID, "peer", peer, "error", err)
			}
			return
		}

		slog.Debug("command received",
			"conn", connID,
			"peer", peer,
			"session", msg.SessionID,
			"command", msg.Code,
		)

		resp := s.dispatch(s.ctx, msg)

		if err := st.Send(resp); err != nil {
			slog.Error("failed to send response",
				"conn", connID,
				"peer", peer,
				"session", msg.SessionID,
				"command", msg.Code,
				"error", err,
			)
			return
		}

		slog.Info("command handled",
			"conn", connID,
			"peer", peer,
			"session", msg.SessionID,
			"command", msg.Code,
			"ok", resp.OK(),
		)
	}
}

// Writes the daemon PID to the PID file so the CLI can detect whether the
// daemon is already running and send it signals.
func writePID() error {
	if err := os.MkdirAll(paths.Runtime(), paths.DefaultDirMode); err != nil {
		return err
	}
	return os.WriteFile(paths.PIDFile(), []byte(fmt.Sprintf("%d", os.Getpid())), paths.DefaultFileMode)
}
