package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yamashi/xmake/internal/protocol"
)

// Routes a message to the matching session operation and builds the response.
//
// The target session is looked up (or lazily created) in the registry, the
// operation runs, and the result is folded into a clone of the request. A
// successful disconnect additionally removes the session from the registry.
// Operation failures never escape: they become status=false responses.
func (s *Server) dispatch(ctx context.Context, msg *protocol.Message) *protocol.Message {
	if err := s.execute(ctx, msg); err != nil {
		return msg.Reply(false, renderError(err))
	}
	return msg.Reply(true, "")
}

// Executes the operation matching the message's command code.
//
// A panicking delegate is recovered here, at the dispatch boundary, so a
// faulty session operation cannot take down the connection or the process.
func (s *Server) execute(ctx context.Context, msg *protocol.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: panic in %s: %v", ErrDispatch, msg.Code, r)
		}
	}()

	sess := s.registry.GetOrCreate(msg.SessionID)

	switch msg.Code {
	case protocol.CodeConnect:
		err = sess.Open(ctx)

	case protocol.CodeDisconnect:
		err = sess.Close(ctx)
		// The entry is pruned only after a successful close; a failed
		// close leaves the session registered so the client can retry.
		if err == nil {
			s.registry.Remove(msg.SessionID)
		}

	case protocol.CodeSync:
		err = sess.Sync(ctx, msg.Body)

	case protocol.CodeClean:
		err = sess.Clean(ctx)

	default:
		// Unrecognized codes are a no-op on the session; the response
		// still goes out so the client is never left waiting.
		slog.Debug("unrecognized command, treating as no-op",
			"session", msg.SessionID,
			"command", msg.Code,
		)
	}

	return err
}
