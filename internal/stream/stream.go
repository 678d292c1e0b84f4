// Package stream wraps a single network connection with framed, buffered
// message transfer. It carries no session semantics: callers decide what the
// messages mean.
package stream

import (
	"bufio"
	"net"

	"github.com/yamashi/xmake/internal/protocol"
)

// Owns one connection and exposes framed send/receive over buffered I/O.
type Stream struct {
	conn net.Conn
	r    *bufio.Reader
	w    *bufio.Writer
}

// Wraps conn. The stream assumes exclusive ownership of the connection; the
// caller must not read from or write to conn directly afterwards.
func New(conn net.Conn) *Stream {
	return &Stream{
		conn: conn,
		r:    bufio.NewReader(conn),
		w:    bufio.NewWriter(conn),
	}
}

// Blocks until a full frame is available and returns the decoded message.
//
// Returns [io.EOF] when the peer closes the connection at a frame boundary
// and [protocol.ErrFraming] for truncated or corrupt frames.
func (s *Stream) Receive() (*protocol.Message, error) {
	return protocol.Read(s.r)
}

// Encodes m, writes the frame, and flushes the buffer so the peer observes
// the complete message before the next receive begins.
func (s *Stream) Send(m *protocol.Message) error {
	if err := protocol.Write(s.w, m); err != nil {
		return err
	}
	return s.w.Flush()
}

// Closes the underlying connection.
func (s *Stream) Close() error {
	return s.conn.Close()
}

// Returns the remote address of the underlying connection.
func (s *Stream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}
