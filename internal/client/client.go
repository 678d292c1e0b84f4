// Package client provides a minimal client for the daemon's session
// protocol, used by the build tool's remote-build commands and by
// end-to-end tests.
package client

import (
	"fmt"
	"net"

	"github.com/yamashi/xmake/internal/protocol"
	"github.com/yamashi/xmake/internal/stream"
)

// Talks the session protocol over a single connection.
//
// The protocol is synchronous per connection: every call sends one message
// and blocks until its response arrives. The client is not safe for
// concurrent use; open one client per goroutine instead.
type Client struct {
	st *stream.Stream
}

// Connects to the daemon at addr (host:port).
func Dial(addr string) (*Client, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", addr, err)
	}
	return &Client{st: stream.New(conn)}, nil
}

// Opens the session with the given id on the daemon.
func (c *Client) Connect(sessionID string) (*protocol.Message, error) {
	return c.call(&protocol.Message{SessionID: sessionID, Code: protocol.CodeConnect})
}

// Synchronizes the session workspace with the archive in body.
func (c *Client) Sync(sessionID string, body []byte) (*protocol.Message, error) {
	return c.call(&protocol.Message{SessionID: sessionID, Code: protocol.CodeSync, Body: body})
}

// Removes build artifacts from the session workspace.
func (c *Client) Clean(sessionID string) (*protocol.Message, error) {
	return c.call(&protocol.Message{SessionID: sessionID, Code: protocol.CodeClean})
}

// Closes the session and releases its resources on the daemon.
func (c *Client) Disconnect(sessionID string) (*protocol.Message, error) {
	return c.call(&protocol.Message{SessionID: sessionID, Code: protocol.CodeDisconnect})
}

// Sends an arbitrary message and awaits its response.
func (c *Client) Call(msg *protocol.Message) (*protocol.Message, error) {
	return c.call(msg)
}

// Closes the connection.
func (c *Client) Close() error {
	return c.st.Close()
}

func (c *Client) call(msg *protocol.Message) (*protocol.Message, error) {
	if err := c.st.Send(msg); err != nil {
		return nil, err
	}
	return c.st.Receive()
}
