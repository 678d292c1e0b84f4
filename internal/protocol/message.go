package protocol

import (
	"bytes"
	"fmt"
)

// Identifies a session operation carried by a message.
//
// The values are wire constants; changing them breaks protocol compatibility
// with deployed clients.
type Code uint8

const (
	CodeConnect    Code = 1 // Open the session.
	CodeDisconnect Code = 2 // Close the session and release it.
	CodeSync       Code = 3 // Synchronize the session workspace.
	CodeClean      Code = 4 // Remove build artifacts from the workspace.
)

// Returns the human-readable name of a command code.
func (c Code) String() string {
	switch c {
	case CodeConnect:
		return "connect"
	case CodeDisconnect:
		return "disconnect"
	case CodeSync:
		return "sync"
	case CodeClean:
		return "clean"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// A single protocol exchange unit.
//
// Requests carry a session id, a command code, and an optional command-specific
// body. Responses are clones of the originating request with Status (and
// Errors on failure) populated, so the client can correlate by session id and
// code.
type Message struct {
	SessionID string `cbor:"session_id"`
	Code      Code   `cbor:"code"`
	Body      []byte `cbor:"body,omitempty"`

	// Set only on responses: true iff the operation completed without error.
	Status *bool `cbor:"status,omitempty"`

	// Set only on failed responses: a rendered error description.
	Errors string `cbor:"errors,omitempty"`
}

// Returns a field-wise copy of the message with its own body buffer.
func (m *Message) Clone() *Message {
	clone := *m
	clone.Body = bytes.Clone(m.Body)
	if m.Status != nil {
		status := *m.Status
		clone.Status = &status
	}
	return &clone
}

// Builds the response to m: a clone with Status set and, on failure, the
// rendered error text. Session id, code, and body are preserved unchanged.
func (m *Message) Reply(ok bool, errorText string) *Message {
	resp := m.Clone()
	resp.Status = &ok
	if !ok {
		resp.Errors = errorText
	}
	return resp
}

// Returns true if the message is a response (Status populated).
func (m *Message) IsResponse() bool {
	return m.Status != nil
}

// Returns true if the message is a response reporting success.
func (m *Message) OK() bool {
	return m.Status != nil && *m.Status
}
