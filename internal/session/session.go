package session

import (
	"context"
	"fmt"
	"sync"
)

// Lifecycle state of a session.
type State int

const (
	// StateUnopened is the initial state: the session object exists (it is
	// created lazily on the first message bearing its id) but has not yet
	// processed a connect.
	StateUnopened State = iota

	// StateOpen means connect succeeded and the session owns remote-side
	// resources.
	StateOpen

	// StateClosed is terminal. The server removes a session from the
	// registry immediately after a successful close, so this state is never
	// observed externally.
	StateClosed
)

// Returns the human-readable name of a state.
func (s State) String() string {
	switch s {
	case StateUnopened:
		return "unopened"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// The file-sync and build logic a session delegates to.
//
// Each operation either succeeds or fails with an error description. The
// delegate owns its own preconditions: in particular, Sync and Clean may be
// invoked before Open ever ran (the protocol layer does not enforce
// ordering), and the delegate decides whether that fails or no-ops.
type Delegate interface {
	Open(ctx context.Context) error
	Sync(ctx context.Context, body []byte) error
	Clean(ctx context.Context) error
	Close(ctx context.Context) error
}

// Constructs the delegate backing a new session.
type DelegateFactory func(id string) Delegate

// Holds the state for one remote build session.
//
// All operations are serialized on an internal mutex, so two connections
// dispatching against the same session id cannot interleave operations. A
// failed operation leaves the session at its pre-call state, making retries
// well-defined.
type Session struct {
	id       string
	delegate Delegate

	mu    sync.Mutex
	state State
}

// Creates a session in the unopened state.
func New(id string, delegate Delegate) *Session {
	return &Session{
		id:       id,
		delegate: delegate,
	}
}

// Returns the client-supplied session identifier.
func (s *Session) ID() string {
	return s.id
}

// Returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Establishes the remote-side resources the session requires and moves it to
// the open state. Valid only from the unopened state.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateUnopened {
		return fmt.Errorf("%w: session %q is %s", ErrAlreadyOpen, s.id, s.state)
	}

	if err := s.delegate.Open(ctx); err != nil {
		return err
	}

	s.state = StateOpen
	return nil
}

// Synchronizes the session workspace against the client-provided file state
// carried in body. No state transition.
func (s *Session) Sync(ctx context.Context, body []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return fmt.Errorf("%w: session %q", ErrClosed, s.id)
	}

	return s.delegate.Sync(ctx, body)
}

// Removes build artifacts from the session workspace. No state transition.
func (s *Session) Clean(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return fmt.Errorf("%w: session %q", ErrClosed, s.id)
	}

	return s.delegate.Clean(ctx)
}

// Releases the session's resources and moves it to the closed state. Valid
// from the open state, and from unopened for robustness against clients that
// disconnect without ever connecting.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == StateClosed {
		return fmt.Errorf("%w: session %q", ErrClosed, s.id)
	}

	if err := s.delegate.Close(ctx); err != nil {
		return err
	}

	s.state = StateClosed
	return nil
}
