package session

import "sync"

// Maps session ids to live sessions.
//
// The registry is the only state shared across connection handlers, so every
// access goes through one mutex. Sessions are created lazily by GetOrCreate
// and removed only by an explicit Remove after a successful disconnect; there
// is no eviction by timeout.
type Registry struct {
	factory DelegateFactory

	mu       sync.Mutex
	sessions map[string]*Session
}

// Creates an empty registry. New sessions receive delegates built by factory.
func NewRegistry(factory DelegateFactory) *Registry {
	return &Registry{
		factory:  factory,
		sessions: make(map[string]*Session),
	}
}

// Returns the session for id, constructing and inserting it first if absent.
//
// The check-then-insert is atomic with respect to concurrent dispatch:
// concurrent calls for the same unseen id observe exactly one construction
// and all receive the same instance.
func (r *Registry) GetOrCreate(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[id]; ok {
		return s
	}

	s := New(id, r.factory(id))
	r.sessions[id] = s
	return s
}

// Deletes the entry for id. A no-op when the id is absent.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}

// Returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
