// Package session holds the per-session state machine and the process-wide
// session registry.
//
// A session is created lazily the first time a message references its id and
// progresses through unopened, open, and closed. The actual workspace
// operations (allocation, file synchronization, artifact cleanup, release)
// are performed by an injected [Delegate]; the session contributes lifecycle
// guards and per-id serialization.
//
// Example usage:
//
//	registry := session.NewRegistry(func(id string) session.Delegate {
//	    return workspaces.Delegate(id)
//	})
//
//	s := registry.GetOrCreate("s1")
//	if err := s.Open(ctx); err != nil {
//	    return err
//	}
package session
