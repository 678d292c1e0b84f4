// Package server implements the xmaked remote build daemon.
//
// The daemon listens on a TCP address for length-framed CBOR messages from
// remote build clients. Each connection is serviced by its own goroutine and
// carries a strict request-response sequence: the client sends one message
// and awaits exactly one response before sending the next. Messages are
// dispatched to the session matching their client-supplied id, creating the
// session lazily on first reference.
//
// Supported commands are connect (allocate and open the session), sync
// (synchronize the session workspace against the client's source tree),
// clean (remove build artifacts), and disconnect (release the session).
// Workspace operations are delegated to the workspace package; the session
// package contributes lifecycle guards and the registry.
//
// Example usage:
//
//	srv, err := server.New(server.Config{
//	    Listen: "0.0.0.0:9691",
//	})
//	if err != nil {
//	    return err
//	}
//
//	if err := srv.Start(); err != nil {
//	    return err
//	}
//	defer srv.Stop()
//
//	srv.Wait()
package server
