// Package protocol defines the wire format between remote build clients and
// the daemon.
//
// Each exchange unit is a frame: a 4-byte big-endian length prefix followed
// by one CBOR-encoded [Message]. Messages carry a client-supplied session id,
// a command code, and an opaque body; responses are clones of the request
// with the status (and error text on failure) populated. The codec is a pure
// structural serializer and makes no assumption about command semantics.
package protocol
