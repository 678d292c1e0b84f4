package session

import "errors"

var (
	ErrAlreadyOpen = errors.New("session already open")
	ErrClosed      = errors.New("session closed")
)
