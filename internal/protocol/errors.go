package protocol

import "errors"

var (
	ErrFraming = errors.New("malformed frame")
)
