package workspace

import "errors"

var (
	ErrWorkspace = errors.New("workspace operation failed")
	ErrSync      = errors.New("sync failed")
)
