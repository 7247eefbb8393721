package core

import "errors"

// Common errors.
var (
	// ErrInvalidTemplate is returned for record templates that cannot be used.
	ErrInvalidTemplate = errors.New("invalid record template")
	// ErrRemote wraps every failure reported by the remote store.
	ErrRemote = errors.New("remote store error")
	// ErrDuplicate marks a record rejected by the remote store as a duplicate.
	ErrDuplicate = errors.New("duplicate record")
)
