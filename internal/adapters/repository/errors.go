package repository

import "errors"

// Sentinel kinds for snapshot store errors.
var (
	ErrNotFound       = errors.New("snapshot not found")
	ErrInvalidSession = errors.New("invalid session id")
	ErrCorrupt        = errors.New("snapshot is corrupt")
)
