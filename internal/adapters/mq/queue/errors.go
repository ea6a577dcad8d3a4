package queue

import "errors"

// Sentinel kinds for queue errors.
var (
	ErrFull   = errors.New("solve queue full")
	ErrClosed = errors.New("solve queue closed")
)
