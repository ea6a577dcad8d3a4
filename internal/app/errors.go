package service

import "errors"

// Sentinel errors returned by Service. Engine errors from the draft package
// pass through unchanged.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrBusy            = errors.New("auto draft in progress")
	ErrDraftIncomplete = errors.New("draft is not complete")
	ErrDraftComplete   = errors.New("draft is complete")
	ErrUnknownSession  = errors.New("unknown session")
	ErrEnqueue         = errors.New("failed to queue auto draft")
)
