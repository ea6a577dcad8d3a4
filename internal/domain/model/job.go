package model

import "time"

// SolveJob asks a worker to finish the draft of one session.
type SolveJob struct {
	ID          string    `json:"id"`
	Session     string    `json:"session"`
	MaxAttempts int       `json:"max_attempts"`
	EnqueuedAt  time.Time `json:"enqueued_at"`
}
