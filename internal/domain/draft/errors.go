package draft

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidSettings      = errors.New("invalid draft settings")
	ErrInsufficientPool     = errors.New("not enough candidates for the configured slots")
	ErrInvalidCandidates    = errors.New("invalid candidate list")
	ErrNotLoaded            = errors.New("draft not loaded")
	ErrInfeasible           = errors.New("no valid candidate for team on turn")
	ErrExhausted            = errors.New("auto draft exhausted its attempts")
	ErrCandidateUnavailable = errors.New("candidate not in the available pool")
	ErrCandidateNotRostered = errors.New("candidate not on team roster")
	ErrTeamNotFound         = errors.New("team not found")
	ErrInvalidSnapshot      = errors.New("invalid snapshot")
)

// InfeasibleError reports a team that cannot pick without leaving the band.
type InfeasibleError struct {
	Pick     int
	Team     int
	TeamName string
	Err      error
}

func (e *InfeasibleError) Error() string {
	return fmt.Sprintf("%s cannot pick (pick %d): %v", e.TeamName, e.Pick+1, e.Err)
}

// Unwrap exposes both ErrInfeasible and the filter diagnostic.
func (e *InfeasibleError) Unwrap() []error {
	return []error{ErrInfeasible, e.Err}
}
