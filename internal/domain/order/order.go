// Package order builds the pick sequence for a draft.
package order

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
)

// ErrInvalidDimensions is returned for non-positive team or slot counts.
var ErrInvalidDimensions = errors.New("teams and slots per team must be positive")

// ErrUnknownMode is returned by ParseMode for unrecognized names.
var ErrUnknownMode = errors.New("unknown order mode")

// Mode selects how teams are ordered inside each round.
type Mode string

// Supported modes.
const (
	// Linear: every round runs 0..T-1.
	Linear Mode = "linear"
	// Snake: even rounds run forward, odd rounds backward.
	Snake Mode = "snake"
	// Random: every round is an independent shuffle.
	Random Mode = "random"
)

// ParseMode maps a config string to a Mode. Empty selects Linear.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", Linear:
		return Linear, nil
	case Snake:
		return Snake, nil
	case Random:
		return Random, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// Generate returns teamsCount*perTeam team indices in which every team
// appears exactly once per round. rng is only consulted in Random mode; nil
// falls back to the process-wide source.
func Generate(teamsCount, perTeam int, mode Mode, rng *rand.Rand) ([]int, error) {
	if teamsCount <= 0 || perTeam <= 0 {
		return nil, fmt.Errorf("%w: teams=%d per_team=%d", ErrInvalidDimensions, teamsCount, perTeam)
	}

	seq := make([]int, 0, teamsCount*perTeam)
	round := make([]int, teamsCount)
	for r := 0; r < perTeam; r++ {
		for i := range round {
			round[i] = i
		}
		switch mode {
		case Snake:
			if r%2 == 1 {
				for i, j := 0, len(round)-1; i < j; i, j = i+1, j-1 {
					round[i], round[j] = round[j], round[i]
				}
			}
		case Random:
			shuffle := rand.Shuffle
			if rng != nil {
				shuffle = rng.Shuffle
			}
			shuffle(len(round), func(i, j int) { round[i], round[j] = round[j], round[i] })
		}
		seq = append(seq, round...)
	}
	return seq, nil
}

// Round returns the 1-based round number of pick index i.
func Round(i, teamsCount int) int {
	if teamsCount <= 0 {
		return 0
	}
	return i/teamsCount + 1
}
