// Package feasibility decides which candidates keep a team's final score
// reachable inside the band.
//
// A candidate c is admitted for a team with score s and n open slots when,
// with rest = pool minus c and k = n-1:
//
//	len(rest) >= k
//	s + c + (sum of the k smallest scores in rest) <= max
//	s + c + (sum of the k largest scores in rest)  >= min
//
// The rule ignores competition from other teams for the same candidates, so
// an admitted pick can still dead-end later; the solver retries for that.
package feasibility

import (
	"errors"
	"fmt"
	"sort"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

// Sentinel kinds for filter diagnostics.
var (
	ErrTeamFull         = errors.New("team already full")
	ErrNoValidCandidate = errors.New("no candidate keeps the team within band")
	ErrUnknownTeam      = errors.New("unknown team")
)

// Verdict is the outcome of checking a single candidate.
type Verdict int

// Verdicts, in the order they are checked.
const (
	Feasible Verdict = iota
	TooFewLeft
	OverMax
	UnderMin
)

func (v Verdict) String() string {
	switch v {
	case Feasible:
		return "feasible"
	case TooFewLeft:
		return "too few candidates left"
	case OverMax:
		return "exceeds max score"
	case UnderMin:
		return "cannot reach min score"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Result is the filter output. Err is non-nil exactly when Valid is empty.
type Result struct {
	Valid []model.Candidate
	Err   error
}

// Evaluator holds the sorted pool of one filter call. Build one per state;
// never reuse it after the pool or team changes.
type Evaluator struct {
	score     float64
	slotsLeft int
	settings  model.Settings

	sorted []float64   // ascending pool scores
	prefix []float64   // prefix[i] = sum(sorted[:i])
	pos    map[int]int // candidate id -> index in sorted
}

// NewEvaluator prepares bound checks for team against pool.
func NewEvaluator(team *model.Team, pool []model.Candidate, s model.Settings, slotsPerTeam int) (*Evaluator, error) {
	left := slotsPerTeam - len(team.Roster)
	if left <= 0 {
		return nil, ErrTeamFull
	}

	idx := make([]int, len(pool))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return pool[idx[a]].Score < pool[idx[b]].Score })

	e := &Evaluator{
		score:     team.Score,
		slotsLeft: left,
		settings:  s,
		sorted:    make([]float64, len(pool)),
		prefix:    make([]float64, len(pool)+1),
		pos:       make(map[int]int, len(pool)),
	}
	for i, pi := range idx {
		e.sorted[i] = pool[pi].Score
		e.prefix[i+1] = e.prefix[i] + pool[pi].Score
		e.pos[pool[pi].ID] = i
	}
	return e, nil
}

// SlotsLeft returns the open slots of the evaluated team.
func (e *Evaluator) SlotsLeft() int { return e.slotsLeft }

// Check applies the bounds to c. A candidate that is not in the pool is
// checked against the whole pool.
func (e *Evaluator) Check(c model.Candidate) Verdict {
	k := e.slotsLeft - 1
	n := len(e.sorted)
	i, inPool := e.pos[c.ID]
	if !inPool {
		i = -1
	}

	avail := n
	if inPool {
		avail--
	}
	if avail < k {
		return TooFewLeft
	}

	minFill := e.prefix[k]
	if inPool && i < k {
		minFill = e.prefix[k+1] - e.sorted[i]
	}
	maxFill := e.prefix[n] - e.prefix[n-k]
	if inPool && i >= n-k {
		maxFill = e.prefix[n] - e.prefix[n-k-1] - e.sorted[i]
	}

	base := e.score + c.Score
	switch {
	case e.settings.AboveMax(base + minFill):
		return OverMax
	case e.settings.BelowMin(base + maxFill):
		return UnderMin
	}
	return Feasible
}

// Filter returns the candidates of pool that team teamIndex may take now.
// It does not mutate its inputs.
func Filter(teamIndex int, teams []model.Team, pool []model.Candidate, s model.Settings, slotsPerTeam int) Result {
	if teamIndex < 0 || teamIndex >= len(teams) {
		return Result{Err: fmt.Errorf("%w: %d", ErrUnknownTeam, teamIndex)}
	}
	e, err := NewEvaluator(&teams[teamIndex], pool, s, slotsPerTeam)
	if err != nil {
		return Result{Err: err}
	}

	valid := make([]model.Candidate, 0, len(pool))
	for _, c := range pool {
		if e.Check(c) == Feasible {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return Result{Err: fmt.Errorf("%w given %d remaining slots", ErrNoValidCandidate, e.slotsLeft)}
	}
	return Result{Valid: valid}
}
