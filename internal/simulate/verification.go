package simulate

import (
	"errors"
	"fmt"
	"math"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

// Verify checks a finished draft: every team is full with its score inside
// the band and equal to the sum of its roster, and every imported candidate
// sits in exactly one roster or the pool.
func Verify(s model.Settings, candidates []model.Candidate, teams []model.Team, pool []model.Candidate) error {
	var errs []error
	if len(teams) != s.TeamsCount {
		errs = append(errs, fmt.Errorf("%w: %d teams, want %d", ErrViolation, len(teams), s.TeamsCount))
	}

	seen := make(map[int]int, len(candidates))
	for _, t := range teams {
		if len(t.Roster) != s.TeammatesPerTeam {
			errs = append(errs, fmt.Errorf("%w: %s has %d players, want %d", ErrViolation, t.Name, len(t.Roster), s.TeammatesPerTeam))
		}
		var sum float64
		for _, e := range t.Roster {
			sum += e.Candidate.Score
			seen[e.Candidate.ID]++
		}
		if math.Abs(sum-t.Score) > model.ScoreTolerance {
			errs = append(errs, fmt.Errorf("%w: %s reports %g, roster sums to %g", ErrViolation, t.Name, t.Score, sum))
		}
		if !s.InBand(t.Score) {
			errs = append(errs, fmt.Errorf("%w: %s scored %g outside [%g, %g]", ErrViolation, t.Name, t.Score, s.MinScore, s.MaxScore))
		}
	}
	for _, c := range pool {
		seen[c.ID]++
	}

	for _, c := range candidates {
		switch n := seen[c.ID]; n {
		case 1:
		case 0:
			errs = append(errs, fmt.Errorf("%w: candidate %d is missing", ErrViolation, c.ID))
		default:
			errs = append(errs, fmt.Errorf("%w: candidate %d appears %d times", ErrViolation, c.ID, n))
		}
		delete(seen, c.ID)
	}
	for id := range seen {
		errs = append(errs, fmt.Errorf("%w: unknown candidate %d", ErrViolation, id))
	}
	return errors.Join(errs...)
}

// teamScores lists team scores in team order.
func teamScores(teams []model.Team) []float64 {
	out := make([]float64, len(teams))
	for i, t := range teams {
		out[i] = t.Score
	}
	return out
}

// spread is the gap between the strongest and weakest team.
func spread(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	lo, hi := scores[0], scores[0]
	for _, v := range scores[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return hi - lo
}
