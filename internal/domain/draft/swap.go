package draft

import (
	"context"
	"fmt"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// Swap exchanges two rostered candidates. Within one team only the roster
// positions change; across teams each candidate takes the other's slot and
// both scores are adjusted. Slots keep their pick provenance. The band is
// not checked.
func (e *Engine) Swap(teamA, idA, teamB, idB int) error {
	if !e.loaded {
		return ErrNotLoaded
	}
	n := len(e.board.teams)
	if teamA < 0 || teamA >= n {
		return fmt.Errorf("%w: %d", ErrTeamNotFound, teamA)
	}
	if teamB < 0 || teamB >= n {
		return fmt.Errorf("%w: %d", ErrTeamNotFound, teamB)
	}
	a, b := &e.board.teams[teamA], &e.board.teams[teamB]
	ia, ib := a.IndexOf(idA), b.IndexOf(idB)
	if ia < 0 {
		return fmt.Errorf("%w: id %d on %s", ErrCandidateNotRostered, idA, a.Name)
	}
	if ib < 0 {
		return fmt.Errorf("%w: id %d on %s", ErrCandidateNotRostered, idB, b.Name)
	}
	if teamA == teamB && idA == idB {
		return nil
	}

	ca, cb := a.Roster[ia].Candidate, b.Roster[ib].Candidate
	a.Roster[ia].Candidate, b.Roster[ib].Candidate = cb, ca
	if teamA != teamB {
		a.Score = a.RosterScore()
		b.Score = b.RosterScore()
	}

	e.setMessage(fmt.Sprintf("Swapped %s (%s) with %s (%s)", ca.Name, a.Name, cb.Name, b.Name), model.MessageSuccess)
	e.log.Debug(context.Background(), "swap",
		logger.String("team_a", a.Name), logger.String("candidate_a", ca.Name),
		logger.String("team_b", b.Name), logger.String("candidate_b", cb.Name))
	return nil
}
