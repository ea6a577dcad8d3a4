package draft

import (
	"context"
	"fmt"

	"github.com/sheexliies/ViperDraft/internal/domain/feasibility"
	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/order"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// Pick advances the draft by one pick. With manual set, that candidate is
// taken without the band check; otherwise the filter and selector choose.
// It returns false with a nil error when the draft is already complete.
// On error the state is unchanged.
func (e *Engine) Pick(ctx context.Context, manual *model.Candidate) (bool, error) {
	if !e.loaded {
		return false, ErrNotLoaded
	}
	if e.board.cursor >= len(e.order) {
		e.refresh()
		e.setMessage("Draft complete", model.MessageSuccess)
		return false, nil
	}

	t := e.order[e.board.cursor]
	var c model.Candidate
	if manual != nil {
		i := indexByID(e.board.pool, manual.ID)
		if i < 0 {
			return false, fmt.Errorf("%w: id %d", ErrCandidateUnavailable, manual.ID)
		}
		c = e.board.pool[i]
	} else {
		chosen, err := e.choose(&e.board, t)
		if err != nil {
			e.setMessage(err.Error(), model.MessageError)
			e.log.Warn(ctx, "pick blocked", logger.String("team", e.board.teams[t].Name), logger.Error(err))
			return false, err
		}
		c = chosen
	}

	pick := e.board.cursor
	e.board.place(t, c)
	e.refresh()
	team := e.board.teams[t]
	kind := model.MessageNormal
	if e.status.Complete {
		kind = model.MessageSuccess
	}
	e.setMessage(fmt.Sprintf("Round %d: %s picked %s", order.Round(pick, e.settings.TeamsCount), team.Name, c.Name), kind)
	e.log.Debug(ctx, "pick committed",
		logger.Int("pick", pick),
		logger.String("team", team.Name),
		logger.String("candidate", c.Name),
		logger.Float64("team_score", team.Score),
		logger.Bool("manual", manual != nil))
	return true, nil
}

// choose runs the filter and selector for team t on b.
func (e *Engine) choose(b *board, t int) (model.Candidate, error) {
	res := feasibility.Filter(t, b.teams, b.pool, e.settings, e.settings.TeammatesPerTeam)
	if res.Err != nil {
		return model.Candidate{}, &InfeasibleError{Pick: b.cursor, Team: t, TeamName: b.teams[t].Name, Err: res.Err}
	}
	return e.selector.Choose(res.Valid)
}

// Undo reverts the most recent pick. It returns false at the start of the
// draft.
func (e *Engine) Undo() bool {
	if !e.loaded || e.board.cursor == 0 {
		return false
	}
	pick := e.board.cursor - 1
	t := e.order[pick]
	team := &e.board.teams[t]
	if len(team.Roster) == 0 {
		return false
	}

	slot := len(team.Roster) - 1
	for i, r := range team.Roster {
		if r.Pick == pick {
			slot = i
			break
		}
	}
	c := team.Roster[slot].Candidate
	team.Roster = append(team.Roster[:slot], team.Roster[slot+1:]...)
	team.Score = team.RosterScore()
	e.board.pool = append([]model.Candidate{c}, e.board.pool...)
	e.board.cursor = pick

	e.refresh()
	e.setMessage(fmt.Sprintf("Undid %s's pick of %s", team.Name, c.Name), model.MessageNormal)
	e.log.Debug(context.Background(), "pick undone", logger.Int("pick", pick), logger.String("team", team.Name), logger.String("candidate", c.Name))
	return true
}
