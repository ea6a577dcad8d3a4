package draft

import (
	"fmt"
	"math"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

// Snapshot returns a deep copy of the whole engine state.
func (e *Engine) Snapshot() model.Snapshot {
	return model.Snapshot{
		Settings:   e.settings,
		Candidates: model.CloneCandidates(e.candidates),
		Teams:      model.CloneTeams(e.board.teams),
		Order:      e.Order(),
		Pool:       model.CloneCandidates(e.board.pool),
		Status:     e.status,
		Loaded:     e.loaded,
	}
}

// Restore replaces the engine state with snap after checking it is
// consistent. A pending solve is not carried over.
func (e *Engine) Restore(snap model.Snapshot) error {
	if err := ValidateCandidates(snap.Candidates); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}
	if !snap.Loaded {
		e.candidates = model.CloneCandidates(snap.Candidates)
		e.clearDraft()
		e.setMessage(snap.Status.Message, snap.Status.MessageKind)
		return nil
	}
	if err := validateBoard(snap); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSnapshot, err)
	}

	e.settings = snap.Settings
	e.candidates = model.CloneCandidates(snap.Candidates)
	e.order = make([]int, len(snap.Order))
	copy(e.order, snap.Order)
	e.board = board{
		teams:  model.CloneTeams(snap.Teams),
		pool:   model.CloneCandidates(snap.Pool),
		cursor: snap.Status.Cursor,
	}
	for i := range e.board.teams {
		if e.board.teams[i].Roster == nil {
			e.board.teams[i].Roster = []model.RosterEntry{}
		}
	}
	e.loaded = true
	e.status = model.Status{
		Message:     snap.Status.Message,
		MessageKind: snap.Status.MessageKind,
		Attempts:    snap.Status.Attempts,
	}
	e.refresh()
	return nil
}

func validateBoard(snap model.Snapshot) error {
	s := snap.Settings
	if err := ValidateSettings(s); err != nil {
		return err
	}
	if len(snap.Teams) != s.TeamsCount {
		return fmt.Errorf("%d teams, settings say %d", len(snap.Teams), s.TeamsCount)
	}
	if len(snap.Order) != s.TotalSlots() {
		return fmt.Errorf("order has %d picks, want %d", len(snap.Order), s.TotalSlots())
	}
	seen := make([]int, s.TeamsCount)
	for _, t := range snap.Order {
		if t < 0 || t >= s.TeamsCount {
			return fmt.Errorf("order names unknown team %d", t)
		}
		seen[t]++
	}
	for t, n := range seen {
		if n != s.TeammatesPerTeam {
			return fmt.Errorf("team %d appears %d times in order", t, n)
		}
	}
	cursor := snap.Status.Cursor
	if cursor < 0 || cursor > len(snap.Order) {
		return fmt.Errorf("cursor %d out of range", cursor)
	}

	known := make(map[int]model.Candidate, len(snap.Candidates))
	for _, c := range snap.Candidates {
		known[c.ID] = c
	}
	placed := make(map[int]struct{}, len(snap.Candidates))
	take := func(c model.Candidate) error {
		if _, ok := known[c.ID]; !ok {
			return fmt.Errorf("candidate %d was never imported", c.ID)
		}
		if _, dup := placed[c.ID]; dup {
			return fmt.Errorf("candidate %d appears twice", c.ID)
		}
		placed[c.ID] = struct{}{}
		return nil
	}

	due := make([]int, s.TeamsCount)
	for _, t := range snap.Order[:cursor] {
		due[t]++
	}
	for i, t := range snap.Teams {
		if t.ID != i {
			return fmt.Errorf("team at %d has id %d", i, t.ID)
		}
		if t.SlotTarget != s.TeammatesPerTeam || len(t.Roster) > t.SlotTarget {
			return fmt.Errorf("team %s roster %d/%d does not fit %d slots", t.Name, len(t.Roster), t.SlotTarget, s.TeammatesPerTeam)
		}
		sum := 0.0
		for _, r := range t.Roster {
			if err := take(r.Candidate); err != nil {
				return err
			}
			sum += r.Candidate.Score
		}
		if math.Abs(sum-t.Score) > model.ScoreTolerance {
			return fmt.Errorf("team %s score %g, roster sums to %g", t.Name, t.Score, sum)
		}
		if len(t.Roster) != due[i] {
			return fmt.Errorf("team %s has %d players, %d picks made at cursor %d", t.Name, len(t.Roster), due[i], cursor)
		}
	}
	for _, c := range snap.Pool {
		if err := take(c); err != nil {
			return err
		}
	}
	if len(placed) != len(known) {
		return fmt.Errorf("%d of %d candidates accounted for", len(placed), len(known))
	}
	return nil
}
