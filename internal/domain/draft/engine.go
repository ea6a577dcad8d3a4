// Package draft runs a team draft: it owns the teams, the pick order, the
// remaining pool and the cursor, and mutates them one pick at a time or in a
// whole-draft solve.
//
// An Engine is not safe for concurrent use. Callers serialize access.
package draft

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/order"
	"github.com/sheexliies/ViperDraft/internal/domain/risk"
	"github.com/sheexliies/ViperDraft/internal/domain/selection"
	"github.com/sheexliies/ViperDraft/pkg/logger"
)

// board is the mutable part of a draft. The solver works on clones of it.
type board struct {
	teams  []model.Team
	pool   []model.Candidate
	cursor int
}

func (b *board) clone() board {
	return board{
		teams:  model.CloneTeams(b.teams),
		pool:   model.CloneCandidates(b.pool),
		cursor: b.cursor,
	}
}

// place appends c to team t as the product of the current pick and
// advances the cursor.
func (b *board) place(t int, c model.Candidate) {
	team := &b.teams[t]
	team.Roster = append(team.Roster, model.RosterEntry{Candidate: c, Pick: b.cursor})
	team.Score += c.Score
	b.pool = removeByID(b.pool, c.ID)
	b.cursor++
}

// Engine holds one draft.
type Engine struct {
	settings   model.Settings
	candidates []model.Candidate
	order      []int
	board      board
	status     model.Status
	loaded     bool

	selector    selection.Selector
	mode        order.Mode
	orderRng    *rand.Rand
	maxAttempts int
	log         logger.Logger
}

// New creates an engine with no candidates.
func New(opts ...Option) *Engine {
	e := &Engine{
		mode:        order.Linear,
		maxAttempts: DefaultMaxAttempts,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.selector == nil {
		e.selector = selection.NewSoftmax()
	}
	if e.log == nil {
		e.log = logger.NewNop()
	}
	return e
}

// SetCandidates validates and stores the imported pool. Any loaded draft
// is discarded.
func (e *Engine) SetCandidates(cs []model.Candidate) error {
	if err := ValidateCandidates(cs); err != nil {
		return err
	}
	e.candidates = model.CloneCandidates(cs)
	e.clearDraft()
	e.setMessage(fmt.Sprintf("Imported %d candidates", len(cs)), model.MessageSuccess)
	return nil
}

// ValidateCandidates checks ids and names are unique and scores are
// finite and non-negative.
func ValidateCandidates(cs []model.Candidate) error {
	ids := make(map[int]struct{}, len(cs))
	names := make(map[string]struct{}, len(cs))
	for _, c := range cs {
		if _, dup := ids[c.ID]; dup {
			return fmt.Errorf("%w: duplicate id %d", ErrInvalidCandidates, c.ID)
		}
		ids[c.ID] = struct{}{}

		key := model.NameKey(c.Name)
		if key == "" {
			return fmt.Errorf("%w: candidate %d has no name", ErrInvalidCandidates, c.ID)
		}
		if _, dup := names[key]; dup {
			return fmt.Errorf("%w: duplicate name %q", ErrInvalidCandidates, c.Name)
		}
		names[key] = struct{}{}

		if c.Score < 0 || math.IsNaN(c.Score) || math.IsInf(c.Score, 0) {
			return fmt.Errorf("%w: %s has score %g", ErrInvalidCandidates, c.Name, c.Score)
		}
	}
	return nil
}

// ValidateSettings checks counts are positive and the band is well formed.
func ValidateSettings(s model.Settings) error {
	switch {
	case s.TeamsCount <= 0:
		return fmt.Errorf("%w: teams_count must be positive, got %d", ErrInvalidSettings, s.TeamsCount)
	case s.TeammatesPerTeam <= 0:
		return fmt.Errorf("%w: teammates_per_team must be positive, got %d", ErrInvalidSettings, s.TeammatesPerTeam)
	case s.MinScore < 0 || math.IsNaN(s.MinScore):
		return fmt.Errorf("%w: min_score must be >= 0, got %g", ErrInvalidSettings, s.MinScore)
	case s.MaxScore < s.MinScore || math.IsNaN(s.MaxScore):
		return fmt.Errorf("%w: max_score %g below min_score %g", ErrInvalidSettings, s.MaxScore, s.MinScore)
	}
	return nil
}

// Load starts a draft over the imported candidates.
func (e *Engine) Load(s model.Settings) error {
	if err := ValidateSettings(s); err != nil {
		return err
	}
	if need := s.TotalSlots(); len(e.candidates) < need {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientPool, len(e.candidates), need)
	}
	seq, err := order.Generate(s.TeamsCount, s.TeammatesPerTeam, e.mode, e.orderRng)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	teams := make([]model.Team, s.TeamsCount)
	for i := range teams {
		name := fmt.Sprintf("Team %d", i+1)
		if i < len(e.candidates) && e.candidates[i].TeamHint != "" {
			name = e.candidates[i].TeamHint
		}
		teams[i] = model.Team{ID: i, Name: name, Roster: []model.RosterEntry{}, SlotTarget: s.TeammatesPerTeam}
	}

	e.settings = s
	e.order = seq
	e.board = board{teams: teams, pool: model.CloneCandidates(e.candidates)}
	e.loaded = true
	e.status = model.Status{}
	e.refresh()
	e.setMessage(fmt.Sprintf("Draft loaded: %d teams, %d picks", s.TeamsCount, len(seq)), model.MessageNormal)
	e.log.Info(context.Background(), "draft loaded",
		logger.Int("teams", s.TeamsCount),
		logger.Int("per_team", s.TeammatesPerTeam),
		logger.Float64("min", s.MinScore),
		logger.Float64("max", s.MaxScore),
		logger.String("order_mode", string(e.mode)))
	return nil
}

// Reset discards the draft and keeps the candidates.
func (e *Engine) Reset() {
	e.clearDraft()
	e.setMessage("Draft reset", model.MessageNormal)
}

// Clear discards the draft and the candidates.
func (e *Engine) Clear() {
	e.candidates = nil
	e.clearDraft()
	e.setMessage("All data cleared", model.MessageNormal)
}

func (e *Engine) clearDraft() {
	e.settings = model.Settings{}
	e.order = nil
	e.board = board{}
	e.loaded = false
	e.status = model.Status{}
}

// SetSolving flags a pending or running solve for display.
func (e *Engine) SetSolving(v bool) { e.status.Solving = v }

// Loaded reports whether a draft is active.
func (e *Engine) Loaded() bool { return e.loaded }

// Settings returns the active draft settings.
func (e *Engine) Settings() model.Settings { return e.settings }

// Candidates returns a copy of the imported candidates.
func (e *Engine) Candidates() []model.Candidate { return model.CloneCandidates(e.candidates) }

// Teams returns a deep copy of the teams.
func (e *Engine) Teams() []model.Team { return model.CloneTeams(e.board.teams) }

// Pool returns a copy of the remaining candidates.
func (e *Engine) Pool() []model.Candidate { return model.CloneCandidates(e.board.pool) }

// Order returns a copy of the pick order.
func (e *Engine) Order() []int {
	out := make([]int, len(e.order))
	copy(out, e.order)
	return out
}

// Status returns the cursor and last message.
func (e *Engine) Status() model.Status { return e.status }

// ActiveTeam returns the team on turn, or false when the draft is not
// running.
func (e *Engine) ActiveTeam() (int, bool) {
	if !e.loaded || e.board.cursor >= len(e.order) {
		return 0, false
	}
	return e.order[e.board.cursor], true
}

// Risk ranks the pool for the team on turn. A non-empty query keeps only
// names containing it, case-insensitively.
func (e *Engine) Risk(query string) []risk.Annotated {
	t, ok := e.ActiveTeam()
	if !ok {
		return nil
	}
	ranked := risk.Rank(t, e.board.pool, e.board.teams, e.settings, e.settings.TeammatesPerTeam)
	return risk.Search(ranked, query)
}

func (e *Engine) refresh() {
	e.status.Cursor = e.board.cursor
	e.status.Complete = e.loaded && e.board.cursor >= len(e.order)
	if len(e.order) > 0 {
		e.status.Progress = float64(e.board.cursor) / float64(len(e.order)) * 100
	} else {
		e.status.Progress = 0
	}
}

func (e *Engine) setMessage(msg string, kind model.MessageKind) {
	e.status.Message = msg
	e.status.MessageKind = kind
}

func removeByID(pool []model.Candidate, id int) []model.Candidate {
	for i, c := range pool {
		if c.ID == id {
			return append(pool[:i], pool[i+1:]...)
		}
	}
	return pool
}

func indexByID(pool []model.Candidate, id int) int {
	for i, c := range pool {
		if c.ID == id {
			return i
		}
	}
	return -1
}
