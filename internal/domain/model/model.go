// Package model contains domain models passed between layers.
package model

import "strings"

// Candidate is an imported individual with a score. Candidates are immutable
// once imported; identity is ID.
type Candidate struct {
	ID       int     `json:"id"`
	Name     string  `json:"name"`
	Score    float64 `json:"score"`
	TeamHint string  `json:"team_hint,omitempty"` // optional captain/team name from the import
}

// RosterEntry is one filled slot of a team. Pick is the pick index that
// produced the slot, or -1 when unknown (snapshots written without provenance).
type RosterEntry struct {
	Candidate Candidate `json:"candidate"`
	Pick      int       `json:"pick"`
}

// Team is a roster under construction.
type Team struct {
	ID         int           `json:"id"`
	Name       string        `json:"name"`
	Score      float64       `json:"score"`
	Roster     []RosterEntry `json:"roster"`
	SlotTarget int           `json:"slot_target"`
}

// SlotsLeft returns how many slots the team still has to fill.
func (t *Team) SlotsLeft() int {
	return t.SlotTarget - len(t.Roster)
}

// IndexOf returns the roster position of candidate id, or -1.
func (t *Team) IndexOf(id int) int {
	for i, e := range t.Roster {
		if e.Candidate.ID == id {
			return i
		}
	}
	return -1
}

// RosterScore sums the scores of the filled slots.
func (t *Team) RosterScore() float64 {
	var sum float64
	for _, e := range t.Roster {
		sum += e.Candidate.Score
	}
	return sum
}

// Clone returns a deep copy of the team.
func (t *Team) Clone() Team {
	c := *t
	c.Roster = make([]RosterEntry, len(t.Roster))
	copy(c.Roster, t.Roster)
	return c
}

// Settings configures a draft. Read-only while a draft is active.
type Settings struct {
	TeamsCount       int     `json:"teams_count"`
	TeammatesPerTeam int     `json:"teammates_per_team"`
	MinScore         float64 `json:"min_score"`
	MaxScore         float64 `json:"max_score"`
}

// TotalSlots returns the number of picks a full draft needs.
func (s Settings) TotalSlots() int {
	return s.TeamsCount * s.TeammatesPerTeam
}

// ScoreTolerance absorbs float rounding in score sums, so 1.1+2.2 lands on
// a bound of 3.3.
const ScoreTolerance = 1e-6

// InBand reports whether score lies inside [MinScore, MaxScore], edges
// included up to ScoreTolerance.
func (s Settings) InBand(score float64) bool {
	return !s.AboveMax(score) && !s.BelowMin(score)
}

// AboveMax reports whether score exceeds MaxScore by more than ScoreTolerance.
func (s Settings) AboveMax(score float64) bool {
	return score > s.MaxScore+ScoreTolerance
}

// BelowMin reports whether score falls short of MinScore by more than
// ScoreTolerance.
func (s Settings) BelowMin(score float64) bool {
	return score < s.MinScore-ScoreTolerance
}

// MessageKind classifies a status message for display.
type MessageKind string

// Message kinds.
const (
	MessageNormal  MessageKind = "normal"
	MessageSuccess MessageKind = "success"
	MessageError   MessageKind = "error"
)

// Status is the draft cursor plus the last human-readable message. Attempts
// counts the attempts the last auto draft used.
type Status struct {
	Cursor      int         `json:"current_pick_index"`
	Complete    bool        `json:"is_complete"`
	Progress    float64     `json:"progress"`
	Message     string      `json:"message"`
	MessageKind MessageKind `json:"message_type"`
	Solving     bool        `json:"is_solving"`
	Attempts    int         `json:"last_solve_attempts"`
}

// Snapshot is an opaque, serializable copy of a whole draft.
type Snapshot struct {
	Settings   Settings    `json:"settings"`
	Candidates []Candidate `json:"candidates"`
	Teams      []Team      `json:"teams"`
	Order      []int       `json:"order"`
	Pool       []Candidate `json:"pool"`
	Status     Status      `json:"status"`
	Loaded     bool        `json:"loaded"`
}

// CloneCandidates returns a copy of cs.
func CloneCandidates(cs []Candidate) []Candidate {
	out := make([]Candidate, len(cs))
	copy(out, cs)
	return out
}

// CloneTeams returns a deep copy of ts.
func CloneTeams(ts []Team) []Team {
	out := make([]Team, len(ts))
	for i := range ts {
		out[i] = ts[i].Clone()
	}
	return out
}

// NameKey normalizes a candidate name for case-insensitive comparison.
func NameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
