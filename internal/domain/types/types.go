// Package types contains request and response shapes shared by the service,
// the HTTP API and the simulation tool.
package types

import (
	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/risk"
)

// DraftState is the full view of a session.
type DraftState struct {
	Session    string            `json:"session"`
	Loaded     bool              `json:"loaded"`
	Settings   model.Settings    `json:"settings"`
	Teams      []model.Team      `json:"teams"`
	Order      []int             `json:"order"`
	Pool       []model.Candidate `json:"pool"`
	Status     model.Status      `json:"status"`
	ActiveTeam *int              `json:"active_team,omitempty"`
	Candidates int               `json:"candidates"`
}

// LoadRequest starts a draft. Missing fields fall back to configured defaults.
type LoadRequest struct {
	TeamsCount       *int     `json:"teams_count,omitempty"`
	TeammatesPerTeam *int     `json:"teammates_per_team,omitempty"`
	MinScore         *float64 `json:"min_score,omitempty"`
	MaxScore         *float64 `json:"max_score,omitempty"`
}

// Apply overlays the set fields of r on defaults.
func (r LoadRequest) Apply(defaults model.Settings) model.Settings {
	s := defaults
	if r.TeamsCount != nil {
		s.TeamsCount = *r.TeamsCount
	}
	if r.TeammatesPerTeam != nil {
		s.TeammatesPerTeam = *r.TeammatesPerTeam
	}
	if r.MinScore != nil {
		s.MinScore = *r.MinScore
	}
	if r.MaxScore != nil {
		s.MaxScore = *r.MaxScore
	}
	return s
}

// PickRequest advances the draft. CandidateID set means a manual pick.
type PickRequest struct {
	RequestID   string `json:"request_id"`
	CandidateID *int   `json:"candidate_id,omitempty"`
}

// PickResponse reports whether a pick was committed.
type PickResponse struct {
	Picked    bool       `json:"picked"`
	Duplicate bool       `json:"duplicate,omitempty"`
	State     DraftState `json:"state"`
}

// SwapRequest exchanges two rostered candidates.
type SwapRequest struct {
	TeamA      int `json:"team_a"`
	CandidateA int `json:"candidate_a"`
	TeamB      int `json:"team_b"`
	CandidateB int `json:"candidate_b"`
}

// SolveAccepted acknowledges a queued auto draft.
type SolveAccepted struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// RiskResponse ranks the pool for the team on turn.
type RiskResponse struct {
	Team       int              `json:"team"`
	TeamName   string           `json:"team_name"`
	Candidates []risk.Annotated `json:"candidates"`
}

// ImportResponse summarizes an import.
type ImportResponse struct {
	Imported int `json:"imported"`
}

// PreviewResponse is a validated candidate list that was not imported.
type PreviewResponse struct {
	Count      int               `json:"count"`
	TotalScore float64           `json:"total_score"`
	Candidates []model.Candidate `json:"candidates"`
}

// Stats is a point-in-time summary of the service.
type Stats struct {
	Session       string  `json:"session"`
	Candidates    int     `json:"candidates"`
	Loaded        bool    `json:"loaded"`
	Cursor        int     `json:"cursor"`
	TotalPicks    int     `json:"total_picks"`
	Progress      float64 `json:"progress"`
	Complete      bool    `json:"complete"`
	Solving       bool    `json:"solving"`
	QueueSize     int     `json:"queue_size"`
	DedupeSize    int64   `json:"dedupe_size"`
	Picks         int64   `json:"picks"`
	Undos         int64   `json:"undos"`
	Swaps         int64   `json:"swaps"`
	Solves        int64   `json:"solves"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// UndoResponse reports whether a pick was reverted.
type UndoResponse struct {
	Undone bool       `json:"undone"`
	State  DraftState `json:"state"`
}
