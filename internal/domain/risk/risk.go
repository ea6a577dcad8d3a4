// Package risk classifies how picking a candidate now affects a team's
// ability to finish inside the band. It is read-only.
package risk

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sheexliies/ViperDraft/internal/domain/feasibility"
	"github.com/sheexliies/ViperDraft/internal/domain/model"
)

// Level orders assessments; lower is safer.
type Level int

// Levels.
const (
	LevelSafe Level = iota
	LevelTight
	LevelInfeasible
)

// Short status labels.
const (
	StatusSafe       = "Safe"
	StatusTight      = "Tight"
	StatusInfeasible = "Infeasible"
)

// Assessment is the risk of one pick for one team.
type Assessment struct {
	Level       Level  `json:"level"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// Annotated pairs a candidate with its assessment.
type Annotated struct {
	Candidate model.Candidate `json:"candidate"`
	Risk      Assessment      `json:"risk"`
}

// Analyze assesses candidate c for team teamIndex.
func Analyze(teamIndex int, c model.Candidate, pool []model.Candidate, teams []model.Team, s model.Settings, slotsPerTeam int) Assessment {
	a, err := newAnalyzer(teamIndex, pool, teams, s, slotsPerTeam)
	if err != nil {
		return infeasible(err.Error())
	}
	return a.assess(c)
}

// Rank assesses every candidate in pool for team teamIndex and sorts the
// result by level ascending, then score descending.
func Rank(teamIndex int, pool []model.Candidate, teams []model.Team, s model.Settings, slotsPerTeam int) []Annotated {
	out := make([]Annotated, len(pool))
	a, err := newAnalyzer(teamIndex, pool, teams, s, slotsPerTeam)
	for i, c := range pool {
		out[i].Candidate = c
		if err != nil {
			out[i].Risk = infeasible(err.Error())
			continue
		}
		out[i].Risk = a.assess(c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Risk.Level != out[j].Risk.Level {
			return out[i].Risk.Level < out[j].Risk.Level
		}
		return out[i].Candidate.Score > out[j].Candidate.Score
	})
	return out
}

// Search keeps the annotations whose candidate name contains q, ignoring case.
func Search(in []Annotated, q string) []Annotated {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return in
	}
	out := make([]Annotated, 0, len(in))
	for _, a := range in {
		if strings.Contains(strings.ToLower(a.Candidate.Name), q) {
			out = append(out, a)
		}
	}
	return out
}

type analyzer struct {
	team     model.Team
	pool     []model.Candidate
	settings model.Settings
	slots    int
	now      *feasibility.Evaluator
	validNow map[int]bool
}

func newAnalyzer(teamIndex int, pool []model.Candidate, teams []model.Team, s model.Settings, slots int) (*analyzer, error) {
	if teamIndex < 0 || teamIndex >= len(teams) {
		return nil, fmt.Errorf("%w: %d", feasibility.ErrUnknownTeam, teamIndex)
	}
	team := teams[teamIndex]
	now, err := feasibility.NewEvaluator(&team, pool, s, slots)
	if err != nil {
		return nil, err
	}
	valid := make(map[int]bool, len(pool))
	for _, c := range pool {
		if now.Check(c) == feasibility.Feasible {
			valid[c.ID] = true
		}
	}
	return &analyzer{team: team, pool: pool, settings: s, slots: slots, now: now, validNow: valid}, nil
}

func (a *analyzer) assess(c model.Candidate) Assessment {
	switch v := a.now.Check(c); v {
	case feasibility.Feasible:
	case feasibility.OverMax:
		return infeasible(fmt.Sprintf("Taking %s (%g) pushes %s past the max score %g even with the lowest remaining picks.",
			c.Name, c.Score, a.team.Name, a.settings.MaxScore))
	case feasibility.UnderMin:
		return infeasible(fmt.Sprintf("Taking %s (%g) leaves %s unable to reach the min score %g even with the highest remaining picks.",
			c.Name, c.Score, a.team.Name, a.settings.MinScore))
	default:
		return infeasible(fmt.Sprintf("Taking %s leaves too few candidates to fill %s (%s).", c.Name, a.team.Name, v))
	}

	final := a.team.Score + c.Score
	if a.now.SlotsLeft() == 1 {
		return Assessment{
			Level:       LevelSafe,
			Status:      StatusSafe,
			Description: fmt.Sprintf("Completes %s at %g, inside [%g, %g].", a.team.Name, final, a.settings.MinScore, a.settings.MaxScore),
		}
	}

	before := len(a.validNow)
	if a.validNow[c.ID] {
		before--
	}

	next := a.team.Clone()
	next.Roster = append(next.Roster, model.RosterEntry{Candidate: c, Pick: -1})
	next.Score = final
	rest := make([]model.Candidate, 0, len(a.pool))
	for _, o := range a.pool {
		if o.ID != c.ID {
			rest = append(rest, o)
		}
	}
	after := len(feasibility.Filter(0, []model.Team{next}, rest, a.settings, a.slots).Valid)

	switch {
	case after == 0:
		return infeasible(fmt.Sprintf("After taking %s no remaining candidate keeps %s within band.", c.Name, a.team.Name))
	case after < before:
		return Assessment{
			Level:       LevelTight,
			Status:      StatusTight,
			Description: fmt.Sprintf("Still feasible, but valid follow-up picks for %s drop from %d to %d.", a.team.Name, before, after),
		}
	default:
		return Assessment{
			Level:       LevelSafe,
			Status:      StatusSafe,
			Description: fmt.Sprintf("Keeps %s on track with %d valid follow-up picks.", a.team.Name, after),
		}
	}
}

func infeasible(desc string) Assessment {
	return Assessment{Level: LevelInfeasible, Status: StatusInfeasible, Description: desc}
}
