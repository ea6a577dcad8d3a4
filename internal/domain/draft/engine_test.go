package draft_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sort"
	"testing"

	"github.com/sheexliies/ViperDraft/internal/domain/draft"
	"github.com/sheexliies/ViperDraft/internal/domain/feasibility"
	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/order"
	"github.com/sheexliies/ViperDraft/internal/domain/selection"
	. "github.com/smartystreets/goconvey/convey"
)

func candidates(scores ...float64) []model.Candidate {
	out := make([]model.Candidate, len(scores))
	for i, s := range scores {
		out[i] = model.Candidate{ID: i, Name: fmt.Sprintf("P%02d", i), Score: s}
	}
	return out
}

func seeded(seed uint64, opts ...draft.Option) *draft.Engine {
	sel := selection.NewSoftmax(selection.WithSource(rand.NewPCG(seed, seed^0x9e3779b9)))
	return draft.New(append([]draft.Option{draft.WithSelector(sel)}, opts...)...)
}

func scenarioEngine(seed uint64) *draft.Engine {
	e := seeded(seed)
	So(e.SetCandidates(candidates(5, 5, 6, 7)), ShouldBeNil)
	So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 10, MaxScore: 12}), ShouldBeNil)
	return e
}

func poolIDs(cs []model.Candidate) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.ID
	}
	sort.Ints(out)
	return out
}

// conserved asserts every imported candidate sits in exactly one place and
// team scores match their rosters.
func conserved(e *draft.Engine) {
	seen := map[int]int{}
	for _, t := range e.Teams() {
		sum := 0.0
		for _, r := range t.Roster {
			seen[r.Candidate.ID]++
			sum += r.Candidate.Score
		}
		So(t.Score, ShouldAlmostEqual, sum, 1e-9)
		So(len(t.Roster), ShouldBeLessThanOrEqualTo, t.SlotTarget)
	}
	for _, c := range e.Pool() {
		seen[c.ID]++
	}
	So(len(seen), ShouldEqual, len(e.Candidates()))
	for id, n := range seen {
		So(fmt.Sprintf("%d:%d", id, n), ShouldEqual, fmt.Sprintf("%d:1", id))
	}
}

func TestSetCandidates(t *testing.T) {
	Convey("Given a new engine", t, func() {
		e := draft.New()

		Convey("Duplicate ids are rejected", func() {
			cs := candidates(1, 2)
			cs[1].ID = 0
			So(errors.Is(e.SetCandidates(cs), draft.ErrInvalidCandidates), ShouldBeTrue)
		})

		Convey("Names are compared case-insensitively", func() {
			cs := candidates(1, 2)
			cs[0].Name, cs[1].Name = "Ann", " ann"
			So(errors.Is(e.SetCandidates(cs), draft.ErrInvalidCandidates), ShouldBeTrue)
		})

		Convey("Negative scores are rejected", func() {
			So(errors.Is(e.SetCandidates(candidates(1, -2)), draft.ErrInvalidCandidates), ShouldBeTrue)
		})

		Convey("A valid list is stored and the draft stays unloaded", func() {
			So(e.SetCandidates(candidates(1, 2, 3)), ShouldBeNil)
			So(len(e.Candidates()), ShouldEqual, 3)
			So(e.Loaded(), ShouldBeFalse)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("Given four imported candidates", t, func() {
		e := draft.New()
		cs := candidates(5, 5, 6, 7)
		cs[1].TeamHint = "Vipers"
		So(e.SetCandidates(cs), ShouldBeNil)

		Convey("Invalid settings are rejected before any state exists", func() {
			for _, s := range []model.Settings{
				{TeamsCount: 0, TeammatesPerTeam: 2, MaxScore: 1},
				{TeamsCount: 2, TeammatesPerTeam: -1, MaxScore: 1},
				{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: -1, MaxScore: 1},
				{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 5, MaxScore: 4},
			} {
				So(errors.Is(e.Load(s), draft.ErrInvalidSettings), ShouldBeTrue)
			}
			So(e.Loaded(), ShouldBeFalse)
		})

		Convey("A pool smaller than the slots is rejected", func() {
			err := e.Load(model.Settings{TeamsCount: 3, TeammatesPerTeam: 2, MaxScore: 20})
			So(errors.Is(err, draft.ErrInsufficientPool), ShouldBeTrue)
			So(e.Loaded(), ShouldBeFalse)
		})

		Convey("Loading builds teams, order and pool", func() {
			So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 10, MaxScore: 12}), ShouldBeNil)
			teams := e.Teams()
			So(len(teams), ShouldEqual, 2)
			So(teams[0].Name, ShouldEqual, "Team 1")
			So(teams[1].Name, ShouldEqual, "Vipers")
			So(teams[1].SlotTarget, ShouldEqual, 2)
			So(e.Order(), ShouldResemble, []int{0, 1, 0, 1})
			So(poolIDs(e.Pool()), ShouldResemble, []int{0, 1, 2, 3})
			So(e.Status().Cursor, ShouldEqual, 0)
			So(e.Status().Complete, ShouldBeFalse)
			active, ok := e.ActiveTeam()
			So(ok, ShouldBeTrue)
			So(active, ShouldEqual, 0)
		})

		Convey("Snake mode reverses odd rounds", func() {
			e := draft.New(draft.WithOrderMode(order.Snake))
			So(e.SetCandidates(cs), ShouldBeNil)
			So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MaxScore: 20}), ShouldBeNil)
			So(e.Order(), ShouldResemble, []int{0, 1, 1, 0})
		})

		Convey("Reset keeps the candidates and Clear drops them", func() {
			So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MaxScore: 20}), ShouldBeNil)
			e.Reset()
			So(e.Loaded(), ShouldBeFalse)
			So(len(e.Candidates()), ShouldEqual, 4)
			e.Clear()
			So(len(e.Candidates()), ShouldEqual, 0)
		})
	})
}

func TestPickAndUndo(t *testing.T) {
	Convey("Given the band [10, 12] scenario", t, func() {
		e := scenarioEngine(7)
		ctx := context.Background()

		Convey("Picking before loading fails", func() {
			_, err := draft.New().Pick(ctx, nil)
			So(errors.Is(err, draft.ErrNotLoaded), ShouldBeTrue)
		})

		Convey("Undo at the start is a no-op", func() {
			So(e.Undo(), ShouldBeFalse)
			So(e.Status().Cursor, ShouldEqual, 0)
		})

		Convey("An automatic pick commits one candidate", func() {
			ok, err := e.Pick(ctx, nil)
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			st := e.Status()
			So(st.Cursor, ShouldEqual, 1)
			So(st.Progress, ShouldEqual, 25)
			So(st.Message, ShouldStartWith, "Round 1: Team 1 picked")
			So(len(e.Teams()[0].Roster), ShouldEqual, 1)
			So(e.Teams()[0].Roster[0].Pick, ShouldEqual, 0)
			So(len(e.Pool()), ShouldEqual, 3)
			conserved(e)
		})

		Convey("Undo restores teams, pool and cursor", func() {
			_, err := e.Pick(ctx, nil)
			So(err, ShouldBeNil)
			before := e.Snapshot()
			_, err = e.Pick(ctx, nil)
			So(err, ShouldBeNil)

			So(e.Undo(), ShouldBeTrue)
			after := e.Snapshot()
			So(after.Teams, ShouldResemble, before.Teams)
			So(poolIDs(after.Pool), ShouldResemble, poolIDs(before.Pool))
			So(after.Status.Cursor, ShouldEqual, before.Status.Cursor)
			So(after.Status.Complete, ShouldBeFalse)
			So(after.Status.Message, ShouldStartWith, "Undid Team 2's pick")
		})

		Convey("A manual pick bypasses the band", func() {
			ok, err := e.Pick(ctx, &model.Candidate{ID: 3})
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			ok, err = e.Pick(ctx, &model.Candidate{ID: 2})
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			ok, err = e.Pick(ctx, &model.Candidate{ID: 0})
			So(err, ShouldBeNil)
			So(ok, ShouldBeTrue)
			So(e.Teams()[0].Score, ShouldEqual, 12)
			conserved(e)
		})

		Convey("A manual pick of an unavailable candidate changes nothing", func() {
			_, err := e.Pick(ctx, &model.Candidate{ID: 0})
			So(err, ShouldBeNil)
			before := e.Snapshot()
			ok, err := e.Pick(ctx, &model.Candidate{ID: 0})
			So(ok, ShouldBeFalse)
			So(errors.Is(err, draft.ErrCandidateUnavailable), ShouldBeTrue)
			So(e.Snapshot().Teams, ShouldResemble, before.Teams)
			So(e.Status().Cursor, ShouldEqual, 1)
		})

		Convey("Picking past the end is a no-op", func() {
			res := e.SolveRemaining(ctx, 0)
			So(res.Success, ShouldBeTrue)
			ok, err := e.Pick(ctx, nil)
			So(ok, ShouldBeFalse)
			So(err, ShouldBeNil)
			So(e.Status().Complete, ShouldBeTrue)
			So(e.Status().Cursor, ShouldEqual, 4)
		})
	})

	Convey("Given a pool that can never fit the band", t, func() {
		e := draft.New()
		So(e.SetCandidates(candidates(20, 20, 20, 20)), ShouldBeNil)
		So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 10, MaxScore: 12}), ShouldBeNil)

		Convey("An automatic pick reports the stuck team and leaves state alone", func() {
			ok, err := e.Pick(context.Background(), nil)
			So(ok, ShouldBeFalse)
			So(errors.Is(err, draft.ErrInfeasible), ShouldBeTrue)
			So(errors.Is(err, feasibility.ErrNoValidCandidate), ShouldBeTrue)
			var ie *draft.InfeasibleError
			So(errors.As(err, &ie), ShouldBeTrue)
			So(ie.TeamName, ShouldEqual, "Team 1")
			So(e.Status().Cursor, ShouldEqual, 0)
			So(e.Status().MessageKind, ShouldEqual, model.MessageError)
			So(len(e.Pool()), ShouldEqual, 4)
		})
	})
}

func TestSolveRemaining(t *testing.T) {
	Convey("Given the band [10, 12] scenario", t, func() {
		ctx := context.Background()

		Convey("Every seed converges with both teams in band", func() {
			for seed := uint64(1); seed <= 25; seed++ {
				e := scenarioEngine(seed)
				res := e.SolveRemaining(ctx, 0)
				So(res.Success, ShouldBeTrue)
				So(res.Err, ShouldBeNil)
				So(res.Attempts, ShouldBeGreaterThanOrEqualTo, 1)
				for _, team := range e.Teams() {
					So(team.Score, ShouldBeBetweenOrEqual, 10, 12)
					So(len(team.Roster), ShouldEqual, 2)
				}
				So(e.Status().Complete, ShouldBeTrue)
				So(e.Status().Progress, ShouldEqual, 100)
				So(e.Status().Message, ShouldStartWith, "Auto draft complete")
				So(e.Status().Attempts, ShouldEqual, res.Attempts)
				conserved(e)
			}
		})

		Convey("Solving continues from a partial draft", func() {
			e := scenarioEngine(3)
			_, err := e.Pick(ctx, nil)
			So(err, ShouldBeNil)
			first := e.Teams()[0].Roster[0]

			So(e.SolveRemaining(ctx, 0).Success, ShouldBeTrue)
			So(e.Teams()[0].Roster[0], ShouldResemble, first)
		})

		Convey("A cancelled context commits nothing", func() {
			e := scenarioEngine(3)
			e.SetSolving(true)
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			res := e.SolveRemaining(cctx, 0)
			So(res.Success, ShouldBeFalse)
			So(errors.Is(res.Err, context.Canceled), ShouldBeTrue)
			So(res.Attempts, ShouldEqual, 0)
			So(e.Status().Cursor, ShouldEqual, 0)
			So(e.Status().Solving, ShouldBeFalse)
		})
	})

	Convey("Given a pool that can never fit the band", t, func() {
		e := draft.New(draft.WithMaxAttempts(3))
		So(e.SetCandidates(candidates(20, 20, 20, 20)), ShouldBeNil)
		So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 10, MaxScore: 12}), ShouldBeNil)

		Convey("The solver exhausts its budget and reports it", func() {
			res := e.SolveRemaining(context.Background(), 0)
			So(res.Success, ShouldBeFalse)
			So(res.Attempts, ShouldEqual, 3)
			So(errors.Is(res.Err, draft.ErrExhausted), ShouldBeTrue)
			So(errors.Is(res.Err, draft.ErrInfeasible), ShouldBeTrue)
			So(e.Status().Complete, ShouldBeFalse)
			So(e.Status().Message, ShouldStartWith, "Auto draft failed after 3 attempts")
			So(e.Status().Attempts, ShouldEqual, 3)
			conserved(e)

			Convey("Reloading clears the attempt count", func() {
				So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 10, MaxScore: 12}), ShouldBeNil)
				So(e.Status().Attempts, ShouldEqual, 0)
			})
		})

		Convey("An explicit budget overrides the default", func() {
			res := e.SolveRemaining(context.Background(), 7)
			So(res.Attempts, ShouldEqual, 7)
			So(e.Status().Attempts, ShouldEqual, 7)
		})
	})

	Convey("Given a band only the first team can reach", t, func() {
		// Team 1 takes the lone 9 and finishes; team 2 is left with 1s.
		e := seeded(11, draft.WithMaxAttempts(5))
		So(e.SetCandidates(candidates(9, 1, 1, 1)), ShouldBeNil)
		So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 10, MaxScore: 10}), ShouldBeNil)

		Convey("The last partial attempt is committed", func() {
			res := e.SolveRemaining(context.Background(), 0)
			So(res.Success, ShouldBeFalse)
			So(errors.Is(res.Err, draft.ErrExhausted), ShouldBeTrue)
			So(e.Status().Cursor, ShouldBeGreaterThan, 0)
			So(e.Status().Complete, ShouldBeFalse)
			conserved(e)
		})
	})
}

func TestSolveDecimalBand(t *testing.T) {
	Convey("Given decimal scores summing exactly to a single-point band", t, func() {
		e := seeded(1)
		So(e.SetCandidates(candidates(1.1, 2.2)), ShouldBeNil)
		So(e.Load(model.Settings{TeamsCount: 1, TeammatesPerTeam: 2, MinScore: 3.3, MaxScore: 3.3}), ShouldBeNil)

		Convey("The first attempt completes the draft", func() {
			res := e.SolveRemaining(context.Background(), 50)
			So(res.Err, ShouldBeNil)
			So(res.Success, ShouldBeTrue)
			So(res.Attempts, ShouldEqual, 1)
			So(e.Settings().InBand(e.Teams()[0].Score), ShouldBeTrue)
			conserved(e)
		})
	})
}

// manualBoard drafts A={5,15}=20 and B={7,8}=15 by hand.
func manualBoard() *draft.Engine {
	e := draft.New()
	So(e.SetCandidates(candidates(5, 15, 7, 8)), ShouldBeNil)
	So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 0, MaxScore: 100}), ShouldBeNil)
	for _, id := range []int{0, 2, 1, 3} {
		ok, err := e.Pick(context.Background(), &model.Candidate{ID: id})
		So(err, ShouldBeNil)
		So(ok, ShouldBeTrue)
	}
	return e
}

func TestSwap(t *testing.T) {
	Convey("Given A=20 holding a 5 and B=15 holding a 7", t, func() {
		e := manualBoard()
		So(e.Teams()[0].Score, ShouldEqual, 20)
		So(e.Teams()[1].Score, ShouldEqual, 15)

		Convey("Swapping the 5 and the 7 gives A=22 and B=13", func() {
			So(e.Swap(0, 0, 1, 2), ShouldBeNil)
			teams := e.Teams()
			So(teams[0].Score, ShouldEqual, 22)
			So(teams[1].Score, ShouldEqual, 13)
			So(teams[0].Roster[0].Candidate.ID, ShouldEqual, 2)
			So(teams[1].Roster[0].Candidate.ID, ShouldEqual, 0)
			So(teams[0].Roster[0].Pick, ShouldEqual, 0)
			So(teams[1].Roster[0].Pick, ShouldEqual, 1)
			conserved(e)

			Convey("Undo then unwinds slot by slot", func() {
				So(e.Undo(), ShouldBeTrue)
				So(e.Teams()[1].Score, ShouldEqual, 5)
				So(e.Undo(), ShouldBeTrue)
				So(e.Teams()[0].Score, ShouldEqual, 7)
				So(e.Undo(), ShouldBeTrue)
				So(e.Teams()[1].Score, ShouldEqual, 0)
				So(e.Undo(), ShouldBeTrue)
				So(e.Teams()[0].Score, ShouldEqual, 0)
				So(poolIDs(e.Pool()), ShouldResemble, []int{0, 1, 2, 3})
				So(e.Undo(), ShouldBeFalse)
				conserved(e)
			})
		})

		Convey("A same-team swap reorders without changing the score", func() {
			So(e.Swap(0, 0, 0, 1), ShouldBeNil)
			a := e.Teams()[0]
			So(a.Score, ShouldEqual, 20)
			So(a.Roster[0].Candidate.ID, ShouldEqual, 1)
			So(a.Roster[1].Candidate.ID, ShouldEqual, 0)
		})

		Convey("Swapping a candidate with itself is a no-op", func() {
			before := e.Teams()
			So(e.Swap(1, 2, 1, 2), ShouldBeNil)
			So(e.Teams(), ShouldResemble, before)
		})

		Convey("Unknown teams and candidates are rejected", func() {
			So(errors.Is(e.Swap(0, 0, 5, 2), draft.ErrTeamNotFound), ShouldBeTrue)
			So(errors.Is(e.Swap(-1, 0, 1, 2), draft.ErrTeamNotFound), ShouldBeTrue)
			So(errors.Is(e.Swap(0, 2, 1, 2), draft.ErrCandidateNotRostered), ShouldBeTrue)
			So(errors.Is(e.Swap(0, 0, 1, 0), draft.ErrCandidateNotRostered), ShouldBeTrue)
		})
	})
}

func TestSwapUndoKeepsRosterSums(t *testing.T) {
	Convey("Given a manual draft of decimal scores", t, func() {
		e := draft.New()
		So(e.SetCandidates(candidates(0.1, 0.2, 0.7, 0.4)), ShouldBeNil)
		So(e.Load(model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 0, MaxScore: 10}), ShouldBeNil)
		for _, id := range []int{0, 2, 1, 3} {
			_, err := e.Pick(context.Background(), &model.Candidate{ID: id})
			So(err, ShouldBeNil)
		}

		Convey("Scores equal the roster sums after a swap and every undo", func() {
			So(e.Swap(0, 0, 1, 2), ShouldBeNil)
			for _, team := range e.Teams() {
				So(team.Score, ShouldEqual, team.RosterScore())
			}
			for e.Undo() {
				for _, team := range e.Teams() {
					So(team.Score, ShouldEqual, team.RosterScore())
				}
			}
			for _, team := range e.Teams() {
				So(team.Score, ShouldEqual, 0)
			}
		})
	})
}

func TestSnapshotRestore(t *testing.T) {
	Convey("Given a draft halfway through", t, func() {
		e := scenarioEngine(5)
		_, err := e.Pick(context.Background(), nil)
		So(err, ShouldBeNil)
		_, err = e.Pick(context.Background(), nil)
		So(err, ShouldBeNil)
		e.SetSolving(true)

		raw, err := json.Marshal(e.Snapshot())
		So(err, ShouldBeNil)
		var snap model.Snapshot
		So(json.Unmarshal(raw, &snap), ShouldBeNil)

		Convey("Restoring into a fresh engine reproduces it without the solve flag", func() {
			other := draft.New()
			So(other.Restore(snap), ShouldBeNil)
			So(other.Teams(), ShouldResemble, e.Teams())
			So(other.Pool(), ShouldResemble, e.Pool())
			So(other.Order(), ShouldResemble, e.Order())
			So(other.Status().Cursor, ShouldEqual, 2)
			So(other.Status().Solving, ShouldBeFalse)
			So(other.Loaded(), ShouldBeTrue)

			So(other.SolveRemaining(context.Background(), 0).Success, ShouldBeTrue)
			conserved(other)
		})

		Convey("A candidate in two places is rejected", func() {
			snap.Pool = append(snap.Pool, snap.Teams[0].Roster[0].Candidate)
			So(errors.Is(draft.New().Restore(snap), draft.ErrInvalidSnapshot), ShouldBeTrue)
		})

		Convey("A score that disagrees with the roster is rejected", func() {
			snap.Teams[1].Score += 1
			So(errors.Is(draft.New().Restore(snap), draft.ErrInvalidSnapshot), ShouldBeTrue)
		})

		Convey("A cursor out of range is rejected", func() {
			snap.Status.Cursor = 9
			So(errors.Is(draft.New().Restore(snap), draft.ErrInvalidSnapshot), ShouldBeTrue)
		})

		Convey("An unloaded snapshot restores only the candidates", func() {
			other := draft.New()
			So(other.Restore(model.Snapshot{Candidates: candidates(1, 2)}), ShouldBeNil)
			So(other.Loaded(), ShouldBeFalse)
			So(len(other.Candidates()), ShouldEqual, 2)
		})
	})
}

func TestRisk(t *testing.T) {
	Convey("Given the band [10, 12] scenario", t, func() {
		e := scenarioEngine(1)

		Convey("The pool is ranked for the team on turn", func() {
			ranked := e.Risk("")
			So(len(ranked), ShouldEqual, 4)
			So(ranked[0].Risk.Level, ShouldBeLessThanOrEqualTo, ranked[3].Risk.Level)
		})

		Convey("A query filters by name", func() {
			So(len(e.Risk("p03")), ShouldEqual, 1)
			So(len(e.Risk("nobody")), ShouldEqual, 0)
		})

		Convey("A finished draft has no team on turn", func() {
			So(e.SolveRemaining(context.Background(), 0).Success, ShouldBeTrue)
			So(e.Risk(""), ShouldBeNil)
		})
	})
}

func TestOperationsConserveCandidates(t *testing.T) {
	Convey("Random sequences of operations keep every candidate in one place", t, func() {
		ctx := context.Background()
		for seed := uint64(1); seed <= 10; seed++ {
			rng := rand.New(rand.NewPCG(seed, 99))
			scores := make([]float64, 12)
			for i := range scores {
				scores[i] = float64(rng.IntN(10))
			}
			e := seeded(seed, draft.WithMaxAttempts(20))
			So(e.SetCandidates(candidates(scores...)), ShouldBeNil)
			So(e.Load(model.Settings{TeamsCount: 3, TeammatesPerTeam: 3, MinScore: 8, MaxScore: 18}), ShouldBeNil)

			for step := 0; step < 40; step++ {
				switch rng.IntN(5) {
				case 0, 1:
					_, _ = e.Pick(ctx, nil)
				case 2:
					if pool := e.Pool(); len(pool) > 0 {
						_, _ = e.Pick(ctx, &pool[rng.IntN(len(pool))])
					}
				case 3:
					e.Undo()
				case 4:
					teams := e.Teams()
					a, b := rng.IntN(len(teams)), rng.IntN(len(teams))
					if len(teams[a].Roster) > 0 && len(teams[b].Roster) > 0 {
						ca := teams[a].Roster[rng.IntN(len(teams[a].Roster))].Candidate.ID
						cb := teams[b].Roster[rng.IntN(len(teams[b].Roster))].Candidate.ID
						So(e.Swap(a, ca, b, cb), ShouldBeNil)
					}
				}
				conserved(e)
				So(e.Status().Complete, ShouldEqual, e.Status().Cursor == len(e.Order()))
			}
			e.SolveRemaining(ctx, 0)
			conserved(e)
		}
	})
}
