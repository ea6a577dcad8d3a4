package risk_test

import (
	"testing"

	"github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/sheexliies/ViperDraft/internal/domain/risk"
	. "github.com/smartystreets/goconvey/convey"
)

func scenario() ([]model.Team, []model.Candidate, model.Settings) {
	teams := []model.Team{
		{ID: 0, Name: "Red", SlotTarget: 2},
		{ID: 1, Name: "Blue", SlotTarget: 2},
	}
	pool := []model.Candidate{
		{ID: 0, Name: "Ann", Score: 5},
		{ID: 1, Name: "Bob", Score: 5},
		{ID: 2, Name: "Cid", Score: 6},
		{ID: 3, Name: "Dee", Score: 7},
	}
	return teams, pool, model.Settings{TeamsCount: 2, TeammatesPerTeam: 2, MinScore: 10, MaxScore: 12}
}

func TestAnalyze(t *testing.T) {
	Convey("Given two empty teams, band [10, 12] and pool {5, 5, 6, 7}", t, func() {
		teams, pool, s := scenario()

		Convey("When assessing a 5 for the first team", func() {
			a := risk.Analyze(0, pool[0], pool, teams, s, 2)

			Convey("Then the follow-up options should stay intact", func() {
				So(a.Level, ShouldEqual, risk.LevelSafe)
				So(a.Status, ShouldEqual, risk.StatusSafe)
				So(a.Description, ShouldContainSubstring, "3 valid follow-up")
			})
		})

		Convey("When assessing a 6 for the first team", func() {
			a := risk.Analyze(0, pool[2], pool, teams, s, 2)

			Convey("Then it should be feasible but tighter", func() {
				So(a.Level, ShouldEqual, risk.LevelTight)
				So(a.Description, ShouldContainSubstring, "from 3 to 2")
			})
		})

		Convey("When the team already holds 7 and one slot is left", func() {
			teams[0].Roster = []model.RosterEntry{{Candidate: model.Candidate{ID: 9, Name: "Eve", Score: 7}, Pick: 0}}
			teams[0].Score = 7
			rest := pool[:3]

			Convey("Then a 6 should break the band and a 5 should complete it", func() {
				over := risk.Analyze(0, pool[2], rest, teams, s, 2)
				So(over.Level, ShouldEqual, risk.LevelInfeasible)
				So(over.Status, ShouldEqual, risk.StatusInfeasible)
				So(over.Description, ShouldContainSubstring, "max score")

				done := risk.Analyze(0, pool[0], rest, teams, s, 2)
				So(done.Level, ShouldEqual, risk.LevelSafe)
				So(done.Description, ShouldContainSubstring, "Completes Red at 12")
			})
		})

		Convey("When the band is out of reach from below", func() {
			s.MinScore, s.MaxScore = 30, 40
			a := risk.Analyze(1, pool[3], pool, teams, s, 2)

			Convey("Then the candidate should be infeasible", func() {
				So(a.Level, ShouldEqual, risk.LevelInfeasible)
				So(a.Description, ShouldContainSubstring, "min score")
			})
		})

		Convey("When the team is unknown or full", func() {
			teams[1].Roster = make([]model.RosterEntry, 2)
			So(risk.Analyze(7, pool[0], pool, teams, s, 2).Level, ShouldEqual, risk.LevelInfeasible)
			So(risk.Analyze(1, pool[0], pool, teams, s, 2).Level, ShouldEqual, risk.LevelInfeasible)
		})

		Convey("When analyzing, inputs should not be mutated", func() {
			before := model.CloneCandidates(pool)
			_ = risk.Rank(0, pool, teams, s, 2)
			So(pool, ShouldResemble, before)
			So(len(teams[0].Roster), ShouldEqual, 0)
		})
	})
}

func TestRank(t *testing.T) {
	Convey("Given the scenario pool", t, func() {
		teams, pool, s := scenario()
		ranked := risk.Rank(0, pool, teams, s, 2)

		Convey("Then safer candidates should come first and ties should sort by score", func() {
			got := make([]int, len(ranked))
			for i, a := range ranked {
				got[i] = a.Candidate.ID
			}
			So(got, ShouldResemble, []int{0, 1, 3, 2})
			So(ranked[2].Risk.Level, ShouldEqual, risk.LevelTight)
		})

		Convey("Then a name search should filter case-insensitively", func() {
			found := risk.Search(ranked, "dE")
			So(len(found), ShouldEqual, 1)
			So(found[0].Candidate.Name, ShouldEqual, "Dee")
			So(len(risk.Search(ranked, "  ")), ShouldEqual, 4)
		})
	})

	Convey("Given a full team", t, func() {
		teams, pool, s := scenario()
		teams[0].Roster = make([]model.RosterEntry, 2)
		ranked := risk.Rank(0, pool, teams, s, 2)

		Convey("Then every candidate should be infeasible", func() {
			for _, a := range ranked {
				So(a.Risk.Level, ShouldEqual, risk.LevelInfeasible)
			}
		})
	})
}
