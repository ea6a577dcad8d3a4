package model_test

import (
	"testing"

	model "github.com/sheexliies/ViperDraft/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestTeam(t *testing.T) {
	convey.Convey("Given a team with two filled slots", t, func() {
		team := model.Team{
			ID:         0,
			Name:       "Team 1",
			Score:      11,
			SlotTarget: 3,
			Roster: []model.RosterEntry{
				{Candidate: model.Candidate{ID: 4, Name: "A", Score: 5}, Pick: 0},
				{Candidate: model.Candidate{ID: 9, Name: "B", Score: 6}, Pick: 2},
			},
		}

		convey.Convey("Then slots left and lookups should reflect the roster", func() {
			convey.So(team.SlotsLeft(), convey.ShouldEqual, 1)
			convey.So(team.RosterScore(), convey.ShouldEqual, 11)
			convey.So(team.IndexOf(9), convey.ShouldEqual, 1)
			convey.So(team.IndexOf(7), convey.ShouldEqual, -1)
		})

		convey.Convey("When cloning the team", func() {
			clone := team.Clone()
			clone.Roster[0].Candidate.Name = "changed"
			clone.Roster = append(clone.Roster, model.RosterEntry{Candidate: model.Candidate{ID: 1}})

			convey.Convey("Then the original should be untouched", func() {
				convey.So(team.Roster[0].Candidate.Name, convey.ShouldEqual, "A")
				convey.So(len(team.Roster), convey.ShouldEqual, 2)
			})
		})
	})
}

func TestSettings(t *testing.T) {
	convey.Convey("Given settings for 2 teams of 3 with band [10, 12]", t, func() {
		s := model.Settings{TeamsCount: 2, TeammatesPerTeam: 3, MinScore: 10, MaxScore: 12}

		convey.Convey("Then total slots and band checks should hold", func() {
			convey.So(s.TotalSlots(), convey.ShouldEqual, 6)
			convey.So(s.InBand(10), convey.ShouldBeTrue)
			convey.So(s.InBand(12), convey.ShouldBeTrue)
			convey.So(s.InBand(9.99), convey.ShouldBeFalse)
			convey.So(s.InBand(12.01), convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given a single-point band of 3.3", t, func() {
		s := model.Settings{MinScore: 3.3, MaxScore: 3.3}
		a, b := 1.1, 2.2

		convey.Convey("Then a runtime sum that rounds past the bound is still in band", func() {
			convey.So(a+b, convey.ShouldBeGreaterThan, 3.3)
			convey.So(s.InBand(a+b), convey.ShouldBeTrue)
			convey.So(s.AboveMax(3.31), convey.ShouldBeTrue)
			convey.So(s.BelowMin(3.29), convey.ShouldBeTrue)
			convey.So(s.InBand(3.3+2*model.ScoreTolerance), convey.ShouldBeFalse)
		})
	})

	convey.Convey("Given names differing only by case and padding", t, func() {
		convey.So(model.NameKey("  Alice "), convey.ShouldEqual, model.NameKey("ALICE"))
	})
}
