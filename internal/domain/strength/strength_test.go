package strength_test

import (
	"math"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/strength"
)

func TestFinalStrength(t *testing.T) {
	Convey("Given planet strength inputs", t, func() {
		Convey("Neutral inputs should return the base", func() {
			So(strength.FinalStrength(strength.Inputs{BasePercent: 60}), ShouldEqual, 60)
		})

		Convey("Dignity should use the first matching multiplier", func() {
			x := strength.Inputs{BasePercent: 60, Exalted: true, Debilitated: true}
			So(strength.FinalStrength(x), ShouldEqual, 75)

			x = strength.Inputs{BasePercent: 60, Friendship: strength.FriendshipEnemy, Debilitated: true}
			So(strength.FinalStrength(x), ShouldEqual, 54)
		})

		Convey("House groups should take the maximum boost", func() {
			x := strength.Inputs{BasePercent: 50, Trikona: true, Kendra: true, Upachaya: true}
			So(strength.HouseMultiplier(x), ShouldEqual, 1.10)
			So(strength.FinalStrength(x), ShouldEqual, 55)
		})

		Convey("The 8/12 flag should cap the house multiplier", func() {
			x := strength.Inputs{BasePercent: 50, Kendra: true, Dusthana812: true}
			So(strength.HouseMultiplier(x), ShouldEqual, 0.92)
			So(strength.FinalStrength(x), ShouldEqual, 46)
		})

		Convey("Super-strong should override combustion", func() {
			x := strength.Inputs{BasePercent: 50, SuperStrong: true, Combust: true}
			So(strength.FinalStrength(x), ShouldEqual, 58)

			x = strength.Inputs{BasePercent: 50, Combust: true}
			So(strength.FinalStrength(x), ShouldEqual, 42)
		})

		Convey("Composition should apply all terms in order", func() {
			x := strength.Inputs{
				BasePercent:      70,
				OwnSign:          true,
				Kendra:           true,
				Digbala:          true,
				Role:             chart.RoleBenefic,
				WarLost:          true,
				AspectBonus:      3,
				ConjunctionBonus: -2,
				BorderPenalty:    -1,
			}
			// 70*1.10*1.06*1.10 = 89.782 + 4 - 8 + 0 = 85.782
			So(strength.FinalStrength(x), ShouldEqual, 86)
		})

		Convey("Output should stay in [0,100] for extreme inputs", func() {
			cases := []strength.Inputs{
				{BasePercent: 1000, Exalted: true, Role: chart.RoleStrongBenefic, AspectBonus: 50},
				{BasePercent: -50, Role: chart.RoleStrongMalefic, WarLost: true},
				{BasePercent: math.NaN()},
				{BasePercent: math.Inf(1)},
				{BasePercent: 40, AspectBonus: math.Inf(-1), ConjunctionBonus: math.NaN()},
			}
			for _, x := range cases {
				v := strength.FinalStrength(x)
				So(v, ShouldBeBetweenOrEqual, 0, 100)
			}
			So(strength.FinalStrength(cases[0]), ShouldEqual, 100)
			So(strength.FinalStrength(cases[1]), ShouldEqual, 0)
			So(strength.FinalStrength(cases[4]), ShouldEqual, 40)
		})
	})
}

func TestBasePercent(t *testing.T) {
	Convey("Given positional strengths", t, func() {
		So(strength.BasePercent(0.814), ShouldEqual, 81)
		So(strength.BasePercent(1.3), ShouldEqual, 100)
		So(strength.BasePercent(-0.2), ShouldEqual, 0)
		So(strength.BasePercent(math.NaN()), ShouldEqual, 0)
	})
}

func TestExtraction(t *testing.T) {
	Convey("Given a chart", t, func() {
		c := chart.Chart{Planets: []chart.Planet{
			{Name: chart.Sun, House: 10, HouseStrength: 0.8, Dignity: chart.DignityExalted},
			{Name: chart.Moon, House: 8, HouseStrength: 0.5, Dignity: chart.DignityEnemy},
			{Name: chart.Venus, House: 5, HouseStrength: 0.8},
			{Name: chart.Saturn, House: 3, HouseStrength: 0.2},
			{Name: chart.Rahu, House: 9, HouseStrength: 0.1},
		}}

		Convey("FromPlanet should derive house groups and friendship", func() {
			x := strength.FromPlanet(c.Planets[0])
			So(x.Kendra, ShouldBeTrue)
			So(x.Upachaya, ShouldBeTrue)
			So(x.Exalted, ShouldBeTrue)
			So(x.BasePercent, ShouldEqual, 80)

			y := strength.FromPlanet(c.Planets[1])
			So(y.Dusthana812, ShouldBeTrue)
			So(y.Friendship, ShouldEqual, strength.FriendshipEnemy)
		})

		Convey("ChartStrengths should score every planet", func() {
			s := strength.ChartStrengths(c)
			So(len(s), ShouldEqual, 5)
			// 80*1.25*1.06 = 106 -> 100
			So(s[0].Final, ShouldEqual, 100)
			// 50*0.90*0.92 = 41.4
			So(s[1].Final, ShouldEqual, 41)
		})

		Convey("Karakas should skip nodes and keep the first tie", func() {
			k, ok := strength.FindKarakas(c)
			So(ok, ShouldBeTrue)
			So(k.Atma, ShouldEqual, chart.Sun)
			So(k.Dara, ShouldEqual, chart.Saturn)
		})

		Convey("An empty chart has no karakas", func() {
			_, ok := strength.FindKarakas(chart.Chart{})
			So(ok, ShouldBeFalse)
		})
	})
}
