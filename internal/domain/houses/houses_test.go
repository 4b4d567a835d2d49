package houses_test

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/houses"
)

func TestDistance(t *testing.T) {
	Convey("Given house positions", t, func() {
		Convey("Same house should be distance 1", func() {
			So(houses.Distance(5, 5), ShouldEqual, 1)
		})

		Convey("Distance should wrap through the 12th house", func() {
			So(houses.Distance(11, 2), ShouldEqual, 4)
			So(houses.Distance(1, 12), ShouldEqual, 12)
		})

		Convey("Distance should always be within 1..12", func() {
			for a := 1; a <= 12; a++ {
				for b := 1; b <= 12; b++ {
					d := houses.Distance(a, b)
					So(d, ShouldBeBetweenOrEqual, 1, 12)
				}
			}
		})

		Convey("Distance should not be symmetric", func() {
			So(houses.Distance(1, 4), ShouldEqual, 4)
			So(houses.Distance(4, 1), ShouldEqual, 10)
		})
	})

	Convey("Given two charts", t, func() {
		a := chart.Chart{Planets: []chart.Planet{{Name: chart.Mars, House: 3}, {Name: chart.Venus, House: 9}}}
		b := chart.Chart{Planets: []chart.Planet{{Name: chart.Mars, House: 1}, {Name: chart.Venus, House: 6}}}

		Convey("Swapping charts should give a different distance", func() {
			ab, ok := houses.PlanetDistance(a, chart.Mars, b, chart.Venus)
			So(ok, ShouldBeTrue)
			ba, ok := houses.PlanetDistance(b, chart.Venus, a, chart.Mars)
			So(ok, ShouldBeTrue)
			So(ab, ShouldEqual, 4)
			So(ba, ShouldEqual, 10)
			So(ab, ShouldNotEqual, ba)
		})

		Convey("A missing planet should fail", func() {
			_, ok := houses.PlanetDistance(a, chart.Sun, b, chart.Venus)
			So(ok, ShouldBeFalse)
		})
	})
}

func TestDistCategory(t *testing.T) {
	Convey("Given every distance 1..12", t, func() {
		want := map[int]houses.Category{
			1: houses.Trikona, 2: houses.Mixed, 3: houses.Upachaya, 4: houses.Kendra,
			5: houses.Trikona, 6: houses.Dusthana, 7: houses.Kendra, 8: houses.Dusthana,
			9: houses.Trikona, 10: houses.Kendra, 11: houses.Upachaya, 12: houses.Dusthana,
		}
		for d := 1; d <= 12; d++ {
			So(houses.DistCategory(d), ShouldEqual, want[d])
		}
	})

	Convey("Given categories to combine", t, func() {
		So(houses.CombinedTier(houses.Trikona, houses.Kendra), ShouldEqual, houses.TierStrong)
		So(houses.CombinedTier(houses.Kendra, houses.Upachaya), ShouldEqual, houses.TierMedium)
		So(houses.CombinedTier(houses.Mixed, houses.Upachaya), ShouldEqual, houses.TierWeak)
		So(houses.CombinedTier(houses.Trikona, houses.Dusthana), ShouldEqual, houses.TierMedium)
		So(houses.CombinedTier(houses.Dusthana, houses.Dusthana), ShouldEqual, houses.TierWeak)
	})
}

func TestAffinity(t *testing.T) {
	Convey("Given the sign distance affinity table", t, func() {
		Convey("Values should stay within [-1,1]", func() {
			for i := 0; i < 12; i++ {
				v := houses.AffinityBySignDistance(i)
				So(v, ShouldBeBetweenOrEqual, -1, 1)
			}
		})

		Convey("Same sign and trines should be positive, dusthanas negative", func() {
			So(houses.AffinityBySignDistance(0), ShouldEqual, 1.0)
			So(houses.AffinityBySignDistance(4), ShouldBeGreaterThan, 0)
			So(houses.AffinityBySignDistance(8), ShouldBeGreaterThan, 0)
			So(houses.AffinityBySignDistance(5), ShouldBeLessThan, 0)
			So(houses.AffinityBySignDistance(7), ShouldBeLessThan, 0)
			So(houses.AffinityBySignDistance(11), ShouldBeLessThan, 0)
		})

		Convey("Normalize should map [-1,1] onto [0,1]", func() {
			So(houses.Normalize(-1), ShouldEqual, 0)
			So(houses.Normalize(0), ShouldEqual, 0.5)
			So(houses.Normalize(1), ShouldEqual, 1)
		})
	})
}
