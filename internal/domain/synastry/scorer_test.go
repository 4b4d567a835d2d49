package synastry_test

import (
	"context"
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/houses"
	"github.com/okian/synastry/internal/domain/kuja"
	"github.com/okian/synastry/internal/domain/synastry"
)

func anna() chart.Person {
	return chart.Person{
		Profile: chart.Profile{Name: "Анна", Birth: "25.02.1992", Gender: chart.GenderFemale},
		Chart: chart.Chart{AscSign: chart.Aries, Planets: []chart.Planet{
			{Name: chart.Sun, House: 11, HouseStrength: 0.7},
			{Name: chart.Moon, House: 3, HouseStrength: 0.4},
			{Name: chart.Venus, House: 1, HouseStrength: 0.9},
			{Name: chart.Mars, House: 10, HouseStrength: 0.6},
		}},
	}
}

func mikhail() chart.Person {
	return chart.Person{
		Profile: chart.Profile{Name: "Михаил", Birth: "19.01.1985", Gender: chart.GenderMale},
		Chart: chart.Chart{AscSign: chart.Leo, Planets: []chart.Planet{
			{Name: chart.Sun, House: 6, HouseStrength: 0.3},
			{Name: chart.Moon, House: 7, HouseStrength: 0.8},
			{Name: chart.Venus, House: 5, HouseStrength: 0.5},
			{Name: chart.Mars, House: 1, HouseStrength: 0.6},
		}},
	}
}

func TestDefaultWeights(t *testing.T) {
	Convey("Default weights should sum to one", t, func() {
		So(synastry.DefaultWeights().Sum(), ShouldAlmostEqual, 1.0, 1e-9)
		So(len(synastry.DefaultWeights()), ShouldEqual, len(synastry.ModuleKeys))
	})
}

func TestScoreOppositeSex(t *testing.T) {
	Convey("Given Anna and Mikhail", t, func() {
		s := synastry.NewScorer()
		a, b := anna(), mikhail()

		Convey("When scoring A to B", func() {
			r := s.Score(a, b, synastry.AtoB)

			Convey("All modules should be included", func() {
				So(len(r.Modules), ShouldEqual, 8)
				So(r.Skipped, ShouldBeEmpty)
			})

			Convey("Planet pair modules should follow house distances", func() {
				m, _ := r.Module(synastry.ModuleMoonMoon)
				So(m.Distance, ShouldEqual, 5)
				So(m.Category, ShouldEqual, houses.Trikona)
				So(m.Percent, ShouldEqual, 87.5)

				m, _ = r.Module(synastry.ModuleSunSun)
				So(m.Distance, ShouldEqual, 8)
				So(m.Percent, ShouldEqual, 10)

				m, _ = r.Module(synastry.ModuleVenusMars)
				So(m.Distance, ShouldEqual, 1)
				So(m.Percent, ShouldEqual, 100)

				m, _ = r.Module(synastry.ModuleMarsVenus)
				So(m.Percent, ShouldEqual, 0)
			})

			Convey("Ascendant and numerology should be scored", func() {
				m, _ := r.Module(synastry.ModuleAscendant)
				So(m.Percent, ShouldEqual, 90)
				So(r.Ascendant.Text, ShouldContainSubstring, "Брак")

				m, _ = r.Module(synastry.ModuleNumerology)
				So(m.Percent, ShouldEqual, 75)
				So(r.Numerology.Sum, ShouldEqual, 4)
			})

			Convey("Both partners carry kuja-dosha", func() {
				So(r.From.Doshas, ShouldNotBeEmpty)
				So(r.To.Doshas, ShouldNotBeEmpty)
				So(r.KujaKind, ShouldEqual, kuja.KindBoth)
				So(r.KujaPenalty, ShouldEqual, 6)
			})

			Convey("Base and final should aggregate", func() {
				So(r.BasePercent, ShouldAlmostEqual, 71.19, 0.01)
				So(r.SunMoonBonus, ShouldEqual, 0)
				So(r.FinalPercent, ShouldEqual, 65)
				So(r.MoonTier, ShouldEqual, houses.TierStrong)

				sum := 0.0
				for _, m := range r.Modules {
					sum += m.Contribution
				}
				So(sum, ShouldAlmostEqual, r.BasePercent, 0.05)
			})

			Convey("Overlays should come from A", func() {
				So(r.Overlays, ShouldNotBeEmpty)
				for _, o := range r.Overlays {
					So(o.From, ShouldEqual, "A")
				}
			})

			Convey("Karakas should be picked per side", func() {
				So(r.From.Karakas.Atma, ShouldEqual, chart.Venus)
				So(r.To.Karakas.Dara, ShouldEqual, chart.Sun)
			})
		})

		Convey("When scoring B to A", func() {
			r := s.Score(a, b, synastry.BtoA)

			Convey("The view should differ", func() {
				m, _ := r.Module(synastry.ModuleSunSun)
				So(m.Distance, ShouldEqual, 6)
				So(m.Percent, ShouldEqual, 20)
				So(r.Numerology.Sum, ShouldEqual, 3)
				So(r.FinalPercent, ShouldEqual, 65)
				So(r.BasePercent, ShouldAlmostEqual, 70.94, 0.01)
				So(r.Overlays[0].From, ShouldEqual, "B")
			})
		})

		Convey("ScorePair should match single directions", func() {
			p, err := s.ScorePair(context.Background(), a, b)
			So(err, ShouldBeNil)
			So(p.AtoB, ShouldResemble, s.Score(a, b, synastry.AtoB))
			So(p.BtoA, ShouldResemble, s.Score(a, b, synastry.BtoA))
			So(p.Mean(), ShouldEqual, 65)
		})

		Convey("ScorePair should honour a cancelled context", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := s.ScorePair(ctx, a, b)
			So(err, ShouldEqual, context.Canceled)
		})
	})
}

func TestScoreSameSex(t *testing.T) {
	Convey("Given two women", t, func() {
		a, b := anna(), mikhail()
		b.Profile.Gender = chart.GenderFemale
		r := synastry.NewScorer().Score(a, b, synastry.AtoB)

		Convey("Cross modules should be skipped and weights renormalised", func() {
			So(len(r.Modules), ShouldEqual, 4)
			So(r.IsSkipped(synastry.ModuleSunMoon), ShouldBeTrue)
			So(r.IsSkipped(synastry.ModuleVenusMars), ShouldBeTrue)
			So(r.BasePercent, ShouldAlmostEqual, 73.57, 0.01)
			So(r.FinalPercent, ShouldEqual, 68)
		})

		Convey("The ascendant text should drop relationship sections", func() {
			So(r.Ascendant.Text, ShouldNotContainSubstring, "Брак")
		})
	})

	Convey("Given an unknown gender", t, func() {
		a, b := anna(), mikhail()
		a.Profile.Gender = chart.GenderUnknown
		r := synastry.NewScorer().Score(a, b, synastry.AtoB)
		So(r.IsSkipped(synastry.ModuleMoonSun), ShouldBeTrue)
	})
}

func TestScoreDegrades(t *testing.T) {
	Convey("Given charts with gaps", t, func() {
		a := chart.Person{
			Profile: chart.Profile{Gender: chart.GenderMale, Birth: "not a date"},
			Chart: chart.Chart{Planets: []chart.Planet{
				{Name: chart.Sun, House: 7},
				{Name: chart.Moon, House: 5},
				{Name: chart.Mars, House: 3},
			}},
		}
		b := chart.Person{
			Profile: chart.Profile{Gender: chart.GenderFemale},
			Chart: chart.Chart{Planets: []chart.Planet{
				{Name: chart.Sun, House: 1},
				{Name: chart.Moon, House: 7},
				{Name: chart.Mars, House: 11},
			}},
		}
		r := synastry.NewScorer().Score(a, b, synastry.AtoB)

		Convey("Missing data should omit single modules only", func() {
			So(r.IsSkipped(synastry.ModuleVenusMars), ShouldBeTrue)
			So(r.IsSkipped(synastry.ModuleMarsVenus), ShouldBeTrue)
			So(r.IsSkipped(synastry.ModuleAscendant), ShouldBeTrue)
			So(r.IsSkipped(synastry.ModuleNumerology), ShouldBeTrue)
			So(len(r.Modules), ShouldEqual, 4)
		})

		Convey("A same-house Sun to Moon cross should add the bonus", func() {
			m, _ := r.Module(synastry.ModuleSunMoon)
			So(m.Distance, ShouldEqual, 1)
			So(r.SunMoonBonus, ShouldEqual, synastry.DefaultSunMoonBonus)
			So(r.KujaKind, ShouldEqual, kuja.KindNone)
			So(r.BasePercent, ShouldAlmostEqual, 75.47, 0.01)
			So(r.FinalPercent, ShouldEqual, 80)
		})
	})

	Convey("Given empty charts", t, func() {
		r := synastry.NewScorer().Score(chart.Person{}, chart.Person{}, synastry.AtoB)
		So(r.Modules, ShouldBeEmpty)
		So(r.FinalPercent, ShouldEqual, 0)
	})
}

func TestScorerOptions(t *testing.T) {
	Convey("Given a scorer without numerology weight", t, func() {
		s := synastry.NewScorer(
			synastry.WithWeights(synastry.Weights{synastry.ModuleNumerology: 0}),
			synastry.WithKujaPenalties(kuja.Penalties{}),
			synastry.WithSunMoonBonus(0),
		)
		r := s.Score(anna(), mikhail(), synastry.AtoB)
		So(r.IsSkipped(synastry.ModuleNumerology), ShouldBeTrue)
		So(r.KujaPenalty, ShouldEqual, 0)
		So(s.Weights()[synastry.ModuleMoonMoon], ShouldEqual, 0.20)
	})
}

func TestBaseRenormalization(t *testing.T) {
	Convey("Given a same-sex pair where the cross modules are omitted", t, func() {
		a, b := anna(), mikhail()
		b.Profile.Gender = chart.GenderFemale

		Convey("The default base is weighted over the modules that ran", func() {
			r := synastry.NewScorer().Score(a, b, synastry.AtoB)
			num, den := 0.0, 0.0
			for _, m := range r.Modules {
				num += m.Weight * m.Percent
				den += m.Weight
			}
			So(den, ShouldBeLessThan, 1)
			So(r.BasePercent, ShouldAlmostEqual, num/den, 0.01)
		})

		Convey("Without renormalization omitted modules count as zero", func() {
			r := synastry.NewScorer(synastry.WithRenormalizedBase(false)).Score(a, b, synastry.AtoB)
			sum := 0.0
			for _, m := range r.Modules {
				sum += m.Weight * m.Percent
				So(m.Contribution, ShouldAlmostEqual, m.Weight*m.Percent, 0.01)
			}
			So(r.BasePercent, ShouldAlmostEqual, sum, 0.01)

			renorm := synastry.NewScorer().Score(a, b, synastry.AtoB)
			So(r.BasePercent, ShouldBeLessThan, renorm.BasePercent)
		})
	})
}

func TestDirection(t *testing.T) {
	Convey("Given the direction variant", t, func() {
		a, b := anna(), mikhail()
		from, to := synastry.BtoA.Orient(a, b)
		So(from.Profile.Name, ShouldEqual, "Михаил")
		So(to.Profile.Name, ShouldEqual, "Анна")
		So(synastry.AtoB.Reverse(), ShouldEqual, synastry.BtoA)

		var d synastry.Direction
		So(d.UnmarshalText([]byte("b_to_a")), ShouldBeNil)
		So(d, ShouldEqual, synastry.BtoA)
		So(d.UnmarshalText([]byte("sideways")), ShouldNotBeNil)
	})
}

func TestParseWeights(t *testing.T) {
	Convey("Given string-keyed weights", t, func() {
		Convey("Known modules are converted", func() {
			w, err := synastry.ParseWeights(map[string]float64{"moon_moon": 0.5, "numerology": 0})
			So(err, ShouldBeNil)
			So(w[synastry.ModuleMoonMoon], ShouldEqual, 0.5)
			So(w, ShouldContainKey, synastry.ModuleNumerology)
		})

		Convey("Unknown modules are rejected", func() {
			_, err := synastry.ParseWeights(map[string]float64{"jupiter_jupiter": 1})
			So(errors.Is(err, synastry.ErrUnknownModule), ShouldBeTrue)
		})

		Convey("Negative weights are rejected", func() {
			_, err := synastry.ParseWeights(map[string]float64{"sun_sun": -1})
			So(errors.Is(err, synastry.ErrInvalidWeight), ShouldBeTrue)
		})
	})
}
