// Package synastry scores the compatibility of two people from one
// person's point of view and aggregates both views.
package synastry

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/okian/synastry/internal/domain/ascendant"
	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/houses"
	"github.com/okian/synastry/internal/domain/kuja"
	"github.com/okian/synastry/internal/domain/numerology"
	"github.com/okian/synastry/internal/domain/overlay"
	"github.com/okian/synastry/internal/domain/strength"
)

// DefaultSunMoonBonus is added when a Sun/Moon cross lands in the same house.
const DefaultSunMoonBonus = 5.0

// Scorer is immutable after construction and safe for concurrent use.
type Scorer struct {
	weights      Weights
	table        *ascendant.Table
	penalties    kuja.Penalties
	kujaOpts     []kuja.Option
	sunMoonBonus float64
	rules        *overlay.RuleSet
	renormalize  bool
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithWeights overrides module weights; modules not present keep defaults.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		for k, v := range w {
			if v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
				s.weights[k] = v
			}
		}
	}
}

// WithAscendantTable replaces the embedded ascendant table.
func WithAscendantTable(t *ascendant.Table) Option {
	return func(s *Scorer) {
		if t != nil {
			s.table = t
		}
	}
}

// WithKujaPenalties sets the dosha penalties.
func WithKujaPenalties(p kuja.Penalties) Option {
	return func(s *Scorer) { s.penalties = p }
}

// WithKujaOptions configures dosha detection.
func WithKujaOptions(opts ...kuja.Option) Option {
	return func(s *Scorer) { s.kujaOpts = append(s.kujaOpts, opts...) }
}

// WithSunMoonBonus sets the same-house Sun/Moon bonus.
func WithSunMoonBonus(v float64) Option {
	return func(s *Scorer) { s.sunMoonBonus = v }
}

// WithRenormalizedBase controls whether the base percent is divided by the
// weight of the modules that ran. Off, omitted modules count as zero.
func WithRenormalizedBase(on bool) Option {
	return func(s *Scorer) { s.renormalize = on }
}

// WithOverlayRules replaces the overlay rules.
func WithOverlayRules(rs *overlay.RuleSet) Option {
	return func(s *Scorer) {
		if rs != nil {
			s.rules = rs
		}
	}
}

// NewScorer builds a Scorer with defaults.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{
		weights:      DefaultWeights(),
		table:        ascendant.Default(),
		penalties:    kuja.DefaultPenalties,
		sunMoonBonus: DefaultSunMoonBonus,
		rules:        overlay.DefaultRules(),
		renormalize:  true,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Weights returns a copy of the active weights.
func (s *Scorer) Weights() Weights {
	out := make(Weights, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}

// oppositeSex is true only when both genders are known and differ.
func oppositeSex(a, b chart.Profile) bool {
	return a.Gender != chart.GenderUnknown && b.Gender != chart.GenderUnknown && a.Gender != b.Gender
}

// Score computes the report of pair (a,b) seen from dir.
func (s *Scorer) Score(a, b chart.Person, dir Direction) Report {
	from, to := dir.Orient(a, b)
	fromSide, _ := dir.Sides()
	opposite := oppositeSex(from.Profile, to.Profile)

	r := Report{Direction: dir}
	skip := func(k ModuleKey, reason string) {
		r.Skipped = append(r.Skipped, Skipped{Key: k, Reason: reason})
	}
	add := func(m ModuleResult) {
		m.Title = m.Key.Title()
		m.Weight = s.weights[m.Key]
		if m.Weight <= 0 {
			skip(m.Key, ReasonZeroWeight)
			return
		}
		r.Modules = append(r.Modules, m)
	}

	sameHouseCross := false
	for _, pm := range pairModules {
		if pm.oppositeSex && !opposite {
			skip(pm.key, ReasonNotOppositeSex)
			continue
		}
		d, ok := houses.PlanetDistance(from.Chart, pm.source, to.Chart, pm.target)
		if !ok {
			skip(pm.key, ReasonMissingPlanet)
			continue
		}
		raw := houses.AffinityBySignDistance(d-1) * pm.damping
		add(ModuleResult{
			Key:      pm.key,
			Percent:  round2(houses.Normalize(raw) * 100),
			Distance: d,
			Category: houses.DistCategory(d),
		})
		if (pm.key == ModuleSunMoon || pm.key == ModuleMoonSun) && d == 1 {
			sameHouseCross = true
		}
	}

	if back, ok := houses.PlanetDistance(to.Chart, chart.Moon, from.Chart, chart.Moon); ok {
		if m, ok := r.Module(ModuleMoonMoon); ok {
			r.MoonTier = houses.CombinedTier(m.Category, houses.DistCategory(back))
		}
	}

	s.scoreAscendant(&r, from, to, opposite, add, skip)

	if dirn, err := numerology.ComputeDirection(from.Profile.Birth, to.Profile.Birth); err != nil {
		skip(ModuleNumerology, ReasonUnparsableBirth)
	} else {
		r.Numerology = &dirn
		add(ModuleResult{Key: ModuleNumerology, Percent: dirn.Percent})
	}

	total := 1.0
	if s.renormalize {
		total = 0
		for _, m := range r.Modules {
			total += m.Weight
		}
	}
	base := 0.0
	if total > 0 {
		for i := range r.Modules {
			m := &r.Modules[i]
			c := m.Weight * m.Percent / total
			m.Contribution = round2(c)
			base += c
		}
	}
	r.BasePercent = round2(base)

	r.From.Doshas = kuja.Detect(from.Chart, s.kujaOpts...)
	r.To.Doshas = kuja.Detect(to.Chart, s.kujaOpts...)
	penalised := s.penalties.Apply(base, len(r.From.Doshas) > 0, len(r.To.Doshas) > 0)
	r.KujaPenalty = penalised.Penalty
	r.KujaKind = penalised.Kind
	r.KujaLabel = penalised.Label

	if sameHouseCross {
		r.SunMoonBonus = s.sunMoonBonus
	}
	r.FinalPercent = int(math.Round(math.Max(0, math.Min(100, penalised.Percent+r.SunMoonBonus))))

	if k, ok := strength.FindKarakas(from.Chart); ok {
		r.From.Karakas = &k
	}
	if k, ok := strength.FindKarakas(to.Chart); ok {
		r.To.Karakas = &k
	}
	r.Overlays = overlay.Compute(fromSide, from.Chart, to.Chart, s.rules)
	return r
}

func (s *Scorer) scoreAscendant(r *Report, from, to chart.Person, opposite bool, add func(ModuleResult), skip func(ModuleKey, string)) {
	fa, okA := from.Ascendant()
	ta, okB := to.Ascendant()
	if !okA || !okB {
		skip(ModuleAscendant, ReasonNoAscendant)
		return
	}
	e, ok := s.table.Lookup(fa, ta)
	if !ok {
		skip(ModuleAscendant, ReasonUnknownPair)
		return
	}
	r.Ascendant = &AscendantNote{From: fa, To: ta, Score: e.Score, Text: e.Description(!opposite)}
	add(ModuleResult{Key: ModuleAscendant, Percent: round2(e.Score * 100)})
}

// ScorePair computes both directions concurrently.
func (s *Scorer) ScorePair(ctx context.Context, a, b chart.Person) (PairReport, error) {
	var out PairReport
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.AtoB = s.Score(a, b, AtoB)
		return nil
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		out.BtoA = s.Score(a, b, BtoA)
		return nil
	})
	if err := g.Wait(); err != nil {
		return PairReport{}, err
	}
	return out, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
