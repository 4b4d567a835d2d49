// Package kuja detects Mars affliction (kuja-dosha) and applies the pair
// penalty.
package kuja

import (
	"fmt"
	"math"

	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/houses"
)

// Dosha is one detected affliction.
type Dosha struct {
	House      int        `json:"house" yaml:"house"`
	Sign       chart.Sign `json:"sign" yaml:"sign"`
	IsRashi    bool       `json:"is_rashi" yaml:"is_rashi"`
	Emphasized bool       `json:"emphasized" yaml:"emphasized"`
}

type detector struct {
	risk     map[int]bool
	emphasis map[int]bool
}

// Option configures detection.
type Option func(*detector)

// WithRiskHouses replaces the afflicting houses.
func WithRiskHouses(h ...int) Option {
	return func(d *detector) { d.risk = set(h) }
}

// WithEmphasis replaces the houses flagged as emphasized.
func WithEmphasis(h ...int) Option {
	return func(d *detector) { d.emphasis = set(h) }
}

func set(h []int) map[int]bool {
	m := make(map[int]bool, len(h))
	for _, v := range h {
		m[v] = true
	}
	return m
}

// Detect checks Mars from the ascendant and, independently, from the Moon.
func Detect(c chart.Chart, opts ...Option) []Dosha {
	d := &detector{
		risk:     set([]int{1, 2, 4, 7, 8, 12}),
		emphasis: set([]int{1, 7, 8}),
	}
	for _, o := range opts {
		o(d)
	}

	mars, ok := c.Planet(chart.Mars)
	if !ok || mars.House < 1 || mars.House > 12 {
		return nil
	}
	sign, _ := c.SignOf(chart.Mars)

	var out []Dosha
	if d.risk[mars.House] {
		out = append(out, Dosha{House: mars.House, Sign: sign, Emphasized: d.emphasis[mars.House]})
	}
	if moon, ok := c.HouseOf(chart.Moon); ok {
		h := houses.Distance(moon, mars.House)
		if d.risk[h] {
			out = append(out, Dosha{House: h, Sign: sign, IsRashi: true, Emphasized: d.emphasis[h]})
		}
	}
	return out
}

// Has reports whether c carries any kuja-dosha.
func Has(c chart.Chart, opts ...Option) bool {
	return len(Detect(c, opts...)) > 0
}

// Kind says which partners are afflicted.
type Kind string

const (
	KindNone   Kind = "none"
	KindSingle Kind = "single"
	KindBoth   Kind = "both"
)

// Penalties are the fixed deductions in percentage points. Mutual
// affliction costs less than one-sided affliction.
type Penalties struct {
	Single float64 `json:"single" yaml:"single"`
	Both   float64 `json:"both" yaml:"both"`
}

// DefaultPenalties are the reference constants.
var DefaultPenalties = Penalties{Single: 12, Both: 6}

// Result is a penalised percentage.
type Result struct {
	Percent float64 `json:"percent" yaml:"percent"`
	Penalty float64 `json:"penalty" yaml:"penalty"`
	Kind    Kind    `json:"kind" yaml:"kind"`
	Label   string  `json:"label" yaml:"label"`
}

// Apply subtracts the penalty from base and clamps to [0,100].
func (p Penalties) Apply(base float64, hasA, hasB bool) Result {
	r := Result{Kind: KindNone}
	switch {
	case hasA && hasB:
		r.Kind, r.Penalty = KindBoth, p.Both
		r.Label = fmt.Sprintf("Куджа-доша у обоих партнёров, взаимная компенсация: -%g%%", p.Both)
	case hasA || hasB:
		r.Kind, r.Penalty = KindSingle, p.Single
		r.Label = fmt.Sprintf("Куджа-доша у одного из партнёров: -%g%%", p.Single)
	default:
		r.Label = "Куджа-доша не влияет"
	}
	r.Percent = math.Max(0, math.Min(100, base-r.Penalty))
	return r
}

// ApplyPenaltySimple applies DefaultPenalties.
func ApplyPenaltySimple(base float64, hasA, hasB bool) Result {
	return DefaultPenalties.Apply(base, hasA, hasB)
}
