package synastry

import (
	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/houses"
	"github.com/okian/synastry/internal/domain/kuja"
	"github.com/okian/synastry/internal/domain/numerology"
	"github.com/okian/synastry/internal/domain/overlay"
	"github.com/okian/synastry/internal/domain/strength"
)

// ModuleResult is one included module of a report.
type ModuleResult struct {
	Key          ModuleKey       `json:"key" yaml:"key"`
	Title        string          `json:"title" yaml:"title"`
	Weight       float64         `json:"weight" yaml:"weight"`
	Percent      float64         `json:"percent" yaml:"percent"`
	Contribution float64         `json:"contribution" yaml:"contribution"`
	Distance     int             `json:"distance,omitempty" yaml:"distance,omitempty"`
	Category     houses.Category `json:"category,omitempty" yaml:"category,omitempty"`
}

// Skipped records an omitted module.
type Skipped struct {
	Key    ModuleKey `json:"key" yaml:"key"`
	Reason string    `json:"reason" yaml:"reason"`
}

// AscendantNote describes the ascendant pairing.
type AscendantNote struct {
	From  chart.Sign `json:"from" yaml:"from"`
	To    chart.Sign `json:"to" yaml:"to"`
	Score float64    `json:"score" yaml:"score"`
	Text  string     `json:"text,omitempty" yaml:"text,omitempty"`
}

// SideInfo holds per-person findings in a report.
type SideInfo struct {
	Doshas  []kuja.Dosha      `json:"doshas,omitempty" yaml:"doshas,omitempty"`
	Karakas *strength.Karakas `json:"karakas,omitempty" yaml:"karakas,omitempty"`
}

// Report is the directional compatibility result.
type Report struct {
	Direction    Direction             `json:"direction" yaml:"direction"`
	BasePercent  float64               `json:"base_percent" yaml:"base_percent"`
	FinalPercent int                   `json:"final_percent" yaml:"final_percent"`
	KujaPenalty  float64               `json:"kuja_penalty" yaml:"kuja_penalty"`
	KujaKind     kuja.Kind             `json:"kuja_kind" yaml:"kuja_kind"`
	KujaLabel    string                `json:"kuja_label" yaml:"kuja_label"`
	SunMoonBonus float64               `json:"sun_moon_bonus" yaml:"sun_moon_bonus"`
	MoonTier     houses.Tier           `json:"moon_tier,omitempty" yaml:"moon_tier,omitempty"`
	Modules      []ModuleResult        `json:"modules" yaml:"modules"`
	Skipped      []Skipped             `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	Overlays     []overlay.Overlay     `json:"overlays,omitempty" yaml:"overlays,omitempty"`
	Ascendant    *AscendantNote        `json:"ascendant,omitempty" yaml:"ascendant,omitempty"`
	Numerology   *numerology.Direction `json:"numerology,omitempty" yaml:"numerology,omitempty"`
	From         SideInfo              `json:"from" yaml:"from"`
	To           SideInfo              `json:"to" yaml:"to"`
}

// Module returns the included module with key k.
func (r Report) Module(k ModuleKey) (ModuleResult, bool) {
	for _, m := range r.Modules {
		if m.Key == k {
			return m, true
		}
	}
	return ModuleResult{}, false
}

// IsSkipped reports whether module k was omitted.
func (r Report) IsSkipped(k ModuleKey) bool {
	for _, s := range r.Skipped {
		if s.Key == k {
			return true
		}
	}
	return false
}

// PairReport holds both directional reports.
type PairReport struct {
	AtoB Report `json:"a_to_b" yaml:"a_to_b"`
	BtoA Report `json:"b_to_a" yaml:"b_to_a"`
}

// Mean averages both final percentages.
func (p PairReport) Mean() float64 {
	return float64(p.AtoB.FinalPercent+p.BtoA.FinalPercent) / 2
}
