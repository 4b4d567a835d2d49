package synastry

import (
	"fmt"
	"math"

	"github.com/okian/synastry/internal/domain/chart"
)

// ModuleKey names one weighted sub-score.
type ModuleKey string

const (
	ModuleMoonMoon   ModuleKey = "moon_moon"
	ModuleSunSun     ModuleKey = "sun_sun"
	ModuleSunMoon    ModuleKey = "sun_moon"
	ModuleMoonSun    ModuleKey = "moon_sun"
	ModuleVenusMars  ModuleKey = "venus_mars"
	ModuleMarsVenus  ModuleKey = "mars_venus"
	ModuleAscendant  ModuleKey = "ascendant"
	ModuleNumerology ModuleKey = "numerology"
)

// ModuleKeys lists modules in report order.
var ModuleKeys = []ModuleKey{
	ModuleMoonMoon, ModuleSunSun, ModuleSunMoon, ModuleMoonSun,
	ModuleVenusMars, ModuleMarsVenus, ModuleAscendant, ModuleNumerology,
}

// Weights maps modules to their share of the base percentage.
type Weights map[ModuleKey]float64

// DefaultWeights sum to 1.
func DefaultWeights() Weights {
	return Weights{
		ModuleMoonMoon:   0.20,
		ModuleSunSun:     0.10,
		ModuleSunMoon:    0.075,
		ModuleMoonSun:    0.075,
		ModuleVenusMars:  0.075,
		ModuleMarsVenus:  0.075,
		ModuleAscendant:  0.20,
		ModuleNumerology: 0.20,
	}
}

// Sum adds all weights.
func (w Weights) Sum() float64 {
	s := 0.0
	for _, k := range ModuleKeys {
		s += w[k]
	}
	return s
}

type pairModule struct {
	key         ModuleKey
	title       string
	source      chart.PlanetCode
	target      chart.PlanetCode
	damping     float64
	oppositeSex bool
}

var pairModules = []pairModule{
	{key: ModuleMoonMoon, title: "Луна → Луна", source: chart.Moon, target: chart.Moon, damping: 1},
	{key: ModuleSunSun, title: "Солнце → Солнце", source: chart.Sun, target: chart.Sun, damping: 0.8},
	{key: ModuleSunMoon, title: "Солнце → Луна", source: chart.Sun, target: chart.Moon, damping: 1, oppositeSex: true},
	{key: ModuleMoonSun, title: "Луна → Солнце", source: chart.Moon, target: chart.Sun, damping: 1, oppositeSex: true},
	{key: ModuleVenusMars, title: "Венера → Марс", source: chart.Venus, target: chart.Mars, damping: 1, oppositeSex: true},
	{key: ModuleMarsVenus, title: "Марс → Венера", source: chart.Mars, target: chart.Venus, damping: 1, oppositeSex: true},
}

var titles = map[ModuleKey]string{
	ModuleAscendant:  "Асцендент",
	ModuleNumerology: "Нумерология",
}

// Title returns the display title of a module.
func (k ModuleKey) Title() string {
	for _, m := range pairModules {
		if m.key == k {
			return m.title
		}
	}
	if t, ok := titles[k]; ok {
		return t
	}
	return string(k)
}

// Skip reasons.
const (
	ReasonMissingPlanet   = "planet missing"
	ReasonNotOppositeSex  = "opposite-sex module"
	ReasonNoAscendant     = "ascendant unknown"
	ReasonUnknownPair     = "sign pair not in table"
	ReasonUnparsableBirth = "birth date unparsable"
	ReasonZeroWeight      = "zero weight"
)

// ParseWeights converts a string-keyed map, e.g. from config, into Weights.
// Unknown keys and negative or non-finite values are rejected.
func ParseWeights(raw map[string]float64) (Weights, error) {
	out := make(Weights, len(raw))
	for name, v := range raw {
		k := ModuleKey(name)
		if !k.Known() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownModule, name)
		}
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s=%v", ErrInvalidWeight, name, v)
		}
		out[k] = v
	}
	return out, nil
}

// Known reports whether k is one of ModuleKeys.
func (k ModuleKey) Known() bool {
	for _, m := range ModuleKeys {
		if m == k {
			return true
		}
	}
	return false
}
