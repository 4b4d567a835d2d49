package strength

import "github.com/okian/synastry/internal/domain/chart"

// PlanetStrength is the evaluated strength of one planet.
type PlanetStrength struct {
	Planet  chart.PlanetCode `json:"planet" yaml:"planet"`
	House   int              `json:"house" yaml:"house"`
	Base    int              `json:"base" yaml:"base"`
	Final   int              `json:"final" yaml:"final"`
	Markers []string         `json:"markers,omitempty" yaml:"markers,omitempty"`
}

// Karakas are the significators picked by positional strength.
type Karakas struct {
	Atma chart.PlanetCode `json:"atma" yaml:"atma"`
	Dara chart.PlanetCode `json:"dara" yaml:"dara"`
}

// karakaCandidates excludes the nodes.
var karakaCandidates = []chart.PlanetCode{
	chart.Sun, chart.Moon, chart.Mercury, chart.Venus, chart.Mars, chart.Jupiter, chart.Saturn,
}

// FromPlanet extracts Inputs from a chart planet. House groups are derived
// from the planet's house.
func FromPlanet(p chart.Planet) Inputs {
	x := Inputs{
		BasePercent:      float64(BasePercent(p.HouseStrength)),
		Exalted:          p.Dignity == chart.DignityExalted,
		Moolatrikona:     p.Dignity == chart.DignityMoolatrikona,
		OwnSign:          p.Dignity == chart.DignityOwn,
		Debilitated:      p.Dignity == chart.DignityDebilitated,
		Digbala:          p.Digbala,
		Role:             p.Role,
		SuperStrong:      p.SuperStrong,
		Combust:          p.Combust,
		WarLost:          p.WarLost,
		AspectBonus:      p.AspectBonus,
		ConjunctionBonus: p.ConjunctionBonus,
		BorderPenalty:    p.BorderPenalty,
	}
	switch p.Dignity {
	case chart.DignityFriendly:
		x.Friendship = FriendshipFriend
	case chart.DignityEnemy:
		x.Friendship = FriendshipEnemy
	}
	switch p.House {
	case 1:
		x.Trikona, x.Kendra = true, true
	case 4, 7:
		x.Kendra = true
	case 5, 9:
		x.Trikona = true
	case 10:
		x.Kendra, x.Upachaya = true, true
	case 3, 6, 11:
		x.Upachaya = true
	case 8, 12:
		x.Dusthana812 = true
	}
	return x
}

// ChartStrengths evaluates every planet of c in chart order.
func ChartStrengths(c chart.Chart) []PlanetStrength {
	out := make([]PlanetStrength, 0, len(c.Planets))
	for _, p := range c.Planets {
		out = append(out, PlanetStrength{
			Planet:  p.Name,
			House:   p.House,
			Base:    BasePercent(p.HouseStrength),
			Final:   FinalStrength(FromPlanet(p)),
			Markers: p.Markers(),
		})
	}
	return out
}

// FindKarakas returns the planets with the highest (atma) and lowest (dara)
// positional strength among the seven visible grahas. Ties keep the earlier
// planet.
func FindKarakas(c chart.Chart) (Karakas, bool) {
	var k Karakas
	hi, lo := -1.0, 2.0
	found := false
	for _, code := range karakaCandidates {
		p, ok := c.Planet(code)
		if !ok {
			continue
		}
		hs := finite(p.HouseStrength)
		if hs > hi {
			hi, k.Atma = hs, code
		}
		if hs < lo {
			lo, k.Dara = hs, code
		}
		found = true
	}
	return k, found
}
