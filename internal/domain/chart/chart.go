// Package chart holds the strict chart and profile types consumed by the
// scoring packages, plus the normalizer that builds them from loose JSON.
package chart

import "strings"

// PlanetCode identifies one of the nine grahas.
type PlanetCode string

// Planet codes.
const (
	Sun     PlanetCode = "Su"
	Moon    PlanetCode = "Mo"
	Mercury PlanetCode = "Me"
	Venus   PlanetCode = "Ve"
	Mars    PlanetCode = "Ma"
	Jupiter PlanetCode = "Ju"
	Saturn  PlanetCode = "Sa"
	Rahu    PlanetCode = "Ra"
	Ketu    PlanetCode = "Ke"
)

// PlanetCodes lists all planets in canonical order.
var PlanetCodes = [9]PlanetCode{Sun, Moon, Mercury, Venus, Mars, Jupiter, Saturn, Rahu, Ketu}

var planetNames = map[string]PlanetCode{
	"sun": Sun, "moon": Moon, "mercury": Mercury, "venus": Venus, "mars": Mars,
	"jupiter": Jupiter, "saturn": Saturn, "rahu": Rahu, "ketu": Ketu,
}

var planetTitlesRU = map[PlanetCode]string{
	Sun: "Солнце", Moon: "Луна", Mercury: "Меркурий", Venus: "Венера", Mars: "Марс",
	Jupiter: "Юпитер", Saturn: "Сатурн", Rahu: "Раху", Ketu: "Кету",
}

// Title returns the Russian planet name.
func (p PlanetCode) Title() string {
	if t, ok := planetTitlesRU[p]; ok {
		return t
	}
	return string(p)
}

// ParsePlanet accepts a two-letter code or an English planet name.
func ParsePlanet(v string) (PlanetCode, bool) {
	v = strings.TrimSpace(v)
	for _, p := range PlanetCodes {
		if strings.EqualFold(string(p), v) {
			return p, true
		}
	}
	p, ok := planetNames[strings.ToLower(v)]
	return p, ok
}

// Dignity is the canonical sign dignity of a planet.
type Dignity int

const (
	DignityNone Dignity = iota
	DignityExalted
	DignityMoolatrikona
	DignityOwn
	DignityFriendly
	DignityEnemy
	DignityDebilitated
)

var dignityNames = map[Dignity]string{
	DignityNone:         "none",
	DignityExalted:      "exalted",
	DignityMoolatrikona: "moolatrikona",
	DignityOwn:          "own",
	DignityFriendly:     "friendly",
	DignityEnemy:        "enemy",
	DignityDebilitated:  "debilitated",
}

func (d Dignity) String() string {
	if n, ok := dignityNames[d]; ok {
		return n
	}
	return "none"
}

// MarshalText encodes the dignity by name.
func (d Dignity) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a dignity name; unknown names decode to DignityNone.
func (d *Dignity) UnmarshalText(b []byte) error {
	*d = ParseDignity(string(b))
	return nil
}

// ParseDignity maps a dignity string, including common synonyms, to a Dignity.
func ParseDignity(v string) Dignity {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "exalted", "exaltation", "uchcha":
		return DignityExalted
	case "moolatrikona", "mooltrikona", "mt":
		return DignityMoolatrikona
	case "own", "own_sign", "ownsign", "swakshetra":
		return DignityOwn
	case "friendly", "friend", "friend_sign":
		return DignityFriendly
	case "enemy", "enemy_sign":
		return DignityEnemy
	case "debilitated", "debilitation", "neecha":
		return DignityDebilitated
	default:
		return DignityNone
	}
}

// Role is the functional role of a planet for a given ascendant.
type Role string

const (
	RoleStrongBenefic Role = "++"
	RoleBenefic       Role = "+"
	RoleNeutral       Role = "0"
	RoleMalefic       Role = "-"
	RoleStrongMalefic Role = "--"
)

// ParseRole returns the role for v; unknown values are neutral.
func ParseRole(v string) Role {
	switch r := Role(strings.TrimSpace(v)); r {
	case RoleStrongBenefic, RoleBenefic, RoleMalefic, RoleStrongMalefic:
		return r
	default:
		return RoleNeutral
	}
}

// Planet is one graha placement with its already-evaluated flags.
type Planet struct {
	Name             PlanetCode `json:"name" yaml:"name"`
	LonSidereal      float64    `json:"lon_sidereal" yaml:"lon_sidereal"`
	Sign             Sign       `json:"sign" yaml:"sign"`
	House            int        `json:"house" yaml:"house"`
	HouseStrength    float64    `json:"house_strength" yaml:"house_strength"`
	Retrograde       bool       `json:"is_retrograde,omitempty" yaml:"is_retrograde,omitempty"`
	Dignity          Dignity    `json:"dignity,omitempty" yaml:"dignity,omitempty"`
	Digbala          bool       `json:"digbala,omitempty" yaml:"digbala,omitempty"`
	Role             Role       `json:"role,omitempty" yaml:"role,omitempty"`
	AspectBonus      float64    `json:"aspect_bonus,omitempty" yaml:"aspect_bonus,omitempty"`
	ConjunctionBonus float64    `json:"conjunction_bonus,omitempty" yaml:"conjunction_bonus,omitempty"`
	BorderPenalty    float64    `json:"border_penalty,omitempty" yaml:"border_penalty,omitempty"`
	SuperStrong      bool       `json:"super_strong,omitempty" yaml:"super_strong,omitempty"`
	Combust          bool       `json:"combust,omitempty" yaml:"combust,omitempty"`
	WarLost          bool       `json:"war_lost,omitempty" yaml:"war_lost,omitempty"`
}

// Markers returns display symbols derived from the planet's flags.
func (p Planet) Markers() []string {
	var m []string
	switch p.Dignity {
	case DignityExalted:
		m = append(m, "↑")
	case DignityDebilitated:
		m = append(m, "↓")
	case DignityMoolatrikona:
		m = append(m, "MT")
	case DignityOwn:
		m = append(m, "⌂")
	}
	if p.Retrograde {
		m = append(m, "R")
	}
	if p.Digbala {
		m = append(m, "□")
	}
	if p.SuperStrong {
		m = append(m, "☼")
	} else if p.Combust {
		m = append(m, "●")
	}
	if p.WarLost {
		m = append(m, "⚔")
	}
	return m
}

// House is a house-to-sign assignment.
type House struct {
	Number int  `json:"house" yaml:"house"`
	Sign   Sign `json:"sign" yaml:"sign"`
}

// Chart is a precomputed natal chart.
type Chart struct {
	AscSign Sign     `json:"asc_sign,omitempty" yaml:"asc_sign,omitempty"`
	Planets []Planet `json:"planets" yaml:"planets"`
	Houses  []House  `json:"houses,omitempty" yaml:"houses,omitempty"`
}

// Planet returns the planet with the given code.
func (c Chart) Planet(code PlanetCode) (Planet, bool) {
	for _, p := range c.Planets {
		if p.Name == code {
			return p, true
		}
	}
	return Planet{}, false
}

// HouseOf returns the house occupied by a planet.
func (c Chart) HouseOf(code PlanetCode) (int, bool) {
	p, ok := c.Planet(code)
	if !ok || p.House < 1 || p.House > 12 {
		return 0, false
	}
	return p.House, true
}

// SignOf returns a planet's sign, deriving it from the ascendant and house
// when the sign is not set.
func (c Chart) SignOf(code PlanetCode) (Sign, bool) {
	p, ok := c.Planet(code)
	if !ok {
		return "", false
	}
	if p.Sign.Valid() {
		return p.Sign, true
	}
	asc, ok := c.Ascendant()
	if !ok || p.House < 1 || p.House > 12 {
		return "", false
	}
	return asc.Add(p.House - 1), true
}

// Ascendant resolves the rising sign from AscSign or the first house.
func (c Chart) Ascendant() (Sign, bool) {
	if c.AscSign.Valid() {
		return c.AscSign, true
	}
	for _, h := range c.Houses {
		if h.Number == 1 && h.Sign.Valid() {
			return h.Sign, true
		}
	}
	return "", false
}

// HouseOfSign returns the house number that holds sign s. Explicit houses are
// preferred; otherwise whole-sign houses from the ascendant are assumed.
func (c Chart) HouseOfSign(s Sign) (int, bool) {
	if !s.Valid() {
		return 0, false
	}
	for _, h := range c.Houses {
		if h.Sign == s && h.Number >= 1 && h.Number <= 12 {
			return h.Number, true
		}
	}
	asc, ok := c.Ascendant()
	if !ok {
		return 0, false
	}
	return (s.Index()-asc.Index()+12)%12 + 1, true
}

// Gender of a profile.
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// ParseGender accepts english and russian short forms.
func ParseGender(v string) Gender {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "male", "m", "man", "м", "муж", "мужской":
		return GenderMale
	case "female", "f", "woman", "ж", "жен", "женский":
		return GenderFemale
	default:
		return GenderUnknown
	}
}

// NameForms carries grammatical cases of a person's name.
type NameForms struct {
	Nominative string `json:"nominative,omitempty" yaml:"nominative,omitempty"`
	Genitive   string `json:"genitive,omitempty" yaml:"genitive,omitempty"`
	Dative     string `json:"dative,omitempty" yaml:"dative,omitempty"`
}

// Fill defaults missing cases to the nominative form.
func (n NameForms) Fill(fallback string) NameForms {
	if n.Nominative == "" {
		n.Nominative = fallback
	}
	if n.Genitive == "" {
		n.Genitive = n.Nominative
	}
	if n.Dative == "" {
		n.Dative = n.Nominative
	}
	return n
}

// Profile is the non-chart part of a person.
type Profile struct {
	Name    string    `json:"name,omitempty" yaml:"name,omitempty"`
	Birth   string    `json:"birth" yaml:"birth"`
	Gender  Gender    `json:"gender" yaml:"gender"`
	AscSign Sign      `json:"asc_sign,omitempty" yaml:"asc_sign,omitempty"`
	Names   NameForms `json:"names,omitempty" yaml:"names,omitempty"`
}

// Person couples a profile with its chart.
type Person struct {
	Profile Profile `json:"profile" yaml:"profile"`
	Chart   Chart   `json:"chart" yaml:"chart"`
}

// Ascendant prefers the profile's sign and falls back to the chart.
func (p Person) Ascendant() (Sign, bool) {
	if p.Profile.AscSign.Valid() {
		return p.Profile.AscSign, true
	}
	return p.Chart.Ascendant()
}

// NameForms returns the filled name cases for p.
func (p Person) NameForms() NameForms {
	return p.Profile.Names.Fill(p.Profile.Name)
}
