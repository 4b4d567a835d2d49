// Package overlay places each planet of one chart into the houses of the
// partner's chart and describes the result.
package overlay

import (
	"github.com/okian/synastry/internal/domain/chart"
	"github.com/okian/synastry/internal/domain/houses"
)

// Rule scores a planet landing in a partner's house.
type Rule struct {
	Planet      chart.PlanetCode `json:"planet" yaml:"planet"`
	TargetHouse int              `json:"target_house" yaml:"target_house"`
	Score       int              `json:"score" yaml:"score"`
	Label       string           `json:"label" yaml:"label"`
	Reason      string           `json:"reason" yaml:"reason"`
}

// Overlay is a rule applied to a concrete pair.
type Overlay struct {
	From string `json:"from" yaml:"from"`
	Rule `yaml:",inline"`
}

// RuleSet indexes rules by planet and house.
type RuleSet struct {
	rules map[chart.PlanetCode]map[int]Rule
}

// NewRuleSet builds a set; later rules replace earlier ones for the same key.
func NewRuleSet(rules ...Rule) *RuleSet {
	rs := &RuleSet{rules: make(map[chart.PlanetCode]map[int]Rule)}
	for _, r := range rules {
		if r.TargetHouse < 1 || r.TargetHouse > 12 {
			continue
		}
		if rs.rules[r.Planet] == nil {
			rs.rules[r.Planet] = make(map[int]Rule, 12)
		}
		rs.rules[r.Planet][r.TargetHouse] = r
	}
	return rs
}

// Lookup returns the rule for planet p in house h.
func (rs *RuleSet) Lookup(p chart.PlanetCode, h int) (Rule, bool) {
	if rs == nil {
		return Rule{}, false
	}
	r, ok := rs.rules[p][h]
	return r, ok
}

var houseThemes = [13]string{
	1:  "личность",
	2:  "деньги и семья",
	3:  "общение",
	4:  "дом и уют",
	5:  "любовь и творчество",
	6:  "быт и обязанности",
	7:  "партнёрство",
	8:  "кризисы и трансформация",
	9:  "взгляды и удача",
	10: "карьера и статус",
	11: "друзья и цели",
	12: "уединение и тайны",
}

var categoryReasons = map[houses.Category]string{
	houses.Trikona:  "тригональный дом приносит лёгкость и поддержку",
	houses.Kendra:   "угловой дом делает влияние заметным",
	houses.Upachaya: "дом роста: польза проявляется со временем",
	houses.Mixed:    "влияние смешанное и зависит от остальной карты",
	houses.Dusthana: "трудный дом может приносить напряжение",
}

func isMalefic(p chart.PlanetCode) bool {
	switch p {
	case chart.Sun, chart.Mars, chart.Saturn, chart.Rahu, chart.Ketu:
		return true
	}
	return false
}

// overrides replace the generic house scoring for well-known placements.
var overrides = []Rule{
	{Planet: chart.Venus, TargetHouse: 7, Score: 2, Reason: "Венера в доме партнёрства усиливает притяжение"},
	{Planet: chart.Jupiter, TargetHouse: 7, Score: 2, Reason: "Юпитер в доме партнёрства покровительствует союзу"},
	{Planet: chart.Moon, TargetHouse: 4, Score: 2, Reason: "Луна в доме уюта даёт чувство дома"},
	{Planet: chart.Venus, TargetHouse: 5, Score: 2, Reason: "Венера в доме любви усиливает романтику"},
	{Planet: chart.Mars, TargetHouse: 7, Score: -1, Reason: "Марс в доме партнёрства провоцирует споры"},
	{Planet: chart.Saturn, TargetHouse: 7, Score: -1, Reason: "Сатурн в доме партнёрства охлаждает чувства"},
	{Planet: chart.Mars, TargetHouse: 8, Score: -2, Reason: "Марс в восьмом доме обостряет кризисы"},
}

// DefaultRules scores every planet and house from the house group. Malefics
// do well in the growth houses 3, 6 and 11.
func DefaultRules() *RuleSet {
	rules := make([]Rule, 0, len(chart.PlanetCodes)*12+len(overrides))
	for _, p := range chart.PlanetCodes {
		for h := 1; h <= 12; h++ {
			cat := houses.DistCategory(h)
			r := Rule{Planet: p, TargetHouse: h, Reason: categoryReasons[cat]}
			switch cat {
			case houses.Trikona:
				r.Score = 2
			case houses.Kendra:
				r.Score = 1
			case houses.Dusthana:
				r.Score = -2
			}
			if isMalefic(p) && (h == 3 || h == 6 || h == 11) {
				r.Score = 1
				r.Reason = "тяжёлая планета в доме роста работает на пользу"
			}
			rules = append(rules, r)
		}
	}
	rules = append(rules, overrides...)
	for i := range rules {
		rules[i].Label = Label(rules[i].Planet, rules[i].TargetHouse)
	}
	return NewRuleSet(rules...)
}

// Label is the short title of a placement.
func Label(p chart.PlanetCode, h int) string {
	if h < 1 || h > 12 {
		return p.Title()
	}
	return p.Title() + " в " + ordinal(h) + " доме: " + houseThemes[h]
}

// Compute places every planet of from into the partner's houses by sign.
// Planets without a resolvable sign or house are skipped.
func Compute(side string, from, to chart.Chart, rules *RuleSet) []Overlay {
	var out []Overlay
	for _, p := range from.Planets {
		sign, ok := from.SignOf(p.Name)
		if !ok {
			continue
		}
		h, ok := to.HouseOfSign(sign)
		if !ok {
			continue
		}
		r, ok := rules.Lookup(p.Name, h)
		if !ok {
			r = Rule{Planet: p.Name, TargetHouse: h, Label: Label(p.Name, h)}
		}
		out = append(out, Overlay{From: side, Rule: r})
	}
	return out
}
