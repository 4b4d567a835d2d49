package overlay

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/okian/synastry/internal/domain/chart"
)

var title = cases.Title(language.Russian)

func ordinal(h int) string {
	return fmt.Sprintf("%d-м", h)
}

func name(s string) string {
	return title.String(strings.TrimSpace(s))
}

// Format renders an overlay as a Russian sentence. from owns the planet,
// to owns the house.
func Format(o Overlay, from, to chart.NameForms) string {
	from = from.Fill("партнёр")
	to = to.Fill("партнёр")

	head := fmt.Sprintf("%s %s в %s доме %s (%s)",
		o.Planet.Title(), name(from.Genitive), ordinal(o.TargetHouse), name(to.Genitive), houseThemes[clampHouse(o.TargetHouse)])

	var tail string
	switch {
	case o.Score > 0:
		tail = fmt.Sprintf("%s приносит %s поддержку", name(from.Nominative), name(to.Dative))
	case o.Score < 0:
		tail = fmt.Sprintf("%s стоит бережнее относиться к влиянию: %s может задевать чувствительные темы", name(to.Dative), name(from.Nominative))
	default:
		tail = "влияние нейтральное"
	}

	s := head + ": " + tail + "."
	if o.Reason != "" {
		s += " " + upperFirst(o.Reason) + "."
	}
	return s
}

// FormatAll renders overlays of both sides. Overlays whose From equals
// sideA are owned by a.
func FormatAll(list []Overlay, sideA string, a, b chart.NameForms) []string {
	out := make([]string, 0, len(list))
	for _, o := range list {
		if o.From == sideA {
			out = append(out, Format(o, a, b))
		} else {
			out = append(out, Format(o, b, a))
		}
	}
	return out
}

func upperFirst(s string) string {
	for i, r := range s {
		return strings.ToUpper(string(r)) + s[i+len(string(r)):]
	}
	return s
}

func clampHouse(h int) int {
	if h < 1 || h > 12 {
		return 0
	}
	return h
}
