package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	service "github.com/okian/synastry/internal/app"
	"github.com/okian/synastry/internal/domain/numerology"
	"github.com/okian/synastry/internal/domain/synastry"
	"github.com/okian/synastry/internal/loadtest"
)

// Output formats.
const (
	formatConsole = "console"
	formatJSON    = "json"
	formatYAML    = "yaml"
)

// styles groups console colors; tiers follow the final percent.
type styles struct {
	header lipgloss.Style
	tierA  lipgloss.Style
	tierB  lipgloss.Style
	tierC  lipgloss.Style
	tierDF lipgloss.Style
	dim    lipgloss.Style
	box    lipgloss.Style
}

func newStyles() styles {
	return styles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		tierA:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		tierB:  lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		tierC:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		tierDF: lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("8")).
			Padding(0, 1),
	}
}

func (s styles) percent(v float64) string {
	text := fmt.Sprintf("%g%%", v)
	switch {
	case v >= 75:
		return s.tierA.Render(text)
	case v >= 50:
		return s.tierB.Render(text)
	case v >= 35:
		return s.tierC.Render(text)
	default:
		return s.tierDF.Render(text)
	}
}

// render writes v in the requested format.
func render(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatConsole:
		_, err := io.WriteString(w, renderConsole(newStyles(), v)+"\n")
		return err
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func renderConsole(s styles, v any) string {
	switch v := v.(type) {
	case scoreResult:
		return consoleScore(s, v)
	case numerology.Pair:
		return consoleNumerology(s, v)
	case service.StrengthReport:
		return consoleStrength(s, v)
	case *loadtest.Stats:
		return consoleLoad(s, v)
	default:
		return fmt.Sprintf("%+v", v)
	}
}

func consoleScore(s styles, r scoreResult) string { //nolint:gocritic // hugeParam: read-only
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", s.header.Render(r.names[0]+" & "+r.names[1]), s.percent(r.Mean))

	dirs := []string{
		consoleReport(s, r.names[0]+" → "+r.names[1], r.AtoB),
		consoleReport(s, r.names[1]+" → "+r.names[0], r.BtoA),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, dirs[0], " ", dirs[1]))

	if len(r.OverlayText) > 0 {
		b.WriteString("\n" + s.header.Render("Overlays") + "\n")
		for _, line := range r.OverlayText {
			b.WriteString("  " + line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func consoleReport(s styles, title string, r synastry.Report) string { //nolint:gocritic // hugeParam: read-only
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", s.header.Render(title), s.percent(float64(r.FinalPercent)))
	fmt.Fprintf(&b, "%s %g%%\n", s.dim.Render("base"), r.BasePercent)
	for _, m := range r.Modules {
		fmt.Fprintf(&b, "%-18s %6.2f%%  %s\n", m.Key, m.Percent, s.dim.Render(fmt.Sprintf("w=%.3f +%.2f", m.Weight, m.Contribution)))
	}
	for _, sk := range r.Skipped {
		fmt.Fprintf(&b, "%s\n", s.dim.Render(fmt.Sprintf("%-18s skipped: %s", sk.Key, sk.Reason)))
	}
	if r.KujaPenalty != 0 {
		b.WriteString(s.tierDF.Render(r.KujaLabel) + "\n")
	}
	if r.SunMoonBonus != 0 {
		b.WriteString(s.tierA.Render(fmt.Sprintf("Sun/Moon in one house: +%g", r.SunMoonBonus)) + "\n")
	}
	if r.Ascendant != nil && r.Ascendant.Text != "" {
		b.WriteString(s.dim.Render(r.Ascendant.Text) + "\n")
	}
	return s.box.Render(strings.TrimRight(b.String(), "\n"))
}

func consoleNumerology(s styles, p numerology.Pair) string {
	line := func(title string, d numerology.Direction) string {
		var b strings.Builder
		fmt.Fprintf(&b, "%s  %s\n", s.header.Render(title), s.percent(d.Percent))
		fmt.Fprintf(&b, "%s soul %d destiny %d → soul %d destiny %d\n", s.dim.Render("numbers"),
			d.From.Soul, d.From.Destiny, d.To.Soul, d.To.Destiny)
		for _, l := range d.Links {
			fmt.Fprintf(&b, "  %d → %d  %-8s %+d\n", l.From, l.To, l.Relation, l.Value)
		}
		return s.box.Render(strings.TrimRight(b.String(), "\n"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, line("A → B", p.AtoB), " ", line("B → A", p.BtoA))
}

func consoleStrength(s styles, r service.StrengthReport) string {
	var b strings.Builder
	b.WriteString(s.header.Render("Planet strength") + "\n")
	for _, p := range r.Planets {
		fmt.Fprintf(&b, "%-3s house %-2d %s → %s %s\n", p.Planet, p.House,
			s.dim.Render(fmt.Sprintf("%3d", p.Base)), s.percent(float64(p.Final)), strings.Join(p.Markers, " "))
	}
	if r.Karakas != nil {
		fmt.Fprintf(&b, "%s atma %s, dara %s\n", s.header.Render("Karakas"), r.Karakas.Atma.Title(), r.Karakas.Dara.Title())
	}
	for _, d := range r.Doshas {
		b.WriteString(s.tierDF.Render(fmt.Sprintf("Kuja-dosha: Mars in house %d", d.House)) + "\n")
	}
	return s.box.Render(strings.TrimRight(b.String(), "\n"))
}

func consoleLoad(s styles, st *loadtest.Stats) string {
	rows := [][2]string{
		{"generated", fmt.Sprint(st.PairsGenerated)},
		{"accepted", fmt.Sprint(st.Accepted)},
		{"duplicate", fmt.Sprint(st.Duplicate)},
		{"rejected", fmt.Sprint(st.Rejected)},
		{"failed", fmt.Sprint(st.Failed)},
		{"scored", fmt.Sprint(st.Done)},
		{"matches", fmt.Sprint(st.Matches)},
		{"duration", st.Duration.String()},
	}
	var b strings.Builder
	b.WriteString(s.header.Render("Load test") + "\n")
	for _, r := range rows {
		fmt.Fprintf(&b, "%-10s %s\n", s.dim.Render(r[0]), r[1])
	}
	return s.box.Render(strings.TrimRight(b.String(), "\n"))
}
