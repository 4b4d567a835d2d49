// Package ascendant provides the rising-sign compatibility lookup table.
package ascendant

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/okian/synastry/internal/domain/chart"
)

//go:embed table.json
var defaultTable []byte

// Entry is the compatibility record of a sign pair.
type Entry struct {
	Score        float64 `json:"score" yaml:"score"`
	General      string  `json:"general,omitempty" yaml:"general,omitempty"`
	Relationship string  `json:"relationship,omitempty" yaml:"relationship,omitempty"`
	Marriage     string  `json:"marriage,omitempty" yaml:"marriage,omitempty"`
}

// Description joins the text sections. Same-sex pairs get the general part only.
func (e Entry) Description(sameSex bool) string {
	parts := []string{e.General}
	if !sameSex {
		parts = append(parts, e.Relationship, e.Marriage)
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n\n")
}

type key [2]chart.Sign

// Table is an immutable sign-pair lookup.
type Table struct {
	entries map[key]Entry
}

// Len returns the number of stored pairs.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the entry for (a,b), falling back to (b,a).
func (t *Table) Lookup(a, b chart.Sign) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	if e, ok := t.entries[key{a, b}]; ok {
		return e, true
	}
	e, ok := t.entries[key{b, a}]
	return e, ok
}

type rawEntry struct {
	Key          string   `json:"key"`
	A            string   `json:"a"`
	B            string   `json:"b"`
	Score        *float64 `json:"score"`
	Percent      *float64 `json:"percent"`
	General      string   `json:"general"`
	Description  string   `json:"description"`
	Text         string   `json:"text"`
	Relationship string   `json:"relationship"`
	Marriage     string   `json:"marriage"`
}

func (r rawEntry) entry() (Entry, bool) {
	var score float64
	switch {
	case r.Score != nil:
		score = *r.Score
	case r.Percent != nil:
		score = *r.Percent
	default:
		return Entry{}, false
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return Entry{}, false
	}
	general := r.General
	if general == "" {
		general = r.Description
	}
	if general == "" {
		general = r.Text
	}
	return Entry{
		Score:        math.Max(0, score),
		General:      general,
		Relationship: r.Relationship,
		Marriage:     r.Marriage,
	}, true
}

// Load parses either the nested shape {"Ar":{"Ta":{...}}} or the flat shape
// [{"key":"Ar-Ta",...}]. Entries with unknown signs or no score are skipped.
func Load(data []byte) (*Table, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty", ErrInvalidTable)
	}
	t := &Table{entries: make(map[key]Entry)}
	switch data[0] {
	case '{':
		var nested map[string]map[string]rawEntry
		if err := json.Unmarshal(data, &nested); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
		for an, row := range nested {
			a, ok := chart.ParseSign(an)
			if !ok {
				continue
			}
			for bn, r := range row {
				b, ok := chart.ParseSign(bn)
				if !ok {
					continue
				}
				if e, ok := r.entry(); ok {
					t.entries[key{a, b}] = e
				}
			}
		}
	case '[':
		var flat []rawEntry
		if err := json.Unmarshal(data, &flat); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
		}
		for _, r := range flat {
			a, b, ok := r.signs()
			if !ok {
				continue
			}
			if e, ok := r.entry(); ok {
				t.entries[key{a, b}] = e
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown shape", ErrInvalidTable)
	}
	if len(t.entries) == 0 {
		return nil, fmt.Errorf("%w: no entries", ErrInvalidTable)
	}
	t.rescale()
	return t, nil
}

// rescale picks one scale for the whole table: any score above 1 means
// every score is a percentage.
func (t *Table) rescale() {
	div := 1.0
	for _, e := range t.entries {
		if e.Score > 1 {
			div = 100
			break
		}
	}
	for k, e := range t.entries {
		e.Score = math.Min(1, e.Score/div)
		t.entries[k] = e
	}
}

func (r rawEntry) signs() (chart.Sign, chart.Sign, bool) {
	an, bn := r.A, r.B
	if r.Key != "" {
		parts := strings.FieldsFunc(r.Key, func(c rune) bool {
			return c == '-' || c == '_' || c == '|' || c == '/' || c == ':'
		})
		if len(parts) != 2 {
			return "", "", false
		}
		an, bn = parts[0], parts[1]
	}
	a, ok := chart.ParseSign(an)
	if !ok {
		return "", "", false
	}
	b, ok := chart.ParseSign(bn)
	if !ok {
		return "", "", false
	}
	return a, b, true
}

// LoadFile reads a table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTable, err)
	}
	return Load(data)
}

var (
	defaultOnce sync.Once
	defaultTbl  *Table
)

// Default returns the embedded table.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Load(defaultTable)
		if err != nil {
			panic(fmt.Sprintf("ascendant: embedded table: %v", err))
		}
		defaultTbl = t
	})
	return defaultTbl
}
