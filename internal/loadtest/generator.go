package loadtest

import (
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/okian/synastry/internal/domain/chart"
)

// Generator builds random but well-formed persons.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator seeds a generator; equal seeds yield equal sequences,
// except for job ids which are always random.
func NewGenerator(seed uint64) *Generator {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Person returns a person with the nine grahas placed in random houses of a
// chart whose ascendant is also random.
func (g *Generator) Person(name string, gender chart.Gender) chart.Person {
	asc := chart.Signs[g.rng.IntN(len(chart.Signs))]
	planets := make([]chart.Planet, 0, len(chart.PlanetCodes))
	for _, code := range chart.PlanetCodes {
		h := 1 + g.rng.IntN(12)
		planets = append(planets, chart.Planet{
			Name:          code,
			House:         h,
			Sign:          asc.Add(h - 1),
			HouseStrength: float64(g.rng.IntN(101)) / 100,
			Retrograde:    code != chart.Sun && code != chart.Moon && g.rng.IntN(5) == 0,
		})
	}
	return chart.Person{
		Profile: chart.Profile{
			Name:   name,
			Birth:  g.birth(),
			Gender: gender,
		},
		Chart: chart.Chart{AscSign: asc, Planets: planets},
	}
}

// Pair returns an opposite-sex pair under a fresh UUID.
func (g *Generator) Pair(index int) Pair {
	return Pair{
		ID: uuid.NewString(),
		A:  g.Person(fmt.Sprintf("A-%d", index), chart.GenderFemale),
		B:  g.Person(fmt.Sprintf("B-%d", index), chart.GenderMale),
	}
}

// Pairs returns n pairs.
func (g *Generator) Pairs(n int) []Pair {
	out := make([]Pair, n)
	for i := range out {
		out[i] = g.Pair(i)
	}
	return out
}

// birth formats a valid date between 1950 and 2005.
func (g *Generator) birth() string {
	year := 1950 + g.rng.IntN(56)
	month := 1 + g.rng.IntN(12)
	day := 1 + g.rng.IntN(28)
	return fmt.Sprintf("%02d.%02d.%04d", day, month, year)
}
