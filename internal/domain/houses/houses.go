// Package houses classifies cyclic house distances between two charts.
package houses

import "github.com/okian/synastry/internal/domain/chart"

// Category is the qualitative group of a house distance.
type Category string

const (
	Trikona  Category = "TRIKONA"
	Kendra   Category = "KENDRA"
	Upachaya Category = "UPACHAYA"
	Dusthana Category = "DUSTHANA"
	Mixed    Category = "MIXED"
)

// Tier is the combined strength of two directional categories.
type Tier string

const (
	TierStrong Tier = "strong"
	TierMedium Tier = "medium"
	TierWeak   Tier = "weak"
)

// Distance counts houses from a to b inclusively, so equal houses give 1.
// Both arguments must be in 1..12.
func Distance(a, b int) int {
	return ((b-a+12)%12 + 1)
}

// PlanetDistance is the distance from planet pa in chart a to planet pb in
// chart b. It fails when either planet has no house.
func PlanetDistance(a chart.Chart, pa chart.PlanetCode, b chart.Chart, pb chart.PlanetCode) (int, bool) {
	ha, ok := a.HouseOf(pa)
	if !ok {
		return 0, false
	}
	hb, ok := b.HouseOf(pb)
	if !ok {
		return 0, false
	}
	return Distance(ha, hb), true
}

// DistCategory classifies d in 1..12. Overlapping groups resolve by the
// order of the checks below.
func DistCategory(d int) Category {
	switch {
	case d == 1:
		return Trikona
	case d == 10:
		return Kendra
	case d == 6:
		return Dusthana
	case d == 8 || d == 12:
		return Dusthana
	case d == 5 || d == 9:
		return Trikona
	case d == 4 || d == 7:
		return Kendra
	case d == 3 || d == 11:
		return Upachaya
	default:
		return Mixed
	}
}

// Rank orders categories for tier combination.
func Rank(c Category) int {
	switch c {
	case Trikona:
		return 3
	case Kendra:
		return 2
	case Upachaya, Mixed:
		return 1
	default:
		return 0
	}
}

// CombinedTier merges the categories of both directions of a planet pair.
func CombinedTier(a, b Category) Tier {
	sum := Rank(a) + Rank(b)
	switch {
	case sum >= 5:
		return TierStrong
	case sum >= 3:
		return TierMedium
	default:
		return TierWeak
	}
}

// affinity holds the raw bipolar value for each zero-based sign distance.
var affinity = [12]float64{
	1.0,   // same sign
	-0.25, // 2nd
	0.25,  // 3rd
	0.5,   // 4th
	0.75,  // 5th
	-0.75, // 6th
	0.6,   // 7th
	-1.0,  // 8th
	0.75,  // 9th
	0.25,  // 10th
	0.5,   // 11th
	-0.5,  // 12th
}

// AffinityBySignDistance maps a zero-based distance to a value in [-1,1].
// Out-of-range indexes are reduced modulo 12.
func AffinityBySignDistance(idx int) float64 {
	return affinity[((idx%12)+12)%12]
}

// Normalize maps a raw bipolar affinity to [0,1].
func Normalize(raw float64) float64 {
	v := (raw + 1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
