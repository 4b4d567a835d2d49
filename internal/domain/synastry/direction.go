package synastry

import (
	"fmt"

	"github.com/okian/synastry/internal/domain/chart"
)

// Direction selects whose view of the pair is scored.
type Direction int

const (
	AtoB Direction = iota
	BtoA
)

// Directions lists both views.
var Directions = [2]Direction{AtoB, BtoA}

func (d Direction) String() string {
	if d == BtoA {
		return "b_to_a"
	}
	return "a_to_b"
}

// MarshalText encodes the direction name.
func (d Direction) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText decodes a direction name.
func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "a_to_b", "AtoB":
		*d = AtoB
	case "b_to_a", "BtoA":
		*d = BtoA
	default:
		return fmt.Errorf("unknown direction %q", b)
	}
	return nil
}

// Orient returns (from, to) for this direction.
func (d Direction) Orient(a, b chart.Person) (chart.Person, chart.Person) {
	if d == BtoA {
		return b, a
	}
	return a, b
}

// Sides returns the side labels of from and to.
func (d Direction) Sides() (string, string) {
	if d == BtoA {
		return "B", "A"
	}
	return "A", "B"
}

// Reverse flips the direction.
func (d Direction) Reverse() Direction {
	if d == BtoA {
		return AtoB
	}
	return BtoA
}
