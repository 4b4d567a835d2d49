// Package numerology derives soul and destiny numbers from birth dates and
// scores the directional relation between two people.
package numerology

import (
	"math"
	"strconv"
)

// Relation classifies one number's attitude toward another.
type Relation string

const (
	RelPlus    Relation = "+"
	RelStar    Relation = "*"
	RelMinus   Relation = "-"
	RelNeutral Relation = "0"
)

type relation struct {
	plus, star, minus []int
}

// numRel is indexed by the source number 1..9.
var numRel = [10]relation{
	1: {plus: []int{1, 2, 3, 9}, star: []int{5}, minus: []int{6, 8}},
	2: {plus: []int{1, 5}, star: []int{3, 7}, minus: []int{8}},
	3: {plus: []int{1, 2, 9}, star: []int{3}, minus: []int{5, 6}},
	4: {plus: []int{5, 6, 8}, star: []int{4, 7}, minus: []int{1, 2, 9}},
	5: {plus: []int{1, 6}, star: []int{4, 5}, minus: []int{2}},
	6: {plus: []int{5, 8}, star: []int{4, 6, 7}, minus: []int{1, 2}},
	7: {plus: []int{1, 2, 4}, star: []int{3, 6, 9}, minus: []int{8}},
	8: {plus: []int{4, 5, 6}, star: []int{3, 8}, minus: []int{1, 2, 9}},
	9: {plus: []int{1, 2, 3}, star: []int{7, 9}, minus: []int{4, 5}},
}

// Reduce19 sums decimal digits until the value is a single digit. Zero maps
// to 9.
func Reduce19(n int) int {
	if n < 0 {
		n = -n
	}
	for n > 9 {
		s := 0
		for n > 0 {
			s += n % 10
			n /= 10
		}
		n = s
	}
	if n == 0 {
		return 9
	}
	return n
}

// SoulNumber reduces the birth day.
func SoulNumber(d DOB) int {
	return Reduce19(d.Day)
}

// DestinyNumber reduces all digits of the day, month and year.
func DestinyNumber(d DOB) int {
	sum := 0
	for _, r := range strconv.Itoa(d.Day) + strconv.Itoa(d.Month) + strconv.Itoa(d.Year) {
		sum += int(r - '0')
	}
	return Reduce19(sum)
}

// SignOf returns the relation from number from toward number to.
func SignOf(from, to int) Relation {
	if from < 1 || from > 9 {
		return RelNeutral
	}
	r := numRel[from]
	switch {
	case contains(r.plus, to):
		return RelPlus
	case contains(r.star, to):
		return RelStar
	case contains(r.minus, to):
		return RelMinus
	default:
		return RelNeutral
	}
}

// ValOf weighs a relation.
func ValOf(r Relation) int {
	switch r {
	case RelPlus:
		return 2
	case RelStar:
		return 1
	case RelMinus:
		return -2
	default:
		return 0
	}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

// Numbers are the derived numbers of one person.
type Numbers struct {
	Soul    int `json:"soul" yaml:"soul"`
	Destiny int `json:"destiny" yaml:"destiny"`
}

// NumbersOf derives both numbers from d.
func NumbersOf(d DOB) Numbers {
	return Numbers{Soul: SoulNumber(d), Destiny: DestinyNumber(d)}
}

// Link is one of the four cross relations of a direction.
type Link struct {
	From     int      `json:"from" yaml:"from"`
	To       int      `json:"to" yaml:"to"`
	Relation Relation `json:"relation" yaml:"relation"`
	Value    int      `json:"value" yaml:"value"`
}

// Direction is the score of one person's numbers toward another's.
type Direction struct {
	From    Numbers `json:"from" yaml:"from"`
	To      Numbers `json:"to" yaml:"to"`
	Links   [4]Link `json:"links" yaml:"links"`
	Sum     int     `json:"dir_sum" yaml:"dir_sum"`
	Percent float64 `json:"percent" yaml:"percent"`
}

// Pair holds both directions.
type Pair struct {
	AtoB Direction `json:"a_to_b" yaml:"a_to_b"`
	BtoA Direction `json:"b_to_a" yaml:"b_to_a"`
}

// Between scores from toward to: soul->soul, soul->destiny,
// destiny->soul, destiny->destiny.
func Between(from, to Numbers) Direction {
	d := Direction{From: from, To: to}
	pairs := [4][2]int{
		{from.Soul, to.Soul},
		{from.Soul, to.Destiny},
		{from.Destiny, to.Soul},
		{from.Destiny, to.Destiny},
	}
	for i, p := range pairs {
		rel := SignOf(p[0], p[1])
		d.Links[i] = Link{From: p[0], To: p[1], Relation: rel, Value: ValOf(rel)}
		d.Sum += d.Links[i].Value
	}
	d.Percent = math.Round(float64(d.Sum+8)/16*100*1000) / 1000
	return d
}

// ComputeDirection parses both dates and scores dobFrom toward dobTo.
func ComputeDirection(dobFrom, dobTo string) (Direction, error) {
	from, err := ParseDOB(dobFrom)
	if err != nil {
		return Direction{}, err
	}
	to, err := ParseDOB(dobTo)
	if err != nil {
		return Direction{}, err
	}
	return Between(NumbersOf(from), NumbersOf(to)), nil
}

// ComputePair scores both directions between two birth dates.
func ComputePair(dobA, dobB string) (Pair, error) {
	a, err := ParseDOB(dobA)
	if err != nil {
		return Pair{}, err
	}
	b, err := ParseDOB(dobB)
	if err != nil {
		return Pair{}, err
	}
	na, nb := NumbersOf(a), NumbersOf(b)
	return Pair{AtoB: Between(na, nb), BtoA: Between(nb, na)}, nil
}
