// Package strength computes the 0..100 final strength of a planet from its
// positional base and already-evaluated dignity and context flags.
package strength

import (
	"math"

	"github.com/okian/synastry/internal/domain/chart"
)

// Friendship is the sign-lord relation of a planet's sign.
type Friendship int

const (
	FriendshipNeutral Friendship = iota
	FriendshipFriend
	FriendshipEnemy
)

// Inputs is the flattened description of one planet. Zero values are neutral.
type Inputs struct {
	BasePercent float64

	Exalted      bool
	Moolatrikona bool
	OwnSign      bool
	Debilitated  bool
	Friendship   Friendship

	Trikona     bool
	Kendra      bool
	Upachaya    bool
	Dusthana812 bool

	Digbala bool
	Role    chart.Role

	SuperStrong bool
	Combust     bool
	WarLost     bool

	AspectBonus      float64
	ConjunctionBonus float64
	BorderPenalty    float64
}

// Multipliers and additive terms.
const (
	mulExalted      = 1.25
	mulMoolatrikona = 1.15
	mulOwnSign      = 1.10
	mulFriend       = 1.05
	mulEnemy        = 0.90
	mulDebilitated  = 0.75

	mulTrikona  = 1.10
	mulKendra   = 1.06
	mulUpachaya = 1.04
	capDusthana = 0.92

	mulDigbala = 1.10

	addSunStrong = 8.0
	addCombust   = -8.0
	addWarLost   = -8.0
)

// DignityMultiplier returns the first matching dignity factor.
func DignityMultiplier(x Inputs) float64 {
	switch {
	case x.Exalted:
		return mulExalted
	case x.Moolatrikona:
		return mulMoolatrikona
	case x.OwnSign:
		return mulOwnSign
	case x.Friendship == FriendshipFriend:
		return mulFriend
	case x.Friendship == FriendshipEnemy:
		return mulEnemy
	case x.Debilitated:
		return mulDebilitated
	default:
		return 1
	}
}

// HouseMultiplier takes the largest house-group boost, capped for 8/12.
// The 6th house is not penalised here.
func HouseMultiplier(x Inputs) float64 {
	m := 1.0
	if x.Trikona {
		m = math.Max(m, mulTrikona)
	}
	if x.Kendra {
		m = math.Max(m, mulKendra)
	}
	if x.Upachaya {
		m = math.Max(m, mulUpachaya)
	}
	if x.Dusthana812 {
		m = math.Min(m, capDusthana)
	}
	return m
}

// RoleAdd is the additive term of a functional role.
func RoleAdd(r chart.Role) float64 {
	switch r {
	case chart.RoleStrongBenefic:
		return 8
	case chart.RoleBenefic:
		return 4
	case chart.RoleMalefic:
		return -4
	case chart.RoleStrongMalefic:
		return -8
	default:
		return 0
	}
}

// SunAdd applies the super-strong bonus, which overrides combustion.
func SunAdd(x Inputs) float64 {
	switch {
	case x.SuperStrong:
		return addSunStrong
	case x.Combust:
		return addCombust
	default:
		return 0
	}
}

// FinalStrength composes the score and returns an integer in [0,100].
func FinalStrength(x Inputs) int {
	digbala := 1.0
	if x.Digbala {
		digbala = mulDigbala
	}
	war := 0.0
	if x.WarLost {
		war = addWarLost
	}
	misc := finite(x.AspectBonus) + finite(x.ConjunctionBonus) + finite(x.BorderPenalty)

	score := finite(x.BasePercent)*DignityMultiplier(x)*HouseMultiplier(x)*digbala +
		RoleAdd(x.Role) + SunAdd(x) + war + misc

	return clampRound(finite(score))
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func clampRound(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

// BasePercent converts a positional strength in [0,1] to an integer percent.
func BasePercent(houseStrength float64) int {
	return clampRound(finite(100 * houseStrength))
}
