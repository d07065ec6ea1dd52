package combat

import "github.com/cory-johannsen/chatrpg/internal/game/dice"

// Flee chance bounds, in percent.
const (
	BaseFleeChance = 50
	MinFleeChance  = 10
	MaxFleeChance  = 90
	// FleeSpeedStep is the flee chance gained per point of speed advantage.
	FleeSpeedStep = 5
)

// Hit is the result of one damaging action.
type Hit struct {
	// Base is attack minus defense, floored at 1, before variance.
	Base     int
	Damage   int
	Critical bool
}

// ResolveDamage rolls damage for attack against defense.
//
// A base above 1 loses up to a fifth of itself to variance; the result is
// clamped to at least 1 and doubled on a crit.
//
// Precondition: src must not be nil.
// Postcondition: 1 <= Damage <= MaxDamage(attack, defense).
func ResolveDamage(attack, defense, critChance int, src dice.Source) Hit {
	base := attack - defense
	dmg := base
	if base > 1 {
		dmg -= src.Intn(base/5 + 1)
	}
	dmg = max(dmg, 1)
	h := Hit{Base: max(base, 1), Damage: dmg}
	if dice.Percent(src, critChance) {
		h.Critical = true
		h.Damage *= 2
	}
	return h
}

// MaxDamage is the largest value ResolveDamage can return.
func MaxDamage(attack, defense int) int {
	return max(1, attack-defense) * 2
}

// FleeChance returns the percent chance to escape given both speeds.
//
// Postcondition: Result is in [MinFleeChance, MaxFleeChance].
func FleeChance(playerSpeed, monsterSpeed int) int {
	c := BaseFleeChance + FleeSpeedStep*(playerSpeed-monsterSpeed)
	return min(max(c, MinFleeChance), MaxFleeChance)
}
