// Package progression grants experience and gold and levels characters up.
package progression

import (
	"math"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// MaxLevel is the highest level a character can reach.
const MaxLevel = 50

// BaseThreshold is the experience needed to leave level 1.
const BaseThreshold = 100

// Threshold returns the experience needed to advance from level to level+1.
// The curve starts at BaseThreshold and grows by half (integer division)
// each level.
//
// Postcondition: Strictly increasing in level; levels below 1 are treated as 1.
func Threshold(level int) int {
	t := BaseThreshold
	for l := 1; l < level; l++ {
		t = t * 3 / 2
	}
	return t
}

// LevelUpEvent records one level gained.
type LevelUpEvent struct {
	FromLevel int
	ToLevel   int
	Stats     stats.Block
}

// GrantExperience adds amount to c's experience and applies every level-up it
// pays for. Each level-up fully restores health and mana against the new maxima.
//
// Precondition: c must not be nil.
// Postcondition: On success c.Experience < Threshold(c.Level) and
// c.Level <= MaxLevel; events are in ascending level order. A negative amount
// returns an error wrapping gameerr.ErrInvalidAmount and leaves c unchanged.
func GrantExperience(c *character.Character, amount int) ([]LevelUpEvent, error) {
	if amount < 0 {
		return nil, gameerr.Wrapf(gameerr.ErrInvalidAmount, "experience %d", amount)
	}
	c.Experience = saturatingAdd(c.Experience, amount)

	var events []LevelUpEvent
	for c.Level < MaxLevel {
		need := Threshold(c.Level)
		if c.Experience < need {
			break
		}
		c.Experience -= need
		c.Level++
		c.RestoreFull()
		events = append(events, LevelUpEvent{FromLevel: c.Level - 1, ToLevel: c.Level, Stats: c.Stats()})
	}
	if c.Level >= MaxLevel {
		c.Experience = min(c.Experience, Threshold(MaxLevel)-1)
	}
	return events, nil
}

// GrantReward adds gold and experience to c.
//
// Postcondition: Negative xp or gold returns an error wrapping
// gameerr.ErrInvalidAmount and leaves c unchanged.
func GrantReward(c *character.Character, xp, gold int) ([]LevelUpEvent, error) {
	if gold < 0 {
		return nil, gameerr.Wrapf(gameerr.ErrInvalidAmount, "gold %d", gold)
	}
	if xp < 0 {
		return nil, gameerr.Wrapf(gameerr.ErrInvalidAmount, "experience %d", xp)
	}
	c.Gold = saturatingAdd(c.Gold, gold)
	return GrantExperience(c, xp)
}

// saturatingAdd returns a+b, stopping at math.MaxInt.
//
// Precondition: a and b are non-negative.
func saturatingAdd(a, b int) int {
	return min(a, math.MaxInt-b) + b
}

// ToNextLevel returns how much more experience c needs to level up.
//
// Postcondition: Returns 0 at MaxLevel.
func ToNextLevel(c *character.Character) int {
	if c.Level >= MaxLevel {
		return 0
	}
	return Threshold(c.Level) - c.Experience
}
