package stats

import (
	"strings"

	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
)

// Class is the closed set of playable character classes.
type Class int

const (
	ClassUnknown Class = iota // zero value; intentionally invalid
	Warrior
	Mage
	Rogue
)

// Classes lists every playable class in display order.
var Classes = []Class{Warrior, Mage, Rogue}

// String returns the lowercase class name.
func (c Class) String() string {
	switch c {
	case Warrior:
		return "warrior"
	case Mage:
		return "mage"
	case Rogue:
		return "rogue"
	default:
		return "unknown"
	}
}

// Valid reports whether c is one of the playable classes.
func (c Class) Valid() bool {
	return c == Warrior || c == Mage || c == Rogue
}

// ParseClass resolves a case-insensitive class name.
//
// Postcondition: Returns a valid Class or an error wrapping gameerr.ErrInvalidClass.
func ParseClass(s string) (Class, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "warrior":
		return Warrior, nil
	case "mage":
		return Mage, nil
	case "rogue":
		return Rogue, nil
	}
	return ClassUnknown, gameerr.Wrapf(gameerr.ErrInvalidClass, "%q", s)
}

// Growth is the per-class stat curve: the level-1 values plus the amount each
// field gains per level thereafter.
type Growth struct {
	Start    Block
	PerLevel Block
}

// growthTable holds the fixed curve for every class. Warriors lean on health
// and strength, mages on mana and magic, rogues on speed and crit.
var growthTable = map[Class]Growth{
	Warrior: {
		Start:    Block{MaxHealth: 100, MaxMana: 30, Attack: 15, Defense: 5, Speed: 8, CritChance: 5, Magic: 2},
		PerLevel: Block{MaxHealth: 12, MaxMana: 3, Attack: 3, Defense: 2, Speed: 1},
	},
	Mage: {
		Start:    Block{MaxHealth: 80, MaxMana: 80, Attack: 8, Defense: 3, Speed: 10, CritChance: 5, Magic: 16},
		PerLevel: Block{MaxHealth: 6, MaxMana: 10, Attack: 1, Defense: 1, Speed: 1, Magic: 3},
	},
	Rogue: {
		Start:    Block{MaxHealth: 90, MaxMana: 40, Attack: 12, Defense: 4, Speed: 14, CritChance: 15, Magic: 4},
		PerLevel: Block{MaxHealth: 8, MaxMana: 4, Attack: 2, Defense: 1, Speed: 2, CritChance: 1, Magic: 1},
	},
}

// GrowthFor returns the growth curve for c.
//
// Postcondition: ok is false iff c is not a playable class.
func GrowthFor(c Class) (Growth, bool) {
	g, ok := growthTable[c]
	return g, ok
}
