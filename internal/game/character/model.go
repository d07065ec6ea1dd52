// Package character defines the player character and the operations that
// change its equipment, consumables and vitals.
package character

import (
	"time"

	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// Buff is a temporary stat bonus granted by a consumable.
type Buff struct {
	Source         string          `json:"source"`
	Modifiers      stats.Modifiers `json:"modifiers"`
	TurnsRemaining int             `json:"turns_remaining"`
}

// Character is a player character's persistent state.
//
// ID is set by the persistence layer; zero indicates an unsaved character.
// Invariants: Level >= 1; 0 <= CurrentHealth <= Stats().MaxHealth;
// 0 <= CurrentMana <= Stats().MaxMana.
//
// Character is not safe for concurrent use; callers serialize access per ID.
type Character struct {
	ID     int64
	UserID int64

	Name       string
	Class      stats.Class
	Level      int
	Experience int
	Gold       int

	CurrentHealth int
	CurrentMana   int

	Inventory *inventory.Inventory
	Buffs     []Buff

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stats returns the character's effective statistics: class base at the
// current level plus equipped item modifiers plus active buffs.
//
// Postcondition: Recomputed on every call.
func (c *Character) Stats() stats.Block {
	mods := c.Inventory.Modifiers()
	for _, b := range c.Buffs {
		mods = append(mods, b.Modifiers)
	}
	return stats.Effective(c.Class, c.Level, mods...)
}

// Alive reports whether the character has health remaining.
func (c *Character) Alive() bool { return c.CurrentHealth > 0 }

// ClampVitals bounds current health and mana to [0, max].
func (c *Character) ClampVitals() {
	s := c.Stats()
	c.CurrentHealth = min(max(c.CurrentHealth, 0), s.MaxHealth)
	c.CurrentMana = min(max(c.CurrentMana, 0), s.MaxMana)
}

// RestoreFull sets current health and mana to their maxima.
func (c *Character) RestoreFull() {
	s := c.Stats()
	c.CurrentHealth = s.MaxHealth
	c.CurrentMana = s.MaxMana
}

// Heal adds up to amount health without exceeding the maximum.
//
// Postcondition: Returns the health actually gained.
func (c *Character) Heal(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.CurrentHealth
	c.CurrentHealth = min(c.CurrentHealth+amount, c.Stats().MaxHealth)
	return c.CurrentHealth - before
}

// RestoreMana adds up to amount mana without exceeding the maximum.
//
// Postcondition: Returns the mana actually gained.
func (c *Character) RestoreMana(amount int) int {
	if amount <= 0 {
		return 0
	}
	before := c.CurrentMana
	c.CurrentMana = min(c.CurrentMana+amount, c.Stats().MaxMana)
	return c.CurrentMana - before
}

// SpendMana deducts cost from current mana.
//
// Postcondition: On error (wrapping gameerr.ErrInsufficientMana) mana is unchanged.
func (c *Character) SpendMana(cost int) error {
	if cost > c.CurrentMana {
		return gameerr.Wrapf(gameerr.ErrInsufficientMana, "need %d, have %d", cost, c.CurrentMana)
	}
	c.CurrentMana -= cost
	return nil
}

// TakeDamage subtracts amount from current health, flooring at zero.
func (c *Character) TakeDamage(amount int) {
	c.CurrentHealth = max(c.CurrentHealth-amount, 0)
}

// TickBuffs counts every buff down by one round and drops the expired ones.
//
// Postcondition: Vitals are clamped to the maxima that remain.
func (c *Character) TickBuffs() {
	if len(c.Buffs) == 0 {
		return
	}
	kept := c.Buffs[:0]
	for _, b := range c.Buffs {
		b.TurnsRemaining--
		if b.TurnsRemaining > 0 {
			kept = append(kept, b)
		}
	}
	c.Buffs = kept
	c.ClampVitals()
}

// ClearBuffs removes every active buff.
func (c *Character) ClearBuffs() {
	c.Buffs = nil
	c.ClampVitals()
}

// Clone returns a deep copy; item templates are shared.
func (c *Character) Clone() *Character {
	cp := *c
	cp.Inventory = c.Inventory.Clone()
	if c.Buffs != nil {
		cp.Buffs = append([]Buff(nil), c.Buffs...)
	}
	return &cp
}
