package character

import (
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
)

// Equip moves one owned unit of itemID into its slot on c.
//
// With swap the current occupant, reported as previous, returns to the pack.
//
// Postcondition: On error c is unchanged; on success vitals are clamped to the
// recomputed maxima. Errors wrap gameerr.ErrWrongItemType,
// gameerr.ErrItemNotOwned or gameerr.ErrSlotOccupied.
func Equip(c *Character, itemID string, swap bool) (previous *inventory.Item, err error) {
	previous, err = c.Inventory.Equip(itemID, swap)
	if err != nil {
		return nil, err
	}
	c.ClampVitals()
	return previous, nil
}

// Unequip moves the item in slot back into the pack.
//
// Postcondition: Returns (nil, nil) and leaves c unchanged when slot is empty;
// otherwise vitals are clamped to the recomputed maxima.
func Unequip(c *Character, slot inventory.Slot) (*inventory.Item, error) {
	it, err := c.Inventory.Unequip(slot)
	if err != nil || it == nil {
		return nil, err
	}
	c.ClampVitals()
	return it, nil
}

// ConsumeResult reports what using an item did.
type ConsumeResult struct {
	Item         *inventory.Item
	Healed       int
	ManaRestored int
	Buff         *Buff
}

// Consume uses one unit of itemID from c's pack.
//
// Heals and mana restores are capped at the maxima. A buff from the same item
// replaces any buff that item already granted.
//
// Postcondition: On error c is unchanged. Errors wrap gameerr.ErrItemNotOwned
// or gameerr.ErrNotConsumable.
func Consume(c *Character, itemID string) (ConsumeResult, error) {
	if err := CanConsume(c, itemID); err != nil {
		return ConsumeResult{}, err
	}
	it, _ := c.Inventory.Find(itemID)
	if err := c.Inventory.Remove(itemID, 1); err != nil {
		return ConsumeResult{}, err
	}

	res := ConsumeResult{Item: it}
	eff := it.Effect
	if eff.BuffTurns > 0 && !eff.Buff.IsZero() {
		b := Buff{Source: it.ID, Modifiers: eff.Buff, TurnsRemaining: eff.BuffTurns}
		c.addBuff(b)
		res.Buff = &b
	}
	res.Healed = c.Heal(eff.Heal)
	res.ManaRestored = c.RestoreMana(eff.RestoreMana)
	return res, nil
}

func (c *Character) addBuff(b Buff) {
	for i := range c.Buffs {
		if c.Buffs[i].Source == b.Source {
			c.Buffs[i] = b
			return
		}
	}
	c.Buffs = append(c.Buffs, b)
}

// CanConsume checks the preconditions of Consume without changing c.
func CanConsume(c *Character, itemID string) error {
	it, ok := c.Inventory.Find(itemID)
	if !ok {
		return gameerr.Wrapf(gameerr.ErrItemNotOwned, "%q", itemID)
	}
	if !it.Consumable() {
		return gameerr.Wrapf(gameerr.ErrNotConsumable, "%q", itemID)
	}
	return nil
}
