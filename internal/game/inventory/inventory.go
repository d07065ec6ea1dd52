package inventory

import (
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// Stack is a quantity of one item template.
type Stack struct {
	Item     *Item
	Quantity int
}

// Inventory is a character's owned items plus what is equipped.
//
// Stacks keep insertion order and never hold a zero quantity. An equipped item
// is not counted in the stacks; equipping moves one unit out of its stack and
// unequipping moves it back.
//
// Inventory is not safe for concurrent use; callers serialize access per character.
type Inventory struct {
	stacks   []Stack
	equipped map[Slot]*Item
}

// New returns an empty Inventory.
func New() *Inventory {
	return &Inventory{equipped: make(map[Slot]*Item)}
}

// Add puts qty units of it into the stacks.
//
// Precondition: it must not be nil.
// Postcondition: Quantity(it.ID) grows by qty; qty < 1 is a no-op.
func (inv *Inventory) Add(it *Item, qty int) {
	if qty < 1 {
		return
	}
	for i := range inv.stacks {
		if inv.stacks[i].Item.ID == it.ID {
			inv.stacks[i].Quantity += qty
			return
		}
	}
	inv.stacks = append(inv.stacks, Stack{Item: it, Quantity: qty})
}

// Remove takes qty units of itemID out of the stacks.
//
// Postcondition: On error the inventory is unchanged; an emptied stack is dropped.
func (inv *Inventory) Remove(itemID string, qty int) error {
	if qty < 1 {
		return gameerr.Wrapf(gameerr.ErrInvalidAmount, "quantity %d", qty)
	}
	i := inv.index(itemID)
	if i < 0 || inv.stacks[i].Quantity < qty {
		return gameerr.Wrapf(gameerr.ErrItemNotOwned, "%q", itemID)
	}
	inv.stacks[i].Quantity -= qty
	if inv.stacks[i].Quantity == 0 {
		inv.stacks = append(inv.stacks[:i], inv.stacks[i+1:]...)
	}
	return nil
}

func (inv *Inventory) index(itemID string) int {
	for i := range inv.stacks {
		if inv.stacks[i].Item.ID == itemID {
			return i
		}
	}
	return -1
}

// Quantity returns how many unequipped units of itemID are owned.
func (inv *Inventory) Quantity(itemID string) int {
	if i := inv.index(itemID); i >= 0 {
		return inv.stacks[i].Quantity
	}
	return 0
}

// Find returns the template of an owned, unequipped item.
//
// Postcondition: ok is false iff no unit of itemID is in the stacks.
func (inv *Inventory) Find(itemID string) (*Item, bool) {
	if i := inv.index(itemID); i >= 0 {
		return inv.stacks[i].Item, true
	}
	return nil, false
}

// Stacks returns a copy of the stacks in insertion order.
func (inv *Inventory) Stacks() []Stack {
	out := make([]Stack, len(inv.stacks))
	copy(out, inv.stacks)
	return out
}

// Equipped returns the item in slot.
//
// Postcondition: ok is false iff slot is empty.
func (inv *Inventory) Equipped(slot Slot) (*Item, bool) {
	it, ok := inv.equipped[slot]
	return it, ok
}

// Equipment returns a copy of the slot map.
func (inv *Inventory) Equipment() map[Slot]*Item {
	out := make(map[Slot]*Item, len(inv.equipped))
	for s, it := range inv.equipped {
		out[s] = it
	}
	return out
}

// Modifiers returns the rarity-scaled modifiers of every equipped item in
// slot order.
func (inv *Inventory) Modifiers() []stats.Modifiers {
	var mods []stats.Modifiers
	for _, s := range Slots {
		if it, ok := inv.equipped[s]; ok {
			mods = append(mods, it.Modifiers())
		}
	}
	return mods
}

// Equip moves one unit of itemID from the stacks into its slot.
//
// When the slot is occupied and swap is true the occupant returns to the
// stacks first and is reported as previous.
//
// Postcondition: On error the inventory is unchanged. Errors wrap
// gameerr.ErrItemNotOwned, gameerr.ErrWrongItemType or gameerr.ErrSlotOccupied.
func (inv *Inventory) Equip(itemID string, swap bool) (previous *Item, err error) {
	it, ok := inv.Find(itemID)
	if !ok {
		return nil, gameerr.Wrapf(gameerr.ErrItemNotOwned, "%q", itemID)
	}
	if !it.Equippable() {
		return nil, gameerr.Wrapf(gameerr.ErrWrongItemType, "%q has no equipment slot", itemID)
	}
	occupant, occupied := inv.equipped[it.Slot]
	if occupied && !swap {
		return nil, gameerr.Wrapf(gameerr.ErrSlotOccupied, "%s holds %q", it.Slot, occupant.ID)
	}
	if err := inv.Remove(itemID, 1); err != nil {
		return nil, err
	}
	if occupied {
		inv.Add(occupant, 1)
		previous = occupant
	}
	inv.equipped[it.Slot] = it
	return previous, nil
}

// Unequip moves the item in slot back into the stacks.
//
// Postcondition: Returns (nil, nil) when slot is empty; an error wrapping
// gameerr.ErrInvalidSlot when slot is not a defined slot.
func (inv *Inventory) Unequip(slot Slot) (*Item, error) {
	if !slot.Valid() {
		return nil, gameerr.Wrapf(gameerr.ErrInvalidSlot, "%q", string(slot))
	}
	it, ok := inv.equipped[slot]
	if !ok {
		return nil, nil
	}
	delete(inv.equipped, slot)
	inv.Add(it, 1)
	return it, nil
}

// Restore places it directly into slot without touching the stacks.
// It is used when rehydrating a persisted inventory.
//
// Precondition: it.Slot == slot.
func (inv *Inventory) Restore(slot Slot, it *Item) {
	inv.equipped[slot] = it
}

// Clone returns a deep copy of the containers; item templates are shared.
func (inv *Inventory) Clone() *Inventory {
	return &Inventory{stacks: inv.Stacks(), equipped: inv.Equipment()}
}
