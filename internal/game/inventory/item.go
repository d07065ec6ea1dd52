package inventory

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/chatrpg/internal/game/content"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// ItemType is the broad category of an item.
type ItemType string

const (
	TypeWeapon     ItemType = "weapon"
	TypeArmor      ItemType = "armor"
	TypeConsumable ItemType = "consumable"
)

// Slot names an equipment position on a character.
type Slot string

const (
	SlotWeapon    Slot = "weapon"
	SlotArmor     Slot = "armor"
	SlotAccessory Slot = "accessory"
)

// Slots lists every equipment slot in display order.
var Slots = []Slot{SlotWeapon, SlotArmor, SlotAccessory}

// ParseSlot resolves a case-insensitive slot name.
//
// Postcondition: Returns a valid Slot or an error wrapping gameerr.ErrInvalidSlot.
func ParseSlot(s string) (Slot, error) {
	slot := Slot(strings.ToLower(strings.TrimSpace(s)))
	if slot.Valid() {
		return slot, nil
	}
	return "", gameerr.Wrapf(gameerr.ErrInvalidSlot, "%q", s)
}

// Valid reports whether s is one of Slots.
func (s Slot) Valid() bool {
	return s == SlotWeapon || s == SlotArmor || s == SlotAccessory
}

// Effect is what a consumable does when used. Any combination of fields may
// be set; a buff with BuffTurns == 0 is ignored.
type Effect struct {
	Heal        int             `yaml:"heal" validate:"gte=0"`
	RestoreMana int             `yaml:"restore_mana" validate:"gte=0"`
	Buff        stats.Modifiers `yaml:"buff"`
	BuffTurns   int             `yaml:"buff_turns" validate:"gte=0"`
}

// IsZero reports whether the effect does nothing.
func (e Effect) IsZero() bool {
	return e.Heal == 0 && e.RestoreMana == 0 && (e.BuffTurns == 0 || e.Buff.IsZero())
}

// Item is an immutable item template shared by every character that owns a
// copy of it.
type Item struct {
	ID          string          `yaml:"id" validate:"required"`
	Name        string          `yaml:"name" validate:"required"`
	Description string          `yaml:"description"`
	Type        ItemType        `yaml:"type" validate:"required,oneof=weapon armor consumable"`
	Rarity      Rarity          `yaml:"rarity" validate:"gte=0,lte=5"`
	Slot        Slot            `yaml:"slot" validate:"omitempty,oneof=weapon armor accessory"`
	Bonuses     stats.Modifiers `yaml:"bonuses"`
	Effect      *Effect         `yaml:"effect"`
}

// Validate checks struct tags and the type/slot/effect pairing.
//
// Postcondition: Returns nil iff weapons sit in the weapon slot, armor in the
// armor or accessory slot, and consumables carry a non-empty effect and no slot.
func (it *Item) Validate() error {
	var errs []error
	if err := content.ValidateStruct(it); err != nil {
		errs = append(errs, err)
	}
	switch it.Type {
	case TypeWeapon:
		if it.Slot != SlotWeapon {
			errs = append(errs, fmt.Errorf("weapon %q must use slot %q", it.ID, SlotWeapon))
		}
	case TypeArmor:
		if it.Slot != SlotArmor && it.Slot != SlotAccessory {
			errs = append(errs, fmt.Errorf("armor %q must use slot %q or %q", it.ID, SlotArmor, SlotAccessory))
		}
	case TypeConsumable:
		if it.Slot != "" {
			errs = append(errs, fmt.Errorf("consumable %q must not have a slot", it.ID))
		}
		if it.Effect == nil || it.Effect.IsZero() {
			errs = append(errs, fmt.Errorf("consumable %q must have an effect", it.ID))
		}
	}
	if it.Type != TypeConsumable && it.Effect != nil {
		errs = append(errs, fmt.Errorf("only consumables may have an effect; %q is %s", it.ID, it.Type))
	}
	if len(errs) > 0 {
		return fmt.Errorf("item validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Equippable reports whether the item occupies an equipment slot.
func (it *Item) Equippable() bool { return it.Slot != "" }

// Consumable reports whether the item can be used up for an effect.
func (it *Item) Consumable() bool { return it.Type == TypeConsumable && it.Effect != nil }

// Modifiers returns the item's bonuses scaled by its rarity.
func (it *Item) Modifiers() stats.Modifiers {
	return it.Bonuses.Scale(it.Rarity.Multiplier())
}
