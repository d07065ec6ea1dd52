package character

import (
	"strings"
	"unicode/utf8"

	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// MaxNameLength bounds character names, in runes.
const MaxNameLength = 32

// StarterPotions is the number of health potions every new character carries.
const StarterPotions = 2

// StarterPotionID is the item granted StarterPotions times at creation.
const StarterPotionID = "health_potion"

// Kit is the equipment a class starts with.
type Kit struct {
	Weapon string
	Armor  string
}

var kits = map[stats.Class]Kit{
	stats.Warrior: {Weapon: "basic_sword", Armor: "leather_armor"},
	stats.Mage:    {Weapon: "wooden_staff", Armor: "apprentice_robes"},
	stats.Rogue:   {Weapon: "dagger", Armor: "leather_vest"},
}

// KitFor returns the starting equipment of class c.
//
// Postcondition: ok is false iff c is not a playable class.
func KitFor(c stats.Class) (Kit, bool) {
	k, ok := kits[c]
	return k, ok
}

// New constructs a level-1 character with its class kit equipped, starter
// potions in the pack, and full health and mana.
//
// Precondition: items must contain the kit and potion templates.
// Postcondition: Returns a Character ready for persistence, or an error
// wrapping gameerr.ErrInvalidName, gameerr.ErrInvalidClass or gameerr.ErrItemNotFound.
func New(userID int64, name string, class stats.Class, items *inventory.Registry) (*Character, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
		return nil, gameerr.Wrapf(gameerr.ErrInvalidName, "name must be 1-%d characters", MaxNameLength)
	}
	kit, ok := KitFor(class)
	if !ok {
		return nil, gameerr.Wrapf(gameerr.ErrInvalidClass, "%s", class)
	}

	c := &Character{
		UserID:    userID,
		Name:      name,
		Class:     class,
		Level:     1,
		Inventory: inventory.New(),
	}
	for _, id := range []string{kit.Weapon, kit.Armor} {
		it, err := items.Lookup(id)
		if err != nil {
			return nil, err
		}
		c.Inventory.Add(it, 1)
		if _, err := c.Inventory.Equip(id, false); err != nil {
			return nil, err
		}
	}
	potion, err := items.Lookup(StarterPotionID)
	if err != nil {
		return nil, err
	}
	c.Inventory.Add(potion, StarterPotions)
	c.RestoreFull()
	return c, nil
}
