package inventory

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rarity orders items from Common to Immortal. Higher rarities scale an item's
// modifiers and appear in rarer loot tiers.
type Rarity int

const (
	Common Rarity = iota
	Uncommon
	Rare
	Mythical
	Legendary
	Immortal
)

// Rarities lists every rarity from lowest to highest.
var Rarities = []Rarity{Common, Uncommon, Rare, Mythical, Legendary, Immortal}

var rarityNames = map[Rarity]string{
	Common:    "common",
	Uncommon:  "uncommon",
	Rare:      "rare",
	Mythical:  "mythical",
	Legendary: "legendary",
	Immortal:  "immortal",
}

// rarityMultipliers are percentages applied to an item's base modifiers.
var rarityMultipliers = map[Rarity]int{
	Common:    100,
	Uncommon:  150,
	Rare:      200,
	Mythical:  300,
	Legendary: 400,
	Immortal:  500,
}

// String returns the lowercase rarity name.
func (r Rarity) String() string {
	if n, ok := rarityNames[r]; ok {
		return n
	}
	return fmt.Sprintf("rarity(%d)", int(r))
}

// Valid reports whether r is a defined rarity.
func (r Rarity) Valid() bool {
	_, ok := rarityNames[r]
	return ok
}

// Multiplier returns the percentage by which r scales item modifiers.
//
// Postcondition: Returns 100 for an undefined rarity.
func (r Rarity) Multiplier() int {
	if m, ok := rarityMultipliers[r]; ok {
		return m
	}
	return 100
}

// Lower returns the next rarity below r.
//
// Postcondition: ok is false iff r is Common or undefined.
func (r Rarity) Lower() (Rarity, bool) {
	if r <= Common || !r.Valid() {
		return Common, false
	}
	return r - 1, true
}

// ParseRarity resolves a case-insensitive rarity name.
func ParseRarity(s string) (Rarity, error) {
	want := strings.ToLower(strings.TrimSpace(s))
	for _, r := range Rarities {
		if rarityNames[r] == want {
			return r, nil
		}
	}
	return Common, fmt.Errorf("unknown rarity %q", s)
}

// UnmarshalYAML decodes a rarity from its name.
func (r *Rarity) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseRarity(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// MarshalYAML encodes a rarity as its name.
func (r Rarity) MarshalYAML() (any, error) {
	return r.String(), nil
}
