package inventory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

func TestRarity_Ordering(t *testing.T) {
	assert.Equal(t, []int{100, 150, 200, 300, 400, 500}, func() []int {
		var out []int
		for _, r := range inventory.Rarities {
			out = append(out, r.Multiplier())
		}
		return out
	}())

	lower, ok := inventory.Legendary.Lower()
	require.True(t, ok)
	assert.Equal(t, inventory.Mythical, lower)
	_, ok = inventory.Common.Lower()
	assert.False(t, ok)
}

func TestRarity_YAMLRoundTrip(t *testing.T) {
	var out struct {
		R inventory.Rarity `yaml:"r"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("r: Legendary"), &out))
	assert.Equal(t, inventory.Legendary, out.R)
	assert.Error(t, yaml.Unmarshal([]byte("r: shiny"), &out))

	data, err := yaml.Marshal(out)
	require.NoError(t, err)
	assert.Equal(t, "r: legendary\n", string(data))
}

func TestItem_ModifiersScaleWithRarity(t *testing.T) {
	it := &inventory.Item{ID: "x", Name: "X", Type: inventory.TypeArmor, Slot: inventory.SlotArmor,
		Rarity: inventory.Rare, Bonuses: stats.Modifiers{Defense: 3, MaxHealth: 10}}
	assert.Equal(t, stats.Modifiers{Defense: 6, MaxHealth: 20}, it.Modifiers())
}

func TestItem_Validate(t *testing.T) {
	tests := []struct {
		name string
		item inventory.Item
		ok   bool
	}{
		{"weapon", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeWeapon, Slot: inventory.SlotWeapon}, true},
		{"accessory", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeArmor, Slot: inventory.SlotAccessory}, true},
		{"consumable", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeConsumable, Effect: &inventory.Effect{RestoreMana: 5}}, true},
		{"missing id", inventory.Item{Name: "A", Type: inventory.TypeWeapon, Slot: inventory.SlotWeapon}, false},
		{"bad type", inventory.Item{ID: "a", Name: "A", Type: "junk"}, false},
		{"weapon in armor slot", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeWeapon, Slot: inventory.SlotArmor}, false},
		{"consumable with slot", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeConsumable, Slot: inventory.SlotWeapon, Effect: &inventory.Effect{Heal: 1}}, false},
		{"consumable without effect", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeConsumable}, false},
		{"buff without turns", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeConsumable, Effect: &inventory.Effect{Buff: stats.Modifiers{Attack: 2}}}, false},
		{"negative heal", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeConsumable, Effect: &inventory.Effect{Heal: -1, RestoreMana: 1}}, false},
		{"weapon with effect", inventory.Item{ID: "a", Name: "A", Type: inventory.TypeWeapon, Slot: inventory.SlotWeapon, Effect: &inventory.Effect{Heal: 1}}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.item.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

const itemsYAML = `
- id: basic_sword
  name: Basic Sword
  type: weapon
  slot: weapon
  bonuses:
    attack: 5
- id: health_potion
  name: Health Potion
  type: consumable
  rarity: common
  effect:
    heal: 50
`

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "items.yaml"), []byte(itemsYAML), 0o644))

	reg, err := inventory.LoadItems(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Len())

	sw, ok := reg.Item("basic_sword")
	require.True(t, ok)
	assert.Equal(t, 5, sw.Modifiers().Attack)

	_, err = reg.Lookup("nope")
	assert.ErrorIs(t, err, gameerr.ErrItemNotFound)
	ids := []string{}
	for _, it := range reg.All() {
		ids = append(ids, it.ID)
	}
	assert.Equal(t, []string{"basic_sword", "health_potion"}, ids)
}

func TestLoadItems_RejectsDuplicateAndInvalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte(itemsYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.yaml"), []byte(itemsYAML), 0o644))
	_, err := inventory.LoadItems(dir)
	assert.ErrorContains(t, err, "already registered")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("- id: x\n  name: X\n  type: weapon\n"), 0o644))
	_, err = inventory.LoadItems(dir)
	assert.Error(t, err)
}

func TestLoadContentItems(t *testing.T) {
	reg, err := inventory.LoadItems("../../../content/items")
	require.NoError(t, err)
	for _, id := range []string{"basic_sword", "leather_armor", "wooden_staff", "apprentice_robes", "dagger", "leather_vest", "health_potion", "mana_potion"} {
		_, ok := reg.Item(id)
		assert.True(t, ok, id)
	}
}
