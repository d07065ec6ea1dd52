package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

var (
	sword = &inventory.Item{ID: "sword", Name: "Sword", Type: inventory.TypeWeapon, Slot: inventory.SlotWeapon,
		Bonuses: stats.Modifiers{Attack: 5}}
	axe = &inventory.Item{ID: "axe", Name: "Axe", Type: inventory.TypeWeapon, Slot: inventory.SlotWeapon,
		Bonuses: stats.Modifiers{Attack: 7}, Rarity: inventory.Uncommon}
	vest = &inventory.Item{ID: "vest", Name: "Vest", Type: inventory.TypeArmor, Slot: inventory.SlotArmor,
		Bonuses: stats.Modifiers{Defense: 2}}
	ring = &inventory.Item{ID: "ring", Name: "Ring", Type: inventory.TypeArmor, Slot: inventory.SlotAccessory,
		Bonuses: stats.Modifiers{CritChance: 3}}
	potion = &inventory.Item{ID: "potion", Name: "Potion", Type: inventory.TypeConsumable,
		Effect: &inventory.Effect{Heal: 50}}
)

func TestAddRemove(t *testing.T) {
	inv := inventory.New()
	inv.Add(potion, 2)
	inv.Add(sword, 1)
	inv.Add(potion, 1)
	inv.Add(vest, 0)

	stacks := inv.Stacks()
	require.Len(t, stacks, 2)
	assert.Equal(t, "potion", stacks[0].Item.ID)
	assert.Equal(t, 3, stacks[0].Quantity)
	assert.Equal(t, 0, inv.Quantity("vest"))

	require.NoError(t, inv.Remove("potion", 3))
	assert.Equal(t, 0, inv.Quantity("potion"))
	assert.Len(t, inv.Stacks(), 1)

	err := inv.Remove("potion", 1)
	assert.ErrorIs(t, err, gameerr.ErrItemNotOwned)
	assert.ErrorIs(t, inv.Remove("sword", 0), gameerr.ErrInvalidAmount)
}

func TestEquip_SlotOccupiedLeavesStateUnchanged(t *testing.T) {
	inv := inventory.New()
	inv.Add(sword, 1)
	inv.Add(axe, 1)
	_, err := inv.Equip("sword", false)
	require.NoError(t, err)

	before := inv.Clone()
	_, err = inv.Equip("axe", false)
	assert.ErrorIs(t, err, gameerr.ErrSlotOccupied)
	kind, _ := gameerr.KindOf(err)
	assert.Equal(t, gameerr.KindValidation, kind)
	assert.Equal(t, before.Stacks(), inv.Stacks())
	assert.Equal(t, before.Equipment(), inv.Equipment())
}

func TestEquip_SwapReturnsOccupant(t *testing.T) {
	inv := inventory.New()
	inv.Add(sword, 1)
	inv.Add(axe, 1)
	_, err := inv.Equip("sword", false)
	require.NoError(t, err)

	prev, err := inv.Equip("axe", true)
	require.NoError(t, err)
	assert.Same(t, sword, prev)
	got, ok := inv.Equipped(inventory.SlotWeapon)
	require.True(t, ok)
	assert.Same(t, axe, got)
	assert.Equal(t, 1, inv.Quantity("sword"))
	assert.Equal(t, 0, inv.Quantity("axe"))
}

func TestEquip_Rejections(t *testing.T) {
	inv := inventory.New()
	inv.Add(potion, 1)

	_, err := inv.Equip("potion", false)
	assert.ErrorIs(t, err, gameerr.ErrWrongItemType)
	_, err = inv.Equip("sword", false)
	assert.ErrorIs(t, err, gameerr.ErrItemNotOwned)
	assert.Equal(t, 1, inv.Quantity("potion"))
}

func TestUnequip(t *testing.T) {
	inv := inventory.New()
	it, err := inv.Unequip(inventory.SlotArmor)
	require.NoError(t, err)
	assert.Nil(t, it)

	_, err = inv.Unequip(inventory.Slot("feet"))
	assert.ErrorIs(t, err, gameerr.ErrInvalidSlot)

	inv.Add(vest, 1)
	_, err = inv.Equip("vest", false)
	require.NoError(t, err)
	it, err = inv.Unequip(inventory.SlotArmor)
	require.NoError(t, err)
	assert.Same(t, vest, it)
	assert.Equal(t, 1, inv.Quantity("vest"))
	_, ok := inv.Equipped(inventory.SlotArmor)
	assert.False(t, ok)
}

func TestModifiers_SlotOrderAndRarity(t *testing.T) {
	inv := inventory.New()
	inv.Add(ring, 1)
	inv.Add(axe, 1)
	_, err := inv.Equip("ring", false)
	require.NoError(t, err)
	_, err = inv.Equip("axe", false)
	require.NoError(t, err)

	mods := inv.Modifiers()
	require.Len(t, mods, 2)
	assert.Equal(t, 10, mods[0].Attack)
	assert.Equal(t, 3, mods[1].CritChance)
}

func TestEquipUnequip_Property_Idempotent(t *testing.T) {
	items := []*inventory.Item{sword, axe, vest, ring, potion}
	rapid.Check(t, func(rt *rapid.T) {
		inv := inventory.New()
		for _, it := range items {
			inv.Add(it, rapid.IntRange(0, 3).Draw(rt, "qty_"+it.ID))
		}
		for _, it := range []*inventory.Item{sword, vest, ring} {
			if rapid.Bool().Draw(rt, "pre_"+it.ID) {
				_, _ = inv.Equip(it.ID, true)
			}
		}
		target := rapid.SampledFrom([]*inventory.Item{sword, axe, vest, ring}).Draw(rt, "target")
		if inv.Quantity(target.ID) == 0 {
			return
		}
		if _, occupied := inv.Equipped(target.Slot); occupied {
			return
		}
		before := inv.Clone()

		_, err := inv.Equip(target.ID, false)
		require.NoError(rt, err)
		_, err = inv.Unequip(target.Slot)
		require.NoError(rt, err)

		for _, it := range items {
			assert.Equal(rt, before.Quantity(it.ID), inv.Quantity(it.ID), it.ID)
		}
		assert.Equal(rt, before.Equipment(), inv.Equipment())
	})
}

func TestClone_IsIndependent(t *testing.T) {
	inv := inventory.New()
	inv.Add(potion, 1)
	c := inv.Clone()
	inv.Add(potion, 4)
	assert.Equal(t, 1, c.Quantity("potion"))
}

func TestParseSlot(t *testing.T) {
	s, err := inventory.ParseSlot(" Weapon")
	require.NoError(t, err)
	assert.Equal(t, inventory.SlotWeapon, s)
	_, err = inventory.ParseSlot("boots")
	assert.ErrorIs(t, err, gameerr.ErrInvalidSlot)
}
