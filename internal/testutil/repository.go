package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
	"github.com/cory-johannsen/chatrpg/internal/storage"
)

// NewCharacter builds a starter character for userID from the shipped items.
func NewCharacter(t testing.TB, items *inventory.Registry, userID int64, class stats.Class) *character.Character {
	t.Helper()
	c, err := character.New(userID, "Hero", class, items)
	require.NoError(t, err)
	return c
}

// RunCharacterRepositoryContract exercises the behaviour every
// storage.CharacterRepository must share. newRepo must return an empty
// repository each time it is called.
func RunCharacterRepositoryContract(t *testing.T, newRepo func(t *testing.T) storage.CharacterRepository) {
	items := LoadItems(t)
	ctx := context.Background()

	t.Run("CreateAssignsID", func(t *testing.T) {
		repo := newRepo(t)
		created, err := repo.Create(ctx, NewCharacter(t, items, 100, stats.Warrior))
		require.NoError(t, err)
		assert.Greater(t, created.ID, int64(0))
		assert.Equal(t, int64(100), created.UserID)
		assert.Equal(t, stats.Warrior, created.Class)
		assert.False(t, created.CreatedAt.IsZero())

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assertSameState(t, created, got)
	})

	t.Run("CreateDuplicateUser", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Create(ctx, NewCharacter(t, items, 101, stats.Mage))
		require.NoError(t, err)
		_, err = repo.Create(ctx, NewCharacter(t, items, 101, stats.Rogue))
		assert.ErrorIs(t, err, gameerr.ErrCharacterExists)
	})

	t.Run("NotFound", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.GetByID(ctx, 999)
		assert.ErrorIs(t, err, gameerr.ErrCharacterNotFound)
		_, err = repo.GetByUserID(ctx, 999)
		assert.ErrorIs(t, err, gameerr.ErrCharacterNotFound)
		err = repo.Save(ctx, &character.Character{ID: 999, Inventory: inventory.New()})
		assert.ErrorIs(t, err, gameerr.ErrCharacterNotFound)
	})

	t.Run("SaveRoundTrip", func(t *testing.T) {
		repo := newRepo(t)
		c, err := repo.Create(ctx, NewCharacter(t, items, 102, stats.Warrior))
		require.NoError(t, err)

		sword, err := items.Lookup("iron_sword")
		require.NoError(t, err)
		charm, err := items.Lookup("oak_shield_charm")
		require.NoError(t, err)
		c.Inventory.Add(sword, 1)
		c.Inventory.Add(charm, 1)
		_, err = character.Equip(c, "iron_sword", true)
		require.NoError(t, err)
		_, err = character.Equip(c, "oak_shield_charm", false)
		require.NoError(t, err)
		_, err = character.Consume(c, "health_potion")
		require.NoError(t, err)
		c.Buffs = append(c.Buffs, character.Buff{Source: "elixir_of_might", Modifiers: stats.Modifiers{Attack: 5}, TurnsRemaining: 2})
		c.Level = 3
		c.Experience = 42
		c.Gold = 77
		c.CurrentHealth = 30
		c.CurrentMana = 1
		require.NoError(t, repo.Save(ctx, c))

		got, err := repo.GetByUserID(ctx, 102)
		require.NoError(t, err)
		assertSameState(t, c, got)
		weapon, ok := got.Inventory.Equipped(inventory.SlotWeapon)
		require.True(t, ok)
		assert.Equal(t, "iron_sword", weapon.ID)
		assert.Equal(t, 1, got.Inventory.Quantity("basic_sword"))
		assert.Equal(t, 1, got.Inventory.Quantity("health_potion"))
	})

	t.Run("ReturnedValuesAreCopies", func(t *testing.T) {
		repo := newRepo(t)
		c, err := repo.Create(ctx, NewCharacter(t, items, 103, stats.Rogue))
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		got.Gold = 1_000
		require.NoError(t, got.Inventory.Remove("health_potion", 2))

		again, err := repo.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, again.Gold)
		assert.Equal(t, 2, again.Inventory.Quantity("health_potion"))
	})
}

func assertSameState(t *testing.T, want, got *character.Character) {
	t.Helper()
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.Name, got.Name)
	assert.Equal(t, want.Class, got.Class)
	assert.Equal(t, want.Level, got.Level)
	assert.Equal(t, want.Experience, got.Experience)
	assert.Equal(t, want.Gold, got.Gold)
	assert.Equal(t, want.CurrentHealth, got.CurrentHealth)
	assert.Equal(t, want.CurrentMana, got.CurrentMana)
	assert.Equal(t, want.Stats(), got.Stats())
	assert.Equal(t, want.Inventory.Stacks(), got.Inventory.Stacks())
	assert.Equal(t, want.Inventory.Equipment(), got.Inventory.Equipment())
	assert.Equal(t, len(want.Buffs), len(got.Buffs))
	for i := range want.Buffs {
		assert.Equal(t, want.Buffs[i], got.Buffs[i])
	}
}
