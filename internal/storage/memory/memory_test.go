package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
	"github.com/cory-johannsen/chatrpg/internal/storage"
	"github.com/cory-johannsen/chatrpg/internal/storage/memory"
	"github.com/cory-johannsen/chatrpg/internal/testutil"
)

func TestCharacterRepository_Contract(t *testing.T) {
	testutil.RunCharacterRepositoryContract(t, func(t *testing.T) storage.CharacterRepository {
		return memory.NewCharacterRepository()
	})
}

func TestCharacterRepository_ConcurrentCreate(t *testing.T) {
	repo := memory.NewCharacterRepository()
	items := testutil.LoadItems(t)
	ctx := context.Background()

	chars := make([]*character.Character, 32)
	for i := range chars {
		chars[i] = testutil.NewCharacter(t, items, int64(i+1), stats.Mage)
	}

	var wg sync.WaitGroup
	for _, c := range chars {
		wg.Add(1)
		go func(c *character.Character) {
			defer wg.Done()
			_, err := repo.Create(ctx, c)
			assert.NoError(t, err)
		}(c)
	}
	wg.Wait()
	assert.Equal(t, 32, repo.Len())

	seen := map[int64]bool{}
	for i := 1; i <= 32; i++ {
		c, err := repo.GetByUserID(ctx, int64(i))
		require.NoError(t, err)
		assert.False(t, seen[c.ID], "duplicate id %d", c.ID)
		seen[c.ID] = true
	}
}

func TestCharacterRepository_SaveKeepsOwner(t *testing.T) {
	repo := memory.NewCharacterRepository()
	ctx := context.Background()
	created, err := repo.Create(ctx, testutil.NewCharacter(t, testutil.LoadItems(t), 5, stats.Rogue))
	require.NoError(t, err)

	created.UserID = 6
	require.NoError(t, repo.Save(ctx, created))

	got, err := repo.GetByUserID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, int64(5), got.UserID)
}
