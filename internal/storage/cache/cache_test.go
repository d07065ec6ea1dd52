package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
	"github.com/cory-johannsen/chatrpg/internal/storage"
	"github.com/cory-johannsen/chatrpg/internal/storage/cache"
	"github.com/cory-johannsen/chatrpg/internal/storage/memory"
	"github.com/cory-johannsen/chatrpg/internal/testutil"
)

// countingRepo records how often reads reach the wrapped repository.
type countingRepo struct {
	storage.CharacterRepository
	reads   int
	saveErr error
}

func (r *countingRepo) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	r.reads++
	return r.CharacterRepository.GetByID(ctx, id)
}

func (r *countingRepo) GetByUserID(ctx context.Context, userID int64) (*character.Character, error) {
	r.reads++
	return r.CharacterRepository.GetByUserID(ctx, userID)
}

func (r *countingRepo) Save(ctx context.Context, c *character.Character) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	return r.CharacterRepository.Save(ctx, c)
}

func TestCharacterRepository_Contract(t *testing.T) {
	testutil.RunCharacterRepositoryContract(t, func(t *testing.T) storage.CharacterRepository {
		return cache.New(memory.NewCharacterRepository(), 16, time.Minute)
	})
}

func TestCharacterRepository_ReadThrough(t *testing.T) {
	inner := &countingRepo{CharacterRepository: memory.NewCharacterRepository()}
	repo := cache.New(inner, 16, time.Minute)
	ctx := context.Background()

	created, err := inner.Create(ctx, testutil.NewCharacter(t, testutil.LoadItems(t), 1, stats.Warrior))
	require.NoError(t, err)

	_, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	_, err = repo.GetByUserID(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, inner.reads)
	assert.Equal(t, cache.Stats{Hits: 2, Misses: 1}, repo.Stats())
}

func TestCharacterRepository_MissingIsNotCached(t *testing.T) {
	inner := &countingRepo{CharacterRepository: memory.NewCharacterRepository()}
	repo := cache.New(inner, 16, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := repo.GetByUserID(ctx, 9)
		assert.ErrorIs(t, err, gameerr.ErrCharacterNotFound)
	}
	assert.Equal(t, 2, inner.reads)
}

func TestCharacterRepository_SaveWritesThrough(t *testing.T) {
	inner := &countingRepo{CharacterRepository: memory.NewCharacterRepository()}
	repo := cache.New(inner, 16, time.Minute)
	ctx := context.Background()

	c, err := repo.Create(ctx, testutil.NewCharacter(t, testutil.LoadItems(t), 1, stats.Mage))
	require.NoError(t, err)
	c.Gold = 50
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, got.Gold)
	assert.Equal(t, 0, inner.reads)

	fromInner, err := inner.CharacterRepository.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, fromInner.Gold)
}

func TestCharacterRepository_FailedSaveInvalidates(t *testing.T) {
	inner := &countingRepo{CharacterRepository: memory.NewCharacterRepository()}
	repo := cache.New(inner, 16, time.Minute)
	ctx := context.Background()

	c, err := repo.Create(ctx, testutil.NewCharacter(t, testutil.LoadItems(t), 1, stats.Rogue))
	require.NoError(t, err)

	inner.saveErr = errors.New("disk full")
	c.Gold = 99
	require.Error(t, repo.Save(ctx, c))

	got, err := repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Gold)
	assert.Equal(t, 1, inner.reads)
}

func TestCharacterRepository_Expiry(t *testing.T) {
	inner := &countingRepo{CharacterRepository: memory.NewCharacterRepository()}
	repo := cache.New(inner, 16, 20*time.Millisecond)
	ctx := context.Background()

	c, err := repo.Create(ctx, testutil.NewCharacter(t, testutil.LoadItems(t), 1, stats.Warrior))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		_, err := repo.GetByID(ctx, c.ID)
		return err == nil && inner.reads > 0
	}, time.Second, 10*time.Millisecond)
}

func TestCharacterRepository_Purge(t *testing.T) {
	inner := &countingRepo{CharacterRepository: memory.NewCharacterRepository()}
	repo := cache.New(inner, 16, time.Minute)
	ctx := context.Background()

	c, err := repo.Create(ctx, testutil.NewCharacter(t, testutil.LoadItems(t), 1, stats.Warrior))
	require.NoError(t, err)
	repo.Purge()
	_, err = repo.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, inner.reads)
}
