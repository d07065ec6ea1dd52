// Package cache provides a read-through CharacterRepository that keeps
// recently used characters in an expiring LRU.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/storage"
)

// Stats counts cache lookups.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// CharacterRepository wraps another repository with an LRU of characters by
// ID and of character IDs by user ID.
//
// Entries are written through on Create and Save. Concurrent writes for the
// same character must be serialized by the caller.
type CharacterRepository struct {
	inner  storage.CharacterRepository
	byID   *expirable.LRU[int64, *character.Character]
	byUser *expirable.LRU[int64, int64]
	hits   atomic.Uint64
	misses atomic.Uint64
}

// New wraps inner with a cache holding at most size characters for ttl.
//
// Precondition: size > 0; ttl <= 0 disables expiry.
func New(inner storage.CharacterRepository, size int, ttl time.Duration) *CharacterRepository {
	return &CharacterRepository{
		inner:  inner,
		byID:   expirable.NewLRU[int64, *character.Character](size, nil, ttl),
		byUser: expirable.NewLRU[int64, int64](size, nil, ttl),
	}
}

// Create stores c in the wrapped repository and caches the result.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	created, err := r.inner.Create(ctx, c)
	if err != nil {
		return nil, err
	}
	r.set(created)
	return created.Clone(), nil
}

// GetByID serves id from the cache, loading it from the wrapped repository on a miss.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	if c, ok := r.byID.Get(id); ok {
		r.hits.Add(1)
		return c.Clone(), nil
	}
	r.misses.Add(1)
	c, err := r.inner.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(c)
	return c.Clone(), nil
}

// GetByUserID serves userID from the cache, loading it from the wrapped
// repository on a miss.
func (r *CharacterRepository) GetByUserID(ctx context.Context, userID int64) (*character.Character, error) {
	if id, ok := r.byUser.Get(userID); ok {
		if c, ok := r.byID.Get(id); ok {
			r.hits.Add(1)
			return c.Clone(), nil
		}
	}
	r.misses.Add(1)
	c, err := r.inner.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	r.set(c)
	return c.Clone(), nil
}

// Save writes c through to the wrapped repository.
//
// Postcondition: On error the cached entry for c.ID is dropped.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	if err := r.inner.Save(ctx, c); err != nil {
		r.Invalidate(c.ID)
		return err
	}
	stored := c.Clone()
	stored.UpdatedAt = time.Now()
	r.set(stored)
	return nil
}

// Invalidate drops the cached entry for id.
func (r *CharacterRepository) Invalidate(id int64) {
	if c, ok := r.byID.Peek(id); ok {
		r.byUser.Remove(c.UserID)
	}
	r.byID.Remove(id)
}

// Purge empties the cache.
func (r *CharacterRepository) Purge() {
	r.byID.Purge()
	r.byUser.Purge()
}

// Stats returns the lookup counters.
func (r *CharacterRepository) Stats() Stats {
	return Stats{Hits: r.hits.Load(), Misses: r.misses.Load()}
}

func (r *CharacterRepository) set(c *character.Character) {
	cp := c.Clone()
	r.byID.Add(cp.ID, cp)
	r.byUser.Add(cp.UserID, cp.ID)
}
