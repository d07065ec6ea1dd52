// Package memory provides an in-process CharacterRepository.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
)

// CharacterRepository keeps characters in a map guarded by a mutex.
//
// Stored and returned values are clones; callers never alias repository state.
type CharacterRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*character.Character
	byUser map[int64]int64
	now    func() time.Time
}

// NewCharacterRepository returns an empty repository.
func NewCharacterRepository() *CharacterRepository {
	return &CharacterRepository{
		byID:   make(map[int64]*character.Character),
		byUser: make(map[int64]int64),
		now:    time.Now,
	}
}

// Create stores c under a fresh ID.
//
// Precondition: c must be non-nil with a non-nil Inventory.
// Postcondition: Returns gameerr.ErrCharacterExists if c.UserID already owns a character.
func (r *CharacterRepository) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[c.UserID]; ok {
		return nil, gameerr.Wrapf(gameerr.ErrCharacterExists, "user %d", c.UserID)
	}
	r.nextID++
	stored := c.Clone()
	stored.ID = r.nextID
	stored.CreatedAt = r.now()
	stored.UpdatedAt = stored.CreatedAt
	r.byID[stored.ID] = stored
	r.byUser[stored.UserID] = stored.ID
	return stored.Clone(), nil
}

// GetByID returns a copy of the character with the given ID.
func (r *CharacterRepository) GetByID(_ context.Context, id int64) (*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byID[id]
	if !ok {
		return nil, gameerr.Wrapf(gameerr.ErrCharacterNotFound, "id %d", id)
	}
	return c.Clone(), nil
}

// GetByUserID returns a copy of the character owned by userID.
func (r *CharacterRepository) GetByUserID(_ context.Context, userID int64) (*character.Character, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUser[userID]
	if !ok {
		return nil, gameerr.Wrapf(gameerr.ErrCharacterNotFound, "user %d", userID)
	}
	return r.byID[id].Clone(), nil
}

// Save replaces the stored state of c.
//
// Postcondition: Returns gameerr.ErrCharacterNotFound if c.ID is unknown.
// UserID and CreatedAt are not changed by Save.
func (r *CharacterRepository) Save(_ context.Context, c *character.Character) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	old, ok := r.byID[c.ID]
	if !ok {
		return gameerr.Wrapf(gameerr.ErrCharacterNotFound, "id %d", c.ID)
	}
	stored := c.Clone()
	stored.UserID = old.UserID
	stored.CreatedAt = old.CreatedAt
	stored.UpdatedAt = r.now()
	r.byID[c.ID] = stored
	return nil
}

// Len returns the number of stored characters.
func (r *CharacterRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
