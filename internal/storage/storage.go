// Package storage defines the persistence boundary for player characters.
package storage

import (
	"context"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
)

// CharacterRepository persists characters between requests.
//
// Implementations return gameerr.ErrCharacterNotFound for unknown IDs or users
// and gameerr.ErrCharacterExists when a user already owns a character.
// Returned characters are never shared with the repository's own state.
type CharacterRepository interface {
	// Create stores a new character and returns it with ID and timestamps set.
	Create(ctx context.Context, c *character.Character) (*character.Character, error)
	// GetByID loads the character with the given ID.
	GetByID(ctx context.Context, id int64) (*character.Character, error)
	// GetByUserID loads the character owned by the given chat user.
	GetByUserID(ctx context.Context, userID int64) (*character.Character, error)
	// Save overwrites the stored state of an existing character.
	Save(ctx context.Context, c *character.Character) error
}
