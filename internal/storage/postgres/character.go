package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// CharacterRepository provides character persistence operations.
//
// Items are stored by ID and resolved against the registry on load.
type CharacterRepository struct {
	db    *pgxpool.Pool
	items *inventory.Registry
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool; items must be non-nil.
func NewCharacterRepository(db *pgxpool.Pool, items *inventory.Registry) *CharacterRepository {
	return &CharacterRepository{db: db, items: items}
}

const selectCharacter = `
	SELECT id, user_id, name, class, level, experience, gold,
	       current_health, current_mana, buffs, created_at, updated_at
	FROM characters`

// Create inserts a new character with its inventory and equipment.
//
// Precondition: c.Name must be non-empty; c.Inventory must be non-nil.
// Postcondition: Returns the created character with ID and timestamps set, or
// an error wrapping gameerr.ErrCharacterExists if c.UserID already has one.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	out := c.Clone()
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			INSERT INTO characters
				(user_id, name, class, level, experience, gold,
				 current_health, current_mana, buffs)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			RETURNING id, created_at, updated_at`,
			c.UserID, c.Name, c.Class.String(), c.Level, c.Experience, c.Gold,
			c.CurrentHealth, c.CurrentMana, buffsOf(c),
		).Scan(&out.ID, &out.CreatedAt, &out.UpdatedAt)
		if err != nil {
			if isDuplicateKeyError(err) {
				return gameerr.Wrapf(gameerr.ErrCharacterExists, "user %d", c.UserID)
			}
			return fmt.Errorf("inserting character: %w", err)
		}
		return writeInventory(ctx, tx, out.ID, out.Inventory)
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID retrieves a character by its primary key.
//
// Postcondition: Returns the Character or an error wrapping gameerr.ErrCharacterNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	c, err := r.load(ctx, r.db, selectCharacter+` WHERE id = $1`, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gameerr.Wrapf(gameerr.ErrCharacterNotFound, "id %d", id)
	}
	return c, err
}

// GetByUserID retrieves the character owned by a chat user.
//
// Postcondition: Returns the Character or an error wrapping gameerr.ErrCharacterNotFound.
func (r *CharacterRepository) GetByUserID(ctx context.Context, userID int64) (*character.Character, error) {
	c, err := r.load(ctx, r.db, selectCharacter+` WHERE user_id = $1`, userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, gameerr.Wrapf(gameerr.ErrCharacterNotFound, "user %d", userID)
	}
	return c, err
}

// Save overwrites a character's progression, vitals, buffs, inventory and
// equipment in one transaction.
//
// Postcondition: Returns nil on success or an error wrapping
// gameerr.ErrCharacterNotFound if no row matched c.ID. UserID and name are
// not changed.
func (r *CharacterRepository) Save(ctx context.Context, c *character.Character) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE characters SET
				level = $2, experience = $3, gold = $4,
				current_health = $5, current_mana = $6, buffs = $7,
				updated_at = NOW()
			WHERE id = $1`,
			c.ID, c.Level, c.Experience, c.Gold, c.CurrentHealth, c.CurrentMana, buffsOf(c),
		)
		if err != nil {
			return fmt.Errorf("saving character: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return gameerr.Wrapf(gameerr.ErrCharacterNotFound, "id %d", c.ID)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM character_items WHERE character_id = $1`, c.ID); err != nil {
			return fmt.Errorf("clearing inventory: %w", err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM character_equipment WHERE character_id = $1`, c.ID); err != nil {
			return fmt.Errorf("clearing equipment: %w", err)
		}
		return writeInventory(ctx, tx, c.ID, c.Inventory)
	})
}

func (r *CharacterRepository) load(ctx context.Context, q querier, sql string, arg int64) (*character.Character, error) {
	var (
		c     character.Character
		class string
	)
	err := q.QueryRow(ctx, sql, arg).Scan(
		&c.ID, &c.UserID, &c.Name, &class, &c.Level, &c.Experience, &c.Gold,
		&c.CurrentHealth, &c.CurrentMana, &c.Buffs, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	if c.Class, err = stats.ParseClass(class); err != nil {
		return nil, fmt.Errorf("character %d: %w", c.ID, err)
	}
	if c.Inventory, err = r.loadInventory(ctx, q, c.ID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CharacterRepository) loadInventory(ctx context.Context, q querier, id int64) (*inventory.Inventory, error) {
	inv := inventory.New()

	rows, err := q.Query(ctx, `
		SELECT item_id, quantity FROM character_items
		WHERE character_id = $1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("querying inventory: %w", err)
	}
	type stackRow struct {
		ItemID   string
		Quantity int
	}
	stacks, err := pgx.CollectRows(rows, pgx.RowToStructByPos[stackRow])
	if err != nil {
		return nil, fmt.Errorf("scanning inventory: %w", err)
	}
	for _, s := range stacks {
		it, err := r.items.Lookup(s.ItemID)
		if err != nil {
			return nil, fmt.Errorf("character %d inventory: %w", id, err)
		}
		inv.Add(it, s.Quantity)
	}

	rows, err = q.Query(ctx, `
		SELECT slot, item_id FROM character_equipment WHERE character_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("querying equipment: %w", err)
	}
	type equipRow struct {
		Slot   string
		ItemID string
	}
	equipped, err := pgx.CollectRows(rows, pgx.RowToStructByPos[equipRow])
	if err != nil {
		return nil, fmt.Errorf("scanning equipment: %w", err)
	}
	for _, e := range equipped {
		slot, err := inventory.ParseSlot(e.Slot)
		if err != nil {
			return nil, fmt.Errorf("character %d equipment: %w", id, err)
		}
		it, err := r.items.Lookup(e.ItemID)
		if err != nil {
			return nil, fmt.Errorf("character %d equipment: %w", id, err)
		}
		inv.Restore(slot, it)
	}
	return inv, nil
}

func writeInventory(ctx context.Context, tx pgx.Tx, id int64, inv *inventory.Inventory) error {
	batch := &pgx.Batch{}
	for i, s := range inv.Stacks() {
		batch.Queue(`
			INSERT INTO character_items (character_id, item_id, quantity, position)
			VALUES ($1, $2, $3, $4)`, id, s.Item.ID, s.Quantity, i)
	}
	for slot, it := range inv.Equipment() {
		batch.Queue(`
			INSERT INTO character_equipment (character_id, slot, item_id)
			VALUES ($1, $2, $3)`, id, string(slot), it.ID)
	}
	if batch.Len() == 0 {
		return nil
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("writing inventory: %w", err)
	}
	return nil
}

func buffsOf(c *character.Character) []character.Buff {
	if c.Buffs == nil {
		return []character.Buff{}
	}
	return c.Buffs
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
