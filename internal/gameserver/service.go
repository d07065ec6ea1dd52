// Package gameserver is the boundary between chat-command handlers and the
// game engine. A Service loads characters from storage, serializes work per
// character, drives the combat engine, and persists every change.
package gameserver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/combat"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
	"github.com/cory-johannsen/chatrpg/internal/observability"
	"github.com/cory-johannsen/chatrpg/internal/storage"
)

// EquipResult reports an Equip.
type EquipResult struct {
	Character *character.Character
	Equipped  *inventory.Item
	// Previous is the item swapped back into the pack, if any.
	Previous *inventory.Item
}

// UnequipResult reports an Unequip. Removed is nil when the slot was empty.
type UnequipResult struct {
	Character *character.Character
	Removed   *inventory.Item
}

// UseItemResult reports an out-of-combat consumable use.
type UseItemResult struct {
	Character *character.Character
	Effect    character.ConsumeResult
}

// Service implements every game operation offered to chat handlers.
//
// All methods are safe for concurrent use. Mutations for one character are
// never interleaved: a second concurrent mutation is rejected with
// gameerr.ErrActionInProgress.
type Service struct {
	repo    storage.CharacterRepository
	engine  *combat.Engine
	items   *inventory.Registry
	locks   *LockManager
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewService wires a Service.
//
// Precondition: all arguments must be non-nil.
// Postcondition: Returns a Service ready for use.
func NewService(
	repo storage.CharacterRepository,
	engine *combat.Engine,
	items *inventory.Registry,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Service {
	return &Service{
		repo:    repo,
		engine:  engine,
		items:   items,
		locks:   NewLockManager(),
		metrics: metrics,
		logger:  logger,
	}
}

// CreateCharacter creates and persists userID's character with the class
// starting kit.
//
// Postcondition: Errors wrap gameerr.ErrInvalidClass, gameerr.ErrInvalidName
// or gameerr.ErrCharacterExists.
func (s *Service) CreateCharacter(ctx context.Context, userID int64, name, class string) (*character.Character, error) {
	cls, err := stats.ParseClass(class)
	if err != nil {
		return nil, s.fail("create_character", err)
	}
	c, err := character.New(userID, name, cls, s.items)
	if err != nil {
		return nil, s.fail("create_character", err)
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return nil, s.fail("create_character", err)
	}
	s.metrics.CharactersCreated.WithLabelValues(cls.String()).Inc()
	s.logger.Info("character created",
		zap.Int64("character", created.ID),
		zap.Int64("user", userID),
		zap.Stringer("class", cls),
	)
	return created, nil
}

// Character returns the stored character.
func (s *Service) Character(ctx context.Context, characterID int64) (*character.Character, error) {
	c, err := s.repo.GetByID(ctx, characterID)
	if err != nil {
		return nil, s.fail("character", err)
	}
	return c, nil
}

// CharacterByUser returns the character owned by a chat user.
func (s *Service) CharacterByUser(ctx context.Context, userID int64) (*character.Character, error) {
	c, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, s.fail("character_by_user", err)
	}
	return c, nil
}

// CharacterStats returns the character's effective statistics.
func (s *Service) CharacterStats(ctx context.Context, characterID int64) (stats.Block, error) {
	c, err := s.Character(ctx, characterID)
	if err != nil {
		return stats.Block{}, err
	}
	return c.Stats(), nil
}

// Inventory returns the character's unequipped stacks in acquisition order.
func (s *Service) Inventory(ctx context.Context, characterID int64) ([]inventory.Stack, error) {
	c, err := s.Character(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return c.Inventory.Stacks(), nil
}

// Equipment returns the character's occupied slots.
func (s *Service) Equipment(ctx context.Context, characterID int64) (map[inventory.Slot]*inventory.Item, error) {
	c, err := s.Character(ctx, characterID)
	if err != nil {
		return nil, err
	}
	return c.Inventory.Equipment(), nil
}

// Equip equips one owned unit of itemID, swapping out the current occupant
// when swap is set.
//
// Postcondition: Rejected with gameerr.ErrInCombat while the character is in
// an encounter. On error nothing is persisted.
func (s *Service) Equip(ctx context.Context, characterID int64, itemID string, swap bool) (*EquipResult, error) {
	res := &EquipResult{}
	c, err := s.mutate(ctx, "equip", characterID, func(c *character.Character) error {
		prev, err := character.Equip(c, itemID, swap)
		if err != nil {
			return err
		}
		res.Previous = prev
		res.Equipped, _ = s.items.Item(itemID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	res.Character = c
	return res, nil
}

// Unequip returns the item in slot to the pack.
//
// Postcondition: An empty slot is not an error; Removed is nil and nothing
// changes. Rejected with gameerr.ErrInCombat during an encounter.
func (s *Service) Unequip(ctx context.Context, characterID int64, slot string) (*UnequipResult, error) {
	sl, err := inventory.ParseSlot(slot)
	if err != nil {
		return nil, s.fail("unequip", err)
	}
	res := &UnequipResult{}
	c, err := s.mutate(ctx, "unequip", characterID, func(c *character.Character) error {
		removed, err := character.Unequip(c, sl)
		res.Removed = removed
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Character = c
	return res, nil
}

// UseItem consumes one unit of itemID outside combat. During an encounter
// items are used through SubmitAction so that they spend the turn.
//
// Postcondition: Rejected with gameerr.ErrInCombat during an encounter.
func (s *Service) UseItem(ctx context.Context, characterID int64, itemID string) (*UseItemResult, error) {
	res := &UseItemResult{}
	c, err := s.mutate(ctx, "use_item", characterID, func(c *character.Character) error {
		effect, err := character.Consume(c, itemID)
		res.Effect = effect
		return err
	})
	if err != nil {
		return nil, err
	}
	res.Character = c
	return res, nil
}

// StartEncounter opens an encounter for the character against a monster
// picked for its level.
//
// Postcondition: Errors wrap gameerr.ErrCharacterNotFound,
// gameerr.ErrEncounterAlreadyActive, gameerr.ErrActionInProgress or
// gameerr.ErrMonsterNotFound.
func (s *Service) StartEncounter(ctx context.Context, characterID int64) (*combat.Snapshot, error) {
	release, ok := s.locks.TryLock(characterID)
	if !ok {
		return nil, s.fail("start_encounter", gameerr.Wrapf(gameerr.ErrActionInProgress, "character %d", characterID))
	}
	defer release()

	c, err := s.repo.GetByID(ctx, characterID)
	if err != nil {
		return nil, s.fail("start_encounter", err)
	}
	snap, err := s.engine.Start(c)
	if err != nil {
		return nil, s.fail("start_encounter", err)
	}
	s.metrics.EncountersStarted.Inc()
	s.metrics.ActiveEncounters.Set(float64(s.engine.ActiveCount()))
	return snap, nil
}

// InEncounter reports whether the character has an ongoing encounter.
func (s *Service) InEncounter(characterID int64) bool {
	_, ok := s.engine.ActiveFor(characterID)
	return ok
}

// ActiveEncounter returns a snapshot of the character's ongoing encounter.
//
// Postcondition: Errors wrap gameerr.ErrEncounterNotFound when the character
// is not fighting, or gameerr.ErrActionInProgress while a turn resolves.
func (s *Service) ActiveEncounter(_ context.Context, characterID int64) (*combat.Snapshot, error) {
	id, ok := s.engine.ActiveFor(characterID)
	if !ok {
		return nil, s.fail("active_encounter", gameerr.Wrapf(gameerr.ErrEncounterNotFound, "character %d is not fighting", characterID))
	}
	snap, ok := s.engine.Get(id)
	if !ok {
		return nil, s.fail("active_encounter", gameerr.Wrapf(gameerr.ErrActionInProgress, "encounter %s", id))
	}
	return snap, nil
}

// SubmitAction resolves one turn of encounterID and persists the character.
//
// Postcondition: A rejected action changes nothing and does not consume the
// turn. The round only advances once the character is saved, so a failed
// save can be retried with the same action. Errors wrap
// gameerr.ErrEncounterNotFound, gameerr.ErrEncounterTerminal,
// gameerr.ErrActionInProgress, an action validation or resource error, or
// the storage error.
func (s *Service) SubmitAction(ctx context.Context, encounterID string, a combat.Action) (*combat.TurnResult, error) {
	characterID, ok := s.engine.CharacterFor(encounterID)
	if !ok {
		// Not active: the engine reports whether it ended or never existed.
		_, err := s.engine.Submit(encounterID, a)
		return nil, s.fail("submit_action", err)
	}

	release, ok := s.locks.TryLock(characterID)
	if !ok {
		return nil, s.fail("submit_action", gameerr.Wrapf(gameerr.ErrActionInProgress, "character %d", characterID))
	}
	defer release()

	res, err := s.engine.SubmitAndCommit(encounterID, a, func(res *combat.TurnResult) error {
		if err := s.repo.Save(ctx, res.Character); err != nil {
			return fmt.Errorf("saving character %d after encounter %s: %w", characterID, encounterID, err)
		}
		return nil
	})
	if err != nil {
		return nil, s.fail("submit_action", err)
	}
	s.record(a, res)
	return res, nil
}

// mutate runs fn on a fresh copy of the character under its lock and
// persists the result.
func (s *Service) mutate(ctx context.Context, op string, characterID int64, fn func(*character.Character) error) (*character.Character, error) {
	release, ok := s.locks.TryLock(characterID)
	if !ok {
		return nil, s.fail(op, gameerr.Wrapf(gameerr.ErrActionInProgress, "character %d", characterID))
	}
	defer release()

	if id, fighting := s.engine.ActiveFor(characterID); fighting {
		return nil, s.fail(op, gameerr.Wrapf(gameerr.ErrInCombat, "character %d is in encounter %s", characterID, id))
	}
	c, err := s.repo.GetByID(ctx, characterID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if err := fn(c); err != nil {
		return nil, s.fail(op, err)
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, s.fail(op, fmt.Errorf("saving character %d: %w", characterID, err))
	}
	return c, nil
}

func (s *Service) record(a combat.Action, res *combat.TurnResult) {
	s.metrics.Actions.WithLabelValues(a.Type.String()).Inc()
	if n := len(res.LevelUps); n > 0 {
		s.metrics.LevelUps.Add(float64(n))
		last := res.LevelUps[n-1]
		s.logger.Info("level up",
			zap.Int64("character", res.Character.ID),
			zap.Int("from", res.LevelUps[0].FromLevel),
			zap.Int("to", last.ToLevel),
		)
	}
	if res.Loot != nil {
		s.metrics.LootDrops.WithLabelValues(res.Loot.Item.Rarity.String()).Inc()
	}
	if res.Snapshot.Outcome.Terminal() {
		s.metrics.EncounterOutcomes.WithLabelValues(res.Snapshot.Outcome.String()).Inc()
		s.metrics.ActiveEncounters.Set(float64(s.engine.ActiveCount()))
	}
}

// fail counts and logs err before returning it unchanged.
func (s *Service) fail(op string, err error) error {
	kind, ok := gameerr.KindOf(err)
	if !ok {
		s.metrics.Rejections.WithLabelValues("internal").Inc()
		s.logger.Error("request failed", zap.String("op", op), zap.Error(err))
		return err
	}
	s.metrics.Rejections.WithLabelValues(kind.String()).Inc()
	s.logger.Debug("request rejected",
		zap.String("op", op),
		zap.Stringer("kind", kind),
		zap.Error(err),
	)
	return err
}
