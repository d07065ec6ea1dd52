// Package combat runs turn-based encounters between one character and one
// generated monster.
//
// An encounter is an explicit state machine: Start creates it Ongoing, every
// Submit resolves exactly one round, and the first terminal outcome (Victory,
// Defeat or Fled) ends it.
package combat

import (
	"sync/atomic"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/monster"
	"github.com/cory-johannsen/chatrpg/internal/game/progression"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// Outcome is the state of an encounter.
type Outcome int

const (
	Ongoing Outcome = iota
	Victory
	Defeat
	Fled
)

// String returns the lowercase outcome name.
func (o Outcome) String() string {
	switch o {
	case Ongoing:
		return "ongoing"
	case Victory:
		return "victory"
	case Defeat:
		return "defeat"
	case Fled:
		return "fled"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further actions are accepted.
func (o Outcome) Terminal() bool { return o != Ongoing }

// Encounter is the live state of one fight.
//
// ID and characterID never change. The other fields are only read or written
// by the goroutine holding busy.
type Encounter struct {
	ID          string
	characterID int64
	character   *character.Character
	monster   *monster.Monster
	turn      int
	outcome   Outcome
	busy      atomic.Bool
}

// MonsterView is the player-visible state of a monster.
type MonsterView struct {
	ID            string
	TemplateID    string
	Name          string
	Tier          monster.Tier
	Level         int
	CurrentHealth int
	Stats         stats.Block
}

// Snapshot is an immutable view of an encounter.
type Snapshot struct {
	ID              string
	CharacterID     int64
	Turn            int
	Outcome         Outcome
	CharacterHealth int
	CharacterMana   int
	CharacterStats  stats.Block
	Monster         MonsterView
}

func (e *Encounter) snapshot() *Snapshot {
	return &Snapshot{
		ID:              e.ID,
		CharacterID:     e.character.ID,
		Turn:            e.turn,
		Outcome:         e.outcome,
		CharacterHealth: e.character.CurrentHealth,
		CharacterMana:   e.character.CurrentMana,
		CharacterStats:  e.character.Stats(),
		Monster: MonsterView{
			ID:            e.monster.ID,
			TemplateID:    e.monster.TemplateID,
			Name:          e.monster.Name,
			Tier:          e.monster.Tier,
			Level:         e.monster.Level,
			CurrentHealth: e.monster.CurrentHealth,
			Stats:         e.monster.Stats(),
		},
	}
}

// Actor identifies who performed a logged action.
type Actor string

const (
	ActorPlayer  Actor = "player"
	ActorMonster Actor = "monster"
)

// LogEntry records one resolved action.
type LogEntry struct {
	Turn         int
	Actor        Actor
	Action       ActionType
	SkillID      string
	ItemID       string
	Damage       int
	Critical     bool
	Healed       int
	ManaRestored int
	ManaSpent    int
	// Success is meaningful for flee attempts.
	Success   bool
	Narrative string
}

// Reward is what a victory paid out.
type Reward struct {
	XP   int
	Gold int
}

// LootEvent reports an item dropped by a defeated monster.
type LootEvent struct {
	Item *inventory.Item
}

// TurnResult is everything one Submit produced.
//
// Character is the mutated snapshot the caller persists; it is not shared
// with the engine.
type TurnResult struct {
	Snapshot  *Snapshot
	Character *character.Character
	Log       []LogEntry
	Reward    *Reward
	LevelUps  []progression.LevelUpEvent
	Loot      *LootEvent
}
