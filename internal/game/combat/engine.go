package combat

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/dice"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/loot"
	"github.com/cory-johannsen/chatrpg/internal/game/monster"
)

// Default sizing for the memory of finished encounters.
const (
	DefaultTerminalSize = 10_000
	DefaultTerminalTTL  = time.Hour
)

// Content is the read-only game data an Engine draws on.
type Content struct {
	Items    *inventory.Registry
	Loot     *loot.Registry
	Monsters *monster.Registry
}

// Option customizes an Engine.
type Option func(*Engine)

// WithTerminalMemory sets how many finished encounter IDs are remembered and
// for how long.
func WithTerminalMemory(size int, ttl time.Duration) Option {
	return func(e *Engine) {
		e.terminalSize = size
		e.terminalTTL = ttl
	}
}

// WithIDGenerator replaces the UUID encounter ID generator.
func WithIDGenerator(next func() string) Option {
	return func(e *Engine) { e.newID = next }
}

// Engine manages all active encounters, keyed by encounter ID and by
// character ID. All methods are safe for concurrent use.
type Engine struct {
	mu          sync.RWMutex
	active      map[string]*Encounter
	byCharacter map[int64]string

	terminal     *expirable.LRU[string, Outcome]
	terminalSize int
	terminalTTL  time.Duration

	items    *inventory.Registry
	loot     *loot.Registry
	monsters *monster.Registry
	src      dice.Source
	logger   *zap.Logger
	newID    func() string
}

// NewEngine creates an empty Engine.
//
// Precondition: content.Items must not be nil; src and logger must not be nil.
// Postcondition: Returns a non-nil Engine ready for use.
func NewEngine(content Content, src dice.Source, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		active:       make(map[string]*Encounter),
		byCharacter:  make(map[int64]string),
		terminalSize: DefaultTerminalSize,
		terminalTTL:  DefaultTerminalTTL,
		items:        content.Items,
		loot:         content.Loot,
		monsters:     content.Monsters,
		src:          src,
		logger:       logger,
		newID:        func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	e.terminal = expirable.NewLRU[string, Outcome](e.terminalSize, nil, e.terminalTTL)
	return e
}

func (e *Engine) percent(chance int) bool { return dice.Percent(e.src, chance) }

// Start opens an encounter for c against a monster picked for c's level.
//
// The engine keeps its own copy of c until the encounter ends.
//
// Precondition: c must not be nil and must be persisted (non-zero ID).
// Postcondition: Returns an error wrapping gameerr.ErrEncounterAlreadyActive
// if c is already fighting, or gameerr.ErrMonsterNotFound if no template exists.
func (e *Engine) Start(c *character.Character) (*Snapshot, error) {
	if e.monsters == nil {
		return nil, gameerr.Wrapf(gameerr.ErrMonsterNotFound, "no monster registry")
	}
	tmpl, err := e.monsters.Pick(c.Level, e.src)
	if err != nil {
		return nil, err
	}
	return e.StartWith(c, tmpl)
}

// StartWith opens an encounter for c against a monster generated from tmpl.
//
// Precondition: c and tmpl must not be nil.
// Postcondition: Same as Start.
func (e *Engine) StartWith(c *character.Character, tmpl *monster.Template) (*Snapshot, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id, exists := e.byCharacter[c.ID]; exists {
		return nil, gameerr.Wrapf(gameerr.ErrEncounterAlreadyActive, "character %d is in encounter %s", c.ID, id)
	}

	id := e.newID()
	enc := &Encounter{
		ID:          id,
		characterID: c.ID,
		character:   c.Clone(),
		monster:     monster.Generate(tmpl, c.Level, id, e.src),
		turn:        1,
		outcome:     Ongoing,
	}
	e.active[id] = enc
	e.byCharacter[c.ID] = id

	e.logger.Info("encounter started",
		zap.String("encounter", id),
		zap.Int64("character", c.ID),
		zap.String("monster", tmpl.ID),
		zap.Int("monster_level", enc.monster.Level),
	)
	return enc.snapshot(), nil
}

// CommitFunc receives a resolved round before the encounter advances. An
// error leaves the encounter exactly as it was before the action.
type CommitFunc func(*TurnResult) error

// Submit resolves one round of encounterID with the player's action.
//
// A rejected action (validation or resource error) leaves the encounter
// unchanged and does not consume the turn. A second call for the same
// encounter while one is resolving is rejected, not queued.
//
// Postcondition: Errors wrap gameerr.ErrEncounterNotFound,
// gameerr.ErrEncounterTerminal, gameerr.ErrActionInProgress or an action
// validation error. A terminal result removes the encounter.
func (e *Engine) Submit(encounterID string, a Action) (*TurnResult, error) {
	return e.SubmitAndCommit(encounterID, a, nil)
}

// SubmitAndCommit is Submit with a commit step, typically persistence, run
// while the encounter is still held. The round is applied, and a terminal
// encounter removed, only after commit succeeds.
//
// Postcondition: If commit fails its error is returned and the same action
// can be submitted again.
func (e *Engine) SubmitAndCommit(encounterID string, a Action, commit CommitFunc) (*TurnResult, error) {
	e.mu.RLock()
	enc, ok := e.active[encounterID]
	e.mu.RUnlock()
	if !ok {
		if outcome, done := e.terminal.Get(encounterID); done {
			return nil, gameerr.Wrapf(gameerr.ErrEncounterTerminal, "encounter %s ended in %s", encounterID, outcome)
		}
		return nil, gameerr.Wrapf(gameerr.ErrEncounterNotFound, "%s", encounterID)
	}

	if !enc.busy.CompareAndSwap(false, true) {
		return nil, gameerr.Wrapf(gameerr.ErrActionInProgress, "encounter %s", encounterID)
	}
	defer enc.busy.Store(false)

	if enc.outcome.Terminal() {
		return nil, gameerr.Wrapf(gameerr.ErrEncounterTerminal, "encounter %s ended in %s", encounterID, enc.outcome)
	}

	res, next, err := e.resolve(enc, a)
	if err != nil {
		e.logger.Debug("action rejected",
			zap.String("encounter", encounterID),
			zap.Stringer("action", a),
			zap.Error(err),
		)
		return nil, err
	}
	if commit != nil {
		if err := commit(res); err != nil {
			e.logger.Warn("turn not committed",
				zap.String("encounter", encounterID),
				zap.Stringer("action", a),
				zap.Error(err),
			)
			return nil, err
		}
	}
	enc.apply(next)
	e.logger.Debug("turn resolved",
		zap.String("encounter", encounterID),
		zap.Stringer("action", a),
		zap.Int("turn", res.Snapshot.Turn),
		zap.Int("character_health", res.Snapshot.CharacterHealth),
		zap.Int("monster_health", res.Snapshot.Monster.CurrentHealth),
	)
	if enc.outcome.Terminal() {
		e.finish(enc)
	}
	return res, nil
}

// finish moves enc from the active maps into terminal memory.
func (e *Engine) finish(enc *Encounter) {
	e.mu.Lock()
	delete(e.active, enc.ID)
	delete(e.byCharacter, enc.characterID)
	e.mu.Unlock()
	e.terminal.Add(enc.ID, enc.outcome)

	e.logger.Info("encounter ended",
		zap.String("encounter", enc.ID),
		zap.Int64("character", enc.characterID),
		zap.Stringer("outcome", enc.outcome),
		zap.Int("turns", enc.turn),
	)
}

// Get returns a snapshot of an active encounter.
//
// Postcondition: ok is false if encounterID is not active or a round is
// resolving.
func (e *Engine) Get(encounterID string) (*Snapshot, bool) {
	e.mu.RLock()
	enc, ok := e.active[encounterID]
	e.mu.RUnlock()
	if !ok || !enc.busy.CompareAndSwap(false, true) {
		return nil, false
	}
	defer enc.busy.Store(false)
	return enc.snapshot(), true
}

// ActiveFor returns the ID of characterID's active encounter.
//
// Postcondition: ok is false iff the character is not fighting.
func (e *Engine) ActiveFor(characterID int64) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	id, ok := e.byCharacter[characterID]
	return id, ok
}

// ActiveCount returns the number of ongoing encounters.
func (e *Engine) ActiveCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.active)
}

// CharacterFor returns the ID of the character fighting in encounterID.
//
// Postcondition: ok is false iff encounterID is not active.
func (e *Engine) CharacterFor(encounterID string) (int64, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	enc, ok := e.active[encounterID]
	if !ok {
		return 0, false
	}
	return enc.characterID, true
}
