package combat

import (
	"fmt"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/loot"
	"github.com/cory-johannsen/chatrpg/internal/game/monster"
	"github.com/cory-johannsen/chatrpg/internal/game/progression"
)

// validate checks a against the character's current state.
//
// Postcondition: Returns nil iff the action can be performed this turn.
func validate(c *character.Character, a Action) error {
	switch a.Type {
	case ActionAttack, ActionFlee:
		return nil
	case ActionSkill:
		sk, err := LookupSkill(c.Class, a.SkillID)
		if err != nil {
			return err
		}
		if c.CurrentMana < sk.ManaCost {
			return gameerr.Wrapf(gameerr.ErrInsufficientMana, "%s needs %d, have %d", sk.Name, sk.ManaCost, c.CurrentMana)
		}
		return nil
	case ActionItem:
		return character.CanConsume(c, a.ItemID)
	default:
		return gameerr.Wrapf(gameerr.ErrInvalidAction, "%s", a.Type)
	}
}

// round holds the working copies mutated while one action resolves.
type round struct {
	e   *Engine
	enc *Encounter
	c   *character.Character
	m   *monster.Monster
	log []LogEntry
}

// state is the result of a round that has not been applied to its encounter.
type state struct {
	character *character.Character
	monster   *monster.Monster
	turn      int
	outcome   Outcome
}

// apply makes next the encounter's current state.
//
// Precondition: The caller holds e.busy.
func (e *Encounter) apply(next state) {
	e.character = next.character
	e.monster = next.monster
	e.turn = next.turn
	e.outcome = next.outcome
}

// resolve plays one round for enc on copies of its participants.
//
// Precondition: The caller holds enc.busy and enc is Ongoing.
// Postcondition: enc is unchanged. On success next holds the state to apply
// and the result carries a private copy of the character.
func (e *Engine) resolve(enc *Encounter, a Action) (*TurnResult, state, error) {
	if err := validate(enc.character, a); err != nil {
		return nil, state{}, err
	}
	r := &round{e: e, enc: enc, c: enc.character.Clone(), m: enc.monster.Clone()}
	outcome := r.play(a)

	res := &TurnResult{Log: r.log}
	switch outcome {
	case Victory:
		if err := r.victory(res); err != nil {
			return nil, state{}, err
		}
		r.c.ClearBuffs()
	case Defeat:
		r.c.ClearBuffs()
		r.c.RestoreFull()
	case Fled:
		r.c.ClearBuffs()
	case Ongoing:
		r.c.TickBuffs()
	}

	next := state{character: r.c, monster: r.m, turn: enc.turn, outcome: outcome}
	if outcome == Ongoing {
		next.turn++
	}
	view := &Encounter{ID: enc.ID, characterID: enc.characterID}
	view.apply(next)
	res.Snapshot = view.snapshot()
	res.Character = r.c.Clone()
	return res, next, nil
}

// play executes the player's action and the monster's reply in speed order.
func (r *round) play(a Action) Outcome {
	if a.Type == ActionFlee {
		if r.flee() {
			return Fled
		}
		r.monsterAttack()
		if !r.c.Alive() {
			return Defeat
		}
		return Ongoing
	}

	if r.c.Stats().Speed >= r.m.Stats().Speed {
		r.playerAct(a)
		if !r.m.Alive() {
			return Victory
		}
		r.monsterAttack()
		if !r.c.Alive() {
			return Defeat
		}
		return Ongoing
	}

	r.monsterAttack()
	if !r.c.Alive() {
		return Defeat
	}
	r.playerAct(a)
	if !r.m.Alive() {
		return Victory
	}
	return Ongoing
}

func (r *round) turn() int { return r.enc.turn }

func (r *round) flee() bool {
	chance := FleeChance(r.c.Stats().Speed, r.m.Stats().Speed)
	ok := r.e.percent(chance)
	entry := LogEntry{Turn: r.turn(), Actor: ActorPlayer, Action: ActionFlee, Success: ok}
	if ok {
		entry.Narrative = fmt.Sprintf("%s escapes from %s.", r.c.Name, r.m.Name)
	} else {
		entry.Narrative = fmt.Sprintf("%s fails to escape from %s.", r.c.Name, r.m.Name)
	}
	r.log = append(r.log, entry)
	return ok
}

func (r *round) playerAct(a Action) {
	cs := r.c.Stats()
	ms := r.m.Stats()
	switch a.Type {
	case ActionAttack:
		h := ResolveDamage(cs.Attack, ms.Defense, cs.CritChance, r.e.src)
		r.m.TakeDamage(h.Damage)
		r.log = append(r.log, LogEntry{
			Turn: r.turn(), Actor: ActorPlayer, Action: ActionAttack,
			Damage: h.Damage, Critical: h.Critical,
			Narrative: hitNarrative(r.c.Name, "attacks", r.m.Name, h),
		})
	case ActionSkill:
		sk, _ := LookupSkill(r.c.Class, a.SkillID)
		_ = r.c.SpendMana(sk.ManaCost)
		h := ResolveDamage(sk.Power(cs), ms.Defense, cs.CritChance, r.e.src)
		r.m.TakeDamage(h.Damage)
		r.log = append(r.log, LogEntry{
			Turn: r.turn(), Actor: ActorPlayer, Action: ActionSkill, SkillID: sk.ID,
			Damage: h.Damage, Critical: h.Critical, ManaSpent: sk.ManaCost,
			Narrative: hitNarrative(r.c.Name, "uses "+sk.Name+" on", r.m.Name, h),
		})
	case ActionItem:
		res, _ := character.Consume(r.c, a.ItemID)
		r.log = append(r.log, LogEntry{
			Turn: r.turn(), Actor: ActorPlayer, Action: ActionItem, ItemID: a.ItemID,
			Healed: res.Healed, ManaRestored: res.ManaRestored,
			Narrative: fmt.Sprintf("%s uses %s.", r.c.Name, res.Item.Name),
		})
	}
}

func (r *round) monsterAttack() {
	ms := r.m.Stats()
	h := ResolveDamage(ms.Attack, r.c.Stats().Defense, ms.CritChance, r.e.src)
	r.c.TakeDamage(h.Damage)
	r.log = append(r.log, LogEntry{
		Turn: r.turn(), Actor: ActorMonster, Action: ActionAttack,
		Damage: h.Damage, Critical: h.Critical,
		Narrative: hitNarrative(r.m.Name, "attacks", r.c.Name, h),
	})
}

// victory pays the monster's reward and rolls its loot table.
func (r *round) victory(res *TurnResult) error {
	levelUps, err := progression.GrantReward(r.c, r.m.XP, r.m.Gold)
	if err != nil {
		return fmt.Errorf("granting reward: %w", err)
	}
	res.Reward = &Reward{XP: r.m.XP, Gold: r.m.Gold}
	res.LevelUps = levelUps

	if r.e.loot == nil || r.m.LootTable == "" {
		return nil
	}
	table, ok := r.e.loot.Table(r.m.LootTable)
	if !ok {
		return nil
	}
	if it, ok := loot.RollDrop(table, r.e.items, r.e.src); ok {
		r.c.Inventory.Add(it, 1)
		res.Loot = &LootEvent{Item: it}
	}
	return nil
}

func hitNarrative(actor, verb, target string, h Hit) string {
	if h.Critical {
		return fmt.Sprintf("%s %s %s for %d damage. Critical hit!", actor, verb, target, h.Damage)
	}
	return fmt.Sprintf("%s %s %s for %d damage.", actor, verb, target, h.Damage)
}
