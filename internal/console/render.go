package console

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/combat"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/progression"
)

func renderCharacter(c *character.Character) string {
	s := c.Stats()
	var b strings.Builder
	fmt.Fprintf(&b, "%s the %s, level %d\n", c.Name, titleCase(c.Class.String()), c.Level)
	fmt.Fprintf(&b, "HP %d/%d  MP %d/%d\n", c.CurrentHealth, s.MaxHealth, c.CurrentMana, s.MaxMana)
	fmt.Fprintf(&b, "ATK %d  DEF %d  SPD %d  CRIT %d%%  MAG %d\n", s.Attack, s.Defense, s.Speed, s.CritChance, s.Magic)
	if c.Level >= progression.MaxLevel {
		fmt.Fprintf(&b, "XP %d (max level)  Gold %d", c.Experience, c.Gold)
	} else {
		fmt.Fprintf(&b, "XP %d/%d  Gold %d", c.Experience, progression.Threshold(c.Level), c.Gold)
	}
	for _, buff := range c.Buffs {
		fmt.Fprintf(&b, "\nBuff %s: %d turns left", buff.Source, buff.TurnsRemaining)
	}
	return b.String()
}

func renderSnapshot(s *combat.Snapshot) string {
	m := s.Monster
	return fmt.Sprintf("Turn %d vs %s (level %d %s)\n%s HP %d/%d\nYou HP %d/%d  MP %d/%d",
		s.Turn, m.Name, m.Level, m.Tier,
		m.Name, m.CurrentHealth, m.Stats.MaxHealth,
		s.CharacterHealth, s.CharacterStats.MaxHealth, s.CharacterMana, s.CharacterStats.MaxMana)
}

func renderTurn(res *combat.TurnResult) string {
	var b strings.Builder
	for _, entry := range res.Log {
		b.WriteString(entry.Narrative)
		b.WriteString("\n")
	}
	switch res.Snapshot.Outcome {
	case combat.Ongoing:
		b.WriteString(renderSnapshot(res.Snapshot))
	case combat.Victory:
		fmt.Fprintf(&b, "Victory! %s is defeated.", res.Snapshot.Monster.Name)
		if res.Reward != nil {
			fmt.Fprintf(&b, "\n+%d XP  +%d gold", res.Reward.XP, res.Reward.Gold)
		}
		for _, lu := range res.LevelUps {
			fmt.Fprintf(&b, "\nLevel up! You are now level %d.", lu.ToLevel)
		}
		if res.Loot != nil {
			fmt.Fprintf(&b, "\nLoot: %s (%s)", res.Loot.Item.Name, res.Loot.Item.Rarity)
		}
	case combat.Defeat:
		fmt.Fprintf(&b, "You were defeated by %s. You wake up fully restored.", res.Snapshot.Monster.Name)
	case combat.Fled:
		b.WriteString("You got away.")
	}
	return b.String()
}

func renderInventory(c *character.Character) string {
	stacks := c.Inventory.Stacks()
	var b strings.Builder
	fmt.Fprintf(&b, "Gold: %d", c.Gold)
	if len(stacks) == 0 {
		b.WriteString("\nYour pack is empty.")
	}
	for _, s := range stacks {
		fmt.Fprintf(&b, "\n%s x%d [%s, %s]", s.Item.Name, s.Quantity, s.Item.ID, s.Item.Rarity)
	}
	return b.String()
}

func renderEquipment(eq map[inventory.Slot]*inventory.Item) string {
	lines := make([]string, 0, len(inventory.Slots))
	for _, slot := range inventory.Slots {
		if it, ok := eq[slot]; ok {
			lines = append(lines, fmt.Sprintf("%-9s %s [%s, %s]", slot, it.Name, it.ID, it.Rarity))
		} else {
			lines = append(lines, fmt.Sprintf("%-9s (empty)", slot))
		}
	}
	return strings.Join(lines, "\n")
}

func renderSkills(c *character.Character) string {
	skills := combat.SkillsFor(c.Class)
	lines := make([]string, 0, len(skills))
	for _, sk := range skills {
		lines = append(lines, fmt.Sprintf("%s: %s (%d mana)", sk.ID, sk.Name, sk.ManaCost))
	}
	return strings.Join(lines, "\n")
}

func renderConsume(res character.ConsumeResult) string {
	parts := []string{fmt.Sprintf("You use %s.", res.Item.Name)}
	if res.Healed > 0 {
		parts = append(parts, fmt.Sprintf("+%d HP", res.Healed))
	}
	if res.ManaRestored > 0 {
		parts = append(parts, fmt.Sprintf("+%d MP", res.ManaRestored))
	}
	if res.Buff != nil {
		parts = append(parts, fmt.Sprintf("%s for %d turns", res.Buff.Source, res.Buff.TurnsRemaining))
	}
	return strings.Join(parts, " ")
}

func renderHelp(cats map[string][]string) string {
	names := make([]string, 0, len(cats))
	for name := range cats {
		names = append(names, name)
	}
	sort.Strings(names)
	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s:\n  %s", titleCase(name), strings.Join(cats[name], "\n  "))
	}
	return b.String()
}

// renderError turns a rejection into a player-facing message.
func renderError(err error) string {
	switch {
	case errors.Is(err, gameerr.ErrCharacterNotFound):
		return "You have no character yet. Use /create <name> <warrior|mage|rogue>."
	case errors.Is(err, gameerr.ErrEncounterNotFound):
		return "You are not in a fight. Use /start to find one."
	case errors.Is(err, gameerr.ErrActionInProgress):
		return "Your last action is still resolving."
	}
	if _, ok := gameerr.KindOf(err); ok {
		return "Cannot do that: " + err.Error()
	}
	return "Something went wrong. Try again later."
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
