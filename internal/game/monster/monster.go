package monster

import (
	"github.com/cory-johannsen/chatrpg/internal/game/dice"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// Monster is a live opponent generated for one encounter.
type Monster struct {
	ID         string
	TemplateID string
	Name       string
	Tier       Tier
	Level      int

	CurrentHealth int
	stats         stats.Block

	XP        int
	Gold      int
	LootTable string
}

// Stats returns the monster's combat statistics.
func (m *Monster) Stats() stats.Block { return m.stats }

// Alive reports whether the monster has health remaining.
func (m *Monster) Alive() bool { return m.CurrentHealth > 0 }

// TakeDamage subtracts amount from current health, flooring at zero.
func (m *Monster) TakeDamage(amount int) {
	m.CurrentHealth = max(m.CurrentHealth-amount, 0)
}

// Clone returns an independent copy.
func (m *Monster) Clone() *Monster {
	cp := *m
	return &cp
}

// ScalePercent returns the percentage by which a template of level tmplLevel
// is scaled when generated for difficulty.
//
// Postcondition: Result >= 100.
func ScalePercent(tmplLevel, difficulty int) int {
	return 100 + 10*max(0, difficulty-tmplLevel)
}

// Generate creates a monster from tmpl scaled to difficulty (normally the
// character's level). Health, attack, defense, XP and gold grow by
// ScalePercent; speed and crit chance are taken from the template unchanged.
//
// Precondition: tmpl has passed Validate; src must not be nil.
// Postcondition: The monster starts at full health and is never weaker than tmpl.
func Generate(tmpl *Template, difficulty int, id string, src dice.Source) *Monster {
	pct := ScalePercent(tmpl.Level, difficulty)
	scale := func(v int) int { return v * pct / 100 }
	gold := scale(tmpl.Gold)
	if tmpl.GoldBonus != "" {
		gold += dice.Roll(dice.MustParse(tmpl.GoldBonus), src).Total()
	}
	s := stats.Block{
		MaxHealth:  scale(tmpl.Health),
		Attack:     scale(tmpl.Attack),
		Defense:    scale(tmpl.Defense),
		Speed:      tmpl.Speed,
		CritChance: tmpl.CritChance,
	}
	return &Monster{
		ID:            id,
		TemplateID:    tmpl.ID,
		Name:          tmpl.Name,
		Tier:          tmpl.Tier,
		Level:         max(tmpl.Level, difficulty),
		CurrentHealth: s.MaxHealth,
		stats:         s,
		XP:            scale(tmpl.XP),
		Gold:          gold,
		LootTable:     tmpl.LootTable,
	}
}
