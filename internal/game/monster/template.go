// Package monster defines monster templates and generates the scaled
// instances a character fights.
package monster

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/chatrpg/internal/game/content"
	"github.com/cory-johannsen/chatrpg/internal/game/dice"
)

// Tier is a coarse difficulty label shown to players.
type Tier string

const (
	TierNormal Tier = "normal"
	TierElite  Tier = "elite"
	TierBoss   Tier = "boss"
)

// Template is a reusable monster archetype loaded from YAML.
type Template struct {
	ID          string `yaml:"id" validate:"required"`
	Name        string `yaml:"name" validate:"required"`
	Description string `yaml:"description"`
	Tier        Tier   `yaml:"tier" validate:"omitempty,oneof=normal elite boss"`
	Level       int    `yaml:"level" validate:"gte=1"`
	Health      int    `yaml:"health" validate:"gte=1"`
	Attack      int    `yaml:"attack" validate:"gte=0"`
	Defense     int    `yaml:"defense" validate:"gte=0"`
	Speed       int    `yaml:"speed" validate:"gte=0"`
	CritChance  int    `yaml:"crit_chance" validate:"gte=0,lte=75"`
	XP          int    `yaml:"xp" validate:"gte=0"`
	Gold        int    `yaml:"gold" validate:"gte=0"`
	// GoldBonus is an optional dice expression rolled once per generated
	// monster and added to Gold.
	GoldBonus string `yaml:"gold_bonus" validate:"dice"`
	LootTable string `yaml:"loot_table"`
}

// Validate checks that the template satisfies its invariants.
//
// Precondition: t must not be nil.
// Postcondition: Returns nil iff every tagged constraint holds and GoldBonus,
// when set, never rolls below zero.
func (t *Template) Validate() error {
	if err := content.ValidateStruct(t); err != nil {
		return fmt.Errorf("monster template %q: %w", t.ID, err)
	}
	if t.GoldBonus != "" {
		expr := dice.MustParse(t.GoldBonus)
		if expr.Min() < 0 {
			return fmt.Errorf("monster template %q: gold_bonus %q can roll below zero", t.ID, t.GoldBonus)
		}
	}
	return nil
}

// LoadTemplates reads every YAML file in dir and returns the validated templates.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns all templates or an error on the first parse or
// validate failure.
func LoadTemplates(dir string) ([]*Template, error) {
	raw, err := content.LoadDir[Template](dir)
	if err != nil {
		return nil, fmt.Errorf("LoadTemplates: %w", err)
	}
	if len(raw) == 0 {
		return nil, errors.New("LoadTemplates: no monster templates found")
	}
	out := make([]*Template, 0, len(raw))
	for i := range raw {
		if err := raw[i].Validate(); err != nil {
			return nil, fmt.Errorf("LoadTemplates: %w", err)
		}
		out = append(out, &raw[i])
	}
	return out, nil
}
