package combat

import (
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

// Scaling names the stat a skill's power is derived from.
type Scaling int

const (
	ScaleAttack Scaling = iota
	ScaleMagic
)

// Skill is a class ability that costs mana and multiplies a stat into damage.
type Skill struct {
	ID   string
	Name string
	// Multiplier is a percentage applied to the scaling stat.
	Multiplier int
	ManaCost   int
	Scaling    Scaling
}

// Power returns the attack value the skill strikes with for s.
func (sk Skill) Power(s stats.Block) int {
	v := s.Attack
	if sk.Scaling == ScaleMagic {
		v = s.Magic
	}
	return v * sk.Multiplier / 100
}

var skillTable = map[stats.Class][]Skill{
	stats.Warrior: {
		{ID: "slash", Name: "Slash", Multiplier: 150, ManaCost: 10, Scaling: ScaleAttack},
		{ID: "whirlwind", Name: "Whirlwind", Multiplier: 200, ManaCost: 20, Scaling: ScaleAttack},
	},
	stats.Mage: {
		{ID: "fireball", Name: "Fireball", Multiplier: 200, ManaCost: 15, Scaling: ScaleMagic},
		{ID: "lightning", Name: "Lightning", Multiplier: 250, ManaCost: 25, Scaling: ScaleMagic},
	},
	stats.Rogue: {
		{ID: "backstab", Name: "Backstab", Multiplier: 200, ManaCost: 15, Scaling: ScaleAttack},
		{ID: "poison_strike", Name: "Poison Strike", Multiplier: 150, ManaCost: 10, Scaling: ScaleAttack},
	},
}

// SkillsFor returns the skills available to class c.
func SkillsFor(c stats.Class) []Skill {
	return append([]Skill(nil), skillTable[c]...)
}

// LookupSkill finds skill id in class c's table.
//
// Postcondition: Returns an error wrapping gameerr.ErrUnknownSkill when c has
// no such skill.
func LookupSkill(c stats.Class, id string) (Skill, error) {
	for _, sk := range skillTable[c] {
		if sk.ID == id {
			return sk, nil
		}
	}
	return Skill{}, gameerr.Wrapf(gameerr.ErrUnknownSkill, "%s has no skill %q", c, id)
}
