// Package stats derives combat statistics from class, level and modifiers.
//
// Every function here is pure; callers recompute a Block whenever the inputs
// change rather than holding on to a previous result.
package stats

// MaxCritChance is the ceiling applied to effective crit chance, in percent.
const MaxCritChance = 75

// Block is a complete set of combat statistics.
type Block struct {
	MaxHealth  int `yaml:"max_health" json:"max_health"`
	MaxMana    int `yaml:"max_mana" json:"max_mana"`
	Attack     int `yaml:"attack" json:"attack"`
	Defense    int `yaml:"defense" json:"defense"`
	Speed      int `yaml:"speed" json:"speed"`
	CritChance int `yaml:"crit_chance" json:"crit_chance"`
	Magic      int `yaml:"magic" json:"magic"`
}

// Modifiers are additive bonuses contributed by equipment or buffs.
// They share Block's shape; negative values are penalties.
type Modifiers = Block

// Add returns the field-wise sum of b and m.
func (b Block) Add(m Modifiers) Block {
	return Block{
		MaxHealth:  b.MaxHealth + m.MaxHealth,
		MaxMana:    b.MaxMana + m.MaxMana,
		Attack:     b.Attack + m.Attack,
		Defense:    b.Defense + m.Defense,
		Speed:      b.Speed + m.Speed,
		CritChance: b.CritChance + m.CritChance,
		Magic:      b.Magic + m.Magic,
	}
}

// Scale returns b with every field multiplied by pct/100 (integer division).
func (b Block) Scale(pct int) Block {
	return Block{
		MaxHealth:  b.MaxHealth * pct / 100,
		MaxMana:    b.MaxMana * pct / 100,
		Attack:     b.Attack * pct / 100,
		Defense:    b.Defense * pct / 100,
		Speed:      b.Speed * pct / 100,
		CritChance: b.CritChance * pct / 100,
		Magic:      b.Magic * pct / 100,
	}
}

// IsZero reports whether every field is zero.
func (b Block) IsZero() bool { return b == Block{} }

// clamp applies the floors and ceilings every effective Block must satisfy.
func (b Block) clamp() Block {
	b.MaxHealth = max(b.MaxHealth, 1)
	b.MaxMana = max(b.MaxMana, 0)
	b.Attack = max(b.Attack, 0)
	b.Defense = max(b.Defense, 0)
	b.Speed = max(b.Speed, 0)
	b.CritChance = min(max(b.CritChance, 0), MaxCritChance)
	b.Magic = max(b.Magic, 0)
	return b
}

// Base returns the unmodified statistics of class c at level.
//
// Precondition: c is valid; level >= 1 (lower values are treated as 1).
// Postcondition: Deterministic; every field is non-decreasing in level.
func Base(c Class, level int) Block {
	g, ok := GrowthFor(c)
	if !ok {
		return Block{MaxHealth: 1}
	}
	if level < 1 {
		level = 1
	}
	steps := level - 1
	b := g.Start
	b.MaxHealth += g.PerLevel.MaxHealth * steps
	b.MaxMana += g.PerLevel.MaxMana * steps
	b.Attack += g.PerLevel.Attack * steps
	b.Defense += g.PerLevel.Defense * steps
	b.Speed += g.PerLevel.Speed * steps
	b.CritChance += g.PerLevel.CritChance * steps
	b.Magic += g.PerLevel.Magic * steps
	return b.clamp()
}

// Effective returns Base(c, level) plus the sum of mods, clamped.
//
// Postcondition: MaxHealth >= 1; CritChance in [0, MaxCritChance]; other fields >= 0.
func Effective(c Class, level int, mods ...Modifiers) Block {
	b := Base(c, level)
	for _, m := range mods {
		b = b.Add(m)
	}
	return b.clamp()
}
