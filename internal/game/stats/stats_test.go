package stats_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

func TestBase_WarriorLevelOne(t *testing.T) {
	b := stats.Base(stats.Warrior, 1)
	assert.Equal(t, 100, b.MaxHealth)
	assert.Equal(t, 15, b.Attack)
	assert.Equal(t, 5, b.Defense)
}

func TestBase_ClassWeighting(t *testing.T) {
	w := stats.Base(stats.Warrior, 10)
	m := stats.Base(stats.Mage, 10)
	r := stats.Base(stats.Rogue, 10)
	assert.Greater(t, w.MaxHealth, m.MaxHealth)
	assert.Greater(t, w.Attack, r.Attack)
	assert.Greater(t, m.MaxMana, w.MaxMana)
	assert.Greater(t, m.Magic, r.Magic)
	assert.Greater(t, r.Speed, w.Speed)
	assert.Greater(t, r.CritChance, m.CritChance)
}

func TestBase_LevelBelowOneTreatedAsOne(t *testing.T) {
	assert.Equal(t, stats.Base(stats.Mage, 1), stats.Base(stats.Mage, 0))
}

func TestBase_UnknownClass(t *testing.T) {
	assert.Equal(t, stats.Block{MaxHealth: 1}, stats.Base(stats.ClassUnknown, 5))
}

func TestBase_Property_DeterministicAndMonotone(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := rapid.SampledFrom(stats.Classes).Draw(rt, "class")
		level := rapid.IntRange(1, 99).Draw(rt, "level")
		a := stats.Base(c, level)
		assert.Equal(rt, a, stats.Base(c, level))
		next := stats.Base(c, level+1)
		assert.GreaterOrEqual(rt, next.MaxHealth, a.MaxHealth)
		assert.GreaterOrEqual(rt, next.MaxMana, a.MaxMana)
		assert.GreaterOrEqual(rt, next.Attack, a.Attack)
		assert.GreaterOrEqual(rt, next.Defense, a.Defense)
		assert.GreaterOrEqual(rt, next.Speed, a.Speed)
		assert.GreaterOrEqual(rt, next.CritChance, a.CritChance)
		assert.GreaterOrEqual(rt, next.Magic, a.Magic)
	})
}

func TestEffective_AddsModifiers(t *testing.T) {
	sword := stats.Modifiers{Attack: 5}
	armor := stats.Modifiers{Defense: 3, Speed: -1}
	e := stats.Effective(stats.Warrior, 1, sword, armor)
	assert.Equal(t, 20, e.Attack)
	assert.Equal(t, 8, e.Defense)
	assert.Equal(t, 7, e.Speed)
}

func TestEffective_Clamps(t *testing.T) {
	e := stats.Effective(stats.Rogue, 1, stats.Modifiers{MaxHealth: -1000, CritChance: 500, Speed: -100})
	assert.Equal(t, 1, e.MaxHealth)
	assert.Equal(t, stats.MaxCritChance, e.CritChance)
	assert.Equal(t, 0, e.Speed)
}

func TestBlock_Scale(t *testing.T) {
	b := stats.Block{Attack: 10, Defense: 3}
	assert.Equal(t, stats.Block{Attack: 15, Defense: 4}, b.Scale(150))
}

func TestParseClass(t *testing.T) {
	c, err := stats.ParseClass(" Mage ")
	require.NoError(t, err)
	assert.Equal(t, stats.Mage, c)
	assert.Equal(t, "mage", c.String())

	_, err = stats.ParseClass("bard")
	assert.ErrorIs(t, err, gameerr.ErrInvalidClass)
}
