package progression_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/progression"
	"github.com/cory-johannsen/chatrpg/internal/game/stats"
)

func newWarrior() *character.Character {
	c := &character.Character{Name: "Hero", Class: stats.Warrior, Level: 1, Inventory: inventory.New()}
	c.RestoreFull()
	return c
}

func TestThreshold(t *testing.T) {
	assert.Equal(t, []int{100, 150, 225, 337, 505}, []int{
		progression.Threshold(1), progression.Threshold(2), progression.Threshold(3),
		progression.Threshold(4), progression.Threshold(5),
	})
	for l := 1; l < progression.MaxLevel; l++ {
		require.Less(t, progression.Threshold(l), progression.Threshold(l+1), "level %d", l)
	}
}

func TestGrantExperience_MultiLevel(t *testing.T) {
	c := newWarrior()
	c.TakeDamage(60)

	events, err := progression.GrantExperience(c, 260)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 1, events[0].FromLevel)
	assert.Equal(t, 3, events[1].ToLevel)
	assert.Equal(t, 3, c.Level)
	assert.Equal(t, 10, c.Experience)
	assert.Equal(t, c.Stats().MaxHealth, c.CurrentHealth)
	assert.Equal(t, 124, c.CurrentHealth)
	assert.Equal(t, events[1].Stats, c.Stats())
}

func TestGrantExperience_NoLevel(t *testing.T) {
	c := newWarrior()
	events, err := progression.GrantExperience(c, 99)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 1, progression.ToNextLevel(c))
}

func TestGrantExperience_Negative(t *testing.T) {
	c := newWarrior()
	_, err := progression.GrantExperience(c, -1)
	assert.ErrorIs(t, err, gameerr.ErrInvalidAmount)
	kind, _ := gameerr.KindOf(err)
	assert.Equal(t, gameerr.KindValidation, kind)
	assert.Equal(t, 0, c.Experience)
}

func TestGrantExperience_CapsAtMaxLevel(t *testing.T) {
	c := newWarrior()
	c.Level = progression.MaxLevel - 1
	_, err := progression.GrantExperience(c, progression.Threshold(progression.MaxLevel-1)+progression.Threshold(progression.MaxLevel)*2)
	require.NoError(t, err)
	assert.Equal(t, progression.MaxLevel, c.Level)
	assert.Equal(t, progression.Threshold(progression.MaxLevel)-1, c.Experience)
	assert.Equal(t, 0, progression.ToNextLevel(c))
}

func TestGrantExperience_HugeAmountSaturates(t *testing.T) {
	c := newWarrior()
	_, err := progression.GrantExperience(c, 50)
	require.NoError(t, err)

	events, err := progression.GrantExperience(c, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, events, progression.MaxLevel-1)
	assert.Equal(t, progression.MaxLevel, c.Level)
	assert.Equal(t, progression.Threshold(progression.MaxLevel)-1, c.Experience)

	_, err = progression.GrantReward(c, math.MaxInt, math.MaxInt)
	require.NoError(t, err)
	_, err = progression.GrantReward(c, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, math.MaxInt, c.Gold)
	assert.Equal(t, progression.Threshold(progression.MaxLevel)-1, c.Experience)
}

func TestGrantReward(t *testing.T) {
	c := newWarrior()
	_, err := progression.GrantReward(c, 10, -5)
	assert.ErrorIs(t, err, gameerr.ErrInvalidAmount)
	assert.Equal(t, 0, c.Gold)

	_, err = progression.GrantReward(c, 10, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, c.Gold)
	assert.Equal(t, 10, c.Experience)
}

func TestGrantExperience_Property_LoopInvariant(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := newWarrior()
		c.Class = rapid.SampledFrom(stats.Classes).Draw(rt, "class")
		grants := rapid.SliceOfN(rapid.IntRange(0, 5000), 1, 20).Draw(rt, "grants")
		total := 0
		prevLevel := c.Level
		for _, g := range grants {
			events, err := progression.GrantExperience(c, g)
			require.NoError(rt, err)
			total += g
			assert.Less(rt, c.Experience, progression.Threshold(c.Level))
			assert.GreaterOrEqual(rt, c.Experience, 0)
			assert.Equal(rt, prevLevel+len(events), c.Level)
			prevLevel = c.Level
		}
		spent := 0
		for l := 1; l < c.Level; l++ {
			spent += progression.Threshold(l)
		}
		assert.Equal(rt, total, spent+c.Experience)
	})
}
