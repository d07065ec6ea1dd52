package gameerr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
)

func TestWrapf_PreservesIs(t *testing.T) {
	err := gameerr.Wrapf(gameerr.ErrItemNotOwned, "item %q", "potion")
	assert.ErrorIs(t, err, gameerr.ErrItemNotOwned)
	assert.NotErrorIs(t, err, gameerr.ErrNotConsumable)
	assert.Contains(t, err.Error(), "potion")
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		want gameerr.Kind
	}{
		{gameerr.ErrSlotOccupied, gameerr.KindValidation},
		{gameerr.ErrEncounterTerminal, gameerr.KindStateConflict},
		{gameerr.ErrInsufficientMana, gameerr.KindResource},
		{gameerr.ErrCharacterNotFound, gameerr.KindNotFound},
		{fmt.Errorf("outer: %w", gameerr.Wrapf(gameerr.ErrActionInProgress, "c1")), gameerr.KindStateConflict},
	}
	for _, tc := range tests {
		kind, ok := gameerr.KindOf(tc.err)
		require.True(t, ok, "%v", tc.err)
		assert.Equal(t, tc.want, kind, "%v", tc.err)
	}
}

func TestKindOf_PlainError(t *testing.T) {
	_, ok := gameerr.KindOf(errors.New("boom"))
	assert.False(t, ok)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "validation", gameerr.KindValidation.String())
	assert.Equal(t, "state_conflict", gameerr.KindStateConflict.String())
	assert.Equal(t, "resource", gameerr.KindResource.String())
	assert.Equal(t, "not_found", gameerr.KindNotFound.String())
	assert.Equal(t, "unknown", gameerr.Kind(0).String())
}
