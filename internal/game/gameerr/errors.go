// Package gameerr defines the error taxonomy shared by every engine package.
//
// Every rejection the engine produces is one of the sentinels below, optionally
// wrapped with detail via fmt.Errorf("%w: ...", sentinel). Callers classify a
// rejection with KindOf and match specific causes with errors.Is.
package gameerr

import (
	"errors"
	"fmt"
)

// Kind classifies a rejection by how the caller is expected to react.
type Kind int

const (
	// KindValidation marks malformed input: the request is rejected and no state changes.
	KindValidation Kind = iota + 1
	// KindStateConflict marks a request that conflicts with current engine state;
	// the caller must resynchronize before retrying.
	KindStateConflict
	// KindResource marks a request the character cannot currently afford
	// (mana, items); the player may retry with a different action.
	KindResource
	// KindNotFound marks a reference to an entity the engine does not know.
	KindNotFound
)

// String returns a lowercase label for the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindStateConflict:
		return "state_conflict"
	case KindResource:
		return "resource"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// Error is a classified engine rejection.
//
// Two Errors match under errors.Is iff their Codes are equal.
type Error struct {
	Kind    Kind
	Code    string
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// Is reports whether target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

func newError(kind Kind, code, msg string) *Error {
	return &Error{Kind: kind, Code: code, Message: msg}
}

// Validation errors.
var (
	ErrSlotOccupied  = newError(KindValidation, "slot_occupied", "equipment slot is occupied")
	ErrWrongItemType = newError(KindValidation, "wrong_item_type", "item cannot be equipped")
	ErrNotConsumable = newError(KindValidation, "not_consumable", "item is not consumable")
	ErrUnknownSkill  = newError(KindValidation, "unknown_skill", "unknown skill")
	ErrInvalidAction = newError(KindValidation, "invalid_action", "invalid action")
	ErrInvalidClass  = newError(KindValidation, "invalid_class", "invalid character class")
	ErrInvalidSlot   = newError(KindValidation, "invalid_slot", "invalid equipment slot")
	ErrInvalidAmount = newError(KindValidation, "invalid_amount", "amount must not be negative")
	ErrInvalidName   = newError(KindValidation, "invalid_name", "invalid character name")
)

// State conflict errors.
var (
	ErrEncounterAlreadyActive = newError(KindStateConflict, "encounter_already_active", "an encounter is already active")
	ErrEncounterNotFound      = newError(KindStateConflict, "encounter_not_found", "encounter not found")
	ErrEncounterTerminal      = newError(KindStateConflict, "encounter_terminal", "encounter has already ended")
	ErrActionInProgress       = newError(KindStateConflict, "action_in_progress", "another action is in progress for this character")
	ErrInCombat               = newError(KindStateConflict, "in_combat", "not allowed during an encounter")
	ErrCharacterExists        = newError(KindStateConflict, "character_exists", "character already exists")
)

// Resource errors.
var (
	ErrInsufficientMana = newError(KindResource, "insufficient_mana", "not enough mana")
	ErrItemNotOwned     = newError(KindResource, "item_not_owned", "item not in inventory")
)

// Not found errors.
var (
	ErrCharacterNotFound = newError(KindNotFound, "character_not_found", "character not found")
	ErrItemNotFound      = newError(KindNotFound, "item_not_found", "unknown item")
	ErrMonsterNotFound   = newError(KindNotFound, "monster_not_found", "no monster available")
)

// KindOf returns the Kind of the first *Error in err's chain.
//
// Postcondition: ok is false iff err carries no *Error.
func KindOf(err error) (kind Kind, ok bool) {
	var e *Error
	if !errors.As(err, &e) {
		return 0, false
	}
	return e.Kind, true
}

// Wrapf annotates sentinel with a formatted detail while preserving errors.Is matching.
func Wrapf(sentinel *Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", sentinel, fmt.Sprintf(format, args...))
}
