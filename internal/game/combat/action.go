package combat

import (
	"strings"

	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
)

// ActionType identifies what the player does on their turn.
// The zero value (ActionUnknown) is intentionally invalid.
type ActionType int

const (
	ActionUnknown ActionType = iota // zero value; intentionally invalid
	ActionAttack
	ActionSkill
	ActionItem
	ActionFlee
)

// String returns the lowercase action name.
func (a ActionType) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionSkill:
		return "skill"
	case ActionItem:
		return "item"
	case ActionFlee:
		return "flee"
	default:
		return "unknown"
	}
}

// ParseActionType resolves a case-insensitive action name.
//
// Postcondition: Returns an error wrapping gameerr.ErrInvalidAction for
// unknown names.
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "attack":
		return ActionAttack, nil
	case "skill":
		return ActionSkill, nil
	case "item":
		return ActionItem, nil
	case "flee":
		return ActionFlee, nil
	}
	return ActionUnknown, gameerr.Wrapf(gameerr.ErrInvalidAction, "%q", s)
}

// Action is one player turn.
type Action struct {
	Type ActionType
	// SkillID names the skill for ActionSkill.
	SkillID string
	// ItemID names the consumable for ActionItem.
	ItemID string
}

// Attack returns a basic attack action.
func Attack() Action { return Action{Type: ActionAttack} }

// UseSkill returns a skill action.
func UseSkill(id string) Action { return Action{Type: ActionSkill, SkillID: id} }

// UseItem returns an item action.
func UseItem(id string) Action { return Action{Type: ActionItem, ItemID: id} }

// Flee returns a flee action.
func Flee() Action { return Action{Type: ActionFlee} }

// String renders the action for logs.
func (a Action) String() string {
	switch a.Type {
	case ActionSkill:
		return "skill:" + a.SkillID
	case ActionItem:
		return "item:" + a.ItemID
	default:
		return a.Type.String()
	}
}
