// Package command defines the chat commands players type, their aliases, and
// the parser that splits a chat line into a command and its arguments.
package command

// Categories for organizing commands in help output.
const (
	CategoryCharacter = "character"
	CategoryCombat    = "combat"
	CategoryItems     = "items"
	CategorySystem    = "system"
)

// Handler identifiers mapping commands to game operations.
const (
	HandlerCreate    = "create"
	HandlerStats     = "stats"
	HandlerSkills    = "skills"
	HandlerStart     = "start"
	HandlerCombat    = "combat"
	HandlerAttack    = "attack"
	HandlerSkill     = "skill"
	HandlerItem      = "item"
	HandlerFlee      = "flee"
	HandlerInventory = "inventory"
	HandlerEquipment = "equipment"
	HandlerEquip     = "equip"
	HandlerUnequip   = "unequip"
	HandlerHelp      = "help"
	HandlerQuit      = "quit"
)

// State is what the chat layer knows about the player sending a command.
type State int

const (
	// NoCharacter is a chat user who has not created a character.
	NoCharacter State = iota
	// Idle is a character outside any encounter.
	Idle
	// Fighting is a character with an ongoing encounter.
	Fighting
)

// String returns the lowercase state name.
func (s State) String() string {
	switch s {
	case NoCharacter:
		return "no_character"
	case Idle:
		return "idle"
	case Fighting:
		return "fighting"
	default:
		return "unknown"
	}
}

// Requirement restricts the States in which a command runs.
type Requirement int

const (
	Anyone Requirement = iota
	NeedsNoCharacter
	NeedsCharacter
	NeedsIdle
	NeedsFight
)

// Allows reports whether a command with this requirement runs in s.
func (r Requirement) Allows(s State) bool {
	switch r {
	case NeedsNoCharacter:
		return s == NoCharacter
	case NeedsCharacter:
		return s != NoCharacter
	case NeedsIdle:
		return s == Idle
	case NeedsFight:
		return s == Fighting
	default:
		return true
	}
}

func (r Requirement) refusal() string {
	switch r {
	case NeedsNoCharacter:
		return "You already have a character. Use /stats to see it."
	case NeedsCharacter:
		return "You have no character yet. Use /create <name> <warrior|mage|rogue>."
	case NeedsIdle:
		return "That is not allowed during an encounter. Finish the fight first."
	case NeedsFight:
		return "You are not in a fight. Use /start to find one."
	default:
		return ""
	}
}

// Command defines a player-invocable command.
type Command struct {
	// Name is the canonical command name.
	Name string
	// Aliases are alternate names for this command.
	Aliases []string
	// Usage shows the argument syntax, e.g. "equip <item> [swap]".
	Usage string
	// Help is the short help text displayed to players.
	Help string
	// Category groups the command in help output.
	Category string
	// Handler names the game operation the command invokes.
	Handler string
	// MinArgs is the number of required arguments.
	MinArgs int
	// Requires is the player State the command needs.
	Requires Requirement
}

// BuiltinCommands returns every chat command.
func BuiltinCommands() []Command {
	return []Command{
		{Name: "create", Aliases: []string{"new"}, Usage: "create <name> <warrior|mage|rogue>", Help: "Create your character", Category: CategoryCharacter, Handler: HandlerCreate, MinArgs: 2, Requires: NeedsNoCharacter},
		{Name: "stats", Aliases: []string{"st", "profile"}, Usage: "stats", Help: "Show level, experience and statistics", Category: CategoryCharacter, Handler: HandlerStats, Requires: NeedsCharacter},
		{Name: "skills", Usage: "skills", Help: "List your class skills", Category: CategoryCharacter, Handler: HandlerSkills, Requires: NeedsCharacter},

		// start stays open while fighting so the player is pointed at /combat.
		{Name: "start", Aliases: []string{"hunt", "fight"}, Usage: "start", Help: "Look for a monster to fight", Category: CategoryCombat, Handler: HandlerStart, Requires: NeedsCharacter},
		{Name: "combat", Aliases: []string{"status"}, Usage: "combat", Help: "Show the current fight", Category: CategoryCombat, Handler: HandlerCombat, Requires: NeedsFight},
		{Name: "attack", Aliases: []string{"a", "att"}, Usage: "attack", Help: "Attack the monster", Category: CategoryCombat, Handler: HandlerAttack, Requires: NeedsFight},
		{Name: "skill", Aliases: []string{"cast"}, Usage: "skill <skill>", Help: "Use a class skill", Category: CategoryCombat, Handler: HandlerSkill, MinArgs: 1, Requires: NeedsFight},
		{Name: "flee", Aliases: []string{"run"}, Usage: "flee", Help: "Try to escape the fight", Category: CategoryCombat, Handler: HandlerFlee, Requires: NeedsFight},

		{Name: "item", Aliases: []string{"use"}, Usage: "item <item>", Help: "Use a consumable", Category: CategoryItems, Handler: HandlerItem, MinArgs: 1, Requires: NeedsCharacter},
		{Name: "inventory", Aliases: []string{"inv", "i"}, Usage: "inventory", Help: "Show your pack and gold", Category: CategoryItems, Handler: HandlerInventory, Requires: NeedsCharacter},
		{Name: "equipment", Aliases: []string{"gear"}, Usage: "equipment", Help: "Show equipped items", Category: CategoryItems, Handler: HandlerEquipment, Requires: NeedsCharacter},
		{Name: "equip", Aliases: []string{"eq"}, Usage: "equip <item> [swap]", Help: "Equip an item from your pack", Category: CategoryItems, Handler: HandlerEquip, MinArgs: 1, Requires: NeedsIdle},
		{Name: "unequip", Aliases: []string{"ueq"}, Usage: "unequip <weapon|armor|accessory>", Help: "Return an equipped item to your pack", Category: CategoryItems, Handler: HandlerUnequip, MinArgs: 1, Requires: NeedsIdle},

		{Name: "help", Aliases: []string{"?"}, Usage: "help", Help: "Show the commands you can use now", Category: CategorySystem, Handler: HandlerHelp},
		{Name: "quit", Aliases: []string{"exit"}, Usage: "quit", Help: "Close the console", Category: CategorySystem, Handler: HandlerQuit},
	}
}
