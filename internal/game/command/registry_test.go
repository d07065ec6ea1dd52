package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestDefaultRegistry(t *testing.T) {
	r := DefaultRegistry()
	assert.Len(t, r.Commands(), len(BuiltinCommands()))
}

func TestResolve_NamesAndAliases(t *testing.T) {
	r := DefaultRegistry()

	tests := []struct {
		input   string
		handler string
	}{
		{"create", HandlerCreate},
		{"new", HandlerCreate},
		{"stats", HandlerStats},
		{"start", HandlerStart},
		{"hunt", HandlerStart},
		{"combat", HandlerCombat},
		{"attack", HandlerAttack},
		{"a", HandlerAttack},
		{"skill", HandlerSkill},
		{"cast", HandlerSkill},
		{"item", HandlerItem},
		{"use", HandlerItem},
		{"flee", HandlerFlee},
		{"inv", HandlerInventory},
		{"gear", HandlerEquipment},
		{"eq", HandlerEquip},
		{"ueq", HandlerUnequip},
		{"?", HandlerHelp},
		{"exit", HandlerQuit},
		{"ATTACK", HandlerAttack},
		{"Inv", HandlerInventory},
	}
	for _, tt := range tests {
		cmd, ok := r.Resolve(tt.input)
		require.True(t, ok, "input %q not found", tt.input)
		assert.Equal(t, tt.handler, cmd.Handler, "input %q wrong handler", tt.input)
	}
}

func TestResolve_NotFound(t *testing.T) {
	_, ok := DefaultRegistry().Resolve("teleport")
	assert.False(t, ok)
}

func TestNewRegistry_Collisions(t *testing.T) {
	_, err := NewRegistry([]Command{{Name: "test", Handler: "a"}, {Name: "test", Handler: "b"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"test" is used by both test and test`)

	_, err = NewRegistry([]Command{
		{Name: "test1", Aliases: []string{"t"}, Handler: "a"},
		{Name: "test2", Aliases: []string{"T"}, Handler: "b"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "used by both test1 and test2")

	_, err = NewRegistry([]Command{{Name: "", Handler: "a"}})
	assert.Error(t, err)
}

func TestLookup(t *testing.T) {
	r := DefaultRegistry()

	cmd, p, err := r.Lookup("/CAST Fireball")
	require.NoError(t, err)
	assert.Equal(t, HandlerSkill, cmd.Handler)
	assert.Equal(t, "Fireball", p.Arg(0))

	cmd, _, err = r.Lookup("   ")
	require.NoError(t, err)
	assert.Nil(t, cmd)

	_, p, err = r.Lookup("/teleport home")
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, "teleport", p.Command)
}

func TestCommandsByCategory(t *testing.T) {
	cats := DefaultRegistry().CommandsByCategory()
	assert.Len(t, cats, 4)
	assert.Len(t, cats[CategoryCombat], 5)
	assert.Equal(t, "attack", cats[CategoryCombat][0].Name)
}

func names(cmds []*Command) []string {
	out := make([]string, len(cmds))
	for i, cmd := range cmds {
		out[i] = cmd.Name
	}
	return out
}

func TestAvailable_FollowsState(t *testing.T) {
	r := DefaultRegistry()

	none := r.Available(NoCharacter)
	assert.Equal(t, []string{"create"}, names(none[CategoryCharacter]))
	assert.NotContains(t, none, CategoryCombat)
	assert.NotContains(t, none, CategoryItems)
	assert.Equal(t, []string{"help", "quit"}, names(none[CategorySystem]))

	idle := r.Available(Idle)
	assert.Equal(t, []string{"skills", "stats"}, names(idle[CategoryCharacter]))
	assert.Equal(t, []string{"start"}, names(idle[CategoryCombat]))
	assert.Equal(t, []string{"equip", "equipment", "inventory", "item", "unequip"}, names(idle[CategoryItems]))

	fighting := r.Available(Fighting)
	assert.Equal(t, []string{"attack", "combat", "flee", "skill", "start"}, names(fighting[CategoryCombat]))
	assert.Equal(t, []string{"equipment", "inventory", "item"}, names(fighting[CategoryItems]))
}

func TestCommand_Check(t *testing.T) {
	r := DefaultRegistry()
	create, _ := r.Resolve("create")
	attack, _ := r.Resolve("attack")
	equip, _ := r.Resolve("equip")

	err := create.Check(NoCharacter, Parse("/create Aria"))
	require.Error(t, err)
	assert.Equal(t, "usage: /create <name> <warrior|mage|rogue>", err.Error())
	assert.NoError(t, create.Check(NoCharacter, Parse("/create Aria mage")))
	assert.ErrorContains(t, create.Check(Idle, Parse("/create Aria mage")), "already have a character")

	assert.ErrorContains(t, attack.Check(Idle, Parse("/attack")), "not in a fight")
	assert.ErrorContains(t, attack.Check(NoCharacter, Parse("/attack")), "no character yet")
	assert.NoError(t, attack.Check(Fighting, Parse("/attack")))

	assert.ErrorContains(t, equip.Check(Fighting, Parse("/equip dagger")), "not allowed during an encounter")
	// State is checked before arguments.
	assert.ErrorContains(t, equip.Check(Fighting, Parse("/equip")), "not allowed during an encounter")
}

func TestRequirement_Allows(t *testing.T) {
	states := []State{NoCharacter, Idle, Fighting}
	tests := []struct {
		req  Requirement
		want []bool
	}{
		{Anyone, []bool{true, true, true}},
		{NeedsNoCharacter, []bool{true, false, false}},
		{NeedsCharacter, []bool{false, true, true}},
		{NeedsIdle, []bool{false, true, false}},
		{NeedsFight, []bool{false, false, true}},
	}
	for _, tt := range tests {
		for i, s := range states {
			assert.Equal(t, tt.want[i], tt.req.Allows(s), "requirement %d in %s", tt.req, s)
		}
	}
}

func TestPropertyAllAliasesResolveToCanonical(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		r := DefaultRegistry()
		cmds := r.Commands()
		cmd := cmds[rapid.IntRange(0, len(cmds)-1).Draw(t, "cmd_idx")]

		resolved, ok := r.Resolve(cmd.Name)
		if !ok || resolved.Name != cmd.Name {
			t.Fatalf("canonical name %q did not resolve to itself", cmd.Name)
		}
		for _, alias := range cmd.Aliases {
			aliasResolved, ok := r.Resolve(alias)
			if !ok || aliasResolved.Name != cmd.Name {
				t.Fatalf("alias %q did not resolve to %q", alias, cmd.Name)
			}
		}
	})
}
