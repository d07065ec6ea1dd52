package console_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/cory-johannsen/chatrpg/internal/console"
	"github.com/cory-johannsen/chatrpg/internal/game/combat"
	"github.com/cory-johannsen/chatrpg/internal/game/dice"
	"github.com/cory-johannsen/chatrpg/internal/gameserver"
	"github.com/cory-johannsen/chatrpg/internal/observability"
	"github.com/cory-johannsen/chatrpg/internal/storage/memory"
	"github.com/cory-johannsen/chatrpg/internal/testutil"
)

func newService(t *testing.T) *gameserver.Service {
	t.Helper()
	content := testutil.LoadContent(t)
	logger := zaptest.NewLogger(t)
	engine := combat.NewEngine(content, dice.NewFixedSource(50), logger)
	return gameserver.NewService(memory.NewCharacterRepository(), engine, content.Items, observability.NopMetrics(), logger)
}

func newConsole(t *testing.T, in io.Reader, out io.Writer) *console.Console {
	t.Helper()
	return console.New(newService(t), 7, in, out, zaptest.NewLogger(t))
}

func exec(t *testing.T, c *console.Console, line string) string {
	t.Helper()
	reply, quit := c.Execute(context.Background(), line)
	require.False(t, quit, line)
	return reply
}

func TestExecute_CharacterCommands(t *testing.T) {
	c := newConsole(t, strings.NewReader(""), io.Discard)

	assert.Contains(t, exec(t, c, "/stats"), "You have no character yet")
	assert.Equal(t, "usage: /create <name> <warrior|mage|rogue>", exec(t, c, "/create Aria"))
	assert.Contains(t, exec(t, c, "/create Aria bard"), "invalid character class")

	out := exec(t, c, "/create Aria mage")
	assert.Contains(t, out, "Welcome, Aria!")
	assert.Contains(t, out, "Aria the Mage, level 1")
	assert.Contains(t, exec(t, c, "/new Other rogue"), "already have a character")

	assert.Contains(t, exec(t, c, "/stats"), "XP 0/100  Gold 0")
	assert.Contains(t, exec(t, c, "/skills"), "fireball: Fireball (15 mana)")
	assert.Contains(t, exec(t, c, "/inv"), "Health Potion x2")
	assert.Contains(t, exec(t, c, "/gear"), "Wooden Staff")
	assert.Contains(t, exec(t, c, "/teleport"), "Unknown command")
	assert.Equal(t, "", exec(t, c, "   "))
}

func TestExecute_Equipment(t *testing.T) {
	c := newConsole(t, strings.NewReader(""), io.Discard)
	exec(t, c, "/create Brom warrior")

	assert.Equal(t, "You unequip Basic Sword.", exec(t, c, "/unequip weapon"))
	assert.Equal(t, "Nothing is equipped in weapon.", exec(t, c, "/unequip weapon"))
	assert.Contains(t, exec(t, c, "/equipment"), "(empty)")
	assert.Equal(t, "You equip Basic Sword.", exec(t, c, "/equip basic_sword"))
	assert.Contains(t, exec(t, c, "/equip health_potion"), "cannot be equipped")
	assert.Contains(t, exec(t, c, "/unequip helmet"), "invalid equipment slot")
	assert.Equal(t, "You use Health Potion.", exec(t, c, "/use health_potion"))
	assert.Contains(t, exec(t, c, "/inv"), "Health Potion x1")
}

func TestExecute_Fight(t *testing.T) {
	c := newConsole(t, strings.NewReader(""), io.Discard)
	exec(t, c, "/create Aria mage")

	assert.Contains(t, exec(t, c, "/attack"), "not in a fight")
	assert.Contains(t, exec(t, c, "/start"), "A wild Goblin appears!")
	assert.Contains(t, exec(t, c, "/start"), "already fighting")
	assert.Contains(t, exec(t, c, "/combat"), "Turn 1 vs Goblin")
	assert.Contains(t, exec(t, c, "/equip wooden_staff swap"), "not allowed during an encounter")
	assert.Contains(t, exec(t, c, "/skill slash"), "unknown skill")
	assert.Contains(t, exec(t, c, "/skill fireball"), "uses Fireball on Goblin")

	var out string
	for i := 0; i < 50 && !strings.Contains(out, "Victory!"); i++ {
		out = exec(t, c, "/attack")
	}
	require.Contains(t, out, "Victory! Goblin is defeated.")
	assert.Contains(t, out, "+10 XP")
	assert.Contains(t, exec(t, c, "/combat"), "not in a fight")
	assert.Contains(t, exec(t, c, "/stats"), "XP 10/100")
}

func TestStart_ReadsUntilQuit(t *testing.T) {
	var out bytes.Buffer
	c := newConsole(t, strings.NewReader("/create Aria mage\n/help\n/quit\n/stats\n"), &out)

	require.NoError(t, c.Start())
	text := out.String()
	assert.Contains(t, text, "Combat:")
	assert.Contains(t, text, "/equip <item> [swap]")
	assert.Contains(t, text, "Goodbye.")
	assert.Equal(t, 1, strings.Count(text, "Aria the Mage"), "lines after /quit must not run")
}

func TestExecute_HelpFollowsState(t *testing.T) {
	c := newConsole(t, strings.NewReader(""), io.Discard)

	help := exec(t, c, "/help")
	assert.Contains(t, help, "/create <name> <warrior|mage|rogue>")
	assert.Contains(t, help, "/quit")
	assert.NotContains(t, help, "/attack")
	assert.NotContains(t, help, "/stats")

	exec(t, c, "/create Aria mage")
	help = exec(t, c, "/?")
	assert.NotContains(t, help, "/create")
	assert.Contains(t, help, "/start")
	assert.Contains(t, help, "/equip <item> [swap]")
	assert.NotContains(t, help, "/attack")

	exec(t, c, "/start")
	help = exec(t, c, "/help")
	assert.Contains(t, help, "/attack")
	assert.Contains(t, help, "/flee")
	assert.Contains(t, help, "/item <item>")
	assert.NotContains(t, help, "/equip <item>")
	assert.NotContains(t, help, "/unequip")
}

func TestStart_EOF(t *testing.T) {
	c := newConsole(t, strings.NewReader("/stats\n"), io.Discard)
	assert.NoError(t, c.Start())
}

func TestStop_UnblocksStart(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()
	c := newConsole(t, r, io.Discard)

	done := make(chan error, 1)
	go func() { done <- c.Start() }()
	c.Stop()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("console did not stop")
	}
}
