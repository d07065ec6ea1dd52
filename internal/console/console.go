// Package console is a line-oriented chat adapter: it reads slash commands
// for one chat user, runs them against a gameserver.Service, and writes the
// replies. It lets the engine be played from a terminal without a chat bot.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/chatrpg/internal/game/character"
	"github.com/cory-johannsen/chatrpg/internal/game/combat"
	"github.com/cory-johannsen/chatrpg/internal/game/command"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
	"github.com/cory-johannsen/chatrpg/internal/gameserver"
)

// Console dispatches chat lines for a single user.
type Console struct {
	svc      *gameserver.Service
	commands *command.Registry
	userID   int64
	in       io.Reader
	out      io.Writer
	logger   *zap.Logger

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a Console speaking for userID.
//
// Precondition: svc, in, out and logger must be non-nil.
func New(svc *gameserver.Service, userID int64, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		svc:      svc,
		commands: command.DefaultRegistry(),
		userID:   userID,
		in:       in,
		out:      out,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start reads lines until EOF, /quit, or Stop.
//
// Postcondition: Returns nil on a clean exit or the reader's error.
func (c *Console) Start() error {
	defer c.Stop()
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		scanner := bufio.NewScanner(c.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-c.done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	fmt.Fprintln(c.out, "Type /help for commands.")
	for {
		select {
		case <-c.done:
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			reply, quit := c.Execute(ctx, line)
			if reply != "" {
				fmt.Fprintln(c.out, reply)
			}
			if quit {
				return nil
			}
		}
	}
}

// Stop makes Start return. A stopped Console cannot be restarted.
func (c *Console) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

// Execute runs one chat line and returns the reply. quit is true for /quit.
func (c *Console) Execute(ctx context.Context, line string) (reply string, quit bool) {
	cmd, p, err := c.commands.Lookup(line)
	if err != nil {
		return fmt.Sprintf("Unknown command %q. Type /help for commands.", p.Command), false
	}
	if cmd == nil {
		return "", false
	}
	if cmd.Handler == command.HandlerQuit {
		return "Goodbye.", true
	}

	owner, state, err := c.state(ctx)
	if err != nil {
		return c.reject(cmd, err), false
	}
	if err := cmd.Check(state, p); err != nil {
		return err.Error(), false
	}

	switch cmd.Handler {
	case command.HandlerHelp:
		return c.help(state), false
	case command.HandlerCreate:
		return c.create(ctx, p), false
	}
	id := owner.ID

	var out string
	switch cmd.Handler {
	case command.HandlerStats:
		out = renderCharacter(owner)
	case command.HandlerSkills:
		out = renderSkills(owner)
	case command.HandlerInventory:
		out = renderInventory(owner)
	case command.HandlerEquipment:
		out, err = c.equipment(ctx, id)
	case command.HandlerStart:
		out, err = c.start(ctx, id)
	case command.HandlerCombat:
		out, err = c.status(ctx, id)
	case command.HandlerAttack:
		out, err = c.act(ctx, id, combat.Attack())
	case command.HandlerSkill:
		out, err = c.act(ctx, id, combat.UseSkill(strings.ToLower(p.Arg(0))))
	case command.HandlerFlee:
		out, err = c.act(ctx, id, combat.Flee())
	case command.HandlerItem:
		out, err = c.useItem(ctx, id, state, strings.ToLower(p.Arg(0)))
	case command.HandlerEquip:
		out, err = c.equip(ctx, id, strings.ToLower(p.Arg(0)), strings.EqualFold(p.Arg(1), "swap"))
	case command.HandlerUnequip:
		out, err = c.unequip(ctx, id, strings.ToLower(p.Arg(0)))
	default:
		err = fmt.Errorf("no handler for %q", cmd.Handler)
	}
	if err != nil {
		return c.reject(cmd, err), false
	}
	return out, false
}

// state loads the user's character, if any, and whether it is fighting.
func (c *Console) state(ctx context.Context) (*character.Character, command.State, error) {
	owner, err := c.svc.CharacterByUser(ctx, c.userID)
	if errors.Is(err, gameerr.ErrCharacterNotFound) {
		return nil, command.NoCharacter, nil
	}
	if err != nil {
		return nil, command.NoCharacter, err
	}
	if c.svc.InEncounter(owner.ID) {
		return owner, command.Fighting, nil
	}
	return owner, command.Idle, nil
}

func (c *Console) reject(cmd *command.Command, err error) string {
	if _, ok := gameerr.KindOf(err); !ok {
		c.logger.Error("command failed", zap.String("command", cmd.Name), zap.Error(err))
	}
	return renderError(err)
}

func (c *Console) help(state command.State) string {
	cats := map[string][]string{}
	for cat, cmds := range c.commands.Available(state) {
		for _, cmd := range cmds {
			cats[cat] = append(cats[cat], fmt.Sprintf("%s%-38s %s", command.Prefix, cmd.Usage, cmd.Help))
		}
	}
	return renderHelp(cats)
}

func (c *Console) create(ctx context.Context, p command.ParseResult) string {
	class := p.Args[len(p.Args)-1]
	name := strings.Join(p.Args[:len(p.Args)-1], " ")
	ch, err := c.svc.CreateCharacter(ctx, c.userID, name, class)
	if err != nil {
		if errors.Is(err, gameerr.ErrCharacterExists) {
			return "You already have a character. Use /stats to see it."
		}
		return renderError(err)
	}
	return "Welcome, " + ch.Name + "!\n" + renderCharacter(ch)
}

func (c *Console) equipment(ctx context.Context, id int64) (string, error) {
	eq, err := c.svc.Equipment(ctx, id)
	if err != nil {
		return "", err
	}
	return renderEquipment(eq), nil
}

func (c *Console) start(ctx context.Context, id int64) (string, error) {
	snap, err := c.svc.StartEncounter(ctx, id)
	if err != nil {
		if errors.Is(err, gameerr.ErrEncounterAlreadyActive) {
			return "You are already fighting. Use /combat to see the fight.", nil
		}
		return "", err
	}
	return fmt.Sprintf("A wild %s appears!\n%s", snap.Monster.Name, renderSnapshot(snap)), nil
}

func (c *Console) status(ctx context.Context, id int64) (string, error) {
	snap, err := c.svc.ActiveEncounter(ctx, id)
	if err != nil {
		return "", err
	}
	return renderSnapshot(snap), nil
}

func (c *Console) act(ctx context.Context, id int64, a combat.Action) (string, error) {
	snap, err := c.svc.ActiveEncounter(ctx, id)
	if err != nil {
		return "", err
	}
	res, err := c.svc.SubmitAction(ctx, snap.ID, a)
	if err != nil {
		return "", err
	}
	return renderTurn(res), nil
}

// useItem spends the turn when fighting and acts immediately otherwise.
func (c *Console) useItem(ctx context.Context, id int64, state command.State, itemID string) (string, error) {
	if state == command.Fighting {
		return c.act(ctx, id, combat.UseItem(itemID))
	}
	res, err := c.svc.UseItem(ctx, id, itemID)
	if err != nil {
		return "", err
	}
	return renderConsume(res.Effect), nil
}

func (c *Console) equip(ctx context.Context, id int64, itemID string, swap bool) (string, error) {
	res, err := c.svc.Equip(ctx, id, itemID, swap)
	if err != nil {
		if errors.Is(err, gameerr.ErrSlotOccupied) {
			return fmt.Sprintf("That slot is taken. Use /equip %s swap to replace it.", itemID), nil
		}
		return "", err
	}
	out := fmt.Sprintf("You equip %s.", res.Equipped.Name)
	if res.Previous != nil {
		out += fmt.Sprintf(" %s returns to your pack.", res.Previous.Name)
	}
	return out, nil
}

func (c *Console) unequip(ctx context.Context, id int64, slot string) (string, error) {
	res, err := c.svc.Unequip(ctx, id, slot)
	if err != nil {
		return "", err
	}
	if res.Removed == nil {
		return fmt.Sprintf("Nothing is equipped in %s.", slot), nil
	}
	return fmt.Sprintf("You unequip %s.", res.Removed.Name), nil
}
