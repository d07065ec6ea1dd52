package command

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrUnknownCommand is returned by Lookup for a word that names no command.
var ErrUnknownCommand = errors.New("unknown command")

// Registry resolves chat words to commands and decides which commands a
// player may use in their current State.
type Registry struct {
	byWord map[string]*Command // canonical names and aliases, lowercased
	sorted []*Command
}

// NewRegistry creates a Registry populated with the given commands.
//
// Precondition: No two commands may share a name or alias, ignoring case.
// Postcondition: Returns a Registry or an error naming the first collision.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{byWord: make(map[string]*Command, len(cmds)*2)}
	for i := range cmds {
		cmd := &cmds[i]
		if cmd.Name == "" {
			return nil, fmt.Errorf("command %d has no name", i)
		}
		for _, word := range append([]string{cmd.Name}, cmd.Aliases...) {
			key := strings.ToLower(word)
			if prev, taken := r.byWord[key]; taken {
				return nil, fmt.Errorf("%q is used by both %s and %s", word, prev.Name, cmd.Name)
			}
			r.byWord[key] = cmd
		}
		r.sorted = append(r.sorted, cmd)
	}
	sort.Slice(r.sorted, func(i, j int) bool { return r.sorted[i].Name < r.sorted[j].Name })
	return r, nil
}

// DefaultRegistry creates a Registry with all built-in commands.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(BuiltinCommands())
	if err != nil {
		panic(fmt.Sprintf("building default registry: %v", err))
	}
	return r
}

// Resolve looks up a command by name or alias, ignoring case.
func (r *Registry) Resolve(word string) (*Command, bool) {
	cmd, ok := r.byWord[strings.ToLower(word)]
	return cmd, ok
}

// Lookup parses a chat line and resolves its command.
//
// Postcondition: An empty line returns (nil, ParseResult{}, nil). An unknown
// word returns an error wrapping ErrUnknownCommand.
func (r *Registry) Lookup(line string) (*Command, ParseResult, error) {
	p := Parse(line)
	if p.Command == "" {
		return nil, p, nil
	}
	cmd, ok := r.Resolve(p.Command)
	if !ok {
		return nil, p, fmt.Errorf("%w %q", ErrUnknownCommand, p.Command)
	}
	return cmd, p, nil
}

// Commands returns all registered commands sorted by name.
func (r *Registry) Commands() []*Command {
	return append([]*Command(nil), r.sorted...)
}

// CommandsByCategory returns commands grouped by category, each group sorted by name.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	return group(r.sorted, func(*Command) bool { return true })
}

// Available groups the commands usable in s by category, each group sorted
// by name. Categories with nothing usable are omitted.
func (r *Registry) Available(s State) map[string][]*Command {
	return group(r.sorted, func(cmd *Command) bool { return cmd.Requires.Allows(s) })
}

func group(cmds []*Command, keep func(*Command) bool) map[string][]*Command {
	out := make(map[string][]*Command)
	for _, cmd := range cmds {
		if keep(cmd) {
			out[cmd.Category] = append(out[cmd.Category], cmd)
		}
	}
	return out
}

// Check reports whether the player may run cmd with p right now.
//
// Postcondition: Returns nil, a player-facing refusal for the wrong State,
// or the usage line when arguments are missing.
func (cmd *Command) Check(s State, p ParseResult) error {
	if !cmd.Requires.Allows(s) {
		return errors.New(cmd.Requires.refusal())
	}
	if len(p.Args) < cmd.MinArgs {
		return fmt.Errorf("usage: %s%s", Prefix, cmd.Usage)
	}
	return nil
}
