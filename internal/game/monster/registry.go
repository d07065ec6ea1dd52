package monster

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/chatrpg/internal/game/dice"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
)

// LevelWindow is how far a template's level may sit from the character's
// level and still be picked.
const LevelWindow = 2

// Registry holds monster templates ordered by level. It is read-only after
// construction.
type Registry struct {
	templates []*Template
	byID      map[string]*Template
}

// NewRegistry indexes templates.
//
// Postcondition: Returns an error on a duplicate ID.
func NewRegistry(templates []*Template) (*Registry, error) {
	r := &Registry{byID: make(map[string]*Template, len(templates))}
	for _, t := range templates {
		if _, exists := r.byID[t.ID]; exists {
			return nil, fmt.Errorf("monster: template ID %q already registered", t.ID)
		}
		r.byID[t.ID] = t
		r.templates = append(r.templates, t)
	}
	sort.SliceStable(r.templates, func(i, j int) bool { return r.templates[i].Level < r.templates[j].Level })
	return r, nil
}

// Template returns the template for id.
//
// Postcondition: ok is true iff id is registered.
func (r *Registry) Template(id string) (*Template, bool) {
	t, ok := r.byID[id]
	return t, ok
}

// All returns every template in ascending level order.
func (r *Registry) All() []*Template {
	return append([]*Template(nil), r.templates...)
}

// Pick chooses a template suitable for a character of the given level.
//
// Templates within LevelWindow levels are picked uniformly. When none
// qualify, the highest-level template not above level is used, and failing
// that the lowest-level template.
//
// Postcondition: Returns an error wrapping gameerr.ErrMonsterNotFound iff the
// registry is empty.
func (r *Registry) Pick(level int, src dice.Source) (*Template, error) {
	if len(r.templates) == 0 {
		return nil, gameerr.Wrapf(gameerr.ErrMonsterNotFound, "no templates loaded")
	}
	var window []*Template
	var below *Template
	for _, t := range r.templates {
		if t.Level >= level-LevelWindow && t.Level <= level+LevelWindow {
			window = append(window, t)
		}
		if t.Level <= level {
			below = t
		}
	}
	if len(window) > 0 {
		return window[src.Intn(len(window))], nil
	}
	if below != nil {
		return below, nil
	}
	return r.templates[0], nil
}

// LoadRegistry loads templates from dir and checks that every referenced loot
// table is known to hasTable.
func LoadRegistry(dir string, hasTable func(id string) bool) (*Registry, error) {
	templates, err := LoadTemplates(dir)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		if t.LootTable != "" && !hasTable(t.LootTable) {
			return nil, fmt.Errorf("LoadRegistry: monster %q references unknown loot table %q", t.ID, t.LootTable)
		}
	}
	return NewRegistry(templates)
}
