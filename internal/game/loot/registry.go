package loot

import (
	"fmt"

	"github.com/cory-johannsen/chatrpg/internal/game/content"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
)

// Registry holds loot tables indexed by ID. It is read-only after loading.
type Registry struct {
	tables map[string]*Table
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[string]*Table)}
}

// Register validates t and adds it.
//
// Precondition: t must not be nil.
// Postcondition: Table(t.ID) returns t; returns error if t is invalid or its
// ID is already registered.
func (r *Registry) Register(t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if _, exists := r.tables[t.ID]; exists {
		return fmt.Errorf("loot: table ID %q already registered", t.ID)
	}
	r.tables[t.ID] = t
	return nil
}

// Table returns the table for id.
//
// Postcondition: ok is true iff id is registered.
func (r *Registry) Table(id string) (*Table, bool) {
	t, ok := r.tables[id]
	return t, ok
}

// Len returns the number of registered tables.
func (r *Registry) Len() int { return len(r.tables) }

// LoadTables reads every YAML file in dir and registers each table, checking
// that every listed item exists in items.
//
// Precondition: dir is a readable directory path; items must not be nil.
// Postcondition: Returns a populated Registry or the first error.
func LoadTables(dir string, items *inventory.Registry) (*Registry, error) {
	tables, err := content.LoadDir[Table](dir)
	if err != nil {
		return nil, fmt.Errorf("LoadTables: %w", err)
	}
	reg := NewRegistry()
	for i := range tables {
		t := &tables[i]
		for _, id := range t.Items {
			if _, ok := items.Item(id); !ok {
				return nil, fmt.Errorf("LoadTables: table %q references unknown item %q", t.ID, id)
			}
		}
		if err := reg.Register(t); err != nil {
			return nil, fmt.Errorf("LoadTables: %w", err)
		}
	}
	return reg, nil
}
