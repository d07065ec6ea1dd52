package inventory

import (
	"fmt"
	"sort"

	"github.com/cory-johannsen/chatrpg/internal/game/content"
	"github.com/cory-johannsen/chatrpg/internal/game/gameerr"
)

// Registry holds every item template indexed by ID.
//
// A Registry is populated at startup and read-only afterwards, so concurrent
// lookups need no locking.
type Registry struct {
	items map[string]*Item
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*Item)}
}

// Register validates it and adds it to the registry.
//
// Precondition: it must not be nil.
// Postcondition: Item(it.ID) returns it; returns error if it is invalid or
// its ID is already registered.
func (r *Registry) Register(it *Item) error {
	if err := it.Validate(); err != nil {
		return err
	}
	if _, exists := r.items[it.ID]; exists {
		return fmt.Errorf("inventory: item ID %q already registered", it.ID)
	}
	r.items[it.ID] = it
	return nil
}

// Item returns the template for id.
//
// Postcondition: ok is true iff id is registered.
func (r *Registry) Item(id string) (*Item, bool) {
	it, ok := r.items[id]
	return it, ok
}

// Lookup returns the template for id or an error wrapping gameerr.ErrItemNotFound.
func (r *Registry) Lookup(id string) (*Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gameerr.Wrapf(gameerr.ErrItemNotFound, "%q", id)
	}
	return it, nil
}

// All returns every template sorted by ID.
func (r *Registry) All() []*Item {
	out := make([]*Item, 0, len(r.items))
	for _, it := range r.items {
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of registered templates.
func (r *Registry) Len() int { return len(r.items) }

// LoadItems reads every YAML file in dir and registers each item it contains.
//
// Precondition: dir is a readable directory path.
// Postcondition: Returns a populated Registry or the first read, parse or
// validation error.
func LoadItems(dir string) (*Registry, error) {
	items, err := content.LoadDir[Item](dir)
	if err != nil {
		return nil, fmt.Errorf("LoadItems: %w", err)
	}
	reg := NewRegistry()
	for i := range items {
		if err := reg.Register(&items[i]); err != nil {
			return nil, fmt.Errorf("LoadItems: %w", err)
		}
	}
	return reg, nil
}
