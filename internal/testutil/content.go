package testutil

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cory-johannsen/chatrpg/internal/game/combat"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
)

// RepoRoot returns the absolute path of the module root.
func RepoRoot() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..")
}

// ContentDir returns the absolute path of a directory under content/.
func ContentDir(name string) string {
	return filepath.Join(RepoRoot(), "content", name)
}

// LoadContent loads the shipped items, loot tables and monsters.
//
// Postcondition: Fails the test if any content file is invalid.
func LoadContent(t testing.TB) combat.Content {
	t.Helper()
	c, err := combat.LoadContent(ContentDir("items"), ContentDir("loot"), ContentDir("monsters"))
	if err != nil {
		t.Fatalf("loading content: %v", err)
	}
	return c
}

// LoadItems loads the shipped item registry.
func LoadItems(t testing.TB) *inventory.Registry {
	t.Helper()
	reg, err := inventory.LoadItems(ContentDir("items"))
	if err != nil {
		t.Fatalf("loading items: %v", err)
	}
	return reg
}
