package combat

import (
	"fmt"

	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
	"github.com/cory-johannsen/chatrpg/internal/game/loot"
	"github.com/cory-johannsen/chatrpg/internal/game/monster"
)

// LoadContent reads items, loot tables and monster templates from their
// directories, checking every cross reference.
//
// Postcondition: Returns a Content whose loot tables name only known items and
// whose monsters name only known loot tables, or a non-nil error.
func LoadContent(itemsDir, lootDir, monstersDir string) (Content, error) {
	items, err := inventory.LoadItems(itemsDir)
	if err != nil {
		return Content{}, fmt.Errorf("loading items: %w", err)
	}
	tables, err := loot.LoadTables(lootDir, items)
	if err != nil {
		return Content{}, fmt.Errorf("loading loot tables: %w", err)
	}
	monsters, err := monster.LoadRegistry(monstersDir, func(id string) bool {
		_, ok := tables.Table(id)
		return ok
	})
	if err != nil {
		return Content{}, fmt.Errorf("loading monsters: %w", err)
	}
	return Content{Items: items, Loot: tables, Monsters: monsters}, nil
}
