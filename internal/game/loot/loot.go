// Package loot defines rarity-tiered drop tables and the single-draw roll that
// turns a defeated monster into at most one item.
package loot

import (
	"errors"
	"fmt"
	"math"

	"github.com/cory-johannsen/chatrpg/internal/game/content"
	"github.com/cory-johannsen/chatrpg/internal/game/dice"
	"github.com/cory-johannsen/chatrpg/internal/game/inventory"
)

// resolution is the number of integer buckets a table's probability space is
// divided into; chances are rounded to the nearest bucket.
const resolution = 1_000_000

// Tier is one slice of a table's probability space.
type Tier struct {
	Rarity inventory.Rarity `yaml:"rarity" validate:"gte=0,lte=5"`
	Chance float64          `yaml:"chance" validate:"gt=0,lte=1"`
}

// Table is a drop table. Exactly one tier (or nothing) is selected per roll;
// the probability of no drop is 1 minus the sum of tier chances.
type Table struct {
	ID    string   `yaml:"id" validate:"required"`
	Tiers []Tier   `yaml:"tiers" validate:"required,min=1,dive"`
	Items []string `yaml:"items" validate:"required,min=1,dive,required"`
}

// Validate checks struct tags, that tier chances sum to at most 1 and that no
// rarity appears twice.
//
// Postcondition: Returns nil iff the table is well formed.
func (t *Table) Validate() error {
	var errs []error
	if err := content.ValidateStruct(t); err != nil {
		errs = append(errs, err)
	}
	seen := make(map[inventory.Rarity]bool, len(t.Tiers))
	sum := 0
	for _, tier := range t.Tiers {
		if seen[tier.Rarity] {
			errs = append(errs, fmt.Errorf("rarity %s listed twice", tier.Rarity))
		}
		seen[tier.Rarity] = true
		sum += buckets(tier.Chance)
	}
	if sum > resolution {
		errs = append(errs, fmt.Errorf("tier chances sum to %.6f, must be <= 1", float64(sum)/resolution))
	}
	if len(errs) > 0 {
		return fmt.Errorf("loot table %q: %w", t.ID, errors.Join(errs...))
	}
	return nil
}

func buckets(chance float64) int {
	return int(math.Round(chance * resolution))
}

// DropChance returns the probability that a roll on t yields anything.
func (t *Table) DropChance() float64 {
	sum := 0
	for _, tier := range t.Tiers {
		sum += buckets(tier.Chance)
	}
	return float64(min(sum, resolution)) / resolution
}

// RollDrop draws once against t.
//
// The selected tier's rarity picks uniformly among the table's items of that
// rarity known to reg. A tier with no such item falls back to the next lower
// rarity; falling below Common yields nothing.
//
// Precondition: t has passed Validate.
// Postcondition: ok is false iff nothing dropped; otherwise item is a
// registered template listed in t.Items.
func RollDrop(t *Table, reg *inventory.Registry, src dice.Source) (item *inventory.Item, ok bool) {
	draw := src.Intn(resolution)
	acc := 0
	for _, tier := range t.Tiers {
		acc += buckets(tier.Chance)
		if draw < acc {
			return pick(t, reg, tier.Rarity, src)
		}
	}
	return nil, false
}

func pick(t *Table, reg *inventory.Registry, r inventory.Rarity, src dice.Source) (*inventory.Item, bool) {
	for {
		var pool []*inventory.Item
		for _, id := range t.Items {
			if it, ok := reg.Item(id); ok && it.Rarity == r {
				pool = append(pool, it)
			}
		}
		if len(pool) > 0 {
			return pool[src.Intn(len(pool))], true
		}
		lower, ok := r.Lower()
		if !ok {
			return nil, false
		}
		r = lower
	}
}
