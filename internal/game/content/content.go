// Package content loads and validates the YAML definitions that drive the
// engine: item templates, monster templates and loot tables.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/chatrpg/internal/game/dice"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the shared struct validator.
//
// Besides the stock tags it understands "dice", which accepts an empty string
// or any expression dice.Parse accepts.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("dice", validateDice)
		validate = v
	})
	return validate
}

func validateDice(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := dice.Parse(s)
	return err == nil
}

// ValidateStruct checks s against its validate tags.
//
// Postcondition: Returns nil, or an error naming every failing field.
func ValidateStruct(s any) error {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		if e.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s=%s", e.Namespace(), e.Tag(), e.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s: failed %s", e.Namespace(), e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}

// LoadDir reads every *.yaml and *.yml file in dir, in name order, and decodes
// each as a YAML sequence of T.
//
// Precondition: dir is a readable directory path.
// Postcondition: Returns the concatenated entries or the first read/parse error.
func LoadDir[T any](dir string) ([]T, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("content: cannot read directory %q: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		ext := filepath.Ext(entry.Name())
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var out []T
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("content: cannot read file %q: %w", path, err)
		}
		var batch []T
		if err := yaml.Unmarshal(data, &batch); err != nil {
			return nil, fmt.Errorf("content: cannot parse file %q: %w", path, err)
		}
		out = append(out, batch...)
	}
	return out, nil
}
