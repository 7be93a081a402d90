package models

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// ErrInvalidCatalog is returned when catalog content violates its invariants.
var ErrInvalidCatalog = errors.New("invalid catalog")

// DefaultCatalog returns the built-in kitchen catalog.
func DefaultCatalog() (*Catalog, error) {
	return ParseCatalog(defaultCatalog)
}

// LoadCatalog reads a YAML catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseCatalog decodes and validates a YAML catalog, filling in display names.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	for i := range c.Ingredients {
		if c.Ingredients[i].Name == "" {
			c.Ingredients[i].Name = DisplayName(c.Ingredients[i].ID)
		}
	}
	return &c, nil
}

// Validate checks that ingredient ids are unique and that every recipe names a
// non-empty set of known, distinct ingredients.
func (c *Catalog) Validate() error {
	known := make(map[string]struct{}, len(c.Ingredients))
	for _, ing := range c.Ingredients {
		if ing.ID == "" {
			return fmt.Errorf("%w: ingredient with empty id", ErrInvalidCatalog)
		}
		if _, dup := known[ing.ID]; dup {
			return fmt.Errorf("%w: duplicate ingredient %q", ErrInvalidCatalog, ing.ID)
		}
		known[ing.ID] = struct{}{}
	}

	recipes := make(map[string]struct{}, len(c.Recipes))
	for _, r := range c.Recipes {
		if r.ID == "" || r.Name == "" {
			return fmt.Errorf("%w: recipe %q needs an id and a name", ErrInvalidCatalog, r.ID)
		}
		if _, dup := recipes[r.ID]; dup {
			return fmt.Errorf("%w: duplicate recipe %q", ErrInvalidCatalog, r.ID)
		}
		recipes[r.ID] = struct{}{}

		if len(r.Ingredients) == 0 {
			return fmt.Errorf("%w: recipe %q has no ingredients", ErrInvalidCatalog, r.ID)
		}
		seen := make(map[string]struct{}, len(r.Ingredients))
		for _, id := range r.Ingredients {
			if _, ok := known[id]; !ok {
				return fmt.Errorf("%w: recipe %q uses unknown ingredient %q", ErrInvalidCatalog, r.ID, id)
			}
			if _, dup := seen[id]; dup {
				return fmt.Errorf("%w: recipe %q lists %q twice", ErrInvalidCatalog, r.ID, id)
			}
			seen[id] = struct{}{}
		}
	}
	return nil
}

// DisplayName turns a kebab-case id into a label, e.g. "green-onion" -> "Green Onion".
func DisplayName(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}
