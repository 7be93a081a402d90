package models

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}

	if len(c.Ingredients) != 6 {
		t.Fatalf("expected 6 ingredients, got %d", len(c.Ingredients))
	}
	ing, ok := c.Ingredient("green-onion")
	if !ok {
		t.Fatalf("green-onion missing from catalog")
	}
	if ing.Name != "Green Onion" {
		t.Errorf("expected display name Green Onion, got %q", ing.Name)
	}

	r, ok := c.Recipe("galbi-dinner")
	if !ok {
		t.Fatalf("galbi-dinner missing from catalog")
	}
	if r.Name != "Galbi Dinner" || len(r.Ingredients) != 3 {
		t.Errorf("unexpected recipe %+v", r)
	}
}

func TestParseCatalogKeepsExplicitNames(t *testing.T) {
	c, err := ParseCatalog([]byte(`
ingredients:
  - id: kimchi
    name: Spicy Kimchi
  - id: rice
recipes:
  - id: kimchi-bowl
    name: Kimchi Bowl
    ingredients: [rice, kimchi]
`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ing, _ := c.Ingredient("kimchi"); ing.Name != "Spicy Kimchi" {
		t.Errorf("explicit name overwritten: %q", ing.Name)
	}
	if ing, _ := c.Ingredient("rice"); ing.Name != "Rice" {
		t.Errorf("expected derived name Rice, got %q", ing.Name)
	}
}

func TestCatalogValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty recipe", `
ingredients: [{id: rice}]
recipes: [{id: air, name: Air, ingredients: []}]`},
		{"unknown ingredient", `
ingredients: [{id: rice}]
recipes: [{id: sushi, name: Sushi, ingredients: [rice, salmon]}]`},
		{"duplicate required", `
ingredients: [{id: rice}]
recipes: [{id: rice2, name: Double Rice, ingredients: [rice, rice]}]`},
		{"duplicate ingredient", `
ingredients: [{id: rice}, {id: rice}]`},
		{"unnamed recipe", `
ingredients: [{id: rice}]
recipes: [{id: plain, ingredients: [rice]}]`},
		{"duplicate recipe", `
ingredients: [{id: rice}]
recipes:
  - {id: plain, name: Plain, ingredients: [rice]}
  - {id: plain, name: Plain Again, ingredients: [rice]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.yaml))
			if !errors.Is(err, ErrInvalidCatalog) {
				t.Fatalf("expected ErrInvalidCatalog, got %v", err)
			}
		})
	}
}

func TestLoadCatalogFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, defaultCatalog, 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	c, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	if _, ok := c.Recipe("galbi-dinner"); !ok {
		t.Fatalf("expected galbi-dinner in loaded catalog")
	}

	if _, err := LoadCatalog(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestDisplayName(t *testing.T) {
	for _, tt := range []struct{ id, want string }{
		{"galbi", "Galbi"},
		{"green-onion", "Green Onion"},
		{"shredded-beef-bowl", "Shredded Beef Bowl"},
	} {
		if got := DisplayName(tt.id); got != tt.want {
			t.Errorf("DisplayName(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}
