package recipe

import (
	"testing"

	"github.com/tinybot-ca/cosy-restaurant/internal/models"
)

var galbiDinner = models.Recipe{
	ID:          "galbi-dinner",
	Name:        "Galbi Dinner",
	Ingredients: []string{"galbi", "green-onion", "rice"},
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		recipe   models.Recipe
		want     bool
	}{
		{"exact order", []string{"galbi", "green-onion", "rice"}, galbiDinner, true},
		{"permuted", []string{"rice", "galbi", "green-onion"}, galbiDinner, true},
		{"missing one", []string{"galbi", "rice"}, galbiDinner, false},
		{"extra ingredient", []string{"galbi", "green-onion", "rice", "pork"}, galbiDinner, false},
		{"wrong ingredient", []string{"galbi", "onion", "rice"}, galbiDinner, false},
		{"repeated id", []string{"galbi", "galbi", "green-onion", "rice"}, galbiDinner, true},
		{"empty selection", nil, galbiDinner, false},
		{"empty both", nil, models.Recipe{ID: "nothing"}, true},
		{"something for nothing", []string{"rice"}, models.Recipe{ID: "nothing"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.selected, tt.recipe); got != tt.want {
				t.Fatalf("Validate(%v, %v) = %v, want %v", tt.selected, tt.recipe.Ingredients, got, tt.want)
			}
		})
	}
}

func TestValidateIgnoresRecipeOrder(t *testing.T) {
	selected := []string{"rice", "galbi", "green-onion"}
	orders := [][]string{
		{"galbi", "green-onion", "rice"},
		{"rice", "green-onion", "galbi"},
		{"green-onion", "galbi", "rice"},
	}
	for _, order := range orders {
		r := models.Recipe{ID: "galbi-dinner", Ingredients: order}
		if !Validate(selected, r) {
			t.Fatalf("expected match for recipe order %v", order)
		}
		if Validate(selected, r) != Validate(selected, r) {
			t.Fatalf("validate is not deterministic")
		}
	}
}

func TestSelection(t *testing.T) {
	s := NewSelection()

	if !s.Toggle("rice") {
		t.Fatalf("first toggle should select")
	}
	s.Toggle("galbi")
	s.Toggle("green-onion")
	if s.Len() != 3 || !s.Has("galbi") {
		t.Fatalf("unexpected selection %v", s.IDs())
	}
	if !s.Matches(galbiDinner) {
		t.Fatalf("selection %v should match %v", s.IDs(), galbiDinner.Ingredients)
	}

	if s.Toggle("galbi") {
		t.Fatalf("second toggle should deselect")
	}
	if s.Matches(galbiDinner) {
		t.Fatalf("selection without galbi should not match")
	}

	got := s.IDs()
	if len(got) != 2 || got[0] != "green-onion" || got[1] != "rice" {
		t.Fatalf("IDs() = %v, want sorted [green-onion rice]", got)
	}

	s.Clear()
	if s.Len() != 0 || s.Has("rice") {
		t.Fatalf("clear left %v", s.IDs())
	}
}
