// Package recipe checks a player's ingredient picks against an order.
package recipe

import (
	"sort"

	"github.com/tinybot-ca/cosy-restaurant/internal/models"
)

// Validate reports whether selected and r.Ingredients are the same set.
// Order is irrelevant and repeated ids count once; there is no partial credit.
func Validate(selected []string, r models.Recipe) bool {
	want := toSet(r.Ingredients)
	got := toSet(selected)
	if len(got) != len(want) {
		return false
	}
	for id := range got {
		if _, ok := want[id]; !ok {
			return false
		}
	}
	return true
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Selection is the set of ingredients picked for the current attempt.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle adds id if absent and removes it otherwise. It reports whether id is
// selected afterwards.
func (s *Selection) Toggle(id string) bool {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) Clear() {
	clear(s.ids)
}

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Matches validates the selection against r.
func (s *Selection) Matches(r models.Recipe) bool {
	return Validate(s.IDs(), r)
}
