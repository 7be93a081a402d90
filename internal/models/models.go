package models

// Ingredient is one selectable item on the kitchen ingredient bar.
type Ingredient struct {
	ID   string `yaml:"id"`             // e.g., "green-onion"
	Name string `yaml:"name,omitempty"` // derived from ID when empty
}

// Recipe is an immutable order definition: a name and the exact set of
// ingredients that make it. Order of Ingredients is irrelevant.
type Recipe struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Ingredients []string `yaml:"ingredients"`
}

// Catalog holds the kitchen's static content.
type Catalog struct {
	Ingredients []Ingredient `yaml:"ingredients"` // ingredient bar order
	Recipes     []Recipe     `yaml:"recipes"`
}

// Ingredient looks up an ingredient by id.
func (c *Catalog) Ingredient(id string) (Ingredient, bool) {
	for _, ing := range c.Ingredients {
		if ing.ID == id {
			return ing, true
		}
	}
	return Ingredient{}, false
}

// Recipe looks up a recipe by id.
func (c *Catalog) Recipe(id string) (Recipe, bool) {
	for _, r := range c.Recipes {
		if r.ID == id {
			return r, true
		}
	}
	return Recipe{}, false
}
