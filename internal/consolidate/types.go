package consolidate

import (
	"encoding/json"
	"strings"
)

// Category is one of the fixed grocery categories items are bucketed into.
type Category string

const (
	CategoryProduce Category = "Produce"
	CategoryDairy   Category = "Dairy"
	CategoryMeat    Category = "Meat & Seafood"
	CategoryBakery  Category = "Bakery"
	CategoryFrozen  Category = "Frozen"
	CategoryPantry  Category = "Pantry"
	CategoryOther   Category = "Other"
)

// displayOrder is the rendering order of category buckets. Classification
// priority is separate (see classify.go).
var displayOrder = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryBakery,
	CategoryFrozen,
	CategoryPantry,
	CategoryOther,
}

// LineItem is one normalized shopping entry. Quantity is nil when the
// source supplied nothing numeric.
type LineItem struct {
	Name     string   `json:"name"`
	Quantity *float64 `json:"quantity,omitempty"`
	Unit     string   `json:"unit"`
}

// Key returns the merge identity for the item. Unit is part of identity:
// 500 g flour and 2 cups flour are distinct entries.
func (li LineItem) Key() string {
	return strings.ToLower(strings.TrimSpace(li.Name)) + "|" + strings.ToLower(strings.TrimSpace(li.Unit))
}

// MergedItem is a LineItem after duplicate merging, carrying its key and
// assigned category.
type MergedItem struct {
	LineItem
	ItemKey  string   `json:"item_key"`
	Category Category `json:"category"`
}

// CategoryGroup is one rendered bucket of the final list.
type CategoryGroup struct {
	Category Category     `json:"category"`
	Items    []MergedItem `json:"items"`
}

// ShoppingList is the consolidated, categorized output of a pipeline run.
// Groups follow displayOrder with empty buckets omitted; items within a
// group keep first-seen order.
type ShoppingList struct {
	Groups []CategoryGroup `json:"groups"`
}

// Items returns all merged items in group order.
func (sl *ShoppingList) Items() []MergedItem {
	var out []MergedItem
	for _, g := range sl.Groups {
		out = append(out, g.Items...)
	}
	return out
}

// Fragment is one recipe's sufficiency-check output: the unit of
// consolidation input. Items stay raw until the normalizer runs so the
// pipeline tolerates every upstream shape.
type Fragment struct {
	RecipeID string            `json:"recipe_id,omitempty"`
	Success  bool              `json:"success"`
	Items    []json.RawMessage `json:"shopping_list"`
}
