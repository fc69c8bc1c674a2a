package consolidate

import "errors"

// ErrAllFragmentsFailed distinguishes "we could not determine what you need"
// from a legitimately empty list ("you need nothing").
var ErrAllFragmentsFailed = errors.New("all fragments failed, could not build shopping list")

// Result is the outcome of one pipeline run.
type Result struct {
	List            *ShoppingList `json:"list"`
	FragmentCount   int           `json:"fragment_count"`
	FailedFragments int           `json:"failed_fragments"`
}

// Consolidate reduces per-recipe fragments into one categorized shopping
// list. Fragments are processed in caller order; failed fragments (errored
// or unsuccessful sufficiency checks) contribute nothing and are counted.
// When every fragment of a non-empty batch failed, the run reports
// ErrAllFragmentsFailed instead of an empty list.
func Consolidate(fragments []Fragment) (*Result, error) {
	res := &Result{FragmentCount: len(fragments)}

	var items []LineItem
	for _, frag := range fragments {
		if !frag.Success {
			res.FailedFragments++
			continue
		}
		items = append(items, NormalizeAll(frag.Items)...)
	}

	if len(fragments) > 0 && res.FailedFragments == len(fragments) {
		return nil, ErrAllFragmentsFailed
	}

	res.List = buildList(Merge(items))
	return res, nil
}

// buildList classifies merged items and groups them into category buckets,
// preserving first-seen order within each bucket. Empty buckets are omitted.
func buildList(merged []MergedItem) *ShoppingList {
	buckets := make(map[Category][]MergedItem)
	for _, item := range merged {
		cat := Classify(item.Name)
		if item.Name == FallbackName {
			cat = CategoryOther
		}
		item.Category = cat
		buckets[cat] = append(buckets[cat], item)
	}

	list := &ShoppingList{}
	for _, cat := range displayOrder {
		if items := buckets[cat]; len(items) > 0 {
			list.Groups = append(list.Groups, CategoryGroup{Category: cat, Items: items})
		}
	}
	return list
}

// Rebuild regroups already-merged items, e.g. rows fetched back from the
// shared store. Item order is taken as first-seen order.
func Rebuild(items []MergedItem) *ShoppingList {
	return buildList(items)
}
