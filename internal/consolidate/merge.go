package consolidate

// Merge reduces an ordered sequence of normalized items into one entry per
// ItemKey. Quantities are summed with plain float64 addition in input order,
// so a fixed input yields bit-for-bit reproducible totals. A nil quantity on
// either side leaves the running total untouched: non-numeric contributions
// never corrupt a numeric sum and never reset it to unknown.
//
// Output order is insertion order of first occurrence per key.
func Merge(items []LineItem) []MergedItem {
	var merged []MergedItem
	index := make(map[string]int)

	for _, item := range items {
		key := item.Key()

		i, seen := index[key]
		if !seen {
			index[key] = len(merged)
			merged = append(merged, MergedItem{LineItem: item, ItemKey: key})
			continue
		}

		if merged[i].Quantity != nil && item.Quantity != nil {
			sum := *merged[i].Quantity + *item.Quantity
			merged[i].Quantity = &sum
		} else if merged[i].Quantity == nil && item.Quantity != nil {
			q := *item.Quantity
			merged[i].Quantity = &q
		}

		// Representative name is first-seen non-empty; only the fallback
		// label yields to a later real name.
		if merged[i].Name == FallbackName && item.Name != FallbackName {
			merged[i].Name = item.Name
		}
	}

	return merged
}
