package consolidate

import (
	"regexp"
	"strconv"
	"strings"
)

// Export renders the list as plain text, the canonical representation for
// copy and share actions. One header per non-empty category, one bullet per
// item: "- name (quantity unit)" when the quantity is known, "- name"
// otherwise. Regenerable deterministically from the same list.
func Export(list *ShoppingList) string {
	var b strings.Builder

	for i, group := range list.Groups {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(string(group.Category))
		b.WriteString(":\n")
		for _, item := range group.Items {
			b.WriteString("- ")
			b.WriteString(item.Name)
			if item.Quantity != nil {
				b.WriteString(" (")
				b.WriteString(FormatQuantity(*item.Quantity))
				if item.Unit != "" {
					b.WriteString(" ")
					b.WriteString(item.Unit)
				}
				b.WriteString(")")
			}
			b.WriteString("\n")
		}
	}

	return b.String()
}

// FormatQuantity renders a quantity without trailing zeros.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

var bulletPattern = regexp.MustCompile(`^-\s+(.*?)(?:\s+\((\d+(?:\.\d+)?)(?:\s+([^)]+))?\))?$`)

// ParseExport reads text in the Export format back into a list. Used for
// re-importing shared text and for verifying that exports round-trip.
func ParseExport(text string) *ShoppingList {
	list := &ShoppingList{}
	var current *CategoryGroup

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasSuffix(line, ":") {
			list.Groups = append(list.Groups, CategoryGroup{
				Category: Category(strings.TrimSuffix(line, ":")),
			})
			current = &list.Groups[len(list.Groups)-1]
			continue
		}

		m := bulletPattern.FindStringSubmatch(line)
		if m == nil || current == nil {
			continue
		}

		item := MergedItem{Category: current.Category}
		item.Name = m[1]
		if m[2] != "" {
			if q, err := strconv.ParseFloat(m[2], 64); err == nil {
				item.Quantity = &q
			}
		}
		item.Unit = strings.TrimSpace(m[3])
		item.ItemKey = item.Key()
		current.Items = append(current.Items, item)
	}

	return list
}
