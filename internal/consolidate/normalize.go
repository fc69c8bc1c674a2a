package consolidate

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// FallbackName labels items whose resolved name is empty after trimming.
// Such items are kept visible rather than silently dropped.
const FallbackName = "Item"

// Field alias priority for names and quantities. Sources disagree on key
// names for the same semantic, so resolution order is fixed.
var (
	nameAliases     = []string{"canonical_name", "ingredient", "name"}
	quantityAliases = []string{"amount", "quantity"}
)

var fractionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*/\s*(\d+(?:\.\d+)?)$`)

// Unicode vulgar fractions accepted in string quantities.
var unicodeFractions = map[rune]float64{
	'¼': 0.25, // ¼
	'½': 0.5,  // ½
	'¾': 0.75, // ¾
	'⅓': 1.0 / 3.0,
	'⅔': 2.0 / 3.0,
	'⅛': 0.125,
	'⅜': 0.375,
	'⅝': 0.625,
	'⅞': 0.875,
}

// Normalize converts one raw item into a LineItem. Raw items arrive as a
// bare JSON string or an object with an unknown subset of aliased fields.
// Nothing here returns an error: malformed shapes degrade field by field
// (unknown quantity, empty unit, fallback name) instead of dropping the item.
func Normalize(raw json.RawMessage) LineItem {
	var item LineItem

	// Bare string form: the whole value is the name.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		item.Name = strings.TrimSpace(s)
		if item.Name == "" {
			item.Name = FallbackName
		}
		return item
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		item.Name = FallbackName
		return item
	}

	for _, alias := range nameAliases {
		if v, ok := obj[alias]; ok {
			var name string
			if err := json.Unmarshal(v, &name); err == nil && strings.TrimSpace(name) != "" {
				item.Name = strings.TrimSpace(name)
				break
			}
		}
	}
	if item.Name == "" {
		item.Name = FallbackName
	}

	for _, alias := range quantityAliases {
		if v, ok := obj[alias]; ok {
			if q := parseQuantityValue(v); q != nil {
				item.Quantity = q
				break
			}
		}
	}

	if v, ok := obj["unit"]; ok {
		var unit string
		if err := json.Unmarshal(v, &unit); err == nil {
			item.Unit = strings.TrimSpace(unit)
		}
	}

	return item
}

// NormalizeAll normalizes a batch in order.
func NormalizeAll(raws []json.RawMessage) []LineItem {
	items := make([]LineItem, 0, len(raws))
	for _, raw := range raws {
		items = append(items, Normalize(raw))
	}
	return items
}

// parseQuantityValue accepts native JSON numbers directly and attempts a
// numeric parse on strings. Returns nil when nothing numeric can be read;
// a failed parse means "unknown quantity", never a dropped item.
func parseQuantityValue(raw json.RawMessage) *float64 {
	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return &num
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return ParseQuantityString(s)
}

// ParseQuantityString parses decimal, fraction ("1/2"), mixed ("1 1/2") and
// unicode vulgar fraction ("½", "1 ½") quantity strings. Returns nil when
// the string is not numeric.
func ParseQuantityString(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	// ParseFloat also accepts "inf" and "NaN"; those are not quantities,
	// and non-finite values don't survive JSON re-encoding.
	if q, err := strconv.ParseFloat(s, 64); err == nil {
		if math.IsInf(q, 0) || math.IsNaN(q) {
			return nil
		}
		return &q
	}

	// Mixed number: whole part followed by a fractional remainder.
	if fields := strings.Fields(s); len(fields) == 2 {
		if whole, err := strconv.ParseFloat(fields[0], 64); err == nil && !math.IsInf(whole, 0) && !math.IsNaN(whole) {
			if frac := ParseQuantityString(fields[1]); frac != nil {
				q := whole + *frac
				return &q
			}
		}
	}

	if m := fractionPattern.FindStringSubmatch(s); m != nil {
		num, _ := strconv.ParseFloat(m[1], 64)
		denom, _ := strconv.ParseFloat(m[2], 64)
		if denom != 0 {
			q := num / denom
			return &q
		}
		return nil
	}

	runes := []rune(s)
	if len(runes) == 1 {
		if val, ok := unicodeFractions[runes[0]]; ok {
			return &val
		}
	}

	return nil
}
