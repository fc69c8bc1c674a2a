package consolidate

import "strings"

// categoryKeywords maps each category to its containment keywords. The lists
// are a static heuristic, not a taxonomy: a word can plausibly belong to more
// than one bucket, and classifyOrder is the tie-break.
var categoryKeywords = map[Category][]string{
	CategoryProduce: {
		"tomato", "potato", "onion", "garlic", "lettuce", "spinach", "kale",
		"broccoli", "carrot", "celery", "cucumber", "mushroom", "cabbage",
		"cauliflower", "zucchini", "squash", "avocado", "apple", "banana",
		"orange", "lemon", "lime", "grape", "berry", "berries", "melon",
		"mango", "peach", "pear", "pineapple", "cilantro", "parsley", "basil",
		"ginger", "scallion", "leek", "radish", "beet", "corn", "herb",
	},
	CategoryDairy: {
		// Bare "cream" is deliberately absent so "ice cream" can reach the
		// Frozen bucket further down the priority order.
		"milk", "cheese", "yogurt", "butter", "egg", "curd", "ghee",
		"paneer", "kefir", "sour cream", "heavy cream", "whipping cream",
		"half and half",
	},
	CategoryMeat: {
		"chicken", "beef", "pork", "turkey", "bacon", "sausage", "ham",
		"steak", "lamb", "mutton", "fish", "salmon", "tuna", "shrimp",
		"prawn", "crab", "anchovy", "sardine", "duck",
	},
	CategoryFrozen: {
		"frozen", "ice cream", "popsicle", "sorbet",
	},
	CategoryBakery: {
		"bread", "bagel", "bun", "roll", "tortilla", "croissant", "muffin",
		"pita", "baguette", "naan", "brioche",
	},
}

// classifyOrder is the match priority. First category whose keyword list
// hits wins; Pantry is the default for any non-empty name, Other is
// reserved for empty names.
var classifyOrder = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryMeat,
	CategoryFrozen,
	CategoryBakery,
}

// Classify maps a display name to exactly one category via lowercase
// substring containment.
func Classify(name string) Category {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CategoryOther
	}

	for _, cat := range classifyOrder {
		for _, keyword := range categoryKeywords[cat] {
			if strings.Contains(name, keyword) {
				return cat
			}
		}
	}

	return CategoryPantry
}
