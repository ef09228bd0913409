package matching

import (
	"cmp"
	"slices"
	"strings"
)

// SortByScore orders items by score descending, breaking ties by name ascending.
// The sort is stable so equal items keep their input order.
func SortByScore[T any](items []T, score func(T) int, name func(T) string) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := cmp.Compare(score(b), score(a)); c != 0 {
			return c
		}
		return strings.Compare(strings.ToLower(name(a)), strings.ToLower(name(b)))
	})
}

// CountByCategory counts categories, always reporting all four keys.
func CountByCategory(categories []Category) map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, c := range Categories {
		counts[c] = 0
	}
	for _, c := range categories {
		if c.Valid() {
			counts[c]++
		}
	}
	return counts
}
