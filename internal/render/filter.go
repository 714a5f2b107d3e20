// internal/render/filter.go
package render

import "strings"

// Item is one filterable card: its position in the rendered list and the
// lowercase haystack it is matched against.
type Item struct {
	Index  int    `json:"index"`
	Search string `json:"search"`
}

// Result describes how a card list reorders for one query. Order lists every
// index with matches first, both groups keeping their original relative
// order; Hidden lists the non-matching indexes. Empty reports whether nothing
// matched (or, for a blank query, whether there was nothing to show).
type Result struct {
	Order  []int `json:"order"`
	Hidden []int `json:"hidden"`
	Empty  bool  `json:"empty"`
}

// Filter partitions items by case-insensitive substring match. A blank query
// restores the original order and hides nothing.
func Filter(items []Item, query string) Result {
	q := strings.ToLower(strings.TrimSpace(query))

	if q == "" {
		order := make([]int, len(items))
		for i, item := range items {
			order[i] = item.Index
		}
		return Result{Order: order, Hidden: []int{}, Empty: len(items) == 0}
	}

	matches := make([]int, 0, len(items))
	rest := make([]int, 0, len(items))
	for _, item := range items {
		if strings.Contains(item.Search, q) {
			matches = append(matches, item.Index)
		} else {
			rest = append(rest, item.Index)
		}
	}

	return Result{
		Order:  append(matches, rest...),
		Hidden: rest,
		Empty:  len(matches) == 0,
	}
}
