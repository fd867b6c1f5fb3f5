package catalog

import "strings"

// Slugify lowercases a category name and replaces spaces with dashes, the
// form category filters arrive in from the storefront.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "-")
}

// Filter narrows a snapshot by category slug and case-insensitive title
// search. Empty arguments match everything.
func Filter(items []Item, categorySlug, query string) []Item {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if categorySlug != "" && Slugify(it.Category) != categorySlug {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(it.Title), query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Featured returns the items flagged for the home page.
func Featured(items []Item) []Item {
	out := make([]Item, 0)
	for _, it := range items {
		if it.Featured {
			out = append(out, it)
		}
	}
	return out
}

// Suggest returns up to limit item titles matching the query, prefix matches
// first, for the navbar search box.
func Suggest(items []Item, query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || limit <= 0 {
		return nil
	}

	var prefix, substring []string
	for _, it := range items {
		title := strings.ToLower(it.Title)
		switch {
		case strings.HasPrefix(title, query):
			prefix = append(prefix, it.Title)
		case strings.Contains(title, query):
			substring = append(substring, it.Title)
		}
	}

	out := append(prefix, substring...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
