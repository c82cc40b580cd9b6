package domain

import (
	"path"
	"strings"
)

// DefaultChorusSuffix marks a chorus/harmony recording in the catalog naming scheme.
const DefaultChorusSuffix = "-合"

// ChorusMatcher reports whether an item name denotes a chorus recording.
type ChorusMatcher func(name string) bool

// SuffixMatcher returns a ChorusMatcher that checks the lower-cased base name,
// extension removed, for the given suffix.
func SuffixMatcher(suffix string) ChorusMatcher {
	suffix = strings.ToLower(suffix)
	return func(name string) bool {
		return strings.HasSuffix(normalizeName(name), suffix)
	}
}

func normalizeName(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	return strings.ToLower(base)
}

// Recompute derives the visible list from the catalog.
// It applies the filter mode, then the search query, then the reversal, and
// always returns a new slice. Relative catalog order is preserved until the
// final reversal.
func Recompute(catalog []Item, q ListQuery, isChorus ChorusMatcher) []Item {
	if isChorus == nil {
		isChorus = SuffixMatcher(DefaultChorusSuffix)
	}

	needle := strings.ToLower(strings.TrimSpace(q.Search))
	out := make([]Item, 0, len(catalog))

	for _, item := range catalog {
		switch q.Filter {
		case FilterOnlyChorus:
			if !isChorus(item.Name) {
				continue
			}
		case FilterExcludeChorus:
			if isChorus(item.Name) {
				continue
			}
		}

		if needle != "" &&
			!strings.Contains(strings.ToLower(item.Name), needle) &&
			!strings.Contains(strings.ToLower(item.Key), needle) {
			continue
		}

		out = append(out, item)
	}

	if q.Reversed {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}

	return out
}

// IndexOfKey returns the position of key in list, or -1.
func IndexOfKey(list []Item, key string) int {
	if key == "" {
		return -1
	}
	for i, item := range list {
		if item.Key == key {
			return i
		}
	}
	return -1
}
