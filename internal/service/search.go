package service

import (
	"strings"
)

// DefaultTag is used when a search is empty and no tag can be chosen.
const DefaultTag = "Italian"

// ResolveTag picks the tag for a search query: an exact case-insensitive
// match, then the first prefix match, then the first substring match. With no
// tags or no match it returns the trimmed query, or DefaultTag when empty.
func ResolveTag(query string, tags []string) string {
	q := strings.TrimSpace(query)
	fallback := q
	if fallback == "" {
		fallback = DefaultTag
	}
	if len(tags) == 0 {
		return fallback
	}

	ql := strings.ToLower(q)
	for _, t := range tags {
		if strings.ToLower(t) == ql {
			return t
		}
	}
	for _, t := range tags {
		if strings.HasPrefix(strings.ToLower(t), ql) {
			return t
		}
	}
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), ql) {
			return t
		}
	}
	return fallback
}

// FilterTags keeps the tags containing query, case-insensitively.
func FilterTags(tags []string, query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return tags
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if strings.Contains(strings.ToLower(t), q) {
			out = append(out, t)
		}
	}
	return out
}
