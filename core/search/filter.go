package search

import "strings"

// MinNameTokenLength is the shortest name token that can cause a match.
const MinNameTokenLength = 3

// SearchTokens splits a name query on whitespace.
func SearchTokens(query string) []string {
	return strings.Fields(query)
}

// MatchesNameTokens reports whether any token of at least MinNameTokenLength
// characters is a substring of name. Matching is case-sensitive.
func MatchesNameTokens(name string, tokens []string) bool {
	for _, token := range tokens {
		if len(token) >= MinNameTokenLength && strings.Contains(name, token) {
			return true
		}
	}
	return false
}

// Filter keeps the entries passing the tag filter and, when tokens are given,
// the name tokens. Entry order is preserved.
func Filter[T any](entries []T, name func(T) string, tags func(T) map[string]string, filter TagFilter, tokens []string) []T {
	filtered := make([]T, 0, len(entries))
	for _, entry := range entries {
		if !filter.Empty() && !MatchesTagFilter(tags(entry), filter) {
			continue
		}
		if len(tokens) > 0 && !MatchesNameTokens(name(entry), tokens) {
			continue
		}
		filtered = append(filtered, entry)
	}
	return filtered
}
