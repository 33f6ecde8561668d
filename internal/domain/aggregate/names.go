// Package aggregate turns a play-by-play event sequence into rosters,
// per-participant action views and ranked stat lines.
//
// Every function here is pure: it reads the events it is given and allocates
// its own result. Nothing is cached between calls.
package aggregate

import "strings"

// normalize folds a display name for comparison.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// sameName reports whether an optional name matches an already normalized target.
func sameName(candidate *string, target string) bool {
	return candidate != nil && normalize(*candidate) == target
}

// surname returns the last space-delimited token of a normalized name.
// A single-token name is its own surname.
func surname(normalized string) string {
	parts := strings.Split(normalized, " ")
	return parts[len(parts)-1]
}

// containsSurname reports whether an optional attribution field mentions the surname.
func containsSurname(candidate *string, last string) bool {
	return candidate != nil && strings.Contains(strings.ToLower(*candidate), last)
}
