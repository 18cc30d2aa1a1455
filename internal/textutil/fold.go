// Package textutil provides text normalization helpers for transcript search.
//
// Transcript matching is case-insensitive by policy. SQLite's LIKE only
// folds ASCII, so matching happens here with full Unicode case folding.
package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

var folder = cases.Fold()

// Fold returns the Unicode case-folded form of text for caseless comparison.
func Fold(text string) string {
	return folder.String(text)
}

// ContainsFold reports whether text contains query under Unicode case
// folding. An empty query matches nothing.
func ContainsFold(text, query string) bool {
	if query == "" {
		return false
	}
	return strings.Contains(Fold(text), Fold(query))
}
