// Package similarity compares entity and column names.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// MatchThreshold is the dissimilarity below which two names are considered
// a fuzzy match.
const MatchThreshold = 0.5

// Dissimilarity returns the case-insensitive edit distance between a and b,
// normalized by the rune length of the longer input. The result is in [0, 1],
// 0 meaning identical. Two empty strings are identical.
func Dissimilarity(a, b string) float64 {
	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if maxLen == 0 {
		return 0
	}

	distance := levenshtein.ComputeDistance(strings.ToLower(a), strings.ToLower(b))
	score := float64(distance) / float64(maxLen)

	// Case folding can change rune counts for a handful of characters.
	if score > 1 {
		return 1
	}
	return score
}

// Match reports whether a and b are a fuzzy match.
func Match(a, b string) bool {
	return Dissimilarity(a, b) < MatchThreshold
}
