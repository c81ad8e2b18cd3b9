package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns the Unicode case-folded, trimmed form of value. Two strings
// that compare equal after Fold are treated as the same key for format names
// and input paths.
func Fold(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}

// EqualFold reports whether a and b are equal under Fold.
func EqualFold(a, b string) bool {
	return Fold(a) == Fold(b)
}

// CompareFold orders strings case-insensitively, breaking ties with the raw
// value so sorting is deterministic.
func CompareFold(a, b string) int {
	if c := strings.Compare(Fold(a), Fold(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
