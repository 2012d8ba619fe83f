// Package fold provides locale-independent case-insensitive string helpers.
//
// Matching uses simple case folding, the rune-for-rune folding of a Mongo
// case-insensitive $regex, so both store backends agree on what a term matches.
// A cases.Caser keeps state between calls, so every helper builds its own.
package fold

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// String maps every rune of s to the smallest rune of its simple folding
// orbit: "K", "k" and the Kelvin sign fold together, "ß" stays "ß".
func String(s string) string {
	return strings.Map(simpleFold, s)
}

func simpleFold(r rune) rune {
	low := r
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if f < low {
			low = f
		}
	}
	return low
}

// Contains reports whether substr is within s, ignoring case.
// An empty substr is contained in every string.
func Contains(s, substr string) bool {
	if substr == "" {
		return true
	}
	return strings.Contains(String(s), String(substr))
}

// Equal reports whether a and b are equal under case folding.
func Equal(a, b string) bool {
	return String(a) == String(b)
}

// Upper returns s in upper case without language-specific rules.
func Upper(s string) string {
	return cases.Upper(language.Und).String(s)
}
