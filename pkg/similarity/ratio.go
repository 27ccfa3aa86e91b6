// Package similarity provides the character-sequence similarity ratio shared by every fuzzy
// matcher in the tailoring pipeline.
package similarity

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Ratio returns the Ratcliff/Obershelp similarity of a and b in [0, 1]: twice the number of
// matched characters divided by the total number of characters.
//
// The result is symmetric and equals 1.0 only when a == b (two empty strings are equal).
func Ratio(a, b string) (ratio float64) {
	if a == b {
		ratio = 1.0
		return ratio
	}

	// The matcher's longest-block search breaks ties by position, so fix the argument order.
	if a > b {
		a, b = b, a
	}

	matcher := difflib.NewMatcherWithJunk(runes(a), runes(b), false, nil)
	ratio = matcher.Ratio()

	return ratio
}

// runes splits s into one element per character.
func runes(s string) (elems []string) {
	elems = make([]string, 0, len(s))
	for _, r := range s {
		elems = append(elems, string(r))
	}
	return elems
}
