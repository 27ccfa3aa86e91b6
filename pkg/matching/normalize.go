// Package matching resolves free text produced by the AI back onto the resume: project titles
// onto scanned blocks, and bullet fragments onto physical lines.
//
// A missing or weak match is a normal outcome and is reported with ok == false, never an error.
package matching

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals // Compiled once
var (
	commandOpenRE = regexp.MustCompile(`\\[a-zA-Z]+\{|\}`)
	wordRE        = regexp.MustCompile(`\w+`)
)

// fillerWords are dropped from titles before comparison.
//
//nolint:gochecknoglobals // Lookup table
var fillerWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "of": {},
	"for": {}, "in": {}, "on": {}, "at": {}, "to": {},
}

// NormalizeTitle strips LaTeX command openers and closing braces, lowercases, collapses
// whitespace and removes filler words.
func NormalizeTitle(text string) (normalized string) {
	text = commandOpenRE.ReplaceAllString(text, "")
	fields := strings.Fields(strings.ToLower(text))

	kept := make([]string, 0, len(fields))
	for _, w := range fields {
		if _, filler := fillerWords[w]; filler {
			continue
		}
		kept = append(kept, w)
	}

	normalized = strings.Join(kept, " ")
	return normalized
}

// CollapseSpace trims text and replaces every whitespace run with a single space.
func CollapseSpace(text string) (collapsed string) {
	collapsed = strings.Join(strings.Fields(text), " ")
	return collapsed
}

// wordSet returns the distinct \w+ tokens of text.
func wordSet(text string) (set map[string]struct{}) {
	set = make(map[string]struct{})
	for _, w := range wordRE.FindAllString(text, -1) {
		set[w] = struct{}{}
	}
	return set
}
