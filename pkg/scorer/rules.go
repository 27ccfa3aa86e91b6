package scorer

import (
	"github.com/fatih/color"
)

// Tier is a match-percentage band shown in reports.
type Tier struct {
	Name  string
	Min   float64 // Inclusive lower bound, in percent
	Color color.Attribute
}

// MatchTiers are ordered from best to worst; the first tier whose Min is reached applies.
//
//nolint:gochecknoglobals // Scoring configuration constants
var MatchTiers = []Tier{
	{Name: "EXCELLENT", Min: 70, Color: color.FgGreen},
	{Name: "GOOD", Min: 50, Color: color.FgYellow},
	{Name: "NEEDS IMPROVEMENT", Min: 0, Color: color.FgRed},
}

// TierFor returns the tier for a match percentage.
func TierFor(percentage float64) (tier Tier) {
	for _, t := range MatchTiers {
		if percentage >= t.Min {
			tier = t
			return tier
		}
	}
	tier = MatchTiers[len(MatchTiers)-1]
	return tier
}

const (
	// DefaultMinLength is the shortest word counted as a keyword.
	DefaultMinLength = 3
	// DefaultTopN is how many keywords are extracted per text.
	DefaultTopN = 50
	// MaxListed caps the missing and top keyword lists of an analysis.
	MaxListed = 20
	// MaxRecommendations caps Recommend.
	MaxRecommendations = 15
	// FirstParagraphBonus is added to a recommendation found in the opening paragraph.
	FirstParagraphBonus = 2
)

//nolint:gochecknoglobals // Scoring configuration constants
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "if": {}, "then": {}, "else": {},
	"when": {}, "at": {}, "from": {}, "by": {}, "for": {}, "with": {}, "about": {}, "against": {},
	"between": {}, "into": {}, "through": {}, "during": {}, "before": {}, "after": {}, "above": {},
	"below": {}, "to": {}, "of": {}, "in": {}, "on": {}, "off": {}, "over": {}, "under": {},
	"again": {}, "further": {}, "once": {}, "here": {}, "there": {}, "where": {}, "why": {},
	"how": {}, "all": {}, "any": {}, "both": {}, "each": {}, "few": {}, "more": {}, "most": {},
	"other": {}, "some": {}, "such": {}, "no": {}, "nor": {}, "not": {}, "only": {}, "own": {},
	"same": {}, "so": {}, "than": {}, "too": {}, "very": {}, "s": {}, "t": {}, "can": {},
	"will": {}, "just": {}, "should": {}, "now": {},
}
