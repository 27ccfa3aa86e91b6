package matching

import (
	"strings"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/similarity"
)

const (
	// CoverageWeight scales the share of query words found in a candidate title.
	CoverageWeight = 0.9
	// ContainmentScore is awarded when one normalized title contains the other.
	ContainmentScore = 0.85
)

// TitleMatch is the block chosen for a query title and its blended score.
type TitleMatch struct {
	Block latex.Block
	Score float64
}

// TitleScore blends three signals for a query against a block title and returns the highest:
// the similarity ratio of the normalized strings, CoverageWeight times the share of query words
// present in the title, and ContainmentScore when either normalized string contains the other.
func TitleScore(query, title string) (score float64) {
	q := NormalizeTitle(query)
	c := NormalizeTitle(title)

	score = similarity.Ratio(q, c)

	queryWords := wordSet(q)
	if len(queryWords) > 0 {
		titleWords := wordSet(c)
		found := 0
		for w := range queryWords {
			if _, ok := titleWords[w]; ok {
				found++
			}
		}
		score = max(score, CoverageWeight*float64(found)/float64(len(queryWords)))
	}

	// An empty string is a substring of everything; only real containment counts.
	if q != "" && c != "" && (strings.Contains(c, q) || strings.Contains(q, c)) {
		score = max(score, ContainmentScore)
	}

	return score
}

// FindBlock returns the titled block that best matches query when its score reaches threshold.
// Ties keep the earliest block.
func FindBlock(query string, blocks []latex.Block, threshold float64) (match TitleMatch, ok bool) {
	best := TitleMatch{Score: 0}
	found := false

	for _, b := range blocks {
		if !b.HasTitle {
			continue
		}
		score := TitleScore(query, b.Title)
		if score > best.Score {
			best = TitleMatch{Block: b, Score: score}
			found = true
		}
	}

	if !found || best.Score < threshold {
		return match, ok
	}

	match = best
	ok = true
	return match, ok
}
