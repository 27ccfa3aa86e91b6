package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/MayankD409/Resume-Personalizer/pkg/similarity"
)

const (
	// MinLineLength is the shortest collapsed line, in characters, considered a candidate.
	MinLineLength = 10
	// EarlyExitScore stops the search once a candidate is this close to the target.
	EarlyExitScore = 0.95
)

// LineMatch is the physical line that best matches a fragment.
type LineMatch struct {
	Index int
	Score float64
	Line  string
}

// LineScore compares a collapsed line with a collapsed target. Containing the target scores at
// least 0.7, rising with the share of the line the target covers.
func LineScore(line, target string) (score float64) {
	score = similarity.Ratio(line, target)

	if strings.Contains(line, target) {
		relative := float64(utf8.RuneCountInString(target)) / float64(utf8.RuneCountInString(line))
		score = max(score, 0.7+0.3*relative)
	}

	return score
}

// FindLine returns the line most similar to target. Lines shorter than MinLineLength are skipped,
// the first strictly better candidate wins, and the scan stops early past EarlyExitScore.
func FindLine(lines []string, target string) (match LineMatch, ok bool) {
	cleanTarget := CollapseSpace(target)
	best := LineMatch{Index: -1}

	for i, line := range lines {
		clean := CollapseSpace(line)
		if utf8.RuneCountInString(clean) < MinLineLength {
			continue
		}

		score := LineScore(clean, cleanTarget)
		if score > best.Score {
			best = LineMatch{Index: i, Score: score, Line: line}
			if score > EarlyExitScore {
				break
			}
		}
	}

	if best.Score <= 0 {
		return match, ok
	}

	match = best
	ok = true
	return match, ok
}
