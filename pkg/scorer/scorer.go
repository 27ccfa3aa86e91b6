// Package scorer measures how well a resume covers the keywords of a job description.
package scorer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/fatih/color"
)

//nolint:gochecknoglobals // Compiled once
var (
	latexCommandRE = regexp.MustCompile(`\\[a-zA-Z]+\*?`)
	commentLineRE  = regexp.MustCompile(`(?m)^\s*%.*$`)
)

// Analysis is the keyword overlap between a job description and a resume.
type Analysis struct {
	MatchPercentage float64  `json:"match_percentage"`
	Matched         []string `json:"matched_keywords"`
	Missing         []string `json:"missing_keywords"`
	TopJD           []string `json:"top_jd_keywords"`
	TopResume       []string `json:"top_resume_keywords"`
}

// Scorer extracts and compares keywords with fixed limits.
type Scorer struct {
	MinLength int
	TopN      int
}

// NewScorer creates a scorer with the default limits.
func NewScorer() (scorer *Scorer) {
	scorer = &Scorer{
		MinLength: DefaultMinLength,
		TopN:      DefaultTopN,
	}
	return scorer
}

// ExtractKeywords lowercases text, turns punctuation into spaces, drops stop words and words
// shorter than minLength, and returns up to topN words by descending frequency. Equal counts keep
// the order of first appearance.
func ExtractKeywords(text string, minLength, topN int) (keywords []string) {
	text = strings.Map(func(r rune) rune {
		if r <= unicode.MaxASCII && (unicode.IsPunct(r) || unicode.IsSymbol(r)) {
			return ' '
		}
		return r
	}, strings.ToLower(text))

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, w := range strings.Fields(text) {
		if _, stop := stopWords[w]; stop || len([]rune(w)) < minLength {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	keywords = order[:min(topN, len(order))]

	return keywords
}

// PlainText drops LaTeX comment lines and command names so markup does not count as keywords.
func PlainText(tex string) (text string) {
	text = commentLineRE.ReplaceAllString(tex, "")
	text = latexCommandRE.ReplaceAllString(text, " ")
	return text
}

// Analyze compares the keywords of jd and resume.
func (s *Scorer) Analyze(jd, resume string) (a Analysis) {
	jdKeywords := ExtractKeywords(jd, s.MinLength, s.TopN)
	resumeKeywords := ExtractKeywords(resume, s.MinLength, s.TopN)

	inResume := make(map[string]struct{}, len(resumeKeywords))
	for _, k := range resumeKeywords {
		inResume[k] = struct{}{}
	}

	a.Matched = make([]string, 0)
	a.Missing = make([]string, 0)
	for _, k := range jdKeywords {
		if _, ok := inResume[k]; ok {
			a.Matched = append(a.Matched, k)
			continue
		}
		a.Missing = append(a.Missing, k)
	}

	if len(jdKeywords) > 0 {
		pct := float64(len(a.Matched)) / float64(len(jdKeywords)) * 100
		a.MatchPercentage = math.Round(pct*100) / 100
	}

	a.Missing = a.Missing[:min(MaxListed, len(a.Missing))]
	a.TopJD = jdKeywords[:min(MaxListed, len(jdKeywords))]
	a.TopResume = resumeKeywords[:min(MaxListed, len(resumeKeywords))]

	return a
}

// Recommend ranks the job-description keywords missing from the resume by how often they occur
// in the description as whole words, with a bonus for appearing in its first paragraph.
func (s *Scorer) Recommend(jd, resume string) (keywords []string) {
	jdKeywords := ExtractKeywords(jd, s.MinLength, s.TopN)
	resumeKeywords := ExtractKeywords(resume, s.MinLength, s.TopN)

	inResume := make(map[string]struct{}, len(resumeKeywords))
	for _, k := range resumeKeywords {
		inResume[k] = struct{}{}
	}

	lower := strings.ToLower(jd)
	firstParagraph, _, _ := strings.Cut(lower, "\n\n")

	importance := make(map[string]int)
	keywords = make([]string, 0)
	for _, k := range jdKeywords {
		if _, ok := inResume[k]; ok {
			continue
		}
		score := len(regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`).FindAllStringIndex(lower, -1))
		if strings.Contains(firstParagraph, k) {
			score += FirstParagraphBonus
		}
		importance[k] = score
		keywords = append(keywords, k)
	}

	sort.SliceStable(keywords, func(i, j int) bool {
		return importance[keywords[i]] > importance[keywords[j]]
	})

	keywords = keywords[:min(MaxRecommendations, len(keywords))]

	return keywords
}

// Report formats an analysis for the terminal.
func Report(a Analysis, colorize bool) (report string) {
	paint := func(attr color.Attribute) (c *color.Color) {
		c = color.New(attr)
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c
	}

	tier := TierFor(a.MatchPercentage)

	var b strings.Builder
	b.WriteString("🔍 KEYWORD MATCH ANALYSIS\n")
	b.WriteString("Overall match: " + paint(tier.Color).Sprintf("%.1f%% (%s)", a.MatchPercentage, tier.Name) + "\n")
	b.WriteString("\n")
	b.WriteString(paint(color.FgGreen).Sprint("✓ Matched Keywords:") + " " + strings.Join(a.Matched[:min(10, len(a.Matched))], ", "))

	if len(a.Missing) > 0 {
		b.WriteString("\n")
		b.WriteString(paint(color.FgRed).Sprint("✗ Missing Keywords:") + " " + strings.Join(a.Missing[:min(10, len(a.Missing))], ", "))
	}

	report = b.String()

	return report
}

// Delta describes the change between two analyses, e.g. "42.0% -> 55.5% (+13.5)".
func Delta(before, after Analysis) (summary string) {
	summary = fmt.Sprintf("%.1f%% -> %.1f%% (%+.1f)", before.MatchPercentage, after.MatchPercentage,
		after.MatchPercentage-before.MatchPercentage)
	return summary
}
