package history

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/MayankD409/Resume-Personalizer/pkg/renderer"
	"github.com/MayankD409/Resume-Personalizer/pkg/similarity"
)

const (
	// RelevanceThreshold is the score a past run needs to count as similar.
	RelevanceThreshold = 0.3
	// MinGapCount is how many similar runs must share a missing keyword for it to be reported.
	MinGapCount = 2
)

// Retriever finds past runs similar to a new application.
type Retriever struct {
	indexer *Indexer
}

// NewRetriever creates a new retriever instance.
func NewRetriever(indexer *Indexer) (retriever *Retriever) {
	retriever = &Retriever{
		indexer: indexer,
	}
	return retriever
}

// Similar returns past runs related to company and role, most relevant first.
func (r *Retriever) Similar(ctx context.Context, company, role string) (runs []IndexedRun, err error) {
	var index Index
	index, err = r.indexer.LoadIndex()
	if err != nil {
		err = errors.Wrap(err, "failed to load index")
		return runs, err
	}

	type scored struct {
		run   IndexedRun
		score float64
	}

	roleLevel := RoleLevel(role)
	candidates := make([]scored, 0, len(index.Runs))
	for _, run := range index.Runs {
		err = ctx.Err()
		if err != nil {
			return runs, err
		}

		score := Relevance(run, company, role, roleLevel)
		if score > RelevanceThreshold {
			candidates = append(candidates, scored{run: run, score: score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].run.TailoredAt.After(candidates[j].run.TailoredAt)
	})

	runs = make([]IndexedRun, 0, len(candidates))
	for _, c := range candidates {
		runs = append(runs, c.run)
	}

	return runs, err
}

// Relevance scores how closely a past run relates to a new application.
func Relevance(run IndexedRun, company, role, roleLevel string) (score float64) {
	// Same company weighs the most
	if company != "" && renderer.CompanySlug(run.Company) == renderer.CompanySlug(company) {
		score += 0.5
	}

	if run.RoleLevel == roleLevel {
		score += 0.2
	}

	score += 0.3 * similarity.Ratio(strings.ToLower(run.Role), strings.ToLower(role))

	return score
}

// RecurringGaps counts the keywords that stayed missing after tailoring across runs and returns
// those missing at least minCount times, most frequent first.
func RecurringGaps(runs []IndexedRun, minCount int) (gaps []Gap) {
	counts := make(map[string]int)
	for _, run := range runs {
		seen := make(map[string]struct{})
		for _, k := range run.Missing {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			counts[k]++
		}
	}

	gaps = make([]Gap, 0)
	for k, n := range counts {
		if n >= minCount {
			gaps = append(gaps, Gap{Keyword: k, Count: n})
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Count != gaps[j].Count {
			return gaps[i].Count > gaps[j].Count
		}
		return gaps[i].Keyword < gaps[j].Keyword
	})

	return gaps
}

// Format renders similar runs and recurring gaps for the terminal.
func Format(runs []IndexedRun, gaps []Gap) (formatted string) {
	if len(runs) == 0 {
		formatted = "No similar past runs found."
		return formatted
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tailored for %d similar application(s) before:\n", len(runs))
	for _, run := range runs {
		fmt.Fprintf(&b, "- %s at %s (%s): %.1f%% -> %.1f%%\n", run.Role, run.Company,
			run.TailoredAt.Format("2006-01-02"), run.MatchBefore, run.MatchAfter)
	}

	if len(gaps) > 0 {
		b.WriteString("\nKeywords still missing after earlier runs:\n")
		for _, g := range gaps {
			fmt.Fprintf(&b, "- %s (missing %d times)\n", g.Keyword, g.Count)
		}
	}

	formatted = b.String()
	return formatted
}
