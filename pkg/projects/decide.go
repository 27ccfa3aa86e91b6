// Package projects reconciles the AI's include/exclude project lists with the blocks scanned from
// the resume and decides which blocks to switch on and off.
package projects

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/matching"
)

const (
	// FuzzyThreshold is the title score needed to resolve a title that matched no block exactly.
	FuzzyThreshold = 0.75
	// RelaxedThreshold is used for include titles when every block is inactive.
	RelaxedThreshold = 0.65
	// FallbackBlockCount is how many leading blocks are switched on when nothing else resolves.
	FallbackBlockCount = 3
)

// Selection is the AI's first-pass answer.
type Selection struct {
	Include []string `json:"include_projects"`
	Exclude []string `json:"exclude_projects"`
}

// Fallback records which starvation fallback, if any, produced the activations.
type Fallback int

const (
	FallbackNone Fallback = iota
	FallbackRelaxed
	FallbackFirstBlocks
)

func (f Fallback) String() (s string) {
	switch f {
	case FallbackRelaxed:
		s = "relaxed title match"
	case FallbackFirstBlocks:
		s = "first blocks"
	default:
		s = "none"
	}
	return s
}

// Resolution is a title that was matched to a block fuzzily.
type Resolution struct {
	Query   string  `json:"query"`
	Title   string  `json:"title"`
	Score   float64 `json:"score"`
	Include bool    `json:"include"`
}

// Decision lists the blocks to switch on and off. The two lists never share a block.
type Decision struct {
	Activate   []latex.Block `json:"activate"`
	Deactivate []latex.Block `json:"deactivate"`
	Fallback   Fallback      `json:"fallback"`
	Matches    []Resolution  `json:"matches,omitempty"`
}

// Empty reports whether the decision changes nothing.
func (d Decision) Empty() (empty bool) {
	empty = len(d.Activate) == 0 && len(d.Deactivate) == 0
	return empty
}

// Apply toggles the decided blocks in lines. The blocks must come from a scan of the same lines.
func (d Decision) Apply(lines []string) {
	for _, b := range d.Activate {
		latex.Toggle(lines, b, true)
	}
	for _, b := range d.Deactivate {
		latex.Toggle(lines, b, false)
	}
}

// blockSet keeps blocks in insertion order, unique by Start.
type blockSet struct {
	blocks []latex.Block
	seen   map[int]struct{}
}

func newBlockSet() (s *blockSet) {
	s = &blockSet{blocks: make([]latex.Block, 0), seen: make(map[int]struct{})}
	return s
}

func (s *blockSet) add(b latex.Block) {
	if s.has(b) {
		return
	}
	s.seen[b.Start] = struct{}{}
	s.blocks = append(s.blocks, b)
}

func (s *blockSet) has(b latex.Block) (ok bool) {
	_, ok = s.seen[b.Start]
	return ok
}

// Decide resolves the selection against blocks. Exact title matches are handled first, then the
// remaining titles are matched fuzzily. When nothing ends up activated and every block is
// inactive, include titles are retried with RelaxedThreshold and, failing that, the first
// FallbackBlockCount blocks are activated. A block both included and excluded stays off.
func Decide(sel Selection, blocks []latex.Block) (d Decision) {
	slog.Info("AI recommends including", "projects", strings.Join(sel.Include, ", "))
	slog.Info("AI recommends excluding", "projects", strings.Join(sel.Exclude, ", "))

	activate := newBlockSet()
	deactivate := newBlockSet()
	matchedIncludes := make(map[string]struct{})
	matchedExcludes := make(map[string]struct{})

	// Exact pass
	for _, b := range blocks {
		if !b.HasTitle {
			continue
		}
		switch {
		case slices.Contains(sel.Include, b.Title):
			if !b.Active {
				activate.add(b)
			}
			matchedIncludes[b.Title] = struct{}{}
		case slices.Contains(sel.Exclude, b.Title):
			if b.Active {
				deactivate.add(b)
			}
			matchedExcludes[b.Title] = struct{}{}
		}
	}

	// Fuzzy pass
	for _, title := range sel.Include {
		if _, done := matchedIncludes[title]; done {
			continue
		}
		m, ok := matching.FindBlock(title, blocks, FuzzyThreshold)
		if !ok || m.Block.Active {
			continue
		}
		activate.add(m.Block)
		d.Matches = append(d.Matches, Resolution{Query: title, Title: m.Block.Title, Score: m.Score, Include: true})
		slog.Info("Fuzzy matched include", "query", title, "title", m.Block.Title, "score", m.Score)
	}

	for _, title := range sel.Exclude {
		if _, done := matchedExcludes[title]; done {
			continue
		}
		m, ok := matching.FindBlock(title, blocks, FuzzyThreshold)
		if !ok || !m.Block.Active {
			continue
		}
		deactivate.add(m.Block)
		d.Matches = append(d.Matches, Resolution{Query: title, Title: m.Block.Title, Score: m.Score})
		slog.Info("Fuzzy matched exclude", "query", title, "title", m.Block.Title, "score", m.Score)
	}

	if len(activate.blocks) == 0 && allInactive(blocks) {
		d.Fallback = starvationFallback(sel, blocks, activate)
	}

	// Deactivation wins
	d.Activate = make([]latex.Block, 0, len(activate.blocks))
	for _, b := range activate.blocks {
		if deactivate.has(b) {
			slog.Warn("Project both included and excluded, keeping it off", "title", b.DisplayTitle())
			continue
		}
		d.Activate = append(d.Activate, b)
	}
	d.Deactivate = deactivate.blocks

	return d
}

// starvationFallback fills activate when the resume would otherwise show no projects.
func starvationFallback(sel Selection, blocks []latex.Block, activate *blockSet) (used Fallback) {
	slog.Warn("All projects are currently inactive, activating top recommendations")

	for _, title := range sel.Include {
		m, ok := matching.FindBlock(title, blocks, RelaxedThreshold)
		if ok {
			activate.add(m.Block)
		}
	}
	if len(activate.blocks) > 0 {
		used = FallbackRelaxed
		return used
	}

	if len(blocks) == 0 {
		return used
	}

	slog.Warn("No matches found in include list, using the first few blocks")
	for _, b := range blocks[:min(FallbackBlockCount, len(blocks))] {
		activate.add(b)
	}
	used = FallbackFirstBlocks

	return used
}

func allInactive(blocks []latex.Block) (inactive bool) {
	for _, b := range blocks {
		if b.Active {
			return inactive
		}
	}
	inactive = true
	return inactive
}
