package projects

import (
	"reflect"
	"testing"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/matching"
)

func block(start int, title string, active bool) (b latex.Block) {
	b = latex.Block{Start: start, End: start + 4, Title: title, HasTitle: title != "", Active: active}
	return b
}

func starts(blocks []latex.Block) (s []int) {
	s = make([]int, 0, len(blocks))
	for _, b := range blocks {
		s = append(s, b.Start)
	}
	return s
}

func checkStarts(t *testing.T, label string, expected []int, blocks []latex.Block) {
	t.Helper()
	if got := starts(blocks); !reflect.DeepEqual(expected, got) {
		t.Errorf("%s: expected blocks at %v, got %v", label, expected, got)
	}
}

func TestDecideExactIncludeAndExclude(t *testing.T) {
	blocks := []latex.Block{
		block(0, "Chatbot", false),
		block(4, "Old CRM Tool", true),
	}

	d := Decide(Selection{Include: []string{"Chatbot"}, Exclude: []string{"Old CRM Tool"}}, blocks)

	checkStarts(t, "activate", []int{0}, d.Activate)
	checkStarts(t, "deactivate", []int{4}, d.Deactivate)

	if d.Fallback != FallbackNone {
		t.Errorf("Expected no fallback, got %s", d.Fallback)
	}

	if len(d.Matches) != 0 {
		t.Errorf("Expected no fuzzy matches, got %d", len(d.Matches))
	}
}

func TestDecideSkipsBlocksAlreadyInRequestedState(t *testing.T) {
	blocks := []latex.Block{
		block(0, "Chatbot", true),
		block(4, "Old CRM Tool", false),
	}

	d := Decide(Selection{Include: []string{"Chatbot"}, Exclude: []string{"Old CRM Tool"}}, blocks)

	if !d.Empty() {
		t.Errorf("Expected empty decision, got %+v", d)
	}
}

func TestDecideFuzzyPass(t *testing.T) {
	blocks := []latex.Block{
		block(0, "Retrieval Chatbot", false),
		block(4, "Old CRM Tool", true),
		block(8, "Weather App", true),
	}

	d := Decide(Selection{Include: []string{"The Retrieval Chatbot"}, Exclude: []string{"CRM Tool"}}, blocks)

	checkStarts(t, "activate", []int{0}, d.Activate)
	checkStarts(t, "deactivate", []int{4}, d.Deactivate)

	if len(d.Matches) != 2 {
		t.Fatalf("Expected 2 fuzzy matches, got %d", len(d.Matches))
	}

	if !d.Matches[0].Include || d.Matches[0].Title != "Retrieval Chatbot" {
		t.Errorf("Unexpected include match: %+v", d.Matches[0])
	}

	if d.Matches[1].Include {
		t.Errorf("Expected second match to be an exclude: %+v", d.Matches[1])
	}
}

func TestDecideStarvationFirstBlocks(t *testing.T) {
	tests := []struct {
		name     string
		blocks   []latex.Block
		sel      Selection
		expected []int
	}{
		{
			name: "three of four",
			blocks: []latex.Block{
				block(0, "Alpha", false),
				block(4, "Beta", false),
				block(8, "Gamma", false),
				block(12, "Delta", false),
			},
			sel:      Selection{Include: []string{"Quantum Compiler"}},
			expected: []int{0, 4, 8},
		},
		{
			name:     "fewer than three",
			blocks:   []latex.Block{block(0, "Alpha", false), block(4, "Beta", false)},
			sel:      Selection{},
			expected: []int{0, 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.sel, tt.blocks)

			checkStarts(t, "activate", tt.expected, d.Activate)

			if len(d.Deactivate) != 0 {
				t.Errorf("Expected nothing deactivated, got %v", starts(d.Deactivate))
			}

			if d.Fallback != FallbackFirstBlocks {
				t.Errorf("Expected first blocks fallback, got %s", d.Fallback)
			}
		})
	}
}

func TestDecideStarvationRelaxedMatch(t *testing.T) {
	blocks := []latex.Block{
		block(0, "Alpha", false),
		block(4, "Forecast Sales Revenue", false),
	}

	// three of four query words: 0.9 * 3/4
	query := "Sales Revenue Forecast Engine"
	score := matching.TitleScore(query, "Forecast Sales Revenue")
	if score < RelaxedThreshold || score >= FuzzyThreshold {
		t.Fatalf("Expected score between the relaxed and fuzzy thresholds, got %f", score)
	}

	d := Decide(Selection{Include: []string{query}}, blocks)

	checkStarts(t, "activate", []int{4}, d.Activate)

	if d.Fallback != FallbackRelaxed {
		t.Errorf("Expected relaxed fallback, got %s", d.Fallback)
	}
}

func TestDecideNoStarvationWhenSomethingActive(t *testing.T) {
	blocks := []latex.Block{block(0, "Alpha", true), block(4, "Beta", false)}

	d := Decide(Selection{Include: []string{"Nothing Similar Here"}}, blocks)

	if !d.Empty() || d.Fallback != FallbackNone {
		t.Errorf("Expected empty decision without fallback, got %+v", d)
	}
}

func TestDecideListsAreDisjoint(t *testing.T) {
	blocks := []latex.Block{
		block(0, "Chatbot", false),
		block(4, "Chatbot Platform", true),
	}

	// the exact pass consumes "Chatbot Platform" as an include, so the exclude resolves fuzzily
	d := Decide(Selection{Include: []string{"Chatbot", "Chatbot Platform"}, Exclude: []string{"Chatbot Platform"}}, blocks)

	checkStarts(t, "activate", []int{0}, d.Activate)
	checkStarts(t, "deactivate", []int{4}, d.Deactivate)

	for _, a := range d.Activate {
		for _, x := range d.Deactivate {
			if a.Start == x.Start {
				t.Errorf("Block at %d is both activated and deactivated", a.Start)
			}
		}
	}
}

func TestDecideIgnoresUntitledBlocks(t *testing.T) {
	blocks := []latex.Block{block(0, "", false), block(4, "Alpha", true)}

	d := Decide(Selection{Include: []string{latex.UnknownTitle}}, blocks)

	if !d.Empty() {
		t.Errorf("Expected untitled blocks to be ignored, got %+v", d)
	}
}

func TestDecisionApply(t *testing.T) {
	lines := []string{
		`\section{Projects}`,
		`% \resumeProjectHeading{\textbf{Chatbot}}{}`,
		`% \resumeItem{one}`,
		`\resumeProjectHeading{\textbf{Old CRM Tool}}{}`,
		`\resumeItem{two}`,
	}
	blocks := latex.Scan(lines, latex.DefaultPatterns())
	if len(blocks) != 2 {
		t.Fatalf("Expected 2 blocks, got %d", len(blocks))
	}

	d := Decide(Selection{Include: []string{"Chatbot"}, Exclude: []string{"Old CRM Tool"}}, blocks)
	d.Apply(lines)

	after := latex.Scan(lines, latex.DefaultPatterns())
	if len(after) != 2 {
		t.Fatalf("Expected 2 blocks after apply, got %d", len(after))
	}

	if !after[0].Active || after[1].Active {
		t.Errorf("Expected Chatbot active and Old CRM Tool inactive, got %v and %v", after[0].Active, after[1].Active)
	}

	if len(lines) != 5 {
		t.Errorf("Expected 5 lines, got %d", len(lines))
	}
}

func TestFallbackString(t *testing.T) {
	tests := map[Fallback]string{
		FallbackNone:        "none",
		FallbackRelaxed:     "relaxed title match",
		FallbackFirstBlocks: "first blocks",
	}

	for f, want := range tests {
		if got := f.String(); got != want {
			t.Errorf("Expected %q, got %q", want, got)
		}
	}
}
