package matching

import (
	"math"
	"testing"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
)

func titled(start int, title string) (b latex.Block) {
	b = latex.Block{Start: start, End: start + 1, Title: title, HasTitle: true}
	return b
}

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Chatbot", "chatbot"},
		{"filler words", "The Analysis of Sales in Europe", "analysis sales europe"},
		{"latex commands", `\textbf{Old CRM} \emph{Tool}`, "old crm tool"},
		{"whitespace", "  Data   Pipeline \t Tool ", "data pipeline tool"},
		{"only filler", "the of and", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTitle(tt.in); got != tt.want {
				t.Errorf("NormalizeTitle(%q): expected %q, got %q", tt.in, tt.want, got)
			}
		})
	}
}

func TestTitleScore(t *testing.T) {
	tests := []struct {
		name  string
		query string
		title string
		want  float64
	}{
		{"exact", "Chatbot", "Chatbot", 1.0},
		{"filler ignored", "The Old CRM Tool", "Old CRM Tool", 1.0},
		{"containment", "AI Chatbot", "Chatbot", ContainmentScore},
		{"empty query", "", "Chatbot", 0.0},
		// the ratio wins over half the words covered; the 0.75 threshold is not reached
		{"abbreviation", "ML Pipeline", "Machine Learning Pipeline", 11.0 / 18.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TitleScore(tt.query, tt.title)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("TitleScore(%q, %q): expected %f, got %f", tt.query, tt.title, tt.want, got)
			}
		})
	}

	if score := TitleScore("Weather Forecasting App", "Old CRM Tool"); score >= 0.5 {
		t.Errorf("Expected unrelated titles below 0.5, got %f", score)
	}
}

func TestTitleScoreWordCoverage(t *testing.T) {
	// every query word is present, in a different order
	score := TitleScore("Tool CRM", "CRM Migration Tool")
	if score < CoverageWeight {
		t.Errorf("Expected at least %f, got %f", CoverageWeight, score)
	}
}

func TestFindBlock(t *testing.T) {
	blocks := []latex.Block{
		titled(0, "Chatbot"),
		titled(5, "Old CRM Tool"),
		{Start: 9, End: 12},
	}

	m, ok := FindBlock("Chatbot", blocks, 0.75)
	if !ok {
		t.Fatal("Expected Chatbot to match")
	}

	if m.Block.Start != 0 || math.Abs(m.Score-1.0) > 1e-9 {
		t.Errorf("Expected exact match on block 0, got start %d score %f", m.Block.Start, m.Score)
	}

	m, ok = FindBlock("old crm", blocks, 0.75)
	if !ok || m.Block.Start != 5 {
		t.Errorf("Expected old crm to match block 5, got ok=%v start %d", ok, m.Block.Start)
	}

	if _, ok = FindBlock("Weather Forecasting App", blocks, 0.75); ok {
		t.Error("Expected no match for an unrelated title")
	}
}

func TestFindBlockAbbreviation(t *testing.T) {
	blocks := []latex.Block{titled(0, "Machine Learning Pipeline")}

	if _, ok := FindBlock("ML Pipeline", blocks, 0.75); ok {
		t.Error("Expected the abbreviated title to miss the fuzzy threshold")
	}

	m, ok := FindBlock("ML Pipeline", blocks, 0.6)
	if !ok || m.Block.Start != 0 {
		t.Errorf("Expected a match at a lower threshold, got ok=%v", ok)
	}
}

func TestFindBlockSkipsUntitled(t *testing.T) {
	blocks := []latex.Block{{Start: 0, End: 3}}

	if _, ok := FindBlock(latex.UnknownTitle, blocks, 0); ok {
		t.Error("Expected untitled blocks to be skipped")
	}
}

func TestFindBlockTieKeepsFirst(t *testing.T) {
	blocks := []latex.Block{titled(0, "Portfolio Site"), titled(4, "Portfolio Site")}

	m, ok := FindBlock("Portfolio Site", blocks, 0.75)
	if !ok {
		t.Fatal("Expected a match")
	}

	if m.Block.Start != 0 {
		t.Errorf("Expected the first block on a tie, got start %d", m.Block.Start)
	}
}

func TestFindBlockEmptyInputs(t *testing.T) {
	if _, ok := FindBlock("Chatbot", nil, 0.5); ok {
		t.Error("Expected no match without blocks")
	}

	if _, ok := FindBlock("", []latex.Block{titled(0, "Chatbot")}, 0); ok {
		t.Error("Expected no match for an empty query")
	}
}
