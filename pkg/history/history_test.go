package history

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MayankD409/Resume-Personalizer/pkg/renderer"
	"github.com/MayankD409/Resume-Personalizer/pkg/scorer"
)

func writeRun(t *testing.T, base string, run Run) {
	t.Helper()

	dir, err := renderer.OutputDir(base, run.Company, run.Role)
	if err != nil {
		t.Fatalf("Failed to create run directory: %v", err)
	}

	err = renderer.WriteJSON(filepath.Join(dir, renderer.SummaryFile), run)
	if err != nil {
		t.Fatalf("Failed to write run summary: %v", err)
	}
}

func testRuns(t *testing.T) (base string) {
	t.Helper()
	base = t.TempDir()

	day := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	writeRun(t, base, Run{
		Company:    "Acme Corp",
		Role:       "Backend Engineer",
		TailoredAt: day,
		Before:     scorer.Analysis{MatchPercentage: 40},
		After:      scorer.Analysis{MatchPercentage: 55, Missing: []string{"kafka", "terraform"}},
	})
	writeRun(t, base, Run{
		Company:    "Globex",
		Role:       "Backend Engineer II",
		TailoredAt: day.AddDate(0, 0, 3),
		After:      scorer.Analysis{MatchPercentage: 61, Missing: []string{"kafka", "kafka", "grpc"}},
	})
	writeRun(t, base, Run{
		Company:    "Initech",
		Role:       "Senior Data Scientist",
		TailoredAt: day.AddDate(0, 0, 5),
		After:      scorer.Analysis{Missing: []string{"terraform"}},
	})

	return base
}

func TestNewIndexer(t *testing.T) {
	_, err := NewIndexer("")
	if err == nil {
		t.Error("Expected error for empty output path, got nil")
	}
}

func TestIndex(t *testing.T) {
	base := testRuns(t)

	// Unreadable summaries are skipped
	err := os.WriteFile(filepath.Join(base, renderer.SummaryFile), []byte("{broken"), 0600)
	if err != nil {
		t.Fatalf("Failed to write broken summary: %v", err)
	}

	indexer, err := NewIndexer(base)
	if err != nil {
		t.Fatalf("NewIndexer failed: %v", err)
	}

	count, err := indexer.Index(context.Background())
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	if count != 3 {
		t.Errorf("Expected 3 indexed runs, got %d", count)
	}

	index, err := indexer.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	if len(index.Runs) != 3 || index.Version != IndexVersion {
		t.Fatalf("Unexpected index: %+v", index)
	}

	for _, run := range index.Runs {
		if run.Company == "Acme Corp" {
			if run.MatchBefore != 40 || run.MatchAfter != 55 || run.RoleLevel != "IC" {
				t.Errorf("Unexpected indexed run: %+v", run)
			}
			if !strings.HasSuffix(run.Path, filepath.Join("acme", "backend-engineer", renderer.SummaryFile)) {
				t.Errorf("Unexpected path %s", run.Path)
			}
		}
	}
}

func TestIndexMissingOutputDir(t *testing.T) {
	indexer, _ := NewIndexer(filepath.Join(t.TempDir(), "missing"))

	count, err := indexer.Index(context.Background())
	if err != nil || count != 0 {
		t.Errorf("Expected empty index without error, got %d and %v", count, err)
	}
}

func TestLoadIndexMissing(t *testing.T) {
	indexer, _ := NewIndexer(t.TempDir())

	index, err := indexer.LoadIndex()
	if err != nil {
		t.Fatalf("LoadIndex failed: %v", err)
	}

	if len(index.Runs) != 0 {
		t.Errorf("Expected empty index, got %d runs", len(index.Runs))
	}
}

func TestSimilar(t *testing.T) {
	indexer, _ := NewIndexer(testRuns(t))
	_, err := indexer.Index(context.Background())
	if err != nil {
		t.Fatalf("Index failed: %v", err)
	}

	runs, err := NewRetriever(indexer).Similar(context.Background(), "ACME Corp.", "Backend Engineer")
	if err != nil {
		t.Fatalf("Similar failed: %v", err)
	}

	if len(runs) != 2 {
		t.Fatalf("Expected 2 similar runs, got %d: %+v", len(runs), runs)
	}

	if runs[0].Company != "Acme Corp" || runs[1].Company != "Globex" {
		t.Errorf("Expected Acme then Globex, got %s then %s", runs[0].Company, runs[1].Company)
	}
}

func TestRoleLevel(t *testing.T) {
	tests := map[string]string{
		"Chief Technology Officer":    "CTO",
		"VP of Engineering":           "VP",
		"Director, Platform":          "Director",
		"Staff Software Engineer":     "Staff IC",
		"Sr. Backend Engineer":        "Senior IC",
		"Site Reliability Engineer":   "IC",
		"SRE":                         "IC",
		"Software Engineering Intern": "Junior",
	}

	for role, expected := range tests {
		if level := RoleLevel(role); level != expected {
			t.Errorf("RoleLevel(%q): expected %s, got %s", role, expected, level)
		}
	}
}

func TestRecurringGaps(t *testing.T) {
	runs := []IndexedRun{
		{Missing: []string{"kafka", "terraform", "kafka"}},
		{Missing: []string{"kafka", "grpc"}},
		{Missing: []string{"terraform", "grpc"}},
		{Missing: []string{"kafka"}},
	}

	gaps := RecurringGaps(runs, 2)

	expected := []Gap{{"kafka", 3}, {"grpc", 2}, {"terraform", 2}}
	if len(gaps) != len(expected) {
		t.Fatalf("Expected %d gaps, got %+v", len(expected), gaps)
	}
	for i := range expected {
		if gaps[i] != expected[i] {
			t.Errorf("Gap %d: expected %+v, got %+v", i, expected[i], gaps[i])
		}
	}
}

func TestFormat(t *testing.T) {
	if Format(nil, nil) != "No similar past runs found." {
		t.Errorf("Unexpected empty format: %q", Format(nil, nil))
	}

	runs := []IndexedRun{{
		Company:     "Acme",
		Role:        "Backend Engineer",
		TailoredAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		MatchBefore: 40,
		MatchAfter:  55.5,
	}}
	text := Format(runs, []Gap{{Keyword: "kafka", Count: 2}})

	for _, want := range []string{
		"Tailored for 1 similar application(s) before:",
		"- Backend Engineer at Acme (2026-03-01): 40.0% -> 55.5%",
		"- kafka (missing 2 times)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected output to contain %q, got:\n%s", want, text)
		}
	}
}
