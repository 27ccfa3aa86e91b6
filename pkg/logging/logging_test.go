package logging

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func TestHandleFormatsRecord(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewColoredHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("Fuzzy matched title", "query", "Chat Bot", "score", 0.82)

	line := buf.String()
	if !strings.HasSuffix(line, "\n") {
		t.Fatalf("Expected record to end with a newline, got %q", line)
	}

	for _, want := range []string{"INFO  Fuzzy matched title", ` query="Chat Bot"`, " score=0.82"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	h := NewColoredHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := slog.New(h)

	logger.Info("hidden")
	logger.Debug("hidden too")
	logger.Warn("shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("Expected records below warn to be dropped, got %q", buf.String())
	}

	if !strings.Contains(buf.String(), "WARN  shown") {
		t.Errorf("Expected warn record, got %q", buf.String())
	}

	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info to be disabled")
	}

	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Error("Expected error to be enabled")
	}
}

func TestDefaultLevelIsInfo(t *testing.T) {
	h := NewColoredHandler(&bytes.Buffer{}, nil)

	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug to be disabled by default")
	}

	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info to be enabled by default")
	}
}

func TestWithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewColoredHandler(&buf, nil))

	logger.With("pass", 2).WithGroup("rewrite").Info("Skipped bullet", "line", 14)

	line := buf.String()
	for _, want := range []string{" pass=2", " rewrite.line=14"} {
		if !strings.Contains(line, want) {
			t.Errorf("Expected %q in %q", want, line)
		}
	}
}

func TestGroupAttr(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewColoredHandler(&buf, nil))

	logger.Info("Decision", slog.Group("counts", "activate", 1, "deactivate", 2))

	want := " counts.activate=1 counts.deactivate=2"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("Expected %q in %q", want, buf.String())
	}
}

func TestSetup(t *testing.T) {
	previous := slog.Default()
	defer slog.SetDefault(previous)

	h := Setup(true)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("Expected debug enabled in verbose mode")
	}

	h = Setup(false)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("Expected info disabled in quiet mode")
	}

	if !h.Enabled(context.Background(), slog.LevelWarn) {
		t.Error("Expected warn enabled in quiet mode")
	}
}
