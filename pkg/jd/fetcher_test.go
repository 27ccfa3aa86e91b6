package jd

import (
	"archive/zip"
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadText(t *testing.T) {
	content, err := Load(context.Background(), Source{Text: "  Senior Go engineer \n", Path: "/ignored.txt"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if content != "Senior Go engineer" {
		t.Errorf("Expected trimmed text, got '%s'", content)
	}
}

func TestLoadNothing(t *testing.T) {
	_, err := Load(context.Background(), Source{Text: "   "})
	if err == nil {
		t.Error("Expected error for empty source, got nil")
	}
}

func TestFetchFromFile(t *testing.T) {
	// Create a test file.
	tmpDir := t.TempDir()
	testFile := filepath.Join(tmpDir, "test.txt")
	testContent := "This is a test job description."

	err := os.WriteFile(testFile, []byte(testContent+"\n"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Test fetching.
	content, err := fetchFromFile(testFile)
	if err != nil {
		t.Fatalf("Failed to fetch from file: %v", err)
	}

	if content != testContent {
		t.Errorf("Expected content '%s', got '%s'", testContent, content)
	}
}

func TestFetchFromFileNonexistent(t *testing.T) {
	_, err := fetchFromFile("/nonexistent/file.txt")
	if err == nil {
		t.Error("Expected error fetching nonexistent file, got nil")
	}
}

func TestFetchFromFileEmpty(t *testing.T) {
	tmpDir := t.TempDir()
	emptyFile := filepath.Join(tmpDir, "empty.txt")

	err := os.WriteFile(emptyFile, []byte("  \n"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err = fetchFromFile(emptyFile)
	if err == nil {
		t.Error("Expected error fetching empty file, got nil")
	}
}

func writeDocx(t *testing.T, path string, documentXML string) {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("Failed to create zip entry: %v", err)
	}
	_, err = w.Write([]byte(documentXML))
	if err != nil {
		t.Fatalf("Failed to write zip entry: %v", err)
	}

	err = zw.Close()
	if err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}

	err = os.WriteFile(path, buf.Bytes(), 0600)
	if err != nil {
		t.Fatalf("Failed to write docx: %v", err)
	}
}

func TestFetchFromFileDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.docx")
	writeDocx(t, path, `<w:document><w:body>`+
		`<w:p><w:r><w:t>Backend Engineer</w:t></w:r></w:p>`+
		`<w:p><w:r><w:t>Go,</w:t><w:tab/><w:t>Kubernetes</w:t></w:r></w:p>`+
		`</w:body></w:document>`)

	content, err := fetchFromFile(path)
	if err != nil {
		t.Fatalf("Failed to fetch docx: %v", err)
	}

	expected := "Backend Engineer\nGo, Kubernetes"
	if content != expected {
		t.Errorf("Expected '%s', got '%s'", expected, content)
	}
}

func TestFetchFromFileDocxWithoutDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, _ = zw.Create("word/styles.xml")
	_ = zw.Close()

	path := filepath.Join(t.TempDir(), "broken.docx")
	err := os.WriteFile(path, buf.Bytes(), 0600)
	if err != nil {
		t.Fatalf("Failed to write docx: %v", err)
	}

	_, err = fetchFromFile(path)
	if err == nil || !strings.Contains(err.Error(), "word/document.xml") {
		t.Errorf("Expected missing document error, got %v", err)
	}
}

func TestFetchFromFileInvalidPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posting.pdf")
	err := os.WriteFile(path, []byte("not a pdf"), 0600)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	_, err = fetchFromFile(path)
	if err == nil {
		t.Error("Expected error for invalid PDF, got nil")
	}
}

func TestFetchFromURL(t *testing.T) {
	// Create a test server.
	testContent := `<html><head><style>.x{color:red}</style><script>var a = 1;</script></head>
<body><nav>Home | Jobs</nav><h1>Job Title</h1><p>Job   description here.</p><ul><li>Go</li></ul></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") != "resume-tailor/1.0" {
			t.Errorf("Unexpected user agent: %s", r.Header.Get("User-Agent"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(testContent))
	}))
	defer server.Close()

	ctx := context.Background()
	content, err := fetchFromURL(ctx, server.URL)
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}

	expected := "Job Title\nJob description here.\nGo"
	if content != expected {
		t.Errorf("Expected '%s', got '%s'", expected, content)
	}
}

func TestFetchFromURLPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>Test <b>content</b></body></html>"))
	}))
	defer server.Close()

	content, err := Load(context.Background(), Source{Path: server.URL})
	if err != nil {
		t.Fatalf("Failed to fetch from URL: %v", err)
	}

	if content != "Test content" {
		t.Errorf("Expected 'Test content', got '%s'", content)
	}
}

func TestFetchFromURL404(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := Load(context.Background(), Source{Path: server.URL})
	if err == nil {
		t.Fatal("Expected error for 404 response, got nil")
	}

	if !strings.Contains(err.Error(), "status: 404") {
		t.Errorf("Expected status in error, got %v", err)
	}
}

func TestFetchFromURLTimeout(t *testing.T) {
	// Create a server that takes too long.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
		_, _ = w.Write([]byte("too slow"))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := fetchFromURL(ctx, server.URL)
	if err == nil {
		t.Error("Expected timeout error, got nil")
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "blank runs", input: "a  \t b", expected: "a b"},
		{name: "newline runs", input: "a\n\n  \n b", expected: "a\nb"},
		{name: "non-breaking space", input: "a\u00a0b", expected: "a b"},
		{name: "trim", input: "  a  ", expected: "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizeWhitespace(tt.input)
			if result != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, result)
			}
		})
	}
}
