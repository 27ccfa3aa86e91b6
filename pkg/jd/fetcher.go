package jd

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	pdf "github.com/ledongthuc/pdf"
	"github.com/pkg/errors"
)

const (
	// FetchTimeout bounds a single URL fetch.
	FetchTimeout  = 30 * time.Second
	docxParagraph = "</w:p>"
)

//nolint:gochecknoglobals // Compiled once
var (
	xmlTagRE     = regexp.MustCompile(`<[^>]+>`)
	blankRunRE   = regexp.MustCompile(`[ \t\r\f\v\x{00A0}]+`)
	newlineRunRE = regexp.MustCompile(`\s*\n\s*`)
)

// Source names where a job description comes from. Text wins over Path when both are set.
// Path may be a local file or an http(s) URL.
type Source struct {
	Text string
	Path string
}

// Load returns the job description text for src.
func Load(ctx context.Context, src Source) (content string, err error) {
	if text := strings.TrimSpace(src.Text); text != "" {
		content = text
		return content, err
	}

	if src.Path == "" {
		err = errors.New("no job description given")
		return content, err
	}

	// Check if input is a URL
	parsedURL, urlErr := url.Parse(src.Path)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		content, err = fetchFromURL(ctx, src.Path)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch JD from URL: %s", src.Path)
			return content, err
		}
		return content, err
	}

	content, err = fetchFromFile(src.Path)
	if err != nil {
		err = errors.Wrapf(err, "failed to fetch JD from file: %s", src.Path)
		return content, err
	}

	return content, err
}

// fetchFromFile reads a job description from disk. PDF and Word files are converted to text,
// anything else is read as UTF-8.
func fetchFromFile(path string) (content string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return content, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		content, err = pdfText(data)
	case ".docx":
		content, err = docxText(data)
	default:
		content = strings.TrimSpace(string(data))
	}
	if err != nil {
		return content, err
	}

	if content == "" {
		err = errors.New("file is empty")
		return content, err
	}

	return content, err
}

// fetchFromURL retrieves a job posting and reduces its HTML to text.
func fetchFromURL(ctx context.Context, urlStr string) (content string, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return content, err
	}

	// Set a reasonable user agent
	req.Header.Set("User-Agent", "resume-tailor/1.0")

	client := &http.Client{
		Timeout: FetchTimeout,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return content, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return content, err
	}

	content, err = htmlText(resp.Body)
	if err != nil {
		return content, err
	}

	if content == "" {
		err = errors.New("fetched content is empty after processing")
		return content, err
	}

	return content, err
}

// htmlText extracts the visible text of an HTML page. Scripts, styles and page chrome are removed.
func htmlText(r io.Reader) (text string, err error) {
	var doc *goquery.Document
	doc, err = goquery.NewDocumentFromReader(r)
	if err != nil {
		err = errors.Wrap(err, "failed to parse HTML")
		return text, err
	}

	doc.Find("script, style, noscript, iframe, nav, header, footer").Remove()

	blocks := make([]string, 0)
	doc.Find("h1, h2, h3, h4, h5, h6, p, li").Each(func(_ int, s *goquery.Selection) {
		if t := strings.TrimSpace(s.Text()); t != "" {
			blocks = append(blocks, t)
		}
	})
	if len(blocks) > 0 {
		text = normalizeWhitespace(strings.Join(blocks, "\n"))
		return text, err
	}

	text = normalizeWhitespace(doc.Text())
	return text, err
}

// pdfText extracts the plain text of a PDF.
func pdfText(data []byte) (text string, err error) {
	var r *pdf.Reader
	r, err = pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		err = errors.Wrap(err, "failed to open PDF")
		return text, err
	}

	var plain io.Reader
	plain, err = r.GetPlainText()
	if err != nil {
		err = errors.Wrap(err, "failed to extract PDF text")
		return text, err
	}

	var buf bytes.Buffer
	_, err = io.Copy(&buf, plain)
	if err != nil {
		err = errors.Wrap(err, "failed to read PDF text")
		return text, err
	}

	text = normalizeWhitespace(buf.String())
	return text, err
}

// docxText extracts paragraph text from word/document.xml inside a .docx archive.
func docxText(data []byte) (text string, err error) {
	var zr *zip.Reader
	zr, err = zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		err = errors.Wrap(err, "failed to open docx archive")
		return text, err
	}

	var docXML []byte
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		docXML, err = readZipFile(f)
		if err != nil {
			return text, err
		}
		break
	}
	if len(docXML) == 0 {
		err = errors.New("no word/document.xml found in docx")
		return text, err
	}

	xml := strings.ReplaceAll(string(docXML), docxParagraph, "\n")
	xml = strings.ReplaceAll(xml, "<w:tab/>", "\t")
	text = normalizeWhitespace(xmlTagRE.ReplaceAllString(xml, ""))

	return text, err
}

func readZipFile(f *zip.File) (data []byte, err error) {
	var rc io.ReadCloser
	rc, err = f.Open()
	if err != nil {
		err = errors.Wrapf(err, "failed to open %s", f.Name)
		return data, err
	}
	defer rc.Close()

	data, err = io.ReadAll(rc)
	if err != nil {
		err = errors.Wrapf(err, "failed to read %s", f.Name)
		return data, err
	}

	return data, err
}

// normalizeWhitespace collapses blank runs to one space and newline runs to one newline.
func normalizeWhitespace(s string) (out string) {
	out = blankRunRE.ReplaceAllString(s, " ")
	out = newlineRunRE.ReplaceAllString(out, "\n")
	out = strings.TrimSpace(out)
	return out
}
