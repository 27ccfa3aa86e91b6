package renderer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
)

// Artifact file names inside an output directory.
const (
	ResumeFile         = "resume.tex"
	JobDescriptionFile = "job_description.txt"
	ProjectsFile       = "pass1_projects.json"
	RewritesFile       = "pass2_rewrites.json"
	SummaryFile        = "summary.json"
)

//nolint:gochecknoglobals // Read-only suffix table
var companySuffixes = []string{
	" LLC", " llc",
	" Inc.", " inc.",
	" Inc", " inc",
	" Corporation", " corporation",
	" Corp.", " corp.",
	" Corp", " corp",
	" Limited", " limited",
	" Ltd.", " ltd.",
	" Ltd", " ltd",
	" Co.", " co.",
	" Co", " co",
	", LLC", ", llc",
	", Inc.", ", inc.",
	", Inc", ", inc",
}

// Slug lowercases name and replaces every run of characters other than a-z and 0-9 with a single
// hyphen.
func Slug(name string) (slug string) {
	slug = strings.Map(func(r rune) (result rune) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			result = r
			return result
		}
		result = '-'
		return result
	}, strings.ToLower(name))

	// Remove consecutive hyphens
	for strings.Contains(slug, "--") {
		slug = strings.ReplaceAll(slug, "--", "-")
	}

	slug = strings.Trim(slug, "-")
	return slug
}

// CompanySlug is Slug with common company suffixes such as "Inc." and "LLC" removed first.
func CompanySlug(company string) (slug string) {
	trimmed := strings.TrimSpace(company)
	for _, suffix := range companySuffixes {
		trimmed = strings.TrimSuffix(trimmed, suffix)
	}
	slug = Slug(trimmed)
	return slug
}

// OutputDir creates and returns base/<company>/<role>. Empty slugs become "unknown".
func OutputDir(base, company, role string) (dir string, err error) {
	companyDir := CompanySlug(company)
	if companyDir == "" {
		companyDir = "unknown"
	}
	roleDir := Slug(role)
	if roleDir == "" {
		roleDir = "unknown"
	}

	dir = filepath.Join(base, companyDir, roleDir)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", dir)
		return dir, err
	}

	return dir, err
}

// WriteLines writes a document, one element per line.
func WriteLines(path string, lines []string) (err error) {
	err = WriteText(path, latex.JoinLines(lines))
	return err
}

// WriteText writes content to path, creating the parent directory.
func WriteText(path, content string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(path)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create output directory: %s", outputDir)
		return err
	}

	err = os.WriteFile(path, []byte(content), 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write file: %s", path)
		return err
	}

	return err
}

// WriteJSON writes v as indented JSON.
func WriteJSON(path string, v interface{}) (err error) {
	var data []byte
	data, err = json.MarshalIndent(v, "", "  ")
	if err != nil {
		err = errors.Wrapf(err, "failed to encode %s", filepath.Base(path))
		return err
	}

	err = WriteText(path, string(data)+"\n")
	return err
}

// WriteRawJSON writes an AI response. Valid JSON is pretty-printed, anything else is kept as is.
func WriteRawJSON(path, raw string) (err error) {
	content := raw
	if gjson.Valid(raw) {
		content = string(pretty.Pretty([]byte(raw)))
	}

	err = WriteText(path, content)
	return err
}
