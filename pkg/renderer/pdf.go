package renderer

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// CompilePDF runs pdflatex on texPath and returns the path of the PDF it produced. includeDir,
// when set, is added to TEXINPUTS so class and style files next to the original template are found.
func CompilePDF(ctx context.Context, texPath, includeDir string) (pdfPath string, err error) {
	// Validate pdflatex exists
	err = checkPDFLatexExists()
	if err != nil {
		return pdfPath, err
	}

	err = validateFiles(texPath)
	if err != nil {
		return pdfPath, err
	}

	outDir := filepath.Dir(texPath)
	cmd := exec.CommandContext(ctx,
		"pdflatex",
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", outDir,
		texPath,
	)

	if includeDir != "" {
		// The trailing separator keeps the default search path
		texinputs := includeDir + string(os.PathListSeparator) + os.Getenv("TEXINPUTS")
		cmd.Env = append(os.Environ(), "TEXINPUTS="+texinputs)
	}

	// Capture output
	var output []byte
	output, err = cmd.CombinedOutput()
	if err != nil {
		err = errors.Wrapf(err, "pdflatex failed: %s", lastLines(string(output), 20))
		return pdfPath, err
	}

	pdfPath = strings.TrimSuffix(texPath, filepath.Ext(texPath)) + ".pdf"
	return pdfPath, err
}

// checkPDFLatexExists verifies pdflatex is installed.
func checkPDFLatexExists() (err error) {
	_, err = exec.LookPath("pdflatex")
	if err != nil {
		err = errors.New("pdflatex not found in PATH (install a TeX distribution to generate PDFs)")
		return err
	}
	return err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// lastLines keeps the tail of a pdflatex log, where the error is.
func lastLines(text string, n int) (tail string) {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	tail = strings.Join(lines, "\n")
	return tail
}
