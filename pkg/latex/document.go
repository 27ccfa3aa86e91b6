// Package latex locates and toggles project blocks in a LaTeX resume held as a slice of lines.
//
// The line slice is the only representation of the document. Every operation in this package
// and in the packages that edit the resume keeps len(lines) unchanged, so Block ranges captured
// by Scan stay valid across toggles and rewrites within one run. Any edit that inserts or removes
// lines invalidates all previously scanned blocks; re-scan instead of patching ranges.
package latex

import (
	"os"
	"strings"

	"github.com/pkg/errors"
)

// CommentMarker starts a LaTeX comment.
const CommentMarker = "%"

// ReadLines loads a LaTeX file as lines.
func ReadLines(path string) (lines []string, err error) {
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("template file not found: %s", path)
			return lines, err
		}
		err = errors.Wrapf(err, "failed to read template file: %s", path)
		return lines, err
	}

	lines = SplitLines(string(data))

	return lines, err
}

// SplitLines splits text into lines. CRLF endings are normalized and a single trailing
// newline does not produce an empty final line.
func SplitLines(text string) (lines []string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		lines = []string{}
		return lines
	}
	lines = strings.Split(text, "\n")
	return lines
}

// JoinLines is the inverse of SplitLines and terminates the document with a newline.
func JoinLines(lines []string) (text string) {
	if len(lines) == 0 {
		return text
	}
	text = strings.Join(lines, "\n") + "\n"
	return text
}

// IsCommented reports whether the line starts with a comment marker after its indentation.
func IsCommented(line string) (commented bool) {
	commented = strings.HasPrefix(strings.TrimLeft(line, " \t"), CommentMarker)
	return commented
}

// splitIndent separates the leading whitespace of a line from the rest.
func splitIndent(line string) (indent, rest string) {
	rest = strings.TrimLeft(line, " \t")
	indent = line[:len(line)-len(rest)]
	return indent, rest
}
