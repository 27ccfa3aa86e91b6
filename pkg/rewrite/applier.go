// Package rewrite applies AI-proposed bullet rewrites and the skills line onto resume lines.
//
// Edits replace one line at a time and never change len(lines), so blocks scanned before a
// rewrite keep their ranges. A rewrite never changes the brace balance of the line it edits.
package rewrite

import (
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/matching"
	"github.com/MayankD409/Resume-Personalizer/pkg/similarity"
)

const (
	// MinLineScore is the line-match score a rewrite needs before it is applied.
	MinLineScore = 0.8
	// WindowScore is the similarity a word window needs to anchor a fuzzy replacement.
	WindowScore = 0.6
)

//nolint:gochecknoglobals // Compiled once
var (
	prefixRE  = regexp.MustCompile(`^\s*(\\[a-zA-Z]+(?:\[[^\]]*\])?(?:\{[^}]*\})?\s*)`)
	wrapperRE = regexp.MustCompile(`^\\[a-zA-Z]+(?:\[[^\]]*\])?\{`)
)

// Pair is one proposed rewrite. Both fields come from the AI and are untrusted.
type Pair struct {
	Old string `json:"old"`
	New string `json:"new"`
}

// Valid reports whether both sides have content.
func (p Pair) Valid() (ok bool) {
	ok = strings.TrimSpace(p.Old) != "" && strings.TrimSpace(p.New) != ""
	return ok
}

// ApplyAll applies every pair in order and returns how many were applied.
func ApplyAll(lines []string, pairs []Pair) (applied int) {
	for _, p := range pairs {
		if Apply(lines, p.Old, p.New) {
			applied++
		}
	}
	return applied
}

// Apply finds the line best matching oldText and rewrites it with newText. It returns false
// when either text is blank, no line scores at least MinLineScore, or the rewrite would leave
// the line with a different brace balance.
func Apply(lines []string, oldText, newText string) (applied bool) {
	oldText = strings.TrimSpace(oldText)
	newText = strings.TrimSpace(newText)
	if oldText == "" || newText == "" {
		slog.Debug("Skipping rewrite with empty text")
		return applied
	}

	m, ok := matching.FindLine(lines, oldText)
	if !ok || m.Score < MinLineScore {
		slog.Debug("No confident line match for rewrite", "old", oldText, "score", m.Score)
		return applied
	}

	updated := Replace(m.Line, oldText, newText)
	if braceBalance(updated) != braceBalance(m.Line) {
		slog.Warn("Rewrite would unbalance braces, skipping", "line", m.Index+1)
		return applied
	}

	lines[m.Index] = updated
	applied = true
	slog.Debug("Applied rewrite", "line", m.Index+1, "score", m.Score)

	return applied
}

// Replace rewrites line so that oldText becomes newText, keeping the indentation and any leading
// LaTeX command. A literal occurrence of oldText is replaced everywhere on the line. Otherwise
// the new words are spliced in at the first word window resembling oldText, and when no window
// does, the line's content is replaced wholesale. On a line that is one wrapping command such
// as \resumeItem{...}, the work happens inside the argument and the command is kept. A commented
// line keeps its comment marker.
func Replace(line, oldText, newText string) (out string) {
	newText = escapeSpecials(newText)

	indent, clean := splitPrefix(line)

	if strings.Contains(clean, oldText) {
		replaced := strings.ReplaceAll(clean, oldText, newText)
		if braceBalance(replaced) == braceBalance(clean) {
			out = indent + replaced
			return out
		}
	}

	if head, body, ok := splitWrapper(clean); ok {
		if inner, found := realign(body, oldText, newText); found && braceBalance(inner) == braceBalance(body) {
			out = indent + head + inner + "}"
			return out
		}
		if strings.HasPrefix(newText, `\`) {
			out = indent + newText
			return out
		}
		out = indent + head + matching.CollapseSpace(newText) + "}"
		return out
	}

	if replaced, found := realign(clean, oldText, newText); found && braceBalance(replaced) == braceBalance(clean) {
		out = indent + replaced
		return out
	}

	out = indent + fallback(clean, newText)

	return out
}

// fallback replaces everything after the leading command with newText.
func fallback(line, newText string) (content string) {
	if strings.HasPrefix(newText, `\`) {
		content = newText
		return content
	}
	m := prefixRE.FindStringSubmatch(line)
	if m == nil {
		content = matching.CollapseSpace(newText)
		return content
	}
	content = m[1] + matching.CollapseSpace(newText)
	return content
}

// realign looks for the first run of words in text resembling the start of oldText and replaces
// it, plus a few trailing words of slack, with the words of newText.
func realign(text, oldText, newText string) (out string, found bool) {
	cleanOld := matching.CollapseSpace(oldText)
	oldWords := strings.Fields(cleanOld)
	lineWords := strings.Fields(text)
	newWords := strings.Fields(newText)

	if len(oldWords) == 0 {
		return out, found
	}

	minWords := min(3, len(oldWords))
	windowWords := min(5, len(oldWords))

	start := -1
	for i := 0; i < len(lineWords)-minWords+1; i++ {
		window := strings.Join(lineWords[i:min(i+windowWords, len(lineWords))], " ")
		if similarity.Ratio(window, runePrefix(cleanOld, utf8.RuneCountInString(window))) > WindowScore {
			start = i
			break
		}
	}
	if start < 0 {
		return out, found
	}

	end := min(start+len(oldWords)+3, len(lineWords))

	words := make([]string, 0, start+len(newWords)+len(lineWords)-end)
	words = append(words, lineWords[:start]...)
	words = append(words, newWords...)
	words = append(words, lineWords[end:]...)

	out = strings.Join(words, " ")
	found = true

	return out, found
}

// splitWrapper splits `\cmd[opt]{body}` into `\cmd[opt]{` and body when the command's argument
// closes at the very end of the line.
func splitWrapper(clean string) (head, body string, ok bool) {
	loc := wrapperRE.FindStringIndex(clean)
	if loc == nil {
		return head, body, ok
	}

	depth := 1
	for i := loc[1]; i < len(clean); i++ {
		switch clean[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				if i != len(clean)-1 {
					return head, body, ok
				}
				head = clean[:loc[1]]
				body = clean[loc[1]:i]
				ok = true
				return head, body, ok
			}
		}
	}

	return head, body, ok
}

// braceBalance counts unescaped opening minus closing braces.
func braceBalance(s string) (balance int) {
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '{':
			balance++
		case r == '}':
			balance--
		}
	}
	return balance
}

// escapeSpecials escapes bare %, & and # so AI text cannot comment out or break the rest of the
// line.
func escapeSpecials(s string) (out string) {
	var b strings.Builder
	b.Grow(len(s))

	prev := rune(0)
	for _, r := range s {
		if (r == '%' || r == '&' || r == '#') && prev != '\\' {
			b.WriteRune('\\')
		}
		b.WriteRune(r)
		prev = r
	}

	out = b.String()
	return out
}

func leadingSpace(line string) (indent string) {
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	indent = line[:len(line)-len(rest)]
	return indent
}

// splitPrefix separates the leading whitespace, and the comment marker with the whitespace after
// it on a commented line, from the trimmed content.
func splitPrefix(line string) (prefix, clean string) {
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	if strings.HasPrefix(rest, latex.CommentMarker) {
		rest = strings.TrimLeftFunc(strings.TrimPrefix(rest, latex.CommentMarker), unicode.IsSpace)
	}
	prefix = line[:len(line)-len(rest)]
	clean = strings.TrimRightFunc(rest, unicode.IsSpace)
	return prefix, clean
}

// runePrefix returns the first n characters of s.
func runePrefix(s string, n int) (prefix string) {
	i := 0
	for pos := range s {
		if i == n {
			prefix = s[:pos]
			return prefix
		}
		i++
	}
	prefix = s
	return prefix
}
