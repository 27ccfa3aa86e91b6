package review

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of unchanged lines shown around each change.
const DefaultContext = 3

// Op marks a line of a line diff.
type Op byte

const (
	OpEqual  Op = ' '
	OpDelete Op = '-'
	OpInsert Op = '+'
	// OpSkip stands for a run of unchanged lines left out of the output.
	OpSkip Op = '~'
)

// DiffLine is one line of a line diff.
type DiffLine struct {
	Op   Op
	Text string
}

//nolint:gochecknoglobals // Shared color printers
var (
	deleteColor = color.New(color.FgRed)
	insertColor = color.New(color.FgGreen)
	skipColor   = color.New(color.FgCyan)
)

// diffTokens diffs two token sequences by mapping each token to one rune, the way line diffs are
// computed by diffmatchpatch.
func diffTokens(a, b []string) (diffs []diffmatchpatch.Diff) {
	dmp := diffmatchpatch.New()
	chars1, chars2, tokens := dmp.DiffLinesToChars(joinTokens(a), joinTokens(b))
	diffs = dmp.DiffMain(chars1, chars2, false)
	diffs = dmp.DiffCharsToLines(diffs, tokens)
	return diffs
}

func joinTokens(tokens []string) (text string) {
	if len(tokens) == 0 {
		return text
	}
	text = strings.Join(tokens, "\n") + "\n"
	return text
}

func splitTokens(text string) (tokens []string) {
	tokens = strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	return tokens
}

// WordDiff renders old and new with removed words in red and added words in green.
func WordDiff(oldText, newText string) (oldColored, newColored string) {
	var oldParts, newParts []string

	for _, d := range diffTokens(strings.Fields(oldText), strings.Fields(newText)) {
		words := splitTokens(d.Text)
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			oldParts = append(oldParts, words...)
			newParts = append(newParts, words...)
		case diffmatchpatch.DiffDelete:
			for _, w := range words {
				oldParts = append(oldParts, deleteColor.Sprint(w))
			}
		case diffmatchpatch.DiffInsert:
			for _, w := range words {
				newParts = append(newParts, insertColor.Sprint(w))
			}
		}
	}

	oldColored = strings.Join(oldParts, " ")
	newColored = strings.Join(newParts, " ")
	return oldColored, newColored
}

// LineDiff compares two documents line by line. Unchanged runs longer than 2*context lines are
// shortened to context lines on each side of a change with an OpSkip marker between them.
func LineDiff(before, after []string, context int) (out []DiffLine) {
	all := make([]DiffLine, 0, len(before))
	for _, d := range diffTokens(before, after) {
		op := OpEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		}
		for _, line := range splitTokens(d.Text) {
			all = append(all, DiffLine{Op: op, Text: line})
		}
	}

	changed := false
	for _, l := range all {
		if l.Op != OpEqual {
			changed = true
			break
		}
	}
	if !changed {
		return out
	}

	out = make([]DiffLine, 0, len(all))
	for i := 0; i < len(all); {
		if all[i].Op != OpEqual {
			out = append(out, all[i])
			i++
			continue
		}

		j := i
		for j < len(all) && all[j].Op == OpEqual {
			j++
		}

		head := context
		if i == 0 {
			head = 0
		}
		tail := context
		if j == len(all) {
			tail = 0
		}

		if j-i <= head+tail {
			out = append(out, all[i:j]...)
			i = j
			continue
		}

		out = append(out, all[i:i+head]...)
		out = append(out, DiffLine{Op: OpSkip})
		out = append(out, all[j-tail:j]...)
		i = j
	}

	return out
}

// Render formats a line diff, coloring removed and added lines.
func Render(lines []DiffLine) (text string) {
	var b strings.Builder
	for _, l := range lines {
		switch l.Op {
		case OpDelete:
			b.WriteString(deleteColor.Sprint("- " + l.Text))
		case OpInsert:
			b.WriteString(insertColor.Sprint("+ " + l.Text))
		case OpSkip:
			b.WriteString(skipColor.Sprint("@@"))
		default:
			b.WriteString("  " + l.Text)
		}
		b.WriteString("\n")
	}
	text = b.String()
	return text
}
