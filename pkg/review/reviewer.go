package review

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/matching"
	"github.com/MayankD409/Resume-Personalizer/pkg/projects"
	"github.com/MayankD409/Resume-Personalizer/pkg/rewrite"
)

// MaxKeywords is how many recommended keywords ShowKeywords lists.
const MaxKeywords = 10

//nolint:gochecknoglobals // Shared color printers
var (
	headingColor = color.New(color.FgCyan, color.Bold)
	boldColor    = color.New(color.Bold)
	warnColor    = color.New(color.FgYellow)
)

// Reviewer asks the user to confirm proposed changes. It reads answers from in and writes
// prompts to out.
type Reviewer struct {
	in  *bufio.Reader
	out io.Writer
}

// NewReviewer creates a reviewer reading answers from in and writing prompts to out.
func NewReviewer(in io.Reader, out io.Writer) (r *Reviewer) {
	r = &Reviewer{
		in:  bufio.NewReader(in),
		out: out,
	}
	return r
}

// answer reads one trimmed, lowercased line. ok is false once input is exhausted.
func (r *Reviewer) answer() (text string, ok bool) {
	line, err := r.in.ReadString('\n')
	if err != nil && line == "" {
		return text, ok
	}
	text = strings.ToLower(strings.TrimSpace(line))
	ok = true
	return text, ok
}

// Confirm asks a yes/no question. An empty answer, or no input at all, picks def.
func (r *Reviewer) Confirm(question string, def bool) (yes bool) {
	hint := "[y/N]"
	if def {
		hint = "[Y/n]"
	}

	for {
		fmt.Fprintf(r.out, "%s %s: ", question, hint)
		text, ok := r.answer()
		if !ok {
			fmt.Fprintln(r.out)
			yes = def
			return yes
		}

		switch text {
		case "":
			yes = def
			return yes
		case "y", "yes":
			yes = true
			return yes
		case "n", "no":
			yes = false
			return yes
		}
		fmt.Fprintln(r.out, "Please answer y or n.")
	}
}

// ConfirmProjects shows the planned project toggles and asks whether to apply them.
func (r *Reviewer) ConfirmProjects(d projects.Decision) (apply bool) {
	headingColor.Fprintln(r.out, "\nProject Changes:")

	if d.Empty() {
		fmt.Fprintln(r.out, "  No project changes proposed")
		return apply
	}

	for _, b := range d.Activate {
		fmt.Fprintf(r.out, "  %s %s (lines %s)\n", insertColor.Sprint("+ include"), b.DisplayTitle(), blockRange(b))
	}
	for _, b := range d.Deactivate {
		fmt.Fprintf(r.out, "  %s %s (lines %s)\n", deleteColor.Sprint("- exclude"), b.DisplayTitle(), blockRange(b))
	}
	if d.Fallback != projects.FallbackNone {
		warnColor.Fprintf(r.out, "  ⚠ No project was selected; fallback used: %s\n", d.Fallback)
	}

	apply = r.Confirm("Apply these project changes?", true)
	return apply
}

// ReviewRewrites walks through the proposed bullet rewrites and returns the accepted ones. Each
// answer is y (accept), n (reject), a (accept this and all remaining) or q (reject this and all
// remaining). Running out of input counts as q.
func (r *Reviewer) ReviewRewrites(lines []string, pairs []rewrite.Pair) (accepted []rewrite.Pair) {
	accepted = make([]rewrite.Pair, 0, len(pairs))

	if len(pairs) == 0 {
		warnColor.Fprintln(r.out, "No bullet point changes to review")
		return accepted
	}

	headingColor.Fprintln(r.out, "\nBullet Point Rewrites:")

	for i, p := range pairs {
		if !p.Valid() {
			continue
		}

		r.showRewrite(i+1, lines, p)

		switch r.rewriteAnswer() {
		case "y":
			accepted = append(accepted, p)
		case "a":
			for _, rest := range pairs[i:] {
				if rest.Valid() {
					accepted = append(accepted, rest)
				}
			}
			return accepted
		case "q":
			return accepted
		}
	}

	return accepted
}

func (r *Reviewer) showRewrite(n int, lines []string, p rewrite.Pair) {
	oldColored, newColored := WordDiff(strings.TrimSpace(p.Old), strings.TrimSpace(p.New))

	boldColor.Fprintf(r.out, "%d. Original", n)
	if m, ok := matching.FindLine(lines, p.Old); ok && m.Score >= rewrite.MinLineScore {
		fmt.Fprintf(r.out, " (line %d, match %.2f)", m.Index+1, m.Score)
	} else {
		warnColor.Fprint(r.out, " (no confident match in the resume, will be skipped)")
	}
	fmt.Fprintf(r.out, ":\n   %s\n", oldColored)
	boldColor.Fprintln(r.out, "   Rewritten:")
	fmt.Fprintf(r.out, "   %s\n", newColored)
}

func (r *Reviewer) rewriteAnswer() (choice string) {
	for {
		fmt.Fprint(r.out, "Apply this change? [Y/n/a/q]: ")
		text, ok := r.answer()
		if !ok {
			fmt.Fprintln(r.out)
			choice = "q"
			return choice
		}

		switch text {
		case "", "y", "yes":
			choice = "y"
			return choice
		case "n", "no":
			choice = "n"
			return choice
		case "a", "all":
			choice = "a"
			return choice
		case "q", "quit":
			choice = "q"
			return choice
		}
		fmt.Fprintln(r.out, "Please answer y, n, a (all remaining) or q (quit).")
	}
}

// ConfirmSkills shows the current and proposed skills lines and asks whether to replace it.
func (r *Reviewer) ConfirmSkills(current, proposed string) (apply bool) {
	if strings.TrimSpace(proposed) == "" {
		return apply
	}

	headingColor.Fprintln(r.out, "\nTechnical Skills Replacement:")
	if current != "" {
		oldColored, newColored := WordDiff(strings.TrimSpace(current), strings.TrimSpace(proposed))
		fmt.Fprintf(r.out, "  Current:  %s\n  Proposed: %s\n", oldColored, newColored)
	} else {
		warnColor.Fprintln(r.out, "  No skills line found in the resume; the replacement will be skipped")
		fmt.Fprintf(r.out, "  Proposed: %s\n", insertColor.Sprint(strings.TrimSpace(proposed)))
	}

	apply = r.Confirm("Apply this skills replacement?", true)
	return apply
}

// ShowDiff prints a line diff of the document with DefaultContext lines of context. It reports
// whether anything changed.
func (r *Reviewer) ShowDiff(before, after []string) (changed bool) {
	diff := LineDiff(before, after, DefaultContext)
	if len(diff) == 0 {
		warnColor.Fprintln(r.out, "No changes detected")
		return changed
	}

	headingColor.Fprintln(r.out, "\nChanges to be Applied:")
	fmt.Fprint(r.out, Render(diff))
	changed = true
	return changed
}

// ShowKeywords lists up to MaxKeywords recommended keywords.
func (r *Reviewer) ShowKeywords(keywords []string) {
	if len(keywords) == 0 {
		return
	}

	headingColor.Fprintln(r.out, "\nKeyword Recommendations:")
	fmt.Fprintln(r.out, "Consider including these keywords in your resume:")
	for i, k := range keywords[:min(MaxKeywords, len(keywords))] {
		fmt.Fprintf(r.out, "%d. %s\n", i+1, warnColor.Sprint(k))
	}
}

// CurrentSkills returns the skills line the replacer would overwrite, or "" when there is none.
func CurrentSkills(lines []string) (line string) {
	if i, ok := rewrite.FindSkills(lines); ok {
		line = lines[i]
	}
	return line
}

// blockRange renders a block's lines 1-based and inclusive.
func blockRange(b latex.Block) (text string) {
	text = fmt.Sprintf("%d-%d", b.Start+1, b.End)
	return text
}
