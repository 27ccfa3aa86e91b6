package latex

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// UnknownTitle is shown for blocks whose heading carries no bold title.
const UnknownTitle = "<unknown>"

// ErrNoBlocks is returned by callers when a resume has no project blocks to tailor.
//
//nolint:gochecknoglobals // Sentinel error
var ErrNoBlocks = errors.New("no project blocks found in the Projects section (expected \\resumeProjectHeading entries)")

// Block is one project entry: the line range [Start, End) beginning at its heading.
type Block struct {
	Start    int      `json:"start"`
	End      int      `json:"end"`
	Active   bool     `json:"active"`
	Title    string   `json:"title,omitempty"`
	HasTitle bool     `json:"has_title"`
	Content  []string `json:"content,omitempty"`
}

// DisplayTitle returns the title, or UnknownTitle when none was found.
func (b Block) DisplayTitle() (title string) {
	if !b.HasTitle {
		title = UnknownTitle
		return title
	}
	title = b.Title
	return title
}

// Len returns the number of lines in the block.
func (b Block) Len() (n int) {
	n = b.End - b.Start
	return n
}

// Patterns configures which lines open the target section, open a block, and open any section.
type Patterns struct {
	Section    *regexp.Regexp
	Heading    *regexp.Regexp
	AnySection *regexp.Regexp
}

//nolint:gochecknoglobals // Compiled once
var (
	projectsSectionRE = regexp.MustCompile(`^\\section\{Projects\}`)
	projectHeadingRE  = regexp.MustCompile(`\\resumeProjectHeading`)
	anySectionRE      = regexp.MustCompile(`^\\section\{`)
	boldRE            = regexp.MustCompile(`\\textbf\{([^}]*)\}`)
)

// DefaultPatterns matches the Projects section of a Jake Gutierrez style resume.
func DefaultPatterns() (p Patterns) {
	p = Patterns{
		Section:    projectsSectionRE,
		Heading:    projectHeadingRE,
		AnySection: anySectionRE,
	}
	return p
}

type scanState int

const (
	outsideSection scanState = iota
	insideSection
)

// Scan returns the blocks of the target section in document order. An empty result means the
// section has no headings; callers treat that as ErrNoBlocks.
func Scan(lines []string, p Patterns) (blocks []Block) {
	blocks = make([]Block, 0)
	state := outsideSection
	n := len(lines)

	i := 0
	for i < n {
		line := lines[i]

		if p.Section.MatchString(line) {
			state = insideSection
		}

		if state == outsideSection {
			i++
			continue
		}

		if p.endsSection(line) {
			break
		}

		if !p.Heading.MatchString(line) {
			i++
			continue
		}

		block := Block{
			Start:  i,
			Active: !IsCommented(line),
		}
		block.Title, block.HasTitle = headingTitle(lines, i)

		end := i + 1
		for end < n && !p.Heading.MatchString(lines[end]) && !p.endsSection(lines[end]) {
			end++
		}
		block.End = end
		block.Content = ExtractItems(lines[block.Start:block.End])

		blocks = append(blocks, block)
		i = end
	}

	return blocks
}

// endsSection reports whether line opens a section other than the target one.
func (p Patterns) endsSection(line string) (ends bool) {
	ends = p.AnySection.MatchString(line) && !p.Section.MatchString(line)
	return ends
}

// headingTitle reads the bold title from the heading line or, failing that, the line after it.
func headingTitle(lines []string, i int) (title string, ok bool) {
	m := boldRE.FindStringSubmatch(lines[i])
	if m == nil && i+1 < len(lines) && strings.Contains(lines[i+1], `\textbf`) {
		m = boldRE.FindStringSubmatch(lines[i+1])
	}
	if m == nil {
		return title, ok
	}
	title = m[1]
	ok = true
	return title, ok
}
