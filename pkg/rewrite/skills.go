package rewrite

import (
	"regexp"
	"strings"
)

// skillsPatterns identify the skills line, most specific first.
//
//nolint:gochecknoglobals // Compiled once
var skillsPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\\textbf\{Languages:`),
	regexp.MustCompile(`\\textbf\{Skills:`),
	regexp.MustCompile(`\\textbf\{Technical Skills:`),
	regexp.MustCompile(`(?i)Languages:`),
	regexp.MustCompile(`(?i)Technical Skills:`),
}

// FindSkills returns the index of the first line matching any skills marker.
func FindSkills(lines []string) (index int, ok bool) {
	for i, line := range lines {
		for _, p := range skillsPatterns {
			if p.MatchString(line) {
				index = i
				ok = true
				return index, ok
			}
		}
	}
	index = -1
	return index, ok
}

// ReplaceSkills replaces the skills line with content, keeping its indentation. It returns false
// when no line carries a skills marker.
func ReplaceSkills(lines []string, content string) (replaced bool) {
	i, ok := FindSkills(lines)
	if !ok {
		return replaced
	}

	lines[i] = leadingSpace(lines[i]) + strings.TrimSpace(content)
	replaced = true

	return replaced
}
