package llm

import (
	"strings"
)

const (
	skillsLabel     = "Languages:"
	skillsBoldLabel = `\textbf{Languages:`
)

// RepairSkills fixes a skills line whose "Languages:" label is not bold. The label is wrapped in
// \textbf{...}, and when nothing after the label closes the group it is closed right after the
// label. Lines that already start with the bold label, or carry no label, are left alone.
func RepairSkills(skills string) (fixed string, applied bool) {
	original := strings.TrimSpace(skills)
	fixed = original

	if strings.HasPrefix(fixed, skillsBoldLabel) || !strings.Contains(fixed, skillsLabel) {
		return fixed, applied
	}

	fixed = strings.ReplaceAll(fixed, skillsBoldLabel, skillsLabel)
	fixed = strings.ReplaceAll(fixed, skillsLabel, skillsBoldLabel)

	idx := strings.Index(fixed, skillsBoldLabel) + len(skillsBoldLabel)
	if !strings.Contains(fixed[idx:], "}") {
		fixed = fixed[:idx] + "}" + fixed[idx:]
	}
	applied = fixed != original

	return fixed, applied
}

// FormatHint returns the expected response shape for a schema, for display after a
// ValidationError.
func FormatHint(schema string) (hint string) {
	if schema == SchemaProjects {
		hint = `The AI response for project selection was invalid. Expected format:
{
  "include_projects": ["Project Title 1", "Project Title 2"],
  "exclude_projects": ["Project Title 3"]
}`
		return hint
	}

	hint = `The AI response for rewriting was invalid. Expected format:
{
  "bullets": [
    {"old": "Original bullet text", "new": "Rewritten bullet text"},
    {"old": "Another bullet", "new": "Improved bullet"}
  ],
  "skills_block": "\\textbf{Languages:} Python, JavaScript, ..."
}`
	return hint
}
