package llm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/scorer"
)

const (
	// TokenLimit is the default context window assumed for a provider.
	TokenLimit = 128000
	// SafetyRatio is the share of the window a prompt may use before the resume is compressed.
	SafetyRatio = 0.9
	// replyPadding reserves room for the JSON reply.
	replyPadding = 500
	// charsPerToken is a rough ratio for LaTeX-heavy text.
	charsPerToken = 3.7
)

//nolint:gochecknoglobals // Compiled once
var (
	commentLineRE = regexp.MustCompile(`^\s*%`)
	whitespaceRE  = regexp.MustCompile(`\s+`)
)

// ApproxTokens estimates the token count of text.
func ApproxTokens(text string) (tokens int) {
	tokens = int(float64(len(text))/charsPerToken) + 1
	return tokens
}

// CompressResume drops comment lines and squashes all whitespace to single spaces.
func CompressResume(tex string) (compressed string) {
	kept := make([]string, 0)
	for _, line := range latex.SplitLines(tex) {
		if commentLineRE.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	compressed = strings.TrimSpace(whitespaceRE.ReplaceAllString(strings.Join(kept, " "), " "))
	return compressed
}

// BudgetedResume returns the resume unchanged when it fits within SafetyRatio of tokenLimit
// together with the job description, role and company, and the compressed resume otherwise.
func BudgetedResume(resume, jd, role, company string, tokenLimit int) (text string) {
	if tokenLimit <= 0 {
		tokenLimit = TokenLimit
	}
	margin := int(float64(tokenLimit) * SafetyRatio)

	total := ApproxTokens(resume) + ApproxTokens(jd) + ApproxTokens(role+company) + replyPadding
	if total > margin {
		text = CompressResume(resume)
		return text
	}

	text = resume
	return text
}

const systemPass1 = `You are a résumé-tailor assistant specializing in optimizing resumes for specific job applications.

Return ONLY valid JSON with keys:
  include_projects : list[str]  # project titles to uncomment
  exclude_projects : list[str]  # project titles to comment

Use the project titles exactly as they appear in the resume.
Do NOT rewrite bullets yet.
`

const systemPass2 = `You are a résumé-tailor assistant specializing in optimizing resume content for maximum impact and relevance.

Return ONLY valid JSON:
{
  "bullets": [ { "old": "<exact old bullet>", "new": "<rewritten bullet>" } ],
  "skills_block": "<complete replacement line for the Technical Skills block>"
}

Rules:
• Each rewritten bullet ≤ 32 words; keep metrics (%, ms, ×) intact.
• Copy "old" verbatim from the resume so it can be located.
• Insert each missing keyword from the JD at most once; no stuffing.
• skills_block must preserve LaTeX syntax (it starts with \textbf{Languages:} … } ).
• Do NOT invent experience not already present.
• Focus on ACHIEVEMENTS and IMPACT, not just responsibilities.
• Use strong action verbs at the beginning of each bullet.
• Quantify achievements with metrics where possible.
`

// ProjectSummary lists the dominant keywords of one project block.
type ProjectSummary struct {
	Title    string
	Keywords []string
}

// SummarizeProjects extracts up to eight keywords from the bullets of each block.
func SummarizeProjects(blocks []latex.Block) (summaries []ProjectSummary) {
	summaries = make([]ProjectSummary, 0, len(blocks))
	for i, b := range blocks {
		title := b.Title
		if !b.HasTitle {
			title = fmt.Sprintf("Project %d", i+1)
		}
		text := scorer.PlainText(strings.Join(b.Content, "\n"))
		summaries = append(summaries, ProjectSummary{
			Title:    title,
			Keywords: scorer.ExtractKeywords(text, scorer.DefaultMinLength, 8),
		})
	}
	return summaries
}

// buildPass1Messages creates the project selection conversation.
func buildPass1Messages(req ProjectRequest, tokenLimit int) (messages []Message) {
	resume := BudgetedResume(req.Resume, req.JobDescription, req.Role, req.Company, tokenLimit)

	var enhanced string
	if len(req.Blocks) > 0 {
		var summary strings.Builder
		for _, p := range SummarizeProjects(req.Blocks) {
			fmt.Fprintf(&summary, "• %s: %s\n", p.Title, strings.Join(p.Keywords, ", "))
		}

		enhanced = fmt.Sprintf(`
ENHANCED GUIDELINES:
%s

ROLE KEYWORDS: %s

PROJECT KEYWORD SUMMARY:
%s`, projectSelectionGuidelines(req.Role, req.Company),
			strings.Join(scorer.ExtractKeywords(req.JobDescription, scorer.DefaultMinLength, 15), ", "),
			strings.TrimRight(summary.String(), "\n"))
	}

	user := fmt.Sprintf(`ROLE: %s
COMPANY: %s

JOB DESCRIPTION:
"""%s"""
%s
FULL LATEX RESUME:
"""%s"""
`, req.Role, req.Company, req.JobDescription, enhanced, resume)

	messages = []Message{
		{Role: RoleSystem, Content: systemPass1},
		{Role: RoleUser, Content: user},
	}
	return messages
}

// buildPass2Messages creates the rewrite conversation.
func buildPass2Messages(req RewriteRequest, tokenLimit int) (messages []Message) {
	resume := BudgetedResume(req.Resume, req.JobDescription, req.Role, req.Company, tokenLimit)

	enhanced := fmt.Sprintf(`
ENHANCED GUIDELINES:
%s

SKILLS SECTION GUIDANCE:
%s

JOB KEYWORDS: %s

BULLET POINT REWRITE EXAMPLES:
%s`, rewriteGuidelines(req.Role, req.Company), skillsGuidelines(req.Role),
		strings.Join(scorer.ExtractKeywords(req.JobDescription, scorer.DefaultMinLength, 20), ", "),
		formatExamples(RoleExamples(req.Role)))

	user := fmt.Sprintf(`ROLE: %s
COMPANY: %s

JOB DESCRIPTION:
"""%s"""
%s
UPDATED RESUME (projects already set):
"""%s"""
`, req.Role, req.Company, req.JobDescription, enhanced, resume)

	messages = []Message{
		{Role: RoleSystem, Content: systemPass2},
		{Role: RoleUser, Content: user},
	}
	return messages
}

func projectSelectionGuidelines(role, company string) (text string) {
	text = fmt.Sprintf(`As a professional resume tailoring expert, your task is to select the most relevant projects from the candidate's resume for a %[1]s position at %[2]s.

IMPORTANT SELECTION CRITERIA:
1. Prioritize projects that demonstrate skills mentioned in the job description
2. Include projects with technologies/tools relevant to %[1]s roles
3. Prefer recent and impactful projects over older ones
4. Select diverse projects that showcase different skills when appropriate
5. Consider the company culture and values of %[2]s in your selection

For each project, carefully evaluate how well it aligns with the job requirements and how effectively it demonstrates the candidate's qualifications for this specific role.`, role, company)
	return text
}

func rewriteGuidelines(role, company string) (text string) {
	text = fmt.Sprintf(`As an expert resume writer specializing in %[1]s positions, your task is to rewrite the bullet points to better align with this specific %[1]s role at %[2]s.

BULLET POINT REWRITING GUIDELINES:
1. Focus each bullet on ACHIEVEMENTS and IMPACT, not just responsibilities
2. Use strong action verbs at the beginning of each bullet
3. Quantify achievements with specific metrics where possible (%%, $, time saved, etc.)
4. Incorporate relevant keywords from the job description naturally
5. Keep each bullet concise (1-2 lines) and focused on a single accomplishment
6. Emphasize skills and experiences most relevant to a %[1]s position
7. Maintain the candidate's existing technical terminology for authenticity
8. For technical projects, highlight both technical skills and business outcomes

IMPORTANT: Preserve the core facts of each bullet while optimizing the wording, and maintain proper LaTeX formatting.`, role, company)
	return text
}

func skillsGuidelines(role string) (text string) {
	text = fmt.Sprintf(`For the Technical Skills section, reorganize the languages and technologies based on relevance to this %s position. Place the most relevant skills first and ensure the format matches: \textbf{Languages:} Skill1, Skill2, ...; \textbf{Frameworks:} Framework1, Framework2, ...; etc.`, role)
	return text
}

// Example is a BEFORE/AFTER bullet pair shown to the model.
type Example struct {
	Original string
	Improved string
}

// RoleExamples returns two general rewrite examples plus one matched to the role, if any.
func RoleExamples(role string) (examples []Example) {
	examples = []Example{
		{
			Original: "Worked on a project to improve system performance",
			Improved: "Optimized system performance by 40% through code refactoring and implementing efficient algorithms",
		},
		{
			Original: "Was responsible for database queries and data retrieval",
			Improved: "Designed and optimized complex SQL queries that reduced data retrieval time by 60% and improved application responsiveness",
		},
	}

	r := strings.ToLower(role)
	switch {
	case strings.Contains(r, "data") && (strings.Contains(r, "scien") || strings.Contains(r, "analy")):
		examples = append(examples, Example{
			Original: "Built predictive models for customer analysis",
			Improved: "Developed machine learning models that predicted customer churn with 92% accuracy, enabling targeted retention efforts that increased retention by 15%",
		})
	case strings.Contains(r, "developer") || strings.Contains(r, "engineer"):
		examples = append(examples, Example{
			Original: "Worked on the frontend using React",
			Improved: "Architected and implemented responsive React components that reduced page load time by 35% and improved user engagement metrics by 42%",
		})
	case strings.Contains(r, "product") || strings.Contains(r, "manager"):
		examples = append(examples, Example{
			Original: "Led a team to deliver new features",
			Improved: "Led cross-functional team of 8 engineers to deliver 3 key product features ahead of schedule, resulting in 28% increase in user adoption and $1.2M in additional revenue",
		})
	}

	return examples
}

func formatExamples(examples []Example) (text string) {
	var b strings.Builder
	for i, e := range examples {
		fmt.Fprintf(&b, "Example %d:\n", i+1)
		fmt.Fprintf(&b, "  BEFORE: %s\n", e.Original)
		fmt.Fprintf(&b, "  AFTER:  %s\n\n", e.Improved)
	}
	text = b.String()
	return text
}
