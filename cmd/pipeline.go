package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/MayankD409/Resume-Personalizer/pkg/history"
	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/llm"
	"github.com/MayankD409/Resume-Personalizer/pkg/projects"
	"github.com/MayankD409/Resume-Personalizer/pkg/renderer"
	"github.com/MayankD409/Resume-Personalizer/pkg/review"
	"github.com/MayankD409/Resume-Personalizer/pkg/rewrite"
	"github.com/MayankD409/Resume-Personalizer/pkg/scorer"
)

// passTimeout bounds each AI pass.
const passTimeout = 5 * time.Minute

// tailorJob holds the inputs of one tailoring run.
type tailorJob struct {
	JobDescription string
	Role           string
	Company        string
	Lines          []string         // Template lines, edited in place
	Reviewer       *review.Reviewer // nil unless interactive
	Progress       bool             // Show spinners while waiting on the AI
}

// tailorResult records what a run changed.
type tailorResult struct {
	Original        []string
	Blocks          []latex.Block
	Decision        projects.Decision
	ProjectsApplied bool
	ProjectsRaw     string
	RewritesRaw     string
	Proposed        int
	Applied         int
	SkillsUpdated   bool
	Before          scorer.Analysis
	After           scorer.Analysis
	Recommended     []string
	Confirmed       bool
}

// tailorResume runs both AI passes over job.Lines and applies the accepted changes in place.
func tailorResume(ctx context.Context, client *llm.Client, job tailorJob) (res tailorResult, err error) {
	res.Original = slices.Clone(job.Lines)

	res.Blocks = latex.Scan(job.Lines, latex.DefaultPatterns())
	if len(res.Blocks) == 0 {
		err = errors.Wrap(latex.ErrNoBlocks, "cannot tailor this template")
		return res, err
	}

	sc := scorer.NewScorer()
	res.Before = sc.Analyze(job.JobDescription, scorer.PlainText(latex.JoinLines(job.Lines)))
	if getVerbose() {
		fmt.Println(scorer.Report(res.Before, !color.NoColor))
	}

	// Pass 1: projects
	err = selectProjects(ctx, client, job, &res)
	if err != nil {
		return res, err
	}

	// Pass 2: bullets and skills, on the updated resume
	err = rewriteContent(ctx, client, job, &res)
	if err != nil {
		return res, err
	}

	res.After = sc.Analyze(job.JobDescription, scorer.PlainText(latex.JoinLines(job.Lines)))
	res.Recommended = sc.Recommend(job.JobDescription, scorer.PlainText(latex.JoinLines(job.Lines)))

	res.Confirmed = true
	if job.Reviewer != nil {
		job.Reviewer.ShowKeywords(res.Recommended)
		job.Reviewer.ShowDiff(res.Original, job.Lines)
		res.Confirmed = job.Reviewer.Confirm("Save the tailored resume?", true)
	}

	return res, err
}

func selectProjects(ctx context.Context, client *llm.Client, job tailorJob, res *tailorResult) (err error) {
	passCtx, cancel := context.WithTimeout(ctx, passTimeout)
	defer cancel()

	var sel projects.Selection
	msg := fmt.Sprintf("Selecting projects with %s...", client.Provider().Name())
	err = withSpinner(job.Progress, msg, func() (err error) {
		sel, res.ProjectsRaw, err = client.SelectProjects(passCtx, llm.ProjectRequest{
			JobDescription: job.JobDescription,
			Role:           job.Role,
			Company:        job.Company,
			Resume:         latex.JoinLines(job.Lines),
			Blocks:         res.Blocks,
		})
		return err
	})
	if err != nil {
		return err
	}

	printRawJSON("Project selection", res.ProjectsRaw)

	res.Decision = projects.Decide(sel, res.Blocks)

	res.ProjectsApplied = !res.Decision.Empty()
	if job.Reviewer != nil {
		res.ProjectsApplied = job.Reviewer.ConfirmProjects(res.Decision)
	}

	if res.ProjectsApplied {
		res.Decision.Apply(job.Lines)
		fmt.Printf("✓ Projects updated (%d on, %d off)\n", len(res.Decision.Activate), len(res.Decision.Deactivate))
	}

	return err
}

func rewriteContent(ctx context.Context, client *llm.Client, job tailorJob, res *tailorResult) (err error) {
	passCtx, cancel := context.WithTimeout(ctx, passTimeout)
	defer cancel()

	var resp llm.RewriteResponse
	msg := fmt.Sprintf("Rewriting bullet points with %s...", client.Provider().Name())
	err = withSpinner(job.Progress, msg, func() (err error) {
		resp, res.RewritesRaw, err = client.Rewrite(passCtx, llm.RewriteRequest{
			JobDescription: job.JobDescription,
			Role:           job.Role,
			Company:        job.Company,
			Resume:         latex.JoinLines(job.Lines),
		})
		return err
	})
	if err != nil {
		return err
	}

	printRawJSON("Rewrites", res.RewritesRaw)

	pairs := make([]rewrite.Pair, 0, len(resp.Bullets))
	for _, p := range resp.Bullets {
		if p.Valid() {
			pairs = append(pairs, p)
		}
	}
	res.Proposed = len(pairs)

	if job.Reviewer != nil {
		pairs = job.Reviewer.ReviewRewrites(job.Lines, pairs)
	}
	res.Applied = rewrite.ApplyAll(job.Lines, pairs)

	skills := strings.TrimSpace(resp.SkillsBlock)
	if skills == "" {
		return err
	}

	apply := true
	if job.Reviewer != nil {
		apply = job.Reviewer.ConfirmSkills(review.CurrentSkills(job.Lines), skills)
	}
	if apply {
		res.SkillsUpdated = rewrite.ReplaceSkills(job.Lines, skills)
	}

	return err
}

// printRawJSON shows an AI reply in verbose mode.
func printRawJSON(label, raw string) {
	if !getVerbose() {
		return
	}

	fmt.Printf("%s response:\n", label)
	if !gjson.Valid(raw) {
		fmt.Println(raw)
		return
	}

	out := pretty.Pretty([]byte(raw))
	if !color.NoColor {
		out = pretty.Color(out, nil)
	}
	fmt.Print(string(out))
}

// blockTitles lists display titles.
func blockTitles(blocks []latex.Block) (titles []string) {
	titles = make([]string, 0, len(blocks))
	for _, b := range blocks {
		titles = append(titles, b.DisplayTitle())
	}
	return titles
}

// newRun builds the summary saved next to the tailored resume.
func newRun(job tailorJob, res tailorResult, provider, model string, at time.Time) (run history.Run) {
	run = history.Run{
		Company:          job.Company,
		Role:             job.Role,
		Provider:         provider,
		Model:            model,
		TailoredAt:       at,
		Activated:        []string{},
		Deactivated:      []string{},
		Fallback:         res.Decision.Fallback.String(),
		RewritesProposed: res.Proposed,
		RewritesApplied:  res.Applied,
		SkillsUpdated:    res.SkillsUpdated,
		Before:           res.Before,
		After:            res.After,
	}

	if res.ProjectsApplied {
		run.Activated = blockTitles(res.Decision.Activate)
		run.Deactivated = blockTitles(res.Decision.Deactivate)
	}

	return run
}

// formatSummary renders the end-of-run summary.
func formatSummary(run history.Run) (summary string) {
	caser := cases.Title(language.English, cases.NoLower)
	good := color.New(color.FgGreen)

	var b strings.Builder
	fmt.Fprintf(&b, "%s Tailored resume for %s at %s\n", good.Sprint("✓"), caser.String(run.Role), caser.String(run.Company))

	if len(run.Activated) == 0 && len(run.Deactivated) == 0 {
		b.WriteString("  Projects: unchanged\n")
	} else {
		fmt.Fprintf(&b, "  Projects: %s %s\n", good.Sprintf("+%d", len(run.Activated)), strings.Join(run.Activated, ", "))
		fmt.Fprintf(&b, "            %s %s\n", color.New(color.FgRed).Sprintf("-%d", len(run.Deactivated)), strings.Join(run.Deactivated, ", "))
	}

	fmt.Fprintf(&b, "  Bullet rewrites applied: %d/%d\n", run.RewritesApplied, run.RewritesProposed)

	skills := "unchanged"
	if run.SkillsUpdated {
		skills = "updated"
	}
	fmt.Fprintf(&b, "  Skills line: %s\n", skills)
	fmt.Fprintf(&b, "  Keyword match: %s\n", scorer.Delta(run.Before, run.After))

	summary = b.String()
	return summary
}

// outputFiles holds all output file paths of a run.
type outputFiles struct {
	dir      string
	resume   string
	jd       string
	projects string
	rewrites string
	summary  string
}

func newOutputFiles(dir string) (files outputFiles) {
	files = outputFiles{
		dir:      dir,
		resume:   filepath.Join(dir, renderer.ResumeFile),
		jd:       filepath.Join(dir, renderer.JobDescriptionFile),
		projects: filepath.Join(dir, renderer.ProjectsFile),
		rewrites: filepath.Join(dir, renderer.RewritesFile),
		summary:  filepath.Join(dir, renderer.SummaryFile),
	}
	return files
}

// writeOutputs saves the tailored resume, the job description, both AI replies and the run
// summary under base/<company>/<role>.
func writeOutputs(base string, job tailorJob, res tailorResult, run history.Run) (files outputFiles, err error) {
	var dir string
	dir, err = renderer.OutputDir(base, job.Company, job.Role)
	if err != nil {
		return files, err
	}
	files = newOutputFiles(dir)

	err = renderer.WriteLines(files.resume, job.Lines)
	if err != nil {
		err = errors.Wrap(err, "failed to write tailored resume")
		return files, err
	}

	err = renderer.WriteText(files.jd, job.JobDescription)
	if err != nil {
		err = errors.Wrap(err, "failed to write job description")
		return files, err
	}

	err = renderer.WriteRawJSON(files.projects, res.ProjectsRaw)
	if err != nil {
		err = errors.Wrap(err, "failed to write project selection response")
		return files, err
	}

	err = renderer.WriteRawJSON(files.rewrites, res.RewritesRaw)
	if err != nil {
		err = errors.Wrap(err, "failed to write rewrite response")
		return files, err
	}

	err = renderer.WriteJSON(files.summary, run)
	if err != nil {
		err = errors.Wrap(err, "failed to write run summary")
		return files, err
	}

	return files, err
}
