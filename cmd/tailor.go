package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/MayankD409/Resume-Personalizer/pkg/config"
	"github.com/MayankD409/Resume-Personalizer/pkg/history"
	"github.com/MayankD409/Resume-Personalizer/pkg/jd"
	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/llm"
	"github.com/MayankD409/Resume-Personalizer/pkg/renderer"
	"github.com/MayankD409/Resume-Personalizer/pkg/review"
)

//nolint:gochecknoglobals // Cobra boilerplate
var jdFile string

//nolint:gochecknoglobals // Cobra boilerplate
var jdText string

//nolint:gochecknoglobals // Cobra boilerplate
var company string

//nolint:gochecknoglobals // Cobra boilerplate
var role string

//nolint:gochecknoglobals // Cobra boilerplate
var agent string

//nolint:gochecknoglobals // Cobra boilerplate
var model string

//nolint:gochecknoglobals // Cobra boilerplate
var templatePath string

//nolint:gochecknoglobals // Cobra boilerplate
var outputDir string

//nolint:gochecknoglobals // Cobra boilerplate
var interactive bool

//nolint:gochecknoglobals // Cobra boilerplate
var compilePDF bool

//nolint:gochecknoglobals // Cobra boilerplate
var dryRun bool

//nolint:gochecknoglobals // Cobra boilerplate
var tailorCmd = &cobra.Command{
	Use:   "tailor",
	Short: "Tailor the resume template to a job description",
	Long: `Tailor the LaTeX resume template to a job description.

The job description can be provided as:
- A .txt, .pdf or .docx file, or an http(s) URL (--jd-file)
- Pasted text (--jd-text)

Pass 1 asks the AI which projects to show and toggles project blocks accordingly.
Pass 2 asks it to reword bullet points and the skills line of the updated resume.

Results are written to <output-dir>/<company>/<role>/.

Example:
  resume-tailor tailor --jd-file jd.pdf --company "Acme Corp" --role "Backend Engineer"
  resume-tailor tailor --jd-file https://example.com/jobs/123 --company Acme --role SRE --agent claude
  resume-tailor tailor --jd-text "$(pbpaste)" --company Acme --role "Data Scientist" --interactive --pdf`,
	Args: cobra.NoArgs,
	RunE: runTailor,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(tailorCmd)
	tailorCmd.Flags().StringVar(&jdFile, "jd-file", "", "Path or URL of the job description (.txt, .pdf, .docx, http(s))")
	tailorCmd.Flags().StringVar(&jdText, "jd-text", "", "Job description text")
	tailorCmd.Flags().StringVar(&company, "company", "", "Company name")
	tailorCmd.Flags().StringVar(&role, "role", "", "Role title")
	tailorCmd.Flags().StringVar(&agent, "agent", "", "AI provider: openai (chatgpt), gemini or anthropic (claude) (default from config)")
	tailorCmd.Flags().StringVar(&model, "model", "", "Model name (default from config or provider)")
	tailorCmd.Flags().StringVar(&templatePath, "template", "", "Base LaTeX resume (default from config)")
	tailorCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
	tailorCmd.Flags().BoolVar(&interactive, "interactive", false, "Review every proposed change before applying it")
	tailorCmd.Flags().BoolVar(&compilePDF, "pdf", false, "Compile the tailored resume with pdflatex")
	tailorCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the changes without writing any files")

	_ = tailorCmd.MarkFlagRequired("company")
	_ = tailorCmd.MarkFlagRequired("role")
	tailorCmd.MarkFlagsMutuallyExclusive("jd-file", "jd-text")
	tailorCmd.MarkFlagsOneRequired("jd-file", "jd-text")
}

func runTailor(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()

	// Load configuration
	var cfg config.Config
	cfg, err = config.Load(getConfigFile())
	if err != nil {
		err = errors.Wrap(err, "failed to load config")
		return err
	}

	template := getOrDefault(templatePath, cfg.TemplatePath)
	baseOutDir := getOrDefault(outputDir, cfg.OutputDir)

	var client *llm.Client
	var providerCfg llm.ProviderConfig
	client, providerCfg, err = newTailorClient(ctx, cfg)
	if err != nil {
		return err
	}
	if closer, ok := client.Provider().(io.Closer); ok {
		defer closer.Close()
	}

	job := tailorJob{
		Role:     role,
		Company:  company,
		Progress: !getVerbose() && !interactive,
	}
	if interactive {
		job.Reviewer = review.NewReviewer(os.Stdin, os.Stdout)
	}

	job.JobDescription, job.Lines, err = loadInputs(ctx, template)
	if err != nil {
		return err
	}

	showHistory(ctx, baseOutDir)

	var res tailorResult
	res, err = tailorResume(ctx, client, job)
	if err != nil {
		var verr *llm.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintln(os.Stderr, llm.FormatHint(verr.Schema))
		}
		return err
	}

	run := newRun(job, res, providerCfg.Name, providerCfg.Model, time.Now())
	fmt.Println()
	fmt.Print(formatSummary(run))

	if dryRun {
		if !interactive {
			fmt.Print(review.Render(review.LineDiff(res.Original, job.Lines, review.DefaultContext)))
		}
		fmt.Println("\nDry run: no files written")
		return err
	}

	if !res.Confirmed {
		fmt.Println("Tailored resume discarded")
		return err
	}

	var files outputFiles
	files, err = writeOutputs(baseOutDir, job, res, run)
	if err != nil {
		return err
	}
	fmt.Printf("\nOutput directory: %s\n", files.dir)
	fmt.Printf("  Resume: %s\n", files.resume)

	reindexHistory(ctx, baseOutDir)

	if compilePDF {
		err = renderPDF(ctx, files.resume, template)
		if err != nil {
			return err
		}
	}

	return err
}

// newTailorClient creates the AI client for the provider chosen by --agent or the config.
func newTailorClient(ctx context.Context, cfg config.Config) (client *llm.Client, pc llm.ProviderConfig, err error) {
	pc, err = cfg.ProviderConfig(agent, model)
	if err != nil {
		return client, pc, err
	}
	if pc.Model == "" {
		pc.Model = llm.DefaultModel(pc.Name)
	}

	var provider llm.Provider
	provider, err = llm.NewProvider(ctx, pc)
	if err != nil {
		err = errors.Wrap(err, "failed to create AI provider")
		return client, pc, err
	}

	if getVerbose() {
		fmt.Printf("Using %s (%s)\n", pc.Name, pc.Model)
	}

	client = llm.NewClient(provider, cfg.TokenLimit)
	return client, pc, err
}

// loadInputs reads the job description and the template.
func loadInputs(ctx context.Context, template string) (jobDescription string, lines []string, err error) {
	if getVerbose() && jdFile != "" {
		fmt.Printf("Loading job description from: %s\n", jdFile)
	}

	jobDescription, err = jd.Load(ctx, jd.Source{Text: jdText, Path: jdFile})
	if err != nil {
		return jobDescription, lines, err
	}

	if getVerbose() {
		fmt.Printf("Job description loaded (%d characters)\n", len(jobDescription))
		fmt.Printf("Loading template from: %s\n", template)
	}

	lines, err = latex.ReadLines(template)
	if err != nil {
		err = errors.Wrap(err, "failed to load template")
		return jobDescription, lines, err
	}

	return jobDescription, lines, err
}

// showHistory prints similar past runs. History problems never stop a run.
func showHistory(ctx context.Context, baseOutDir string) {
	indexer, err := history.NewIndexer(baseOutDir)
	if err != nil {
		slog.Debug("History unavailable", "error", err)
		return
	}

	runs, err := history.NewRetriever(indexer).Similar(ctx, company, role)
	if err != nil {
		slog.Warn("History lookup failed", "error", err)
		return
	}

	if len(runs) == 0 {
		return
	}

	fmt.Println(history.Format(runs, history.RecurringGaps(runs, history.MinGapCount)))
}

func reindexHistory(ctx context.Context, baseOutDir string) {
	indexer, err := history.NewIndexer(baseOutDir)
	if err != nil {
		return
	}

	count, err := indexer.Index(ctx)
	if err != nil {
		slog.Warn("Failed to update run history", "error", err)
		return
	}

	slog.Debug("Run history updated", "runs", count)
}

func renderPDF(ctx context.Context, texPath, template string) (err error) {
	includeDir, err := filepath.Abs(filepath.Dir(template))
	if err != nil {
		err = errors.Wrap(err, "failed to resolve template directory")
		return err
	}

	var pdfPath string
	err = withSpinner(!getVerbose(), "Compiling PDF...", func() (err error) {
		pdfPath, err = renderer.CompilePDF(ctx, texPath, includeDir)
		return err
	})
	if err != nil {
		err = errors.Wrap(err, "failed to compile PDF")
		return err
	}

	fmt.Printf("  PDF: %s\n", pdfPath)
	return err
}

// getOrDefault returns value, or def when value is empty.
func getOrDefault(value, def string) (result string) {
	result = value
	if result == "" {
		result = def
	}
	return result
}
