package cmd

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/MayankD409/Resume-Personalizer/pkg/config"
	"github.com/MayankD409/Resume-Personalizer/pkg/jd"
	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
	"github.com/MayankD409/Resume-Personalizer/pkg/review"
	"github.com/MayankD409/Resume-Personalizer/pkg/scorer"
)

//nolint:gochecknoglobals // Cobra boilerplate
var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Compare the keywords of a job description and a resume",
	Long: `Compare the keywords of a job description with those of a resume and recommend
missing keywords worth adding. No AI provider is contacted.

Example:
  resume-tailor keywords --jd-file jd.txt
  resume-tailor keywords --jd-file jd.pdf --template output/acme/backend-engineer/resume.tex`,
	Args: cobra.NoArgs,
	RunE: runKeywords,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.Flags().StringVar(&jdFile, "jd-file", "", "Path or URL of the job description (.txt, .pdf, .docx, http(s))")
	keywordsCmd.Flags().StringVar(&jdText, "jd-text", "", "Job description text")
	keywordsCmd.Flags().StringVar(&templatePath, "template", "", "LaTeX resume to analyze (default from config)")

	keywordsCmd.MarkFlagsMutuallyExclusive("jd-file", "jd-text")
	keywordsCmd.MarkFlagsOneRequired("jd-file", "jd-text")
}

func runKeywords(cmd *cobra.Command, args []string) (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), jd.FetchTimeout)
	defer cancel()

	resumePath := templatePath
	if resumePath == "" {
		var cfg config.Config
		cfg, err = config.Load(getConfigFile())
		if err != nil {
			err = errors.Wrap(err, "failed to load config")
			return err
		}
		resumePath = cfg.TemplatePath
	}

	var jobDescription string
	var lines []string
	jobDescription, lines, err = loadInputs(ctx, resumePath)
	if err != nil {
		return err
	}

	resume := scorer.PlainText(latex.JoinLines(lines))
	sc := scorer.NewScorer()

	fmt.Println(scorer.Report(sc.Analyze(jobDescription, resume), !color.NoColor))
	review.NewReviewer(nil, cmd.OutOrStdout()).ShowKeywords(sc.Recommend(jobDescription, resume))

	return err
}
