package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/MayankD409/Resume-Personalizer/pkg/config"
	"github.com/MayankD409/Resume-Personalizer/pkg/history"
)

//nolint:gochecknoglobals // Cobra boilerplate
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past tailoring runs",
	Long: `Rebuild the run index from the summaries in the output directory and list past runs.

With --company and/or --role, only runs similar to that application are listed, together with
the keywords that stayed missing in several of them.

Example:
  resume-tailor history
  resume-tailor history --company Acme --role "Backend Engineer"`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&company, "company", "", "Only show runs similar to this company")
	historyCmd.Flags().StringVar(&role, "role", "", "Only show runs similar to this role")
	historyCmd.Flags().StringVar(&outputDir, "output-dir", "", "Output directory (default from config)")
}

func runHistory(cmd *cobra.Command, args []string) (err error) {
	ctx := context.Background()

	baseOutDir := outputDir
	if baseOutDir == "" {
		var cfg config.Config
		cfg, err = config.Load(getConfigFile())
		if err != nil {
			err = errors.Wrap(err, "failed to load config")
			return err
		}
		baseOutDir = cfg.OutputDir
	}

	var indexer *history.Indexer
	indexer, err = history.NewIndexer(baseOutDir)
	if err != nil {
		err = errors.Wrap(err, "failed to create indexer")
		return err
	}

	var count int
	count, err = indexer.Index(ctx)
	if err != nil {
		err = errors.Wrap(err, "failed to build run index")
		return err
	}

	if getVerbose() {
		fmt.Printf("Indexed %d run(s) in %s\n", count, baseOutDir)
	}

	if company == "" && role == "" {
		var index history.Index
		index, err = indexer.LoadIndex()
		if err != nil {
			return err
		}
		printRuns(os.Stdout, index.Runs)
		return err
	}

	var runs []history.IndexedRun
	runs, err = history.NewRetriever(indexer).Similar(ctx, company, role)
	if err != nil {
		return err
	}

	fmt.Println(history.Format(runs, history.RecurringGaps(runs, history.MinGapCount)))

	return err
}

func printRuns(w io.Writer, runs []history.IndexedRun) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "No tailoring runs found")
		return
	}

	for _, run := range runs {
		fmt.Fprintf(w, "%s  %-30s %-25s %5.1f%% -> %5.1f%%  [%s]\n", run.TailoredAt.Format("2006-01-02"),
			run.Role, run.Company, run.MatchBefore, run.MatchAfter, run.RoleLevel)
	}
}
