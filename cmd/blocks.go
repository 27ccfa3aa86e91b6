package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/match"

	"github.com/MayankD409/Resume-Personalizer/pkg/latex"
)

//nolint:gochecknoglobals // Cobra boilerplate
var blocksFilter string

//nolint:gochecknoglobals // Cobra boilerplate
var blocksShowLines bool

//nolint:gochecknoglobals // Cobra boilerplate
var blocksCmd = &cobra.Command{
	Use:   "blocks <resume.tex>",
	Short: "List the project blocks found in a resume",
	Long: `List the project blocks the tailoring passes would work with: whether each block
is active or commented out, its title and its bullet points.

Use --filter with a wildcard pattern (* and ?) to show only matching titles.

Example:
  resume-tailor blocks templates/base_resume.tex
  resume-tailor blocks templates/base_resume.tex --filter "*bot*" --lines`,
	Args: cobra.ExactArgs(1),
	RunE: runBlocks,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(blocksCmd)
	blocksCmd.Flags().StringVar(&blocksFilter, "filter", "", "Wildcard pattern matched against block titles (case-insensitive)")
	blocksCmd.Flags().BoolVar(&blocksShowLines, "lines", false, "Show the line range of each block")
}

func runBlocks(cmd *cobra.Command, args []string) (err error) {
	var lines []string
	lines, err = latex.ReadLines(args[0])
	if err != nil {
		err = errors.Wrap(err, "failed to load resume")
		return err
	}

	blocks := latex.Scan(lines, latex.DefaultPatterns())
	if len(blocks) == 0 {
		color.New(color.FgYellow).Fprintf(os.Stdout, "⚠ %s\n", latex.ErrNoBlocks)
		return err
	}

	printBlocks(os.Stdout, filterBlocks(blocks, blocksFilter), blocksShowLines)

	return err
}

// filterBlocks keeps the blocks whose display title matches the wildcard pattern.
func filterBlocks(blocks []latex.Block, pattern string) (filtered []latex.Block) {
	if pattern == "" {
		filtered = blocks
		return filtered
	}

	pattern = strings.ToLower(pattern)
	filtered = make([]latex.Block, 0, len(blocks))
	for _, b := range blocks {
		if match.Match(strings.ToLower(b.DisplayTitle()), pattern) {
			filtered = append(filtered, b)
		}
	}

	return filtered
}

func printBlocks(w io.Writer, blocks []latex.Block, showLines bool) {
	active := color.New(color.FgGreen)
	inactive := color.New(color.FgRed)

	fmt.Fprintf(w, "Found %d project block(s)\n", len(blocks))
	for i, b := range blocks {
		status := active.Sprint("ACTIVE  ")
		if !b.Active {
			status = inactive.Sprint("INACTIVE")
		}

		fmt.Fprintf(w, "%d. [%s] %s", i+1, status, b.DisplayTitle())
		if showLines {
			fmt.Fprintf(w, " (lines %d-%d)", b.Start+1, b.End)
		}
		fmt.Fprintln(w)

		for _, item := range b.Content {
			fmt.Fprintf(w, "     • %s\n", item)
		}
	}
}
