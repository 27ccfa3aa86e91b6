package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MayankD409/Resume-Personalizer/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long: `Create a default config file at $HOME/.resume-tailor/config.json, or at the path
given with --config. Fill in the API key of the provider you want to use, or set it in the
environment (OPENAI_API_KEY, GEMINI_API_KEY, ANTHROPIC_API_KEY) or a .env file.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) (err error) {
	var path string
	path, err = config.InitConfig(getConfigFile())
	if err != nil {
		return err
	}

	fmt.Printf("✓ Config file created: %s\n", path)
	return err
}
