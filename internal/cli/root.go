package cli

import (
	"os"

	"github.com/spf13/cobra"
	"pdf-quiz-service/internal/config"
)

var (
	port       string
	configPath string
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	envConfig := os.Getenv("CONFIG_PATH")
	if envConfig == "" {
		envConfig = config.DefaultPath
	}

	cmd := &cobra.Command{
		Use:          "pdf-quiz",
		Short:        "Extract quizzes from highlighted PDFs and play them",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", envConfig, "path to YAML config")
	cmd.AddCommand(NewExtractCmd(&configPath))
	cmd.AddCommand(NewStartCmd(&configPath, &port))
	cmd.AddCommand(NewPlayCmd(&configPath))
	cmd.AddCommand(NewImportCmd(&configPath))
	cmd.AddCommand(NewMigrateCmd(&configPath))
	return cmd
}
