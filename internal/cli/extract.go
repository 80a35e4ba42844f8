package cli

import (
	"context"
	"log"

	"github.com/spf13/cobra"
	"pdf-quiz-service/internal/config"
	"pdf-quiz-service/internal/extract"
	"pdf-quiz-service/internal/infra/file"
)

// NewExtractCmd turns a highlighted PDF into the question bank file.
func NewExtractCmd(configPath *string) *cobra.Command {
	var input, output string
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract questions from a highlighted PDF",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if input == "" {
				input = cfg.Extract.Input
			}
			if output == "" {
				output = cfg.Quiz.BankPath
			}
			return runExtract(cmd.Context(), cfg, input, output)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "PDF to read (default extract.input)")
	cmd.Flags().StringVar(&output, "output", "", "question bank file to write (default quiz.bank_path)")
	return cmd
}

func extractOptions(cfg config.Config) extract.Options {
	opts := extract.DefaultOptions()
	if cfg.Extract.LineTolerance > 0 {
		opts.LineTolerance = cfg.Extract.LineTolerance
	}
	if cfg.Extract.WordGap > 0 {
		opts.WordGap = cfg.Extract.WordGap
	}
	if cfg.Extract.MaxFileSize > 0 {
		opts.MaxFileSize = cfg.Extract.MaxFileSize
	}
	opts.RetestContinuations = config.BoolOr(cfg.Extract.RetestContinuations, opts.RetestContinuations)
	opts.StructuralValidation = config.BoolOr(cfg.Extract.StructuralValidation, opts.StructuralValidation)
	return opts
}

func runExtract(ctx context.Context, cfg config.Config, input, output string) error {
	questions, err := extract.New(extractOptions(cfg)).ExtractFile(ctx, input)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		log.Printf("no questions found in %s", input)
	}
	if err := file.Save(output, questions); err != nil {
		return err
	}
	log.Printf("extracted %d questions from %s into %s", len(questions), input, output)
	return nil
}
