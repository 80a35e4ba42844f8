package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"pdf-quiz-service/internal/config"
	"pdf-quiz-service/internal/domain"
	"pdf-quiz-service/internal/infra/file"
	pgstore "pdf-quiz-service/internal/infra/postgres"
)

// NewImportCmd copies a question bank file into Postgres.
func NewImportCmd(configPath *string) *cobra.Command {
	var input, bankID string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a question bank file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if input == "" {
				input = cfg.Quiz.BankPath
			}
			if bankID == "" {
				bankID = cfg.Quiz.BankID
			}
			return runImport(cmd.Context(), cfg, input, bankID)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "question bank file (default quiz.bank_path)")
	cmd.Flags().StringVar(&bankID, "bank", "", "bank id to store it under (default quiz.bank_id)")
	return cmd
}

func runImport(ctx context.Context, cfg config.Config, input, bankID string) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}
	questions, err := file.Load(input)
	if err != nil {
		return err
	}
	if err := runMigrationsWithConfig(ctx, cfg); err != nil {
		return err
	}

	db := pgstore.OpenBun(cfg.Postgres.URL)
	defer db.Close()

	if err := pgstore.NewImporter(db).Import(ctx, domain.Bank{ID: bankID, Questions: questions}); err != nil {
		return err
	}
	log.Printf("imported %d questions into bank %q", len(questions), bankID)
	return nil
}
