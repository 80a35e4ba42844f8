package cli

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"pdf-quiz-service/internal/config"
	"pdf-quiz-service/internal/tui"
)

// NewPlayCmd runs the quiz in the terminal.
func NewPlayCmd(configPath *string) *cobra.Command {
	var playerID, bankID string
	var noColor bool
	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play the quiz in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			if bankID == "" {
				bankID = cfg.Quiz.BankID
			}
			return runPlay(cmd.Context(), cfg, playerID, bankID, noColor)
		},
	}
	cmd.Flags().StringVar(&playerID, "player", defaultPlayer(), "player whose review set is used")
	cmd.Flags().StringVar(&bankID, "bank", "", "bank to play (default quiz.bank_id)")
	cmd.Flags().BoolVar(&noColor, "no-color", os.Getenv("NO_COLOR") != "", "disable colors")
	return cmd
}

func defaultPlayer() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "local"
}

func runPlay(ctx context.Context, cfg config.Config, playerID, bankID string, noColor bool) error {
	b, err := buildService(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	state, err := b.service.Open(ctx, playerID, bankID)
	if err != nil {
		return fmt.Errorf("open bank %q: %w", bankID, err)
	}
	defer b.service.End(ctx, state.SessionID)

	model := tui.NewModel(ctx, b.service, state, tui.Options{NoColor: noColor})
	_, err = tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	return err
}
