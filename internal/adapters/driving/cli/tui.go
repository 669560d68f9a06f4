package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

var tuiUseLLM bool

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui [file...]",
	Short: "Browse review findings interactively",
	Long: `Launch the interactive terminal user interface for Redmark.

Without arguments the TUI opens the latest recorded run. With file
arguments the documents are analyzed first and the TUI opens on that
fresh result.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select
  Esc      - Back
  ?        - Help (from menu)
  q        - Quit`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().BoolVar(&tuiUseLLM, "use-llm", false, "enable grounded review for files analyzed on launch")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	ctx := cmd.Context()
	if err := ensureSettingsService(); err != nil {
		return err
	}
	if err := ensureAnalysisStack(ctx); err != nil {
		return err
	}

	var result *domain.AnalysisResult
	if len(args) > 0 {
		if analysisService == nil {
			return errors.New("analysis service not configured")
		}
		var err error
		result, err = analysisService.AnalyzeBatch(ctx, args, domain.AnalyzeOptions{UseLLM: tuiUseLLM})
		if err != nil && result == nil {
			return fmt.Errorf("analyze: %w", err)
		}
	}

	ports := &tui.Ports{
		Runs: runsService,
		Ask:  askService,
	}

	app, err := tui.NewApp(ports, result)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(ctx).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return nil
}
