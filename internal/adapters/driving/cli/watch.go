package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/watch"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

var (
	watchUseLLM bool
	watchOut    string
)

var watchCmd = &cobra.Command{
	Use:   "watch <dir>",
	Short: "Watch a folder and analyze incoming .docx documents",
	Long: `Watch monitors a folder and runs every new or modified .docx document
through the analysis pipeline, writing reviewed copies and JSON
artifacts exactly like the review command. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchUseLLM, "llm", false, "enable grounded LLM review")
	watchCmd.Flags().StringVarP(&watchOut, "out", "o", "", "output directory for reviewed copies and JSON artifacts")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := ensureSettingsService(); err != nil {
		return err
	}
	if err := ensureAnalysisStack(cmd.Context()); err != nil {
		return err
	}
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := domain.AnalyzeOptions{
		UseLLM:    watchUseLLM,
		OutputDir: watchOut,
	}
	handler := func(path string, result *domain.AnalysisResult, err error) {
		if err != nil {
			cmd.Printf("%s: %v\n", filepath.Base(path), err)
			return
		}
		if result != nil {
			outputResultTable(cmd, result)
		}
	}

	watcher := watch.New(analysisService, args[0], opts, 0, handler)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch: %w", err)
	}
	cmd.Println("Watch stopped")
	return nil
}
