package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

var (
	runsLimit int
	runsJSON  bool
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded analysis runs",
	Long: `Runs lists the analysis history from the local store, newest first:
run id, completion time, inferred process and issue count.`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "l", 20, "maximum number of runs to list")
	runsCmd.Flags().BoolVar(&runsJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if err := ensureSettingsService(); err != nil {
		return err
	}
	if err := ensureRunsService(); err != nil {
		return err
	}
	if runsService == nil {
		return errors.New("runs service not configured")
	}

	runs, err := runsService.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if runsJSON {
		return outputRunsJSON(cmd, runs)
	}
	outputRunsTable(cmd, runs)
	return nil
}

func outputRunsJSON(cmd *cobra.Command, runs []domain.Run) error {
	type runOut struct {
		ID                string    `json:"id"`
		CreatedAt         time.Time `json:"created_at"`
		Process           string    `json:"process"`
		DocumentsUploaded int       `json:"documents_uploaded"`
		Issues            int       `json:"issues"`
	}
	out := make([]runOut, len(runs))
	for i, run := range runs {
		out[i] = runOut{
			ID:                run.ID,
			CreatedAt:         run.CreatedAt,
			Process:           run.Process,
			DocumentsUploaded: run.DocumentsUploaded,
			Issues:            run.Issues,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal runs: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputRunsTable(cmd *cobra.Command, runs []domain.Run) {
	if len(runs) == 0 {
		cmd.Println("No runs recorded")
		return
	}
	cmd.Printf("%-10s %-17s %-24s %-6s %s\n", "ID", "WHEN", "PROCESS", "DOCS", "ISSUES")
	for _, run := range runs {
		cmd.Printf("%-10s %-17s %-24s %-6d %d\n",
			shortID(run.ID),
			run.CreatedAt.Format("2006-01-02 15:04"),
			run.Process,
			run.DocumentsUploaded,
			run.Issues,
		)
	}
}

// shortID abbreviates a run id for table display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
