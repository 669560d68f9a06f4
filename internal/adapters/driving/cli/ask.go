package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Query the reference corpus directly",
	Long: `Ask embeds the question and returns the nearest reference chunks from
the retrieval index, with their source files and distances. The index
is built from the corpus folder on first use.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to return (0 uses the configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if err := ensureSettingsService(); err != nil {
		return err
	}
	if err := ensureAnalysisStack(cmd.Context()); err != nil {
		return err
	}
	if askService == nil {
		return errors.New("ask service not configured")
	}

	chunks, err := askService.Ask(cmd.Context(), args[0], askTopK)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputChunksJSON(cmd, chunks)
	}
	outputChunksTable(cmd, chunks, args[0])
	return nil
}

func outputChunksJSON(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	type chunkOut struct {
		Source   string  `json:"source"`
		Text     string  `json:"text"`
		Distance float64 `json:"distance"`
	}
	out := make([]chunkOut, len(chunks))
	for i, c := range chunks {
		out[i] = chunkOut{
			Source:   c.Chunk.SourceFile,
			Text:     c.Chunk.Text,
			Distance: c.Distance,
		}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal chunks: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputChunksTable(cmd *cobra.Command, chunks []domain.RetrievedChunk, question string) {
	if len(chunks) == 0 {
		cmd.Printf("No references found for %q\n", question)
		return
	}
	cmd.Printf("Found %d references for %q:\n\n", len(chunks), question)
	for i, c := range chunks {
		cmd.Printf("%d. %s (distance %.4f)\n", i+1, c.Chunk.SourceFile, c.Distance)
		cmd.Printf("   %s\n\n", c.Chunk.Text)
	}
}
