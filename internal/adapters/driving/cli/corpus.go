package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	corpusFetchRepo string
	corpusFetchRef  string
	corpusFetchPath string
)

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "Manage the reference corpus and its retrieval index",
}

var corpusBuildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Chunk, embed and snapshot the reference corpus",
	Long: `Build loads every .txt file in the corpus folder, chunks it, embeds
each chunk and snapshots the result so later queries skip re-embedding.
Requires a configured embedding provider.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCorpusBuild,
}

var corpusStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show corpus folder and index state",
	Args:  cobra.NoArgs,
	RunE:  runCorpusStatus,
}

var corpusFetchCmd = &cobra.Command{
	Use:   "fetch [dir]",
	Short: "Download reference .txt files from a public GitHub repository",
	Long: `Fetch downloads the .txt files at --path in the given repository into
the corpus folder (or the directory argument). The client is anonymous
and stays within the unauthenticated GitHub rate limit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCorpusFetch,
}

func init() {
	corpusFetchCmd.Flags().StringVar(&corpusFetchRepo, "repo", "", "source repository as owner/name")
	corpusFetchCmd.Flags().StringVar(&corpusFetchRef, "ref", "", "git ref to fetch from (default branch when empty)")
	corpusFetchCmd.Flags().StringVar(&corpusFetchPath, "path", "", "directory within the repository")
	//nolint:errcheck // flag is declared right above
	corpusFetchCmd.MarkFlagRequired("repo")

	corpusCmd.AddCommand(corpusBuildCmd)
	corpusCmd.AddCommand(corpusStatusCmd)
	corpusCmd.AddCommand(corpusFetchCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusBuild(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		corpusDirOverride = args[0]
	}
	if err := wireCorpusService(cmd); err != nil {
		return err
	}

	count, err := corpusService.Build(cmd.Context())
	if err != nil {
		return fmt.Errorf("build corpus: %w", err)
	}
	cmd.Printf("Indexed %d chunks\n", count)
	return nil
}

func runCorpusStatus(cmd *cobra.Command, _ []string) error {
	if err := wireCorpusService(cmd); err != nil {
		return err
	}

	status, err := corpusService.Status(cmd.Context())
	if err != nil {
		return fmt.Errorf("corpus status: %w", err)
	}

	cmd.Printf("Corpus folder: %s (%d text files)\n", status.Dir, status.Files)
	cmd.Printf("Backend: %s\n", status.Backend)
	if status.Dimension > 0 {
		cmd.Printf("Chunks: %d (dimension %d)\n", status.Chunks, status.Dimension)
	} else {
		cmd.Printf("Chunks: %d\n", status.Chunks)
	}
	if status.Snapshot {
		cmd.Println("Snapshot: stored")
	} else {
		cmd.Println("Snapshot: none")
	}
	return nil
}

func runCorpusFetch(cmd *cobra.Command, args []string) error {
	owner, repo, ok := strings.Cut(corpusFetchRepo, "/")
	if !ok || owner == "" || repo == "" {
		return fmt.Errorf("--repo must be owner/name, got %q", corpusFetchRepo)
	}
	if len(args) == 1 {
		corpusDirOverride = args[0]
	}
	if err := wireCorpusService(cmd); err != nil {
		return err
	}

	written, err := corpusService.Fetch(cmd.Context(), owner, repo, corpusFetchRef, corpusFetchPath)
	if err != nil {
		return fmt.Errorf("fetch corpus: %w", err)
	}
	if len(written) == 0 {
		cmd.Println("No .txt files found at that location")
		return nil
	}
	cmd.Printf("Fetched %d files:\n", len(written))
	for _, path := range written {
		cmd.Printf("  %s\n", path)
	}
	return nil
}

func wireCorpusService(cmd *cobra.Command) error {
	if err := ensureSettingsService(); err != nil {
		return err
	}
	if err := ensureAnalysisStack(cmd.Context()); err != nil {
		return err
	}
	if corpusService == nil {
		return errors.New("corpus service not configured")
	}
	return nil
}
