// Package cli implements the command-line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driven/ai"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driven/config/checklist"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driven/config/file"
	githubfetch "github.com/redmark-labs/redmark-cli/internal/adapters/driven/corpusfetch/github"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driven/docx"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driven/storage/sqlite"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
	"github.com/redmark-labs/redmark-cli/internal/core/services"
	"github.com/redmark-labs/redmark-cli/internal/logger"
)

// Version information, set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Services wired on first use. Tests inject their own implementations
// directly, which short-circuits the wiring helpers below.
var (
	analysisService driving.AnalysisService
	corpusService   driving.CorpusService
	askService      driving.AskService
	runsService     driving.RunsService
	settingsService driving.SettingsService
)

// servicesWired marks the service variables as externally provided.
// Tests set it after injecting fakes so the wiring helpers leave them
// alone, including ones deliberately left nil.
var servicesWired bool

// appChecklist is the loaded process table, shared with the surfaces
// that expose it directly (MCP, TUI).
var appChecklist domain.Checklist

// closers releases wired resources after the command finishes, in
// reverse wiring order.
var closers []func()

var (
	verbose   bool
	configDir string

	// corpusDirOverride replaces the configured corpus folder for this
	// invocation when the review or corpus command sets --corpus.
	corpusDirOverride string
)

var rootCmd = &cobra.Command{
	Use:   "redmark",
	Short: "Compliance review for ADGM corporate documents",
	Long: `Redmark reviews .docx corporate documents against Abu Dhabi Global
Market (ADGM) rules. Each document is classified, checked for red
flags, and optionally sent through a grounded LLM review backed by a
reference corpus. The batch as a whole is matched against the
incorporation checklist to spot missing documents.

Reviewed copies carry inline [Severity: issue] annotations and every
run produces a JSON artifact alongside them.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.redmark)")
}

// Execute runs the root command and releases wired resources.
func Execute() error {
	defer closeResources()
	return rootCmd.Execute()
}

// ensureSettingsService wires the TOML-backed settings service. Cheap
// enough for every command except version, which skips wiring entirely.
func ensureSettingsService() error {
	if servicesWired || settingsService != nil {
		return nil
	}
	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("open config store: %w", err)
	}
	settingsService = services.NewSettingsService(configStore, ai.NewConfigValidator())
	return nil
}

// ensureRunsService wires the run history store on its own, keeping
// the runs command fast when an AI provider is configured but down.
func ensureRunsService() error {
	if servicesWired || runsService != nil {
		return nil
	}
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	runsService = services.NewRunsService(openRunStore(settings))
	return nil
}

// ensureAnalysisStack wires the full pipeline: storage, checklist, AI
// providers, retrieval index and the core services. Providers that are
// unconfigured or unreachable degrade to heuristic-only analysis with
// a warning rather than failing the command.
func ensureAnalysisStack(ctx context.Context) error {
	if servicesWired || analysisService != nil {
		return nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	if corpusDirOverride != "" {
		settings.Corpus.Dir = corpusDirOverride
	}

	table, err := checklist.Load(settings.ChecklistPath)
	if err != nil {
		return err
	}
	appChecklist = table

	var runStore driven.RunStore
	var corpusStore driven.CorpusStore
	if store, err := sqlite.NewStore(settings.Storage.Path); err != nil {
		logger.Warn("Local store unavailable, runs will not be recorded: %v", err)
	} else {
		closers = append(closers, func() { _ = store.Close() })
		runStore = store.RunStore()
		corpusStore = store.CorpusStore()
	}

	aiResult := ai.InitServices(ctx, *settings)
	for _, warning := range aiResult.Warnings {
		logger.Warn("%s", warning)
	}
	closers = append(closers, aiResult.Close)

	var reviewer *services.ReviewService
	if aiResult.LLMService != nil && aiResult.RetrievalIndex != nil {
		reviewer = services.NewReviewService(
			aiResult.LLMService,
			aiResult.RetrievalIndex,
			aiResult.TokenCounter,
			settings.Retrieval.TopK,
			settings.Review.ContextTokenBudget,
		)
		if prompts, err := file.NewPromptStore(""); err == nil {
			reviewer.SetPromptStore(prompts)
		} else {
			logger.Warn("Prompt store unavailable, using built-in prompts: %v", err)
		}
	}

	corpusService = services.NewCorpusService(
		aiResult.EmbeddingService,
		aiResult.RetrievalIndex,
		corpusStore,
		githubfetch.NewFetcher(),
		settings.Corpus.Dir,
		settings.Retrieval.Backend,
	)
	askService = services.NewAskService(corpusService, aiResult.RetrievalIndex, settings.Retrieval.TopK)
	if runsService == nil {
		runsService = services.NewRunsService(runStore)
	}
	analysisService = services.NewAnalysisService(
		docx.NewCodec(),
		table,
		reviewer,
		runStore,
		settings.Output.OutputDir,
	)
	return nil
}

// openRunStore opens the SQLite store for history access. A store
// failure degrades to empty history rather than failing the command.
func openRunStore(settings *domain.AppSettings) driven.RunStore {
	store, err := sqlite.NewStore(settings.Storage.Path)
	if err != nil {
		logger.Warn("Run history unavailable: %v", err)
		return nil
	}
	closers = append(closers, func() { _ = store.Close() })
	return store.RunStore()
}

func closeResources() {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
	closers = nil
}
