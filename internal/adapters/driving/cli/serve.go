package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/httpapi"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the analysis pipeline over HTTP",
	Long: `Serve starts the HTTP API: multipart document upload on
POST /api/v1/analyze, run history on GET /api/v1/runs and
GET /api/v1/runs/{id}, and a liveness probe on GET /healthz. The
listener is configured through REDMARK_* environment variables and
shuts down gracefully on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides REDMARK_ADDR)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := ensureSettingsService(); err != nil {
		return err
	}
	if err := ensureAnalysisStack(cmd.Context()); err != nil {
		return err
	}
	if analysisService == nil || runsService == nil {
		return errors.New("analysis service not configured")
	}

	cfg, err := httpapi.LoadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()
	server := httpapi.NewServer(*cfg, httpapi.Ports{
		Analysis: analysisService,
		Runs:     runsService,
	}, settings.Output.UploadDir, logger)

	cmd.Printf("Listening on %s\n", cfg.Addr)
	if err := server.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}
