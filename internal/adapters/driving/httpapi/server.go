// Package httpapi exposes the analysis pipeline over HTTP: multipart
// document upload, run history and a liveness probe.
package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
)

// Ports bundles the driving-side services the server dispatches to.
type Ports struct {
	Analysis driving.AnalysisService
	Runs     driving.RunsService
}

// Server is the HTTP front end of the analysis pipeline.
type Server struct {
	cfg       Config
	ports     Ports
	uploadDir string
	logger    zerolog.Logger
	validate  *validator.Validate
	router    *chi.Mux
	server    *http.Server
}

// NewServer builds the router and the underlying http.Server. Uploads
// are written into uploadDir before analysis.
func NewServer(cfg Config, ports Ports, uploadDir string, logger zerolog.Logger) *Server {
	s := &Server{
		cfg:       cfg,
		ports:     ports,
		uploadDir: uploadDir,
		logger:    logger,
		validate:  validator.New(),
	}

	router := chi.NewRouter()
	router.Use(requestLogger(&s.logger))
	router.Use(middleware.Recoverer)

	router.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Get("/runs", s.handleRuns)
		r.Get("/runs/{id}", s.handleRun)
	})
	router.Get("/healthz", s.handleHealthz)

	s.router = router
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Router returns the configured handler, used directly in tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Run serves until the context is cancelled, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.server.Addr).Msg("starting server")
		serverErrors <- s.server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		s.logger.Info().Msg("shutdown initiated")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error().Err(err).Msg("graceful shutdown failed")
			return s.server.Close()
		}
	}
	return nil
}
