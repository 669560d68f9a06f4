package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
)

// Ensure RunsService implements the interface.
var _ driving.RunsService = (*RunsService)(nil)

// defaultRunsLimit caps history listings when the caller does not ask
// for a specific limit.
const defaultRunsLimit = 20

// RunsService exposes recorded analysis runs.
type RunsService struct {
	store driven.RunStore
}

// NewRunsService creates a new runs service. The store is optional;
// without one, listings are empty.
func NewRunsService(store driven.RunStore) *RunsService {
	return &RunsService{store: store}
}

// List returns the most recent runs, newest first.
func (s *RunsService) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if s.store == nil {
		return []domain.Run{}, nil
	}
	if limit <= 0 {
		limit = defaultRunsLimit
	}
	runs, err := s.store.ListRuns(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Latest returns the most recent run.
func (s *RunsService) Latest(ctx context.Context) (*domain.Run, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	runs, err := s.store.ListRuns(ctx, 1)
	if err != nil {
		return nil, fmt.Errorf("load latest run: %w", err)
	}
	if len(runs) == 0 {
		return nil, domain.ErrNotFound
	}
	return &runs[0], nil
}

// Get returns the run with the given ID.
func (s *RunsService) Get(ctx context.Context, id string) (*domain.Run, error) {
	if s.store == nil {
		return nil, domain.ErrNotFound
	}
	run, err := s.store.GetRun(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("load run %q: %w", id, err)
	}
	return run, nil
}
