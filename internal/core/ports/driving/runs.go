package driving

import (
	"context"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// RunsService exposes analysis history.
type RunsService interface {
	// List returns the most recent runs, newest first.
	List(ctx context.Context, limit int) ([]domain.Run, error)

	// Latest returns the most recent run.
	// Returns domain.ErrNotFound when no runs are recorded.
	Latest(ctx context.Context) (*domain.Run, error)

	// Get returns the run with the given ID.
	// Returns domain.ErrNotFound when no such run exists.
	Get(ctx context.Context, id string) (*domain.Run, error)
}
