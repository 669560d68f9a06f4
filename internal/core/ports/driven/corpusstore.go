package driven

import (
	"context"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// CorpusStore persists the embedded reference corpus between runs so an
// unchanged corpus is not re-embedded on every invocation.
type CorpusStore interface {
	// ReplaceAll atomically replaces the stored corpus with the given
	// chunks, embeddings included.
	ReplaceAll(ctx context.Context, chunks []domain.ReferenceChunk) error

	// LoadAll returns every stored chunk with its embedding.
	LoadAll(ctx context.Context) ([]domain.ReferenceChunk, error)

	// Count returns the number of stored chunks.
	Count(ctx context.Context) (int, error)

	// Dimension returns the embedding dimension of the stored corpus,
	// 0 when the store is empty.
	Dimension(ctx context.Context) (int, error)
}

// RunStore records completed analysis runs for history listings.
type RunStore interface {
	// SaveRun stores a completed run.
	SaveRun(ctx context.Context, run domain.Run) error

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]domain.Run, error)

	// GetRun retrieves a run by ID.
	// Returns domain.ErrNotFound when no such run exists.
	GetRun(ctx context.Context, id string) (*domain.Run, error)
}
