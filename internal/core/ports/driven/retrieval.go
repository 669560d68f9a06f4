package driven

import (
	"context"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// RetrievalIndex provides nearest-neighbour search over the reference
// corpus. Build is called exactly once; the index is read-only afterwards
// and safe for concurrent queries.
type RetrievalIndex interface {
	// Build embeds the given chunks and stores them for search.
	// Chunks arriving with a populated Embedding are stored as-is;
	// the rest are embedded in bulk. Returns domain.ErrEmptyCorpus
	// when no non-empty chunks are supplied.
	Build(ctx context.Context, chunks []domain.ReferenceChunk) error

	// Query embeds the text with the build-time embedding function and
	// returns the k nearest chunks ordered by non-decreasing distance.
	// Fewer than k results are returned only when the corpus is smaller
	// than k. Returns domain.ErrIndexNotBuilt before Build.
	Query(ctx context.Context, text string, k int) ([]domain.RetrievedChunk, error)

	// Count returns the number of indexed chunks, 0 before Build.
	Count() int

	// Close releases resources.
	Close() error
}
