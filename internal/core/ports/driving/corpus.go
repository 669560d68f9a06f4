package driving

import (
	"context"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// CorpusStatus describes the state of the reference corpus and its index.
type CorpusStatus struct {
	// Dir is the configured corpus folder.
	Dir string

	// Files counts the usable text files in the folder.
	Files int

	// Chunks counts the chunks in the built or stored index.
	Chunks int

	// Dimension is the embedding dimension, 0 when nothing is stored.
	Dimension int

	// Backend names the retrieval backend in use.
	Backend domain.RetrievalBackend

	// Snapshot is true when a persisted corpus snapshot exists.
	Snapshot bool
}

// CorpusService manages the reference corpus lifecycle.
type CorpusService interface {
	// Build chunks the corpus folder, embeds every chunk and snapshots
	// the result to the store. Returns the number of chunks indexed.
	Build(ctx context.Context) (int, error)

	// Ensure makes the retrieval index ready for queries: reloads the
	// persisted snapshot when one exists, otherwise builds from the
	// folder. Returns the number of chunks indexed. Calling Ensure on
	// an already-built index is a no-op.
	Ensure(ctx context.Context) (int, error)

	// Status reports the corpus and index state without building.
	Status(ctx context.Context) (*CorpusStatus, error)

	// Fetch downloads reference .txt files from a public repository
	// into the corpus folder and returns the local paths written.
	Fetch(ctx context.Context, owner, repo, ref, path string) ([]string, error)
}

// AskService answers direct questions against the retrieval index.
type AskService interface {
	// Ask returns the k nearest reference chunks for the question.
	Ask(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error)
}
