package memory

import (
	"context"
	"sync"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

// Ensure CorpusStore implements the interface.
var _ driven.CorpusStore = (*CorpusStore)(nil)

// CorpusStore is an in-memory implementation of driven.CorpusStore for
// testing and for running without a store file.
type CorpusStore struct {
	mu     sync.RWMutex
	chunks []domain.ReferenceChunk
}

// NewCorpusStore creates a new in-memory corpus store.
func NewCorpusStore() *CorpusStore {
	return &CorpusStore{}
}

// ReplaceAll atomically replaces the stored corpus.
func (s *CorpusStore) ReplaceAll(_ context.Context, chunks []domain.ReferenceChunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = copyChunks(chunks)
	return nil
}

// LoadAll returns every stored chunk with its embedding.
func (s *CorpusStore) LoadAll(_ context.Context) ([]domain.ReferenceChunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyChunks(s.chunks), nil
}

// Count returns the number of stored chunks.
func (s *CorpusStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks), nil
}

// Dimension returns the embedding dimension of the stored corpus.
func (s *CorpusStore) Dimension(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.chunks {
		if len(c.Embedding) > 0 {
			return len(c.Embedding), nil
		}
	}
	return 0, nil
}

// copyChunks deep-copies chunk slices so callers cannot mutate stored
// embeddings.
func copyChunks(chunks []domain.ReferenceChunk) []domain.ReferenceChunk {
	out := make([]domain.ReferenceChunk, len(chunks))
	for i, c := range chunks {
		out[i] = c
		if c.Embedding != nil {
			out[i].Embedding = make([]float32, len(c.Embedding))
			copy(out[i].Embedding, c.Embedding)
		}
	}
	return out
}
