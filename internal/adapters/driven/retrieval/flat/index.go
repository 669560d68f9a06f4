// Package flat implements an in-memory exact nearest-neighbour index
// over the reference corpus.
package flat

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

// Index holds corpus chunks and their embeddings in memory and answers
// queries with an exhaustive squared-L2 scan. Exact search keeps result
// order deterministic, which matters for grounding context assembly;
// corpora here are hundreds of chunks, not millions.
type Index struct {
	embedder driven.EmbeddingService

	mu     sync.RWMutex
	chunks []domain.ReferenceChunk
	dim    int
	built  bool
}

var _ driven.RetrievalIndex = (*Index)(nil)

// NewIndex creates an index that embeds queries with embedder. A nil
// embedder still accepts pre-embedded chunks but cannot answer queries.
func NewIndex(embedder driven.EmbeddingService) *Index {
	return &Index{embedder: embedder}
}

// Build stores the given chunks, embedding any that arrive without a
// vector. Calling Build again replaces the previous contents.
func (idx *Index) Build(ctx context.Context, chunks []domain.ReferenceChunk) error {
	kept := make([]domain.ReferenceChunk, 0, len(chunks))
	for _, chunk := range chunks {
		if strings.TrimSpace(chunk.Text) == "" {
			continue
		}
		kept = append(kept, chunk)
	}
	if len(kept) == 0 {
		return domain.ErrEmptyCorpus
	}

	var pending []int
	for i, chunk := range kept {
		if len(chunk.Embedding) == 0 {
			pending = append(pending, i)
		}
	}
	if len(pending) > 0 {
		if idx.embedder == nil {
			return domain.ErrEmbeddingUnavailable
		}
		texts := make([]string, len(pending))
		for i, j := range pending {
			texts[i] = kept[j].Text
		}
		vectors, err := idx.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embed chunks: %w", err)
		}
		if len(vectors) != len(pending) {
			return fmt.Errorf("embed chunks: got %d vectors for %d texts", len(vectors), len(pending))
		}
		for i, j := range pending {
			kept[j].Embedding = vectors[i]
		}
	}

	dim := len(kept[0].Embedding)
	if dim == 0 {
		return fmt.Errorf("embedder produced empty vectors")
	}
	for _, chunk := range kept {
		if len(chunk.Embedding) != dim {
			return fmt.Errorf("inconsistent embedding dimensions: %d and %d", dim, len(chunk.Embedding))
		}
	}

	idx.mu.Lock()
	idx.chunks = kept
	idx.dim = dim
	idx.built = true
	idx.mu.Unlock()
	return nil
}

// Query returns the k nearest chunks by squared L2 distance, nearest
// first. Equal distances keep insertion order.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]domain.RetrievedChunk, error) {
	idx.mu.RLock()
	built, dim, chunks := idx.built, idx.dim, idx.chunks
	idx.mu.RUnlock()

	if !built {
		return nil, domain.ErrIndexNotBuilt
	}
	if k <= 0 {
		return nil, nil
	}
	if idx.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	query, err := idx.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(query) != dim {
		return nil, fmt.Errorf("query dimension %d does not match index dimension %d", len(query), dim)
	}

	results := make([]domain.RetrievedChunk, len(chunks))
	for i, chunk := range chunks {
		results[i] = domain.RetrievedChunk{
			Chunk:    chunk,
			Distance: squaredL2(query, chunk.Embedding),
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})
	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

// Count returns the number of indexed chunks.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.chunks)
}

// Close drops the indexed vectors. Subsequent queries report the index
// as not built.
func (idx *Index) Close() error {
	idx.mu.Lock()
	idx.chunks = nil
	idx.dim = 0
	idx.built = false
	idx.mu.Unlock()
	return nil
}

// squaredL2 computes the squared Euclidean distance between two vectors
// of equal length. Monotonic in true L2, so ranking is unaffected.
func squaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}
