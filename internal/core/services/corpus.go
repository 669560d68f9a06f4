package services

import (
	"context"
	"fmt"
	"os"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
	"github.com/redmark-labs/redmark-cli/internal/corpus"
	"github.com/redmark-labs/redmark-cli/internal/logger"
)

// Ensure CorpusService implements the interface.
var _ driving.CorpusService = (*CorpusService)(nil)

// CorpusService manages the reference corpus: loading the folder,
// embedding chunks, building the retrieval index and snapshotting the
// result. The store and fetcher are optional.
type CorpusService struct {
	embedder driven.EmbeddingService
	index    driven.RetrievalIndex
	store    driven.CorpusStore
	fetcher  driven.CorpusFetcher
	dir      string
	backend  domain.RetrievalBackend
}

// NewCorpusService creates a new corpus service.
func NewCorpusService(
	embedder driven.EmbeddingService,
	index driven.RetrievalIndex,
	store driven.CorpusStore,
	fetcher driven.CorpusFetcher,
	dir string,
	backend domain.RetrievalBackend,
) *CorpusService {
	return &CorpusService{
		embedder: embedder,
		index:    index,
		store:    store,
		fetcher:  fetcher,
		dir:      dir,
		backend:  backend,
	}
}

// Build chunks the corpus folder, embeds every chunk, builds the index
// and replaces the persisted snapshot. Returns the number of chunks.
func (s *CorpusService) Build(ctx context.Context) (int, error) {
	logger.Section("Corpus Build")
	logger.Debug("Corpus dir: %s", s.dir)

	chunks, err := corpus.LoadFolder(s.dir)
	if err != nil {
		return 0, fmt.Errorf("load corpus: %w", err)
	}
	logger.Info("Loaded %d chunks from %s", len(chunks), s.dir)

	if s.embedder == nil {
		return 0, domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(chunks) {
		return 0, fmt.Errorf("embed corpus: got %d vectors for %d chunks", len(vectors), len(chunks))
	}
	for i := range chunks {
		chunks[i].Embedding = vectors[i]
	}

	if err := s.index.Build(ctx, chunks); err != nil {
		return 0, fmt.Errorf("build index: %w", err)
	}

	if s.store != nil {
		if err := s.store.ReplaceAll(ctx, chunks); err != nil {
			return 0, fmt.Errorf("snapshot corpus: %w", err)
		}
		logger.Debug("Snapshot saved: %d chunks", len(chunks))
	}

	return len(chunks), nil
}

// Ensure makes the retrieval index ready for queries. An already-built
// index is left alone; otherwise the persisted snapshot is reloaded
// when present, and the folder is built from scratch as a last resort.
func (s *CorpusService) Ensure(ctx context.Context) (int, error) {
	if n := s.index.Count(); n > 0 {
		return n, nil
	}

	if s.store != nil {
		stored, err := s.store.LoadAll(ctx)
		switch {
		case err != nil:
			logger.Warn("Load corpus snapshot: %v", err)
		case len(stored) > 0:
			if err := s.index.Build(ctx, stored); err != nil {
				return 0, fmt.Errorf("rebuild index from snapshot: %w", err)
			}
			logger.Debug("Index restored from snapshot: %d chunks", len(stored))
			return len(stored), nil
		}
	}

	return s.Build(ctx)
}

// Status reports the corpus folder and index state without building
// anything.
func (s *CorpusService) Status(ctx context.Context) (*driving.CorpusStatus, error) {
	status := &driving.CorpusStatus{
		Dir:     s.dir,
		Files:   corpus.CountTextFiles(s.dir),
		Chunks:  s.index.Count(),
		Backend: s.backend,
	}

	if s.store != nil {
		count, err := s.store.Count(ctx)
		if err != nil {
			return nil, fmt.Errorf("count stored chunks: %w", err)
		}
		status.Snapshot = count > 0
		if status.Chunks == 0 {
			status.Chunks = count
		}
		dim, err := s.store.Dimension(ctx)
		if err != nil {
			return nil, fmt.Errorf("read stored dimension: %w", err)
		}
		status.Dimension = dim
	}
	if status.Dimension == 0 && s.embedder != nil {
		status.Dimension = s.embedder.Dimensions()
	}

	return status, nil
}

// Fetch downloads reference .txt files into the corpus folder.
func (s *CorpusService) Fetch(ctx context.Context, owner, repo, ref, path string) ([]string, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("corpus fetcher not configured")
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create corpus dir: %w", err)
	}

	logger.Section("Corpus Fetch")
	logger.Debug("Repository: %s/%s ref=%q path=%q", owner, repo, ref, path)

	files, err := s.fetcher.FetchTextFiles(ctx, owner, repo, ref, path, s.dir)
	if err != nil {
		return nil, fmt.Errorf("fetch reference files: %w", err)
	}
	logger.Info("Fetched %d reference files into %s", len(files), s.dir)
	return files, nil
}
