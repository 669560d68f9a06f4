// Package pgvector implements the retrieval index on PostgreSQL with
// the pgvector extension.
package pgvector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

const (
	createExtensionSQL = `CREATE EXTENSION IF NOT EXISTS vector`
	dropTableSQL       = `DROP TABLE IF EXISTS corpus_chunks`
	createTableSQL     = `CREATE TABLE corpus_chunks (
	id TEXT PRIMARY KEY,
	source_file TEXT NOT NULL,
	content TEXT NOT NULL,
	embedding vector(%d) NOT NULL
)`
	createIndexSQL = `CREATE INDEX idx_corpus_chunks_embedding ON corpus_chunks USING ivfflat (embedding vector_l2_ops) WITH (lists = 100)`
	insertChunkSQL = `INSERT INTO corpus_chunks (id, source_file, content, embedding) VALUES ($1, $2, $3, $4)`
	selectNearSQL  = `SELECT id, source_file, content, embedding, embedding <-> $1 FROM corpus_chunks ORDER BY embedding <-> $1 LIMIT $2`
	countSQL       = `SELECT count(*) FROM corpus_chunks`
	probeDimSQL    = `SELECT vector_dims(embedding) FROM corpus_chunks LIMIT 1`

	undefinedTableCode = "42P01"
)

// Index stores corpus chunks in a corpus_chunks table and delegates
// nearest-neighbour ordering to the pgvector L2 operator. A table left
// behind by a previous run is adopted on startup, so the corpus
// survives process restarts without a rebuild.
type Index struct {
	pool     *pgxpool.Pool
	embedder driven.EmbeddingService

	mu    sync.RWMutex
	count int
	dim   int
	built bool
}

var _ driven.RetrievalIndex = (*Index)(nil)

// NewIndex connects to dsn and probes for an existing corpus table.
func NewIndex(ctx context.Context, dsn string, embedder driven.EmbeddingService) (*Index, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	idx := &Index{pool: pool, embedder: embedder}
	if err := idx.probe(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("probe corpus table: %w", err)
	}
	return idx, nil
}

// probe adopts a corpus_chunks table left by a previous run, if any.
func (idx *Index) probe(ctx context.Context) error {
	var count int
	err := idx.pool.QueryRow(ctx, countSQL).Scan(&count)
	if isUndefinedTable(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	var dim int
	if err := idx.pool.QueryRow(ctx, probeDimSQL).Scan(&dim); err != nil {
		return err
	}

	idx.mu.Lock()
	idx.count = count
	idx.dim = dim
	idx.built = true
	idx.mu.Unlock()
	return nil
}

// Build replaces the corpus table with the given chunks, embedding any
// that arrive without a vector.
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

	tx, err := idx.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	statements := []string{
		createExtensionSQL,
		dropTableSQL,
		fmt.Sprintf(createTableSQL, dim),
		createIndexSQL,
	}
	for _, stmt := range statements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("prepare corpus table: %w", err)
		}
	}
	for _, chunk := range kept {
		_, err := tx.Exec(ctx, insertChunkSQL, chunk.ID, chunk.SourceFile, chunk.Text, pgv.NewVector(chunk.Embedding))
		if err != nil {
			return fmt.Errorf("insert chunk %s: %w", chunk.ID, err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit corpus table: %w", err)
	}

	idx.mu.Lock()
	idx.count = len(kept)
	idx.dim = dim
	idx.built = true
	idx.mu.Unlock()
	return nil
}

// Query returns the k nearest chunks by L2 distance, nearest first.
func (idx *Index) Query(ctx context.Context, text string, k int) ([]domain.RetrievedChunk, error) {
	idx.mu.RLock()
	built, dim := idx.built, idx.dim
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

	rows, err := idx.pool.Query(ctx, selectNearSQL, pgv.NewVector(query), k)
	if err != nil {
		return nil, fmt.Errorf("query corpus table: %w", err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		var (
			chunk    domain.ReferenceChunk
			vector   pgv.Vector
			distance float64
		)
		if err := rows.Scan(&chunk.ID, &chunk.SourceFile, &chunk.Text, &vector, &distance); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		chunk.Embedding = vector.Slice()
		results = append(results, domain.RetrievedChunk{Chunk: chunk, Distance: distance})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query corpus table: %w", err)
	}
	return results, nil
}

// Count returns the number of indexed chunks.
func (idx *Index) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.count
}

// Close releases the connection pool.
func (idx *Index) Close() error {
	idx.pool.Close()
	return nil
}

func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == undefinedTableCode
}
