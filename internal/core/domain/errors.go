package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates a document format no codec can handle.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Grounded review is disabled without it; heuristic checks still run.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// The retrieval index cannot be built without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexNotBuilt indicates a query was issued before the retrieval
	// index was built. Build must complete before Query.
	ErrIndexNotBuilt = errors.New("retrieval index not built")

	// ErrEmptyCorpus indicates the reference corpus yielded no usable chunks.
	ErrEmptyCorpus = errors.New("no reference text found in corpus")

	// ErrCorpusUnavailable indicates no reference corpus is configured.
	// Grounded review is disabled without it; heuristic checks still run.
	ErrCorpusUnavailable = errors.New("reference corpus unavailable")

	// ErrRateLimited indicates the provider API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
