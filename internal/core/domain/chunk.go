package domain

// ReferenceChunk is a unit of the retrieval corpus.
// Chunks are created in bulk at index-build time and are immutable; the
// retrieval index owns them for its lifetime.
type ReferenceChunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// SourceFile is the base name of the originating corpus file.
	SourceFile string

	// Text is the chunk content, prefixed with "[<source file>] " for
	// traceability in grounding context.
	Text string

	// Embedding is the vector representation, populated at build time.
	Embedding []float32
}

// RetrievedChunk pairs a corpus chunk with its distance to a query.
type RetrievedChunk struct {
	// Chunk is the matched corpus chunk.
	Chunk ReferenceChunk

	// Distance is the backend's L2 distance to the query embedding.
	// Smaller is nearer; values are comparable only within one backend.
	Distance float64
}
