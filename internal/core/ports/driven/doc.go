// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - DocumentCodec: Reads paragraphs from and writes annotations into documents
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, the retrieval index cannot be built.
//   - LLMService: Language model operations. Without it, grounded review is disabled.
//   - RetrievalIndex: Nearest-neighbour search over the reference corpus. Without it, grounded review is disabled.
//   - CorpusStore: Persists the built corpus between runs. Without it, the corpus is re-embedded each run.
//   - RunStore: Records analysis history. Without it, no history is kept.
//   - TokenCounter: Measures grounding context size. Without it, a byte-length estimate is used.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
