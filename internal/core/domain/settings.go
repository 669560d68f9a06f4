package domain

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// RetrievalBackend identifies where corpus embeddings live.
type RetrievalBackend string

// Available retrieval backends.
const (
	// RetrievalBackendFlat is the in-memory exact-scan index.
	RetrievalBackendFlat RetrievalBackend = "flat"

	// RetrievalBackendPgvector is a Postgres table with the vector
	// extension, for corpora shared between machines.
	RetrievalBackendPgvector RetrievalBackend = "pgvector"
)

// IsValid returns true if the backend is recognised.
func (b RetrievalBackend) IsValid() bool {
	switch b {
	case RetrievalBackendFlat, RetrievalBackendPgvector:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (b RetrievalBackend) String() string {
	return string(b)
}

// Description returns a human-readable description of the backend.
func (b RetrievalBackend) Description() string {
	switch b {
	case RetrievalBackendFlat:
		return "Flat (in-memory exact search)"
	case RetrievalBackendPgvector:
		return "pgvector (Postgres)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds retrieval index configuration.
type RetrievalSettings struct {
	// Backend selects the index implementation.
	Backend RetrievalBackend

	// TopK is the number of chunks retrieved per grounded-review query.
	TopK int

	// PostgresDSN is the connection string for the pgvector backend.
	PostgresDSN string
}

// ReviewSettings holds grounded-review behaviour configuration.
type ReviewSettings struct {
	// ContextTokenBudget caps the grounding context size in tokens.
	ContextTokenBudget int

	// RequestsPerSecond throttles provider calls. Zero means unlimited.
	RequestsPerSecond float64

	// Burst is the rate limiter burst size.
	Burst int
}

// CorpusSettings holds reference corpus configuration.
type CorpusSettings struct {
	// Dir is the reference corpus folder of plain-text files.
	// An absent folder disables grounded review.
	Dir string
}

// StorageSettings holds local store configuration.
type StorageSettings struct {
	// Path is the SQLite database file. Empty selects the default
	// location next to the config file.
	Path string
}

// OutputSettings holds artifact locations.
type OutputSettings struct {
	// OutputDir receives reviewed copies and analysis JSON.
	OutputDir string

	// UploadDir receives files saved by the HTTP surface.
	UploadDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// LLM holds LLM provider settings.
	LLM LLMSettings

	// Retrieval holds retrieval index settings.
	Retrieval RetrievalSettings

	// Review holds grounded-review settings.
	Review ReviewSettings

	// Corpus holds reference corpus settings.
	Corpus CorpusSettings

	// Storage holds local store settings.
	Storage StorageSettings

	// Output holds artifact locations.
	Output OutputSettings

	// ChecklistPath optionally overrides the embedded checklist table.
	ChecklistPath string
}

// DefaultAppSettings returns settings with sensible defaults.
// AI features (Embedding, LLM) are left unconfigured by default; users
// must explicitly configure them via settings.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		// Embedding and LLM are left unconfigured - heuristic checks
		// run without them.
		Embedding: EmbeddingSettings{},
		LLM:       LLMSettings{},
		Retrieval: RetrievalSettings{
			Backend: RetrievalBackendFlat,
			TopK:    3,
		},
		Review: ReviewSettings{
			ContextTokenBudget: 1024,
		},
		Corpus: CorpusSettings{
			Dir: "adgm_refs",
		},
		Output: OutputSettings{
			OutputDir: "outputs",
			UploadDir: "uploads",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
