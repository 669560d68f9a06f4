package domain

// AnalyzeOptions configures one analysis run.
type AnalyzeOptions struct {
	// UseLLM enables grounded review when the LLM, embedding service
	// and retrieval index are all available.
	UseLLM bool

	// TopK overrides the configured retrieval depth. Zero keeps the
	// configured value.
	TopK int

	// OutputDir overrides the configured output directory. Empty keeps
	// the configured value.
	OutputDir string
}
