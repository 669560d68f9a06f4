// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/redmark-labs/redmark-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/redmark-labs/redmark-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/redmark-labs/redmark-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/redmark-labs/redmark-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/redmark-labs/redmark-cli/internal/adapters/driven/llm/openai"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driven/retrieval/flat"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driven/retrieval/pgvector"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	RetrievalIndex   driven.RetrievalIndex
	TokenCounter     driven.TokenCounter
	Warnings         []string // Non-fatal issues that caused fallback.
	FellBack         bool     // True if fell back to heuristic-only mode.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.RetrievalIndex != nil {
		r.RetrievalIndex.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// InitServices creates every AI collaborator the analysis pipeline can
// use, degrading to heuristic-only operation when a configured provider
// is unreachable. Unconfigured providers produce nil services without
// warnings; that is the out-of-the-box state.
func InitServices(ctx context.Context, settings domain.AppSettings) *InitResult {
	result := &InitResult{}

	embedder, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
	}
	result.EmbeddingService = embedder

	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
	}
	if llm != nil {
		llm = NewRateLimitedLLM(llm, settings.Review.RequestsPerSecond, settings.Review.Burst)

		counter, err := NewTokenCounter(settings.LLM.Model)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("token counter unavailable, estimating context size: %v", err))
			counter = &TokenCounter{}
		}
		result.TokenCounter = counter
	}
	result.LLMService = llm

	// Grounded review needs the query text embedded at search time, so
	// without an embedding service no index is created at all.
	if embedder != nil {
		index, err := CreateRetrievalIndex(ctx, &settings.Retrieval, embedder)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%v, using in-memory index", err))
			index = flat.NewIndex(embedder)
		}
		result.RetrievalIndex = index
	}

	return result
}

// CreateRetrievalIndex creates the retrieval index selected by
// settings. An empty backend selects the in-memory flat index; the
// pgvector backend requires a connection string.
func CreateRetrievalIndex(ctx context.Context, settings *domain.RetrievalSettings, embedder driven.EmbeddingService) (driven.RetrievalIndex, error) {
	if settings == nil {
		return flat.NewIndex(embedder), nil
	}

	switch settings.Backend {
	case domain.RetrievalBackendFlat, "":
		return flat.NewIndex(embedder), nil

	case domain.RetrievalBackendPgvector:
		if settings.PostgresDSN == "" {
			return nil, fmt.Errorf("pgvector backend requires a postgres DSN")
		}
		index, err := pgvector.NewIndex(ctx, settings.PostgresDSN, embedder)
		if err != nil {
			return nil, fmt.Errorf("pgvector index: %w", err)
		}
		return index, nil

	default:
		return nil, fmt.Errorf("unsupported retrieval backend: %s", settings.Backend)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'redmark settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'redmark settings' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'redmark settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'redmark settings' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
// This is intended for use in the settings flow to validate credentials on configuration.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// This is intended for use in the settings flow to validate credentials on configuration.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
