package services

import (
	"fmt"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider    = "embedding.provider"
	keyEmbedModel       = "embedding.model"
	keyEmbedBaseURL     = "embedding.base_url"
	keyEmbedAPIKey      = "embedding.api_key"
	keyLLMProvider      = "llm.provider"
	keyLLMModel         = "llm.model"
	keyLLMBaseURL       = "llm.base_url"
	keyLLMAPIKey        = "llm.api_key"
	keyRetrievalBackend = "retrieval.backend"
	keyRetrievalTopK    = "retrieval.top_k"
	keyRetrievalDSN     = "retrieval.postgres_dsn"
	keyReviewBudget     = "review.context_token_budget"
	keyReviewRPS        = "review.requests_per_second"
	keyReviewBurst      = "review.burst"
	keyCorpusDir        = "corpus.dir"
	keyStoragePath      = "storage.path"
	keyOutputDir        = "output.dir"
	keyUploadDir        = "output.upload_dir"
	keyChecklistPath    = "checklist.path"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
		},
		Retrieval: domain.RetrievalSettings{
			Backend:     s.getBackend(defaults.Retrieval.Backend),
			TopK:        s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			PostgresDSN: s.configStore.GetString(keyRetrievalDSN),
		},
		Review: domain.ReviewSettings{
			ContextTokenBudget: s.getInt(keyReviewBudget, defaults.Review.ContextTokenBudget),
			RequestsPerSecond:  s.getFloat(keyReviewRPS, defaults.Review.RequestsPerSecond),
			Burst:              s.getInt(keyReviewBurst, defaults.Review.Burst),
		},
		Corpus: domain.CorpusSettings{
			Dir: s.getString(keyCorpusDir, defaults.Corpus.Dir),
		},
		Storage: domain.StorageSettings{
			Path: s.configStore.GetString(keyStoragePath),
		},
		Output: domain.OutputSettings{
			OutputDir: s.getString(keyOutputDir, defaults.Output.OutputDir),
			UploadDir: s.getString(keyUploadDir, defaults.Output.UploadDir),
		},
		ChecklistPath: s.configStore.GetString(keyChecklistPath),
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	// Save embedding settings
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	// Save LLM settings
	if err := s.configStore.Set(keyLLMProvider, settings.LLM.Provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, settings.LLM.Model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}
	if err := s.configStore.Set(keyLLMBaseURL, settings.LLM.BaseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}
	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	// Save retrieval settings
	if err := s.configStore.Set(keyRetrievalBackend, settings.Retrieval.Backend.String()); err != nil {
		return fmt.Errorf("save retrieval backend: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalTopK, settings.Retrieval.TopK); err != nil {
		return fmt.Errorf("save retrieval top_k: %w", err)
	}
	if err := s.configStore.Set(keyRetrievalDSN, settings.Retrieval.PostgresDSN); err != nil {
		return fmt.Errorf("save retrieval postgres_dsn: %w", err)
	}

	// Save review settings
	if err := s.configStore.Set(keyReviewBudget, settings.Review.ContextTokenBudget); err != nil {
		return fmt.Errorf("save review context_token_budget: %w", err)
	}
	if err := s.configStore.Set(keyReviewRPS, settings.Review.RequestsPerSecond); err != nil {
		return fmt.Errorf("save review requests_per_second: %w", err)
	}
	if err := s.configStore.Set(keyReviewBurst, settings.Review.Burst); err != nil {
		return fmt.Errorf("save review burst: %w", err)
	}

	// Save corpus, storage and output settings
	if err := s.configStore.Set(keyCorpusDir, settings.Corpus.Dir); err != nil {
		return fmt.Errorf("save corpus dir: %w", err)
	}
	if err := s.configStore.Set(keyStoragePath, settings.Storage.Path); err != nil {
		return fmt.Errorf("save storage path: %w", err)
	}
	if err := s.configStore.Set(keyOutputDir, settings.Output.OutputDir); err != nil {
		return fmt.Errorf("save output dir: %w", err)
	}
	if err := s.configStore.Set(keyUploadDir, settings.Output.UploadDir); err != nil {
		return fmt.Errorf("save upload dir: %w", err)
	}
	if err := s.configStore.Set(keyChecklistPath, settings.ChecklistPath); err != nil {
		return fmt.Errorf("save checklist path: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	// Validate provider supports embeddings
	validProviders := domain.AllEmbeddingProviders()
	valid := false
	for _, p := range validProviders {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.Embedding.Model = model
	} else {
		defaults := domain.DefaultEmbeddingModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.Embedding.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.Embedding.BaseURL = ""
	}

	// Set API key
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	// Validate API key if required
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		defaults := domain.DefaultLLMModels()
		if defaultModel, ok := defaults[provider]; ok {
			settings.LLM.Model = defaultModel
		}
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		// Local providers need a base URL
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	// Set API key
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetRetrievalBackend selects the retrieval index implementation.
func (s *SettingsService) SetRetrievalBackend(backend domain.RetrievalBackend, dsn string) error {
	if !backend.IsValid() {
		return fmt.Errorf("invalid retrieval backend: %s", backend)
	}
	if backend == domain.RetrievalBackendPgvector && dsn == "" {
		return fmt.Errorf("postgres DSN required for %s backend", backend)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Retrieval.Backend = backend
	if backend == domain.RetrievalBackendPgvector {
		settings.Retrieval.PostgresDSN = dsn
	}

	return s.Save(settings)
}

// SetCorpusDir sets the reference corpus folder.
func (s *SettingsService) SetCorpusDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("corpus dir cannot be empty")
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Corpus.Dir = dir

	return s.Save(settings)
}

// Validate checks if current settings are internally consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Retrieval.Backend.IsValid() {
		return fmt.Errorf("invalid retrieval backend: %s", settings.Retrieval.Backend)
	}
	if settings.Retrieval.Backend == domain.RetrievalBackendPgvector && settings.Retrieval.PostgresDSN == "" {
		return fmt.Errorf(
			"retrieval backend %q requires a postgres DSN",
			settings.Retrieval.Backend.Description(),
		)
	}
	if settings.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", settings.Retrieval.TopK)
	}
	if settings.Review.ContextTokenBudget <= 0 {
		return fmt.Errorf("review context_token_budget must be positive, got %d", settings.Review.ContextTokenBudget)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	val, exists := s.configStore.Get(key)
	if !exists {
		return defaultVal
	}
	switch v := val.(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case int:
		return float64(v)
	default:
		return defaultVal
	}
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.RetrievalBackend) domain.RetrievalBackend {
	val := s.configStore.GetString(keyRetrievalBackend)
	if val == "" {
		return defaultVal
	}
	backend := domain.RetrievalBackend(val)
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}
