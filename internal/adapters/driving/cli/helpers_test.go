package cli

import (
	"context"
	"time"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
)

// setupTestServices injects working fakes for every service and marks
// them wired so commands skip the real stack. The returned cleanup
// restores whatever was there before.
func setupTestServices() func() {
	restore := saveServices()

	analysisService = &mockAnalysisService{}
	corpusService = &mockCorpusService{}
	askService = &mockAskService{}
	runsService = &mockRunsService{}
	settingsService = &mockSettingsService{}
	servicesWired = true

	return restore
}

// setupNilServices marks the services wired while leaving them all
// nil, so commands surface their not-configured errors instead of
// wiring the real stack.
func setupNilServices() func() {
	restore := saveServices()

	analysisService = nil
	corpusService = nil
	askService = nil
	runsService = nil
	settingsService = nil
	servicesWired = true

	return restore
}

func saveServices() func() {
	oldAnalysis := analysisService
	oldCorpus := corpusService
	oldAsk := askService
	oldRuns := runsService
	oldSettings := settingsService
	oldWired := servicesWired

	return func() {
		analysisService = oldAnalysis
		corpusService = oldCorpus
		askService = oldAsk
		runsService = oldRuns
		settingsService = oldSettings
		servicesWired = oldWired
	}
}

// mockAnalysisService implements driving.AnalysisService. Funcs left
// nil fall back to a canned incorporation result.
type mockAnalysisService struct {
	analyzeBatchFunc func(ctx context.Context, paths []string, opts domain.AnalyzeOptions) (*domain.AnalysisResult, error)
	analyzeTextFunc  func(ctx context.Context, name string, raw []string, opts domain.AnalyzeOptions) (*domain.DocumentReport, error)
}

func (m *mockAnalysisService) AnalyzeBatch(
	ctx context.Context, paths []string, opts domain.AnalyzeOptions,
) (*domain.AnalysisResult, error) {
	if m.analyzeBatchFunc != nil {
		return m.analyzeBatchFunc(ctx, paths, opts)
	}
	required := 2
	return &domain.AnalysisResult{
		Process:           "Company Incorporation",
		DocumentsUploaded: len(paths),
		RequiredDocuments: &required,
		MissingDocuments:  []string{"Memorandum of Association"},
		Summary: []domain.DocumentSummary{
			{File: "articles.docx", Type: "Articles of Association", IssuesFound: 1},
		},
		Issues: []domain.IssueRecord{
			{
				Document:   "articles.docx",
				DocType:    "Articles of Association",
				Section:    "Paragraph 3",
				Issue:      "Jurisdiction clause does not specify ADGM",
				Severity:   domain.SeverityHigh,
				Suggestion: "Update jurisdiction to ADGM Courts.",
			},
		},
		ReviewedFiles: []string{"outputs/articles_reviewed.docx"},
	}, nil
}

func (m *mockAnalysisService) AnalyzeText(
	ctx context.Context, name string, raw []string, opts domain.AnalyzeOptions,
) (*domain.DocumentReport, error) {
	if m.analyzeTextFunc != nil {
		return m.analyzeTextFunc(ctx, name, raw, opts)
	}
	return &domain.DocumentReport{FileName: name, DocType: "Articles of Association"}, nil
}

// mockCorpusService implements driving.CorpusService.
type mockCorpusService struct {
	buildFunc  func(ctx context.Context) (int, error)
	ensureFunc func(ctx context.Context) (int, error)
	statusFunc func(ctx context.Context) (*driving.CorpusStatus, error)
	fetchFunc  func(ctx context.Context, owner, repo, ref, path string) ([]string, error)
}

func (m *mockCorpusService) Build(ctx context.Context) (int, error) {
	if m.buildFunc != nil {
		return m.buildFunc(ctx)
	}
	return 12, nil
}

func (m *mockCorpusService) Ensure(ctx context.Context) (int, error) {
	if m.ensureFunc != nil {
		return m.ensureFunc(ctx)
	}
	return 12, nil
}

func (m *mockCorpusService) Status(ctx context.Context) (*driving.CorpusStatus, error) {
	if m.statusFunc != nil {
		return m.statusFunc(ctx)
	}
	return &driving.CorpusStatus{
		Dir:       "adgm_refs",
		Files:     3,
		Chunks:    12,
		Dimension: 768,
		Backend:   domain.RetrievalBackendFlat,
		Snapshot:  true,
	}, nil
}

func (m *mockCorpusService) Fetch(ctx context.Context, owner, repo, ref, path string) ([]string, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, owner, repo, ref, path)
	}
	return []string{
		"adgm_refs/companies_regulations.txt",
		"adgm_refs/incorporation_checklist.txt",
	}, nil
}

// mockAskService implements driving.AskService.
type mockAskService struct {
	askFunc func(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error)
}

func (m *mockAskService) Ask(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error) {
	if m.askFunc != nil {
		return m.askFunc(ctx, question, k)
	}
	return []domain.RetrievedChunk{
		{
			Chunk: domain.ReferenceChunk{
				ID:         "companies_regulations.txt:0",
				SourceFile: "companies_regulations.txt",
				Text:       "Companies must specify ADGM Courts as the governing jurisdiction.",
			},
			Distance: 0.21,
		},
		{
			Chunk: domain.ReferenceChunk{
				ID:         "incorporation_checklist.txt:0",
				SourceFile: "incorporation_checklist.txt",
				Text:       "Incorporation requires Articles of Association and a Board Resolution.",
			},
			Distance: 0.35,
		},
	}, nil
}

// mockRunsService implements driving.RunsService.
type mockRunsService struct {
	listFunc   func(ctx context.Context, limit int) ([]domain.Run, error)
	latestFunc func(ctx context.Context) (*domain.Run, error)
	getFunc    func(ctx context.Context, id string) (*domain.Run, error)
}

func (m *mockRunsService) List(ctx context.Context, limit int) ([]domain.Run, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, limit)
	}
	return []domain.Run{
		{
			ID:                "0a1b2c3d4e5f6789",
			CreatedAt:         time.Date(2025, 8, 14, 9, 30, 0, 0, time.UTC),
			Process:           "Company Incorporation",
			DocumentsUploaded: 2,
			Issues:            3,
		},
	}, nil
}

func (m *mockRunsService) Latest(ctx context.Context) (*domain.Run, error) {
	if m.latestFunc != nil {
		return m.latestFunc(ctx)
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunsService) Get(ctx context.Context, id string) (*domain.Run, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return nil, domain.ErrNotFound
}

// mockSettingsService implements driving.SettingsService around an
// in-memory settings value, recording what callers change.
type mockSettingsService struct {
	settings    *domain.AppSettings
	getErr      error
	saveErr     error
	validateErr error

	saved     *domain.AppSettings
	backend   domain.RetrievalBackend
	corpusDir string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.settings == nil {
		defaults := domain.DefaultAppSettings()
		m.settings = &defaults
	}
	return m.settings, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = settings
	m.settings = settings
	return nil
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	settings, err := m.Get()
	if err != nil {
		return err
	}
	settings.Embedding.Provider = provider
	settings.Embedding.Model = model
	settings.Embedding.APIKey = apiKey
	return m.Save(settings)
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	settings, err := m.Get()
	if err != nil {
		return err
	}
	settings.LLM.Provider = provider
	settings.LLM.Model = model
	settings.LLM.APIKey = apiKey
	return m.Save(settings)
}

func (m *mockSettingsService) SetRetrievalBackend(backend domain.RetrievalBackend, dsn string) error {
	m.backend = backend
	settings, err := m.Get()
	if err != nil {
		return err
	}
	settings.Retrieval.Backend = backend
	settings.Retrieval.PostgresDSN = dsn
	return nil
}

func (m *mockSettingsService) SetCorpusDir(dir string) error {
	m.corpusDir = dir
	settings, err := m.Get()
	if err != nil {
		return err
	}
	settings.Corpus.Dir = dir
	return nil
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *mockSettingsService) ValidateLLMConfig() error { return nil }
