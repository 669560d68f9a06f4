package mcp

import (
	"context"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// mockAnalysisService is a mock implementation of driving.AnalysisService.
// AnalyzeText records its arguments so tests can assert the routing of
// parsed paragraphs and options.
type mockAnalysisService struct {
	result *domain.AnalysisResult
	report *domain.DocumentReport
	err    error

	gotName string
	gotRaw  []string
	gotOpts domain.AnalyzeOptions
}

func (m *mockAnalysisService) AnalyzeBatch(
	_ context.Context,
	_ []string,
	_ domain.AnalyzeOptions,
) (*domain.AnalysisResult, error) {
	return m.result, m.err
}

func (m *mockAnalysisService) AnalyzeText(
	_ context.Context,
	name string,
	raw []string,
	opts domain.AnalyzeOptions,
) (*domain.DocumentReport, error) {
	m.gotName = name
	m.gotRaw = raw
	m.gotOpts = opts
	return m.report, m.err
}

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	chunks []domain.RetrievedChunk
	err    error
}

func (m *mockAskService) Ask(_ context.Context, _ string, _ int) ([]domain.RetrievedChunk, error) {
	return m.chunks, m.err
}

// mockCodec is a mock implementation of driven.DocumentCodec.
type mockCodec struct {
	paragraphs []string
	err        error
}

func (m *mockCodec) Parse(_ context.Context, _ string) ([]string, error) {
	return m.paragraphs, m.err
}

func (m *mockCodec) Annotate(_ context.Context, _, _ string, _ []domain.Annotation) error {
	return m.err
}

// mockRunsService is a mock implementation of driving.RunsService.
type mockRunsService struct {
	runs []domain.Run
	run  *domain.Run
	err  error
}

func (m *mockRunsService) List(_ context.Context, _ int) ([]domain.Run, error) {
	return m.runs, m.err
}

func (m *mockRunsService) Latest(_ context.Context) (*domain.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.run, nil
}

func (m *mockRunsService) Get(_ context.Context, id string) (*domain.Run, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.run != nil && m.run.ID == id {
		return m.run, nil
	}
	return nil, domain.ErrNotFound
}

// testChecklist returns a small fixed checklist for tool and resource tests.
func testChecklist() domain.Checklist {
	return domain.Checklist{
		Processes: []domain.ProcessRequirement{
			{
				Name: "Company Incorporation",
				RequiredDocuments: []string{
					"Articles of Association",
					"Memorandum of Association",
				},
			},
		},
		Labels: []domain.LabelKeywords{
			{Label: "Articles of Association", Keywords: []string{"articles of association"}},
			{Label: "Memorandum of Association", Keywords: []string{"memorandum of association"}},
		},
	}
}
