package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockReviewLLM implements driven.LLMService for testing. Responses are
// consumed in call order.
type mockReviewLLM struct {
	responses []string
	errs      []error
	prompts   []string
	opts      []driven.GenerateOptions
}

func (m *mockReviewLLM) Generate(_ context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	i := len(m.prompts)
	m.prompts = append(m.prompts, prompt)
	m.opts = append(m.opts, opts)
	if i < len(m.errs) && m.errs[i] != nil {
		return "", m.errs[i]
	}
	if i < len(m.responses) {
		return m.responses[i], nil
	}
	return "[]", nil
}

func (m *mockReviewLLM) ModelName() string { return "mock-llm" }

func (m *mockReviewLLM) Ping(_ context.Context) error { return nil }

func (m *mockReviewLLM) Close() error { return nil }

// mockRetrievalIndex implements driven.RetrievalIndex for testing.
type mockRetrievalIndex struct {
	results  []domain.RetrievedChunk
	queryErr error
	buildErr error
	queries  []string
	built    []domain.ReferenceChunk
	count    int
}

func (m *mockRetrievalIndex) Build(_ context.Context, chunks []domain.ReferenceChunk) error {
	if m.buildErr != nil {
		return m.buildErr
	}
	m.built = chunks
	m.count = len(chunks)
	return nil
}

func (m *mockRetrievalIndex) Query(_ context.Context, text string, k int) ([]domain.RetrievedChunk, error) {
	m.queries = append(m.queries, text)
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockRetrievalIndex) Count() int { return m.count }

func (m *mockRetrievalIndex) Close() error { return nil }

// mockTokenCounter implements driven.TokenCounter for testing. One
// character counts as one token, keeping budget arithmetic obvious.
type mockTokenCounter struct{}

func (m *mockTokenCounter) Count(text string) int { return len(text) }

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompt  string
	loadErr error
}

func (m *mockPromptStore) Load(_ string) (string, error) {
	if m.loadErr != nil {
		return "", m.loadErr
	}
	return m.prompt, nil
}

func (m *mockPromptStore) Reload() {}

// retrievedChunk builds a retrieval result for tests.
func retrievedChunk(text string, distance float64) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Chunk:    domain.ReferenceChunk{ID: "c", SourceFile: "refs.txt", Text: text},
		Distance: distance,
	}
}

// TestReviewService_TriggerFiltering tests that only trigger-matching
// paragraphs reach the LLM
func TestReviewService_TriggerFiltering(t *testing.T) {
	llm := &mockReviewLLM{}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ref", 0.1)}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)

	paras := []domain.Paragraph{
		{Index: 0, Text: "The company has a registered office in the city."},
		{Index: 2, Text: "The board may allot shares."},
		{Index: 5, Text: "All resolutions are recorded in the minute book."},
	}

	findings, err := svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	assert.Empty(t, findings)

	require.Len(t, llm.prompts, 1)
	require.Len(t, index.queries, 1)
	assert.Equal(t, "The board may allot shares.", index.queries[0])
}

// TestReviewService_ParsesFindings tests a machine-readable response
func TestReviewService_ParsesFindings(t *testing.T) {
	llm := &mockReviewLLM{responses: []string{
		`[{"paragraph_index": 99, "issue": "Wrong court named", "severity": "High", "suggestion": "Use ADGM Courts"},
		  {"issue": "Vague obligation", "severity": "Critical", "suggestion": "State the duty explicitly"}]`,
	}}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ref", 0.1)}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)

	paras := []domain.Paragraph{{Index: 5, Text: "Disputes go to the UAE Courts."}}

	findings, err := svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	require.Len(t, findings, 2)

	// The response's own paragraph_index is untrusted and overwritten.
	idx, ok := findings[0].Level.ParagraphIndex()
	require.True(t, ok)
	assert.Equal(t, 5, idx)
	assert.Equal(t, "Wrong court named", findings[0].Issue)
	assert.Equal(t, domain.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "Use ADGM Courts", findings[0].Suggestion)
	assert.Empty(t, findings[0].Section)

	// Unknown severity strings normalise to Low.
	idx, ok = findings[1].Level.ParagraphIndex()
	require.True(t, ok)
	assert.Equal(t, 5, idx)
	assert.Equal(t, domain.SeverityLow, findings[1].Severity)
}

// TestReviewService_CallFailure tests that a failed call becomes a
// finding and later paragraphs still process
func TestReviewService_CallFailure(t *testing.T) {
	llm := &mockReviewLLM{
		errs:      []error{errors.New("connection refused")},
		responses: []string{"", `[{"issue": "Found", "severity": "Medium", "suggestion": "Fix"}]`},
	}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ref", 0.1)}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)

	paras := []domain.Paragraph{
		{Index: 1, Text: "The directors may act."},
		{Index: 4, Text: "Signed by the secretary."},
	}

	findings, err := svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	require.Len(t, findings, 2)

	idx, ok := findings[0].Level.ParagraphIndex()
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	assert.Equal(t, "LLM call failed", findings[0].Issue)
	assert.Equal(t, domain.SeverityLow, findings[0].Severity)
	assert.Equal(t, "connection refused", findings[0].Suggestion)

	assert.Equal(t, "Found", findings[1].Issue)
	assert.Len(t, llm.prompts, 2)
}

// TestReviewService_NonJSON tests the fallback for unparseable output
func TestReviewService_NonJSON(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"prose", "This paragraph looks problematic because of the court reference."},
		{"json object not array", `{"issue": "x"}`},
		{"null literal", "null"},
		{"fenced json", "```json\n[]\n```"},
		{"array of scalars", `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockReviewLLM{responses: []string{tt.response}}
			index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ref", 0.1)}}
			svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)

			paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}

			findings, err := svc.Review(context.Background(), paras, "Articles of Association")
			require.NoError(t, err)
			require.Len(t, findings, 1)

			f := findings[0]
			idx, ok := f.Level.ParagraphIndex()
			require.True(t, ok)
			assert.Equal(t, 0, idx)
			assert.Equal(t, "LLM review returned non-JSON output", f.Issue)
			assert.Equal(t, domain.SeverityLow, f.Severity)
			assert.Equal(t, strings.TrimSpace(tt.response), f.Suggestion)
		})
	}
}

// TestReviewService_TruncatesRawOutput tests the raw-output cap
func TestReviewService_TruncatesRawOutput(t *testing.T) {
	long := strings.Repeat("x", 950)
	llm := &mockReviewLLM{responses: []string{long}}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ref", 0.1)}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)

	paras := []domain.Paragraph{{Index: 0, Text: "Subject to approval."}}

	findings, err := svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	require.Len(t, findings, 1)
	assert.Equal(t, strings.Repeat("x", 400), findings[0].Suggestion)
}

// TestReviewService_EmptyArray tests that an empty response array means
// no findings, not a fallback
func TestReviewService_EmptyArray(t *testing.T) {
	llm := &mockReviewLLM{responses: []string{"[]"}}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ref", 0.1)}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)

	paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}

	findings, err := svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	assert.Empty(t, findings)
}

// TestReviewService_RetrievalError tests that a failing index aborts the
// review with an error
func TestReviewService_RetrievalError(t *testing.T) {
	llm := &mockReviewLLM{}
	index := &mockRetrievalIndex{queryErr: domain.ErrIndexNotBuilt}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)

	paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}

	findings, err := svc.Review(context.Background(), paras, "Articles of Association")
	assert.ErrorIs(t, err, domain.ErrIndexNotBuilt)
	assert.Nil(t, findings)
	assert.Empty(t, llm.prompts)
}

// TestReviewService_ContextBudget tests grounding-context token capping
func TestReviewService_ContextBudget(t *testing.T) {
	first := "[refs.txt] " + strings.Repeat("a", 30)
	second := "[refs.txt] " + strings.Repeat("b", 30)
	third := "[refs.txt] " + strings.Repeat("c", 30)
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{
		retrievedChunk(first, 0.1),
		retrievedChunk(second, 0.2),
		retrievedChunk(third, 0.3),
	}}

	t.Run("budget admits only the first chunk", func(t *testing.T) {
		llm := &mockReviewLLM{}
		svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, len(first)+5)

		paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}
		_, err := svc.Review(context.Background(), paras, "Articles of Association")
		require.NoError(t, err)

		require.Len(t, llm.prompts, 1)
		assert.Contains(t, llm.prompts[0], first)
		assert.NotContains(t, llm.prompts[0], second)
	})

	t.Run("oversized first chunk still included", func(t *testing.T) {
		llm := &mockReviewLLM{}
		svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 1)

		paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}
		_, err := svc.Review(context.Background(), paras, "Articles of Association")
		require.NoError(t, err)

		require.Len(t, llm.prompts, 1)
		assert.Contains(t, llm.prompts[0], first)
		assert.NotContains(t, llm.prompts[0], second)
	})

	t.Run("large budget admits all chunks", func(t *testing.T) {
		llm := &mockReviewLLM{}
		svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 10000)

		paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}
		_, err := svc.Review(context.Background(), paras, "Articles of Association")
		require.NoError(t, err)

		require.Len(t, llm.prompts, 1)
		assert.Contains(t, llm.prompts[0], first+"\n\n"+second+"\n\n"+third)
	})
}

// TestReviewService_PromptShape tests the default prompt construction
func TestReviewService_PromptShape(t *testing.T) {
	llm := &mockReviewLLM{}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ADGM reference text", 0.1)}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)

	paras := []domain.Paragraph{{Index: 0, Text: "The directors may allot shares."}}

	_, err := svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)

	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "You are a legal assistant specialized in Abu Dhabi Global Market (ADGM) company regulations.")
	assert.Contains(t, prompt, "Review the following paragraph from a Articles of Association:")
	assert.Contains(t, prompt, "---PARAGRAPH---\nThe directors may allot shares.\n---END PARAGRAPH---")
	assert.Contains(t, prompt, "Here are relevant ADGM references retrieved:\n[refs.txt] ADGM reference text")
	assert.Contains(t, prompt, "Return JSON list of objects with keys: paragraph_index, issue, severity, suggestion.")

	require.Len(t, llm.opts, 1)
	assert.Equal(t, 512, llm.opts[0].MaxTokens)
	assert.Equal(t, 0.0, llm.opts[0].Temperature)
}

// TestReviewService_PromptStoreOverride tests custom prompt templates
func TestReviewService_PromptStoreOverride(t *testing.T) {
	llm := &mockReviewLLM{}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ref", 0.1)}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)
	svc.SetPromptStore(&mockPromptStore{prompt: "CHECK %s :: %s :: %s"})

	paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}

	_, err := svc.Review(context.Background(), paras, "UBO Declaration Form")
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Equal(t, "CHECK UBO Declaration Form :: The board may act. :: [refs.txt] ref", llm.prompts[0])
}

// TestReviewService_PromptStoreFallback tests falling back to the
// default prompt when the store fails
func TestReviewService_PromptStoreFallback(t *testing.T) {
	llm := &mockReviewLLM{}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{retrievedChunk("[refs.txt] ref", 0.1)}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 3, 0)
	svc.SetPromptStore(&mockPromptStore{loadErr: errors.New("no such prompt")})

	paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}

	_, err := svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "You are a legal assistant specialized in Abu Dhabi Global Market (ADGM) company regulations.")
}

// TestReviewService_TopK tests that the configured depth reaches the index
func TestReviewService_TopK(t *testing.T) {
	llm := &mockReviewLLM{}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{
		retrievedChunk("[refs.txt] one", 0.1),
		retrievedChunk("[refs.txt] two", 0.2),
		retrievedChunk("[refs.txt] three", 0.3),
	}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 2, 0)

	paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}

	_, err := svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "[refs.txt] one")
	assert.Contains(t, llm.prompts[0], "[refs.txt] two")
	assert.NotContains(t, llm.prompts[0], "[refs.txt] three")
}

// TestReviewService_WithTopK tests per-call depth overrides
func TestReviewService_WithTopK(t *testing.T) {
	llm := &mockReviewLLM{}
	index := &mockRetrievalIndex{results: []domain.RetrievedChunk{
		retrievedChunk("[refs.txt] one", 0.1),
		retrievedChunk("[refs.txt] two", 0.2),
		retrievedChunk("[refs.txt] three", 0.3),
	}}
	svc := NewReviewService(llm, index, &mockTokenCounter{}, 1, 0)

	paras := []domain.Paragraph{{Index: 0, Text: "The board may act."}}

	_, err := svc.WithTopK(2).Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	require.Len(t, llm.prompts, 1)
	assert.Contains(t, llm.prompts[0], "[refs.txt] two")
	assert.NotContains(t, llm.prompts[0], "[refs.txt] three")

	// The override is a copy; the original keeps its configured depth.
	_, err = svc.Review(context.Background(), paras, "Articles of Association")
	require.NoError(t, err)
	require.Len(t, llm.prompts, 2)
	assert.NotContains(t, llm.prompts[1], "[refs.txt] two")

	assert.Same(t, svc, svc.WithTopK(0))
}
