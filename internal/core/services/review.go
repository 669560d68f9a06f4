package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
	"github.com/redmark-labs/redmark-cli/internal/logger"
)

// Ensure ReviewService can take a custom prompt store.
var _ driven.PromptStoreAware = (*ReviewService)(nil)

// Review behaviour defaults.
const (
	// DefaultReviewTopK is how many reference chunks ground each
	// reviewed paragraph.
	DefaultReviewTopK = 3

	// DefaultContextTokenBudget caps the grounding context size.
	DefaultContextTokenBudget = 1024

	// maxSuggestionRunes bounds how much raw LLM output is kept when
	// the response is not machine-readable.
	maxSuggestionRunes = 400
)

// defaultReviewPrompt is the fallback prompt when no PromptStore is
// configured. Receives document type, paragraph text and grounding
// context in that order.
const defaultReviewPrompt = `You are a legal assistant specialized in Abu Dhabi Global Market (ADGM) company regulations.
Review the following paragraph from a %s:
---PARAGRAPH---
%s
---END PARAGRAPH---

Here are relevant ADGM references retrieved:
%s

Please:
1) Identify whether this paragraph violates ADGM practice or contains red flags (jurisdiction, missing clause, ambiguous language).
2) If an issue found, produce a short suggestion and cite the reference using the format [source: filename].
3) Return JSON list of objects with keys: paragraph_index, issue, severity, suggestion.
`

// reviewResponseItem is the schema the LLM is asked to return. The
// paragraph_index it reports is untrusted and ignored; the originating
// paragraph's index is attached instead.
type reviewResponseItem struct {
	ParagraphIndex json.RawMessage `json:"paragraph_index"`
	Issue          string          `json:"issue"`
	Severity       string          `json:"severity"`
	Suggestion     string          `json:"suggestion"`
}

// ReviewService checks trigger-matching paragraphs against retrieved
// reference context through the LLM. Callers must not construct it
// without a working LLM and a built retrieval index; availability is
// their precondition to check.
type ReviewService struct {
	llmService  driven.LLMService
	index       driven.RetrievalIndex
	tokens      driven.TokenCounter
	promptStore driven.PromptStore
	topK        int
	tokenBudget int
}

// NewReviewService creates a new grounded review service. A topK or
// tokenBudget of zero selects the default.
func NewReviewService(
	llmService driven.LLMService,
	index driven.RetrievalIndex,
	tokens driven.TokenCounter,
	topK int,
	tokenBudget int,
) *ReviewService {
	if topK <= 0 {
		topK = DefaultReviewTopK
	}
	if tokenBudget <= 0 {
		tokenBudget = DefaultContextTokenBudget
	}
	return &ReviewService{
		llmService:  llmService,
		index:       index,
		tokens:      tokens,
		topK:        topK,
		tokenBudget: tokenBudget,
	}
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the service uses the hardcoded default prompt.
func (s *ReviewService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// WithTopK returns a copy of the service that retrieves topK chunks
// per reviewed paragraph. Zero or negative keeps the configured depth.
func (s *ReviewService) WithTopK(topK int) *ReviewService {
	if topK <= 0 {
		return s
	}
	clone := *s
	clone.topK = topK
	return &clone
}

// Review runs grounded review over the extracted paragraphs of one
// document. Each trigger-matching paragraph is reviewed independently:
// a failed LLM call or unparseable response becomes a Low-severity
// finding on that paragraph and processing moves to the next. An error
// return means the review infrastructure itself failed (retrieval),
// not that any paragraph was objectionable.
func (s *ReviewService) Review(ctx context.Context, paras []domain.Paragraph, docType string) ([]domain.Finding, error) {
	logger.Section("Grounded Review")
	logger.Debug("Document type: %s, paragraphs: %d, top-k: %d", docType, len(paras), s.topK)

	promptTemplate := s.loadPrompt(driven.PromptReview, defaultReviewPrompt)

	var findings []domain.Finding
	reviewed := 0
	for _, p := range paras {
		if !MatchesReviewTrigger(p.Text) {
			continue
		}
		reviewed++

		retrieved, err := s.index.Query(ctx, p.Text, s.topK)
		if err != nil {
			return nil, fmt.Errorf("retrieve context for paragraph %d: %w", p.Index, err)
		}

		grounding := s.buildContext(retrieved)
		prompt := fmt.Sprintf(promptTemplate, docType, p.Text, grounding)

		out, err := s.llmService.Generate(ctx, prompt, driven.GenerateOptions{
			MaxTokens:   512,
			Temperature: 0.0,
		})
		if err != nil {
			logger.Warn("LLM call failed for paragraph %d: %v", p.Index, err)
			findings = append(findings, domain.Finding{
				Level:      domain.ParagraphLevel(p.Index),
				Issue:      "LLM call failed",
				Severity:   domain.SeverityLow,
				Suggestion: err.Error(),
			})
			continue
		}

		findings = append(findings, s.parseResponse(p.Index, out)...)
	}

	logger.Debug("Reviewed %d paragraphs, %d findings", reviewed, len(findings))
	return findings, nil
}

// buildContext joins retrieved chunk texts with blank lines, keeping
// chunks in retrieval order until the token budget is spent. The first
// chunk is always included so an oversized nearest match still grounds
// the prompt.
func (s *ReviewService) buildContext(retrieved []domain.RetrievedChunk) string {
	parts := make([]string, 0, len(retrieved))
	used := 0
	for i, r := range retrieved {
		n := s.countTokens(r.Chunk.Text)
		if i > 0 && used+n > s.tokenBudget {
			logger.Debug("Context budget reached after %d of %d chunks", i, len(retrieved))
			break
		}
		parts = append(parts, r.Chunk.Text)
		used += n
	}
	return strings.Join(parts, "\n\n")
}

// countTokens measures text against the budget, estimating when no
// counter is wired.
func (s *ReviewService) countTokens(text string) int {
	if s.tokens == nil {
		return len(text) / 4
	}
	return s.tokens.Count(text)
}

// parseResponse turns raw LLM output into findings. Anything that is
// not a JSON array of response items becomes a single Low-severity
// finding holding the truncated raw output; partially valid content is
// never trusted.
func (s *ReviewService) parseResponse(paragraphIndex int, out string) []domain.Finding {
	out = strings.TrimSpace(out)

	var items []reviewResponseItem
	if err := json.Unmarshal([]byte(out), &items); err != nil || items == nil {
		return []domain.Finding{{
			Level:      domain.ParagraphLevel(paragraphIndex),
			Issue:      "LLM review returned non-JSON output",
			Severity:   domain.SeverityLow,
			Suggestion: truncateRunes(out, maxSuggestionRunes),
		}}
	}

	findings := make([]domain.Finding, 0, len(items))
	for _, item := range items {
		findings = append(findings, domain.Finding{
			Level:      domain.ParagraphLevel(paragraphIndex),
			Issue:      item.Issue,
			Severity:   domain.ParseSeverity(item.Severity),
			Suggestion: item.Suggestion,
		})
	}
	return findings
}

// loadPrompt loads a prompt from the store, falling back to the default if unavailable.
func (s *ReviewService) loadPrompt(name, fallback string) string {
	if s.promptStore == nil {
		return fallback
	}
	prompt, err := s.promptStore.Load(name)
	if err != nil {
		return fallback
	}
	return prompt
}

// truncateRunes shortens s to at most n runes.
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
