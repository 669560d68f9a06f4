package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// AskService answers direct questions against the retrieval index,
// preparing the index on first use.
type AskService struct {
	corpus driving.CorpusService
	index  driven.RetrievalIndex
	topK   int
}

// NewAskService creates a new ask service. A topK of zero selects the
// default retrieval depth.
func NewAskService(corpus driving.CorpusService, index driven.RetrievalIndex, topK int) *AskService {
	if topK <= 0 {
		topK = DefaultReviewTopK
	}
	return &AskService{
		corpus: corpus,
		index:  index,
		topK:   topK,
	}
}

// Ask returns the k nearest reference chunks for the question.
func (s *AskService) Ask(ctx context.Context, question string, k int) ([]domain.RetrievedChunk, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = s.topK
	}

	if s.index.Count() == 0 {
		if s.corpus == nil {
			return nil, domain.ErrIndexNotBuilt
		}
		if _, err := s.corpus.Ensure(ctx); err != nil {
			return nil, fmt.Errorf("prepare index: %w", err)
		}
	}

	results, err := s.index.Query(ctx, question, k)
	if err != nil {
		return nil, fmt.Errorf("query references: %w", err)
	}
	return results, nil
}
