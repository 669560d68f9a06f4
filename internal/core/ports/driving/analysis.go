package driving

import (
	"context"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// AnalysisService runs the compliance pipeline over document batches.
type AnalysisService interface {
	// AnalyzeBatch processes the documents in input order, writes the
	// reviewed copies and the JSON artifact, and returns the aggregated
	// result. A document that cannot be read is reported in the returned
	// error while the rest of the batch still processes; the result then
	// covers the readable documents. The result is nil only when no
	// document could be read.
	AnalyzeBatch(ctx context.Context, paths []string, opts domain.AnalyzeOptions) (*domain.AnalysisResult, error)

	// AnalyzeText runs extraction, classification and the rule engine
	// over already-extracted paragraph texts, without writing artifacts.
	// The MCP surface uses this for raw text review.
	AnalyzeText(ctx context.Context, name string, raw []string, opts domain.AnalyzeOptions) (*domain.DocumentReport, error)
}
