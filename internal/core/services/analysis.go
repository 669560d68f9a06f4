package services

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
	"github.com/redmark-labs/redmark-cli/internal/logger"
)

// Ensure AnalysisService implements the interface.
var _ driving.AnalysisService = (*AnalysisService)(nil)

// AnalysisService orchestrates the compliance pipeline: extraction,
// classification, rule checks, optional grounded review, annotation
// writing and result aggregation.
type AnalysisService struct {
	codec     driven.DocumentCodec
	checklist domain.Checklist
	reviewer  *ReviewService
	runStore  driven.RunStore
	outputDir string
}

// NewAnalysisService creates a new analysis service.
// The reviewer and runStore parameters are optional (can be nil);
// without a reviewer, analysis is heuristic-only.
func NewAnalysisService(
	codec driven.DocumentCodec,
	checklist domain.Checklist,
	reviewer *ReviewService,
	runStore driven.RunStore,
	outputDir string,
) *AnalysisService {
	return &AnalysisService{
		codec:     codec,
		checklist: checklist,
		reviewer:  reviewer,
		runStore:  runStore,
		outputDir: outputDir,
	}
}

// AnalyzeBatch processes the documents in input order and aggregates
// the outcome. Documents that cannot be read are collected into the
// returned error while the rest of the batch still processes; the
// result covers the readable documents and is nil only when none could
// be read.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, paths []string, opts domain.AnalyzeOptions) (*domain.AnalysisResult, error) {
	logger.Section("Document Analysis")
	logger.Debug("Documents: %d, LLM review: %t", len(paths), opts.UseLLM)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no documents provided: %w", domain.ErrInvalidInput)
	}

	outDir := s.outputDir
	if opts.OutputDir != "" {
		outDir = opts.OutputDir
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var (
		summaries     []domain.DocumentSummary
		docTypes      []string
		issues        []domain.IssueRecord
		reviewedFiles []string
		failures      []error
	)

	for _, path := range paths {
		base := filepath.Base(path)
		logger.Info("Analyzing %s", base)

		report, paras, err := s.analyzeDocument(ctx, path, base, opts)
		if err != nil {
			logger.Warn("Document %s failed: %v", base, err)
			failures = append(failures, fmt.Errorf("document %s: %w", base, err))
			continue
		}

		annotations := domain.DeriveAnnotations(report.Findings, paras)
		outPath := filepath.Join(outDir, "reviewed_"+base)
		if err := s.codec.Annotate(ctx, path, outPath, annotations); err != nil {
			logger.Warn("Write reviewed copy for %s: %v", base, err)
		} else {
			report.ReviewedPath = outPath
			reviewedFiles = append(reviewedFiles, outPath)
		}

		docTypes = append(docTypes, report.DocType)
		issues = append(issues, domain.FlattenFindings(*report)...)
		summaries = append(summaries, domain.DocumentSummary{
			File:        base,
			Type:        report.DocType,
			IssuesFound: len(report.Findings),
		})
	}

	if len(docTypes) == 0 {
		return nil, errors.Join(failures...)
	}

	proc := InferProcess(docTypes, s.checklist)
	logger.Info("Inferred process: %s (%d issues total)", proc.Process, len(issues))

	result := &domain.AnalysisResult{
		Process:           proc.Process,
		DocumentsUploaded: proc.DocumentsUploaded,
		RequiredDocuments: proc.RequiredDocuments,
		MissingDocuments:  proc.MissingDocuments,
		Summary:           summaries,
		Issues:            issues,
		ReviewedFiles:     reviewedFiles,
	}

	s.persistResult(ctx, outDir, result)

	return result, errors.Join(failures...)
}

// AnalyzeText runs the pipeline over already-extracted paragraph texts
// without writing any artifacts.
func (s *AnalysisService) AnalyzeText(ctx context.Context, name string, raw []string, opts domain.AnalyzeOptions) (*domain.DocumentReport, error) {
	paras := domain.ExtractParagraphs(raw)
	return s.buildReport(ctx, name, paras, opts), nil
}

// analyzeDocument runs the per-document pipeline up to (not including)
// annotation writing.
func (s *AnalysisService) analyzeDocument(ctx context.Context, path, base string, opts domain.AnalyzeOptions) (*domain.DocumentReport, []domain.Paragraph, error) {
	raw, err := s.codec.Parse(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("parse document: %w", err)
	}

	paras := domain.ExtractParagraphs(raw)
	return s.buildReport(ctx, base, paras, opts), paras, nil
}

// buildReport classifies the document and collects its findings:
// per-paragraph checks, then document-level checks, then grounded
// review when enabled.
func (s *AnalysisService) buildReport(ctx context.Context, name string, paras []domain.Paragraph, opts domain.AnalyzeOptions) *domain.DocumentReport {
	docType := ClassifyDocument(domain.CombinedText(paras), s.checklist.Labels)
	logger.Debug("Classified %s as %q (%d paragraphs)", name, docType, len(paras))

	findings := HeuristicChecks(paras)
	findings = append(findings, DocumentLevelChecks(paras)...)

	if opts.UseLLM && s.reviewer != nil {
		llmFindings, err := s.reviewer.WithTopK(opts.TopK).Review(ctx, paras, docType)
		if err != nil {
			logger.Warn("Grounded review failed for %s: %v", name, err)
			findings = append(findings, domain.Finding{
				Level:      domain.DocumentLevel(),
				Issue:      "LLM review failed",
				Severity:   domain.SeverityLow,
				Suggestion: err.Error(),
			})
		} else {
			findings = append(findings, llmFindings...)
		}
	}

	return &domain.DocumentReport{
		FileName: name,
		DocType:  docType,
		Findings: findings,
	}
}

// persistResult writes the JSON artifact and records the run. Both are
// best-effort: the caller already holds the result, so failures here
// are logged rather than propagated.
func (s *AnalysisService) persistResult(ctx context.Context, outDir string, result *domain.AnalysisResult) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		logger.Warn("Marshal analysis result: %v", err)
		return
	}

	artifactPath := filepath.Join(outDir, "analysis_"+newHexID()+".json")
	if err := os.WriteFile(artifactPath, data, 0o644); err != nil {
		logger.Warn("Write analysis artifact: %v", err)
	} else {
		logger.Info("Analysis artifact: %s", artifactPath)
	}

	if s.runStore == nil {
		return
	}
	run := domain.Run{
		ID:                newHexID(),
		CreatedAt:         time.Now().UTC(),
		Process:           result.Process,
		DocumentsUploaded: result.DocumentsUploaded,
		Issues:            len(result.Issues),
		ResultJSON:        string(data),
	}
	if err := s.runStore.SaveRun(ctx, run); err != nil {
		logger.Warn("Record run: %v", err)
	}
}

// newHexID returns a random identifier as 32 lowercase hex characters.
func newHexID() string {
	u := uuid.New()
	return hex.EncodeToString(u[:])
}
