package mcp

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/services"
)

// ReviewInput is the input schema for the review_document tool.
// Exactly one of Path or Text must be provided.
type ReviewInput struct {
	Path   string   `json:"path,omitempty" jsonschema:"path to a .docx file on the server host"`
	Text   []string `json:"text,omitempty" jsonschema:"raw paragraph texts to review instead of a file"`
	Name   string   `json:"name,omitempty" jsonschema:"display name for raw text input (default untitled)"`
	UseLLM bool     `json:"use_llm,omitempty" jsonschema:"enable grounded review against the reference corpus"`
	TopK   int      `json:"top_k,omitempty" jsonschema:"reference chunks per grounded review call (default from settings)"`
}

// ReviewOutput is the output schema for the review_document tool.
type ReviewOutput struct {
	FileName string          `json:"file_name"`
	DocType  string          `json:"doc_type"`
	Findings []FindingOutput `json:"findings"`
	Count    int             `json:"count"`
}

// FindingOutput represents a single detected issue.
type FindingOutput struct {
	ParagraphIndex *int   `json:"paragraph_index,omitempty"`
	Issue          string `json:"issue"`
	Section        string `json:"section,omitempty"`
	Severity       string `json:"severity"`
	Suggestion     string `json:"suggestion"`
}

// ClassifyInput is the input schema for the classify_document tool.
type ClassifyInput struct {
	Text string `json:"text" jsonschema:"document text to classify"`
}

// ClassifyOutput is the output schema for the classify_document tool.
type ClassifyOutput struct {
	Label string `json:"label"`
}

// QueryInput is the input schema for the query_references tool.
type QueryInput struct {
	Question string `json:"question" jsonschema:"the question to match against the reference corpus"`
	K        int    `json:"k,omitempty" jsonschema:"number of reference chunks to return (default from settings)"`
}

// QueryOutput is the output schema for the query_references tool.
type QueryOutput struct {
	References []ReferenceOutput `json:"references"`
	Count      int               `json:"count"`
}

// ReferenceOutput represents a single retrieved reference chunk.
type ReferenceOutput struct {
	Source   string  `json:"source"`
	Text     string  `json:"text"`
	Distance float64 `json:"distance"`
}

// ChecklistInput is the input schema for the list_checklist tool.
type ChecklistInput struct{}

// ChecklistOutput is the output schema for the list_checklist tool.
type ChecklistOutput struct {
	Processes []ProcessOutput `json:"processes"`
	Labels    []LabelOutput   `json:"labels"`
}

// ProcessOutput represents one process and its required documents.
type ProcessOutput struct {
	Name              string   `json:"name"`
	RequiredDocuments []string `json:"required_documents"`
}

// LabelOutput represents one classifier label and its trigger keywords.
type LabelOutput struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "review_document",
		Description: "Review a corporate document for red flags and return the findings",
	}, s.handleReviewDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "classify_document",
		Description: "Classify document text into a document-type label",
	}, s.handleClassifyDocument)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "query_references",
		Description: "Retrieve the closest reference corpus passages for a question",
	}, s.handleQueryReferences)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_checklist",
		Description: "List known processes, their required documents and classifier labels",
	}, s.handleListChecklist)
}

// handleReviewDocument handles the review_document tool invocation.
func (s *Server) handleReviewDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReviewInput,
) (*mcp.CallToolResult, ReviewOutput, error) {
	if input.Path != "" && len(input.Text) > 0 {
		return nil, ReviewOutput{}, errors.New("provide either path or text, not both")
	}
	if input.Path == "" && len(input.Text) == 0 {
		return nil, ReviewOutput{}, errors.New("provide a path or text to review")
	}

	name := input.Name
	paragraphs := input.Text

	if input.Path != "" {
		if s.ports.Codec == nil {
			return nil, ReviewOutput{}, errors.New("document parsing is not available, provide raw text instead")
		}
		parsed, err := s.ports.Codec.Parse(ctx, input.Path)
		if err != nil {
			return nil, ReviewOutput{}, fmt.Errorf("parse document: %w", err)
		}
		paragraphs = parsed
		name = filepath.Base(input.Path)
	}
	if name == "" {
		name = "untitled"
	}

	opts := domain.AnalyzeOptions{UseLLM: input.UseLLM, TopK: input.TopK}
	report, err := s.ports.Analysis.AnalyzeText(ctx, name, paragraphs, opts)
	if err != nil {
		return nil, ReviewOutput{}, err
	}

	output := ReviewOutput{
		FileName: report.FileName,
		DocType:  report.DocType,
		Findings: make([]FindingOutput, len(report.Findings)),
		Count:    len(report.Findings),
	}

	for i := range report.Findings {
		f := report.Findings[i]
		output.Findings[i] = FindingOutput{
			Issue:      f.Issue,
			Section:    f.Section,
			Severity:   f.Severity.String(),
			Suggestion: f.Suggestion,
		}
		if idx, ok := f.Level.ParagraphIndex(); ok {
			output.Findings[i].ParagraphIndex = &idx
		}
	}

	return nil, output, nil
}

// handleClassifyDocument handles the classify_document tool invocation.
func (s *Server) handleClassifyDocument(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ClassifyInput,
) (*mcp.CallToolResult, ClassifyOutput, error) {
	if input.Text == "" {
		return nil, ClassifyOutput{}, errors.New("provide text to classify")
	}

	label := services.ClassifyDocument(input.Text, s.ports.Checklist.Labels)
	return nil, ClassifyOutput{Label: label}, nil
}

// handleQueryReferences handles the query_references tool invocation.
func (s *Server) handleQueryReferences(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input QueryInput,
) (*mcp.CallToolResult, QueryOutput, error) {
	if s.ports.Ask == nil {
		return nil, QueryOutput{}, errors.New("retrieval is not available, configure an embedding provider first")
	}

	chunks, err := s.ports.Ask.Ask(ctx, input.Question, input.K)
	if err != nil {
		return nil, QueryOutput{}, err
	}

	output := QueryOutput{
		References: make([]ReferenceOutput, len(chunks)),
		Count:      len(chunks),
	}

	for i := range chunks {
		output.References[i] = ReferenceOutput{
			Source:   chunks[i].Chunk.SourceFile,
			Text:     chunks[i].Chunk.Text,
			Distance: chunks[i].Distance,
		}
	}

	return nil, output, nil
}

// handleListChecklist handles the list_checklist tool invocation.
func (s *Server) handleListChecklist(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ChecklistInput,
) (*mcp.CallToolResult, ChecklistOutput, error) {
	checklist := s.ports.Checklist

	output := ChecklistOutput{
		Processes: make([]ProcessOutput, len(checklist.Processes)),
		Labels:    make([]LabelOutput, len(checklist.Labels)),
	}

	for i, p := range checklist.Processes {
		output.Processes[i] = ProcessOutput{
			Name:              p.Name,
			RequiredDocuments: p.RequiredDocuments,
		}
	}

	for i, l := range checklist.Labels {
		output.Labels[i] = LabelOutput{
			Label:    l.Label,
			Keywords: l.Keywords,
		}
	}

	return nil, output, nil
}
