package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for Redmark resources.
	uriScheme = "redmark://"

	// resourceRunsLimit caps the run history resource.
	resourceRunsLimit = 20
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the process checklist.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "checklist",
		Name:        "checklist",
		Description: "Known processes, their required documents and classifier labels",
		MIMEType:    "application/json",
	}, s.handleChecklistResource)

	// Static resource for recent analysis runs.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs",
		Name:        "runs",
		Description: "Recent analysis runs, newest first",
		MIMEType:    "application/json",
	}, s.handleRunsResource)

	// Static resource for the latest analysis result.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "runs/latest",
		Name:        "latest-run",
		Description: "Full result of the most recent analysis run",
		MIMEType:    "application/json",
	}, s.handleLatestRunResource)

	// Template for a specific run's result.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "runs/{id}",
		Name:        "run",
		Description: "Full result of a specific analysis run",
		MIMEType:    "application/json",
	}, s.handleRunResource)
}

// handleChecklistResource returns the loaded checklist as JSON.
func (s *Server) handleChecklistResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
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

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling checklist: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleRunsResource returns recent analysis runs.
func (s *Server) handleRunsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Runs == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	runs, err := s.ports.Runs.List(ctx, resourceRunsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}

	// Build simplified run list.
	type runInfo struct {
		ID                string    `json:"id"`
		CreatedAt         time.Time `json:"created_at"`
		Process           string    `json:"process"`
		DocumentsUploaded int       `json:"documents_uploaded"`
		Issues            int       `json:"issues"`
	}

	infos := make([]runInfo, len(runs))
	for i := range runs {
		infos[i] = runInfo{
			ID:                runs[i].ID,
			CreatedAt:         runs[i].CreatedAt,
			Process:           runs[i].Process,
			DocumentsUploaded: runs[i].DocumentsUploaded,
			Issues:            runs[i].Issues,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling runs: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleLatestRunResource returns the stored result of the latest run.
func (s *Server) handleLatestRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Runs == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.Runs.Latest(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("loading latest run: %w", err)
	}

	// ResultJSON is stored serialized, pass it through untouched.
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     run.ResultJSON,
		}},
	}, nil
}

// handleRunResource returns the stored result of a specific run.
func (s *Server) handleRunResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Runs == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	// Extract the run ID from a URI like redmark://runs/{id}.
	id := extractRunID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	run, err := s.ports.Runs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("loading run: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     run.ResultJSON,
		}},
	}, nil
}

// extractRunID extracts the run ID from a URI like redmark://runs/{id}.
// The exact "runs/latest" URI is served by its own resource; anything
// else after the prefix is treated as an ID.
func extractRunID(uri string) string {
	const prefix = uriScheme + "runs/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id := strings.TrimPrefix(uri, prefix)
	if id == "" || strings.Contains(id, "/") {
		return ""
	}
	return id
}
