package mcp

import (
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driven"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
)

// Ports aggregates everything the MCP server dispatches to.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analysis runs the compliance pipeline.
	Analysis driving.AnalysisService

	// Ask answers reference queries. Optional; without it the
	// query_references tool reports retrieval as unavailable.
	Ask driving.AskService

	// Codec reads .docx files. Optional; without it review_document
	// accepts only raw text.
	Codec driven.DocumentCodec

	// Runs exposes analysis history. Optional; without it the run
	// resources read as empty.
	Runs driving.RunsService

	// Checklist is the loaded process table.
	Checklist domain.Checklist
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	// Ask and Codec are optional; their tools degrade.
	return nil
}
