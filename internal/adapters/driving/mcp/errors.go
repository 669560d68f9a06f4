// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Redmark. It lets AI assistants review documents, classify text
// and query the reference corpus.
package mcp

import "errors"

// ErrMissingAnalysisService is returned when the analysis service is not provided.
var ErrMissingAnalysisService = errors.New("mcp: analysis service is required")
