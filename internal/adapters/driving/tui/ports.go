// Package tui provides an interactive findings browser for Redmark.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Runs loads stored analysis history. Optional when an in-process
	// result is supplied to NewApp.
	Runs driving.RunsService

	// Ask answers reference queries. Optional; without it the ask view
	// reports retrieval as unavailable.
	Ask driving.AskService
}
