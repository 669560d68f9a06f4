// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewReports lists the analyzed documents of the loaded run.
	ViewReports
	// ViewFindings lists the findings for one document.
	ViewFindings
	// ViewDetail shows a single finding in full.
	ViewDetail
	// ViewAsk is the reference corpus query view.
	ViewAsk
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewReports:
		return "reports"
	case ViewFindings:
		return "findings"
	case ViewDetail:
		return "detail"
	case ViewAsk:
		return "ask"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ResultLoaded carries the analysis result to browse.
// Result is nil when loading failed or no run is recorded.
type ResultLoaded struct {
	Result *domain.AnalysisResult
	Err    error
}

// DocumentSelected is sent when a document is picked in the reports view.
type DocumentSelected struct {
	Index int
}

// FindingSelected is sent when a finding is picked in the findings view.
type FindingSelected struct {
	Index int
}

// AskRequested is a command to query the reference corpus.
type AskRequested struct {
	Question string
}

// AskCompleted carries retrieved reference chunks back to the model.
type AskCompleted struct {
	Question string
	Chunks   []domain.RetrievedChunk
	Err      error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
