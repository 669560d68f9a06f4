package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/messages"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/styles"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/views/ask"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/views/detail"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/views/findings"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/views/menu"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/views/reports"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	// menuView is the main navigation menu.
	menuView *menu.View

	// reportsView lists the analyzed documents of the loaded run.
	reportsView *reports.View

	// findingsView lists the findings of one document.
	findingsView *findings.View

	// detailView shows a single finding in full.
	detailView *detail.View

	// askView queries the reference corpus.
	askView *ask.View

	// result is the analysis result being browsed.
	result *domain.AnalysisResult

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application. The result argument carries a
// just-executed analysis to browse; when it is nil the latest stored
// run is loaded through the runs port instead.
func NewApp(ports *Ports, result *domain.AnalysisResult) (*App, error) {
	if ports == nil || (result == nil && ports.Runs == nil) {
		return nil, ErrNoReviewData
	}

	s := styles.DefaultStyles()
	reportsView := reports.NewView(s)
	if result != nil {
		reportsView.SetResult(result)
	}

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		menuView:     menu.NewView(s),
		reportsView:  reportsView,
		findingsView: findings.NewView(s),
		detailView:   detail.NewView(s),
		askView:      ask.NewView(s, nil, ports.Ask),
		result:       result,
		currentView:  messages.ViewMenu, // Start with menu
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.askView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("redmark - Compliance Review"),
	}
	if a.result == nil {
		a.reportsView.SetLoading(true)
		cmds = append(cmds, a.loadLatestRun())
	}
	return tea.Batch(cmds...)
}

// loadLatestRun fetches the most recent stored run and decodes it.
func (a *App) loadLatestRun() tea.Cmd {
	return func() tea.Msg {
		run, err := a.ports.Runs.Latest(a.ctx)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// An empty history is not an error, the reports view
				// shows its empty state.
				return messages.ResultLoaded{}
			}
			return messages.ResultLoaded{Err: err}
		}

		var result domain.AnalysisResult
		if err := json.Unmarshal([]byte(run.ResultJSON), &result); err != nil {
			return messages.ResultLoaded{Err: fmt.Errorf("decode stored run: %w", err)}
		}
		return messages.ResultLoaded{Result: &result}
	}
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		// Forward to all views for proper sizing
		a.menuView.SetDimensions(msg.Width, msg.Height)
		a.reportsView.SetDimensions(msg.Width, msg.Height)
		a.findingsView.SetDimensions(msg.Width, msg.Height)
		a.detailView.SetDimensions(msg.Width, msg.Height)
		a.askView.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		// Global quit with ctrl+c
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

		// Forward key messages to active view
		switch a.currentView {
		case messages.ViewMenu:
			a.menuView, cmd = a.menuView.Update(msg)
			return a, cmd

		case messages.ViewReports:
			a.reportsView, cmd = a.reportsView.Update(msg)
			return a, cmd

		case messages.ViewFindings:
			a.findingsView, cmd = a.findingsView.Update(msg)
			return a, cmd

		case messages.ViewDetail:
			a.detailView, cmd = a.detailView.Update(msg)
			return a, cmd

		case messages.ViewAsk:
			a.askView, cmd = a.askView.Update(msg)
			a.err = a.askView.Err()
			return a, cmd

		case messages.ViewHelp:
			// Esc from help goes to menu
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
				return a, nil
			}
			return a, nil
		}
		return a, nil

	case messages.ResultLoaded:
		if msg.Err != nil {
			a.err = msg.Err
			a.reportsView.SetLoadError(msg.Err)
			return a, nil
		}
		a.reportsView.SetLoading(false)
		if msg.Result != nil {
			a.result = msg.Result
			a.reportsView.SetResult(msg.Result)
		}
		return a, nil

	case messages.ViewChanged:
		a.currentView = msg.View
		// Initialise views when switching to them
		switch msg.View {
		case messages.ViewAsk:
			a.askView.Reset()
			return a, a.askView.Init()
		case messages.ViewMenu, messages.ViewReports, messages.ViewFindings,
			messages.ViewDetail, messages.ViewHelp:
			// Other views don't need special initialisation
		}
		return a, nil

	case messages.DocumentSelected:
		if a.result == nil || msg.Index < 0 || msg.Index >= len(a.result.Summary) {
			return a, nil
		}
		doc := a.result.Summary[msg.Index]
		a.findingsView.SetDocument(doc, filterIssues(a.result.Issues, doc.File))
		a.currentView = messages.ViewFindings
		return a, nil

	case messages.FindingSelected:
		issues := a.findingsView.Issues()
		if msg.Index < 0 || msg.Index >= len(issues) {
			return a, nil
		}
		a.detailView.SetIssue(issues[msg.Index])
		a.currentView = messages.ViewDetail
		return a, nil

	case messages.AskCompleted:
		a.askView, cmd = a.askView.Update(msg)
		a.err = a.askView.Err()
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		// Forward to current view
		if a.currentView == messages.ViewAsk {
			a.askView, cmd = a.askView.Update(msg)
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	// Forward other messages to active view
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewReports:
		a.reportsView, cmd = a.reportsView.Update(msg)
	case messages.ViewFindings:
		a.findingsView, cmd = a.findingsView.Update(msg)
	case messages.ViewDetail:
		a.detailView, cmd = a.detailView.Update(msg)
	case messages.ViewAsk:
		a.askView, cmd = a.askView.Update(msg)
	case messages.ViewHelp:
		// Help view doesn't need to handle other messages
	}

	return a, cmd
}

// filterIssues returns the issues belonging to one document.
func filterIssues(issues []domain.IssueRecord, file string) []domain.IssueRecord {
	out := make([]domain.IssueRecord, 0, len(issues))
	for _, rec := range issues {
		if rec.Document == file {
			out = append(out, rec)
		}
	}
	return out
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch a.currentView {
	case messages.ViewMenu:
		return a.menuView.View()
	case messages.ViewReports:
		return a.reportsView.View()
	case messages.ViewFindings:
		return a.findingsView.View()
	case messages.ViewDetail:
		return a.detailView.View()
	case messages.ViewAsk:
		return a.askView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Reports:
  j/k, ↑/↓    Navigate documents
  enter       Show findings

Findings:
  j/k, ↑/↓    Navigate findings
  enter       Show detail

Ask:
  (type)      Enter a question
  enter       Query the references
  n           New question

[esc] back to menu`
}

// Run starts the TUI application.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Result returns the analysis result being browsed.
func (a *App) Result() *domain.AnalysisResult {
	return a.result
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions (for testing).
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.reportsView.SetDimensions(width, height)
	a.findingsView.SetDimensions(width, height)
	a.detailView.SetDimensions(width, height)
	a.askView.SetDimensions(width, height)
}
