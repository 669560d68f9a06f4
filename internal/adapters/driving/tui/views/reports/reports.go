// Package reports provides the analyzed-documents view for the TUI.
package reports

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/messages"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/styles"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// View lists the documents of the loaded analysis run.
type View struct {
	styles *styles.Styles

	result   *domain.AnalysisResult
	loadErr  error
	loading  bool
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates a new reports view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// Init initialises the reports view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetResult installs the analysis result to browse.
func (v *View) SetResult(result *domain.AnalysisResult) {
	v.result = result
	v.loadErr = nil
	v.loading = false
	v.selected = 0
}

// SetLoadError records a failure to load the stored run.
func (v *View) SetLoadError(err error) {
	v.loadErr = err
	v.loading = false
}

// SetLoading marks the view as waiting for the stored run.
func (v *View) SetLoading(loading bool) {
	v.loading = loading
}

// Update handles messages for the reports view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
		}
		return v, nil

	case "down", "j":
		if v.result != nil && v.selected < len(v.result.Summary)-1 {
			v.selected++
		}
		return v, nil

	case "enter":
		if v.result == nil || len(v.result.Summary) == 0 {
			return v, nil
		}
		index := v.selected
		return v, func() tea.Msg {
			return messages.DocumentSelected{Index: index}
		}

	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	return v, nil
}

// View renders the reports view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Review Reports"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading latest run..."))
	case v.loadErr != nil:
		b.WriteString(v.styles.Error.Render("Error: " + v.loadErr.Error()))
	case v.result == nil:
		b.WriteString(v.styles.Muted.Render("No analysis loaded yet."))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Run 'redmark review <file.docx>' to record one."))
	default:
		b.WriteString(v.renderResult())
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] findings  [esc] back"))

	return b.String()
}

// renderResult renders the process header and the document list.
func (v *View) renderResult() string {
	var b strings.Builder

	b.WriteString(v.styles.Subtitle.Render("Process: "))
	b.WriteString(v.styles.Normal.Render(v.result.Process))
	b.WriteString("\n")

	uploaded := fmt.Sprintf("Documents uploaded: %d", v.result.DocumentsUploaded)
	if v.result.RequiredDocuments != nil {
		uploaded += fmt.Sprintf(" of %d required", *v.result.RequiredDocuments)
	}
	b.WriteString(v.styles.Normal.Render(uploaded))
	b.WriteString("\n")

	if len(v.result.MissingDocuments) > 0 {
		missing := "Missing: " + strings.Join(v.result.MissingDocuments, ", ")
		b.WriteString(v.styles.Warning.Render(missing))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if len(v.result.Summary) == 0 {
		b.WriteString(v.styles.Muted.Render("No documents in this run"))
		return b.String()
	}

	for i, doc := range v.result.Summary {
		b.WriteString(v.renderDocument(i, doc))
		b.WriteString("\n")
	}

	return b.String()
}

// renderDocument renders a single document summary line.
func (v *View) renderDocument(index int, doc domain.DocumentSummary) string {
	cursor := "  "
	if index == v.selected {
		cursor = "> "
	}

	issues := "no issues"
	switch doc.IssuesFound {
	case 0:
	case 1:
		issues = "1 issue"
	default:
		issues = fmt.Sprintf("%d issues", doc.IssuesFound)
	}

	line := fmt.Sprintf("%s%-28s %-32s %s", cursor, truncate(doc.File, 28), truncate(doc.Type, 32), issues)
	if index == v.selected {
		return v.styles.Selected.Render(line)
	}
	if doc.IssuesFound > 0 {
		return v.styles.Normal.Render(line)
	}
	return v.styles.Muted.Render(line)
}

// truncate shortens a string to fit a column.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Result returns the loaded analysis result.
func (v *View) Result() *domain.AnalysisResult {
	return v.result
}

// Selected returns the currently selected document index.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the load error, if any.
func (v *View) Err() error {
	return v.loadErr
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
