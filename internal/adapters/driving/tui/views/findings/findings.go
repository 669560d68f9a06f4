// Package findings provides the per-document findings view for the TUI.
package findings

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/components/list"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/messages"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/styles"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// View lists the findings of one analyzed document.
type View struct {
	styles *styles.Styles
	list   *list.FindingList

	file    string
	docType string
	width   int
	height  int
	ready   bool
}

// NewView creates a new findings view.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &View{
		styles: s,
		list:   list.NewFindingList(s),
		width:  80,
		height: 24,
	}
}

// Init initialises the findings view.
func (v *View) Init() tea.Cmd {
	return nil
}

// SetDocument installs the document whose findings are listed.
func (v *View) SetDocument(doc domain.DocumentSummary, issues []domain.IssueRecord) {
	v.file = doc.File
	v.docType = doc.Type
	v.list.SetIssues(issues)
}

// Update handles messages for the findings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
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
		v.list.MoveUp()
		return v, nil

	case "down", "j":
		v.list.MoveDown()
		return v, nil

	case "enter":
		if v.list.IsEmpty() {
			return v, nil
		}
		index := v.list.Selected()
		return v, func() tea.Msg {
			return messages.FindingSelected{Index: index}
		}

	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewReports}
		}
	}

	return v, nil
}

// View renders the findings view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render(v.file))
	if v.docType != "" {
		b.WriteString(v.styles.Muted.Render("  " + v.docType))
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	b.WriteString(v.list.View())

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] detail  [esc] back"))

	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	// Reserve space for header and help lines
	v.list.SetDimensions(width, height-8)
}

// Issues returns the listed findings.
func (v *View) Issues() []domain.IssueRecord {
	return v.list.Issues()
}

// Selected returns the selected finding index.
func (v *View) Selected() int {
	return v.list.Selected()
}

// SelectedIssue returns the selected finding, or nil.
func (v *View) SelectedIssue() *domain.IssueRecord {
	return v.list.SelectedIssue()
}

// File returns the document file name.
func (v *View) File() string {
	return v.file
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
