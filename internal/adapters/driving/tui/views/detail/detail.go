// Package detail provides the single-finding detail view for the TUI.
package detail

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/messages"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/styles"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// View is the finding detail view.
type View struct {
	styles *styles.Styles

	issue        *domain.IssueRecord
	scrollOffset int
	width        int
	height       int
	ready        bool
}

// NewView creates a new finding detail view.
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

// SetIssue sets the finding to display.
func (v *View) SetIssue(issue domain.IssueRecord) {
	v.issue = &issue
	v.scrollOffset = 0
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the finding detail view.
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
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewFindings}
		}
	}

	return v, nil
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	reserved := 6
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	lines := v.buildContent()
	maxOffset := len(lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// buildContent builds the content lines for display.
func (v *View) buildContent() []string {
	if v.issue == nil {
		return nil
	}

	wrapWidth := v.width - 4
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	body := v.styles.Normal.Width(wrapWidth)

	var lines []string
	lines = append(lines,
		v.formatField("Document", v.issue.Document),
		v.formatField("Type", v.issue.DocType),
		v.formatField("Section", v.sectionLabel()),
		v.styles.Subtitle.Render("Severity:")+"    "+
			v.styles.Severity(v.issue.Severity).Render(v.issue.Severity.String()),
		"")

	lines = append(lines, v.styles.Subtitle.Render("Issue"))
	lines = append(lines, strings.Split(body.Render(v.issue.Issue), "\n")...)
	lines = append(lines, "")

	if v.issue.Suggestion != "" {
		lines = append(lines, v.styles.Subtitle.Render("Suggestion"))
		lines = append(lines, strings.Split(body.Render(v.issue.Suggestion), "\n")...)
	}

	return lines
}

// sectionLabel returns the location label, defaulting to the document scope.
func (v *View) sectionLabel() string {
	if v.issue.Section == "" {
		return "Document"
	}
	return v.issue.Section
}

// formatField formats a label-value field for display.
func (v *View) formatField(label, value string) string {
	return v.styles.Subtitle.Render(label+":") +
		strings.Repeat(" ", maxInt(12-len(label)-1, 1)) +
		v.styles.Normal.Render(value)
}

// View renders the finding detail view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Finding Detail"))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", minInt(v.width-4, 60)))
	b.WriteString("\n\n")

	if v.issue == nil {
		b.WriteString(v.styles.Muted.Render("No finding selected"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	lines := v.buildContent()
	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(lines[i])
		b.WriteString("\n")
	}

	// Scroll indicator
	if len(lines) > visible {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [Line %d-%d of %d]",
			v.scrollOffset+1,
			minInt(v.scrollOffset+visible, len(lines)),
			len(lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] scroll  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Issue returns the displayed finding.
func (v *View) Issue() *domain.IssueRecord {
	return v.issue
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
