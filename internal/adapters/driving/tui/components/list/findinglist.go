// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/styles"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// FindingList displays a document's findings in a navigable list.
type FindingList struct {
	issues   []domain.IssueRecord
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewFindingList creates a new finding list component.
func NewFindingList(s *styles.Styles) *FindingList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &FindingList{
		issues:   nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the finding list.
func (f *FindingList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (f *FindingList) Update(msg tea.Msg) (*FindingList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			f.MoveUp()
		case tea.KeyDown:
			f.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			f.MoveUp()
		case "j":
			f.MoveDown()
		}
	}
	return f, nil
}

// View renders the finding list.
func (f *FindingList) View() string {
	if len(f.issues) == 0 {
		return f.styles.Success.Render("No issues found")
	}

	lines := make([]string, 0, len(f.issues)*2+2)

	// Header
	header := f.styles.Subtitle.Render(fmt.Sprintf("Findings (%d)", len(f.issues)))
	lines = append(lines, header, "")

	// Each finding takes 2 lines (severity+issue, then section), so
	// derive the visible window from the height.
	visibleCount := (f.height - 4) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if f.selected >= visibleCount {
		start = f.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(f.issues) {
		end = len(f.issues)
	}

	for i := start; i < end; i++ {
		line := f.renderFinding(i, &f.issues[i])
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}

// renderFinding formats a single finding with its severity tag.
func (f *FindingList) renderFinding(index int, issue *domain.IssueRecord) string {
	// Indicator for selected item
	indicator := "  "
	if index == f.selected {
		indicator = "> "
	}

	tag := fmt.Sprintf("[%s]", issue.Severity)

	// Truncate the issue text to fit beside the tag
	text := issue.Issue
	maxTextLen := f.width - len(tag) - 8
	if maxTextLen < 10 {
		maxTextLen = 10
	}
	if len(text) > maxTextLen {
		text = text[:maxTextLen-3] + "..."
	}

	var issueLine string
	if index == f.selected {
		issueLine = f.styles.Selected.Render(fmt.Sprintf("%s%s %s", indicator, tag, text))
	} else {
		issueLine = f.styles.Severity(issue.Severity).Render(indicator+tag) + " " +
			f.styles.Normal.Render(text)
	}

	// Section line below the issue
	section := issue.Section
	if section == "" {
		section = "Document"
	}
	sectionLine := f.styles.Muted.Render("    " + section)

	return issueLine + "\n" + sectionLine
}

// SetIssues replaces the listed findings.
func (f *FindingList) SetIssues(issues []domain.IssueRecord) {
	f.issues = issues
	f.selected = 0
}

// Issues returns the current findings.
func (f *FindingList) Issues() []domain.IssueRecord {
	return f.issues
}

// Selected returns the index of the selected finding.
func (f *FindingList) Selected() int {
	return f.selected
}

// SetSelected sets the selected index.
func (f *FindingList) SetSelected(index int) {
	if index >= 0 && index < len(f.issues) {
		f.selected = index
	}
}

// SelectedIssue returns the currently selected finding, or nil if none.
func (f *FindingList) SelectedIssue() *domain.IssueRecord {
	if len(f.issues) == 0 || f.selected < 0 || f.selected >= len(f.issues) {
		return nil
	}
	return &f.issues[f.selected]
}

// MoveUp moves selection up.
func (f *FindingList) MoveUp() {
	if f.selected > 0 {
		f.selected--
	}
}

// MoveDown moves selection down.
func (f *FindingList) MoveDown() {
	if f.selected < len(f.issues)-1 {
		f.selected++
	}
}

// SetDimensions sets the component dimensions.
func (f *FindingList) SetDimensions(width, height int) {
	f.width = width
	f.height = height
}

// Width returns the current width.
func (f *FindingList) Width() int {
	return f.width
}

// Height returns the current height.
func (f *FindingList) Height() int {
	return f.height
}

// Count returns the number of findings.
func (f *FindingList) Count() int {
	return len(f.issues)
}

// IsEmpty returns whether the list is empty.
func (f *FindingList) IsEmpty() bool {
	return len(f.issues) == 0
}
