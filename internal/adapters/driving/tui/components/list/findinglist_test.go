package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/styles"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

func sampleIssues() []domain.IssueRecord {
	return []domain.IssueRecord{
		{
			Document: "articles.docx",
			Section:  "Paragraph 3",
			Issue:    "Jurisdiction clause does not specify ADGM",
			Severity: domain.SeverityHigh,
		},
		{
			Document: "articles.docx",
			Section:  "Paragraph 9",
			Issue:    "Ambiguous obligation language",
			Severity: domain.SeverityMedium,
		},
		{
			Document: "articles.docx",
			Issue:    "Missing signatory section",
			Severity: domain.SeverityHigh,
		},
	}
}

func TestNewFindingList(t *testing.T) {
	s := styles.DefaultStyles()
	list := NewFindingList(s)

	require.NotNil(t, list)
	assert.Equal(t, 0, list.Selected())
	assert.True(t, list.IsEmpty())
}

func TestNewFindingList_NilStyles(t *testing.T) {
	list := NewFindingList(nil)

	require.NotNil(t, list)
	assert.NotNil(t, list.styles)
}

func TestFindingList_Init(t *testing.T) {
	list := NewFindingList(nil)

	cmd := list.Init()

	assert.Nil(t, cmd)
}

func TestFindingList_SetIssues(t *testing.T) {
	list := NewFindingList(nil)

	list.SetIssues(sampleIssues())

	assert.Equal(t, 3, list.Count())
	assert.False(t, list.IsEmpty())
	assert.Equal(t, 0, list.Selected())
}

func TestFindingList_SetIssues_ResetsSelection(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())
	list.SetSelected(2)

	list.SetIssues(sampleIssues()[:1])

	assert.Equal(t, 0, list.Selected())
}

func TestFindingList_Issues(t *testing.T) {
	list := NewFindingList(nil)
	issues := sampleIssues()
	list.SetIssues(issues)

	got := list.Issues()

	assert.Equal(t, issues, got)
}

func TestFindingList_SetSelected_Valid(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	list.SetSelected(2)

	assert.Equal(t, 2, list.Selected())
}

func TestFindingList_SetSelected_OutOfBounds(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	list.SetSelected(99)

	assert.Equal(t, 0, list.Selected()) // Unchanged
}

func TestFindingList_SetSelected_Negative(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	list.SetSelected(-1)

	assert.Equal(t, 0, list.Selected()) // Unchanged
}

func TestFindingList_SelectedIssue(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	issue := list.SelectedIssue()

	require.NotNil(t, issue)
	assert.Equal(t, "Jurisdiction clause does not specify ADGM", issue.Issue)
}

func TestFindingList_SelectedIssue_Empty(t *testing.T) {
	list := NewFindingList(nil)

	issue := list.SelectedIssue()

	assert.Nil(t, issue)
}

func TestFindingList_MoveUp(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())
	list.SetSelected(1)

	list.MoveUp()

	assert.Equal(t, 0, list.Selected())
}

func TestFindingList_MoveUp_AtTop(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	list.MoveUp()

	assert.Equal(t, 0, list.Selected()) // Stays at 0
}

func TestFindingList_MoveDown(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	list.MoveDown()

	assert.Equal(t, 1, list.Selected())
}

func TestFindingList_MoveDown_AtBottom(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())
	list.SetSelected(2)

	list.MoveDown()

	assert.Equal(t, 2, list.Selected()) // Stays at 2
}

func TestFindingList_Update_KeyUp(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())
	list.SetSelected(1)

	msg := tea.KeyMsg{Type: tea.KeyUp}
	updated, cmd := list.Update(msg)

	assert.Equal(t, list, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, 0, list.Selected())
}

func TestFindingList_Update_KeyDown(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	msg := tea.KeyMsg{Type: tea.KeyDown}
	updated, cmd := list.Update(msg)

	assert.Equal(t, list, updated)
	assert.Nil(t, cmd)
	assert.Equal(t, 1, list.Selected())
}

func TestFindingList_Update_KeyK(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())
	list.SetSelected(1)

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}}
	list.Update(msg)

	assert.Equal(t, 0, list.Selected())
}

func TestFindingList_Update_KeyJ(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}}
	list.Update(msg)

	assert.Equal(t, 1, list.Selected())
}

func TestFindingList_View_Empty(t *testing.T) {
	list := NewFindingList(nil)

	view := list.View()

	assert.Contains(t, view, "No issues found")
}

func TestFindingList_View_WithIssues(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())
	list.SetDimensions(80, 20)

	view := list.View()

	assert.Contains(t, view, "Findings (3)")
	assert.Contains(t, view, "[High]")
	assert.Contains(t, view, "Jurisdiction clause")
	assert.Contains(t, view, "Paragraph 3")
}

func TestFindingList_View_SelectedIndicator(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues(sampleIssues())

	view := list.View()

	assert.Contains(t, view, ">") // Selected indicator
}

func TestFindingList_View_MissingSectionShowsDocument(t *testing.T) {
	list := NewFindingList(nil)
	list.SetIssues([]domain.IssueRecord{
		{Issue: "Missing signatory section", Severity: domain.SeverityHigh},
	})

	view := list.View()

	assert.Contains(t, view, "Document")
}

func TestFindingList_View_LongIssueTruncated(t *testing.T) {
	list := NewFindingList(nil)
	longIssue := "This is a very long finding description that should be truncated when displayed in the list view"
	list.SetIssues([]domain.IssueRecord{
		{Issue: longIssue, Severity: domain.SeverityLow},
	})
	list.SetDimensions(40, 10)

	view := list.View()

	// Should be truncated with ellipsis
	assert.Contains(t, view, "...")
}

func TestFindingList_SetDimensions(t *testing.T) {
	list := NewFindingList(nil)

	list.SetDimensions(100, 20)

	assert.Equal(t, 100, list.Width())
	assert.Equal(t, 20, list.Height())
}

func TestFindingList_Width(t *testing.T) {
	list := NewFindingList(nil)

	assert.Equal(t, 80, list.Width()) // Default
}

func TestFindingList_Height(t *testing.T) {
	list := NewFindingList(nil)

	assert.Equal(t, 10, list.Height()) // Default
}

func TestFindingList_Count(t *testing.T) {
	list := NewFindingList(nil)

	assert.Equal(t, 0, list.Count())

	list.SetIssues(sampleIssues())
	assert.Equal(t, 3, list.Count())
}
