// Package ask provides the reference corpus query view for the TUI.
package ask

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/components/input"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/components/status"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/keymap"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/messages"
	"github.com/redmark-labs/redmark-cli/internal/adapters/driving/tui/styles"
	"github.com/redmark-labs/redmark-cli/internal/core/domain"
	"github.com/redmark-labs/redmark-cli/internal/core/ports/driving"
)

// View is the ask view with question input, retrieved references, and
// a status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QuestionInput
	statusbar *status.Bar

	askService driving.AskService
	ctx        context.Context

	chunks   []domain.RetrievedChunk
	selected int

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new ask view.
func NewView(s *styles.Styles, km *keymap.KeyMap, askService driving.AskService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQuestionInput(s),
		statusbar:  status.NewBar(s, km),
		askService: askService,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true, // Start in input mode
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the ask view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.AskCompleted:
		v.handleAskCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to input component
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc always signals to go back to menu
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Enter in input mode submits the question
	if msg.Type == tea.KeyEnter && v.focusInput {
		question := strings.TrimSpace(v.input.Value())
		if question == "" {
			return v, nil
		}
		v.statusbar.SetState(status.StateAsking)
		v.focusInput = false // Move to results mode after submitting
		v.input.Blur()
		return v, v.performAsk(question)
	}

	// Input mode: all keys go to input
	if v.focusInput {
		v.input, _ = v.input.Update(msg)
		return v, nil
	}

	// Results mode: handle navigation
	//nolint:exhaustive // handling only relevant key types
	switch msg.Type {
	case tea.KeyUp:
		v.moveUp()
		return v, nil
	case tea.KeyDown:
		v.moveDown()
		return v, nil
	}

	switch msg.String() {
	case "k":
		v.moveUp()
	case "j":
		v.moveDown()
	case "n":
		// New question: clear input and focus it
		v.focusInput = true
		v.input.Focus()
		v.input.SetValue("")
	}

	return v, nil
}

// performAsk queries the retrieval index.
func (v *View) performAsk(question string) tea.Cmd {
	return func() tea.Msg {
		if v.askService == nil {
			return messages.AskCompleted{Question: question, Err: ErrNoAskService}
		}

		chunks, err := v.askService.Ask(v.ctx, question, 0)
		return messages.AskCompleted{Question: question, Chunks: chunks, Err: err}
	}
}

// handleAskCompleted processes retrieval results.
func (v *View) handleAskCompleted(msg messages.AskCompleted) {
	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.chunks = msg.Chunks
	v.selected = 0
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetCount(len(msg.Chunks), "references")

	// Switch to results mode after a successful query
	v.focusInput = false
	v.input.Blur()
}

func (v *View) moveUp() {
	if v.selected > 0 {
		v.selected--
	}
}

func (v *View) moveDown() {
	if v.selected < len(v.chunks)-1 {
		v.selected++
	}
}

// View renders the ask view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 8)

	// Header
	sections = append(sections, v.styles.Title.Render("Ask the References"), "")

	// Question input
	sections = append(sections, v.input.View(), "")

	// Error display
	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	// Reference list
	sections = append(sections, v.renderChunks())

	// Status bar at bottom
	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderChunks renders the retrieved reference chunks.
func (v *View) renderChunks() string {
	if len(v.chunks) == 0 {
		return v.styles.Muted.Render("No references")
	}

	wrapWidth := v.width - 8
	if wrapWidth < 20 {
		wrapWidth = 20
	}
	preview := v.styles.Muted.Width(wrapWidth)

	lines := make([]string, 0, len(v.chunks)*3+2)
	header := v.styles.Subtitle.Render(fmt.Sprintf("References (%d)", len(v.chunks)))
	lines = append(lines, header, "")

	for i, chunk := range v.chunks {
		indicator := "  "
		if i == v.selected {
			indicator = "> "
		}

		title := fmt.Sprintf("%s%s  (distance %.4f)", indicator, chunk.Chunk.SourceFile, chunk.Distance)
		if i == v.selected {
			lines = append(lines, v.styles.Selected.Render(title))
		} else {
			lines = append(lines, v.styles.Normal.Render(title))
		}

		text := chunk.Chunk.Text
		if i != v.selected && len(text) > wrapWidth {
			text = text[:wrapWidth-3] + "..."
		}
		for _, l := range strings.Split(preview.Render(text), "\n") {
			lines = append(lines, "    "+l)
		}
	}

	return strings.Join(lines, "\n")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
}

// Question returns the current question text.
func (v *View) Question() string {
	return v.input.Value()
}

// Chunks returns the retrieved reference chunks.
func (v *View) Chunks() []domain.RetrievedChunk {
	return v.chunks
}

// Selected returns the index of the selected reference.
func (v *View) Selected() int {
	return v.selected
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset resets the view to initial input mode.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.chunks = nil
	v.selected = 0
	v.err = nil
	v.statusbar.Clear()
}
