package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// TestViewType_String tests all ViewType string representations
func TestViewType_String(t *testing.T) {
	tests := []struct {
		name     string
		view     ViewType
		expected string
	}{
		{"ViewMenu", ViewMenu, "menu"},
		{"ViewReports", ViewReports, "reports"},
		{"ViewFindings", ViewFindings, "findings"},
		{"ViewDetail", ViewDetail, "detail"},
		{"ViewAsk", ViewAsk, "ask"},
		{"ViewHelp", ViewHelp, "help"},
		{"UnknownView", ViewType(99), "unknown"},
		{"NegativeView", ViewType(-1), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.view.String())
		})
	}
}

// TestResultLoaded tests the ResultLoaded message type
func TestResultLoaded(t *testing.T) {
	t.Run("with result", func(t *testing.T) {
		result := &domain.AnalysisResult{Process: "Company Incorporation"}
		msg := ResultLoaded{Result: result}

		require.NotNil(t, msg.Result)
		assert.Equal(t, "Company Incorporation", msg.Result.Process)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("load failed")
		msg := ResultLoaded{Err: err}

		assert.Nil(t, msg.Result)
		assert.Error(t, msg.Err)
	})

	t.Run("empty history carries neither", func(t *testing.T) {
		msg := ResultLoaded{}

		assert.Nil(t, msg.Result)
		assert.NoError(t, msg.Err)
	})
}

// TestAskCompleted tests the AskCompleted message type
func TestAskCompleted(t *testing.T) {
	t.Run("with chunks", func(t *testing.T) {
		chunks := []domain.RetrievedChunk{
			{Chunk: domain.ReferenceChunk{SourceFile: "regs.md", Text: "Clause"}, Distance: 0.2},
		}
		msg := AskCompleted{Question: "what clauses", Chunks: chunks}

		assert.Equal(t, "what clauses", msg.Question)
		require.Len(t, msg.Chunks, 1)
		assert.Equal(t, "regs.md", msg.Chunks[0].Chunk.SourceFile)
		assert.NoError(t, msg.Err)
	})

	t.Run("with error", func(t *testing.T) {
		err := errors.New("index not built")
		msg := AskCompleted{Question: "q", Err: err}

		assert.Nil(t, msg.Chunks)
		assert.Error(t, msg.Err)
	})
}

// TestSelectionMessages tests the index-carrying message types
func TestSelectionMessages(t *testing.T) {
	t.Run("document selected", func(t *testing.T) {
		msg := DocumentSelected{Index: 2}
		assert.Equal(t, 2, msg.Index)
	})

	t.Run("finding selected", func(t *testing.T) {
		msg := FindingSelected{Index: 0}
		assert.Equal(t, 0, msg.Index)
	})
}

// TestViewChanged tests the ViewChanged message type
func TestViewChanged(t *testing.T) {
	t.Run("to reports view", func(t *testing.T) {
		msg := ViewChanged{View: ViewReports}
		assert.Equal(t, ViewReports, msg.View)
	})

	t.Run("to ask view", func(t *testing.T) {
		msg := ViewChanged{View: ViewAsk}
		assert.Equal(t, ViewAsk, msg.View)
	})
}

// TestErrorOccurred tests the ErrorOccurred message type
func TestErrorOccurred(t *testing.T) {
	t.Run("with standard error", func(t *testing.T) {
		err := errors.New("something went wrong")
		msg := ErrorOccurred{Err: err}

		assert.Error(t, msg.Err)
		assert.Equal(t, "something went wrong", msg.Err.Error())
	})

	t.Run("with nil error", func(t *testing.T) {
		msg := ErrorOccurred{Err: nil}
		assert.Nil(t, msg.Err)
	})
}
