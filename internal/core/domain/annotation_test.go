package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAnnotationFromFinding_ParagraphLevel tests comment formatting and addressing
func TestAnnotationFromFinding_ParagraphLevel(t *testing.T) {
	f := Finding{
		Level:      ParagraphLevel(4),
		Issue:      "Ambiguous language: contains 'may'",
		Severity:   SeverityMedium,
		Suggestion: "Consider clarifying to explicit obligation or remove discretionary terms.",
	}

	a := AnnotationFromFinding(f, 9)

	assert.Equal(t, 4, a.ParagraphIndex)
	assert.Equal(t,
		"Ambiguous language: contains 'may': Consider clarifying to explicit obligation or remove discretionary terms.",
		a.Comment)
}

// TestAnnotationFromFinding_DocumentLevel tests the fallback index
func TestAnnotationFromFinding_DocumentLevel(t *testing.T) {
	f := Finding{
		Level:      DocumentLevel(),
		Issue:      "Jurisdiction not specified as ADGM",
		Severity:   SeverityHigh,
		Suggestion: "Set governing law and jurisdiction to ADGM and ADGM Courts.",
	}

	a := AnnotationFromFinding(f, 12)

	assert.Equal(t, 12, a.ParagraphIndex)
}

// TestDeriveAnnotations tests 1:1 derivation in order
func TestDeriveAnnotations(t *testing.T) {
	paras := []Paragraph{
		{Index: 0, Text: "Opening."},
		{Index: 3, Text: "Closing."},
	}
	findings := []Finding{
		{Level: ParagraphLevel(0), Issue: "a", Suggestion: "fix a"},
		{Level: DocumentLevel(), Issue: "b", Suggestion: "fix b"},
	}

	annotations := DeriveAnnotations(findings, paras)

	require.Len(t, annotations, 2)
	assert.Equal(t, 0, annotations[0].ParagraphIndex)
	assert.Equal(t, "a: fix a", annotations[0].Comment)
	// Document-level finding attaches to the last extracted paragraph's
	// native index, not its filtered position.
	assert.Equal(t, 3, annotations[1].ParagraphIndex)
}

// TestDeriveAnnotations_EmptyDocument tests the index-zero fallback
func TestDeriveAnnotations_EmptyDocument(t *testing.T) {
	findings := []Finding{
		{Level: DocumentLevel(), Issue: "no text", Suggestion: "add text"},
	}

	annotations := DeriveAnnotations(findings, nil)

	require.Len(t, annotations, 1)
	assert.Equal(t, 0, annotations[0].ParagraphIndex)
}
