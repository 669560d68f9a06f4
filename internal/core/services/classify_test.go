package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// testLabels returns the default classification table used by the tests.
func testLabels() []domain.LabelKeywords {
	return []domain.LabelKeywords{
		{Label: "Articles of Association", Keywords: []string{"articles of association", "articles", "aoa"}},
		{Label: "Memorandum of Association", Keywords: []string{"memorandum of association", "memorandum", "moa", "mou"}},
		{Label: "Incorporation Application Form", Keywords: []string{"incorporation application", "incorporation form"}},
		{Label: "UBO Declaration Form", Keywords: []string{"ubo declaration", "ubo form"}},
		{Label: "Register of Members and Directors", Keywords: []string{"register of members", "register of directors", "register of members and directors"}},
	}
}

// TestClassifyDocument tests keyword-table classification
func TestClassifyDocument(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "articles of association full phrase",
			text:     "These Articles of Association govern the company.",
			expected: "Articles of Association",
		},
		{
			name:     "aoa abbreviation",
			text:     "Amendments to the AOA require a special resolution.",
			expected: "Articles of Association",
		},
		{
			name:     "memorandum",
			text:     "This Memorandum of Association is entered into today.",
			expected: "Memorandum of Association",
		},
		{
			name:     "mou keyword",
			text:     "The parties signed an MOU regarding the venture.",
			expected: "Memorandum of Association",
		},
		{
			name:     "incorporation form",
			text:     "Please complete the incorporation application in full.",
			expected: "Incorporation Application Form",
		},
		{
			name:     "ubo declaration",
			text:     "UBO Declaration pursuant to the beneficial ownership rules.",
			expected: "UBO Declaration Form",
		},
		{
			name:     "register of directors",
			text:     "The Register of Directors must be kept at the registered office.",
			expected: "Register of Members and Directors",
		},
		{
			name:     "table order decides between competing labels",
			text:     "This memorandum references the register of members.",
			expected: "Memorandum of Association",
		},
		{
			name:     "no match",
			text:     "Quarterly financial statements for the period.",
			expected: "Unknown Document Type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDocument(tt.text, testLabels()))
		})
	}
}

// TestClassifyDocument_Fallbacks tests the heuristics applied when the
// table has no match
func TestClassifyDocument_Fallbacks(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{
			name:     "article plus association",
			text:     "Each article binds the association and its members.",
			expected: "Articles of Association",
		},
		{
			name:     "memorandum alone",
			text:     "An internal memorandum was circulated to staff.",
			expected: "Memorandum of Association",
		},
		{
			name:     "article without association",
			text:     "See article 12 for details.",
			expected: "Unknown Document Type",
		},
		{
			name:     "nothing recognisable",
			text:     "Minutes of the annual general meeting.",
			expected: "Unknown Document Type",
		},
		{
			name:     "empty text",
			text:     "",
			expected: "Unknown Document Type",
		},
	}

	// An empty table forces every case through the fallbacks.
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ClassifyDocument(tt.text, nil))
		})
	}
}

// TestClassifyDocument_FallbackPriority tests that the table wins over
// fallback heuristics
func TestClassifyDocument_FallbackPriority(t *testing.T) {
	// "register of members" is a table hit; the memorandum fallback
	// must not preempt it when the table matches first.
	text := "The register of members is maintained per the memorandum."
	assert.Equal(t, "Memorandum of Association", ClassifyDocument(text, testLabels()))

	// With a table that only knows registers, the same text matches it.
	registersOnly := []domain.LabelKeywords{
		{Label: "Register of Members and Directors", Keywords: []string{"register of members"}},
	}
	assert.Equal(t, "Register of Members and Directors", ClassifyDocument(text, registersOnly))
}
