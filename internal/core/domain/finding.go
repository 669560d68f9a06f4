package domain

import (
	"encoding/json"
	"strings"
)

const unknownDescription = "Unknown"

// Severity ranks how serious a Finding is.
type Severity string

// Available severities.
const (
	// SeverityLow marks informational findings, including degraded-mode
	// notices such as a failed LLM call.
	SeverityLow Severity = "Low"

	// SeverityMedium marks drafting concerns such as ambiguous language.
	SeverityMedium Severity = "Medium"

	// SeverityHigh marks compliance failures such as wrong jurisdiction.
	SeverityHigh Severity = "High"
)

// IsValid returns true if the severity is recognised.
func (s Severity) IsValid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (s Severity) String() string {
	return string(s)
}

// Rank returns a sort key, higher is more severe.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ParseSeverity normalises a severity string case-insensitively.
// Anything unrecognised maps to SeverityLow so that untrusted input
// can never inflate a finding's weight.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high":
		return SeverityHigh
	case "medium":
		return SeverityMedium
	case "low":
		return SeverityLow
	default:
		return SeverityLow
	}
}

// FindingLevel says whether a Finding addresses one paragraph or the
// document as a whole. The two states are explicit rather than an
// overloaded nullable index.
type FindingLevel struct {
	index     int
	paragraph bool
}

// DocumentLevel returns the level for findings about the whole document.
func DocumentLevel() FindingLevel {
	return FindingLevel{}
}

// ParagraphLevel returns the level for findings about one paragraph,
// addressed by its native index.
func ParagraphLevel(index int) FindingLevel {
	return FindingLevel{index: index, paragraph: true}
}

// ParagraphIndex returns the native paragraph index and true when the
// level is paragraph-scoped, or 0 and false for document-level.
func (l FindingLevel) ParagraphIndex() (int, bool) {
	return l.index, l.paragraph
}

// IsDocumentLevel returns true for document-scoped findings.
func (l FindingLevel) IsDocumentLevel() bool {
	return !l.paragraph
}

// Finding is a single detected compliance issue. Exactly one detector
// creates each Finding; it is never mutated afterwards.
type Finding struct {
	// Level scopes the finding to a paragraph or the whole document.
	Level FindingLevel

	// Issue is the short description of what was detected.
	Issue string

	// Section is a human-readable location label, e.g. "Paragraph 4"
	// or "Governing Law / Jurisdiction clause".
	Section string

	// Severity ranks the finding.
	Severity Severity

	// Suggestion is the remediation text.
	Suggestion string
}

// findingJSON is the wire form of Finding. paragraph_index is omitted
// for document-level findings.
type findingJSON struct {
	ParagraphIndex *int   `json:"paragraph_index,omitempty"`
	Issue          string `json:"issue"`
	Section        string `json:"section,omitempty"`
	Severity       string `json:"severity"`
	Suggestion     string `json:"suggestion"`
}

// MarshalJSON implements json.Marshaler.
func (f Finding) MarshalJSON() ([]byte, error) {
	out := findingJSON{
		Issue:      f.Issue,
		Section:    f.Section,
		Severity:   f.Severity.String(),
		Suggestion: f.Suggestion,
	}
	if idx, ok := f.Level.ParagraphIndex(); ok {
		out.ParagraphIndex = &idx
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (f *Finding) UnmarshalJSON(data []byte) error {
	var in findingJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	f.Level = DocumentLevel()
	if in.ParagraphIndex != nil {
		f.Level = ParagraphLevel(*in.ParagraphIndex)
	}
	f.Issue = in.Issue
	f.Section = in.Section
	f.Severity = ParseSeverity(in.Severity)
	f.Suggestion = in.Suggestion
	return nil
}
