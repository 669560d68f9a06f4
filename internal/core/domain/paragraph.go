package domain

import "strings"

// Paragraph is an addressable unit of document text.
// Index is the paragraph's position in the document's native paragraph
// list, including empty paragraphs that extraction filtered out. Every
// Finding and Annotation addresses paragraphs by this native index, never
// by position in the filtered sequence.
type Paragraph struct {
	// Index is the position in the native paragraph list.
	Index int

	// Text is the paragraph content, never empty after extraction.
	Text string
}

// ExtractParagraphs filters raw paragraph texts down to the non-empty
// ones while preserving each survivor's native index. Indices in the
// result are strictly increasing.
func ExtractParagraphs(raw []string) []Paragraph {
	paras := make([]Paragraph, 0, len(raw))
	for i, text := range raw {
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			continue
		}
		paras = append(paras, Paragraph{Index: i, Text: trimmed})
	}
	return paras
}

// CombinedText joins paragraph texts with newlines, preserving order.
// Document-level detectors and the classifier operate on this form.
func CombinedText(paras []Paragraph) string {
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text
	}
	return strings.Join(texts, "\n")
}

// LastIndex returns the native index of the last extracted paragraph,
// or 0 when the document has no non-empty paragraphs. Document-level
// annotations attach here.
func LastIndex(paras []Paragraph) int {
	if len(paras) == 0 {
		return 0
	}
	return paras[len(paras)-1].Index
}
