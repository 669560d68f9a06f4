package domain

import "fmt"

// Annotation is a rendering-ready directive to append comment text to a
// specific paragraph. It is derived 1:1 from a Finding and consumed
// exactly once by the annotation writer.
type Annotation struct {
	// ParagraphIndex is the native index of the target paragraph.
	ParagraphIndex int `json:"paragraph_index"`

	// MatchText optionally narrows the annotation to a text fragment
	// within the paragraph. Unused by the current writer.
	MatchText string `json:"match_text,omitempty"`

	// Comment is the text to append, already formatted.
	Comment string `json:"comment"`
}

// AnnotationFromFinding derives the Annotation for a Finding.
// Document-level findings attach at fallbackIndex, the native index of
// the document's last extracted paragraph (0 for an empty document).
func AnnotationFromFinding(f Finding, fallbackIndex int) Annotation {
	idx, ok := f.Level.ParagraphIndex()
	if !ok {
		idx = fallbackIndex
	}
	return Annotation{
		ParagraphIndex: idx,
		Comment:        fmt.Sprintf("%s: %s", f.Issue, f.Suggestion),
	}
}

// DeriveAnnotations maps every Finding to its Annotation, in order.
func DeriveAnnotations(findings []Finding, paras []Paragraph) []Annotation {
	fallback := LastIndex(paras)
	annotations := make([]Annotation, len(findings))
	for i, f := range findings {
		annotations[i] = AnnotationFromFinding(f, fallback)
	}
	return annotations
}
