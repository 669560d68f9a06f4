package services

import (
	"strings"

	"github.com/redmark-labs/redmark-cli/internal/core/domain"
)

// ClassifyDocument maps a document's combined text to a document-type
// label. Labels are checked in table order and within each label in
// keyword order; the first hit wins. When nothing in the table matches,
// two fallback heuristics apply before giving up: "article" together
// with "association" selects Articles of Association, and "memorandum"
// alone selects Memorandum of Association.
func ClassifyDocument(text string, labels []domain.LabelKeywords) string {
	lower := strings.ToLower(text)

	for _, entry := range labels {
		for _, kw := range entry.Keywords {
			if strings.Contains(lower, kw) {
				return entry.Label
			}
		}
	}

	if strings.Contains(lower, "article") && strings.Contains(lower, "association") {
		return "Articles of Association"
	}
	if strings.Contains(lower, "memorandum") {
		return "Memorandum of Association"
	}
	return domain.DocTypeUnknown
}
