package domain

// DocumentReport holds the outcome of analyzing one document.
// It owns its Findings.
type DocumentReport struct {
	// FileName is the base name of the analyzed file.
	FileName string `json:"file_name"`

	// DocType is the classified document-type label.
	DocType string `json:"doc_type"`

	// Findings lists detected issues in creation order: per-paragraph
	// before document-level, heuristic before grounded review.
	Findings []Finding `json:"findings"`

	// ReviewedPath is where the annotated copy was written, empty if
	// annotation writing was skipped or failed.
	ReviewedPath string `json:"reviewed_path,omitempty"`
}

// DocumentSummary is the per-document line in an AnalysisResult.
type DocumentSummary struct {
	// File is the base name of the analyzed file.
	File string `json:"file"`

	// Type is the classified document-type label.
	Type string `json:"type"`

	// IssuesFound counts all Findings for the document.
	IssuesFound int `json:"issues_found"`
}

// IssueRecord is a Finding flattened into the cross-document issue list,
// tagged with its originating document.
type IssueRecord struct {
	// Document is the base name of the originating file.
	Document string `json:"document"`

	// DocType is the document's classified label.
	DocType string `json:"doc_type"`

	// Section is the human-readable location label.
	Section string `json:"section,omitempty"`

	// Issue is the short description of what was detected.
	Issue string `json:"issue"`

	// Severity ranks the issue.
	Severity Severity `json:"severity"`

	// Suggestion is the remediation text.
	Suggestion string `json:"suggestion"`
}

// AnalysisResult aggregates one run over a batch of documents.
// It is built once per run and read-only after construction.
type AnalysisResult struct {
	// Process is the inferred regulatory process, or "Unknown".
	Process string `json:"process"`

	// DocumentsUploaded counts the documents in the batch.
	DocumentsUploaded int `json:"documents_uploaded"`

	// RequiredDocuments counts the process checklist entries.
	// Nil (serialized as null) when the process is unknown.
	RequiredDocuments *int `json:"required_documents"`

	// MissingDocuments lists required document-type labels not present
	// in the batch. Empty when the process is unknown.
	MissingDocuments []string `json:"missing_documents"`

	// Summary holds one entry per analyzed document, in input order.
	Summary []DocumentSummary `json:"summary"`

	// Issues flattens all documents' Findings in processing order.
	Issues []IssueRecord `json:"issues"`

	// ReviewedFiles lists the annotated copies written, in input order.
	ReviewedFiles []string `json:"reviewed_files"`
}

// FlattenFindings converts a report's Findings to IssueRecords.
func FlattenFindings(report DocumentReport) []IssueRecord {
	records := make([]IssueRecord, len(report.Findings))
	for i, f := range report.Findings {
		records[i] = IssueRecord{
			Document:   report.FileName,
			DocType:    report.DocType,
			Section:    f.Section,
			Issue:      f.Issue,
			Severity:   f.Severity,
			Suggestion: f.Suggestion,
		}
	}
	return records
}
