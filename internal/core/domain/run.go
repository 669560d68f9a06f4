package domain

import "time"

// Run records one completed analysis for history listings.
type Run struct {
	// ID is the unique run identifier (UUID hex).
	ID string

	// CreatedAt is when the run completed.
	CreatedAt time.Time

	// Process is the inferred regulatory process.
	Process string

	// DocumentsUploaded counts the documents in the batch.
	DocumentsUploaded int

	// Issues counts all findings across the batch.
	Issues int

	// ResultJSON is the serialized AnalysisResult for later inspection.
	ResultJSON string
}
