package domain

// Well-known labels used by classification and process inference.
const (
	// ProcessCompanyIncorporation is the one process the default
	// checklist covers.
	ProcessCompanyIncorporation = "Company Incorporation"

	// ProcessUnknown is reported when no process matches.
	ProcessUnknown = "Unknown"

	// DocTypeUnknown is reported when no classifier label matches.
	DocTypeUnknown = "Unknown Document Type"
)

// ProcessRequirement maps a regulatory process to the document types it
// requires. Order of RequiredDocuments is preserved from configuration.
type ProcessRequirement struct {
	// Name is the process name, e.g. "Company Incorporation".
	Name string

	// RequiredDocuments lists required document-type labels in order.
	RequiredDocuments []string
}

// LabelKeywords maps a document-type label to its trigger keywords.
// Match priority is the position in the table, so the table is an
// ordered list rather than a map.
type LabelKeywords struct {
	// Label is the document-type label.
	Label string

	// Keywords are lowercase phrases whose presence selects the label.
	Keywords []string
}

// Checklist is the process/classification configuration table, loaded
// once at startup and read-only afterwards.
type Checklist struct {
	// Processes lists known processes and their required documents.
	Processes []ProcessRequirement

	// Labels lists classifier labels in match-priority order.
	Labels []LabelKeywords
}

// Requirement returns the requirement for a process name, or false when
// the checklist has no entry for it.
func (c Checklist) Requirement(name string) (ProcessRequirement, bool) {
	for _, p := range c.Processes {
		if p.Name == name {
			return p, true
		}
	}
	return ProcessRequirement{}, false
}

// ProcessInference is the outcome of matching uploaded document types
// against the checklist.
type ProcessInference struct {
	// Process is the inferred process name, or "Unknown".
	Process string

	// DocumentsUploaded counts the uploaded document types, including
	// duplicates.
	DocumentsUploaded int

	// RequiredDocuments counts the checklist entries for the inferred
	// process. Nil when the process is unknown.
	RequiredDocuments *int

	// MissingDocuments lists required types absent from the upload set.
	// Empty when the process is unknown.
	MissingDocuments []string
}
