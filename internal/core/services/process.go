package services

import "github.com/redmark-labs/redmark-cli/internal/core/domain"

// incorporationThreshold is how many uploaded documents must belong to
// the incorporation required set before the process is inferred.
// Duplicates of the same type each count.
const incorporationThreshold = 2

// InferProcess matches the batch's classified document types against
// the checklist. A missing checklist entry for the incorporation
// process behaves like an empty required set, so the result is simply
// "Unknown" rather than an error.
func InferProcess(docTypes []string, checklist domain.Checklist) domain.ProcessInference {
	requirement, _ := checklist.Requirement(domain.ProcessCompanyIncorporation)

	required := make(map[string]bool, len(requirement.RequiredDocuments))
	for _, d := range requirement.RequiredDocuments {
		required[d] = true
	}

	matches := 0
	for _, t := range docTypes {
		if required[t] {
			matches++
		}
	}

	if matches < incorporationThreshold {
		return domain.ProcessInference{
			Process:           domain.ProcessUnknown,
			DocumentsUploaded: len(docTypes),
			MissingDocuments:  []string{},
		}
	}

	uploaded := make(map[string]bool, len(docTypes))
	for _, t := range docTypes {
		uploaded[t] = true
	}

	missing := []string{}
	for _, d := range requirement.RequiredDocuments {
		if !uploaded[d] {
			missing = append(missing, d)
		}
	}

	requiredCount := len(requirement.RequiredDocuments)
	return domain.ProcessInference{
		Process:           domain.ProcessCompanyIncorporation,
		DocumentsUploaded: len(docTypes),
		RequiredDocuments: &requiredCount,
		MissingDocuments:  missing,
	}
}
