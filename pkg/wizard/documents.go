package wizard

import "github.com/herreralegal/intake/pkg/models"

// DocumentsForKey filters uploaded documents down to those declared against
// one requirement key.
func DocumentsForKey(documents []models.Document, key string) []models.Document {
	matched := make([]models.Document, 0, len(documents))

	for _, doc := range documents {
		if doc.DocumentKey == key {
			matched = append(matched, doc)
		}
	}

	return matched
}

// RequirementStatus correlates one declared document requirement with the
// client's uploads. Satisfied means at least one upload exists for the key;
// the tracker never inspects file content and never caps uploads.
type RequirementStatus struct {
	Requirement models.RequiredDocument `json:"requirement"`
	Uploaded    int                     `json:"uploaded"`
	Satisfied   bool                    `json:"satisfied"`
}

// DocumentCompleteness computes per-requirement upload status, in the
// order the workflow declares its requirements.
//
// Completeness is informational only: the documents step is satisfied by
// visiting it, and clients may submit with partial documentation for staff
// triage. Do not wire this into navigation gating without product sign-off.
func DocumentCompleteness(required []models.RequiredDocument, documents []models.Document) []RequirementStatus {
	statuses := make([]RequirementStatus, len(required))

	for i, req := range required {
		count := len(DocumentsForKey(documents, req.Key))

		statuses[i] = RequirementStatus{
			Requirement: req,
			Uploaded:    count,
			Satisfied:   count > 0,
		}
	}

	return statuses
}

// MissingRequired returns the required documents with no upload yet.
func MissingRequired(required []models.RequiredDocument, documents []models.Document) []models.RequiredDocument {
	missing := make([]models.RequiredDocument, 0)

	for _, status := range DocumentCompleteness(required, documents) {
		if status.Requirement.Required && !status.Satisfied {
			missing = append(missing, status.Requirement)
		}
	}

	return missing
}
