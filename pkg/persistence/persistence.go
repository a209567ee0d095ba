// Package persistence provides the data storage abstraction for cases,
// uploaded document records, and the append-only case activity log.
package persistence

import (
	"context"
	"time"

	"github.com/herreralegal/intake/pkg/models"
)

// CaseRepository stores intake cases. The form-data document is persisted
// opaquely: repositories never prune keys that are absent from the current
// step's schema.
type CaseRepository interface {
	Cases(ctx context.Context) ([]*models.Case, error)
	CasesByStatus(ctx context.Context, status models.IntakeStatus) ([]*models.Case, error)
	CaseByID(ctx context.Context, id string) (*models.Case, error)
	SaveCase(ctx context.Context, c *models.Case) error

	// UpdateSnapshot persists an autosave snapshot. Idempotent under retry.
	UpdateSnapshot(ctx context.Context, id string, formData map[string]any, currentStep int) error

	// UpdateStatus transitions the case's intake status. Correction notes
	// accompany needs_correction transitions and are cleared otherwise.
	UpdateStatus(ctx context.Context, id string, status models.IntakeStatus, correctionNotes string) error

	// CasesDueBefore returns cases whose deadline or payment due date falls
	// before the cutoff, for the reminder worker.
	CasesDueBefore(ctx context.Context, cutoff time.Time) ([]*models.Case, error)
}

// DocumentRepository stores uploaded document metadata. The file bytes live
// in external blob storage.
type DocumentRepository interface {
	DocumentsByCase(ctx context.Context, caseID string) ([]models.Document, error)
	SaveDocument(ctx context.Context, doc *models.Document) error
}

// ActivityRepository is the append-only case audit log.
type ActivityRepository interface {
	AppendActivity(ctx context.Context, entry *models.CaseActivity) error
	ActivityByCase(ctx context.Context, caseID string) ([]models.CaseActivity, error)
}

type Persistence interface {
	CaseRepository() CaseRepository
	DocumentRepository() DocumentRepository
	ActivityRepository() ActivityRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}
