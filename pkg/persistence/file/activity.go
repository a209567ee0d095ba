package file

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
)

// ActivityRepository stores each case's activity log as one append-only
// list file under <root>/activity.
type ActivityRepository struct {
	root string
}

func NewActivityRepository(root string) *ActivityRepository {
	return &ActivityRepository{root: root}
}

func (ar *ActivityRepository) listPath(caseID string) string {
	return filepath.Join(ar.root, "activity", caseID+".json")
}

func (ar *ActivityRepository) ActivityByCase(_ context.Context, caseID string) ([]models.CaseActivity, error) {
	var entries []models.CaseActivity

	err := readJSON(ar.listPath(caseID), &entries)
	if os.IsNotExist(err) {
		return []models.CaseActivity{}, nil
	}

	if err != nil {
		return nil, persistence.NewCaseError("ActivityByCase", caseID, err)
	}

	return entries, nil
}

func (ar *ActivityRepository) AppendActivity(ctx context.Context, entry *models.CaseActivity) error {
	entries, err := ar.ActivityByCase(ctx, entry.CaseID)
	if err != nil {
		return err
	}

	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	entries = append(entries, *entry)

	if err := writeJSON(ar.listPath(entry.CaseID), entries); err != nil {
		return persistence.NewCaseError("AppendActivity", entry.CaseID, err)
	}

	return nil
}
