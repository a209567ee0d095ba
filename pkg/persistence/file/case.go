package file

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
)

// CaseRepository handles case file operations: one <id>.json per case under
// <root>/cases.
type CaseRepository struct {
	root string
}

func NewCaseRepository(root string) *CaseRepository {
	return &CaseRepository{root: root}
}

func (cr *CaseRepository) casePath(id string) string {
	return filepath.Join(cr.root, "cases", id+".json")
}

func (cr *CaseRepository) Cases(ctx context.Context) ([]*models.Case, error) {
	root := os.DirFS(filepath.Join(cr.root, "cases"))

	jsonFiles, err := fs.Glob(root, "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list case files: %w", err)
	}

	cases := make([]*models.Case, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		id := file[:len(file)-5] // Trim .json

		c, err := cr.CaseByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load case %s: %w", id, err)
		}

		cases = append(cases, c)
	}

	sort.Slice(cases, func(i, j int) bool {
		return cases[i].CreatedAt.Before(cases[j].CreatedAt)
	})

	return cases, nil
}

func (cr *CaseRepository) CasesByStatus(ctx context.Context, status models.IntakeStatus) ([]*models.Case, error) {
	all, err := cr.Cases(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*models.Case, 0, len(all))

	for _, c := range all {
		if c.IntakeStatus == status {
			matched = append(matched, c)
		}
	}

	return matched, nil
}

func (cr *CaseRepository) CaseByID(_ context.Context, id string) (*models.Case, error) {
	var c models.Case

	err := readJSON(cr.casePath(id), &c)
	if os.IsNotExist(err) {
		return nil, persistence.NewCaseError("CaseByID", id, persistence.ErrCaseNotFound)
	}

	if err != nil {
		return nil, persistence.NewCaseError("CaseByID", id, err)
	}

	return &c, nil
}

func (cr *CaseRepository) SaveCase(_ context.Context, c *models.Case) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	c.UpdatedAt = now

	if err := writeJSON(cr.casePath(c.ID), c); err != nil {
		return persistence.NewCaseError("SaveCase", c.ID, err)
	}

	return nil
}

func (cr *CaseRepository) UpdateSnapshot(ctx context.Context, id string, formData map[string]any, currentStep int) error {
	c, err := cr.CaseByID(ctx, id)
	if err != nil {
		return persistence.NewCaseError("UpdateSnapshot", id, err)
	}

	c.FormData = formData
	c.CurrentStep = currentStep

	return cr.SaveCase(ctx, c)
}

func (cr *CaseRepository) UpdateStatus(ctx context.Context, id string, status models.IntakeStatus, correctionNotes string) error {
	c, err := cr.CaseByID(ctx, id)
	if err != nil {
		return persistence.NewCaseError("UpdateStatus", id, err)
	}

	c.IntakeStatus = status
	c.CorrectionNotes = correctionNotes

	return cr.SaveCase(ctx, c)
}

func (cr *CaseRepository) CasesDueBefore(ctx context.Context, cutoff time.Time) ([]*models.Case, error) {
	all, err := cr.Cases(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]*models.Case, 0)

	for _, c := range all {
		if c.IntakeStatus == models.IntakeStatusCancelled || c.IntakeStatus == models.IntakeStatusFiled {
			continue
		}

		if c.DeadlineDate != nil && c.DeadlineDate.Before(cutoff) {
			due = append(due, c)

			continue
		}

		if c.PaymentDueDate != nil && c.PaymentDueDate.Before(cutoff) {
			due = append(due, c)
		}
	}

	return due, nil
}
