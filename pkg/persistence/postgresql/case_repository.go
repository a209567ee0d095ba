package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
)

const caseColumns = `id, case_number, client_id, service_slug, intake_status, form_data,
	current_step, correction_notes, deadline_date, payment_due_date, created_at, updated_at`

// CaseRepository handles case operations against PostgreSQL. The form-data
// document round-trips through a JSONB column untouched.
type CaseRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewCaseRepository(db *sql.DB, logger *slog.Logger) *CaseRepository {
	return &CaseRepository{db: db, logger: logger}
}

func scanCase(row interface{ Scan(dest ...any) error }) (*models.Case, error) {
	var (
		c        models.Case
		formData []byte
	)

	err := row.Scan(
		&c.ID,
		&c.CaseNumber,
		&c.ClientID,
		&c.ServiceSlug,
		&c.IntakeStatus,
		&formData,
		&c.CurrentStep,
		&c.CorrectionNotes,
		&c.DeadlineDate,
		&c.PaymentDueDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(formData, &c.FormData); err != nil {
		return nil, fmt.Errorf("failed to decode form data for case %s: %w", c.ID, err)
	}

	return &c, nil
}

func (cr *CaseRepository) queryCases(ctx context.Context, query string, args ...any) ([]*models.Case, error) {
	rows, err := cr.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			cr.logger.ErrorContext(ctx, "Failed to close rows", "error", err)
		}
	}()

	cases := make([]*models.Case, 0)

	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}

		cases = append(cases, c)
	}

	return cases, rows.Err()
}

func (cr *CaseRepository) Cases(ctx context.Context) ([]*models.Case, error) {
	cases, err := cr.queryCases(ctx, "SELECT "+caseColumns+" FROM cases ORDER BY created_at")
	if err != nil {
		return nil, persistence.NewCaseError("Cases", "", err)
	}

	return cases, nil
}

func (cr *CaseRepository) CasesByStatus(ctx context.Context, status models.IntakeStatus) ([]*models.Case, error) {
	cases, err := cr.queryCases(ctx,
		"SELECT "+caseColumns+" FROM cases WHERE intake_status = $1 ORDER BY created_at", status)
	if err != nil {
		return nil, persistence.NewCaseError("CasesByStatus", "", err)
	}

	return cases, nil
}

func (cr *CaseRepository) CaseByID(ctx context.Context, id string) (*models.Case, error) {
	row := cr.db.QueryRowContext(ctx, "SELECT "+caseColumns+" FROM cases WHERE id = $1", id)

	c, err := scanCase(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewCaseError("CaseByID", id, persistence.ErrCaseNotFound)
	}

	if err != nil {
		return nil, persistence.NewCaseError("CaseByID", id, err)
	}

	return c, nil
}

func (cr *CaseRepository) SaveCase(ctx context.Context, c *models.Case) error {
	formData, err := json.Marshal(c.FormData)
	if err != nil {
		return persistence.NewCaseError("SaveCase", c.ID, err)
	}

	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}

	c.UpdatedAt = now

	_, err = cr.db.ExecContext(ctx, `
		INSERT INTO cases (`+caseColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			intake_status = EXCLUDED.intake_status,
			form_data = EXCLUDED.form_data,
			current_step = EXCLUDED.current_step,
			correction_notes = EXCLUDED.correction_notes,
			deadline_date = EXCLUDED.deadline_date,
			payment_due_date = EXCLUDED.payment_due_date,
			updated_at = EXCLUDED.updated_at`,
		c.ID, c.CaseNumber, c.ClientID, c.ServiceSlug, c.IntakeStatus, formData,
		c.CurrentStep, c.CorrectionNotes, c.DeadlineDate, c.PaymentDueDate, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		return persistence.NewCaseError("SaveCase", c.ID, err)
	}

	return nil
}

func (cr *CaseRepository) UpdateSnapshot(ctx context.Context, id string, formData map[string]any, currentStep int) error {
	encoded, err := json.Marshal(formData)
	if err != nil {
		return persistence.NewCaseError("UpdateSnapshot", id, err)
	}

	result, err := cr.db.ExecContext(ctx,
		"UPDATE cases SET form_data = $1, current_step = $2, updated_at = NOW() WHERE id = $3",
		encoded, currentStep, id)
	if err != nil {
		return persistence.NewCaseError("UpdateSnapshot", id, err)
	}

	return cr.requireRow(result, "UpdateSnapshot", id)
}

func (cr *CaseRepository) UpdateStatus(ctx context.Context, id string, status models.IntakeStatus, correctionNotes string) error {
	result, err := cr.db.ExecContext(ctx,
		"UPDATE cases SET intake_status = $1, correction_notes = $2, updated_at = NOW() WHERE id = $3",
		status, correctionNotes, id)
	if err != nil {
		return persistence.NewCaseError("UpdateStatus", id, err)
	}

	return cr.requireRow(result, "UpdateStatus", id)
}

func (cr *CaseRepository) CasesDueBefore(ctx context.Context, cutoff time.Time) ([]*models.Case, error) {
	cases, err := cr.queryCases(ctx, `
		SELECT `+caseColumns+` FROM cases
		WHERE intake_status NOT IN ('cancelled', 'filed')
		  AND (deadline_date < $1 OR payment_due_date < $1)
		ORDER BY created_at`, cutoff)
	if err != nil {
		return nil, persistence.NewCaseError("CasesDueBefore", "", err)
	}

	return cases, nil
}

func (cr *CaseRepository) requireRow(result sql.Result, op, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewCaseError(op, id, err)
	}

	if affected == 0 {
		return persistence.NewCaseError(op, id, persistence.ErrCaseNotFound)
	}

	return nil
}
