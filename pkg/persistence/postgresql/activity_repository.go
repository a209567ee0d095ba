package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
)

// ActivityRepository handles the append-only case activity log in
// PostgreSQL.
type ActivityRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewActivityRepository(db *sql.DB, logger *slog.Logger) *ActivityRepository {
	return &ActivityRepository{db: db, logger: logger}
}

func (ar *ActivityRepository) AppendActivity(ctx context.Context, entry *models.CaseActivity) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}

	encoded, err := json.Marshal(metadata)
	if err != nil {
		return persistence.NewCaseError("AppendActivity", entry.CaseID, err)
	}

	_, err = ar.db.ExecContext(ctx, `
		INSERT INTO case_activity (id, case_id, actor_id, action, description, metadata, visible_to_client, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)`,
		entry.ID, entry.CaseID, entry.ActorID, entry.Action, entry.Description,
		encoded, entry.VisibleToClient, entry.CreatedAt)
	if err != nil {
		return persistence.NewCaseError("AppendActivity", entry.CaseID, err)
	}

	return nil
}

func (ar *ActivityRepository) ActivityByCase(ctx context.Context, caseID string) ([]models.CaseActivity, error) {
	rows, err := ar.db.QueryContext(ctx, `
		SELECT id, case_id, actor_id, action, description, metadata, visible_to_client, created_at
		FROM case_activity WHERE case_id = $1 ORDER BY created_at`, caseID)
	if err != nil {
		return nil, persistence.NewCaseError("ActivityByCase", caseID, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			ar.logger.ErrorContext(ctx, "Failed to close rows", "error", err)
		}
	}()

	entries := make([]models.CaseActivity, 0)

	for rows.Next() {
		var (
			entry    models.CaseActivity
			actorID  sql.NullString
			metadata []byte
		)

		err := rows.Scan(&entry.ID, &entry.CaseID, &actorID, &entry.Action,
			&entry.Description, &metadata, &entry.VisibleToClient, &entry.CreatedAt)
		if err != nil {
			return nil, persistence.NewCaseError("ActivityByCase", caseID, err)
		}

		entry.ActorID = actorID.String

		if err := json.Unmarshal(metadata, &entry.Metadata); err != nil {
			return nil, persistence.NewCaseError("ActivityByCase", caseID, err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}
