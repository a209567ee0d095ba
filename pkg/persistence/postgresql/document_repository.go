package postgresql

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
)

// DocumentRepository handles uploaded document metadata in PostgreSQL.
type DocumentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDocumentRepository(db *sql.DB, logger *slog.Logger) *DocumentRepository {
	return &DocumentRepository{db: db, logger: logger}
}

func (dr *DocumentRepository) DocumentsByCase(ctx context.Context, caseID string) ([]models.Document, error) {
	rows, err := dr.db.QueryContext(ctx, `
		SELECT id, case_id, client_id, document_key, name, file_path, file_type,
			file_size, status, rejection_reason, created_at
		FROM documents WHERE case_id = $1 ORDER BY created_at`, caseID)
	if err != nil {
		return nil, &persistence.DocumentError{Op: "DocumentsByCase", CaseID: caseID, Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			dr.logger.ErrorContext(ctx, "Failed to close rows", "error", err)
		}
	}()

	docs := make([]models.Document, 0)

	for rows.Next() {
		var (
			doc             models.Document
			clientID        sql.NullString
			fileType        sql.NullString
			fileSize        sql.NullInt64
			rejectionReason sql.NullString
		)

		err := rows.Scan(&doc.ID, &doc.CaseID, &clientID, &doc.DocumentKey, &doc.Name,
			&doc.FilePath, &fileType, &fileSize, &doc.Status, &rejectionReason, &doc.CreatedAt)
		if err != nil {
			return nil, &persistence.DocumentError{Op: "DocumentsByCase", CaseID: caseID, Err: err}
		}

		doc.ClientID = clientID.String
		doc.FileType = fileType.String
		doc.FileSize = fileSize.Int64
		doc.RejectionReason = rejectionReason.String

		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, &persistence.DocumentError{Op: "DocumentsByCase", CaseID: caseID, Err: err}
	}

	return docs, nil
}

func (dr *DocumentRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	if doc.Status == "" {
		doc.Status = models.DocumentStatusUploaded
	}

	_, err := dr.db.ExecContext(ctx, `
		INSERT INTO documents (id, case_id, client_id, document_key, name, file_path,
			file_type, file_size, status, rejection_reason, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, NULLIF($7, ''), $8, $9, NULLIF($10, ''), $11)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			rejection_reason = EXCLUDED.rejection_reason`,
		doc.ID, doc.CaseID, doc.ClientID, doc.DocumentKey, doc.Name, doc.FilePath,
		doc.FileType, doc.FileSize, doc.Status, doc.RejectionReason, doc.CreatedAt)
	if err != nil {
		return &persistence.DocumentError{Op: "SaveDocument", CaseID: doc.CaseID, DocumentID: doc.ID, Err: err}
	}

	return nil
}
