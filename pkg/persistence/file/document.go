package file

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
)

// DocumentRepository stores each case's document records as one list file
// under <root>/documents.
type DocumentRepository struct {
	root string
}

func NewDocumentRepository(root string) *DocumentRepository {
	return &DocumentRepository{root: root}
}

func (dr *DocumentRepository) listPath(caseID string) string {
	return filepath.Join(dr.root, "documents", caseID+".json")
}

func (dr *DocumentRepository) DocumentsByCase(_ context.Context, caseID string) ([]models.Document, error) {
	var docs []models.Document

	err := readJSON(dr.listPath(caseID), &docs)
	if os.IsNotExist(err) {
		return []models.Document{}, nil
	}

	if err != nil {
		return nil, &persistence.DocumentError{Op: "DocumentsByCase", CaseID: caseID, Err: err}
	}

	return docs, nil
}

func (dr *DocumentRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	docs, err := dr.DocumentsByCase(ctx, doc.CaseID)
	if err != nil {
		return err
	}

	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}

	replaced := false

	for i, existing := range docs {
		if existing.ID == doc.ID {
			docs[i] = *doc
			replaced = true

			break
		}
	}

	if !replaced {
		docs = append(docs, *doc)
	}

	if err := writeJSON(dr.listPath(doc.CaseID), docs); err != nil {
		return &persistence.DocumentError{Op: "SaveDocument", CaseID: doc.CaseID, DocumentID: doc.ID, Err: err}
	}

	return nil
}
