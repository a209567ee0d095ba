package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/herreralegal/intake/pkg/eventbus"
	"github.com/herreralegal/intake/pkg/events"
	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
	"github.com/herreralegal/intake/pkg/wizard"
	"github.com/herreralegal/intake/pkg/workflows"
)

// Documents tracks uploaded document records against the service's required
// document checklist.
type Documents struct {
	persistence persistence.Persistence
	catalog     *workflows.Catalog
	eventBus    eventbus.EventBus
	validate    *validator.Validate
	logger      *slog.Logger
}

func NewDocuments(p persistence.Persistence, catalog *workflows.Catalog, eventBus eventbus.EventBus, logger *slog.Logger) *Documents {
	return &Documents{
		persistence: p,
		catalog:     catalog,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger.With("module", "services.documents"),
	}
}

// AttachRequest carries the metadata for a newly uploaded file. The file
// bytes are already in blob storage; FilePath points at them.
type AttachRequest struct {
	CaseID      string `validate:"required"`
	DocumentKey string `validate:"required"`
	Name        string `validate:"required"`
	FilePath    string `validate:"required"`
	FileType    string `validate:"-"`
	FileSize    int64  `validate:"min=0"`
}

// Attach records an uploaded document on the case and publishes a
// DocumentUploaded event.
func (d *Documents) Attach(ctx context.Context, req AttachRequest) (*models.Document, error) {
	if err := d.validate.Struct(req); err != nil {
		return nil, NewCaseServiceError("attach document", req.CaseID, err)
	}

	caseData, err := d.persistence.CaseRepository().CaseByID(ctx, req.CaseID)
	if err != nil {
		return nil, NewCaseServiceError("attach document", req.CaseID, err)
	}

	doc := &models.Document{
		ID:          uuid.NewString(),
		CaseID:      req.CaseID,
		ClientID:    caseData.ClientID,
		DocumentKey: req.DocumentKey,
		Name:        req.Name,
		FilePath:    req.FilePath,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
		Status:      models.DocumentStatusUploaded,
		CreatedAt:   time.Now().UTC(),
	}

	if err := d.persistence.DocumentRepository().SaveDocument(ctx, doc); err != nil {
		return nil, NewCaseServiceError("attach document", req.CaseID, err)
	}

	event := events.DocumentUploaded{
		BaseEvent: events.BaseEvent{
			ID:        d.eventBus.GenerateID(),
			Type:      events.DocumentUploadedEventType,
			Timestamp: time.Now().UTC(),
			CaseID:    req.CaseID,
		},
		DocumentID:  doc.ID,
		DocumentKey: doc.DocumentKey,
		Name:        doc.Name,
	}
	if err := d.eventBus.Publish(ctx, req.CaseID, event); err != nil {
		d.logger.WarnContext(ctx, "Failed to publish document uploaded event",
			"case_id", req.CaseID, "document_id", doc.ID, "error", err)
	}

	d.logger.InfoContext(ctx, "Document attached",
		"case_id", req.CaseID, "document_key", req.DocumentKey)

	return doc, nil
}

// Checklist returns the case's required-document checklist with the uploads
// matched to each requirement.
func (d *Documents) Checklist(ctx context.Context, caseID string) ([]wizard.RequirementStatus, error) {
	caseData, err := d.persistence.CaseRepository().CaseByID(ctx, caseID)
	if err != nil {
		return nil, NewCaseServiceError("document checklist", caseID, err)
	}

	workflow, err := d.catalog.Get(caseData.ServiceSlug)
	if err != nil {
		return nil, NewCaseServiceError("document checklist", caseID,
			fmt.Errorf("%w: %s", ErrServiceNotFound, caseData.ServiceSlug))
	}

	documents, err := d.persistence.DocumentRepository().DocumentsByCase(ctx, caseID)
	if err != nil {
		return nil, NewCaseServiceError("document checklist", caseID, err)
	}

	return wizard.DocumentCompleteness(workflow.RequiredDocuments, documents), nil
}
