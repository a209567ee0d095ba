// Package services implements the application use-cases on top of the
// persistence layer, the workflow catalog, the wizard engine, and the event
// bus.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/herreralegal/intake/pkg/eventbus"
	"github.com/herreralegal/intake/pkg/events"
	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/otelhelper"
	"github.com/herreralegal/intake/pkg/persistence"
	"github.com/herreralegal/intake/pkg/wizard"
	"github.com/herreralegal/intake/pkg/workflows"
)

// Cases coordinates the case lifecycle: opening, wizard editing, submission,
// and staff-driven status transitions. It implements wizard.CaseStore so a
// wizard.Session can persist through it.
type Cases struct {
	persistence persistence.Persistence
	catalog     *workflows.Catalog
	eventBus    eventbus.EventBus
	validate    *validator.Validate
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewCases wires the case service. tracer may be nil, in which case spans
// are not recorded.
func NewCases(p persistence.Persistence, catalog *workflows.Catalog, eventBus eventbus.EventBus, logger *slog.Logger, tracer trace.Tracer) *Cases {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("services.cases")
	}

	return &Cases{
		persistence: p,
		catalog:     catalog,
		eventBus:    eventBus,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		logger:      logger.With("module", "services.cases"),
		tracer:      tracer,
	}
}

// OpenCaseRequest carries the inputs for opening a new intake case.
type OpenCaseRequest struct {
	ClientID           string         `validate:"required"`
	ServiceSlug        string         `validate:"required"`
	EligibilityAnswers map[string]any `validate:"-"`
	DeadlineDate       *time.Time     `validate:"-"`
	PaymentDueDate     *time.Time     `validate:"-"`
}

// OpenCase creates a new case in in_progress after checking the service's
// eligibility questions against the provided answers.
func (c *Cases) OpenCase(ctx context.Context, req OpenCaseRequest) (*models.Case, error) {
	if err := c.validate.Struct(req); err != nil {
		return nil, NewCaseServiceError("open case", "", err)
	}

	workflow, err := c.catalog.Get(req.ServiceSlug)
	if err != nil {
		return nil, NewCaseServiceError("open case", "", fmt.Errorf("%w: %s", ErrServiceNotFound, req.ServiceSlug))
	}

	if failures := wizard.CheckEligibility(workflow, req.EligibilityAnswers); len(failures) > 0 {
		return nil, &EligibilityError{ServiceSlug: req.ServiceSlug, Failures: failures}
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	newCase := &models.Case{
		ID:             id,
		CaseNumber:     newCaseNumber(now, id),
		ClientID:       req.ClientID,
		ServiceSlug:    req.ServiceSlug,
		IntakeStatus:   models.IntakeStatusInProgress,
		FormData:       map[string]any{},
		CurrentStep:    0,
		DeadlineDate:   req.DeadlineDate,
		PaymentDueDate: req.PaymentDueDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := c.persistence.CaseRepository().SaveCase(ctx, newCase); err != nil {
		return nil, NewCaseServiceError("open case", id, err)
	}

	c.appendActivity(ctx, &models.CaseActivity{
		CaseID:          id,
		ActorID:         req.ClientID,
		Action:          "case_opened",
		Description:     fmt.Sprintf("Caso abierto para el servicio %s", workflow.Name),
		VisibleToClient: true,
	})

	c.logger.InfoContext(ctx, "Case opened",
		"case_id", id, "service", req.ServiceSlug, "client_id", req.ClientID)

	return newCase, nil
}

// Eligibility evaluates the service's eligibility questions and returns the
// failure messages, empty when the client qualifies.
func (c *Cases) Eligibility(ctx context.Context, serviceSlug string, answers map[string]any) ([]string, error) {
	workflow, err := c.catalog.Get(serviceSlug)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrServiceNotFound, serviceSlug)
	}

	return wizard.CheckEligibility(workflow, answers), nil
}

// LoadSession rehydrates a wizard session for the case from its persisted
// snapshot and the service's workflow definition.
func (c *Cases) LoadSession(ctx context.Context, caseID string) (*wizard.Session, error) {
	caseData, err := c.persistence.CaseRepository().CaseByID(ctx, caseID)
	if err != nil {
		return nil, NewCaseServiceError("load session", caseID, err)
	}

	workflow, err := c.catalog.Get(caseData.ServiceSlug)
	if err != nil {
		return nil, NewCaseServiceError("load session", caseID,
			fmt.Errorf("%w: %s", ErrServiceNotFound, caseData.ServiceSlug))
	}

	return wizard.NewSession(caseData, workflow, c, c.logger)
}

// CaseByID fetches a single case.
func (c *Cases) CaseByID(ctx context.Context, caseID string) (*models.Case, error) {
	return c.persistence.CaseRepository().CaseByID(ctx, caseID)
}

// CasesByStatus lists cases in the given intake status, for the staff board.
func (c *Cases) CasesByStatus(ctx context.Context, status models.IntakeStatus) ([]*models.Case, error) {
	return c.persistence.CaseRepository().CasesByStatus(ctx, status)
}

// Review builds the read-only summary of the case's answers, grouped by form
// step.
func (c *Cases) Review(ctx context.Context, caseID string) ([]wizard.SummarySection, error) {
	caseData, err := c.persistence.CaseRepository().CaseByID(ctx, caseID)
	if err != nil {
		return nil, NewCaseServiceError("review", caseID, err)
	}

	workflow, err := c.catalog.Get(caseData.ServiceSlug)
	if err != nil {
		return nil, NewCaseServiceError("review", caseID,
			fmt.Errorf("%w: %s", ErrServiceNotFound, caseData.ServiceSlug))
	}

	return wizard.Summary(workflow, caseData.FormData), nil
}

// Activity returns the case's audit log, oldest first.
func (c *Cases) Activity(ctx context.Context, caseID string) ([]models.CaseActivity, error) {
	return c.persistence.ActivityRepository().ActivityByCase(ctx, caseID)
}

// Update persists an autosave snapshot. Read-only cases are refused so a
// stale client cannot mutate a submitted case.
func (c *Cases) Update(ctx context.Context, caseID string, snapshot wizard.Snapshot) error {
	caseData, err := c.persistence.CaseRepository().CaseByID(ctx, caseID)
	if err != nil {
		return NewCaseServiceError("update", caseID, err)
	}

	if !caseData.IntakeStatus.Editable() {
		return NewCaseServiceError("update", caseID, wizard.ErrCaseReadOnly)
	}

	if err := c.persistence.CaseRepository().UpdateSnapshot(ctx, caseID, snapshot.FormData, snapshot.CurrentStep); err != nil {
		return NewCaseServiceError("update", caseID, err)
	}

	return nil
}

// Submit persists the final snapshot and transitions the case to submitted.
// The activity entry and the CaseSubmitted event follow the confirmed write;
// a publish failure is logged but does not undo the submission.
func (c *Cases) Submit(ctx context.Context, caseID string, snapshot wizard.Snapshot) error {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "cases.submit",
		attribute.String(otelhelper.CaseIDKey, caseID),
	)
	defer span.End()

	caseData, err := c.persistence.CaseRepository().CaseByID(ctx, caseID)
	if err != nil {
		otelhelper.SetError(span, err)

		return NewCaseServiceError("submit", caseID, err)
	}

	span.SetAttributes(
		attribute.String(otelhelper.CaseNumberKey, caseData.CaseNumber),
		attribute.String(otelhelper.ServiceSlugKey, caseData.ServiceSlug),
	)

	if !caseData.IntakeStatus.Editable() {
		otelhelper.SetError(span, wizard.ErrCaseReadOnly)

		return NewCaseServiceError("submit", caseID, wizard.ErrCaseReadOnly)
	}

	repo := c.persistence.CaseRepository()
	if err := repo.UpdateSnapshot(ctx, caseID, snapshot.FormData, snapshot.CurrentStep); err != nil {
		otelhelper.SetError(span, err)

		return NewCaseServiceError("submit", caseID, err)
	}

	if err := repo.UpdateStatus(ctx, caseID, models.IntakeStatusSubmitted, ""); err != nil {
		otelhelper.SetError(span, err)

		return NewCaseServiceError("submit", caseID, err)
	}

	c.appendActivity(ctx, &models.CaseActivity{
		CaseID:          caseID,
		ActorID:         caseData.ClientID,
		Action:          "form_submitted",
		Description:     "El cliente completó y envió el formulario de admisión",
		VisibleToClient: true,
	})

	event := events.CaseSubmitted{
		BaseEvent:   c.newBaseEvent(events.CaseSubmittedEventType, caseID),
		ClientID:    caseData.ClientID,
		ServiceSlug: caseData.ServiceSlug,
		CaseNumber:  caseData.CaseNumber,
	}
	if err := c.eventBus.Publish(ctx, caseID, event); err != nil {
		c.logger.WarnContext(ctx, "Failed to publish case submitted event",
			"case_id", caseID, "error", err)
	}

	c.logger.InfoContext(ctx, "Case submitted", "case_id", caseID)

	return nil
}

// ChangeStatus applies a staff-driven intake status transition. Correction
// notes are stored only on needs_correction and cleared on every other move.
func (c *Cases) ChangeStatus(ctx context.Context, caseID string, target models.IntakeStatus, actorID, notes string) (*models.Case, error) {
	ctx, span := otelhelper.StartSpan(ctx, c.tracer, "cases.change_status",
		attribute.String(otelhelper.CaseIDKey, caseID),
		attribute.String(otelhelper.IntakeStatusKey, string(target)),
	)
	defer span.End()

	repo := c.persistence.CaseRepository()

	caseData, err := repo.CaseByID(ctx, caseID)
	if err != nil {
		otelhelper.SetError(span, err)

		return nil, NewCaseServiceError("change status", caseID, err)
	}

	from := caseData.IntakeStatus
	if !from.CanTransitionTo(target) {
		err := fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, target)
		otelhelper.SetError(span, err)

		return nil, NewCaseServiceError("change status", caseID, err)
	}

	correctionNotes := ""
	if target == models.IntakeStatusNeedsCorrection {
		correctionNotes = notes
	}

	if err := repo.UpdateStatus(ctx, caseID, target, correctionNotes); err != nil {
		otelhelper.SetError(span, err)

		return nil, NewCaseServiceError("change status", caseID, err)
	}

	c.appendActivity(ctx, &models.CaseActivity{
		CaseID:      caseID,
		ActorID:     actorID,
		Action:      "status_changed",
		Description: fmt.Sprintf("Estado actualizado de %s a %s", from, target),
		Metadata: map[string]any{
			"from": string(from),
			"to":   string(target),
		},
		VisibleToClient: target != models.IntakeStatusUnderReview,
	})

	event := events.CaseStatusChanged{
		BaseEvent: c.newBaseEvent(events.CaseStatusChangedEventType, caseID),
		ActorID:   actorID,
		From:      from,
		To:        target,
		Notes:     notes,
	}
	if err := c.eventBus.Publish(ctx, caseID, event); err != nil {
		c.logger.WarnContext(ctx, "Failed to publish status changed event",
			"case_id", caseID, "error", err)
	}

	updated, err := repo.CaseByID(ctx, caseID)
	if err != nil {
		return nil, NewCaseServiceError("change status", caseID, err)
	}

	return updated, nil
}

func (c *Cases) appendActivity(ctx context.Context, entry *models.CaseActivity) {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()

	if err := c.persistence.ActivityRepository().AppendActivity(ctx, entry); err != nil {
		c.logger.WarnContext(ctx, "Failed to append case activity",
			"case_id", entry.CaseID, "action", entry.Action, "error", err)
	}
}

func (c *Cases) newBaseEvent(eventType events.EventType, caseID string) events.BaseEvent {
	return events.BaseEvent{
		ID:        c.eventBus.GenerateID(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		CaseID:    caseID,
	}
}

// newCaseNumber derives a human-readable case number from the creation time
// and the case's UUID.
func newCaseNumber(now time.Time, id string) string {
	short := strings.ToUpper(strings.ReplaceAll(id, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}

	return fmt.Sprintf("IN-%d-%s", now.Year(), short)
}
