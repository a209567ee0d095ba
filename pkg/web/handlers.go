// Package web provides the REST API handlers for the client-intake platform.
package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
	"github.com/herreralegal/intake/pkg/services"
	"github.com/herreralegal/intake/pkg/sessionlock"
	"github.com/herreralegal/intake/pkg/wizard"
	"github.com/herreralegal/intake/pkg/workflows"
)

type APIHandlers struct {
	cases       *services.Cases
	documents   *services.Documents
	catalog     *workflows.Catalog
	persistence persistence.Persistence
	locks       *sessionlock.Manager
	validator   *validator.Validate
}

// NewAPIHandlers wires the handlers. locks may be nil, in which case the
// per-case edit lock is not enforced.
func NewAPIHandlers(
	cases *services.Cases,
	documents *services.Documents,
	catalog *workflows.Catalog,
	p persistence.Persistence,
	locks *sessionlock.Manager,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		cases:       cases,
		documents:   documents,
		catalog:     catalog,
		persistence: p,
		locks:       locks,
		validator:   validator,
	}
}

func (h *APIHandlers) GetServices(c fiber.Ctx) error {
	all := h.catalog.All()

	summaries := make([]ServiceSummary, 0, len(all))
	for _, workflow := range all {
		summaries = append(summaries, TransformServiceSummary(workflow))
	}

	return c.JSON(fiber.Map{"services": summaries})
}

func (h *APIHandlers) GetService(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return badRequest(c, "Service slug is required")
	}

	workflow, err := h.catalog.Get(slug)
	if err != nil {
		return notFound(c, "Service not found")
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CheckEligibility(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return badRequest(c, "Service slug is required")
	}

	var req EligibilityRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	failures, err := h.cases.Eligibility(c.Context(), slug, req.Answers)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(EligibilityResponse{
		Eligible: len(failures) == 0,
		Failures: failures,
	})
}

func (h *APIHandlers) OpenCase(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return badRequest(c, "Service slug is required")
	}

	var req OpenCaseRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.cases.OpenCase(c.Context(), services.OpenCaseRequest{
		ClientID:           req.ClientID,
		ServiceSlug:        slug,
		EligibilityAnswers: req.EligibilityAnswers,
		DeadlineDate:       req.DeadlineDate,
		PaymentDueDate:     req.PaymentDueDate,
	})
	if err != nil {
		if services.IsNotEligible(err) {
			resp := EligibilityResponse{Eligible: false}

			var eligErr *services.EligibilityError
			if errors.As(err, &eligErr) {
				resp.Failures = eligErr.Failures
			}

			return c.Status(fiber.StatusUnprocessableEntity).JSON(resp)
		}

		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) ListCases(c fiber.Ctx) error {
	status := models.IntakeStatus(c.Query("status"))
	if status == "" {
		return badRequest(c, "status query parameter is required")
	}

	cases, err := h.cases.CasesByStatus(c.Context(), status)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"cases": cases})
}

func (h *APIHandlers) GetCase(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	caseData, err := h.cases.CaseByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(caseData)
}

func (h *APIHandlers) GetWizardState(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	caseData, err := h.cases.CaseByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	session, err := h.cases.LoadSession(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(TransformWizardState(caseData, session))
}

func (h *APIHandlers) AutosaveCase(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	var req AutosaveRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if h.locks != nil && req.SessionToken != "" {
		if err := h.locks.Acquire(c.Context(), id, req.SessionToken); err != nil {
			return handleServiceError(c, err)
		}
	}

	snapshot := wizard.Snapshot{FormData: req.FormData, CurrentStep: req.CurrentStep}
	if err := h.cases.Update(c.Context(), id, snapshot); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"saved_at": time.Now().UTC()})
}

func (h *APIHandlers) SubmitCase(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	var req SubmitRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if !req.Attested {
		return handleServiceError(c, wizard.ErrAttestationRequired)
	}

	caseData, err := h.cases.CaseByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	workflow, err := h.catalog.Get(caseData.ServiceSlug)
	if err != nil {
		return handleServiceError(c, services.ErrServiceNotFound)
	}

	// Server-side re-validation of every form step. The wizard already
	// validated step by step, but the submitted document is what counts.
	var validationErrors []wizard.ValidationError
	for _, step := range workflow.FormSteps() {
		validationErrors = append(validationErrors, wizard.ValidateStep(step, req.FormData)...)
	}

	if len(validationErrors) > 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"errors": validationErrors,
		})
	}

	snapshot := wizard.Snapshot{FormData: req.FormData, CurrentStep: len(workflow.Steps) - 1}
	if err := h.cases.Submit(c.Context(), id, snapshot); err != nil {
		return handleServiceError(c, err)
	}

	updated, err := h.cases.CaseByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) GetReview(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	sections, err := h.cases.Review(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"sections": sections})
}

func (h *APIHandlers) GetActivity(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	activity, err := h.cases.Activity(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"activity": activity})
}

func (h *APIHandlers) ChangeStatus(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	var req ChangeStatusRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.cases.ChangeStatus(c.Context(), id, req.Status, req.ActorID, req.Notes)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) GetDocuments(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	checklist, err := h.documents.Checklist(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{"documents": checklist})
}

func (h *APIHandlers) AttachDocument(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	var req AttachDocumentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	doc, err := h.documents.Attach(c.Context(), services.AttachRequest{
		CaseID:      id,
		DocumentKey: req.DocumentKey,
		Name:        req.Name,
		FilePath:    req.FilePath,
		FileType:    req.FileType,
		FileSize:    req.FileSize,
	})
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

func (h *APIHandlers) AcquireLock(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	if h.locks == nil {
		return conflict(c, "locks_disabled", "Edit locking is not configured")
	}

	var req LockRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	if err := h.locks.Acquire(c.Context(), id, req.SessionToken); err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) ReleaseLock(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Case ID is required")
	}

	if h.locks == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}

	var req LockRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.locks.Release(c.Context(), id, req.SessionToken); err != nil && !sessionlock.IsLockHeld(err) {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	err := h.persistence.HealthCheck(c.Context())

	status := "healthy"
	message := "Intake API is healthy"
	httpStatus := http.StatusOK

	if err != nil {
		status = "unhealthy"
		message = "Intake API is unhealthy"
		httpStatus = http.StatusInternalServerError
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":    status,
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}
