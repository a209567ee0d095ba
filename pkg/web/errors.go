package web

import (
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"

	"github.com/herreralegal/intake/pkg/persistence"
	"github.com/herreralegal/intake/pkg/services"
	"github.com/herreralegal/intake/pkg/sessionlock"
	"github.com/herreralegal/intake/pkg/wizard"
)

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType("not_found").
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func conflict(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusConflict).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleServiceError provides typed error handling for service layer errors.
func handleServiceError(c fiber.Ctx, err error) error {
	switch {
	case persistence.IsCaseNotFound(err):
		return notFound(c, "Case not found")

	case persistence.IsDocumentNotFound(err):
		return notFound(c, "Document not found")

	case services.IsServiceNotFound(err):
		return notFound(c, "Service not found")

	case wizard.IsCaseReadOnly(err):
		return conflict(c, "case_read_only", "Case is no longer editable")

	case wizard.IsAttestationRequired(err):
		return conflict(c, "attestation_required", "Submission requires the client's attestation")

	case services.IsInvalidTransition(err):
		return conflict(c, "invalid_transition", err.Error())

	case sessionlock.IsLockHeld(err):
		return conflict(c, "case_locked", "Another session is editing this case")

	default:
		return internalError(c, err)
	}
}
