// Package testutil provides test data builders shared across packages.
package testutil

import (
	"time"

	"github.com/google/uuid"

	"github.com/herreralegal/intake/pkg/models"
)

// CreateTestWorkflow creates a small two-form-step workflow with a review
// step, suitable for wizard and service tests. Overrides mutate the default.
func CreateTestWorkflow(overrides ...func(*models.ServiceWorkflow)) *models.ServiceWorkflow {
	workflow := &models.ServiceWorkflow{
		Slug: "test-service",
		Name: "Servicio de Prueba",
		Steps: []models.WorkflowStep{
			{
				Step:  1,
				Title: "Datos Personales",
				Fields: []models.WorkflowField{
					{Key: "full_name", Label: "Nombre completo", Type: models.FieldTypeText, Required: true},
					{Key: "marital_status", Label: "Estado civil", Type: models.FieldTypeSelect, Required: true, Options: []string{"single", "married"}},
				},
			},
			{
				Step:  2,
				Title: "Historia",
				Fields: []models.WorkflowField{
					{Key: "story", Label: "Su historia", Type: models.FieldTypeLongText, Required: true, MinLength: 10},
				},
			},
			{
				Step:  3,
				Title: "Revisión",
				Type:  models.StepTypeReview,
			},
		},
		RequiredDocuments: []models.RequiredDocument{
			{Key: "passport", Label: "Pasaporte", Required: true},
			{Key: "photos", Label: "Fotos", Required: false, Multiple: true},
		},
	}

	for _, override := range overrides {
		override(workflow)
	}

	return workflow
}

// CreateTestCase creates an in_progress case bound to the test workflow.
func CreateTestCase(overrides ...func(*models.Case)) *models.Case {
	now := time.Now().UTC()
	testCase := &models.Case{
		ID:           uuid.New().String(),
		CaseNumber:   "IN-2026-TEST0001",
		ClientID:     uuid.New().String(),
		ServiceSlug:  "test-service",
		IntakeStatus: models.IntakeStatusInProgress,
		FormData:     map[string]any{},
		CurrentStep:  0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, override := range overrides {
		override(testCase)
	}

	return testCase
}

// WithStatus sets the case's intake status.
func WithStatus(status models.IntakeStatus) func(*models.Case) {
	return func(c *models.Case) {
		c.IntakeStatus = status
	}
}

// WithFormData sets the case's accumulated form data.
func WithFormData(formData map[string]any) func(*models.Case) {
	return func(c *models.Case) {
		c.FormData = formData
	}
}

// WithCurrentStep sets the step the client is on.
func WithCurrentStep(step int) func(*models.Case) {
	return func(c *models.Case) {
		c.CurrentStep = step
	}
}

// WithDeadline sets the case's deadline date.
func WithDeadline(t time.Time) func(*models.Case) {
	return func(c *models.Case) {
		c.DeadlineDate = &t
	}
}
