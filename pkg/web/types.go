// Package web provides HTTP request and response types for the intake API.
package web

import (
	"time"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/wizard"
)

// OpenCaseRequest represents the request body for opening a new intake case.
type OpenCaseRequest struct {
	ClientID           string         `json:"client_id"            validate:"required"`
	EligibilityAnswers map[string]any `json:"eligibility_answers"`
	DeadlineDate       *time.Time     `json:"deadline_date,omitempty"`
	PaymentDueDate     *time.Time     `json:"payment_due_date,omitempty"`
}

// EligibilityRequest carries the answers for a pre-intake eligibility check.
type EligibilityRequest struct {
	Answers map[string]any `json:"answers" validate:"required"`
}

// EligibilityResponse reports whether the answers qualify, with one failure
// message per unmet requirement.
type EligibilityResponse struct {
	Eligible bool     `json:"eligible"`
	Failures []string `json:"failures,omitempty"`
}

// AutosaveRequest represents the periodic snapshot the wizard client sends.
type AutosaveRequest struct {
	FormData     map[string]any `json:"form_data"    validate:"required"`
	CurrentStep  int            `json:"current_step" validate:"min=0"`
	SessionToken string         `json:"session_token,omitempty"`
}

// SubmitRequest represents the final submission. Attested must be true; the
// server refuses unsigned submissions.
type SubmitRequest struct {
	FormData map[string]any `json:"form_data" validate:"required"`
	Attested bool           `json:"attested"`
}

// ChangeStatusRequest represents a staff-driven intake status transition.
// Notes accompany needs_correction transitions.
type ChangeStatusRequest struct {
	Status  models.IntakeStatus `json:"status" validate:"required"`
	ActorID string              `json:"actor_id"`
	Notes   string              `json:"notes,omitempty"`
}

// AttachDocumentRequest represents the metadata for an uploaded file. The
// bytes are already in blob storage at FilePath.
type AttachDocumentRequest struct {
	DocumentKey string `json:"document_key" validate:"required"`
	Name        string `json:"name"         validate:"required"`
	FilePath    string `json:"file_path"    validate:"required"`
	FileType    string `json:"file_type,omitempty"`
	FileSize    int64  `json:"file_size,omitempty"  validate:"min=0"`
}

// LockRequest identifies the editing session taking or releasing a case's
// edit lock.
type LockRequest struct {
	SessionToken string `json:"session_token" validate:"required"`
}

// ServiceSummary is the catalog listing entry for one service.
type ServiceSummary struct {
	Slug              string `json:"slug"`
	Name              string `json:"name"`
	Steps             int    `json:"steps"`
	RequiredDocuments int    `json:"required_documents"`
	HasEligibility    bool   `json:"has_eligibility"`
}

// TransformServiceSummary builds a catalog entry from a workflow definition.
func TransformServiceSummary(workflow *models.ServiceWorkflow) ServiceSummary {
	return ServiceSummary{
		Slug:              workflow.Slug,
		Name:              workflow.Name,
		Steps:             len(workflow.Steps),
		RequiredDocuments: len(workflow.RequiredDocuments),
		HasEligibility:    len(workflow.EligibilityQuestions) > 0,
	}
}

// WizardStateResponse is everything the wizard client needs to render: the
// case, the step it is on, and the navigation state.
type WizardStateResponse struct {
	CaseID         string                  `json:"case_id"`
	CaseNumber     string                  `json:"case_number"`
	ServiceSlug    string                  `json:"service_slug"`
	IntakeStatus   models.IntakeStatus     `json:"intake_status"`
	Editable       bool                    `json:"editable"`
	CurrentStep    int                     `json:"current_step"`
	Frontier       int                     `json:"frontier"`
	CompletedSteps []int                   `json:"completed_steps"`
	Step           models.WorkflowStep     `json:"step"`
	FormData       map[string]any          `json:"form_data"`
	Errors         []wizard.ValidationError `json:"errors,omitempty"`
}

// TransformWizardState flattens a live session into the wire representation.
func TransformWizardState(caseData *models.Case, session *wizard.Session) WizardStateResponse {
	return WizardStateResponse{
		CaseID:         caseData.ID,
		CaseNumber:     caseData.CaseNumber,
		ServiceSlug:    caseData.ServiceSlug,
		IntakeStatus:   session.Status(),
		Editable:       session.Editable(),
		CurrentStep:    session.CurrentStep(),
		Frontier:       session.Frontier(),
		CompletedSteps: session.CompletedSteps(),
		Step:           session.Step(),
		FormData:       session.FormData(),
		Errors:         session.Errors(),
	}
}
