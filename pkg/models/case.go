package models

import "time"

// IntakeStatus represents the lifecycle state of a case's intake process.
type IntakeStatus string

const (
	IntakeStatusPaymentPending  IntakeStatus = "payment_pending"  // Awaiting the initial payment
	IntakeStatusInProgress      IntakeStatus = "in_progress"      // Client is filling the wizard
	IntakeStatusSubmitted       IntakeStatus = "submitted"        // Client signed and submitted
	IntakeStatusUnderReview     IntakeStatus = "under_review"     // Staff is reviewing the submission
	IntakeStatusNeedsCorrection IntakeStatus = "needs_correction" // Returned to the client for fixes
	IntakeStatusApproved        IntakeStatus = "approved"         // Staff approved the intake
	IntakeStatusFiled           IntakeStatus = "filed"            // Filed with the agency or court
	IntakeStatusCancelled       IntakeStatus = "cancelled"
)

// Editable reports whether the client may still change the case's form data.
// Outside these states the wizard is read-only and autosave is a no-op.
func (s IntakeStatus) Editable() bool {
	return s == IntakeStatusInProgress || s == IntakeStatusNeedsCorrection
}

// intakeTransitions lists the staff-driven status moves allowed after
// submission. Client-side moves (in_progress -> submitted,
// needs_correction -> submitted) go through the wizard's submit path instead.
var intakeTransitions = map[IntakeStatus][]IntakeStatus{
	IntakeStatusSubmitted:   {IntakeStatusUnderReview, IntakeStatusNeedsCorrection, IntakeStatusApproved},
	IntakeStatusUnderReview: {IntakeStatusNeedsCorrection, IntakeStatusApproved},
	IntakeStatusApproved:    {IntakeStatusFiled},
}

// CanTransitionTo reports whether a staff status change from s to target is
// allowed. Cancellation is allowed from any non-terminal state.
func (s IntakeStatus) CanTransitionTo(target IntakeStatus) bool {
	if target == IntakeStatusCancelled {
		return s != IntakeStatusFiled && s != IntakeStatusCancelled
	}

	for _, allowed := range intakeTransitions[s] {
		if allowed == target {
			return true
		}
	}

	return false
}

// Case is one client's intake for one service. FormData is the accumulated
// wizard document: a mapping from field key to value whose shape depends on
// the field type. Keys from every step are preserved across saves, not just
// the current step's.
type Case struct {
	ID              string         `json:"id"`
	CaseNumber      string         `json:"case_number"`
	ClientID        string         `json:"client_id"        validate:"required"`
	ServiceSlug     string         `json:"service_slug"     validate:"required"`
	IntakeStatus    IntakeStatus   `json:"intake_status"    validate:"required"`
	FormData        map[string]any `json:"form_data"`
	CurrentStep     int            `json:"current_step"     validate:"min=0"`
	CorrectionNotes string         `json:"correction_notes,omitempty"`
	DeadlineDate    *time.Time     `json:"deadline_date,omitempty"`
	PaymentDueDate  *time.Time     `json:"payment_due_date,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// DocumentStatus is the staff-review state of an uploaded document.
type DocumentStatus string

const (
	DocumentStatusUploaded DocumentStatus = "uploaded"
	DocumentStatusApproved DocumentStatus = "approved"
	DocumentStatusRejected DocumentStatus = "rejected"
)

// Document is one uploaded file record, correlated to a workflow's
// RequiredDocument by DocumentKey. File content lives in external blob
// storage; only the metadata is tracked here.
type Document struct {
	ID              string         `json:"id"`
	CaseID          string         `json:"case_id"      validate:"required"`
	ClientID        string         `json:"client_id"`
	DocumentKey     string         `json:"document_key" validate:"required"`
	Name            string         `json:"name"         validate:"required"`
	FilePath        string         `json:"file_path"`
	FileType        string         `json:"file_type,omitempty"`
	FileSize        int64          `json:"file_size,omitempty"`
	Status          DocumentStatus `json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
}

// CaseActivity is one append-only audit log entry for a case.
type CaseActivity struct {
	ID              string         `json:"id"`
	CaseID          string         `json:"case_id"     validate:"required"`
	ActorID         string         `json:"actor_id,omitempty"`
	Action          string         `json:"action"      validate:"required"`
	Description     string         `json:"description"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	VisibleToClient bool           `json:"visible_to_client"`
	CreatedAt       time.Time      `json:"created_at"`
}
