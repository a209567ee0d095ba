package wizard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/herreralegal/intake/pkg/models"
)

// Snapshot is the persisted view of an editing session: the accumulated
// form-data document plus the step the client is on.
type Snapshot struct {
	FormData    map[string]any `json:"form_data"`
	CurrentStep int            `json:"current_step"`
}

// CaseStore is the session's port to durable case storage. Update persists
// an autosave snapshot and must be idempotent under retry. Submit persists
// the snapshot, transitions the case to submitted, and appends the activity
// entry; it must not report success unless the store confirmed the write.
type CaseStore interface {
	Update(ctx context.Context, caseID string, snapshot Snapshot) error
	Submit(ctx context.Context, caseID string, snapshot Snapshot) error
}

// Session orchestrates one client's pass through the intake wizard for one
// case. It owns the in-memory form-data document during the editing session;
// the case store owns it between sessions. Sessions are not safe for
// concurrent use: all mutations are serialized through the caller's event
// loop or request handler.
type Session struct {
	caseID   string
	status   models.IntakeStatus
	workflow *models.ServiceWorkflow
	registry *FieldRegistry
	store    CaseStore
	logger   *slog.Logger

	currentStep int
	formData    map[string]any
	completed   map[int]struct{}
	errors      []ValidationError
	attested    bool
}

// NewSession builds a session from a loaded case and its resolved workflow.
// The current step resumes from the case's last saved position, and
// completion is recomputed for every form step against the full persisted
// document, so steps filled out of order still unlock the correct frontier.
func NewSession(caseData *models.Case, workflow *models.ServiceWorkflow, store CaseStore, logger *slog.Logger) (*Session, error) {
	if workflow == nil {
		return nil, fmt.Errorf("case %s (service %s): %w", caseData.ID, caseData.ServiceSlug, ErrWorkflowNotFound)
	}

	formData := caseData.FormData
	if formData == nil {
		formData = make(map[string]any)
	}

	currentStep := caseData.CurrentStep
	if currentStep < 0 {
		currentStep = 0
	}

	if currentStep >= len(workflow.Steps) {
		currentStep = len(workflow.Steps) - 1
	}

	s := &Session{
		caseID:      caseData.ID,
		status:      caseData.IntakeStatus,
		workflow:    workflow,
		registry:    defaultRegistry,
		store:       store,
		logger:      logger.With("case_id", caseData.ID, "workflow", workflow.Slug),
		currentStep: currentStep,
		formData:    formData,
		completed:   make(map[int]struct{}),
	}

	for i, step := range workflow.Steps {
		if step.HasFields() && s.registry.IsStepComplete(step, s.formData) {
			s.completed[i] = struct{}{}
		}
	}

	return s, nil
}

// WithRegistry replaces the field registry used for validation. Intended for
// workflows that register custom field types.
func (s *Session) WithRegistry(registry *FieldRegistry) *Session {
	s.registry = registry

	return s
}

// CurrentStep returns the zero-based index of the step the client is on.
func (s *Session) CurrentStep() int {
	return s.currentStep
}

// Step returns the definition of the current step.
func (s *Session) Step() models.WorkflowStep {
	return s.workflow.Steps[s.currentStep]
}

// FormData returns the live form-data document. The session owns it; callers
// must not mutate it outside SetField.
func (s *Session) FormData() map[string]any {
	return s.formData
}

// Status returns the session's view of the case intake status.
func (s *Session) Status() models.IntakeStatus {
	return s.status
}

// Editable reports whether the client may still change the form data.
func (s *Session) Editable() bool {
	return s.status.Editable()
}

// Errors returns the violations surfaced by the last refused advance.
func (s *Session) Errors() []ValidationError {
	return s.errors
}

// CompletedSteps returns the sorted indices of completed form steps.
func (s *Session) CompletedSteps() []int {
	steps := make([]int, 0, len(s.completed))
	for i := range s.completed {
		steps = append(steps, i)
	}

	sort.Ints(steps)

	return steps
}

// IsCompleted reports whether a step index is in the completed set.
func (s *Session) IsCompleted(index int) bool {
	_, ok := s.completed[index]

	return ok
}

// Frontier returns the highest step index reachable via JumpToStep: one past
// the highest completed index.
func (s *Session) Frontier() int {
	highest := 0
	for i := range s.completed {
		if i > highest {
			highest = i
		}
	}

	return highest + 1
}

// SetField updates exactly one key in the form-data document and clears any
// existing validation error for that key, leaving other keys' errors intact.
// This is the only mutation path for form data outside of loading a
// persisted case. Refused once the case is no longer editable.
func (s *Session) SetField(key string, value any) error {
	if !s.status.Editable() {
		return fmt.Errorf("case %s in status %s: %w", s.caseID, s.status, ErrCaseReadOnly)
	}

	s.formData[key] = value

	remaining := s.errors[:0]
	for _, e := range s.errors {
		if e.Key != key {
			remaining = append(remaining, e)
		}
	}

	s.errors = remaining

	return nil
}

// Next validates the current step (when it collects fields) and advances on
// success, clamped to the last step. On validation failure the returned
// violations are also retained on the session and no step change occurs.
// Completing an already-completed step is idempotent.
func (s *Session) Next() []ValidationError {
	step := s.workflow.Steps[s.currentStep]

	if step.HasFields() {
		if errs := s.registry.ValidateStep(step, s.formData); len(errs) > 0 {
			s.errors = errs

			return errs
		}

		s.completed[s.currentStep] = struct{}{}
	}

	s.errors = nil

	if s.currentStep < len(s.workflow.Steps)-1 {
		s.currentStep++
	}

	return nil
}

// Previous moves back one step, clamped at the first, clearing any displayed
// errors without re-validating.
func (s *Session) Previous() {
	s.errors = nil

	if s.currentStep > 0 {
		s.currentStep--
	}
}

// JumpToStep moves directly to a step the client already completed, or to
// the frontier. Jumping to a locked step is a no-op, not an error.
func (s *Session) JumpToStep(index int) {
	if index < 0 || index >= len(s.workflow.Steps) {
		return
	}

	if !s.IsCompleted(index) && index > s.Frontier() {
		return
	}

	s.errors = nil
	s.currentStep = index
}

// SetAttestation records the client's sign-off that the provided information
// is truthful.
func (s *Session) SetAttestation(attested bool) {
	s.attested = attested
}

// Attested reports whether the client signed the attestation.
func (s *Session) Attested() bool {
	return s.attested
}

// Snapshot returns the persistable view of the session.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		FormData:    s.formData,
		CurrentStep: s.currentStep,
	}
}

// Submit asks the case store to transition the case to submitted. Refused
// locally, with no store call, unless the client is on the final step and
// has attested; the session's own status view only flips after the store
// confirms the write.
func (s *Session) Submit(ctx context.Context) error {
	if !s.status.Editable() {
		return fmt.Errorf("case %s in status %s: %w", s.caseID, s.status, ErrCaseReadOnly)
	}

	if s.currentStep != len(s.workflow.Steps)-1 {
		return fmt.Errorf("case %s at step %d: %w", s.caseID, s.currentStep, ErrNotAtFinalStep)
	}

	if !s.attested {
		return fmt.Errorf("case %s: %w", s.caseID, ErrAttestationRequired)
	}

	if err := s.store.Submit(ctx, s.caseID, s.Snapshot()); err != nil {
		s.logger.ErrorContext(ctx, "Case submission failed", "error", err)

		return fmt.Errorf("failed to submit case %s: %w", s.caseID, err)
	}

	s.status = models.IntakeStatusSubmitted
	s.logger.InfoContext(ctx, "Case submitted")

	return nil
}
