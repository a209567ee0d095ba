package wizard

import "errors"

var (
	// ErrCaseReadOnly indicates the case left the editable intake states;
	// the wizard refuses field changes and submission.
	ErrCaseReadOnly = errors.New("case is read-only")

	// ErrAttestationRequired indicates a submission attempt without the
	// client's signed attestation. The gate is enforced here, not by the
	// UI: programmatic submission without the flag must fail.
	ErrAttestationRequired = errors.New("attestation is required before submission")

	// ErrNotAtFinalStep indicates a submission attempt before the client
	// reached the review step.
	ErrNotAtFinalStep = errors.New("submission is only allowed from the final step")

	// ErrWorkflowNotFound indicates the case references a service slug with
	// no registered workflow definition. Fatal for that case: the wizard
	// cannot render a partial form.
	ErrWorkflowNotFound = errors.New("workflow not found")
)

// IsCaseReadOnly checks if an error indicates a read-only case.
func IsCaseReadOnly(err error) bool {
	return errors.Is(err, ErrCaseReadOnly)
}

// IsAttestationRequired checks if an error indicates a missing attestation.
func IsAttestationRequired(err error) bool {
	return errors.Is(err, ErrAttestationRequired)
}
