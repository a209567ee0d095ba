package services

import (
	"errors"
	"fmt"
)

var (
	// ErrServiceNotFound is returned when no workflow definition exists
	// for the requested service slug.
	ErrServiceNotFound = errors.New("service not found")

	// ErrNotEligible is returned when the eligibility answers fail one
	// or more of the service's eligibility questions.
	ErrNotEligible = errors.New("client is not eligible for this service")

	// ErrInvalidTransition is returned when a requested status change is
	// not allowed from the case's current status.
	ErrInvalidTransition = errors.New("invalid intake status transition")

	// ErrValidationFailed is returned when a submitted form fails step
	// validation.
	ErrValidationFailed = errors.New("form validation failed")
)

// CaseServiceError wraps an error with the operation and case that produced it.
type CaseServiceError struct {
	Op     string
	CaseID string
	Err    error
}

func (e *CaseServiceError) Error() string {
	if e.CaseID != "" {
		return fmt.Sprintf("%s: case %s: %v", e.Op, e.CaseID, e.Err)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CaseServiceError) Unwrap() error {
	return e.Err
}

func (e *CaseServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewCaseServiceError creates a CaseServiceError with the given details.
func NewCaseServiceError(op, caseID string, err error) *CaseServiceError {
	return &CaseServiceError{Op: op, CaseID: caseID, Err: err}
}

// EligibilityError carries the individual failure messages from an
// eligibility check so callers can surface them to the client.
type EligibilityError struct {
	ServiceSlug string
	Failures    []string
}

func (e *EligibilityError) Error() string {
	return fmt.Sprintf("eligibility check failed for %s: %d requirement(s) not met", e.ServiceSlug, len(e.Failures))
}

func (e *EligibilityError) Is(target error) bool {
	return target == ErrNotEligible
}

// IsServiceNotFound checks if an error indicates a missing workflow definition.
func IsServiceNotFound(err error) bool {
	return errors.Is(err, ErrServiceNotFound)
}

// IsInvalidTransition checks if an error indicates a rejected status change.
func IsInvalidTransition(err error) bool {
	return errors.Is(err, ErrInvalidTransition)
}

// IsNotEligible checks if an error indicates a failed eligibility check.
func IsNotEligible(err error) bool {
	return errors.Is(err, ErrNotEligible)
}
