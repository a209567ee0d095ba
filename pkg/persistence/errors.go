// Package persistence provides standardized error types for persistence operations.
package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrCaseNotFound indicates a case was not found by the given identifier.
	ErrCaseNotFound = errors.New("case not found")

	// ErrCaseAlreadyExists indicates a case with the same identifier already exists.
	ErrCaseAlreadyExists = errors.New("case already exists")

	// ErrDocumentNotFound indicates a document record was not found.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrInvalidIntakeStatus indicates an invalid intake status was provided.
	ErrInvalidIntakeStatus = errors.New("invalid intake status")
)

// CaseError wraps case-related errors with additional context.
type CaseError struct {
	Op      string // Operation being performed (e.g., "CaseByID", "UpdateSnapshot")
	CaseID  string // Case ID if applicable
	Err     error  // Underlying error
	Message string // Additional context message
}

func (e *CaseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s operation failed for case %s: %s (%v)", e.Op, e.CaseID, e.Message, e.Err)
	}

	return fmt.Sprintf("%s operation failed for case %s: %v", e.Op, e.CaseID, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for case errors.
func (e *CaseError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewCaseError creates a new case error with context.
func NewCaseError(op, caseID string, err error) *CaseError {
	return &CaseError{
		Op:     op,
		CaseID: caseID,
		Err:    err,
	}
}

// DocumentError wraps document-related errors with additional context.
type DocumentError struct {
	Op         string
	CaseID     string
	DocumentID string
	Err        error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("%s operation failed for document %s in case %s: %v", e.Op, e.DocumentID, e.CaseID, e.Err)
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

func (e *DocumentError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsCaseNotFound checks if an error indicates a case was not found.
func IsCaseNotFound(err error) bool {
	return errors.Is(err, ErrCaseNotFound)
}

// IsDocumentNotFound checks if an error indicates a document was not found.
func IsDocumentNotFound(err error) bool {
	return errors.Is(err, ErrDocumentNotFound)
}
