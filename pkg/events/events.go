// Package events defines the case lifecycle events published on the intake
// event bus: submissions, staff status changes, document uploads, and
// reminder notifications.
package events

import (
	"time"

	"github.com/herreralegal/intake/pkg/models"
)

type EventType string

// Topic is the bus topic carrying every case lifecycle event.
const Topic = "intake.case.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	CaseSubmittedEventType     EventType = "case.submitted"
	CaseStatusChangedEventType EventType = "case.status.changed"
	DocumentUploadedEventType  EventType = "case.document.uploaded"
	ReminderDueEventType       EventType = "case.reminder.due"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	CaseID    string         `json:"case_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// CaseSubmitted is published after the store confirmed a client's signed
// submission. Downstream consumers notify staff and kick off review.
type CaseSubmitted struct {
	BaseEvent

	ClientID    string `json:"client_id"`
	ServiceSlug string `json:"service_slug"`
	CaseNumber  string `json:"case_number"`
}

func (e CaseSubmitted) GetType() EventType {
	return CaseSubmittedEventType
}

// CaseStatusChanged is published on every staff-driven intake status
// transition.
type CaseStatusChanged struct {
	BaseEvent

	ActorID string              `json:"actor_id,omitempty"`
	From    models.IntakeStatus `json:"from"`
	To      models.IntakeStatus `json:"to"`
	Notes   string              `json:"notes,omitempty"`
}

func (e CaseStatusChanged) GetType() EventType {
	return CaseStatusChangedEventType
}

// DocumentUploaded is published when a new document record is attached to a
// case.
type DocumentUploaded struct {
	BaseEvent

	DocumentID  string `json:"document_id"`
	DocumentKey string `json:"document_key"`
	Name        string `json:"name"`
}

func (e DocumentUploaded) GetType() EventType {
	return DocumentUploadedEventType
}

// ReminderKind distinguishes the reminder scanner's findings.
type ReminderKind string

const (
	ReminderKindDeadline   ReminderKind = "deadline"
	ReminderKindPaymentDue ReminderKind = "payment_due"
)

// ReminderDue is published by the reminder worker when a case's deadline or
// payment due date is inside the notice window.
type ReminderDue struct {
	BaseEvent

	ClientID string       `json:"client_id"`
	Kind     ReminderKind `json:"kind"`
	DueAt    time.Time    `json:"due_at"`
}

func (e ReminderDue) GetType() EventType {
	return ReminderDueEventType
}
