package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/herreralegal/intake/pkg/eventbus"
	"github.com/herreralegal/intake/pkg/events"
	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
)

// Reminders scans for cases whose deadline or payment due date is inside the
// notice window and publishes a ReminderDue event for each finding. The scan
// itself is stateless; deduplication is the notifier's concern.
type Reminders struct {
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	window      time.Duration
	logger      *slog.Logger
}

func NewReminders(p persistence.Persistence, eventBus eventbus.EventBus, window time.Duration, logger *slog.Logger) *Reminders {
	return &Reminders{
		persistence: p,
		eventBus:    eventBus,
		window:      window,
		logger:      logger.With("module", "services.reminders"),
	}
}

// Scan finds the due dates inside the window and publishes one ReminderDue
// per finding. It returns the number of reminders published.
func (r *Reminders) Scan(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(r.window)

	cases, err := r.persistence.CaseRepository().CasesDueBefore(ctx, cutoff)
	if err != nil {
		return 0, NewCaseServiceError("reminder scan", "", err)
	}

	published := 0
	for _, caseData := range cases {
		if caseData.IntakeStatus == models.IntakeStatusCancelled || caseData.IntakeStatus == models.IntakeStatusFiled {
			continue
		}

		if caseData.DeadlineDate != nil && caseData.DeadlineDate.Before(cutoff) {
			if r.publish(ctx, caseData, events.ReminderKindDeadline, *caseData.DeadlineDate) {
				published++
			}
		}

		if caseData.PaymentDueDate != nil && caseData.PaymentDueDate.Before(cutoff) {
			if r.publish(ctx, caseData, events.ReminderKindPaymentDue, *caseData.PaymentDueDate) {
				published++
			}
		}
	}

	r.logger.InfoContext(ctx, "Reminder scan finished",
		"cutoff", cutoff, "cases", len(cases), "published", published)

	return published, nil
}

func (r *Reminders) publish(ctx context.Context, caseData *models.Case, kind events.ReminderKind, dueAt time.Time) bool {
	event := events.ReminderDue{
		BaseEvent: events.BaseEvent{
			ID:        r.eventBus.GenerateID(),
			Type:      events.ReminderDueEventType,
			Timestamp: time.Now().UTC(),
			CaseID:    caseData.ID,
		},
		ClientID: caseData.ClientID,
		Kind:     kind,
		DueAt:    dueAt,
	}

	if err := r.eventBus.Publish(ctx, caseData.ID, event); err != nil {
		r.logger.WarnContext(ctx, "Failed to publish reminder",
			"case_id", caseData.ID, "kind", kind, "error", err)

		return false
	}

	return true
}
