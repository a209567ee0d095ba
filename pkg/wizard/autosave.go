package wizard

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"
)

// DefaultAutosaveDebounce is the quiescence window between the last change
// and the persisted snapshot.
const DefaultAutosaveDebounce = 2 * time.Second

// SnapshotSource is what the autosaver observes: the current snapshot and
// whether the case is still editable. *Session satisfies it.
type SnapshotSource interface {
	Snapshot() Snapshot
	Editable() bool
}

// Autosaver debounces and persists form-data snapshots to the case store.
//
// Redundant writes are suppressed by comparing the serialized form-data
// document against the last successful save. Only one save is in flight at a
// time; a timer firing mid-save schedules another debounce cycle instead of
// issuing a second write, so the final state is eventually persisted while
// intermediate states may be coalesced. Save failures are logged and left
// for the next cycle to retry, since the data still lives in memory. When
// the case is no longer editable every call is a pass-through no-op.
type Autosaver struct {
	caseID   string
	source   SnapshotSource
	store    CaseStore
	logger   *slog.Logger
	debounce time.Duration

	mu        sync.Mutex
	timer     *time.Timer
	lastSaved string
	saving    bool
	closed    bool
}

// NewAutosaver creates an autosave coordinator for one case's editing
// session. A non-positive debounce falls back to the default.
func NewAutosaver(caseID string, source SnapshotSource, store CaseStore, logger *slog.Logger, debounce time.Duration) *Autosaver {
	if debounce <= 0 {
		debounce = DefaultAutosaveDebounce
	}

	return &Autosaver{
		caseID:   caseID,
		source:   source,
		store:    store,
		logger:   logger.With("case_id", caseID),
		debounce: debounce,
	}
}

// Changed signals that the form data or current step changed. The pending
// debounce window restarts; nothing is written until it elapses.
func (a *Autosaver) Changed() {
	if !a.source.Editable() {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return
	}

	a.scheduleLocked()
}

func (a *Autosaver) scheduleLocked() {
	if a.timer != nil {
		a.timer.Stop()
	}

	a.timer = time.AfterFunc(a.debounce, a.onTimer)
}

func (a *Autosaver) onTimer() {
	a.mu.Lock()

	if a.closed {
		a.mu.Unlock()

		return
	}

	if a.saving {
		// A save is in flight; don't cancel it, try again next cycle.
		a.scheduleLocked()
		a.mu.Unlock()

		return
	}

	a.mu.Unlock()

	a.save(context.Background())
}

// save persists the current snapshot unless the serialized document matches
// the last successful write.
func (a *Autosaver) save(ctx context.Context) {
	if !a.source.Editable() {
		return
	}

	snapshot := a.source.Snapshot()

	serialized, err := json.Marshal(snapshot.FormData)
	if err != nil {
		a.logger.ErrorContext(ctx, "Failed to serialize form data for autosave", "error", err)

		return
	}

	a.mu.Lock()
	if a.saving || string(serialized) == a.lastSaved {
		a.mu.Unlock()

		return
	}

	a.saving = true
	a.mu.Unlock()

	saveErr := a.store.Update(ctx, a.caseID, snapshot)

	a.mu.Lock()
	a.saving = false

	if saveErr == nil {
		a.lastSaved = string(serialized)
	}
	a.mu.Unlock()

	if saveErr != nil {
		// Silent to the user: the next debounce cycle retries against
		// whatever the document looks like then.
		a.logger.ErrorContext(ctx, "Autosave failed", "error", saveErr)
	}
}

// Flush persists the current snapshot immediately, regardless of the
// debounce timer's state. Best-effort: failures are logged, not returned.
func (a *Autosaver) Flush(ctx context.Context) {
	a.mu.Lock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()

	a.save(ctx)
}

// Close performs the final flush and stops the coordinator. Called at
// session teardown, covering navigation away mid-edit.
func (a *Autosaver) Close(ctx context.Context) {
	a.Flush(ctx)

	a.mu.Lock()
	a.closed = true

	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.mu.Unlock()
}
