package wizard

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/testutil"
)

// fakeCaseStore records Update and Submit calls in memory.
type fakeCaseStore struct {
	mu        sync.Mutex
	updates   []Snapshot
	submits   []Snapshot
	updateErr error
	submitErr error
}

func (f *fakeCaseStore) Update(_ context.Context, _ string, snapshot Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.updateErr != nil {
		return f.updateErr
	}

	f.updates = append(f.updates, snapshot)

	return nil
}

func (f *fakeCaseStore) Submit(_ context.Context, _ string, snapshot Snapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.submitErr != nil {
		return f.submitErr
	}

	f.submits = append(f.submits, snapshot)

	return nil
}

func (f *fakeCaseStore) updateCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.updates)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, nil))
}

func newTestSession(t *testing.T, overrides ...func(*models.Case)) (*Session, *fakeCaseStore) {
	t.Helper()

	store := &fakeCaseStore{}
	session, err := NewSession(testutil.CreateTestCase(overrides...), testutil.CreateTestWorkflow(), store, testLogger())
	require.NoError(t, err)

	return session, store
}

func TestNewSession_NilWorkflow(t *testing.T) {
	_, err := NewSession(testutil.CreateTestCase(), nil, &fakeCaseStore{}, testLogger())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrWorkflowNotFound)
}

func TestNewSession_ClampsOutOfRangeStep(t *testing.T) {
	session, _ := newTestSession(t, testutil.WithCurrentStep(99))
	assert.Equal(t, 2, session.CurrentStep())

	session, _ = newTestSession(t, testutil.WithCurrentStep(-3))
	assert.Equal(t, 0, session.CurrentStep())
}

func TestNewSession_RecomputesCompletion(t *testing.T) {
	session, _ := newTestSession(t, testutil.WithFormData(map[string]any{
		"full_name":      "Juan Pérez",
		"marital_status": "single",
		"story":          "Una historia suficientemente larga",
	}))

	assert.Equal(t, []int{0, 1}, session.CompletedSteps())
	assert.Equal(t, 2, session.Frontier())
}

func TestSession_NextValidatesAndAdvances(t *testing.T) {
	session, _ := newTestSession(t)

	// Empty step 1 refuses to advance and reports both required fields.
	errs := session.Next()
	require.Len(t, errs, 2)
	assert.Equal(t, 0, session.CurrentStep())
	assert.Equal(t, errs, session.Errors())

	require.NoError(t, session.SetField("full_name", "Juan Pérez"))
	require.NoError(t, session.SetField("marital_status", "single"))

	errs = session.Next()
	assert.Empty(t, errs)
	assert.Equal(t, 1, session.CurrentStep())
	assert.True(t, session.IsCompleted(0))
	assert.Empty(t, session.Errors())
}

func TestSession_SetFieldClearsOnlyThatKeysErrors(t *testing.T) {
	session, _ := newTestSession(t)

	errs := session.Next()
	require.Len(t, errs, 2)

	require.NoError(t, session.SetField("full_name", "Juan"))

	remaining := session.Errors()
	require.Len(t, remaining, 1)
	assert.Equal(t, "marital_status", remaining[0].Key)
}

func TestSession_NextClampsAtFinalStep(t *testing.T) {
	session, _ := newTestSession(t, testutil.WithCurrentStep(2))

	// Review step has no fields; Next is a clamped no-op at the end.
	assert.Empty(t, session.Next())
	assert.Equal(t, 2, session.CurrentStep())
}

func TestSession_PreviousClampsAtFirstStep(t *testing.T) {
	session, _ := newTestSession(t)

	session.Previous()
	assert.Equal(t, 0, session.CurrentStep())
}

func TestSession_JumpToStep(t *testing.T) {
	session, _ := newTestSession(t, testutil.WithFormData(map[string]any{
		"full_name":      "Juan Pérez",
		"marital_status": "single",
	}), testutil.WithCurrentStep(1))

	// Step 0 is completed: jumping back works.
	session.JumpToStep(0)
	assert.Equal(t, 0, session.CurrentStep())

	// The frontier (one past highest completed) is reachable.
	session.JumpToStep(1)
	assert.Equal(t, 1, session.CurrentStep())

	// Beyond the frontier is a silent no-op.
	session.JumpToStep(2)
	assert.Equal(t, 1, session.CurrentStep())

	// Out of range is a silent no-op.
	session.JumpToStep(-1)
	session.JumpToStep(9)
	assert.Equal(t, 1, session.CurrentStep())
}

func TestSession_FrontierWithNothingCompleted(t *testing.T) {
	session, _ := newTestSession(t)

	assert.Equal(t, 1, session.Frontier())

	// The second step is reachable even with nothing completed.
	session.JumpToStep(1)
	assert.Equal(t, 1, session.CurrentStep())
}

func TestSession_ReadOnlyRefusesEdits(t *testing.T) {
	session, _ := newTestSession(t, testutil.WithStatus(models.IntakeStatusSubmitted))

	assert.False(t, session.Editable())

	err := session.SetField("full_name", "cambio")
	require.Error(t, err)
	assert.True(t, IsCaseReadOnly(err))
}

func TestSession_NeedsCorrectionIsEditable(t *testing.T) {
	session, _ := newTestSession(t, testutil.WithStatus(models.IntakeStatusNeedsCorrection))

	assert.True(t, session.Editable())
	assert.NoError(t, session.SetField("full_name", "corregido"))
}

func TestSession_SubmitRequiresFinalStep(t *testing.T) {
	session, store := newTestSession(t)
	session.SetAttestation(true)

	err := session.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotAtFinalStep)
	assert.Empty(t, store.submits)
}

func TestSession_SubmitRequiresAttestation(t *testing.T) {
	session, store := newTestSession(t, testutil.WithCurrentStep(2))

	err := session.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, IsAttestationRequired(err))
	assert.Empty(t, store.submits)

	session.SetAttestation(true)
	require.NoError(t, session.Submit(context.Background()))
	require.Len(t, store.submits, 1)
	assert.Equal(t, models.IntakeStatusSubmitted, session.Status())
}

func TestSession_SubmitKeepsStatusOnStoreFailure(t *testing.T) {
	store := &fakeCaseStore{submitErr: errors.New("db down")}
	session, err := NewSession(
		testutil.CreateTestCase(testutil.WithCurrentStep(2)),
		testutil.CreateTestWorkflow(),
		store,
		testLogger(),
	)
	require.NoError(t, err)

	session.SetAttestation(true)

	err = session.Submit(context.Background())
	require.Error(t, err)
	assert.Equal(t, models.IntakeStatusInProgress, session.Status())
	assert.True(t, session.Editable())
}

func TestSession_SubmitRefusedWhenReadOnly(t *testing.T) {
	session, store := newTestSession(t,
		testutil.WithStatus(models.IntakeStatusUnderReview),
		testutil.WithCurrentStep(2),
	)
	session.SetAttestation(true)

	err := session.Submit(context.Background())
	require.Error(t, err)
	assert.True(t, IsCaseReadOnly(err))
	assert.Empty(t, store.submits)
}

func TestSession_OutOfOrderDataPreserved(t *testing.T) {
	// Data set under a later step's key survives even though the client is on
	// step 0: the snapshot carries the whole document.
	session, _ := newTestSession(t)

	require.NoError(t, session.SetField("story", "escrita antes de tiempo, bastante larga"))
	require.NoError(t, session.SetField("full_name", "Juan"))

	snapshot := session.Snapshot()
	assert.Equal(t, "escrita antes de tiempo, bastante larga", snapshot.FormData["story"])
	assert.Equal(t, 0, snapshot.CurrentStep)
}
