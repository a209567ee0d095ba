package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/herreralegal/intake/pkg/models"
	"github.com/herreralegal/intake/pkg/persistence"
)

// MockCaseRepository is a mock implementation of persistence.CaseRepository.
type MockCaseRepository struct {
	mock.Mock
}

func (m *MockCaseRepository) Cases(ctx context.Context) ([]*models.Case, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Case), args.Error(1)
}

func (m *MockCaseRepository) CasesByStatus(ctx context.Context, status models.IntakeStatus) ([]*models.Case, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Case), args.Error(1)
}

func (m *MockCaseRepository) CaseByID(ctx context.Context, id string) (*models.Case, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Case), args.Error(1)
}

func (m *MockCaseRepository) SaveCase(ctx context.Context, c *models.Case) error {
	args := m.Called(ctx, c)

	return args.Error(0)
}

func (m *MockCaseRepository) UpdateSnapshot(ctx context.Context, id string, formData map[string]any, currentStep int) error {
	args := m.Called(ctx, id, formData, currentStep)

	return args.Error(0)
}

func (m *MockCaseRepository) UpdateStatus(ctx context.Context, id string, status models.IntakeStatus, correctionNotes string) error {
	args := m.Called(ctx, id, status, correctionNotes)

	return args.Error(0)
}

func (m *MockCaseRepository) CasesDueBefore(ctx context.Context, cutoff time.Time) ([]*models.Case, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Case), args.Error(1)
}

// MockDocumentRepository is a mock implementation of persistence.DocumentRepository.
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) DocumentsByCase(ctx context.Context, caseID string) ([]models.Document, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Document), args.Error(1)
}

func (m *MockDocumentRepository) SaveDocument(ctx context.Context, doc *models.Document) error {
	args := m.Called(ctx, doc)

	return args.Error(0)
}

// MockActivityRepository is a mock implementation of persistence.ActivityRepository.
type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) AppendActivity(ctx context.Context, entry *models.CaseActivity) error {
	args := m.Called(ctx, entry)

	return args.Error(0)
}

func (m *MockActivityRepository) ActivityByCase(ctx context.Context, caseID string) ([]models.CaseActivity, error) {
	args := m.Called(ctx, caseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.CaseActivity), args.Error(1)
}

// MockPersistence is a mock implementation of persistence.Persistence that
// hands out the repository mocks it was built with.
type MockPersistence struct {
	mock.Mock

	CaseRepo     *MockCaseRepository
	DocumentRepo *MockDocumentRepository
	ActivityRepo *MockActivityRepository
}

// NewMockPersistence builds a MockPersistence with fresh repository mocks.
func NewMockPersistence() *MockPersistence {
	return &MockPersistence{
		CaseRepo:     &MockCaseRepository{},
		DocumentRepo: &MockDocumentRepository{},
		ActivityRepo: &MockActivityRepository{},
	}
}

func (m *MockPersistence) CaseRepository() persistence.CaseRepository {
	return m.CaseRepo
}

func (m *MockPersistence) DocumentRepository() persistence.DocumentRepository {
	return m.DocumentRepo
}

func (m *MockPersistence) ActivityRepository() persistence.ActivityRepository {
	return m.ActivityRepo
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
