package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
)

// MockValidationLogRepo is a mock implementation of port.ValidationLogRepository.
type MockValidationLogRepo struct {
	mock.Mock
}

func (m *MockValidationLogRepo) Create(ctx context.Context, entry *domain.AnswerValidation) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockValidationLogRepo) ListByDocument(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AnswerValidation, int, error) {
	args := m.Called(ctx, documentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AnswerValidation), args.Int(1), args.Error(2)
}
