package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
	"docverify/internal/service"
)

// MockAnswerService is a mock implementation of service.AnswerService.
type MockAnswerService struct {
	mock.Mock
}

func (m *MockAnswerService) Validate(ctx context.Context, input *service.ValidateAnswerInput) (*service.AnswerVerdict, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnswerVerdict), args.Error(1)
}

func (m *MockAnswerService) ValidateBatch(ctx context.Context, input *service.ValidateBatchInput) ([]service.AnswerVerdict, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.AnswerVerdict), args.Error(1)
}

func (m *MockAnswerService) ValidateInline(ctx context.Context, input *service.ValidateInlineInput) (*service.AnswerVerdict, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AnswerVerdict), args.Error(1)
}

func (m *MockAnswerService) ListValidations(ctx context.Context, documentID uuid.UUID, offset, limit int) ([]domain.AnswerValidation, int, error) {
	args := m.Called(ctx, documentID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AnswerValidation), args.Int(1), args.Error(2)
}
