package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docverify/internal/service"
)

// MockFactService is a mock implementation of service.FactService.
type MockFactService struct {
	mock.Mock
}

func (m *MockFactService) Extract(ctx context.Context, input *service.ExtractInput) (*service.FactsOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FactsOutput), args.Error(1)
}

func (m *MockFactService) Get(ctx context.Context, documentID uuid.UUID) (*service.FactsOutput, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.FactsOutput), args.Error(1)
}

func (m *MockFactService) SourceText(ctx context.Context, documentID uuid.UUID) (string, error) {
	args := m.Called(ctx, documentID)
	return args.String(0), args.Error(1)
}

func (m *MockFactService) Delete(ctx context.Context, documentID uuid.UUID) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}
