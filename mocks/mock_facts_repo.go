package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
)

// MockFactsRepo is a mock implementation of port.FactsRepository.
type MockFactsRepo struct {
	mock.Mock
}

func (m *MockFactsRepo) Upsert(ctx context.Context, facts *domain.DocumentFacts) error {
	args := m.Called(ctx, facts)
	return args.Error(0)
}

func (m *MockFactsRepo) GetByDocumentID(ctx context.Context, documentID uuid.UUID) (*domain.DocumentFacts, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentFacts), args.Error(1)
}

func (m *MockFactsRepo) Delete(ctx context.Context, documentID uuid.UUID) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}
