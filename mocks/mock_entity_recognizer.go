package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docverify/internal/domain"
)

// MockEntityRecognizer is a mock implementation of port.EntityRecognizer.
type MockEntityRecognizer struct {
	mock.Mock
}

func (m *MockEntityRecognizer) Recognize(ctx context.Context, text string) ([]domain.Entity, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Entity), args.Error(1)
}
