package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docverify/internal/port"
)

// MockTextStore is a mock implementation of port.TextStore.
type MockTextStore struct {
	mock.Mock
}

func (m *MockTextStore) PutText(ctx context.Context, key, text, digest string) (*port.ArchivedText, error) {
	args := m.Called(ctx, key, text, digest)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ArchivedText), args.Error(1)
}

func (m *MockTextStore) GetText(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockTextStore) DeleteText(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
