package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockOwnerLocker is a mock implementation of port.OwnerLocker. Unlocks are
// counted so tests can assert the lock was released.
type MockOwnerLocker struct {
	mock.Mock
	Unlocked int
}

func (m *MockOwnerLocker) Lock(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return func() { m.Unlocked++ }, nil
}
