package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdecl/internal/domain"
)

// MockRecordRepo is a mock implementation of port.RecordRepository.
type MockRecordRepo struct {
	mock.Mock
}

func (m *MockRecordRepo) GetForm103(ctx context.Context, documentID uuid.UUID) (*domain.Form103Record, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form103Record), args.Error(1)
}

func (m *MockRecordRepo) GetForm104(ctx context.Context, documentID uuid.UUID) (*domain.Form104Record, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Form104Record), args.Error(1)
}
