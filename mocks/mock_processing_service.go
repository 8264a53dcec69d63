package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdecl/internal/domain"
	"taxdecl/internal/service"
)

// MockProcessingService is a mock implementation of service.ProcessingService.
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) Process(ctx context.Context, input service.ProcessInput) (*service.ProcessResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProcessResult), args.Error(1)
}

func (m *MockProcessingService) ProcessBatch(ctx context.Context, inputs []service.ProcessInput) ([]service.BatchItem, error) {
	args := m.Called(ctx, inputs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]service.BatchItem), args.Error(1)
}

func (m *MockProcessingService) Reprocess(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, docID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
