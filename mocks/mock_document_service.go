package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdecl/internal/domain"
	"taxdecl/internal/port"
	"taxdecl/internal/service"
)

// MockDocumentService is a mock implementation of service.DocumentService.
type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) GetByID(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentService) List(ctx context.Context, owner domain.OwnerKey, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	args := m.Called(ctx, owner, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentService) GetRecord(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*service.DocumentRecord, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.DocumentRecord), args.Error(1)
}

func (m *MockDocumentService) Export(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*service.ExportFile, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportFile), args.Error(1)
}

func (m *MockDocumentService) Delete(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}
