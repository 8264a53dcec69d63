package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"taxdecl/internal/domain"
	"taxdecl/internal/port"
)

// MockDocumentRepo is a mock implementation of port.DocumentRepository.
type MockDocumentRepo struct {
	mock.Mock
}

func (m *MockDocumentRepo) Create(ctx context.Context, doc *domain.Document, rec *domain.DecodedRecord) error {
	args := m.Called(ctx, doc, rec)
	return args.Error(0)
}

func (m *MockDocumentRepo) ReplaceRecord(ctx context.Context, doc *domain.Document, rec *domain.DecodedRecord) error {
	args := m.Called(ctx, doc, rec)
	return args.Error(0)
}

func (m *MockDocumentRepo) GetByID(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}

func (m *MockDocumentRepo) ListByOwner(ctx context.Context, owner domain.OwnerKey, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	args := m.Called(ctx, owner, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Document), args.Int(1), args.Error(2)
}

func (m *MockDocumentRepo) ListIDs(ctx context.Context, filter port.DocumentFilter) ([]uuid.UUID, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockDocumentRepo) Delete(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}
