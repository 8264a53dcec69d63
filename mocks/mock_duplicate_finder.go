package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"taxdecl/internal/domain"
)

// MockDuplicateFinder is a mock implementation of port.DuplicateFinder.
type MockDuplicateFinder struct {
	mock.Mock
}

func (m *MockDuplicateFinder) FindDuplicate(ctx context.Context, owner domain.OwnerKey, legalName, fiscalPeriod string, formType domain.FormType) (*domain.Document, error) {
	args := m.Called(ctx, owner, legalName, fiscalPeriod, formType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Document), args.Error(1)
}
