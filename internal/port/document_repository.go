package port

import (
	"context"

	"github.com/google/uuid"

	"taxdecl/internal/domain"
)

// DocumentFilter narrows owner-scoped listings.
type DocumentFilter struct {
	FormType *domain.FormType
	Status   *domain.ProcessingStatus
}

// DocumentRepository persists documents together with their decoded records.
// Writes that touch child rows are atomic: either the document and all of its
// records are stored, or nothing is.
type DocumentRepository interface {
	// Create inserts doc and, when rec is non-nil, its decoded record.
	Create(ctx context.Context, doc *domain.Document, rec *domain.DecodedRecord) error
	// ReplaceRecord updates doc and swaps every child row for rec (nil clears them).
	ReplaceRecord(ctx context.Context, doc *domain.Document, rec *domain.DecodedRecord) error
	GetByID(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*domain.Document, error)
	// GetByIDUnscoped ignores ownership. Reserved for operator tooling.
	GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*domain.Document, error)
	ListByOwner(ctx context.Context, owner domain.OwnerKey, filter DocumentFilter, offset, limit int) ([]domain.Document, int, error)
	ListIDs(ctx context.Context, filter DocumentFilter) ([]uuid.UUID, error)
	Delete(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) error
}

// RecordRepository reads the decoded child records of a document.
type RecordRepository interface {
	GetForm103(ctx context.Context, documentID uuid.UUID) (*domain.Form103Record, error)
	GetForm104(ctx context.Context, documentID uuid.UUID) (*domain.Form104Record, error)
}
