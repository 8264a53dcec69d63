package port

import (
	"context"

	"taxdecl/internal/domain"
)

// DuplicateFinder looks up an earlier declaration of the same taxpayer, period
// and form uploaded by the same owner.
type DuplicateFinder interface {
	// FindDuplicate returns nil, nil when there is no match. Failed documents
	// never match.
	FindDuplicate(ctx context.Context, owner domain.OwnerKey, legalName, fiscalPeriod string,
		formType domain.FormType) (*domain.Document, error)
}
