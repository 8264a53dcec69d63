package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"taxdecl/internal/domain"
	"taxdecl/internal/port"
)

type duplicateFinderRepo struct {
	db *sqlx.DB
}

// NewDuplicateFinderRepo creates a new PostgreSQL-backed DuplicateFinder.
func NewDuplicateFinderRepo(db *sqlx.DB) port.DuplicateFinder {
	return &duplicateFinderRepo{db: db}
}

// FindDuplicate returns the earliest non-failed document of the owner that
// declares the same legal name, fiscal period and form type, or nil.
func (r *duplicateFinderRepo) FindDuplicate(ctx context.Context, owner domain.OwnerKey, legalName, fiscalPeriod string, formType domain.FormType) (*domain.Document, error) {
	clause, arg, ok := ownerClause(owner, 1)
	if !ok || legalName == "" || fiscalPeriod == "" {
		return nil, nil
	}

	var doc domain.Document
	query := `SELECT * FROM documents
		WHERE ` + clause + `
		  AND razon_social = $2
		  AND periodo_fiscal_completo = $3
		  AND form_type = $4
		  AND processing_status <> $5
		ORDER BY uploaded_at ASC
		LIMIT 1`
	err := r.db.GetContext(ctx, &doc, query, arg, legalName, fiscalPeriod, formType, domain.StatusFailed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("duplicateFinderRepo.FindDuplicate: %w", err)
	}
	return &doc, nil
}
