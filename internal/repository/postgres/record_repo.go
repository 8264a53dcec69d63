package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxdecl/internal/domain"
	"taxdecl/internal/port"
)

type recordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo creates a new PostgreSQL-backed RecordRepository.
func NewRecordRepo(db *sqlx.DB) port.RecordRepository {
	return &recordRepo{db: db}
}

const insertLineItemSQL = `INSERT INTO form_103_line_items
	(id, document_id, order_index, concepto, codigo_base, base_imponible, codigo_retencion, valor_retenido)
	VALUES (:id, :document_id, :order_index, :concepto, :codigo_base, :base_imponible, :codigo_retencion, :valor_retenido)`

const insertTotalsSQL = `INSERT INTO form_103_totals
	(id, document_id, subtotal_operaciones_pais, subtotal_retencion, otras_retenciones_base,
	 otras_retenciones_valor, total_retencion, total_impuesto_pagar, interes_mora, multa,
	 total_pagado, pagos_no_sujetos_retencion)
	VALUES (:id, :document_id, :subtotal_operaciones_pais, :subtotal_retencion, :otras_retenciones_base,
	 :otras_retenciones_valor, :total_retencion, :total_impuesto_pagar, :interes_mora, :multa,
	 :total_pagado, :pagos_no_sujetos_retencion)`

const insertWithholdingSQL = `INSERT INTO form_104_withholdings (id, document_id, code, percentage, value)
	VALUES (:id, :document_id, :code, :percentage, :value)`

// insertForm104SQL is derived from the field table so columns never drift
// from the decoder.
var insertForm104SQL = func() string {
	cols := []string{"id", "document_id"}
	for _, f := range domain.Form104Fields {
		cols = append(cols, f.Column)
	}
	return fmt.Sprintf("INSERT INTO form_104_records (%s) VALUES (:%s)",
		strings.Join(cols, ", "), strings.Join(cols, ", :"))
}()

// insertRecord writes the per-form rows of rec under documentID. A nil record
// or one with neither payload writes nothing.
func insertRecord(ctx context.Context, tx *sqlx.Tx, documentID uuid.UUID, rec *domain.DecodedRecord) error {
	if rec == nil {
		return nil
	}
	if f := rec.Form103; f != nil {
		for i := range f.LineItems {
			item := &f.LineItems[i]
			item.ID = uuid.New()
			item.DocumentID = documentID
			if _, err := tx.NamedExecContext(ctx, insertLineItemSQL, item); err != nil {
				return fmt.Errorf("insert form 103 line item %d: %w", item.OrderIndex, err)
			}
		}
		f.Totals.ID = uuid.New()
		f.Totals.DocumentID = documentID
		if _, err := tx.NamedExecContext(ctx, insertTotalsSQL, &f.Totals); err != nil {
			return fmt.Errorf("insert form 103 totals: %w", err)
		}
	}
	if f := rec.Form104; f != nil {
		f.ID = uuid.New()
		f.DocumentID = documentID
		if _, err := tx.NamedExecContext(ctx, insertForm104SQL, f); err != nil {
			return fmt.Errorf("insert form 104 record: %w", err)
		}
		for i := range f.Withholdings {
			w := &f.Withholdings[i]
			w.ID = uuid.New()
			w.DocumentID = documentID
			if _, err := tx.NamedExecContext(ctx, insertWithholdingSQL, w); err != nil {
				return fmt.Errorf("insert form 104 withholding %s: %w", w.Code, err)
			}
		}
	}
	return nil
}

func (r *recordRepo) GetForm103(ctx context.Context, documentID uuid.UUID) (*domain.Form103Record, error) {
	var totals domain.Form103Totals
	err := r.db.GetContext(ctx, &totals, "SELECT * FROM form_103_totals WHERE document_id = $1", documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoDecodedRecord
		}
		return nil, fmt.Errorf("recordRepo.GetForm103 totals: %w", err)
	}

	items := []domain.Form103LineItem{}
	err = r.db.SelectContext(ctx, &items,
		"SELECT * FROM form_103_line_items WHERE document_id = $1 ORDER BY order_index", documentID)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.GetForm103 line items: %w", err)
	}
	return &domain.Form103Record{LineItems: items, Totals: totals}, nil
}

func (r *recordRepo) GetForm104(ctx context.Context, documentID uuid.UUID) (*domain.Form104Record, error) {
	var rec domain.Form104Record
	err := r.db.GetContext(ctx, &rec, "SELECT * FROM form_104_records WHERE document_id = $1", documentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNoDecodedRecord
		}
		return nil, fmt.Errorf("recordRepo.GetForm104: %w", err)
	}

	rec.Withholdings = []domain.Form104Withholding{}
	err = r.db.SelectContext(ctx, &rec.Withholdings,
		"SELECT * FROM form_104_withholdings WHERE document_id = $1 ORDER BY percentage", documentID)
	if err != nil {
		return nil, fmt.Errorf("recordRepo.GetForm104 withholdings: %w", err)
	}
	return &rec, nil
}
