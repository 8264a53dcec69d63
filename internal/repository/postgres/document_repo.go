package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxdecl/internal/domain"
	"taxdecl/internal/port"
)

type documentRepo struct {
	db *sqlx.DB
}

// NewDocumentRepo creates a new PostgreSQL-backed DocumentRepository.
func NewDocumentRepo(db *sqlx.DB) port.DocumentRepository {
	return &documentRepo{db: db}
}

const insertDocumentSQL = `INSERT INTO documents (
	id, owner_user_id, owner_session_id, original_filename, stored_filename,
	file_size, storage_path, content_hash, form_type, extracted_text,
	total_pages, total_characters, identificacion_ruc, razon_social,
	periodo_mes, periodo_anio, periodo_mes_numero, periodo_fiscal_completo,
	fecha_recaudacion, processing_status, processing_error, parsed_data,
	uploaded_at, processed_at, updated_at
) VALUES (
	:id, :owner_user_id, :owner_session_id, :original_filename, :stored_filename,
	:file_size, :storage_path, :content_hash, :form_type, :extracted_text,
	:total_pages, :total_characters, :identificacion_ruc, :razon_social,
	:periodo_mes, :periodo_anio, :periodo_mes_numero, :periodo_fiscal_completo,
	:fecha_recaudacion, :processing_status, :processing_error, :parsed_data,
	:uploaded_at, :processed_at, :updated_at
)`

const updateDocumentSQL = `UPDATE documents SET
	form_type = :form_type, extracted_text = :extracted_text,
	total_pages = :total_pages, total_characters = :total_characters,
	identificacion_ruc = :identificacion_ruc, razon_social = :razon_social,
	periodo_mes = :periodo_mes, periodo_anio = :periodo_anio,
	periodo_mes_numero = :periodo_mes_numero, periodo_fiscal_completo = :periodo_fiscal_completo,
	fecha_recaudacion = :fecha_recaudacion, processing_status = :processing_status,
	processing_error = :processing_error, parsed_data = :parsed_data,
	processed_at = :processed_at, updated_at = :updated_at
 WHERE id = :id`

func (r *documentRepo) Create(ctx context.Context, doc *domain.Document, rec *domain.DecodedRecord) error {
	now := time.Now().UTC()
	if doc.UploadedAt.IsZero() {
		doc.UploadedAt = now
	}
	doc.UpdatedAt = now

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.NamedExecContext(ctx, insertDocumentSQL, doc); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
		return insertRecord(ctx, tx, doc.ID, rec)
	})
	if err != nil {
		return fmt.Errorf("documentRepo.Create: %w", err)
	}
	return nil
}

func (r *documentRepo) ReplaceRecord(ctx context.Context, doc *domain.Document, rec *domain.DecodedRecord) error {
	doc.UpdatedAt = time.Now().UTC()

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.NamedExecContext(ctx, updateDocumentSQL, doc)
		if err != nil {
			return fmt.Errorf("update document: %w", err)
		}
		if rows, _ := result.RowsAffected(); rows == 0 {
			return domain.ErrDocumentNotFound
		}
		for _, table := range []string{"form_103_line_items", "form_103_totals", "form_104_withholdings", "form_104_records"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE document_id = $1", doc.ID); err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return insertRecord(ctx, tx, doc.ID, rec)
	})
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return err
		}
		return fmt.Errorf("documentRepo.ReplaceRecord: %w", err)
	}
	return nil
}

func (r *documentRepo) GetByID(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*domain.Document, error) {
	clause, arg, ok := ownerClause(owner, 2)
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}

	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1 AND "+clause, id, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByID: %w", err)
	}
	return &doc, nil
}

func (r *documentRepo) GetByIDUnscoped(ctx context.Context, id uuid.UUID) (*domain.Document, error) {
	var doc domain.Document
	err := r.db.GetContext(ctx, &doc, "SELECT * FROM documents WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("documentRepo.GetByIDUnscoped: %w", err)
	}
	return &doc, nil
}

// filterClauses appends the optional filter conditions after the given args.
func filterClauses(filter port.DocumentFilter, conds []string, args []any) ([]string, []any) {
	if filter.FormType != nil {
		args = append(args, *filter.FormType)
		conds = append(conds, fmt.Sprintf("form_type = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conds = append(conds, fmt.Sprintf("processing_status = $%d", len(args)))
	}
	return conds, args
}

func (r *documentRepo) ListByOwner(ctx context.Context, owner domain.OwnerKey, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	clause, arg, ok := ownerClause(owner, 1)
	if !ok {
		return []domain.Document{}, 0, nil
	}
	conds, args := filterClauses(filter, []string{clause}, []any{arg})
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM documents WHERE "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByOwner count: %w", err)
	}

	docs := []domain.Document{}
	query := fmt.Sprintf(`SELECT * FROM documents WHERE %s
		 ORDER BY uploaded_at DESC LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	if err := r.db.SelectContext(ctx, &docs, query, append(args, limit, offset)...); err != nil {
		return nil, 0, fmt.Errorf("documentRepo.ListByOwner: %w", err)
	}
	return docs, total, nil
}

func (r *documentRepo) ListIDs(ctx context.Context, filter port.DocumentFilter) ([]uuid.UUID, error) {
	conds, args := filterClauses(filter, []string{"TRUE"}, nil)

	var ids []uuid.UUID
	query := "SELECT id FROM documents WHERE " + strings.Join(conds, " AND ") + " ORDER BY uploaded_at"
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("documentRepo.ListIDs: %w", err)
	}
	return ids, nil
}

func (r *documentRepo) Delete(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) error {
	clause, arg, ok := ownerClause(owner, 2)
	if !ok {
		return domain.ErrDocumentNotFound
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = $1 AND "+clause, id, arg)
	if err != nil {
		return fmt.Errorf("documentRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}
