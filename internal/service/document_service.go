package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"taxdecl/internal/domain"
	"taxdecl/internal/export"
	"taxdecl/internal/logging"
	"taxdecl/internal/port"
)

// DocumentRecord is a completed document together with its decoded rows.
type DocumentRecord struct {
	Document *domain.Document
	Record   *domain.DecodedRecord
}

// ExportFile is a rendered workbook ready to be sent as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// DocumentService exposes owner-scoped reads and deletes of processed documents.
type DocumentService interface {
	GetByID(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, owner domain.OwnerKey, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error)
	GetRecord(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*DocumentRecord, error)
	Export(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*ExportFile, error)
	Delete(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) error
}

type documentService struct {
	docRepo    port.DocumentRepository
	recordRepo port.RecordRepository
	storage    port.ObjectStorage
	log        logrus.FieldLogger
}

// NewDocumentService creates a new DocumentService implementation.
func NewDocumentService(
	docRepo port.DocumentRepository,
	recordRepo port.RecordRepository,
	storage port.ObjectStorage,
	logger logrus.FieldLogger,
) DocumentService {
	return &documentService{
		docRepo:    docRepo,
		recordRepo: recordRepo,
		storage:    storage,
		log:        logging.OrDefault(logger).WithField("component", "documentService"),
	}
}

func (s *documentService) GetByID(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*domain.Document, error) {
	if owner.IsZero() {
		return nil, domain.ErrMissingIdentity
	}
	return s.docRepo.GetByID(ctx, owner, id)
}

func (s *documentService) List(ctx context.Context, owner domain.OwnerKey, filter port.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	if owner.IsZero() {
		return nil, 0, domain.ErrMissingIdentity
	}
	if filter.FormType != nil && !filter.FormType.Valid() {
		return nil, 0, domain.ErrInvalidFormType
	}
	return s.docRepo.ListByOwner(ctx, owner, filter, offset, limit)
}

func (s *documentService) GetRecord(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*DocumentRecord, error) {
	doc, err := s.GetByID(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if doc.Status != domain.StatusCompleted {
		return nil, domain.ErrDocumentNotReady
	}

	rec := &domain.DecodedRecord{}
	switch doc.FormType {
	case domain.FormType103:
		rec.Form103, err = s.recordRepo.GetForm103(ctx, doc.ID)
	case domain.FormType104:
		rec.Form104, err = s.recordRepo.GetForm104(ctx, doc.ID)
	default:
		return nil, domain.ErrNoDecodedRecord
	}
	if err != nil {
		return nil, err
	}
	return &DocumentRecord{Document: doc, Record: rec}, nil
}

func (s *documentService) Export(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*ExportFile, error) {
	dr, err := s.GetRecord(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, dr.Document, dr.Record); err != nil {
		return nil, fmt.Errorf("documentService.Export: %w", err)
	}
	return &ExportFile{
		Filename:    export.Filename(dr.Document),
		ContentType: export.ContentType,
		Data:        buf.Bytes(),
	}, nil
}

// Delete removes the document and its records. The stored file is removed
// afterwards; a storage failure is logged, not returned.
func (s *documentService) Delete(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) error {
	doc, err := s.GetByID(ctx, owner, id)
	if err != nil {
		return err
	}
	if err := s.docRepo.Delete(ctx, owner, id); err != nil {
		return err
	}
	if doc.StoragePath != "" {
		if err := s.storage.Delete(ctx, doc.StoragePath); err != nil {
			s.log.WithError(err).WithField("document_id", id).Warn("removing stored file")
		}
	}
	s.log.WithField("document_id", id).Info("document deleted")
	return nil
}
