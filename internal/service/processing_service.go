package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"

	"taxdecl/internal/classifier"
	"taxdecl/internal/config"
	"taxdecl/internal/decoder"
	"taxdecl/internal/domain"
	"taxdecl/internal/header"
	"taxdecl/internal/logging"
	"taxdecl/internal/port"
)

// failureWriteTimeout bounds the write that records a FAILED document after
// the request context is already done.
const failureWriteTimeout = 5 * time.Second

// ProcessInput is one uploaded file plus the identity it belongs to.
type ProcessInput struct {
	Data             []byte
	OriginalFilename string
	SizeBytes        int64
	Owner            domain.OwnerKey
	AllowDuplicates  bool
}

// ProcessResult is the terminal document of an attempt. When IsDuplicate is
// set, Document is the earlier upload and nothing new was stored.
type ProcessResult struct {
	Document    *domain.Document
	IsDuplicate bool
}

// BatchItem is the outcome of one file of a bulk upload.
type BatchItem struct {
	Filename string
	Result   *ProcessResult
	Err      error
}

// ProcessingService runs uploaded declarations through extraction,
// classification, header extraction, duplicate detection and decoding.
type ProcessingService interface {
	Process(ctx context.Context, input ProcessInput) (*ProcessResult, error)
	ProcessBatch(ctx context.Context, inputs []ProcessInput) ([]BatchItem, error)
	Reprocess(ctx context.Context, docID uuid.UUID) (*domain.Document, error)
}

type processingService struct {
	docRepo    port.DocumentRepository
	dupFinder  port.DuplicateFinder
	storage    port.ObjectStorage
	extractor  port.TextExtractor
	locker     port.OwnerLocker
	classifier *classifier.Classifier
	cfg        config.ProcessingConfig
	maxSize    int64
	log        logrus.FieldLogger
}

// NewProcessingService creates a new ProcessingService implementation.
func NewProcessingService(
	docRepo port.DocumentRepository,
	dupFinder port.DuplicateFinder,
	storage port.ObjectStorage,
	extractor port.TextExtractor,
	locker port.OwnerLocker,
	cfg *config.Config,
	logger logrus.FieldLogger,
) ProcessingService {
	logger = logging.OrDefault(logger).WithField("component", "processingService")
	return &processingService{
		docRepo:    docRepo,
		dupFinder:  dupFinder,
		storage:    storage,
		extractor:  extractor,
		locker:     locker,
		classifier: classifier.New(logger),
		cfg:        cfg.Processing,
		maxSize:    cfg.Storage.MaxFileSizeBytes(),
		log:        logger,
	}
}

// validate applies the upload checks that reject a file before any document exists.
func (s *processingService) validate(input ProcessInput) error {
	if len(input.Data) == 0 {
		return domain.ErrEmptyFile
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(input.OriginalFilename), "."))
	if _, ok := domain.AllowedExtensions[ext]; !ok {
		return domain.ErrUnsupportedFileType
	}
	size := input.SizeBytes
	if size < int64(len(input.Data)) {
		size = int64(len(input.Data))
	}
	if s.maxSize > 0 && size > s.maxSize {
		return domain.ErrFileTooLarge
	}
	// Magic-byte check: the extension alone is not trusted.
	if _, ok := domain.AllowedContentTypes[http.DetectContentType(input.Data)]; !ok {
		return domain.ErrUnsupportedFileType
	}
	return nil
}

func (s *processingService) Process(ctx context.Context, input ProcessInput) (*ProcessResult, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	doc := s.newShell(input)
	log := s.log.WithFields(logrus.Fields{"document_id": doc.ID, "filename": input.OriginalFilename})

	_, err := s.storage.Upload(ctx, port.UploadInput{
		Key:         doc.StoragePath,
		Body:        bytes.NewReader(input.Data),
		ContentType: "application/pdf",
		Size:        int64(len(input.Data)),
	})
	if err != nil {
		log.WithError(err).Error("storing upload failed")
		return nil, domain.ErrUploadFailed
	}

	if err := doc.Transition(domain.StatusProcessing); err != nil {
		return nil, fmt.Errorf("processingService.Process: %w", err)
	}

	var extraction *port.Extraction
	err = runWithin(ctx, func() (err error) {
		extraction, err = s.extractor.Extract(input.Data)
		return err
	})
	if err != nil {
		log.WithError(err).Warn("text extraction failed")
		return s.fail(ctx, doc, err)
	}
	doc.ExtractedText = extraction.Text
	doc.TotalPages = extraction.TotalPages
	doc.TotalCharacters = extraction.TotalCharacters

	doc.FormType = s.classifier.Classify(doc.ExtractedText, input.OriginalFilename)
	hdr := header.Extract(doc.ExtractedText)
	doc.ApplyHeader(hdr)

	if s.checksDuplicates(input, hdr) {
		unlock, err := s.locker.Lock(ctx, input.Owner.String())
		if err != nil {
			log.WithError(err).Warn("owner lock not obtained")
			return s.fail(ctx, doc, err)
		}
		// Held until the new document is committed so a concurrent upload of
		// the same declaration observes it.
		defer unlock()

		existing, err := s.dupFinder.FindDuplicate(ctx, input.Owner, *hdr.LegalName, *hdr.FiscalPeriod, doc.FormType)
		if err != nil {
			return s.fail(ctx, doc, err)
		}
		if existing != nil {
			log.WithField("existing_id", existing.ID).Info("duplicate declaration, returning existing document")
			s.discardObject(ctx, doc.StoragePath)
			return &ProcessResult{Document: existing, IsDuplicate: true}, nil
		}
	}

	var rec *domain.DecodedRecord
	err = runWithin(ctx, func() (err error) {
		rec, err = decode(doc.FormType, doc.ExtractedText)
		return err
	})
	if err != nil {
		log.WithError(err).Error("decoding failed")
		return s.fail(ctx, doc, err)
	}

	if err := s.complete(doc, hdr, rec); err != nil {
		return s.fail(ctx, doc, err)
	}
	if err := s.docRepo.Create(ctx, doc, rec); err != nil {
		log.WithError(err).Error("persisting document failed")
		// The transaction rolled back; the failure is recorded on a fresh write.
		doc.Status = domain.StatusProcessing
		return s.fail(ctx, doc, err)
	}

	log.WithField("form_type", doc.FormType).Info("document processed")
	return &ProcessResult{Document: doc}, nil
}

func (s *processingService) checksDuplicates(input ProcessInput, hdr domain.Header) bool {
	return !input.AllowDuplicates &&
		!input.Owner.IsZero() &&
		hdr.LegalName != nil &&
		hdr.FiscalPeriod != nil
}

func (s *processingService) newShell(input ProcessInput) *domain.Document {
	id := uuid.New()
	sum := blake2b.Sum256(input.Data)
	stored := id.String() + ".pdf"

	doc := &domain.Document{
		ID:               id,
		OriginalFilename: input.OriginalFilename,
		StoredFilename:   stored,
		FileSize:         int64(len(input.Data)),
		StoragePath:      "documents/" + stored,
		ContentHash:      hex.EncodeToString(sum[:]),
		FormType:         domain.FormTypeUnknown,
		Status:           domain.StatusPending,
		UploadedAt:       time.Now().UTC(),
	}
	doc.SetOwner(input.Owner)
	return doc
}

// complete stamps the parsed payload and moves doc to COMPLETED.
func (s *processingService) complete(doc *domain.Document, hdr domain.Header, rec *domain.DecodedRecord) error {
	payload, err := json.Marshal(domain.ParsedPayload{FormType: doc.FormType, Header: hdr, Record: rec})
	if err != nil {
		return fmt.Errorf("encoding parsed payload: %w", err)
	}
	doc.ParsedData = domain.JSONPayload(payload)
	doc.ProcessingError = nil
	now := time.Now().UTC()
	doc.ProcessedAt = &now
	return doc.Transition(domain.StatusCompleted)
}

// fail records doc as FAILED without child rows. An error is returned only
// when even that write fails.
func (s *processingService) fail(ctx context.Context, doc *domain.Document, cause error) (*ProcessResult, error) {
	msg := failureMessage(cause)
	doc.ProcessingError = &msg
	doc.ParsedData = nil
	now := time.Now().UTC()
	doc.ProcessedAt = &now
	if err := doc.Transition(domain.StatusFailed); err != nil {
		return nil, fmt.Errorf("processingService.fail: %w", err)
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureWriteTimeout)
	defer cancel()
	if err := s.docRepo.Create(wctx, doc, nil); err != nil {
		s.log.WithError(err).WithField("document_id", doc.ID).Error("recording failed document")
		return nil, fmt.Errorf("processingService.Process: %w", errors.Join(cause, err))
	}
	return &ProcessResult{Document: doc}, nil
}

func (s *processingService) discardObject(ctx context.Context, key string) {
	dctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureWriteTimeout)
	defer cancel()
	if err := s.storage.Delete(dctx, key); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("removing duplicate upload from storage")
	}
}

func (s *processingService) ProcessBatch(ctx context.Context, inputs []ProcessInput) ([]BatchItem, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrEmptyFile
	}
	if len(inputs) > s.cfg.BulkMaxFiles {
		return nil, domain.ErrTooManyFiles
	}

	items := make([]BatchItem, len(inputs))
	var g errgroup.Group
	g.SetLimit(max(s.cfg.BulkConcurrency, 1))
	for i, input := range inputs {
		g.Go(func() error {
			res, err := s.Process(ctx, input)
			items[i] = BatchItem{Filename: input.OriginalFilename, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	s.log.WithField("files", len(inputs)).Info("bulk upload processed")
	return items, nil
}

func (s *processingService) Reprocess(ctx context.Context, docID uuid.UUID) (*domain.Document, error) {
	doc, err := s.docRepo.GetByIDUnscoped(ctx, docID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()
	log := s.log.WithField("document_id", doc.ID)

	// Reprocessing restarts the state machine from the top.
	doc.Status = domain.StatusPending
	if err := doc.Transition(domain.StatusProcessing); err != nil {
		return nil, fmt.Errorf("processingService.Reprocess: %w", err)
	}

	if doc.ExtractedText == "" {
		if err := s.reextract(ctx, doc); err != nil {
			log.WithError(err).Warn("re-extraction failed")
			return s.failReplace(ctx, doc, err)
		}
	}

	doc.FormType = s.classifier.Classify(doc.ExtractedText, doc.OriginalFilename)
	hdr := header.Extract(doc.ExtractedText)
	doc.ApplyHeader(hdr)

	var rec *domain.DecodedRecord
	err = runWithin(ctx, func() (err error) {
		rec, err = decode(doc.FormType, doc.ExtractedText)
		return err
	})
	if err == nil {
		err = s.complete(doc, hdr, rec)
	}
	if err == nil {
		err = s.docRepo.ReplaceRecord(ctx, doc, rec)
		if err != nil {
			doc.Status = domain.StatusProcessing
		}
	}
	if err != nil {
		log.WithError(err).Error("reprocessing failed")
		return s.failReplace(ctx, doc, err)
	}

	log.WithField("form_type", doc.FormType).Info("document reprocessed")
	return doc, nil
}

func (s *processingService) reextract(ctx context.Context, doc *domain.Document) error {
	data, err := s.storage.Download(ctx, doc.StoragePath)
	if err != nil {
		return fmt.Errorf("downloading %s: %w", doc.StoragePath, err)
	}
	var extraction *port.Extraction
	err = runWithin(ctx, func() (err error) {
		extraction, err = s.extractor.Extract(data)
		return err
	})
	if err != nil {
		return err
	}
	doc.ExtractedText = extraction.Text
	doc.TotalPages = extraction.TotalPages
	doc.TotalCharacters = extraction.TotalCharacters
	return nil
}

// failReplace is fail for documents that already exist: child rows are
// cleared and the FAILED status is written in place.
func (s *processingService) failReplace(ctx context.Context, doc *domain.Document, cause error) (*domain.Document, error) {
	msg := failureMessage(cause)
	doc.ProcessingError = &msg
	doc.ParsedData = nil
	now := time.Now().UTC()
	doc.ProcessedAt = &now
	if err := doc.Transition(domain.StatusFailed); err != nil {
		return nil, fmt.Errorf("processingService.Reprocess: %w", err)
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), failureWriteTimeout)
	defer cancel()
	if err := s.docRepo.ReplaceRecord(wctx, doc, nil); err != nil {
		return nil, fmt.Errorf("processingService.Reprocess: %w", errors.Join(cause, err))
	}
	return doc, nil
}

func failureMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrProcessingDeadline.Error()
	}
	return err.Error()
}

// decode runs the decoder matching formType. Unknown documents carry no record.
func decode(formType domain.FormType, text string) (rec *domain.DecodedRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decoding %s: %v", formType, r)
		}
	}()

	switch formType {
	case domain.FormType103:
		return &domain.DecodedRecord{Form103: decoder.DecodeForm103(text)}, nil
	case domain.FormType104:
		return &domain.DecodedRecord{Form104: decoder.DecodeForm104(text)}, nil
	default:
		return nil, nil
	}
}

// runWithin runs fn and gives up when ctx ends first. fn keeps running in the
// background in that case; its result is discarded.
func runWithin(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done := make(chan error, 1)
	go func() { done <- fn() }()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}
