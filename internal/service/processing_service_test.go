package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxdecl/internal/config"
	"taxdecl/internal/domain"
	"taxdecl/internal/logging"
	"taxdecl/internal/port"
	"taxdecl/internal/service"
	"taxdecl/mocks"
)

const form103Text = `DECLARACIÓN DE RETENCIONES EN LA FUENTE DEL IMPUESTO A LA RENTA
Identificación: 1790012345001
Razón Social: ACME S.A.
Período Fiscal: ABRIL 2025
Honorarios profesionales 303 1,500.00 353 150.00
Arrendamiento de bienes inmuebles 320 0.00 370 0.00
SUBTOTAL OPERACIONES EFECTUADAS EN EL PAÍS 349 1500.00 399 150.00
TOTAL PAGADO 999 150.00
`

const form104Text = `DECLARACIÓN DEL IMPUESTO AL VALOR AGREGADO
Razón Social: ACME S.A.
Período Fiscal: MAYO 2025
VENTAS LOCALES 401 1,000.00 411 1,000.00 421 150.00
SUBTOTAL A PAGAR 620 123.45
`

type processingFixture struct {
	docRepo   *mocks.MockDocumentRepo
	dupFinder *mocks.MockDuplicateFinder
	storage   *mocks.MockObjectStorage
	extractor *mocks.MockTextExtractor
	locker    *mocks.MockOwnerLocker
	cfg       *config.Config
}

func newProcessingFixture() *processingFixture {
	return &processingFixture{
		docRepo:   new(mocks.MockDocumentRepo),
		dupFinder: new(mocks.MockDuplicateFinder),
		storage:   new(mocks.MockObjectStorage),
		extractor: new(mocks.MockTextExtractor),
		locker:    new(mocks.MockOwnerLocker),
		cfg: &config.Config{
			Storage: config.StorageConfig{Provider: "local", MaxFileSizeMB: 1},
			Processing: config.ProcessingConfig{
				Timeout:         5 * time.Second,
				BulkMaxFiles:    20,
				BulkConcurrency: 1,
			},
		},
	}
}

func (f *processingFixture) service() service.ProcessingService {
	return service.NewProcessingService(f.docRepo, f.dupFinder, f.storage, f.extractor, f.locker, f.cfg, logging.Discard())
}

func (f *processingFixture) expectUpload() {
	f.storage.On("Upload", mock.Anything, mock.AnythingOfType("port.UploadInput")).
		Return(&port.UploadOutput{Location: "documents/x.pdf"}, nil)
}

func (f *processingFixture) expectText(text string) {
	f.extractor.On("Extract", mock.Anything).
		Return(&port.Extraction{Text: text, Pages: []string{text}, TotalPages: 1, TotalCharacters: len([]rune(text))}, nil)
}

// pdfBytes is enough for magic-byte detection; extraction is mocked.
func pdfBytes() []byte {
	return []byte("%PDF-1.4 test content long enough for content type detection")
}

func userOwner() domain.OwnerKey {
	return domain.OwnerKey{UserID: uuid.New()}
}

func TestProcess_Form103_Completed(t *testing.T) {
	f := newProcessingFixture()
	owner := userOwner()
	f.expectUpload()
	f.expectText(form103Text)
	f.locker.On("Lock", mock.Anything, owner.String()).Return(nil)
	f.dupFinder.On("FindDuplicate", mock.Anything, owner, "ACME S.A.", "ABRIL 2025", domain.FormType103).Return(nil, nil)

	var stored *domain.DecodedRecord
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(2).(*domain.DecodedRecord) }).
		Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
		Owner:            owner,
	})

	require.NoError(t, err)
	assert.False(t, res.IsDuplicate)
	doc := res.Document
	assert.Equal(t, domain.StatusCompleted, doc.Status)
	assert.Equal(t, domain.FormType103, doc.FormType)
	assert.Nil(t, doc.ProcessingError)
	assert.NotNil(t, doc.ProcessedAt)
	assert.Equal(t, "ACME S.A.", *doc.LegalName)
	assert.Equal(t, "ABRIL 2025", *doc.FiscalPeriod)
	assert.Equal(t, 4, *doc.PeriodMonthNum)
	assert.Equal(t, owner.UserID, *doc.OwnerUserID)
	assert.True(t, strings.HasPrefix(doc.StoragePath, "documents/"))
	assert.Len(t, doc.ContentHash, 64)
	assert.NotEmpty(t, doc.ParsedData)

	require.NotNil(t, stored)
	require.NotNil(t, stored.Form103)
	assert.Nil(t, stored.Form104)
	assert.Len(t, stored.Form103.LineItems, 2)
	assert.Equal(t, 150.00, stored.Form103.Totals.WithholdingSubtotal)
	assert.Equal(t, 1, f.locker.Unlocked)
	f.storage.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProcess_Form104_Completed(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText(form104Text)

	var stored *domain.DecodedRecord
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).
		Run(func(args mock.Arguments) { stored = args.Get(2).(*domain.DecodedRecord) }).
		Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "iva.pdf",
		AllowDuplicates:  true,
		Owner:            userOwner(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FormType104, res.Document.FormType)
	require.NotNil(t, stored.Form104)
	assert.Equal(t, 123.45, stored.Form104.SubtotalDue)
	assert.Equal(t, 1000.00, stored.Form104.LocalTaxedGross)
	assert.Len(t, stored.Form104.Withholdings, 6)
	f.locker.AssertNotCalled(t, "Lock", mock.Anything, mock.Anything)
	f.dupFinder.AssertNotCalled(t, "FindDuplicate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_DuplicateReturnsExisting(t *testing.T) {
	f := newProcessingFixture()
	owner := userOwner()
	existing := &domain.Document{ID: uuid.New(), Status: domain.StatusCompleted, FormType: domain.FormType103}

	f.expectUpload()
	f.expectText(form103Text)
	f.locker.On("Lock", mock.Anything, owner.String()).Return(nil)
	f.dupFinder.On("FindDuplicate", mock.Anything, owner, "ACME S.A.", "ABRIL 2025", domain.FormType103).Return(existing, nil)
	f.storage.On("Delete", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "documents/")
	})).Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
		Owner:            owner,
	})

	require.NoError(t, err)
	assert.True(t, res.IsDuplicate)
	assert.Same(t, existing, res.Document)
	assert.Equal(t, domain.StatusCompleted, existing.Status)
	assert.Equal(t, 1, f.locker.Unlocked)
	f.docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	f.storage.AssertExpectations(t)
}

func TestProcess_WithoutOwnerSkipsDuplicateCheck(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText(form103Text)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, res.Document.Status)
	assert.Nil(t, res.Document.OwnerUserID)
	assert.Nil(t, res.Document.OwnerSessionID)
	f.dupFinder.AssertNotCalled(t, "FindDuplicate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_SessionOwnerUsesSessionLock(t *testing.T) {
	f := newProcessingFixture()
	owner := domain.OwnerKey{SessionID: "sess-123"}
	f.expectUpload()
	f.expectText(form103Text)
	f.locker.On("Lock", mock.Anything, "session:sess-123").Return(nil)
	f.dupFinder.On("FindDuplicate", mock.Anything, owner, "ACME S.A.", "ABRIL 2025", domain.FormType103).Return(nil, nil)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
		Owner:            owner,
	})

	require.NoError(t, err)
	assert.Equal(t, "sess-123", *res.Document.OwnerSessionID)
	f.locker.AssertExpectations(t)
}

func TestProcess_UnknownCompletesWithoutRecord(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText("CERTIFICADO DE CUMPLIMIENTO TRIBUTARIO")
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"),
		mock.MatchedBy(func(rec *domain.DecodedRecord) bool { return rec == nil })).Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "certificado.pdf",
		Owner:            userOwner(),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.FormTypeUnknown, res.Document.FormType)
	assert.Equal(t, domain.StatusCompleted, res.Document.Status)
	assert.Nil(t, res.Document.LegalName)
	f.docRepo.AssertExpectations(t)
}

func TestProcess_ExtractionFailureRecordsFailed(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.extractor.On("Extract", mock.Anything).Return(nil, domain.ErrExtraction)
	f.docRepo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Document) bool {
		return d.Status == domain.StatusFailed
	}), mock.MatchedBy(func(rec *domain.DecodedRecord) bool { return rec == nil })).Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "form103.pdf",
		Owner:            userOwner(),
	})

	require.NoError(t, err)
	doc := res.Document
	assert.Equal(t, domain.StatusFailed, doc.Status)
	require.NotNil(t, doc.ProcessingError)
	assert.Contains(t, *doc.ProcessingError, "text extraction failed")
	// Classification never ran.
	assert.Equal(t, domain.FormTypeUnknown, doc.FormType)
	f.docRepo.AssertExpectations(t)
}

func TestProcess_PersistFailureRecordsFailed(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText(form103Text)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"),
		mock.MatchedBy(func(rec *domain.DecodedRecord) bool { return rec != nil })).
		Return(errors.New("insert form 103 totals: connection reset")).Once()
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"),
		mock.MatchedBy(func(rec *domain.DecodedRecord) bool { return rec == nil })).
		Return(nil).Once()

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
		AllowDuplicates:  true,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, res.Document.Status)
	assert.Contains(t, *res.Document.ProcessingError, "connection reset")
	assert.True(t, res.Document.ParsedData.IsEmpty())
	f.docRepo.AssertExpectations(t)
}

func TestProcess_ReturnsErrorWhenNothingRecorded(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.extractor.On("Extract", mock.Anything).Return(nil, domain.ErrExtraction)
	f.docRepo.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("database down"))

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
	})

	assert.Nil(t, res)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtraction)
	assert.Contains(t, err.Error(), "database down")
}

func TestProcess_LockFailureRecordsFailed(t *testing.T) {
	f := newProcessingFixture()
	owner := userOwner()
	f.expectUpload()
	f.expectText(form103Text)
	f.locker.On("Lock", mock.Anything, owner.String()).Return(domain.ErrLockNotObtained)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
		Owner:            owner,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, res.Document.Status)
	assert.Equal(t, domain.ErrLockNotObtained.Error(), *res.Document.ProcessingError)
	assert.Equal(t, 0, f.locker.Unlocked)
}

func TestProcess_DeadlineRecordsFailed(t *testing.T) {
	f := newProcessingFixture()
	f.cfg.Processing.Timeout = 20 * time.Millisecond
	f.expectUpload()
	f.extractor.On("Extract", mock.Anything).
		Run(func(mock.Arguments) { time.Sleep(200 * time.Millisecond) }).
		Return(&port.Extraction{Text: form103Text}, nil)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).Return(nil)

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, res.Document.Status)
	assert.Equal(t, "processing deadline exceeded", *res.Document.ProcessingError)
}

func TestProcess_UploadFailure(t *testing.T) {
	f := newProcessingFixture()
	f.storage.On("Upload", mock.Anything, mock.Anything).Return(nil, errors.New("bucket missing"))

	res, err := f.service().Process(context.Background(), service.ProcessInput{
		Data:             pdfBytes(),
		OriginalFilename: "declaracion.pdf",
	})

	assert.Nil(t, res)
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything)
	f.docRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_RejectsInvalidInput(t *testing.T) {
	big := append(pdfBytes(), make([]byte, 1024*1024)...)

	tests := []struct {
		name     string
		input    service.ProcessInput
		expected error
	}{
		{"empty", service.ProcessInput{OriginalFilename: "a.pdf"}, domain.ErrEmptyFile},
		{"extension", service.ProcessInput{Data: pdfBytes(), OriginalFilename: "a.txt"}, domain.ErrUnsupportedFileType},
		{"magic bytes", service.ProcessInput{Data: []byte("plain text pretending"), OriginalFilename: "a.pdf"}, domain.ErrUnsupportedFileType},
		{"too large", service.ProcessInput{Data: big, OriginalFilename: "a.pdf"}, domain.ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newProcessingFixture()
			_, err := f.service().Process(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.expected)
			f.storage.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
		})
	}
}

func TestProcess_AllowDuplicatesDecodesConsistently(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText(form104Text)

	var records []*domain.DecodedRecord
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).
		Run(func(args mock.Arguments) { records = append(records, args.Get(2).(*domain.DecodedRecord)) }).
		Return(nil)

	svc := f.service()
	for range 2 {
		_, err := svc.Process(context.Background(), service.ProcessInput{
			Data:             pdfBytes(),
			OriginalFilename: "iva.pdf",
			AllowDuplicates:  true,
		})
		require.NoError(t, err)
	}

	require.Len(t, records, 2)
	// IDs are assigned by the repository; everything decoded must match.
	assert.Equal(t, records[0].Form104.Form104Totals, records[1].Form104.Form104Totals)
	assert.Equal(t, records[0].Form104.Form104Sales, records[1].Form104.Form104Sales)
	assert.Equal(t, records[0].Form104.Withholdings, records[1].Form104.Withholdings)
}

func TestProcessBatch_KeepsInputOrder(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText(form103Text)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).Return(nil)

	inputs := []service.ProcessInput{
		{Data: pdfBytes(), OriginalFilename: "uno.pdf", AllowDuplicates: true},
		{Data: []byte("not a pdf at all"), OriginalFilename: "dos.pdf", AllowDuplicates: true},
		{Data: pdfBytes(), OriginalFilename: "tres.pdf", AllowDuplicates: true},
	}

	items, err := f.service().ProcessBatch(context.Background(), inputs)

	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "uno.pdf", items[0].Filename)
	assert.NoError(t, items[0].Err)
	assert.Equal(t, "dos.pdf", items[1].Filename)
	assert.ErrorIs(t, items[1].Err, domain.ErrUnsupportedFileType)
	assert.Nil(t, items[1].Result)
	assert.Equal(t, "tres.pdf", items[2].Filename)
	assert.Equal(t, domain.StatusCompleted, items[2].Result.Document.Status)
}

func TestProcessBatch_Parallel(t *testing.T) {
	f := newProcessingFixture()
	f.cfg.Processing.BulkConcurrency = 4
	f.expectUpload()
	f.expectText(form104Text)
	f.docRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).Return(nil)

	inputs := make([]service.ProcessInput, 8)
	for i := range inputs {
		inputs[i] = service.ProcessInput{Data: pdfBytes(), OriginalFilename: "iva.pdf", AllowDuplicates: true}
	}

	items, err := f.service().ProcessBatch(context.Background(), inputs)

	require.NoError(t, err)
	require.Len(t, items, 8)
	for _, it := range items {
		require.NoError(t, it.Err)
		assert.Equal(t, domain.FormType104, it.Result.Document.FormType)
	}
}

func TestProcessBatch_Limits(t *testing.T) {
	f := newProcessingFixture()
	svc := f.service()

	_, err := svc.ProcessBatch(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrEmptyFile)

	_, err = svc.ProcessBatch(context.Background(), make([]service.ProcessInput, 21))
	assert.ErrorIs(t, err, domain.ErrTooManyFiles)
}

func TestReprocess_ReplacesRecord(t *testing.T) {
	f := newProcessingFixture()
	id := uuid.New()
	f.docRepo.On("GetByIDUnscoped", mock.Anything, id).Return(&domain.Document{
		ID:               id,
		OriginalFilename: "declaracion.pdf",
		ExtractedText:    form103Text,
		FormType:         domain.FormType103,
		Status:           domain.StatusCompleted,
	}, nil)

	var replaced *domain.DecodedRecord
	f.docRepo.On("ReplaceRecord", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).
		Run(func(args mock.Arguments) { replaced = args.Get(2).(*domain.DecodedRecord) }).
		Return(nil)

	doc, err := f.service().Reprocess(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, doc.Status)
	require.NotNil(t, replaced.Form103)
	assert.Len(t, replaced.Form103.LineItems, 2)
	f.extractor.AssertNotCalled(t, "Extract", mock.Anything)
}

func TestReprocess_ReextractsMissingText(t *testing.T) {
	f := newProcessingFixture()
	id := uuid.New()
	f.docRepo.On("GetByIDUnscoped", mock.Anything, id).Return(&domain.Document{
		ID:               id,
		OriginalFilename: "iva.pdf",
		StoragePath:      "documents/" + id.String() + ".pdf",
		Status:           domain.StatusFailed,
	}, nil)
	f.storage.On("Download", mock.Anything, "documents/"+id.String()+".pdf").Return(pdfBytes(), nil)
	f.expectText(form104Text)
	f.docRepo.On("ReplaceRecord", mock.Anything, mock.AnythingOfType("*domain.Document"), mock.Anything).Return(nil)

	doc, err := f.service().Reprocess(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, doc.Status)
	assert.Equal(t, domain.FormType104, doc.FormType)
	assert.Equal(t, form104Text, doc.ExtractedText)
	assert.Nil(t, doc.ProcessingError)
}

func TestReprocess_DownloadFailureRecordsFailed(t *testing.T) {
	f := newProcessingFixture()
	id := uuid.New()
	f.docRepo.On("GetByIDUnscoped", mock.Anything, id).Return(&domain.Document{
		ID: id, StoragePath: "documents/gone.pdf", Status: domain.StatusCompleted,
	}, nil)
	f.storage.On("Download", mock.Anything, "documents/gone.pdf").Return(nil, errors.New("no such key"))
	f.docRepo.On("ReplaceRecord", mock.Anything, mock.AnythingOfType("*domain.Document"),
		mock.MatchedBy(func(rec *domain.DecodedRecord) bool { return rec == nil })).Return(nil)

	doc, err := f.service().Reprocess(context.Background(), id)

	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, doc.Status)
	assert.Contains(t, *doc.ProcessingError, "no such key")
}

func TestReprocess_NotFound(t *testing.T) {
	f := newProcessingFixture()
	id := uuid.New()
	f.docRepo.On("GetByIDUnscoped", mock.Anything, id).Return(nil, domain.ErrDocumentNotFound)

	_, err := f.service().Reprocess(context.Background(), id)
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}
