package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"taxdecl/internal/domain"
	"taxdecl/internal/lock"
	"taxdecl/internal/logging"
	"taxdecl/internal/port"
	"taxdecl/internal/service"
)

// memoryStore is an in-memory DocumentRepository and DuplicateFinder so a
// sequence of Process calls observes its own earlier writes.
type memoryStore struct {
	mu      sync.Mutex
	docs    []*domain.Document
	records map[uuid.UUID]*domain.DecodedRecord
	creates int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: map[uuid.UUID]*domain.DecodedRecord{}}
}

func (m *memoryStore) Create(_ context.Context, doc *domain.Document, rec *domain.DecodedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	stored := *doc
	m.docs = append(m.docs, &stored)
	if rec != nil {
		m.records[doc.ID] = rec
	}
	return nil
}

func (m *memoryStore) ReplaceRecord(_ context.Context, doc *domain.Document, rec *domain.DecodedRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs {
		if d.ID == doc.ID {
			stored := *doc
			m.docs[i] = &stored
			delete(m.records, doc.ID)
			if rec != nil {
				m.records[doc.ID] = rec
			}
			return nil
		}
	}
	return domain.ErrDocumentNotFound
}

func (m *memoryStore) GetByID(ctx context.Context, owner domain.OwnerKey, id uuid.UUID) (*domain.Document, error) {
	doc, err := m.GetByIDUnscoped(ctx, id)
	if err != nil || doc.Owner() != owner {
		return nil, domain.ErrDocumentNotFound
	}
	return doc, nil
}

func (m *memoryStore) GetByIDUnscoped(_ context.Context, id uuid.UUID) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.ID == id {
			out := *d
			return &out, nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}

func (m *memoryStore) ListByOwner(_ context.Context, owner domain.OwnerKey, _ port.DocumentFilter, _, _ int) ([]domain.Document, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Document
	for _, d := range m.docs {
		if d.Owner() == owner {
			out = append(out, *d)
		}
	}
	return out, len(out), nil
}

func (m *memoryStore) ListIDs(context.Context, port.DocumentFilter) ([]uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]uuid.UUID, len(m.docs))
	for i, d := range m.docs {
		ids[i] = d.ID
	}
	return ids, nil
}

func (m *memoryStore) Delete(_ context.Context, owner domain.OwnerKey, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, d := range m.docs {
		if d.ID == id && d.Owner() == owner {
			m.docs = append(m.docs[:i], m.docs[i+1:]...)
			delete(m.records, id)
			return nil
		}
	}
	return domain.ErrDocumentNotFound
}

func (m *memoryStore) FindDuplicate(_ context.Context, owner domain.OwnerKey, legalName, fiscalPeriod string, formType domain.FormType) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, d := range m.docs {
		if d.Owner() != owner || d.Status == domain.StatusFailed || d.FormType != formType {
			continue
		}
		if d.LegalName != nil && *d.LegalName == legalName && d.FiscalPeriod != nil && *d.FiscalPeriod == fiscalPeriod {
			out := *d
			return &out, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) recordCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

func newSequenceService(f *processingFixture, store *memoryStore) service.ProcessingService {
	return service.NewProcessingService(store, store, f.storage, f.extractor, lock.NewLocalLocker(), f.cfg, logging.Discard())
}

func TestProcess_SameUploadTwiceIsDuplicateSecondTime(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText(form103Text)
	f.storage.On("Delete", mock.Anything, mock.Anything).Return(nil)
	store := newMemoryStore()
	svc := newSequenceService(f, store)
	owner := userOwner()

	input := service.ProcessInput{Data: pdfBytes(), OriginalFilename: "declaracion.pdf", Owner: owner}

	first, err := svc.Process(context.Background(), input)
	require.NoError(t, err)
	assert.False(t, first.IsDuplicate)
	assert.Equal(t, domain.StatusCompleted, first.Document.Status)

	second, err := svc.Process(context.Background(), input)
	require.NoError(t, err)
	assert.True(t, second.IsDuplicate)
	assert.Equal(t, first.Document.ID, second.Document.ID)

	assert.Equal(t, 1, store.creates)
	assert.Equal(t, 1, store.recordCount())
	require.NotNil(t, store.records[first.Document.ID])
	assert.NotNil(t, store.records[first.Document.ID].Form103)
	f.storage.AssertNumberOfCalls(t, "Delete", 1)
}

func TestProcess_DifferentOwnersAreNotDuplicates(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText(form103Text)
	store := newMemoryStore()
	svc := newSequenceService(f, store)

	for _, owner := range []domain.OwnerKey{userOwner(), {SessionID: "browser-1"}} {
		res, err := svc.Process(context.Background(), service.ProcessInput{
			Data: pdfBytes(), OriginalFilename: "declaracion.pdf", Owner: owner,
		})
		require.NoError(t, err)
		assert.False(t, res.IsDuplicate)
	}
	assert.Equal(t, 2, store.recordCount())
}

func TestProcess_ConcurrentSameUploadStoresOnce(t *testing.T) {
	f := newProcessingFixture()
	f.expectUpload()
	f.expectText(form104Text)
	f.storage.On("Delete", mock.Anything, mock.Anything).Return(nil)
	store := newMemoryStore()
	svc := newSequenceService(f, store)
	owner := domain.OwnerKey{SessionID: "browser-2"}

	const attempts = 4
	results := make([]*service.ProcessResult, attempts)
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = svc.Process(context.Background(), service.ProcessInput{
				Data: pdfBytes(), OriginalFilename: "iva.pdf", Owner: owner,
			})
		}()
	}
	wg.Wait()

	var fresh int
	var id uuid.UUID
	for i := range attempts {
		require.NoError(t, errs[i])
		if !results[i].IsDuplicate {
			fresh++
			id = results[i].Document.ID
		}
	}
	assert.Equal(t, 1, fresh)
	for i := range attempts {
		assert.Equal(t, id, results[i].Document.ID)
	}
	assert.Equal(t, 1, store.creates)
	assert.Equal(t, 1, store.recordCount())
}
