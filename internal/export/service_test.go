package export

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billmitra/billmitra/internal/billing"
	"github.com/billmitra/billmitra/internal/render"
	"github.com/billmitra/billmitra/internal/template"
)

type memStore struct {
	mu      sync.Mutex
	exports map[string]Export
}

func newMemStore() *memStore {
	return &memStore{exports: make(map[string]Export)}
}

func (m *memStore) Insert(_ context.Context, exp Export) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exports[exp.ID] = exp
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.exports[id]
	if !ok {
		return Export{}, ErrExportNotFound
	}
	return exp, nil
}

func (m *memStore) ListByDocument(_ context.Context, documentID string, _ int) ([]Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Export
	for _, exp := range m.exports {
		if exp.DocumentID == documentID {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (m *memStore) MarkInProgress(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.exports[id]
	if !ok {
		return ErrExportNotFound
	}
	if exp.Status != StatusPending {
		return ErrInvalidStatus
	}
	exp.Status = StatusInProgress
	m.exports[id] = exp
	return nil
}

func (m *memStore) MarkReady(_ context.Context, id, filePath string, fileSize int64, generatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.exports[id]
	if !ok {
		return ErrExportNotFound
	}
	exp.Status = StatusReady
	exp.FilePath = filePath
	exp.FileSize = &fileSize
	exp.GeneratedAt = &generatedAt
	m.exports[id] = exp
	return nil
}

func (m *memStore) MarkFailed(_ context.Context, id, msg string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	exp, ok := m.exports[id]
	if !ok {
		return ErrExportNotFound
	}
	exp.Status = StatusFailed
	exp.ErrorMessage = msg
	m.exports[id] = exp
	return nil
}

type stubDocuments struct {
	docs map[string]billing.InvoiceDocument
}

func (s *stubDocuments) Get(_ context.Context, id string) (*billing.InvoiceDocument, error) {
	doc, ok := s.docs[id]
	if !ok {
		return nil, billing.ErrNotFound
	}
	return &doc, nil
}

type stubTemplates struct {
	templates map[string]template.InvoiceTemplate
	usage     map[string]int
}

func (s *stubTemplates) Get(_ context.Context, id string) (template.InvoiceTemplate, error) {
	tpl, ok := s.templates[id]
	if !ok {
		return template.InvoiceTemplate{}, template.ErrTemplateNotFound
	}
	return tpl, nil
}

func (s *stubTemplates) RecordUsage(_ context.Context, id string) error {
	if s.usage == nil {
		s.usage = make(map[string]int)
	}
	s.usage[id]++
	return nil
}

type stubEnqueuer struct {
	enqueued []string
	fail     error
}

func (s *stubEnqueuer) EnqueueDocumentExport(_ context.Context, exportID string) error {
	if s.fail != nil {
		return s.fail
	}
	s.enqueued = append(s.enqueued, exportID)
	return nil
}

func testFixtures() (*stubDocuments, *stubTemplates) {
	doc := render.SampleDocument()
	doc.ID = "doc-1"
	tpl := template.DefaultTemplate()
	return &stubDocuments{docs: map[string]billing.InvoiceDocument{doc.ID: doc}},
		&stubTemplates{templates: map[string]template.InvoiceTemplate{tpl.ID: tpl}}
}

func TestServiceRequestEnqueuesPendingExport(t *testing.T) {
	store := newMemStore()
	docs, templates := testFixtures()
	queue := &stubEnqueuer{}
	svc := NewService(store, docs, templates, queue)

	exp, err := svc.Request(context.Background(), "doc-1", template.DefaultTemplate().ID)

	require.NoError(t, err)
	assert.Equal(t, StatusPending, exp.Status)
	assert.Equal(t, []string{exp.ID}, queue.enqueued)
	assert.Equal(t, 1, templates.usage[template.DefaultTemplate().ID], "usage recorded")

	stored, err := store.Get(context.Background(), exp.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPending, stored.Status)
}

func TestServiceRequestUnknownDocument(t *testing.T) {
	store := newMemStore()
	docs, templates := testFixtures()
	svc := NewService(store, docs, templates, &stubEnqueuer{})

	_, err := svc.Request(context.Background(), "missing", template.DefaultTemplate().ID)

	assert.ErrorIs(t, err, billing.ErrNotFound)
	assert.Empty(t, store.exports)
}

func TestServiceRequestUnknownTemplate(t *testing.T) {
	store := newMemStore()
	docs, templates := testFixtures()
	svc := NewService(store, docs, templates, &stubEnqueuer{})

	_, err := svc.Request(context.Background(), "doc-1", "missing")

	assert.ErrorIs(t, err, template.ErrTemplateNotFound)
	assert.Empty(t, store.exports)
}

func TestServiceRequestEnqueueFailureMarksFailed(t *testing.T) {
	store := newMemStore()
	docs, templates := testFixtures()
	queue := &stubEnqueuer{fail: errors.New("redis down")}
	svc := NewService(store, docs, templates, queue)

	_, err := svc.Request(context.Background(), "doc-1", template.DefaultTemplate().ID)

	require.ErrorIs(t, err, ErrExportFailed)
	require.Len(t, store.exports, 1)
	for _, exp := range store.exports {
		assert.Equal(t, StatusFailed, exp.Status)
		assert.Contains(t, exp.ErrorMessage, "redis down")
	}
}
