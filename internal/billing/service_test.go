package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	documents map[string]*InvoiceDocument
	counter   int

	txError     error
	createError error
}

func newMockRepository() *mockRepository {
	return &mockRepository{documents: make(map[string]*InvoiceDocument)}
}

func (m *mockRepository) WithTx(ctx context.Context, fn func(context.Context, Repository) error) error {
	if m.txError != nil {
		return m.txError
	}
	return fn(ctx, m)
}

func (m *mockRepository) Get(ctx context.Context, id string) (*InvoiceDocument, error) {
	doc, ok := m.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *doc
	return &copied, nil
}

func (m *mockRepository) List(ctx context.Context, req ListDocumentsRequest) ([]InvoiceDocument, int, error) {
	var out []InvoiceDocument
	for _, doc := range m.documents {
		if req.Kind != nil && doc.Kind != *req.Kind {
			continue
		}
		out = append(out, *doc)
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(ctx context.Context, doc InvoiceDocument) error {
	if m.createError != nil {
		return m.createError
	}
	m.documents[doc.ID] = &doc
	return nil
}

func (m *mockRepository) Update(ctx context.Context, doc InvoiceDocument) error {
	if _, ok := m.documents[doc.ID]; !ok {
		return ErrNotFound
	}
	m.documents[doc.ID] = &doc
	return nil
}

func (m *mockRepository) UpdateStatus(ctx context.Context, id string, status DocumentStatus) error {
	doc, ok := m.documents[id]
	if !ok {
		return ErrNotFound
	}
	doc.Status = status
	return nil
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.documents[id]; !ok {
		return ErrNotFound
	}
	delete(m.documents, id)
	return nil
}

func (m *mockRepository) NextDocNumber(ctx context.Context, kind DocumentKind, year int) (string, error) {
	m.counter++
	return fmt.Sprintf("INV-%d-%04d", year, m.counter), nil
}

func validCreateRequest() CreateDocumentRequest {
	return CreateDocumentRequest{
		Kind:       KindInvoice,
		BillerInfo: Party{Name: "Sharma Traders", GSTIN: "27AAPFU0939F1ZV", State: "Maharashtra"},
		Client:     Party{Name: "Patel Stores", State: "Maharashtra"},
		IssueDate:  time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:    time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC),
		LineItems: []CreateLineItemReq{
			{ProductName: "Steel Pipe", Quantity: 2, Rate: 1000, TaxRate: 18},
		},
	}
}

func TestServiceCreateComputesTotals(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	doc, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, 2000.00, doc.SubTotal)
	assert.Equal(t, 2360.00, doc.GrandTotal)
	assert.Equal(t, StatusDraft, doc.Status)
	assert.Equal(t, "INV-2026-0001", doc.DocNumber)
	assert.Len(t, repo.documents, 1)
}

func TestServiceCreateRejectsInvalidLine(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	req := validCreateRequest()
	req.LineItems[0].Quantity = 0

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidLineItem)
	assert.Empty(t, repo.documents)
}

func TestServiceUpdateRecomputes(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	doc, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	interState := true
	updated, err := svc.Update(context.Background(), doc.ID, UpdateDocumentRequest{
		IsInterState: &interState,
	})
	require.NoError(t, err)

	assert.Equal(t, 360.00, updated.TotalIGST)
	assert.Zero(t, updated.TotalCGST)
	assert.Zero(t, updated.TotalSGST)
	assert.Equal(t, 2360.00, updated.GrandTotal)
}

func TestServiceUpdateRejectsNonDraft(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	doc, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	require.NoError(t, svc.UpdateStatus(context.Background(), doc.ID, StatusSent))

	_, err = svc.Update(context.Background(), doc.ID, UpdateDocumentRequest{})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestServiceUpdateStatusValidatesPerKind(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	doc, err := svc.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	// ACCEPTED belongs to the quotation lifecycle only.
	err = svc.UpdateStatus(context.Background(), doc.ID, StatusAccepted)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	require.NoError(t, svc.UpdateStatus(context.Background(), doc.ID, StatusPaid))
	stored, err := svc.Get(context.Background(), doc.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, stored.Status)
}
