package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/billmitra/billmitra/internal/billing"
	"github.com/billmitra/billmitra/internal/template"
)

// Store is the persistence surface the service and job depend on.
type Store interface {
	Insert(ctx context.Context, exp Export) error
	Get(ctx context.Context, id string) (Export, error)
	ListByDocument(ctx context.Context, documentID string, limit int) ([]Export, error)
	MarkInProgress(ctx context.Context, id string) error
	MarkReady(ctx context.Context, id, filePath string, fileSize int64, generatedAt time.Time) error
	MarkFailed(ctx context.Context, id, msg string) error
}

// DocumentSource fetches documents from the billing module.
type DocumentSource interface {
	Get(ctx context.Context, id string) (*billing.InvoiceDocument, error)
}

// TemplateSource fetches templates from the template module and records
// that one was used for an export.
type TemplateSource interface {
	Get(ctx context.Context, id string) (template.InvoiceTemplate, error)
	RecordUsage(ctx context.Context, id string) error
}

// Enqueuer submits the export task to the background queue.
type Enqueuer interface {
	EnqueueDocumentExport(ctx context.Context, exportID string) error
}

// Service accepts export requests and tracks their lifecycle. The heavy
// work (render, rasterize, compose) happens in the queue worker.
type Service struct {
	store     Store
	documents DocumentSource
	templates TemplateSource
	enqueue   Enqueuer
	now       func() time.Time
}

func NewService(store Store, documents DocumentSource, templates TemplateSource, enqueue Enqueuer) *Service {
	return &Service{
		store:     store,
		documents: documents,
		templates: templates,
		enqueue:   enqueue,
		now:       time.Now,
	}
}

// WithNow overrides the clock for deterministic tests.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Request validates both sides of the pair, records a pending export, and
// enqueues the generation task.
func (s *Service) Request(ctx context.Context, documentID, templateID string) (Export, error) {
	if _, err := s.documents.Get(ctx, documentID); err != nil {
		return Export{}, fmt.Errorf("load document: %w", err)
	}
	if _, err := s.templates.Get(ctx, templateID); err != nil {
		return Export{}, fmt.Errorf("load template: %w", err)
	}

	now := s.now().UTC()
	exp := Export{
		ID:         uuid.NewString(),
		DocumentID: documentID,
		TemplateID: templateID,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.Insert(ctx, exp); err != nil {
		return Export{}, err
	}
	if err := s.enqueue.EnqueueDocumentExport(ctx, exp.ID); err != nil {
		_ = s.store.MarkFailed(ctx, exp.ID, "enqueue: "+err.Error())
		return Export{}, fmt.Errorf("%w: enqueue: %v", ErrExportFailed, err)
	}
	// Usage tracking is advisory; a failed bump never fails the export.
	_ = s.templates.RecordUsage(ctx, templateID)
	return exp, nil
}

// Get loads a single export record.
func (s *Service) Get(ctx context.Context, id string) (Export, error) {
	return s.store.Get(ctx, id)
}

// ListForDocument returns the newest exports for a document.
func (s *Service) ListForDocument(ctx context.Context, documentID string, limit int) ([]Export, error) {
	return s.store.ListByDocument(ctx, documentID, limit)
}
