package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidStatus = errors.New("invalid status transition")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req CreateDocumentRequest) (*InvoiceDocument, error) {
	now := time.Now().UTC()
	doc := InvoiceDocument{
		ID:              uuid.NewString(),
		Kind:            req.Kind,
		BillerInfo:      req.BillerInfo,
		Client:          req.Client,
		ShippingAddress: req.ShippingAddress,
		IsInterState:    req.IsInterState,
		Status:          StatusDraft,
		Notes:           req.Notes,
		Terms:           req.Terms,
		PaymentInfo:     req.PaymentInfo,
		IssueDate:       req.IssueDate,
		DueDate:         req.DueDate,
		CreatedAt:       now,
		UpdatedAt:       now,
		LineItems:       buildLines(req.LineItems),
	}

	computed, err := ComputeDocument(doc)
	if err != nil {
		return nil, err
	}

	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		number, err := repo.NextDocNumber(ctx, computed.Kind, computed.IssueDate.Year())
		if err != nil {
			return err
		}
		computed.DocNumber = number
		return repo.Create(ctx, computed)
	})
	if err != nil {
		return nil, err
	}
	return &computed, nil
}

func (s *Service) Get(ctx context.Context, id string) (*InvoiceDocument, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, req ListDocumentsRequest) ([]InvoiceDocument, int, error) {
	return s.repo.List(ctx, req)
}

// Update merges the patch into the stored document and recomputes every
// derived amount before persisting. Only DRAFT documents may change.
func (s *Service) Update(ctx context.Context, id string, req UpdateDocumentRequest) (*InvoiceDocument, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	if existing.Status != StatusDraft {
		return nil, fmt.Errorf("%w: only draft documents can be updated", ErrInvalidStatus)
	}

	doc := *existing
	if req.BillerInfo != nil {
		doc.BillerInfo = *req.BillerInfo
	}
	if req.Client != nil {
		doc.Client = *req.Client
	}
	if req.ShippingAddress != nil {
		doc.ShippingAddress = req.ShippingAddress
	}
	if req.IsInterState != nil {
		doc.IsInterState = *req.IsInterState
	}
	if req.IssueDate != nil {
		doc.IssueDate = *req.IssueDate
	}
	if req.DueDate != nil {
		doc.DueDate = *req.DueDate
	}
	if req.Notes != nil {
		doc.Notes = req.Notes
	}
	if req.Terms != nil {
		doc.Terms = req.Terms
	}
	if req.PaymentInfo != nil {
		doc.PaymentInfo = req.PaymentInfo
	}
	if req.LineItems != nil {
		doc.LineItems = buildLines(*req.LineItems)
	}

	computed, err := ComputeDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, computed); err != nil {
		return nil, err
	}
	return &computed, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id string, status DocumentStatus) error {
	doc, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	for _, allowed := range ValidStatuses(doc.Kind) {
		if status == allowed {
			return s.repo.UpdateStatus(ctx, id, status)
		}
	}
	return fmt.Errorf("%w: status %s not valid for %s", ErrInvalidStatus, status, doc.Kind)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func buildLines(reqs []CreateLineItemReq) []LineItem {
	lines := make([]LineItem, len(reqs))
	for i, lr := range reqs {
		lines[i] = LineItem{
			ID:                 uuid.NewString(),
			ProductName:        lr.ProductName,
			Quantity:           lr.Quantity,
			Rate:               lr.Rate,
			DiscountPercentage: lr.DiscountPercentage,
			TaxRate:            lr.TaxRate,
		}
	}
	return lines
}
