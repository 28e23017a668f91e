package billing

import "time"

type CreateDocumentRequest struct {
	Kind            DocumentKind        `json:"kind" validate:"required,oneof=INVOICE QUOTATION"`
	BillerInfo      Party               `json:"biller_info" validate:"required"`
	Client          Party               `json:"client" validate:"required"`
	ShippingAddress *Party              `json:"shipping_address,omitempty"`
	IsInterState    bool                `json:"is_inter_state"`
	IssueDate       time.Time           `json:"issue_date" validate:"required"`
	DueDate         time.Time           `json:"due_date" validate:"required"`
	Notes           *string             `json:"notes,omitempty"`
	Terms           *string             `json:"terms,omitempty"`
	PaymentInfo     *PaymentDetails     `json:"payment_info,omitempty"`
	LineItems       []CreateLineItemReq `json:"line_items" validate:"required,min=1,dive"`
}

type CreateLineItemReq struct {
	ProductName        string  `json:"product_name" validate:"required,max=200"`
	Quantity           float64 `json:"quantity" validate:"required,gt=0"`
	Rate               float64 `json:"rate" validate:"gte=0"`
	DiscountPercentage float64 `json:"discount_percentage" validate:"gte=0,lte=100"`
	TaxRate            float64 `json:"tax_rate" validate:"gte=0"`
}

type UpdateDocumentRequest struct {
	BillerInfo      *Party               `json:"biller_info,omitempty"`
	Client          *Party               `json:"client,omitempty"`
	ShippingAddress *Party               `json:"shipping_address,omitempty"`
	IsInterState    *bool                `json:"is_inter_state,omitempty"`
	IssueDate       *time.Time           `json:"issue_date,omitempty"`
	DueDate         *time.Time           `json:"due_date,omitempty"`
	Notes           *string              `json:"notes,omitempty"`
	Terms           *string              `json:"terms,omitempty"`
	PaymentInfo     *PaymentDetails      `json:"payment_info,omitempty"`
	LineItems       *[]CreateLineItemReq `json:"line_items,omitempty" validate:"omitempty,min=1,dive"`
}

type ListDocumentsRequest struct {
	Kind   *DocumentKind   `json:"kind,omitempty"`
	Status *DocumentStatus `json:"status,omitempty"`
	Limit  int             `json:"limit" validate:"gte=0,lte=500"`
	Offset int             `json:"offset" validate:"gte=0"`
}
