package billing

import "time"

// DocumentKind discriminates invoices from quotations. Both share the same
// line-item and tax structure; only numbering and status sets differ.
type DocumentKind string

const (
	KindInvoice   DocumentKind = "INVOICE"
	KindQuotation DocumentKind = "QUOTATION"
)

type DocumentStatus string

// Invoice lifecycle.
const (
	StatusDraft     DocumentStatus = "DRAFT"
	StatusSent      DocumentStatus = "SENT"
	StatusPaid      DocumentStatus = "PAID"
	StatusOverdue   DocumentStatus = "OVERDUE"
	StatusCancelled DocumentStatus = "CANCELLED"
)

// Quotation lifecycle (shares DRAFT and SENT with invoices).
const (
	StatusAccepted DocumentStatus = "ACCEPTED"
	StatusDeclined DocumentStatus = "DECLINED"
	StatusExpired  DocumentStatus = "EXPIRED"
)

// ValidStatuses lists the allowed statuses per document kind.
func ValidStatuses(kind DocumentKind) []DocumentStatus {
	if kind == KindQuotation {
		return []DocumentStatus{StatusDraft, StatusSent, StatusAccepted, StatusDeclined, StatusExpired}
	}
	return []DocumentStatus{StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled}
}

// Party holds the identifying details of a biller, client or ship-to address.
type Party struct {
	Name    string `json:"name"`
	GSTIN   string `json:"gstin,omitempty"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	PinCode string `json:"pin_code,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

// PaymentDetails carries the bank/UPI particulars surfaced by a payment
// template section.
type PaymentDetails struct {
	BankName      string `json:"bank_name,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	IFSC          string `json:"ifsc,omitempty"`
	UPIID         string `json:"upi_id,omitempty"`
}

// LineItem is one billable entry. The derived fields (Amount, CGST, SGST,
// IGST, TotalAmount) are filled in by ComputeLine and must be recomputed
// whenever any input field changes.
type LineItem struct {
	ID                 string  `json:"id" db:"id"`
	ProductName        string  `json:"product_name" db:"product_name"`
	Quantity           float64 `json:"quantity" db:"quantity"`
	Rate               float64 `json:"rate" db:"rate"`
	DiscountPercentage float64 `json:"discount_percentage" db:"discount_percentage"`
	TaxRate            float64 `json:"tax_rate" db:"tax_rate"`

	Amount      float64 `json:"amount" db:"amount"`
	CGST        float64 `json:"cgst" db:"cgst"`
	SGST        float64 `json:"sgst" db:"sgst"`
	IGST        float64 `json:"igst" db:"igst"`
	TotalAmount float64 `json:"total_amount" db:"total_amount"`
}

// InvoiceDocument is a computed invoice or quotation. Totals are derived by
// ComputeDocument and satisfy GrandTotal == SubTotal + TotalCGST +
// TotalSGST + TotalIGST exactly.
type InvoiceDocument struct {
	ID              string          `json:"id" db:"id"`
	Kind            DocumentKind    `json:"kind" db:"kind"`
	DocNumber       string          `json:"doc_number" db:"doc_number"`
	BillerInfo      Party           `json:"biller_info" db:"-"`
	Client          Party           `json:"client" db:"-"`
	ShippingAddress *Party          `json:"shipping_address,omitempty" db:"-"`
	LineItems       []LineItem      `json:"line_items" db:"-"`
	IsInterState    bool            `json:"is_inter_state" db:"is_inter_state"`
	SubTotal        float64         `json:"sub_total" db:"sub_total"`
	TotalCGST       float64         `json:"total_cgst" db:"total_cgst"`
	TotalSGST       float64         `json:"total_sgst" db:"total_sgst"`
	TotalIGST       float64         `json:"total_igst" db:"total_igst"`
	GrandTotal      float64         `json:"grand_total" db:"grand_total"`
	Status          DocumentStatus  `json:"status" db:"status"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	Terms           *string         `json:"terms,omitempty" db:"terms"`
	PaymentInfo     *PaymentDetails `json:"payment_info,omitempty" db:"-"`
	IssueDate       time.Time       `json:"issue_date" db:"issue_date"`
	DueDate         time.Time       `json:"due_date" db:"due_date"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}
