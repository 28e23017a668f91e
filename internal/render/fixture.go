package render

import (
	"time"

	"github.com/billmitra/billmitra/internal/billing"
)

// SampleDocument returns the deterministic fixture used for live preview
// while a template is being edited without a real document. The renderer
// makes no distinction between this and a stored document.
func SampleDocument() billing.InvoiceDocument {
	notes := "Goods once sold will not be taken back."
	terms := "Payment due within 30 days of the invoice date."
	doc := billing.InvoiceDocument{
		ID:        "sample",
		Kind:      billing.KindInvoice,
		DocNumber: "INV-2026-0042",
		BillerInfo: billing.Party{
			Name:    "Agarwal Trading Co.",
			GSTIN:   "27AABCU9603R1ZM",
			Address: "14 MG Road",
			City:    "Pune",
			State:   "Maharashtra",
			PinCode: "411001",
			Phone:   "+91 98765 43210",
			Email:   "billing@agarwaltrading.in",
		},
		Client: billing.Party{
			Name:    "Mehta Electronics",
			GSTIN:   "27AAACM1234B1Z5",
			Address: "221 FC Road",
			City:    "Pune",
			State:   "Maharashtra",
			PinCode: "411004",
		},
		IsInterState: false,
		Status:       billing.StatusDraft,
		Notes:        &notes,
		Terms:        &terms,
		PaymentInfo: &billing.PaymentDetails{
			BankName:      "State Bank of India",
			AccountNumber: "30123456789",
			IFSC:          "SBIN0001234",
			UPIID:         "agarwaltrading@sbi",
		},
		IssueDate: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		DueDate:   time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
		LineItems: []billing.LineItem{
			{ID: "s1", ProductName: "LED Panel 24W", Quantity: 10, Rate: 850, DiscountPercentage: 5, TaxRate: 18},
			{ID: "s2", ProductName: "Copper Wire 90m Coil", Quantity: 4, Rate: 2650, TaxRate: 18},
			{ID: "s3", ProductName: "Installation Service", Quantity: 1, Rate: 3500, TaxRate: 18},
		},
	}
	computed, err := billing.ComputeDocument(doc)
	if err != nil {
		// The fixture inputs are constants; a failure here is a programming error.
		panic(err)
	}
	return computed
}
