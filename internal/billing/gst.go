package billing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidLineItem wraps all line-item input validation failures.
var ErrInvalidLineItem = errors.New("invalid line item")

// validateLineInputs rejects bad numeric inputs before any computation.
func validateLineInputs(item LineItem) error {
	if item.Quantity <= 0 {
		return fmt.Errorf("%w: quantity must be greater than zero", ErrInvalidLineItem)
	}
	if item.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative", ErrInvalidLineItem)
	}
	if item.DiscountPercentage < 0 || item.DiscountPercentage > 100 {
		return fmt.Errorf("%w: discount percentage must be between 0 and 100", ErrInvalidLineItem)
	}
	if item.TaxRate < 0 {
		return fmt.Errorf("%w: tax rate must not be negative", ErrInvalidLineItem)
	}
	return nil
}

// lineAmounts computes the full-precision taxable amount and tax split for
// one line. Intra-state transactions split the tax evenly into CGST and
// SGST; inter-state transactions levy the full rate as IGST.
func lineAmounts(item LineItem, interState bool) (amount, cgst, sgst, igst float64) {
	amount = item.Quantity * item.Rate * (1 - item.DiscountPercentage/100)
	tax := amount * item.TaxRate / 100
	if interState {
		igst = tax
		return amount, 0, 0, igst
	}
	return amount, tax / 2, tax / 2, 0
}

// ComputeLine validates the line inputs and fills in the derived fields,
// rounded to two decimals. The input value is not modified.
func ComputeLine(item LineItem, interState bool) (LineItem, error) {
	if err := validateLineInputs(item); err != nil {
		return LineItem{}, err
	}
	amount, cgst, sgst, igst := lineAmounts(item, interState)
	item.Amount = round2(amount)
	item.CGST = round2(cgst)
	item.SGST = round2(sgst)
	item.IGST = round2(igst)
	item.TotalAmount = item.Amount + item.CGST + item.SGST + item.IGST
	return item, nil
}

// ComputeDocument validates every line, computes the per-line amounts and
// the aggregate totals, and returns a new document value. All intermediate
// sums are kept at full precision; rounding happens only on the final
// values, so the totals do not accumulate per-line rounding drift. If any
// line fails validation no totals are produced at all.
func ComputeDocument(doc InvoiceDocument) (InvoiceDocument, error) {
	for i, item := range doc.LineItems {
		if err := validateLineInputs(item); err != nil {
			return InvoiceDocument{}, fmt.Errorf("line %d: %w", i+1, err)
		}
	}

	var subTotal, totalCGST, totalSGST, totalIGST float64
	lines := make([]LineItem, len(doc.LineItems))
	for i, item := range doc.LineItems {
		amount, cgst, sgst, igst := lineAmounts(item, doc.IsInterState)
		subTotal += amount
		totalCGST += cgst
		totalSGST += sgst
		totalIGST += igst

		item.Amount = round2(amount)
		item.CGST = round2(cgst)
		item.SGST = round2(sgst)
		item.IGST = round2(igst)
		item.TotalAmount = item.Amount + item.CGST + item.SGST + item.IGST
		lines[i] = item
	}

	doc.LineItems = lines
	doc.SubTotal = round2(subTotal)
	doc.TotalCGST = round2(totalCGST)
	doc.TotalSGST = round2(totalSGST)
	doc.TotalIGST = round2(totalIGST)
	// Derived from the rounded components so the invariant holds exactly.
	doc.GrandTotal = doc.SubTotal + doc.TotalCGST + doc.TotalSGST + doc.TotalIGST
	return doc, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
