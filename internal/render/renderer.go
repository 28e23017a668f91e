package render

import (
	"sort"
	"strconv"
	"time"

	"github.com/billmitra/billmitra/internal/billing"
	"github.com/billmitra/billmitra/internal/template"
)

// Render resolves a template and a document into a visual tree. It is a
// pure function: the same inputs always produce the same tree, and the
// inputs are never modified. A malformed section degrades to an empty
// placeholder block instead of failing the whole document.
func Render(tpl template.InvoiceTemplate, doc billing.InvoiceDocument) VisualTree {
	sections := make([]template.TemplateSection, 0, len(tpl.Sections))
	for _, sec := range tpl.Sections {
		if sec.Visible {
			sections = append(sections, sec)
		}
	}
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Position < sections[j].Position
	})

	tree := VisualTree{Style: tpl.Style, Blocks: make([]Block, 0, len(sections))}
	for _, sec := range sections {
		tree.Blocks = append(tree.Blocks, renderSection(sec, doc))
	}
	return tree
}

func renderSection(sec template.TemplateSection, doc billing.InvoiceDocument) Block {
	block := Block{
		SectionID:   sec.ID,
		SectionType: sec.Type,
		Title:       sec.Title,
		Style:       sec.Style,
	}
	switch sec.Type {
	case template.SectionHeader:
		block.Kind = BlockHeader
		block.Lines = documentLines(sec.Fields, doc)
	case template.SectionBillerInfo:
		block.Kind = BlockParty
		block.Lines = partyLines(sec.Fields, doc.BillerInfo)
	case template.SectionClientInfo:
		block.Kind = BlockParty
		block.Lines = partyLines(sec.Fields, doc.Client)
		if doc.ShippingAddress != nil && fieldAllowed(sec.Fields, "shippingAddress") {
			block.Lines = append(block.Lines, Line{Label: "Ship To", Value: doc.ShippingAddress.Name})
			for _, line := range partyLines(sec.Fields, *doc.ShippingAddress) {
				if line.Value != doc.ShippingAddress.Name {
					block.Lines = append(block.Lines, line)
				}
			}
		}
	case template.SectionLineItems:
		block.Kind = BlockTable
		block.Table = renderTable(sec.Columns, doc.LineItems)
	case template.SectionTotals:
		block.Kind = BlockTotals
		block.Lines = totalsLines(doc)
	case template.SectionNotes, template.SectionTerms, template.SectionPayment:
		block.Kind = BlockText
		block.Lines = documentLines(sec.Fields, doc)
	case template.SectionFooter:
		block.Kind = BlockText
	default:
		// Unknown type: keep the slot, render nothing.
		block.Kind = BlockPlaceholder
		block.Title = ""
	}
	return block
}

// renderTable builds the line-items grid from the visible columns in array
// order. Widths that do not sum to 100 are proportionally normalized so
// the rendered row always tiles the full width.
func renderTable(columns []template.TemplateColumn, items []billing.LineItem) *Table {
	visible := make([]template.TemplateColumn, 0, len(columns))
	var sum float64
	for _, col := range columns {
		if col.Visible {
			visible = append(visible, col)
			sum += col.Width
		}
	}

	tbl := &Table{Columns: make([]TableColumn, len(visible))}
	for i, col := range visible {
		frac := 1 / float64(len(visible))
		if sum > 0 {
			frac = col.Width / sum
		}
		tbl.Columns[i] = TableColumn{Label: col.Label, WidthFrac: frac, Align: col.Align}
	}

	tbl.Rows = make([][]string, len(items))
	for rowIdx, item := range items {
		row := make([]string, len(visible))
		for colIdx, col := range visible {
			text, num, numeric := cellValue(col.Field, item, rowIdx)
			row[colIdx] = formatCell(col.Format, text, num, numeric)
		}
		tbl.Rows[rowIdx] = row
	}
	return tbl
}

// cellValue resolves a column field against a line item. The row index
// backs the serial field and honors the column format like any other
// numeric cell; custom columns have no data source and resolve to an
// empty cell.
func cellValue(field template.ColumnField, item billing.LineItem, rowIdx int) (string, float64, bool) {
	switch field {
	case template.FieldSerial:
		return strconv.Itoa(rowIdx + 1), float64(rowIdx + 1), true
	case template.FieldProductName:
		return item.ProductName, 0, false
	case template.FieldQuantity:
		return FormatNumber(item.Quantity), item.Quantity, true
	case template.FieldRate:
		return FormatNumber(item.Rate), item.Rate, true
	case template.FieldDiscount:
		return FormatNumber(item.DiscountPercentage), item.DiscountPercentage, true
	case template.FieldTaxRate:
		return FormatNumber(item.TaxRate), item.TaxRate, true
	case template.FieldAmount:
		return FormatNumber(item.Amount), item.Amount, true
	case template.FieldCGST:
		return FormatNumber(item.CGST), item.CGST, true
	case template.FieldSGST:
		return FormatNumber(item.SGST), item.SGST, true
	case template.FieldIGST:
		return FormatNumber(item.IGST), item.IGST, true
	case template.FieldTotalAmount:
		return FormatNumber(item.TotalAmount), item.TotalAmount, true
	default:
		return "", 0, false
	}
}

// totalsLines surfaces only the tax components that apply to the
// document's regime.
func totalsLines(doc billing.InvoiceDocument) []Line {
	lines := []Line{{Label: "Sub Total", Value: FormatCurrency(doc.SubTotal)}}
	if doc.IsInterState {
		lines = append(lines, Line{Label: "IGST", Value: FormatCurrency(doc.TotalIGST)})
	} else {
		lines = append(lines,
			Line{Label: "CGST", Value: FormatCurrency(doc.TotalCGST)},
			Line{Label: "SGST", Value: FormatCurrency(doc.TotalSGST)},
		)
	}
	return append(lines, Line{Label: "Grand Total", Value: FormatCurrency(doc.GrandTotal)})
}

// partyLines projects only the allow-listed party fields, in a fixed
// order. Unlisted fields are omitted, never inferred.
func partyLines(fields []string, p billing.Party) []Line {
	type entry struct {
		name  string
		label string
		value string
	}
	entries := []entry{
		{"name", "", p.Name},
		{"gstin", "GSTIN", p.GSTIN},
		{"address", "", p.Address},
		{"city", "", p.City},
		{"state", "", p.State},
		{"pinCode", "PIN", p.PinCode},
		{"phone", "Phone", p.Phone},
		{"email", "Email", p.Email},
	}
	var lines []Line
	for _, e := range entries {
		if e.value == "" || !fieldAllowed(fields, e.name) {
			continue
		}
		lines = append(lines, Line{Label: e.label, Value: e.value})
	}
	return lines
}

// documentLines projects allow-listed document-level fields.
func documentLines(fields []string, doc billing.InvoiceDocument) []Line {
	type entry struct {
		name  string
		label string
		value string
	}
	entries := []entry{
		{"docNumber", documentNumberLabel(doc.Kind), doc.DocNumber},
		{"issueDate", "Date", formatDate(doc.IssueDate)},
		{"dueDate", dueDateLabel(doc.Kind), formatDate(doc.DueDate)},
		{"status", "Status", string(doc.Status)},
		{"notes", "", deref(doc.Notes)},
		{"terms", "", deref(doc.Terms)},
	}
	if doc.PaymentInfo != nil {
		entries = append(entries,
			entry{"bankName", "Bank", doc.PaymentInfo.BankName},
			entry{"accountNumber", "A/C No", doc.PaymentInfo.AccountNumber},
			entry{"ifsc", "IFSC", doc.PaymentInfo.IFSC},
			entry{"upiId", "UPI", doc.PaymentInfo.UPIID},
		)
	}
	var lines []Line
	for _, e := range entries {
		if e.value == "" || !fieldAllowed(fields, e.name) {
			continue
		}
		lines = append(lines, Line{Label: e.label, Value: e.value})
	}
	return lines
}

func documentNumberLabel(kind billing.DocumentKind) string {
	if kind == billing.KindQuotation {
		return "Quotation No"
	}
	return "Invoice No"
}

func dueDateLabel(kind billing.DocumentKind) string {
	if kind == billing.KindQuotation {
		return "Valid Until"
	}
	return "Due Date"
}

func fieldAllowed(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
