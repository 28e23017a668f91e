// Package template holds the invoice template schema and the pure
// operations that edit it. Every operation takes a template value and
// returns a new one; nothing here mutates its input or touches storage.
package template

import "time"

// SectionType is the closed set of template block kinds.
type SectionType string

const (
	SectionHeader     SectionType = "header"
	SectionBillerInfo SectionType = "billerInfo"
	SectionClientInfo SectionType = "clientInfo"
	SectionLineItems  SectionType = "lineItems"
	SectionTotals     SectionType = "totals"
	SectionNotes      SectionType = "notes"
	SectionTerms      SectionType = "terms"
	SectionPayment    SectionType = "payment"
	SectionFooter     SectionType = "footer"
)

// KnownSectionTypes is used by validation; the renderer treats anything
// else as a placeholder instead of failing.
var KnownSectionTypes = []SectionType{
	SectionHeader, SectionBillerInfo, SectionClientInfo, SectionLineItems,
	SectionTotals, SectionNotes, SectionTerms, SectionPayment, SectionFooter,
}

// ColumnField selects what a line-items column displays.
type ColumnField string

const (
	FieldSerial      ColumnField = "serial"
	FieldProductName ColumnField = "productName"
	FieldQuantity    ColumnField = "quantity"
	FieldRate        ColumnField = "rate"
	FieldDiscount    ColumnField = "discountPercentage"
	FieldTaxRate     ColumnField = "taxRate"
	FieldAmount      ColumnField = "amount"
	FieldCGST        ColumnField = "cgst"
	FieldSGST        ColumnField = "sgst"
	FieldIGST        ColumnField = "igst"
	FieldTotalAmount ColumnField = "totalAmount"
	FieldCustom      ColumnField = "custom"
)

type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

type ColumnFormat string

const (
	FormatText       ColumnFormat = "text"
	FormatNumber     ColumnFormat = "number"
	FormatCurrency   ColumnFormat = "currency"
	FormatPercentage ColumnFormat = "percentage"
)

// SectionStyle carries the per-section presentation attributes.
type SectionStyle struct {
	TextColor       string `json:"text_color"`
	BackgroundColor string `json:"background_color"`
	FontSize        int    `json:"font_size"`
	FontWeight      string `json:"font_weight"`
	Padding         int    `json:"padding"`
	Margin          int    `json:"margin"`
}

// TemplateSection is one configurable block. Position is 1-based and
// contiguous across the template's sections. Fields is an allow-list of
// document fields a block may surface; it is ignored by lineItems
// sections, which use Columns instead.
type TemplateSection struct {
	ID       string           `json:"id"`
	Type     SectionType      `json:"type"`
	Title    string           `json:"title"`
	Visible  bool             `json:"visible"`
	Position int              `json:"position"`
	Style    SectionStyle     `json:"style"`
	Fields   []string         `json:"fields,omitempty"`
	Columns  []TemplateColumn `json:"columns,omitempty"`
}

// TemplateColumn is one field of the line-items table. Order is the array
// order; Width is a percentage between 5 and 50 and need not sum to 100
// across columns (the renderer normalizes).
type TemplateColumn struct {
	ID      string       `json:"id"`
	Label   string       `json:"label"`
	Field   ColumnField  `json:"field"`
	Width   float64      `json:"width"`
	Align   Alignment    `json:"align"`
	Visible bool         `json:"visible"`
	Format  ColumnFormat `json:"format"`
}

type TemplateStyle struct {
	PrimaryColor    string `json:"primary_color"`
	SecondaryColor  string `json:"secondary_color"`
	BackgroundColor string `json:"background_color"`
	TextColor       string `json:"text_color"`
	FontFamily      string `json:"font_family"`
	FontSize        int    `json:"font_size"`
	LogoPosition    string `json:"logo_position"`
	LogoSize        string `json:"logo_size"`
	Spacing         string `json:"spacing"`      // compact | normal | spacious
	BorderStyle     string `json:"border_style"` // none | minimal | full
}

type InvoiceTemplate struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	IsPublic    bool              `json:"is_public"`
	IsDefault   bool              `json:"is_default"`
	OwnerID     *string           `json:"owner_id,omitempty"`
	Sections    []TemplateSection `json:"sections"`
	Style       TemplateStyle     `json:"style"`
	UsageCount  int               `json:"usage_count"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// Clone returns a deep copy; the mutation operations work on copies so the
// caller's value is never aliased.
func (t InvoiceTemplate) Clone() InvoiceTemplate {
	out := t
	out.Sections = make([]TemplateSection, len(t.Sections))
	for i, s := range t.Sections {
		out.Sections[i] = s.clone()
	}
	return out
}

func (s TemplateSection) clone() TemplateSection {
	out := s
	if s.Fields != nil {
		out.Fields = append([]string(nil), s.Fields...)
	}
	if s.Columns != nil {
		out.Columns = append([]TemplateColumn(nil), s.Columns...)
	}
	return out
}

// LineItemsSection returns the first lineItems section, or nil. Templates
// with more than one render all of them but only the first is editable
// through the column operations.
func (t InvoiceTemplate) LineItemsSection() *TemplateSection {
	for i := range t.Sections {
		if t.Sections[i].Type == SectionLineItems {
			return &t.Sections[i]
		}
	}
	return nil
}
