package template

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTemplate returns the built-in GST invoice layout used as the
// system default and as the base for new user templates. IDs are fixed so
// the seed is stable across restarts.
func DefaultTemplate() InvoiceTemplate {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return InvoiceTemplate{
		ID:          "00000000-0000-0000-0000-000000000001",
		Name:        "Classic GST Invoice",
		Description: "Single-column GST invoice with a standard line items table",
		IsPublic:    true,
		IsDefault:   true,
		Style: TemplateStyle{
			PrimaryColor:    "#1d4ed8",
			SecondaryColor:  "#64748b",
			BackgroundColor: "#ffffff",
			TextColor:       "#111827",
			FontFamily:      "Helvetica",
			FontSize:        12,
			LogoPosition:    "left",
			LogoSize:        "medium",
			Spacing:         "normal",
			BorderStyle:     "minimal",
		},
		Sections: []TemplateSection{
			{
				ID: "00000000-0000-0000-0001-000000000001", Type: SectionHeader,
				Title: "Tax Invoice", Visible: true, Position: 1,
				Style:  headerStyle(),
				Fields: []string{"docNumber", "issueDate", "dueDate"},
			},
			{
				ID: "00000000-0000-0000-0001-000000000002", Type: SectionBillerInfo,
				Title: "From", Visible: true, Position: 2,
				Style:  defaultSectionStyle(),
				Fields: []string{"name", "gstin", "address", "city", "state", "pinCode", "phone", "email"},
			},
			{
				ID: "00000000-0000-0000-0001-000000000003", Type: SectionClientInfo,
				Title: "Bill To", Visible: true, Position: 3,
				Style:  defaultSectionStyle(),
				Fields: []string{"name", "gstin", "address", "city", "state", "pinCode"},
			},
			{
				ID: "00000000-0000-0000-0001-000000000004", Type: SectionLineItems,
				Title: "Items", Visible: true, Position: 4,
				Style: defaultSectionStyle(),
				Columns: []TemplateColumn{
					{ID: "00000000-0000-0000-0002-000000000001", Label: "#", Field: FieldSerial, Width: 5, Align: AlignCenter, Visible: true, Format: FormatText},
					{ID: "00000000-0000-0000-0002-000000000002", Label: "Item", Field: FieldProductName, Width: 30, Align: AlignLeft, Visible: true, Format: FormatText},
					{ID: "00000000-0000-0000-0002-000000000003", Label: "Qty", Field: FieldQuantity, Width: 10, Align: AlignRight, Visible: true, Format: FormatNumber},
					{ID: "00000000-0000-0000-0002-000000000004", Label: "Rate", Field: FieldRate, Width: 15, Align: AlignRight, Visible: true, Format: FormatCurrency},
					{ID: "00000000-0000-0000-0002-000000000005", Label: "GST %", Field: FieldTaxRate, Width: 10, Align: AlignRight, Visible: true, Format: FormatPercentage},
					{ID: "00000000-0000-0000-0002-000000000006", Label: "Amount", Field: FieldAmount, Width: 30, Align: AlignRight, Visible: true, Format: FormatCurrency},
				},
			},
			{
				ID: "00000000-0000-0000-0001-000000000005", Type: SectionTotals,
				Title: "Totals", Visible: true, Position: 5,
				Style: defaultSectionStyle(),
			},
			{
				ID: "00000000-0000-0000-0001-000000000006", Type: SectionNotes,
				Title: "Notes", Visible: true, Position: 6,
				Style:  defaultSectionStyle(),
				Fields: []string{"notes"},
			},
			{
				ID: "00000000-0000-0000-0001-000000000007", Type: SectionTerms,
				Title: "Terms & Conditions", Visible: true, Position: 7,
				Style:  defaultSectionStyle(),
				Fields: []string{"terms"},
			},
			{
				ID: "00000000-0000-0000-0001-000000000008", Type: SectionFooter,
				Title: "Thank you for your business!", Visible: true, Position: 8,
				Style: footerStyle(),
			},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

// NewUserTemplate clones the default layout as a starting point for a
// user-owned template. Section and column ids are regenerated so edits to
// the copy can never collide with the seed.
func NewUserTemplate(name string, ownerID string) InvoiceTemplate {
	t := DefaultTemplate().Clone()
	t.ID = uuid.NewString()
	t.Name = name
	t.Description = ""
	t.IsPublic = false
	t.IsDefault = false
	t.OwnerID = &ownerID
	t.UsageCount = 0
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	for i := range t.Sections {
		t.Sections[i].ID = uuid.NewString()
		for j := range t.Sections[i].Columns {
			t.Sections[i].Columns[j].ID = uuid.NewString()
		}
	}
	return t
}

func headerStyle() SectionStyle {
	s := defaultSectionStyle()
	s.FontSize = 20
	s.FontWeight = "bold"
	s.TextColor = "#1d4ed8"
	return s
}

func footerStyle() SectionStyle {
	s := defaultSectionStyle()
	s.FontSize = 10
	s.TextColor = "#64748b"
	return s
}
