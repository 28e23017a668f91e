package template

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var (
	ErrSectionNotFound    = errors.New("section not found")
	ErrColumnNotFound     = errors.New("column not found")
	ErrNoLineItemsSection = errors.New("template has no line items section")
)

// SectionPatch carries partial updates for a section. Nil fields are left
// untouched.
type SectionPatch struct {
	Type    *SectionType  `json:"type,omitempty"`
	Title   *string       `json:"title,omitempty"`
	Visible *bool         `json:"visible,omitempty"`
	Style   *SectionStyle `json:"style,omitempty"`
	Fields  *[]string     `json:"fields,omitempty"`
}

// ColumnPatch carries partial updates for a line-items column.
type ColumnPatch struct {
	Label   *string       `json:"label,omitempty"`
	Field   *ColumnField  `json:"field,omitempty"`
	Width   *float64      `json:"width,omitempty" validate:"omitempty,gte=5,lte=50"`
	Align   *Alignment    `json:"align,omitempty"`
	Visible *bool         `json:"visible,omitempty"`
	Format  *ColumnFormat `json:"format,omitempty"`
}

// AddSection appends a default notes section at position N+1.
func AddSection(t InvoiceTemplate) InvoiceTemplate {
	out := t.Clone()
	out.Sections = append(out.Sections, TemplateSection{
		ID:       uuid.NewString(),
		Type:     SectionNotes,
		Title:    "New Section",
		Visible:  true,
		Position: len(out.Sections) + 1,
		Style:    defaultSectionStyle(),
	})
	return out
}

// UpdateSection merges the patch into the matching section.
func UpdateSection(t InvoiceTemplate, sectionID string, patch SectionPatch) (InvoiceTemplate, error) {
	out := t.Clone()
	idx := sectionIndex(out, sectionID)
	if idx < 0 {
		return InvoiceTemplate{}, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	sec := &out.Sections[idx]
	if patch.Type != nil {
		sec.Type = *patch.Type
	}
	if patch.Title != nil {
		sec.Title = *patch.Title
	}
	if patch.Visible != nil {
		sec.Visible = *patch.Visible
	}
	if patch.Style != nil {
		sec.Style = *patch.Style
	}
	if patch.Fields != nil {
		sec.Fields = append([]string(nil), (*patch.Fields)...)
	}
	return out, nil
}

// RemoveSection deletes the section and renormalizes the remaining
// positions to {1..N}, preserving relative order.
func RemoveSection(t InvoiceTemplate, sectionID string) (InvoiceTemplate, error) {
	out := t.Clone()
	idx := sectionIndex(out, sectionID)
	if idx < 0 {
		return InvoiceTemplate{}, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}
	out.Sections = append(out.Sections[:idx], out.Sections[idx+1:]...)
	renormalize(out.Sections)
	return out, nil
}

// AddColumn appends a default custom column to the first lineItems section.
func AddColumn(t InvoiceTemplate) (InvoiceTemplate, error) {
	out := t.Clone()
	sec := out.LineItemsSection()
	if sec == nil {
		return InvoiceTemplate{}, ErrNoLineItemsSection
	}
	sec.Columns = append(sec.Columns, TemplateColumn{
		ID:      uuid.NewString(),
		Label:   "New Column",
		Field:   FieldCustom,
		Width:   10,
		Align:   AlignLeft,
		Visible: true,
		Format:  FormatText,
	})
	return out, nil
}

// UpdateColumn merges the patch into the matching column of the first
// lineItems section.
func UpdateColumn(t InvoiceTemplate, columnID string, patch ColumnPatch) (InvoiceTemplate, error) {
	out := t.Clone()
	sec := out.LineItemsSection()
	if sec == nil {
		return InvoiceTemplate{}, ErrNoLineItemsSection
	}
	idx := columnIndex(sec.Columns, columnID)
	if idx < 0 {
		return InvoiceTemplate{}, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}
	col := &sec.Columns[idx]
	if patch.Label != nil {
		col.Label = *patch.Label
	}
	if patch.Field != nil {
		col.Field = *patch.Field
	}
	if patch.Width != nil {
		col.Width = *patch.Width
	}
	if patch.Align != nil {
		col.Align = *patch.Align
	}
	if patch.Visible != nil {
		col.Visible = *patch.Visible
	}
	if patch.Format != nil {
		col.Format = *patch.Format
	}
	return out, nil
}

// RemoveColumn deletes the column from the first lineItems section.
func RemoveColumn(t InvoiceTemplate, columnID string) (InvoiceTemplate, error) {
	out := t.Clone()
	sec := out.LineItemsSection()
	if sec == nil {
		return InvoiceTemplate{}, ErrNoLineItemsSection
	}
	idx := columnIndex(sec.Columns, columnID)
	if idx < 0 {
		return InvoiceTemplate{}, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}
	sec.Columns = append(sec.Columns[:idx], sec.Columns[idx+1:]...)
	return out, nil
}

func sectionIndex(t InvoiceTemplate, sectionID string) int {
	for i := range t.Sections {
		if t.Sections[i].ID == sectionID {
			return i
		}
	}
	return -1
}

func columnIndex(cols []TemplateColumn, columnID string) int {
	for i := range cols {
		if cols[i].ID == columnID {
			return i
		}
	}
	return -1
}

// renormalize reassigns positions 1..N by current position order.
func renormalize(sections []TemplateSection) {
	sort.SliceStable(sections, func(i, j int) bool {
		return sections[i].Position < sections[j].Position
	})
	for i := range sections {
		sections[i].Position = i + 1
	}
}

func defaultSectionStyle() SectionStyle {
	return SectionStyle{
		TextColor:       "#1f2937",
		BackgroundColor: "#ffffff",
		FontSize:        12,
		FontWeight:      "normal",
		Padding:         8,
		Margin:          4,
	}
}
