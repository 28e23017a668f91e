package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billmitra/billmitra/internal/billing"
	"github.com/billmitra/billmitra/internal/template"
)

func TestRenderDefaultTemplateSample(t *testing.T) {
	tpl := template.DefaultTemplate()
	doc := SampleDocument()

	tree := Render(tpl, doc)

	require.Len(t, tree.Blocks, len(tpl.Sections))
	for i, block := range tree.Blocks {
		assert.Equal(t, tpl.Sections[i].ID, block.SectionID, "blocks follow section position order")
	}

	var table *Table
	for _, block := range tree.Blocks {
		if block.Kind == BlockTable {
			table = block.Table
		}
	}
	require.NotNil(t, table)
	require.Len(t, table.Rows, len(doc.LineItems))
	assert.Equal(t, "1", table.Rows[0][0], "serial column counts from 1")
	assert.Equal(t, "LED Panel 24W", table.Rows[0][1])
}

func TestRenderSkipsInvisibleSections(t *testing.T) {
	tpl := template.DefaultTemplate()
	for i := range tpl.Sections {
		if tpl.Sections[i].Type == template.SectionNotes {
			tpl.Sections[i].Visible = false
		}
	}

	tree := Render(tpl, SampleDocument())

	assert.Len(t, tree.Blocks, len(tpl.Sections)-1)
	for _, block := range tree.Blocks {
		assert.NotEqual(t, template.SectionNotes, block.SectionType)
	}
}

func TestRenderOrdersByPosition(t *testing.T) {
	tpl := template.InvoiceTemplate{
		Sections: []template.TemplateSection{
			{ID: "c", Type: template.SectionFooter, Visible: true, Position: 3},
			{ID: "a", Type: template.SectionHeader, Visible: true, Position: 1},
			{ID: "b", Type: template.SectionTotals, Visible: true, Position: 2},
		},
	}

	tree := Render(tpl, SampleDocument())

	require.Len(t, tree.Blocks, 3)
	assert.Equal(t, "a", tree.Blocks[0].SectionID)
	assert.Equal(t, "b", tree.Blocks[1].SectionID)
	assert.Equal(t, "c", tree.Blocks[2].SectionID)
}

func TestRenderUnknownSectionTypeBecomesPlaceholder(t *testing.T) {
	tpl := template.InvoiceTemplate{
		Sections: []template.TemplateSection{
			{ID: "x", Type: "watermark", Title: "Ignored", Visible: true, Position: 1},
		},
	}

	tree := Render(tpl, SampleDocument())

	require.Len(t, tree.Blocks, 1)
	assert.Equal(t, BlockPlaceholder, tree.Blocks[0].Kind)
	assert.Empty(t, tree.Blocks[0].Title)
	assert.Empty(t, tree.Blocks[0].Lines)
	assert.Nil(t, tree.Blocks[0].Table)
}

func TestRenderSerialColumnHonorsFormat(t *testing.T) {
	cols := []template.TemplateColumn{
		{Field: template.FieldSerial, Width: 10, Visible: true, Format: template.FormatText},
		{Field: template.FieldSerial, Width: 10, Visible: true, Format: template.FormatNumber},
	}

	tbl := renderTable(cols, SampleDocument().LineItems)

	require.NotEmpty(t, tbl.Rows)
	assert.Equal(t, "1", tbl.Rows[0][0])
	assert.Equal(t, "1.00", tbl.Rows[0][1])
}

func TestRenderColumnWidthsNormalize(t *testing.T) {
	cases := []struct {
		name   string
		widths []float64
	}{
		{"sums to 100", []float64{50, 30, 20}},
		{"under 100", []float64{10, 10, 10}},
		{"over 100", []float64{50, 50, 40}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cols := make([]template.TemplateColumn, len(tc.widths))
			for i, w := range tc.widths {
				cols[i] = template.TemplateColumn{
					Field: template.FieldAmount, Width: w, Visible: true,
					Format: template.FormatNumber,
				}
			}
			tbl := renderTable(cols, SampleDocument().LineItems)

			var sum, total float64
			for _, w := range tc.widths {
				total += w
			}
			for i, col := range tbl.Columns {
				sum += col.WidthFrac
				assert.InDelta(t, tc.widths[i]/total, col.WidthFrac, 1e-9)
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestRenderTableHiddenColumnsExcluded(t *testing.T) {
	cols := []template.TemplateColumn{
		{Label: "Item", Field: template.FieldProductName, Width: 50, Visible: true, Format: template.FormatText},
		{Label: "Secret", Field: template.FieldRate, Width: 25, Visible: false, Format: template.FormatNumber},
		{Label: "Amount", Field: template.FieldAmount, Width: 25, Visible: true, Format: template.FormatNumber},
	}

	tbl := renderTable(cols, SampleDocument().LineItems)

	require.Len(t, tbl.Columns, 2)
	assert.Equal(t, "Item", tbl.Columns[0].Label)
	assert.Equal(t, "Amount", tbl.Columns[1].Label)
	// The two visible widths split 50/25.
	assert.InDelta(t, 50.0/75.0, tbl.Columns[0].WidthFrac, 1e-9)
	for _, row := range tbl.Rows {
		assert.Len(t, row, 2)
	}
}

func TestRenderZeroWidthsSplitEqually(t *testing.T) {
	cols := []template.TemplateColumn{
		{Field: template.FieldQuantity, Visible: true, Format: template.FormatNumber},
		{Field: template.FieldRate, Visible: true, Format: template.FormatNumber},
	}

	tbl := renderTable(cols, nil)

	require.Len(t, tbl.Columns, 2)
	assert.InDelta(t, 0.5, tbl.Columns[0].WidthFrac, 1e-9)
	assert.InDelta(t, 0.5, tbl.Columns[1].WidthFrac, 1e-9)
}

func TestPartyLinesHonorAllowList(t *testing.T) {
	p := billing.Party{
		Name: "Mehta Electronics", GSTIN: "27AAACM1234B1Z5",
		Address: "221 FC Road", Phone: "+91 90000 00000",
	}

	lines := partyLines([]string{"name", "gstin"}, p)

	require.Len(t, lines, 2)
	assert.Equal(t, "Mehta Electronics", lines[0].Value)
	assert.Equal(t, "GSTIN", lines[1].Label)
}

func TestTotalsLinesFollowTaxRegime(t *testing.T) {
	doc := SampleDocument()

	intra := totalsLines(doc)
	labels := make([]string, 0, len(intra))
	for _, l := range intra {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"Sub Total", "CGST", "SGST", "Grand Total"}, labels)

	doc.IsInterState = true
	inter := totalsLines(doc)
	labels = labels[:0]
	for _, l := range inter {
		labels = append(labels, l.Label)
	}
	assert.Equal(t, []string{"Sub Total", "IGST", "Grand Total"}, labels)
}

func TestRenderIsPure(t *testing.T) {
	tpl := template.DefaultTemplate()
	doc := SampleDocument()

	first := Render(tpl, doc)
	second := Render(tpl, doc)

	assert.Equal(t, first, second)
	assert.Equal(t, template.DefaultTemplate(), tpl, "template input unchanged")
}

func TestFormatCurrencyIndianGrouping(t *testing.T) {
	cases := map[float64]string{
		0:          "₹0.00",
		999.5:      "₹999.50",
		1000:       "₹1,000.00",
		123456.78:  "₹1,23,456.78",
		1234567.89: "₹12,34,567.89",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCurrency(in))
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "18.00%", FormatPercentage(18))
	assert.Equal(t, "2.50%", FormatPercentage(2.5))
}

func TestMeasureMatchesPaintHeight(t *testing.T) {
	tree := Render(template.DefaultTemplate(), SampleDocument())

	measured := Measure(tree, 595)
	painted := Paint(tree, nopBackend{}, 595)

	assert.True(t, math.Abs(measured-painted) < 1e-9)
	assert.Greater(t, measured, 2*pageMargin)
}

type nopBackend struct{}

func (nopBackend) DrawText(x, y, w float64, text string, style TextStyle) {}
func (nopBackend) DrawRect(x, y, w, h float64, fill string)               {}
func (nopBackend) DrawTable(x, y, w float64, tbl Table, style TableStyle) float64 {
	return float64(len(tbl.Rows)+1) * style.RowHeight
}
