package render

import (
	"fmt"
	"html/template"
	"strings"

	tmpl "github.com/billmitra/billmitra/internal/template"
)

// SVGBackend assembles the painted tree into a standalone SVG document,
// used for the on-screen preview. The viewBox height is only known once
// painting finishes, so elements accumulate in a body buffer until
// Finalize wraps them.
type SVGBackend struct {
	body  strings.Builder
	width float64
}

func NewSVGBackend(width float64) *SVGBackend {
	return &SVGBackend{width: width}
}

func (s *SVGBackend) DrawText(x, y, w float64, text string, style TextStyle) {
	anchor := "start"
	tx := x
	switch style.Align {
	case tmpl.AlignCenter:
		anchor = "middle"
		tx = x + w/2
	case tmpl.AlignRight:
		anchor = "end"
		tx = x + w
	}
	weight := "normal"
	if style.Bold {
		weight = "bold"
	}
	s.body.WriteString(fmt.Sprintf(
		"<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"%.1f\" font-weight=\"%s\" text-anchor=\"%s\">%s</text>",
		tx, y, style.Color, style.Size, weight, anchor, template.HTMLEscapeString(text)))
}

func (s *SVGBackend) DrawRect(x, y, w, h float64, fill string) {
	s.body.WriteString(fmt.Sprintf(
		"<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\"></rect>",
		x, y, w, h, fill))
}

func (s *SVGBackend) DrawTable(x, y, w float64, tbl Table, style TableStyle) float64 {
	rowH := style.RowHeight
	s.DrawRect(x, y, w, rowH, style.HeaderFill)

	cellPad := 4.0
	cx := x
	for _, col := range tbl.Columns {
		cw := col.WidthFrac * w
		s.DrawText(cx+cellPad, y+rowH-rowH/3, cw-2*cellPad, col.Label, TextStyle{
			Size: style.FontSize, Bold: true, Color: style.HeaderColor, Align: col.Align,
		})
		cx += cw
	}

	ry := y + rowH
	for _, row := range tbl.Rows {
		cx = x
		for i, cell := range row {
			cw := tbl.Columns[i].WidthFrac * w
			s.DrawText(cx+cellPad, ry+rowH-rowH/3, cw-2*cellPad, cell, TextStyle{
				Size: style.FontSize, Color: style.TextColor, Align: tbl.Columns[i].Align,
			})
			cx += cw
		}
		ry += rowH
	}

	height := float64(len(tbl.Rows)+1) * rowH
	if style.Borders != "none" && style.BorderColor != "" {
		s.strokeRect(x, y, w, height, style.BorderColor)
		if style.Borders == "full" {
			for i := 1; i <= len(tbl.Rows); i++ {
				s.line(x, y+float64(i)*rowH, x+w, y+float64(i)*rowH, style.BorderColor)
			}
			cx = x
			for i := 0; i < len(tbl.Columns)-1; i++ {
				cx += tbl.Columns[i].WidthFrac * w
				s.line(cx, y, cx, y+height, style.BorderColor)
			}
		}
	}
	return height
}

// Finalize wraps the accumulated body in an <svg> element sized to the
// painted height and returns the document.
func (s *SVGBackend) Finalize(height float64) string {
	var out strings.Builder
	out.WriteString(fmt.Sprintf(
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %.0f %.0f\" font-family=\"sans-serif\">",
		s.width, height))
	out.WriteString(s.body.String())
	out.WriteString("</svg>")
	return out.String()
}

func (s *SVGBackend) line(x1, y1, x2, y2 float64, stroke string) {
	s.body.WriteString(fmt.Sprintf(
		"<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\"></line>",
		x1, y1, x2, y2, stroke))
}

func (s *SVGBackend) strokeRect(x, y, w, h float64, stroke string) {
	s.body.WriteString(fmt.Sprintf(
		"<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"1\"></rect>",
		x, y, w, h, stroke))
}

// RenderSVG is the preview entrypoint: render, paint, finalize.
func RenderSVG(tree VisualTree, width float64) string {
	backend := NewSVGBackend(width)
	height := Paint(tree, backend, width)
	return backend.Finalize(height)
}
