package render

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	tmpl "github.com/billmitra/billmitra/internal/template"
)

// RasterBackend paints the tree into an RGBA surface. The scale factor
// supersamples the logical coordinate space (2x by default for export) so
// text stays sharp when the page is later fit-scaled into the PDF.
type RasterBackend struct {
	img   *image.RGBA
	scale float64
	face  font.Face
}

// NewRasterBackend allocates a white surface covering width x height
// logical units at the given supersampling scale.
func NewRasterBackend(width, height, scale float64) *RasterBackend {
	img := image.NewRGBA(image.Rect(0, 0, int(width*scale), int(height*scale)))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return &RasterBackend{img: img, scale: scale, face: basicfont.Face7x13}
}

// Image returns the painted surface.
func (r *RasterBackend) Image() *image.RGBA {
	return r.img
}

func (r *RasterBackend) DrawText(x, y, w float64, text string, style TextStyle) {
	col := parseHexColor(style.Color)
	drawer := &font.Drawer{
		Dst:  r.img,
		Src:  image.NewUniform(col),
		Face: r.face,
	}
	textWidth := float64(drawer.MeasureString(text) >> 6)
	px := x * r.scale
	switch style.Align {
	case tmpl.AlignCenter:
		px = (x+w/2)*r.scale - textWidth/2
	case tmpl.AlignRight:
		px = (x+w)*r.scale - textWidth
	}
	drawer.Dot = fixed.P(int(px), int(y*r.scale))
	drawer.DrawString(text)
	if style.Bold {
		// basicfont has no bold face; a 1px double strike approximates it.
		drawer.Dot = fixed.P(int(px)+1, int(y*r.scale))
		drawer.DrawString(text)
	}
}

func (r *RasterBackend) DrawRect(x, y, w, h float64, fill string) {
	rect := image.Rect(
		int(x*r.scale), int(y*r.scale),
		int((x+w)*r.scale), int((y+h)*r.scale),
	)
	draw.Draw(r.img, rect, image.NewUniform(parseHexColor(fill)), image.Point{}, draw.Src)
}

func (r *RasterBackend) DrawTable(x, y, w float64, tbl Table, style TableStyle) float64 {
	rowH := style.RowHeight
	r.DrawRect(x, y, w, rowH, style.HeaderFill)

	cellPad := 4.0
	cx := x
	for _, col := range tbl.Columns {
		cw := col.WidthFrac * w
		r.DrawText(cx+cellPad, y+rowH-rowH/3, cw-2*cellPad, col.Label, TextStyle{
			Size: style.FontSize, Bold: true, Color: style.HeaderColor, Align: col.Align,
		})
		cx += cw
	}

	ry := y + rowH
	for _, row := range tbl.Rows {
		cx = x
		for i, cell := range row {
			cw := tbl.Columns[i].WidthFrac * w
			r.DrawText(cx+cellPad, ry+rowH-rowH/3, cw-2*cellPad, cell, TextStyle{
				Size: style.FontSize, Color: style.TextColor, Align: tbl.Columns[i].Align,
			})
			cx += cw
		}
		ry += rowH
	}

	height := float64(len(tbl.Rows)+1) * rowH
	if style.Borders != "none" && style.BorderColor != "" {
		border := parseHexColor(style.BorderColor)
		r.hline(x, x+w, y, border)
		r.hline(x, x+w, y+height, border)
		r.vline(y, y+height, x, border)
		r.vline(y, y+height, x+w, border)
		if style.Borders == "full" {
			for i := 1; i <= len(tbl.Rows); i++ {
				r.hline(x, x+w, y+float64(i)*rowH, border)
			}
			cx = x
			for i := 0; i < len(tbl.Columns)-1; i++ {
				cx += tbl.Columns[i].WidthFrac * w
				r.vline(y, y+height, cx, border)
			}
		}
	}
	return height
}

func (r *RasterBackend) hline(x1, x2, y float64, col color.Color) {
	rect := image.Rect(int(x1*r.scale), int(y*r.scale), int(x2*r.scale), int(y*r.scale)+1)
	draw.Draw(r.img, rect, image.NewUniform(col), image.Point{}, draw.Src)
}

func (r *RasterBackend) vline(y1, y2, x float64, col color.Color) {
	rect := image.Rect(int(x*r.scale), int(y1*r.scale), int(x*r.scale)+1, int(y2*r.scale))
	draw.Draw(r.img, rect, image.NewUniform(col), image.Point{}, draw.Src)
}

// parseHexColor understands #rgb and #rrggbb; anything else is black.
func parseHexColor(s string) color.RGBA {
	c := color.RGBA{A: 0xff}
	if len(s) == 0 || s[0] != '#' {
		return c
	}
	hex := s[1:]
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return c
	}
	var v [3]uint8
	for i := 0; i < 3; i++ {
		hi, ok1 := hexNibble(hex[2*i])
		lo, ok2 := hexNibble(hex[2*i+1])
		if !ok1 || !ok2 {
			return c
		}
		v[i] = hi<<4 | lo
	}
	c.R, c.G, c.B = v[0], v[1], v[2]
	return c
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

// Rasterize paints the tree at the given logical width and supersampling
// scale and returns the surface, sized to the measured content height.
func Rasterize(tree VisualTree, width, scale float64) *image.RGBA {
	height := Measure(tree, width)
	backend := NewRasterBackend(width, height, scale)
	Paint(tree, backend, width)
	return backend.Image()
}
