package render

import (
	"image/color"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billmitra/billmitra/internal/template"
)

func TestRenderSVGProducesDocument(t *testing.T) {
	tree := Render(template.DefaultTemplate(), SampleDocument())

	svg := RenderSVG(tree, 595)

	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))
	assert.Contains(t, svg, "viewBox=\"0 0 595")
	assert.Contains(t, svg, "Tax Invoice")
	assert.Contains(t, svg, "INV-2026-0042")
	assert.Contains(t, svg, "Grand Total")
}

func TestSVGEscapesText(t *testing.T) {
	b := NewSVGBackend(100)
	b.DrawText(0, 10, 100, "Nuts & Bolts <5mm>", TextStyle{Size: 12, Color: "#000000"})

	svg := b.Finalize(20)

	assert.Contains(t, svg, "Nuts &amp; Bolts &lt;5mm&gt;")
	assert.NotContains(t, svg, "<5mm>")
}

func TestSVGTextAlignment(t *testing.T) {
	b := NewSVGBackend(200)
	b.DrawText(0, 10, 200, "L", TextStyle{Align: template.AlignLeft})
	b.DrawText(0, 20, 200, "C", TextStyle{Align: template.AlignCenter})
	b.DrawText(0, 30, 200, "R", TextStyle{Align: template.AlignRight})

	svg := b.Finalize(40)

	assert.Contains(t, svg, "text-anchor=\"start\"")
	assert.Contains(t, svg, "text-anchor=\"middle\"")
	assert.Contains(t, svg, "text-anchor=\"end\"")
}

func TestRasterizeDrawsContent(t *testing.T) {
	tree := Render(template.DefaultTemplate(), SampleDocument())

	img := Rasterize(tree, 595, 2)

	require.NotNil(t, img)
	bounds := img.Bounds()
	assert.Equal(t, 1190, bounds.Dx(), "width supersampled 2x")
	assert.Greater(t, bounds.Dy(), 0)

	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	painted := false
	for y := bounds.Min.Y; y < bounds.Max.Y && !painted; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.RGBAAt(x, y) != white {
				painted = true
				break
			}
		}
	}
	assert.True(t, painted, "at least one non-white pixel")
}

func TestTableWithNoVisibleColumnsRenders(t *testing.T) {
	tpl := template.DefaultTemplate()
	tpl.Style.BorderStyle = "full"
	for i := range tpl.Sections {
		for j := range tpl.Sections[i].Columns {
			tpl.Sections[i].Columns[j].Visible = false
		}
	}

	tree := Render(tpl, SampleDocument())

	svg := RenderSVG(tree, 595)
	assert.True(t, strings.HasPrefix(svg, "<svg "))
	assert.True(t, strings.HasSuffix(svg, "</svg>"))

	img := Rasterize(tree, 595, 2)
	require.NotNil(t, img)
	assert.Equal(t, 1190, img.Bounds().Dx())
}

func TestParseHexColor(t *testing.T) {
	assert.Equal(t, color.RGBA{0x1d, 0x4e, 0xd8, 0xff}, parseHexColor("#1d4ed8"))
	assert.Equal(t, color.RGBA{0xff, 0xff, 0xff, 0xff}, parseHexColor("#fff"))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, parseHexColor(""))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, parseHexColor("blue"))
	assert.Equal(t, color.RGBA{0, 0, 0, 0xff}, parseHexColor("#zzzzzz"))
}

func TestSpacingFactor(t *testing.T) {
	assert.Equal(t, 0.8, spacingFactor(template.TemplateStyle{Spacing: "compact"}))
	assert.Equal(t, 1.0, spacingFactor(template.TemplateStyle{Spacing: "normal"}))
	assert.Equal(t, 1.3, spacingFactor(template.TemplateStyle{Spacing: "spacious"}))
	assert.Equal(t, 1.0, spacingFactor(template.TemplateStyle{}))
}
