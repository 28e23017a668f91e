package export

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/billmitra/billmitra/internal/render"
	"github.com/billmitra/billmitra/internal/template"
)

func TestFitRectPreservesAspectRatio(t *testing.T) {
	cases := []struct {
		name               string
		pageW, pageH       float64
		contentW, contentH float64
	}{
		{"tall content on A4", PageA4.Width, PageA4.Height, 595, 2400},
		{"wide content on A4", PageA4.Width, PageA4.Height, 1200, 300},
		{"square content on Letter", PageLetter.Width, PageLetter.Height, 1000, 1000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			x, y, w, h := FitRect(tc.pageW, tc.pageH, tc.contentW, tc.contentH)

			assert.InDelta(t, tc.contentW/tc.contentH, w/h, 1e-9, "no distortion")
			assert.LessOrEqual(t, w, tc.pageW+1e-9)
			assert.LessOrEqual(t, h, tc.pageH+1e-9)
			assert.InDelta(t, (tc.pageW-w)/2, x, 1e-9, "horizontally centered")
			assert.InDelta(t, (tc.pageH-h)/2, y, 1e-9, "vertically centered")
		})
	}
}

func TestFitRectNeverUpscales(t *testing.T) {
	_, _, w, h := FitRect(PageA4.Width, PageA4.Height, 100, 100)

	assert.Equal(t, 100.0, w)
	assert.Equal(t, 100.0, h)
}

func TestFitRectDegenerateContent(t *testing.T) {
	x, y, w, h := FitRect(PageA4.Width, PageA4.Height, 0, 0)

	assert.Zero(t, x)
	assert.Zero(t, y)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestComposePDFProducesSinglePageDocument(t *testing.T) {
	tree := render.Render(template.DefaultTemplate(), render.SampleDocument())
	img := render.Rasterize(tree, renderWidth, supersample)

	pdf, err := ComposePDF(context.Background(), img, PageA4)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")), "valid PDF header")
	assert.Contains(t, string(pdf), "/Count 1", "single page")
	assert.Contains(t, string(pdf), "/Subtype /Image", "embedded raster content")
}

func TestComposePDFCancelledContext(t *testing.T) {
	tree := render.Render(template.DefaultTemplate(), render.SampleDocument())
	img := render.Rasterize(tree, renderWidth, supersample)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pdf, err := ComposePDF(ctx, img, PageA4)

	assert.Nil(t, pdf, "no partial output")
	assert.ErrorIs(t, err, ErrExportFailed)
}

func TestComposePDFNilImage(t *testing.T) {
	pdf, err := ComposePDF(context.Background(), nil, PageA4)

	assert.Nil(t, pdf)
	assert.ErrorIs(t, err, ErrExportFailed)
}
