package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
)

// PageSize is a PDF page in typographic points.
type PageSize struct {
	Name   string
	Width  float64
	Height float64
}

var (
	PageA4     = PageSize{Name: "A4", Width: 595.28, Height: 841.89}
	PageLetter = PageSize{Name: "Letter", Width: 612, Height: 792}
)

// FitRect scales a content box to fit inside a page without distortion
// and centers it. Content taller than one page is scaled down to fit;
// there is no pagination.
func FitRect(pageW, pageH, contentW, contentH float64) (x, y, w, h float64) {
	if contentW <= 0 || contentH <= 0 {
		return 0, 0, 0, 0
	}
	ratio := pageW / contentW
	if r := pageH / contentH; r < ratio {
		ratio = r
	}
	if ratio > 1 {
		ratio = 1
	}
	w = contentW * ratio
	h = contentH * ratio
	x = (pageW - w) / 2
	y = (pageH - h) / 2
	return x, y, w, h
}

// ComposePDF embeds the rasterized content as a single centered page and
// returns the document bytes. The context is checked between the encode
// and compose stages so a cancelled export never yields partial output.
func ComposePDF(ctx context.Context, img *image.RGBA, page PageSize) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nothing rasterized", ErrExportFailed)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return nil, fmt.Errorf("%w: encode image: %v", ErrExportFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}

	bounds := img.Bounds()
	x, y, w, h := FitRect(page.Width, page.Height, float64(bounds.Dx()), float64(bounds.Dy()))

	pdf := gofpdf.New("P", "pt", page.Name, "")
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("content", opts, &encoded)
	pdf.ImageOptions("content", x, y, w, h, false, opts, 0, "")

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, fmt.Errorf("%w: compose pdf: %v", ErrExportFailed, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExportFailed, err)
	}
	return out.Bytes(), nil
}
