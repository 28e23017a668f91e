package render

import "github.com/billmitra/billmitra/internal/template"

// TextStyle carries the resolved attributes for one text draw call.
type TextStyle struct {
	Size  float64
	Bold  bool
	Color string
	Align template.Alignment
}

// TableStyle carries the resolved attributes for one table draw call.
type TableStyle struct {
	HeaderFill  string
	HeaderColor string
	TextColor   string
	FontSize    float64
	RowHeight   float64
	BorderColor string
	Borders     string // none | minimal | full
}

// Backend is the capability interface a drawing surface must provide.
// Coordinates are in surface units with the origin at the top left; the
// painter drives all layout, so backends only place primitives.
type Backend interface {
	// DrawText draws a single line inside the horizontal span [x, x+w),
	// positioned according to style.Align. y is the text baseline.
	DrawText(x, y, w float64, text string, style TextStyle)
	// DrawRect fills the given rectangle.
	DrawRect(x, y, w, h float64, fill string)
	// DrawTable draws the grid at (x, y) spanning width w and returns the
	// height consumed.
	DrawTable(x, y, w float64, tbl Table, style TableStyle) float64
}

const (
	pageMargin        = 40.0
	defaultFontSize   = 12.0
	titleGap          = 6.0
	tableRowHeight    = 24.0
	lineHeightFactor  = 1.6
	blockGap          = 10.0
	placeholderHeight = 12.0
)

// spacingFactor maps the template's spacing setting to a layout multiplier.
func spacingFactor(style template.TemplateStyle) float64 {
	switch style.Spacing {
	case "compact":
		return 0.8
	case "spacious":
		return 1.3
	default:
		return 1.0
	}
}

// Paint walks the tree in block order and issues draw calls against the
// backend, flowing blocks vertically across the given width. It returns
// the total content height, which callers use to size the surface (via
// Measure) before painting for real.
func Paint(tree VisualTree, b Backend, width float64) float64 {
	factor := spacingFactor(tree.Style)
	contentWidth := width - 2*pageMargin
	y := pageMargin

	if tree.Style.BackgroundColor != "" && tree.Style.BackgroundColor != "#ffffff" {
		b.DrawRect(0, 0, width, Measure(tree, width), tree.Style.BackgroundColor)
	}

	for _, block := range tree.Blocks {
		y += float64(block.Style.Margin) * factor
		y += paintBlock(block, tree.Style, b, pageMargin, y, contentWidth, factor)
		y += blockGap * factor
	}
	return y + pageMargin
}

// Measure computes the painted height without drawing anything.
func Measure(tree VisualTree, width float64) float64 {
	factor := spacingFactor(tree.Style)
	contentWidth := width - 2*pageMargin
	y := pageMargin
	for _, block := range tree.Blocks {
		y += float64(block.Style.Margin) * factor
		y += measureBlock(block, contentWidth, factor)
		y += blockGap * factor
	}
	return y + pageMargin
}

func paintBlock(block Block, style template.TemplateStyle, b Backend, x, y, w, factor float64) float64 {
	height := measureBlock(block, w, factor)
	pad := float64(block.Style.Padding) * factor

	if block.Kind == BlockPlaceholder {
		return height
	}
	if fill := block.Style.BackgroundColor; fill != "" && fill != "#ffffff" {
		b.DrawRect(x, y, w, height, fill)
	}

	fontSize := float64(block.Style.FontSize)
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	lineHeight := fontSize * lineHeightFactor * factor
	cursor := y + pad

	if block.Title != "" {
		titleSize := fontSize
		if block.Kind == BlockHeader {
			titleSize = fontSize * 1.2
		}
		cursor += titleSize
		b.DrawText(x+pad, cursor, w-2*pad, block.Title, TextStyle{
			Size:  titleSize,
			Bold:  true,
			Color: textColor(block, style),
			Align: titleAlign(block),
		})
		cursor += titleGap * factor
	}

	if block.Table != nil {
		cursor += b.DrawTable(x+pad, cursor, w-2*pad, *block.Table, TableStyle{
			HeaderFill:  style.PrimaryColor,
			HeaderColor: "#ffffff",
			TextColor:   textColor(block, style),
			FontSize:    fontSize,
			RowHeight:   tableRowHeight * factor,
			BorderColor: style.SecondaryColor,
			Borders:     style.BorderStyle,
		})
	}

	align := template.AlignLeft
	if block.Kind == BlockTotals {
		align = template.AlignRight
	}
	for _, line := range block.Lines {
		cursor += lineHeight
		text := line.Value
		if line.Label != "" {
			text = line.Label + ": " + line.Value
		}
		b.DrawText(x+pad, cursor, w-2*pad, text, TextStyle{
			Size:  fontSize,
			Bold:  block.Style.FontWeight == "bold",
			Color: textColor(block, style),
			Align: align,
		})
	}

	return height
}

func measureBlock(block Block, w, factor float64) float64 {
	if block.Kind == BlockPlaceholder {
		return placeholderHeight * factor
	}
	fontSize := float64(block.Style.FontSize)
	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	pad := float64(block.Style.Padding) * factor
	lineHeight := fontSize * lineHeightFactor * factor

	height := 2 * pad
	if block.Title != "" {
		titleSize := fontSize
		if block.Kind == BlockHeader {
			titleSize = fontSize * 1.2
		}
		height += titleSize + titleGap*factor
	}
	if block.Table != nil {
		height += float64(len(block.Table.Rows)+1) * tableRowHeight * factor
	}
	height += float64(len(block.Lines)) * lineHeight
	return height
}

func textColor(block Block, style template.TemplateStyle) string {
	if block.Style.TextColor != "" {
		return block.Style.TextColor
	}
	if style.TextColor != "" {
		return style.TextColor
	}
	return "#000000"
}

func titleAlign(block Block) template.Alignment {
	if block.Kind == BlockHeader || block.SectionType == template.SectionFooter {
		return template.AlignCenter
	}
	return template.AlignLeft
}
