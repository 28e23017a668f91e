// Package render projects an invoice template plus document data into an
// ordered tree of fully-specified visual nodes. The tree is renderer
// output, not a UI: binding it to drawing primitives happens through the
// Backend capability interface.
package render

import (
	"github.com/billmitra/billmitra/internal/template"
)

// BlockKind tags the resolved node variants.
type BlockKind string

const (
	BlockHeader      BlockKind = "header"
	BlockParty       BlockKind = "party"
	BlockTable       BlockKind = "table"
	BlockTotals      BlockKind = "totals"
	BlockText        BlockKind = "text"
	BlockPlaceholder BlockKind = "placeholder"
)

// Line is one resolved label/value pair inside a block.
type Line struct {
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

// TableColumn carries a resolved column header and its width as a fraction
// of the table width. Fractions always sum to 1 regardless of how the
// template's percentages were authored.
type TableColumn struct {
	Label     string             `json:"label"`
	WidthFrac float64            `json:"width_frac"`
	Align     template.Alignment `json:"align"`
}

// Table is the resolved line-items grid: formatted display strings only.
type Table struct {
	Columns []TableColumn `json:"columns"`
	Rows    [][]string    `json:"rows"`
}

// Block is one resolved visual node. Exactly one of Lines or Table is
// populated depending on Kind; placeholder blocks carry neither.
type Block struct {
	Kind        BlockKind             `json:"kind"`
	SectionID   string                `json:"section_id"`
	SectionType template.SectionType  `json:"section_type"`
	Title       string                `json:"title,omitempty"`
	Style       template.SectionStyle `json:"style"`
	Lines       []Line                `json:"lines,omitempty"`
	Table       *Table                `json:"table,omitempty"`
}

// VisualTree is the ordered render output for one template+document pair.
type VisualTree struct {
	Style  template.TemplateStyle `json:"style"`
	Blocks []Block                `json:"blocks"`
}
