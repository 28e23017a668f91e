package template

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidTemplate = errors.New("invalid template")

// Validate checks the structural invariants a stored template must hold:
// contiguous unique positions, known enum values, column widths within
// bounds. Column widths are deliberately not required to sum to 100; the
// renderer normalizes them.
func Validate(t InvoiceTemplate) error {
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidTemplate)
	}
	seen := make(map[int]bool, len(t.Sections))
	for _, sec := range t.Sections {
		if sec.ID == "" {
			return fmt.Errorf("%w: section without id", ErrInvalidTemplate)
		}
		if sec.Position < 1 || sec.Position > len(t.Sections) {
			return fmt.Errorf("%w: section %s position %d out of range", ErrInvalidTemplate, sec.ID, sec.Position)
		}
		if seen[sec.Position] {
			return fmt.Errorf("%w: duplicate position %d", ErrInvalidTemplate, sec.Position)
		}
		seen[sec.Position] = true
		if !knownSectionType(sec.Type) {
			return fmt.Errorf("%w: unknown section type %q", ErrInvalidTemplate, sec.Type)
		}
		for _, col := range sec.Columns {
			if err := validateColumn(col); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateColumn(col TemplateColumn) error {
	if col.ID == "" {
		return fmt.Errorf("%w: column without id", ErrInvalidTemplate)
	}
	if col.Width < 5 || col.Width > 50 {
		return fmt.Errorf("%w: column %s width %.1f outside [5,50]", ErrInvalidTemplate, col.ID, col.Width)
	}
	switch col.Align {
	case AlignLeft, AlignCenter, AlignRight:
	default:
		return fmt.Errorf("%w: column %s alignment %q", ErrInvalidTemplate, col.ID, col.Align)
	}
	switch col.Format {
	case FormatText, FormatNumber, FormatCurrency, FormatPercentage:
	default:
		return fmt.Errorf("%w: column %s format %q", ErrInvalidTemplate, col.ID, col.Format)
	}
	return nil
}

func knownSectionType(t SectionType) bool {
	for _, known := range KnownSectionTypes {
		if t == known {
			return true
		}
	}
	return false
}
