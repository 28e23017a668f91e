package template

import "fmt"

// Direction of a reorder operation.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// MoveSection swaps the section's position with its neighbour. A move past
// either end is a no-op and returns the template unchanged. Positions stay
// exactly {1..N} afterwards.
func MoveSection(t InvoiceTemplate, sectionID string, dir Direction) (InvoiceTemplate, error) {
	idx := sectionIndex(t, sectionID)
	if idx < 0 {
		return InvoiceTemplate{}, fmt.Errorf("%w: %s", ErrSectionNotFound, sectionID)
	}

	current := t.Sections[idx].Position
	target := current
	switch dir {
	case DirectionUp:
		target = current - 1
	case DirectionDown:
		target = current + 1
	default:
		return InvoiceTemplate{}, fmt.Errorf("move section: invalid direction %q", dir)
	}
	if target < 1 || target > len(t.Sections) {
		return t, nil
	}

	out := t.Clone()
	for i := range out.Sections {
		switch out.Sections[i].Position {
		case current:
			out.Sections[i].Position = target
		case target:
			out.Sections[i].Position = current
		}
	}
	return out, nil
}

// MoveColumn swaps the column with its neighbour in the first lineItems
// section. Array order is the column order; boundary moves are no-ops.
func MoveColumn(t InvoiceTemplate, columnID string, dir Direction) (InvoiceTemplate, error) {
	sec := t.LineItemsSection()
	if sec == nil {
		return InvoiceTemplate{}, ErrNoLineItemsSection
	}
	idx := columnIndex(sec.Columns, columnID)
	if idx < 0 {
		return InvoiceTemplate{}, fmt.Errorf("%w: %s", ErrColumnNotFound, columnID)
	}

	target := idx
	switch dir {
	case DirectionLeft:
		target = idx - 1
	case DirectionRight:
		target = idx + 1
	default:
		return InvoiceTemplate{}, fmt.Errorf("move column: invalid direction %q", dir)
	}
	if target < 0 || target >= len(sec.Columns) {
		return t, nil
	}

	out := t.Clone()
	cols := out.LineItemsSection().Columns
	cols[idx], cols[target] = cols[target], cols[idx]
	return out, nil
}
