package template

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeSectionTemplate() InvoiceTemplate {
	return InvoiceTemplate{
		ID:   "tpl",
		Name: "three",
		Sections: []TemplateSection{
			{ID: "a", Type: SectionHeader, Position: 1, Visible: true, Style: defaultSectionStyle()},
			{ID: "b", Type: SectionNotes, Position: 2, Visible: true, Style: defaultSectionStyle()},
			{ID: "c", Type: SectionFooter, Position: 3, Visible: true, Style: defaultSectionStyle()},
		},
	}
}

func positionsOf(t InvoiceTemplate) map[string]int {
	out := make(map[string]int, len(t.Sections))
	for _, s := range t.Sections {
		out[s.ID] = s.Position
	}
	return out
}

func assertContiguous(t *testing.T, tpl InvoiceTemplate) {
	t.Helper()
	positions := make([]int, 0, len(tpl.Sections))
	for _, s := range tpl.Sections {
		positions = append(positions, s.Position)
	}
	sort.Ints(positions)
	for i, p := range positions {
		require.Equal(t, i+1, p, "positions must be exactly {1..N}")
	}
}

func TestMoveSectionUpSwapsNeighbours(t *testing.T) {
	tpl := threeSectionTemplate()

	got, err := MoveSection(tpl, "b", DirectionUp)
	require.NoError(t, err)

	pos := positionsOf(got)
	assert.Equal(t, 2, pos["a"])
	assert.Equal(t, 1, pos["b"])
	assert.Equal(t, 3, pos["c"])
	assertContiguous(t, got)

	// Input untouched.
	assert.Equal(t, 1, positionsOf(tpl)["a"])
}

func TestMoveSectionBoundaryNoOp(t *testing.T) {
	tpl := threeSectionTemplate()

	got, err := MoveSection(tpl, "a", DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, positionsOf(tpl), positionsOf(got))

	got, err = MoveSection(tpl, "c", DirectionDown)
	require.NoError(t, err)
	assert.Equal(t, positionsOf(tpl), positionsOf(got))
}

func TestMoveSectionUnknownID(t *testing.T) {
	_, err := MoveSection(threeSectionTemplate(), "zzz", DirectionUp)
	assert.ErrorIs(t, err, ErrSectionNotFound)
}

func TestMoveSectionInvalidDirection(t *testing.T) {
	_, err := MoveSection(threeSectionTemplate(), "a", DirectionLeft)
	assert.Error(t, err)
}

func TestMoveSectionSequencePreservesInvariant(t *testing.T) {
	tpl := DefaultTemplate()
	moves := []struct {
		id  string
		dir Direction
	}{
		{tpl.Sections[0].ID, DirectionDown},
		{tpl.Sections[4].ID, DirectionUp},
		{tpl.Sections[7].ID, DirectionDown}, // boundary no-op
		{tpl.Sections[2].ID, DirectionUp},
		{tpl.Sections[2].ID, DirectionUp},
	}
	current := tpl
	for _, mv := range moves {
		next, err := MoveSection(current, mv.id, mv.dir)
		require.NoError(t, err)
		assertContiguous(t, next)
		current = next
	}
}

func TestMoveColumnSwapsAdjacent(t *testing.T) {
	tpl := DefaultTemplate()
	cols := tpl.LineItemsSection().Columns
	first, second := cols[0].ID, cols[1].ID

	got, err := MoveColumn(tpl, second, DirectionLeft)
	require.NoError(t, err)

	moved := got.LineItemsSection().Columns
	assert.Equal(t, second, moved[0].ID)
	assert.Equal(t, first, moved[1].ID)
	// Input untouched.
	assert.Equal(t, first, tpl.LineItemsSection().Columns[0].ID)
}

func TestMoveColumnBoundaryNoOp(t *testing.T) {
	tpl := DefaultTemplate()
	cols := tpl.LineItemsSection().Columns

	got, err := MoveColumn(tpl, cols[0].ID, DirectionLeft)
	require.NoError(t, err)
	assert.Equal(t, cols[0].ID, got.LineItemsSection().Columns[0].ID)

	last := cols[len(cols)-1].ID
	got, err = MoveColumn(tpl, last, DirectionRight)
	require.NoError(t, err)
	assert.Equal(t, last, got.LineItemsSection().Columns[len(cols)-1].ID)
}

func TestMoveColumnUnknownID(t *testing.T) {
	_, err := MoveColumn(DefaultTemplate(), "zzz", DirectionLeft)
	assert.ErrorIs(t, err, ErrColumnNotFound)
}
