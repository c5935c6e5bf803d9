package widgets

import "github.com/go-drift/compose/pkg/toolkit"

// GridCell is a child placed at a cell range.
type GridCell struct {
	Child            toolkit.Component
	Row, Col         int
	RowSpan, ColSpan int
}

// Grid lays children out at explicit cells.
type Grid struct {
	cells []GridCell
}

// NewGrid creates an empty grid layout.
func NewGrid() *Grid { return &Grid{} }

// AddChildAt implements toolkit.GridLayout.
func (g *Grid) AddChildAt(c toolkit.Component, row, col, rowSpan, colSpan int) {
	g.cells = append(g.cells, GridCell{Child: c, Row: row, Col: col, RowSpan: rowSpan, ColSpan: colSpan})
}

// Cells returns the placed cells in insertion order.
func (g *Grid) Cells() []GridCell { return g.cells }

// At returns the child covering (row, col), if any.
func (g *Grid) At(row, col int) (toolkit.Component, bool) {
	for _, c := range g.cells {
		if row >= c.Row && row < c.Row+c.RowSpan && col >= c.Col && col < c.Col+c.ColSpan {
			return c.Child, true
		}
	}
	return nil, false
}

// Children implements toolkit.Layout.
func (g *Grid) Children() []toolkit.Component {
	out := make([]toolkit.Component, 0, len(g.cells))
	for _, c := range g.cells {
		out = append(out, c.Child)
	}
	return out
}
