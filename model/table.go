package model

import "strings"

// RelTo names the reference frame a position offset is measured from.
type RelTo string

// Reference frames carried by table/object positions.
const (
	RelPage   RelTo = "PAGE"
	RelPara   RelTo = "PARA"
	RelColumn RelTo = "COLUMN"
)

// Position is an anchored object's placement, native units. Each axis
// carries its own reference frame; TreatAsChar overrides both and places
// the object inline with the anchoring paragraph's flow.
type Position struct {
	VertRelTo    RelTo
	HorzRelTo    RelTo
	VertAlign    string
	HorzAlign    string
	VertOffset   int32
	HorzOffset   int32
	TreatAsChar  bool
	FlowWithText bool
}

// Size is an object's declared extent in native units.
type Size struct {
	Width  int32
	Height int32
}

// Margin is a four-sided native-unit margin.
type Margin struct {
	Left   int32
	Right  int32
	Top    int32
	Bottom int32
}

// Cell is one table cell, owned exclusively by its Table. Row/Col address
// the cell's anchor (top-left) grid position; RowSpan/ColSpan extend it
// across merged positions, which hold no cell of their own.
type Cell struct {
	Row          int
	Col          int
	Text         string
	RowSpan      int
	ColSpan      int
	Size         Size
	Margin       Margin
	BorderFillID string
}

// Table is a grid of cells with a declared row/column count. Cells stores
// only anchor positions; every cell satisfies 0 <= Row < Rows and
// 0 <= Col < Cols.
type Table struct {
	ID          string
	Rows        int
	Cols        int
	Cells       []Cell
	ZOrder      int
	Position    Position
	Size        Size
	OuterMargin Margin
	InnerMargin Margin
}

// Grid returns the table's cell text as a dense Rows x Cols matrix in
// row-major order. Grid positions with no anchored cell (merge shadows or
// gaps in malformed input) come back as empty strings, never absent.
func (t *Table) Grid() [][]string {
	grid := make([][]string, t.Rows)
	for r := range grid {
		grid[r] = make([]string, t.Cols)
	}
	for _, c := range t.Cells {
		if c.Row >= 0 && c.Row < t.Rows && c.Col >= 0 && c.Col < t.Cols {
			grid[c.Row][c.Col] = c.Text
		}
	}
	return grid
}

// Text returns the table content as tab-separated rows.
func (t *Table) Text() string {
	var sb strings.Builder
	for _, row := range t.Grid() {
		sb.WriteString(strings.Join(row, "\t"))
		sb.WriteString("\n")
	}
	return sb.String()
}
