package layout

import (
	"math"

	"github.com/koradoc/koradoc/model"
)

// rescaleTolerance is how far, in millimeters, the summed track sizes may
// deviate from the table's resolved extent before a uniform rescale.
var rescaleTolerance = model.ToMM(1)

// CellBoxes resolves a page-relative box for every cell of a table, in the
// same order as t.Cells.
//
// Column widths default to an even split of the table width; a cell with
// colSpan 1 and a declared width overrides its column, first declaration
// winning. Row heights resolve the same way from rowSpan-1 cells. When the
// resolved tracks disagree with the table's own extent they are rescaled
// uniformly so they sum exactly to it. A cell's box spans its merged
// tracks and never extends past the table's box.
func CellBoxes(t *model.Table, box model.BBox) []model.BBox {
	out := make([]model.BBox, len(t.Cells))
	if t.Rows <= 0 || t.Cols <= 0 || !box.IsValid() {
		return out
	}

	colW := tracks(t.Cols, box.Width)
	rowH := tracks(t.Rows, box.Height)

	colSet := make([]bool, t.Cols)
	rowSet := make([]bool, t.Rows)
	for _, c := range t.Cells {
		if c.ColSpan == 1 && c.Col >= 0 && c.Col < t.Cols && !colSet[c.Col] && c.Size.Width > 0 {
			colW[c.Col] = model.ToMM(c.Size.Width)
			colSet[c.Col] = true
		}
		if c.RowSpan == 1 && c.Row >= 0 && c.Row < t.Rows && !rowSet[c.Row] && c.Size.Height > 0 {
			rowH[c.Row] = model.ToMM(c.Size.Height)
			rowSet[c.Row] = true
		}
	}

	rescale(colW, box.Width)
	rescale(rowH, box.Height)

	colX := offsets(colW)
	rowY := offsets(rowH)

	for i, c := range t.Cells {
		if c.Row < 0 || c.Row >= t.Rows || c.Col < 0 || c.Col >= t.Cols {
			continue
		}
		x := box.X + colX[c.Col]
		y := box.Y + rowY[c.Row]
		w := span(colW, c.Col, c.ColSpan)
		h := span(rowH, c.Row, c.RowSpan)

		if x+w > box.Right() {
			w = box.Right() - x
		}
		if y+h > box.Bottom() {
			h = box.Bottom() - y
		}
		if w <= 0 || h <= 0 {
			continue
		}
		out[i] = model.NewBBox(x, y, w, h)
	}
	return out
}

func tracks(n int, total float64) []float64 {
	t := make([]float64, n)
	each := total / float64(n)
	for i := range t {
		t[i] = each
	}
	return t
}

// rescale stretches or shrinks all tracks uniformly so they sum to total,
// leaving them alone when they already agree within tolerance.
func rescale(t []float64, total float64) {
	var sum float64
	for _, v := range t {
		sum += v
	}
	if sum <= 0 || total <= 0 || math.Abs(sum-total) <= rescaleTolerance {
		return
	}
	factor := total / sum
	for i := range t {
		t[i] *= factor
	}
}

func offsets(t []float64) []float64 {
	out := make([]float64, len(t))
	var acc float64
	for i, v := range t {
		out[i] = acc
		acc += v
	}
	return out
}

func span(t []float64, from, n int) float64 {
	if n < 1 {
		n = 1
	}
	var sum float64
	for i := from; i < from+n && i < len(t); i++ {
		sum += t[i]
	}
	return sum
}
