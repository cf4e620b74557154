// Package layout reconstructs page-relative positions from the document
// model's native-unit geometry. A paragraph's internal coordinates are
// relative to its own flow origin, not the page, so a running cursor
// accumulates heights across the section; page assignment falls out of
// dividing the accumulated position by the page's content height.
package layout

import (
	"github.com/koradoc/koradoc/model"
)

// Gap is the vertical distance in millimeters left after each placed
// paragraph or table.
const Gap = 2.0

// defaultRowHeight is the assumed row height in millimeters for tables
// that declare no size.
const defaultRowHeight = 5.0

// PageMetrics is one section's page geometry in millimeters.
type PageMetrics struct {
	Width        float64
	Height       float64
	MarginLeft   float64
	MarginRight  float64
	MarginTop    float64
	MarginBottom float64
}

// MetricsFor derives page metrics from a section, falling back to the
// model's A4 defaults where the section carries no page definition.
func MetricsFor(sec *model.Section) PageMetrics {
	return PageMetrics{
		Width:        sec.PageWidthMM(),
		Height:       sec.PageHeightMM(),
		MarginLeft:   sec.MarginLeftMM(),
		MarginRight:  sec.MarginRightMM(),
		MarginTop:    sec.MarginTopMM(),
		MarginBottom: sec.MarginBottomMM(),
	}
}

// ContentWidth returns the horizontal extent available to content.
func (m PageMetrics) ContentWidth() float64 {
	if w := m.Width - m.MarginLeft - m.MarginRight; w > 0 {
		return w
	}
	return m.Width
}

// ContentHeight returns the vertical extent available to content on one
// page.
func (m PageMetrics) ContentHeight() float64 {
	if h := m.Height - m.MarginTop - m.MarginBottom; h > 0 {
		return h
	}
	return m.Height
}

// Placement is a placed block: a 0-based page index within the flow and a
// page-relative box in millimeters.
type Placement struct {
	Page int
	Box  model.BBox
}

// Flow places blocks top to bottom across pages. The cursor is an absolute
// position in content space: 0 is the top of the first page's content area
// and every content height past that starts a new page.
type Flow struct {
	metrics PageMetrics
	cursor  float64
	maxPage int
}

// NewFlow starts an empty flow at the top of the first page.
func NewFlow(m PageMetrics) *Flow {
	return &Flow{metrics: m}
}

// Metrics returns the flow's page geometry.
func (f *Flow) Metrics() PageMetrics { return f.metrics }

// PageCount returns the number of pages touched so far, at least 1.
func (f *Flow) PageCount() int { return f.maxPage + 1 }

// locate maps an absolute content-space position to a page index and
// page-relative offset.
func (f *Flow) locate(abs float64) (int, float64) {
	ch := f.metrics.ContentHeight()
	if ch <= 0 || abs <= 0 {
		return 0, 0
	}
	page := int(abs / ch)
	return page, abs - float64(page)*ch
}

// PageBreak advances the cursor to the top of the next page. At an exact
// page boundary the cursor already sits at a fresh top and nothing moves.
func (f *Flow) PageBreak() {
	ch := f.metrics.ContentHeight()
	if ch <= 0 {
		return
	}
	page, rel := f.locate(f.cursor)
	if rel > 0 {
		f.cursor = float64(page+1) * ch
	}
}

// PlaceParagraph computes the paragraph's box from its line segments and
// advances the cursor past it. ok is false for a paragraph with no usable
// segments; such a paragraph has no computable box and the cursor does not
// move.
func (f *Flow) PlaceParagraph(p *model.Paragraph) (Placement, bool) {
	x, y, w, h, ok := segmentExtent(p.LineSegments)
	if !ok {
		page, _ := f.locate(f.cursor)
		return Placement{Page: page}, false
	}
	return f.place(x, y, w, h), true
}

// PlaceBlock places an anonymous block of the given height spanning the
// full content width, advancing the cursor past it.
func (f *Flow) PlaceBlock(height float64) Placement {
	return f.place(0, 0, f.metrics.ContentWidth(), height)
}

// place positions a block whose offsets are relative to the cursor,
// clipping it to its page, and advances the cursor past it plus the gap.
func (f *Flow) place(dx, dy, w, h float64) Placement {
	m := f.metrics
	page, rel := f.locate(f.cursor + dy)

	if remain := m.ContentHeight() - rel; h > remain {
		h = remain
	}
	if h < 0 {
		h = 0
	}

	x := m.MarginLeft + dx
	if x < 0 {
		x = 0
	}
	if x+w > m.Width {
		if w > m.Width {
			w = m.Width
		}
		x = m.Width - w
	}

	f.cursor += dy + h + Gap
	if page > f.maxPage {
		f.maxPage = page
	}
	return Placement{Page: page, Box: model.NewBBox(x, m.MarginTop+rel, w, h)}
}

// PlaceTable resolves a table's position against its reference frames and
// advances the cursor past its height. The anchor is the placement of the
// paragraph the table is attached to; an invalid anchor box means the
// paragraph itself had no geometry and the cursor position stands in.
func (f *Flow) PlaceTable(t *model.Table, anchor Placement) Placement {
	m := f.metrics

	w := model.ToMM(t.Size.Width)
	if w <= 0 || w > m.ContentWidth() {
		w = m.ContentWidth()
	}
	h := model.ToMM(t.Size.Height)
	if h <= 0 {
		h = float64(t.Rows) * defaultRowHeight
	}

	page, rel := f.locate(f.cursor)
	anchorPage, anchorY := page, m.MarginTop+rel
	if anchor.Box.IsValid() {
		anchorPage, anchorY = anchor.Page, anchor.Box.Y
	}

	var y float64
	switch {
	case t.Position.TreatAsChar:
		// inline with the anchoring paragraph's flow
		y = anchorY
	case t.Position.VertRelTo == model.RelPage:
		y = model.ToMM(t.Position.VertOffset)
	default:
		// PARA and COLUMN measure from the anchor's resolved position
		y = anchorY + model.ToMM(t.Position.VertOffset)
	}

	var x float64
	if t.Position.HorzRelTo == model.RelPage {
		x = model.ToMM(t.Position.HorzOffset)
	} else {
		x = m.MarginLeft + model.ToMM(t.Position.HorzOffset)
	}

	// clip to page bounds
	if h > m.Height {
		h = m.Height
	}
	if y < 0 {
		y = 0
	}
	if y+h > m.Height {
		y = m.Height - h
	}
	if w > m.Width {
		w = m.Width
	}
	if x < 0 {
		x = 0
	}
	if x+w > m.Width {
		x = m.Width - w
	}

	f.cursor += h + Gap
	if anchorPage > f.maxPage {
		f.maxPage = anchorPage
	}
	return Placement{Page: anchorPage, Box: model.NewBBox(x, y, w, h)}
}

// segmentExtent reduces a paragraph's line segments to a relative extent in
// millimeters. Segments with no size on either axis are layout artifacts
// and are skipped; a paragraph with only those has no extent.
func segmentExtent(segs []model.LineSegment) (x, y, w, h float64, ok bool) {
	var minH, maxH, minV, maxV int32
	for _, s := range segs {
		if s.HorzSize <= 0 && s.VertSize <= 0 {
			continue
		}
		if !ok {
			minH, maxH = s.HorzPos, s.HorzPos+s.HorzSize
			minV, maxV = s.VertPos, s.VertPos+s.VertSize
			ok = true
			continue
		}
		if s.HorzPos < minH {
			minH = s.HorzPos
		}
		if s.HorzPos+s.HorzSize > maxH {
			maxH = s.HorzPos + s.HorzSize
		}
		if s.VertPos < minV {
			minV = s.VertPos
		}
		if s.VertPos+s.VertSize > maxV {
			maxV = s.VertPos + s.VertSize
		}
	}
	if !ok {
		return 0, 0, 0, 0, false
	}
	return model.ToMM(minH), model.ToMM(minV), model.ToMM(maxH - minH), model.ToMM(maxV - minV), true
}
