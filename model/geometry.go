package model

import "math"

// BBox is a bounding box in millimeters, page-relative: the origin is the
// top-left corner of the page the element sits on, X grows rightward and Y
// grows downward.
//
// The zero value is the designated "unset" sentinel: a box with all four
// fields zero is never a legitimate degenerate box, and IsValid reports
// false for it.
type BBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// NewBBox creates a bounding box from coordinates.
func NewBBox(x, y, width, height float64) BBox {
	return BBox{X: x, Y: y, Width: width, Height: height}
}

// IsValid reports whether the box is set. The all-zero box is the unset
// sentinel; any non-zero field makes the box valid.
func (b BBox) IsValid() bool {
	return b.X != 0 || b.Y != 0 || b.Width != 0 || b.Height != 0
}

// Left returns the left edge X coordinate.
func (b BBox) Left() float64 { return b.X }

// Right returns the right edge X coordinate.
func (b BBox) Right() float64 { return b.X + b.Width }

// Top returns the top edge Y coordinate (smaller Y is higher on the page).
func (b BBox) Top() float64 { return b.Y }

// Bottom returns the bottom edge Y coordinate.
func (b BBox) Bottom() float64 { return b.Y + b.Height }

// Contains checks whether the point (x, y) lies inside the box.
func (b BBox) Contains(x, y float64) bool {
	return x >= b.Left() && x <= b.Right() && y >= b.Top() && y <= b.Bottom()
}

// Intersects checks whether two boxes overlap.
func (b BBox) Intersects(other BBox) bool {
	return !(b.Right() < other.Left() ||
		b.Left() > other.Right() ||
		b.Bottom() < other.Top() ||
		b.Top() > other.Bottom())
}

// Union returns the smallest box covering both boxes.
func (b BBox) Union(other BBox) BBox {
	x := math.Min(b.Left(), other.Left())
	y := math.Min(b.Top(), other.Top())
	right := math.Max(b.Right(), other.Right())
	bottom := math.Max(b.Bottom(), other.Bottom())
	return BBox{X: x, Y: y, Width: right - x, Height: bottom - y}
}

// Area returns the area of the box.
func (b BBox) Area() float64 {
	return b.Width * b.Height
}
