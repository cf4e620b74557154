package model

import (
	"math"
	"strings"
	"testing"
)

// ============================================================================
// Unit conversion
// ============================================================================

func TestToMM(t *testing.T) {
	tests := []struct {
		name     string
		native   int32
		expected float64
	}{
		{"zero", 0, 0},
		{"one inch", 7200, 25.4},
		{"half inch", 3600, 12.7},
		{"single unit", 1, 25.4 / 7200},
		{"negative", -7200, -25.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToMM(tt.native)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("ToMM(%d) = %v, want %v", tt.native, got, tt.expected)
			}
		})
	}
}

func TestUnitRoundTrip(t *testing.T) {
	for _, v := range []int32{0, 1, 567, 7200, 59528, 84188, -300} {
		back := FromMM(ToMM(v))
		if math.Abs(back-float64(v)) > 1e-6 {
			t.Errorf("FromMM(ToMM(%d)) = %v, drift exceeds 1e-6", v, back)
		}
	}
}

// ============================================================================
// BBox
// ============================================================================

func TestBBoxIsValid(t *testing.T) {
	tests := []struct {
		name string
		box  BBox
		want bool
	}{
		{"zero box sentinel", BBox{}, false},
		{"normal", NewBBox(10, 20, 100, 50), true},
		{"only x set", BBox{X: 1}, true},
		{"only height set", BBox{Height: 0.5}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.box.IsValid(); got != tt.want {
				t.Errorf("IsValid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBBoxEdges(t *testing.T) {
	box := NewBBox(10, 20, 100, 50)
	if box.Left() != 10 || box.Right() != 110 {
		t.Errorf("horizontal edges = %v..%v, want 10..110", box.Left(), box.Right())
	}
	if box.Top() != 20 || box.Bottom() != 70 {
		t.Errorf("vertical edges = %v..%v, want 20..70", box.Top(), box.Bottom())
	}
}

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(0, 0, 10, 10)
	b := NewBBox(5, 5, 10, 10)
	u := a.Union(b)
	want := NewBBox(0, 0, 15, 15)
	if u != want {
		t.Errorf("Union() = %+v, want %+v", u, want)
	}
}

func TestBBoxIntersects(t *testing.T) {
	tests := []struct {
		name string
		a, b BBox
		want bool
	}{
		{"overlapping", NewBBox(0, 0, 10, 10), NewBBox(5, 5, 10, 10), true},
		{"touching edge", NewBBox(0, 0, 10, 10), NewBBox(10, 0, 10, 10), true},
		{"disjoint", NewBBox(0, 0, 10, 10), NewBBox(20, 20, 5, 5), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersects(tt.b); got != tt.want {
				t.Errorf("Intersects() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ============================================================================
// Section defaults
// ============================================================================

func TestSectionMMDefaults(t *testing.T) {
	s := &Section{}
	if s.PageWidthMM() != 210.0 || s.PageHeightMM() != 297.0 {
		t.Errorf("default page = %vx%v, want A4", s.PageWidthMM(), s.PageHeightMM())
	}
	if s.MarginTopMM() != 20.0 || s.MarginBottomMM() != 20.0 {
		t.Errorf("default vertical margins = %v/%v, want 20/20", s.MarginTopMM(), s.MarginBottomMM())
	}
}

func TestSectionMMExplicit(t *testing.T) {
	s := &Section{PageWidth: 59528, PageHeight: 84188, MarginLeft: 8504}
	if math.Abs(s.PageWidthMM()-210.0) > 0.1 {
		t.Errorf("PageWidthMM() = %v, want ~210", s.PageWidthMM())
	}
	if math.Abs(s.MarginLeftMM()-30.0) > 0.1 {
		t.Errorf("MarginLeftMM() = %v, want ~30", s.MarginLeftMM())
	}
}

// ============================================================================
// Paragraph / Table
// ============================================================================

func TestParagraphPlainText(t *testing.T) {
	p := &Paragraph{Text: "hello\x01world\ttab\nline\x1f"}
	got := p.PlainText()
	want := "helloworld\ttab\nline"
	if got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
}

func TestTableGridCompleteness(t *testing.T) {
	tbl := &Table{
		Rows: 2,
		Cols: 3,
		Cells: []Cell{
			{Row: 0, Col: 0, Text: "a", RowSpan: 1, ColSpan: 1},
			{Row: 1, Col: 2, Text: "f", RowSpan: 1, ColSpan: 1},
			{Row: 5, Col: 9, Text: "out of range", RowSpan: 1, ColSpan: 1},
		},
	}
	grid := tbl.Grid()
	if len(grid) != 2 || len(grid[0]) != 3 {
		t.Fatalf("grid dimensions = %dx%d, want 2x3", len(grid), len(grid[0]))
	}
	if grid[0][0] != "a" || grid[1][2] != "f" {
		t.Errorf("anchored cells misplaced: %v", grid)
	}
	// Every position resolves to a string, empty when absent in source.
	for r := range grid {
		for c := range grid[r] {
			_ = grid[r][c]
		}
	}
	if grid[0][1] != "" || grid[1][0] != "" {
		t.Errorf("gap cells should be empty strings: %v", grid)
	}
}

func TestTableStructureMarkdown(t *testing.T) {
	ts := &TableStructure{
		Title:   "annual results",
		Headers: [][]string{{"year", "amount"}},
		Rows:    [][]string{{"2024", "10"}, {"2025", "12"}},
	}
	md := ts.ToMarkdown()
	if !strings.Contains(md, "**annual results**") {
		t.Errorf("markdown missing title: %s", md)
	}
	if !strings.Contains(md, "| year | amount |") {
		t.Errorf("markdown missing header row: %s", md)
	}
	if !strings.Contains(md, "|---|---|") {
		t.Errorf("markdown missing separator: %s", md)
	}
}

func TestRAGChunksSplitsLargeSections(t *testing.T) {
	long := strings.Repeat("내용 문단입니다. ", 40)
	doc := &ExtractedDocument{
		Title:      "doc",
		SourcePath: "doc.hwpx",
		Sections: []*HierarchicalSection{
			{Title: "big", Level: 1, Content: []string{long, long, long}},
		},
	}
	chunks := doc.RAGChunks(300)
	if len(chunks) < 2 {
		t.Fatalf("expected large section split into multiple chunks, got %d", len(chunks))
	}
	for i, c := range chunks {
		if c.Title != "big" {
			t.Errorf("chunk %d title = %q, want %q", i, c.Title, "big")
		}
	}
}
