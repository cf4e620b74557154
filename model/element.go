package model

// Warning reports a non-fatal issue encountered during parsing or
// extraction: a skipped malformed section, a decompression fallback, a box
// clipped to page bounds. Warnings ride alongside results; they never abort
// an extraction.
type Warning struct {
	Stage   string // component that produced the warning ("hwp", "hwpx", "layout", "assemble")
	Message string
}

// ElementType tags a DocumentElement.
type ElementType string

// Element type tags.
const (
	ElementHeading   ElementType = "heading"
	ElementParagraph ElementType = "paragraph"
	ElementTable     ElementType = "table"
	ElementTableCell ElementType = "table_cell"
	ElementImage     ElementType = "image"
)

// PageInfo describes one physical page of the extracted document, in
// millimeters.
type PageInfo struct {
	PageNum      int
	Width        float64
	Height       float64
	MarginTop    float64
	MarginBottom float64
	MarginLeft   float64
	MarginRight  float64
}

// ContentHeight returns the height of the page area available to flowed
// content.
func (p PageInfo) ContentHeight() float64 {
	return p.Height - p.MarginTop - p.MarginBottom
}

// ContentWidth returns the width of the page area available to flowed
// content.
func (p PageInfo) ContentWidth() float64 {
	return p.Width - p.MarginLeft - p.MarginRight
}

// DocumentElement is one element of the extraction output: a heading,
// paragraph, table, table cell, or image, with its page-relative bounding
// box. Elements are never mutated after creation.
//
// Parent/child links are string IDs rather than pointers so the element
// list serializes without cyclic ownership.
type DocumentElement struct {
	ID       string
	Type     ElementType
	Text     string
	BBox     BBox
	Page     int
	Level    int // heading level; 0 for non-headings
	ParentID string
	Children []string
	Style    map[string]string
	Metadata map[string]string
}

// TableStructure is the extraction view of one table: title inferred from
// the preceding paragraph, row 0 split off as the header, remaining rows as
// data. It is derived once from the raw Table and independent of it.
type TableStructure struct {
	ID       string
	Title    string
	Headers  [][]string
	Rows     [][]string
	BBox     BBox
	Page     int
	RowCount int
	ColCount int
	Context  string // surrounding text, for retrieval grounding
}

// HierarchicalSection is a heading-rooted subtree of document content.
// Children are owned; a section never references an ancestor, so the
// structure is a tree by construction.
type HierarchicalSection struct {
	ID       string
	Title    string
	Level    int // 1-3
	Content  []string
	Tables   []*TableStructure
	Children []*HierarchicalSection
	BBox     BBox
	Page     int
}

// ImageItem is an externally extracted embedded image, as supplied by an
// image-provider collaborator. BBox follows the same contract as every
// other element: millimeters, page-relative.
type ImageItem struct {
	ID          string
	Filename    string
	Format      string
	Data        []byte
	PixelWidth  int
	PixelHeight int
	Page        int
	BBox        BBox
}

// ExtractedDocument is the hierarchically structured, retrieval-friendly
// output of one extraction pass.
type ExtractedDocument struct {
	Title      string
	SourcePath string
	Format     Format
	Pages      []PageInfo
	Elements   []*DocumentElement
	Tables     []*TableStructure
	Headings   []*DocumentElement
	Paragraphs []*DocumentElement
	Images     []*ImageItem
	Sections   []*HierarchicalSection
	Metadata   map[string]string
}

// FullText returns all element text in document order.
func (d *ExtractedDocument) FullText() string {
	var parts []string
	for _, e := range d.Elements {
		if e.Text != "" && e.Type != ElementTableCell {
			parts = append(parts, e.Text)
		}
	}
	return joinLines(parts)
}

func joinLines(parts []string) string {
	switch len(parts) {
	case 0:
		return ""
	case 1:
		return parts[0]
	}
	n := 0
	for _, p := range parts {
		n += len(p) + 1
	}
	b := make([]byte, 0, n)
	for i, p := range parts {
		if i > 0 {
			b = append(b, '\n')
		}
		b = append(b, p...)
	}
	return string(b)
}
