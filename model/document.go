package model

import "strings"

// Format identifies the container a document was parsed from.
type Format int

const (
	// FormatUnknown indicates an unrecognized container.
	FormatUnknown Format = iota
	// FormatCompound indicates the OLE compound-document binary container (.hwp).
	FormatCompound
	// FormatZipXML indicates the ZIP-of-XML container (.hwpx).
	FormatZipXML
)

// String returns the wire tag for the format.
func (f Format) String() string {
	switch f {
	case FormatCompound:
		return "compound"
	case FormatZipXML:
		return "zip-xml"
	default:
		return "unknown"
	}
}

// FileHeader holds the compound container's FileHeader stream contents.
// ZIP-XML documents leave it zero except for Version.
type FileHeader struct {
	Signature    string
	Version      string
	Flags        uint32
	Compressed   bool
	Encrypted    bool
	Distribution bool
	DRM          bool
}

// FontInfo is one entry of the document's font table.
type FontInfo struct {
	ID   int
	Name string
}

// Document is the root of the parse model. It is created by a single parse
// call and treated as immutable afterwards; extraction reads it through
// read-only views.
type Document struct {
	Title       string
	SourcePath  string
	Format      Format
	Header      FileHeader
	Fonts       []FontInfo
	Sections    []*Section
	PreviewText string
	Metadata    map[string]string
}

// NewDocument creates an empty document for the given source and format.
func NewDocument(sourcePath string, format Format) *Document {
	return &Document{
		SourcePath: sourcePath,
		Format:     format,
		Metadata:   make(map[string]string),
	}
}

// Text returns all plain text in the document, sections separated by blank
// lines.
func (d *Document) Text() string {
	var parts []string
	for _, s := range d.Sections {
		if t := s.Text(); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Section is one logical page-layout scope: a BodyText/SectionN stream or a
// sectionN.xml file. Page size and margins are native units and apply to
// every paragraph in the section; a single section can still span many
// physical pages (page assignment is the layout engine's job).
type Section struct {
	Index        int
	PageWidth    int32
	PageHeight   int32
	MarginLeft   int32
	MarginRight  int32
	MarginTop    int32
	MarginBottom int32
	Landscape    bool
	Paragraphs   []*Paragraph
}

// Defaults used when a section carries no page definition: A4 portrait with
// 20 mm margins, matching what the source application assumes.
const (
	defaultPageWidthMM  = 210.0
	defaultPageHeightMM = 297.0
	defaultMarginMM     = 20.0
)

// PageWidthMM returns the page width in millimeters, defaulting to A4.
func (s *Section) PageWidthMM() float64 {
	if s.PageWidth > 0 {
		return ToMM(s.PageWidth)
	}
	return defaultPageWidthMM
}

// PageHeightMM returns the page height in millimeters, defaulting to A4.
func (s *Section) PageHeightMM() float64 {
	if s.PageHeight > 0 {
		return ToMM(s.PageHeight)
	}
	return defaultPageHeightMM
}

// MarginLeftMM returns the left margin in millimeters.
func (s *Section) MarginLeftMM() float64 {
	if s.MarginLeft > 0 {
		return ToMM(s.MarginLeft)
	}
	return defaultMarginMM
}

// MarginRightMM returns the right margin in millimeters.
func (s *Section) MarginRightMM() float64 {
	if s.MarginRight > 0 {
		return ToMM(s.MarginRight)
	}
	return defaultMarginMM
}

// MarginTopMM returns the top margin in millimeters.
func (s *Section) MarginTopMM() float64 {
	if s.MarginTop > 0 {
		return ToMM(s.MarginTop)
	}
	return defaultMarginMM
}

// MarginBottomMM returns the bottom margin in millimeters.
func (s *Section) MarginBottomMM() float64 {
	if s.MarginBottom > 0 {
		return ToMM(s.MarginBottom)
	}
	return defaultMarginMM
}

// Text returns the section's plain text, one line per non-empty paragraph.
func (s *Section) Text() string {
	var lines []string
	for _, p := range s.Paragraphs {
		if t := strings.TrimSpace(p.Text); t != "" {
			lines = append(lines, t)
		}
	}
	return strings.Join(lines, "\n")
}

// TextRun is a fragment of paragraph text sharing one character style.
type TextRun struct {
	Text        string
	CharShapeID string
	Start       int // rune offset within the paragraph text
	End         int
}

// LineSegment describes the position and size of one rendered line of text
// within a paragraph's flow, in native units. TextPos is the rune offset of
// the line's first character; segments are ordered by ascending TextPos.
type LineSegment struct {
	TextPos    int32
	VertPos    int32
	VertSize   int32
	TextHeight int32
	Baseline   int32
	Spacing    int32
	HorzPos    int32
	HorzSize   int32
}

// Paragraph is the unit of flowed text. Text is the concatenation of its
// runs in document order. A paragraph with no line segments has no
// computable bounding box; that is normal, not an error.
type Paragraph struct {
	ID           string
	Text         string
	Runs         []TextRun
	LineSegments []LineSegment
	Tables       []*Table
	StyleID      string
	ParaShapeID  string
	PageBreak    bool
	ColumnBreak  bool
}

// PlainText returns the paragraph text with residual control characters
// removed (anything below space except tab and newline).
func (p *Paragraph) PlainText() string {
	var b strings.Builder
	b.Grow(len(p.Text))
	for _, r := range p.Text {
		if r >= 32 || r == '\n' || r == '\t' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
