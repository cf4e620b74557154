package koradoc

import (
	"fmt"
	"strings"

	"github.com/koradoc/koradoc/format"
	"github.com/koradoc/koradoc/hwp"
	"github.com/koradoc/koradoc/hwpx"
	"github.com/koradoc/koradoc/model"
)

// Extractor provides a fluent interface over one document. Each
// configuration method returns a new Extractor instance, so a configured
// chain is safe to share and reuse.
type Extractor struct {
	filename string
	doc      *model.Document
	warnings []Warning
	options  ExtractOptions
	loaded   bool
}

// clone creates a shallow copy of the Extractor with a deep copy of
// options, keeping chains immutable.
func (e *Extractor) clone() *Extractor {
	return &Extractor{
		filename: e.filename,
		doc:      e.doc,
		warnings: e.warnings,
		options:  e.options.clone(),
		loaded:   e.loaded,
	}
}

// ensureDocument parses the input on first use: detect the container
// format, dispatch to the matching backend, and hold the resulting model
// for every later terminal operation.
func (e *Extractor) ensureDocument() error {
	if e.loaded {
		return nil
	}

	f := format.DetectFile(e.filename)

	var (
		doc   *model.Document
		warns []model.Warning
		err   error
	)
	switch f {
	case format.HWP:
		doc, warns, err = hwp.Parse(e.filename)
	case format.HWPX:
		doc, warns, err = hwpx.Parse(e.filename)
	default:
		return &ParseError{Path: e.filename, Format: f, Stage: "detect", Err: ErrUnsupportedFormat}
	}
	if err != nil {
		return &ParseError{Path: e.filename, Format: f, Stage: "parse", Err: err}
	}

	e.doc = doc
	e.warnings = warns
	e.loaded = true
	return nil
}

// ============================================================================
// Configuration Methods (return new Extractor instance)
// ============================================================================

// Sections restricts extraction to the given section indices (0-indexed).
// Multiple calls are cumulative.
//
// Example:
//
//	doc, _, err := koradoc.Open("report.hwp").Sections(0).Extract()
func (e *Extractor) Sections(indices ...int) *Extractor {
	ne := e.clone()
	ne.options.sections = append(ne.options.sections, indices...)
	return ne
}

// ChunkSize sets the maximum chunk length, in runes, used by Chunks().
//
// Example:
//
//	chunks, _, err := koradoc.Open("report.hwpx").ChunkSize(500).Chunks()
func (e *Extractor) ChunkSize(n int) *Extractor {
	ne := e.clone()
	ne.options.chunkSize = n
	return ne
}

// WithImages attaches an image-provider collaborator whose items are
// merged into the extraction output as image elements.
func (e *Extractor) WithImages(p ImageProvider) *Extractor {
	ne := e.clone()
	ne.options.images = p
	return ne
}

// ============================================================================
// Terminal Operations (execute extraction and return results)
// ============================================================================

// Document parses the input and returns the raw document model: sections,
// paragraphs, tables, and native-unit geometry, before any layout or
// classification.
func (e *Extractor) Document() (*model.Document, []Warning, error) {
	if err := e.ensureDocument(); err != nil {
		return nil, nil, err
	}
	return e.doc, e.warnings, nil
}

// Extract runs the full pipeline and returns the structured extraction:
// positioned elements, table structures, and the section hierarchy.
func (e *Extractor) Extract() (*model.ExtractedDocument, []Warning, error) {
	if err := e.ensureDocument(); err != nil {
		return nil, nil, err
	}
	out, warns := assemble(e.doc, e.options)
	return out, append(e.warnings, warns...), nil
}

// Text returns the document's plain text in document order.
func (e *Extractor) Text() (string, []Warning, error) {
	if err := e.ensureDocument(); err != nil {
		return "", nil, err
	}
	return e.doc.Text(), e.warnings, nil
}

// StructuredText returns hierarchy-preserving text with labeled tables,
// the form intended for feeding retrieval or language-model pipelines.
func (e *Extractor) StructuredText() (string, []Warning, error) {
	doc, warns, err := e.Extract()
	if err != nil {
		return "", warns, err
	}
	return doc.StructuredText(), warns, nil
}

// Markdown renders the extraction as markdown: heading levels become
// heading markers, tables become pipe tables.
func (e *Extractor) Markdown() (string, []Warning, error) {
	doc, warns, err := e.Extract()
	if err != nil {
		return "", warns, err
	}
	return renderMarkdown(doc), warns, nil
}

// Chunks splits the extraction into retrieval-ready chunks of at most the
// configured size.
func (e *Extractor) Chunks() ([]model.Chunk, []Warning, error) {
	doc, warns, err := e.Extract()
	if err != nil {
		return nil, warns, err
	}
	return doc.RAGChunks(e.options.chunkSize), warns, nil
}

// renderMarkdown walks the element list in document order; the section
// hierarchy is already reflected in the heading levels.
func renderMarkdown(doc *model.ExtractedDocument) string {
	var b strings.Builder
	if doc.Title != "" {
		fmt.Fprintf(&b, "# %s\n\n", doc.Title)
	}

	tables := make(map[string]*model.TableStructure, len(doc.Tables))
	for _, t := range doc.Tables {
		tables[t.ID] = t
	}

	for _, el := range doc.Elements {
		switch el.Type {
		case model.ElementHeading:
			b.WriteString(strings.Repeat("#", el.Level+1))
			b.WriteString(" ")
			b.WriteString(el.Text)
			b.WriteString("\n\n")
		case model.ElementParagraph:
			b.WriteString(el.Text)
			b.WriteString("\n\n")
		case model.ElementTable:
			if t, ok := tables[el.ID]; ok {
				b.WriteString(t.ToMarkdown())
				b.WriteString("\n\n")
			}
		}
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}
