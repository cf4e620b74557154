package koradoc

import (
	"fmt"
	"strings"

	"github.com/koradoc/koradoc/layout"
	"github.com/koradoc/koradoc/model"
	"github.com/koradoc/koradoc/structure"
)

// fallbackParaHeight is the assumed height in millimeters for a paragraph
// that carries text but no line segments. It still occupies flow space so
// later elements land on the right page.
const fallbackParaHeight = 5.0

// idGen hands out document-order IDs from a single monotonic counter
// shared by every element kind, so IDs sort in emission order across the
// whole extraction.
type idGen struct {
	n int
}

func (g *idGen) element() string {
	g.n++
	return fmt.Sprintf("elem_%04d", g.n)
}

func (g *idGen) section() string {
	g.n++
	return fmt.Sprintf("sec_%04d", g.n)
}

// assemble walks the document model once, in document order, producing the
// extraction output. Every stage feeds the next within the pass: the flow
// cursor positions each paragraph, the classifier decides what it is, and
// the hierarchy builder files it under the open headings.
func assemble(doc *model.Document, opts ExtractOptions) (*model.ExtractedDocument, []Warning) {
	out := &model.ExtractedDocument{
		Title:      doc.Title,
		SourcePath: doc.SourcePath,
		Format:     doc.Format,
		Metadata:   doc.Metadata,
	}
	ids := &idGen{}
	tree := structure.NewBuilder()
	var warnings []Warning

	pageBase := 0
	for _, sec := range doc.Sections {
		if !opts.wantSection(sec.Index) {
			continue
		}
		metrics := layout.MetricsFor(sec)
		flow := layout.NewFlow(metrics)

		prevText := ""
		for _, p := range sec.Paragraphs {
			if p.PageBreak {
				flow.PageBreak()
			}

			text := strings.TrimSpace(p.PlainText())
			pl, placed := flow.PlaceParagraph(p)
			if !placed && text != "" {
				// no geometry came with the paragraph; give it a
				// nominal block so the flow stays consistent
				pl = flow.PlaceBlock(fallbackParaHeight)
			}
			pl.Page += pageBase

			if text != "" {
				emitText(out, tree, ids, p, text, pl)
			}

			anchorText := text
			if anchorText == "" {
				anchorText = prevText
			}
			for _, t := range p.Tables {
				tablePl := flow.PlaceTable(t, layout.Placement{Page: pl.Page - pageBase, Box: pl.Box})
				tablePl.Page += pageBase
				emitTable(out, tree, ids, t, anchorText, tablePl)
			}

			if text != "" {
				prevText = text
			}
		}

		for i := 0; i < flow.PageCount(); i++ {
			out.Pages = append(out.Pages, model.PageInfo{
				PageNum:      pageBase + i + 1,
				Width:        metrics.Width,
				Height:       metrics.Height,
				MarginTop:    metrics.MarginTop,
				MarginBottom: metrics.MarginBottom,
				MarginLeft:   metrics.MarginLeft,
				MarginRight:  metrics.MarginRight,
			})
		}
		pageBase += flow.PageCount()
	}

	out.Sections = tree.Roots()
	warnings = append(warnings, mergeImages(out, ids, opts, doc)...)
	return out, warnings
}

// emitText turns a text-bearing paragraph into a heading or paragraph
// element and files it in the section tree.
func emitText(out *model.ExtractedDocument, tree *structure.Builder, ids *idGen, p *model.Paragraph, text string, pl layout.Placement) {
	level := structure.HeadingLevel(text, p.StyleID)
	el := &model.DocumentElement{
		ID:   ids.element(),
		Text: text,
		BBox: pl.Box,
		Page: pl.Page,
	}
	if p.StyleID != "" || p.ParaShapeID != "" {
		el.Style = map[string]string{}
		if p.StyleID != "" {
			el.Style["style"] = p.StyleID
		}
		if p.ParaShapeID != "" {
			el.Style["paraShape"] = p.ParaShapeID
		}
	}

	if level > 0 {
		el.Type = model.ElementHeading
		el.Level = level
		sec := tree.OpenSection(ids.section(), text, level, pl.Box, pl.Page)
		el.Metadata = map[string]string{"section": sec.ID}
		out.Headings = append(out.Headings, el)
	} else {
		el.Type = model.ElementParagraph
		tree.AddContent(text)
		out.Paragraphs = append(out.Paragraphs, el)
	}
	out.Elements = append(out.Elements, el)
}

// emitTable resolves a table's structure and geometry into a
// TableStructure plus table and cell elements sharing the table's ID as
// parent. The table attaches to the deepest open section; a document
// without headings keeps its tables only in the flat lists.
func emitTable(out *model.ExtractedDocument, tree *structure.Builder, ids *idGen, t *model.Table, precedingText string, pl layout.Placement) {
	grid := t.Grid()
	ts := &model.TableStructure{
		ID:       ids.element(),
		Title:    structure.TableTitle(precedingText),
		BBox:     pl.Box,
		Page:     pl.Page,
		RowCount: t.Rows,
		ColCount: t.Cols,
		Context:  precedingText,
	}
	if len(grid) > 0 {
		ts.Headers = [][]string{grid[0]}
		ts.Rows = grid[1:]
	}

	el := &model.DocumentElement{
		ID:   ts.ID,
		Type: model.ElementTable,
		Text: strings.TrimSpace(t.Text()),
		BBox: pl.Box,
		Page: pl.Page,
	}

	tree.AddTable(ts)
	out.Tables = append(out.Tables, ts)
	out.Elements = append(out.Elements, el)

	boxes := layout.CellBoxes(t, pl.Box)
	for i, cell := range t.Cells {
		if cell.Text == "" && !boxes[i].IsValid() {
			continue
		}
		cellEl := &model.DocumentElement{
			ID:       ids.element(),
			Type:     model.ElementTableCell,
			Text:     cell.Text,
			BBox:     boxes[i],
			Page:     pl.Page,
			ParentID: el.ID,
			Metadata: map[string]string{
				"row": fmt.Sprintf("%d", cell.Row),
				"col": fmt.Sprintf("%d", cell.Col),
			},
		}
		el.Children = append(el.Children, cellEl.ID)
		out.Elements = append(out.Elements, cellEl)
	}
}
