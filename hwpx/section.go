package hwpx

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/koradoc/koradoc/model"
)

// element is a namespace-agnostic view of a parsed XML element. The format
// prefixes every element with one of several namespaces (hs, hp, hc, ...)
// that carry no distinguishing information here, so only local names are
// kept.
type element struct {
	name     string
	attr     map[string]string
	children []*element
	text     string
}

func parseXML(data []byte) (*element, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	var root *element
	var stack []*element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &element{name: t.Name.Local, attr: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				el.attr[a.Name.Local] = a.Value
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("multiple document elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced end element")
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, errors.New("no document element")
	}
	if len(stack) != 0 {
		return nil, errors.New("unclosed element")
	}
	return root, nil
}

// childAll returns the direct children with the given local name.
func (e *element) childAll(name string) []*element {
	var out []*element
	for _, c := range e.children {
		if c.name == name {
			out = append(out, c)
		}
	}
	return out
}

// child returns the first direct child with the given local name.
func (e *element) child(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// find returns the first element with the given local name anywhere in the
// subtree, depth first.
func (e *element) find(name string) *element {
	for _, c := range e.children {
		if c.name == name {
			return c
		}
		if m := c.find(name); m != nil {
			return m
		}
	}
	return nil
}

func (e *element) intAttr(name string) int32 {
	v, err := strconv.ParseInt(strings.TrimSpace(e.attr[name]), 10, 32)
	if err != nil {
		return 0
	}
	return int32(v)
}

func (e *element) boolAttr(name string) bool {
	return e.attr[name] == "1" || strings.EqualFold(e.attr[name], "true")
}

// subtreeText collects the character data of every "t" element in the
// subtree, including those of tables nested inside cells.
func subtreeText(e *element, sb *strings.Builder) {
	for _, c := range e.children {
		if c.name == "t" {
			sb.WriteString(c.text)
			collectText(c, sb)
			continue
		}
		subtreeText(c, sb)
	}
}

// collectText appends all character data below an element, covering inline
// markers that split a "t" element's text.
func collectText(e *element, sb *strings.Builder) {
	for _, c := range e.children {
		sb.WriteString(c.text)
		collectText(c, sb)
	}
}

// parseSection builds one section from a section XML file. Paragraphs are
// the direct "p" children of the section element; anything deeper belongs
// to a control object and is handled by its owner.
func parseSection(data []byte, index int) (*model.Section, error) {
	root, err := parseXML(data)
	if err != nil {
		return nil, fmt.Errorf("section %d: %w", index, err)
	}

	sec := &model.Section{Index: index}
	if pp := root.find("pagePr"); pp != nil {
		applyPagePr(sec, pp)
	}

	for _, p := range root.childAll("p") {
		para := buildParagraph(p)
		if strings.TrimSpace(para.Text) != "" || len(para.Tables) > 0 || para.PageBreak || para.ColumnBreak {
			sec.Paragraphs = append(sec.Paragraphs, para)
		}
	}
	return sec, nil
}

// applyPagePr copies the page geometry from a pagePr element: width and
// height as attributes, margins on a nested margin element.
func applyPagePr(sec *model.Section, pp *element) {
	sec.PageWidth = pp.intAttr("width")
	sec.PageHeight = pp.intAttr("height")
	sec.Landscape = strings.EqualFold(pp.attr["landscape"], "WIDELY") || pp.boolAttr("landscape")
	if m := pp.child("margin"); m != nil {
		sec.MarginLeft = m.intAttr("left")
		sec.MarginRight = m.intAttr("right")
		sec.MarginTop = m.intAttr("top")
		sec.MarginBottom = m.intAttr("bottom")
	}
}

func buildParagraph(p *element) *model.Paragraph {
	para := &model.Paragraph{
		ID:          p.attr["id"],
		StyleID:     p.attr["styleIDRef"],
		ParaShapeID: p.attr["paraPrIDRef"],
		PageBreak:   p.attr["pageBreak"] == "1",
		ColumnBreak: p.attr["columnBreak"] == "1",
	}

	for _, run := range p.childAll("run") {
		start := len([]rune(para.Text))
		var sb strings.Builder
		walkRun(run, para, &sb)
		if text := sb.String(); text != "" {
			para.Text += text
			para.Runs = append(para.Runs, model.TextRun{
				Text:        text,
				CharShapeID: run.attr["charPrIDRef"],
				Start:       start,
				End:         start + len([]rune(text)),
			})
		}
	}

	if lsa := p.child("linesegarray"); lsa != nil {
		for _, ls := range lsa.childAll("lineseg") {
			para.LineSegments = append(para.LineSegments, model.LineSegment{
				TextPos:    ls.intAttr("textpos"),
				VertPos:    ls.intAttr("vertpos"),
				VertSize:   ls.intAttr("vertsize"),
				TextHeight: ls.intAttr("textheight"),
				Baseline:   ls.intAttr("baseline"),
				Spacing:    ls.intAttr("spacing"),
				HorzPos:    ls.intAttr("horzpos"),
				HorzSize:   ls.intAttr("horzsize"),
			})
		}
	}
	return para
}

// walkRun gathers a run's text and anchored tables. Table subtrees are not
// descended into for text; their content lives in the table's cells.
func walkRun(e *element, para *model.Paragraph, sb *strings.Builder) {
	for _, c := range e.children {
		switch c.name {
		case "t":
			sb.WriteString(c.text)
			collectText(c, sb)
		case "tbl":
			para.Tables = append(para.Tables, buildTable(c))
		default:
			walkRun(c, para, sb)
		}
	}
}

func buildTable(t *element) *model.Table {
	tbl := &model.Table{
		ID:     t.attr["id"],
		Rows:   int(t.intAttr("rowCnt")),
		Cols:   int(t.intAttr("colCnt")),
		ZOrder: int(t.intAttr("zOrder")),
	}

	if sz := t.child("sz"); sz != nil {
		tbl.Size.Width = sz.intAttr("width")
		tbl.Size.Height = sz.intAttr("height")
	}
	if pos := t.child("pos"); pos != nil {
		tbl.Position = model.Position{
			VertRelTo:    model.RelTo(pos.attr["vertRelTo"]),
			HorzRelTo:    model.RelTo(pos.attr["horzRelTo"]),
			VertAlign:    pos.attr["vertAlign"],
			HorzAlign:    pos.attr["horzAlign"],
			VertOffset:   pos.intAttr("vertOffset"),
			HorzOffset:   pos.intAttr("horzOffset"),
			TreatAsChar:  pos.boolAttr("treatAsChar"),
			FlowWithText: pos.boolAttr("flowWithText"),
		}
	}
	if m := t.child("outMargin"); m != nil {
		tbl.OuterMargin = parseMargin(m)
	}
	if m := t.child("inMargin"); m != nil {
		tbl.InnerMargin = parseMargin(m)
	}

	rows := tableRows(t)
	if tbl.Rows <= 0 {
		tbl.Rows = len(rows)
	}
	for r, tr := range rows {
		cells := tr.childAll("tc")
		if tbl.Cols < len(cells) {
			tbl.Cols = len(cells)
		}
		nextCol := 0
		for _, tc := range cells {
			cell := buildCell(tc, r, nextCol)
			if addr := tc.child("cellAddr"); addr != nil {
				row := int(addr.intAttr("rowAddr"))
				col := int(addr.intAttr("colAddr"))
				if row >= 0 && row < tbl.Rows && col >= 0 && col < tbl.Cols {
					cell.Row, cell.Col = row, col
				}
			}
			nextCol = cell.Col + cell.ColSpan
			tbl.Cells = append(tbl.Cells, cell)
		}
	}
	return tbl
}

// tableRows returns the table's own rows, not those of tables nested
// inside its cells.
func tableRows(t *element) []*element {
	var rows []*element
	var walk func(e *element)
	walk = func(e *element) {
		for _, c := range e.children {
			switch c.name {
			case "tr":
				rows = append(rows, c)
			case "tbl":
				// nested table, owns its own rows
			default:
				walk(c)
			}
		}
	}
	walk(t)
	return rows
}

func buildCell(tc *element, row, col int) model.Cell {
	cell := model.Cell{
		Row:          row,
		Col:          col,
		RowSpan:      1,
		ColSpan:      1,
		BorderFillID: tc.attr["borderFillIDRef"],
	}
	if span := tc.child("cellSpan"); span != nil {
		if v := int(span.intAttr("colSpan")); v > 0 {
			cell.ColSpan = v
		}
		if v := int(span.intAttr("rowSpan")); v > 0 {
			cell.RowSpan = v
		}
	}
	if sz := tc.child("cellSz"); sz != nil {
		cell.Size.Width = sz.intAttr("width")
		cell.Size.Height = sz.intAttr("height")
	}
	if m := tc.child("cellMargin"); m != nil {
		cell.Margin = parseMargin(m)
	}

	var parts []string
	if sub := tc.child("subList"); sub != nil {
		for _, p := range sub.childAll("p") {
			var sb strings.Builder
			subtreeText(p, &sb)
			if s := strings.TrimSpace(sb.String()); s != "" {
				parts = append(parts, s)
			}
		}
	}
	cell.Text = strings.Join(parts, "\n")
	return cell
}

func parseMargin(m *element) model.Margin {
	return model.Margin{
		Left:   m.intAttr("left"),
		Right:  m.intAttr("right"),
		Top:    m.intAttr("top"),
		Bottom: m.intAttr("bottom"),
	}
}
