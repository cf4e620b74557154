package hwp

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/koradoc/koradoc/model"
)

// buildSection assembles one BodyText section stream into the shared model.
// Records arrive flat with a nesting level; a table's cells and their
// paragraphs sit at deeper levels than the anchoring paragraph, so the
// builder tracks the open table and cell and routes text accordingly.
func buildSection(data []byte, index int) *model.Section {
	b := &sectionBuilder{
		sec: &model.Section{Index: index},
	}

	rr := NewRecordReader(data)
	for {
		rec, ok := rr.Next()
		if !ok {
			break
		}
		b.record(rec)
	}
	b.closeTable()
	b.flushPara()
	return b.sec
}

type sectionBuilder struct {
	sec  *model.Section
	para *model.Paragraph

	table      *model.Table
	tableLevel uint16
	cell       *model.Cell
	cellPara   bool // a cell paragraph boundary was seen since the last text
	nextRow    int
	nextCol    int
	tableID    int
}

func (b *sectionBuilder) record(rec Record) {
	switch rec.TagID {
	case TagPageDef:
		b.pageDef(rec.Data)

	case TagParaHeader:
		if b.inTable(rec.Level) {
			b.cellPara = true
			return
		}
		b.closeTable()
		b.flushPara()
		b.para = &model.Paragraph{}
		if rec.Size >= 11 {
			// fixed header part: char count u32, control mask u32,
			// then the paragraph shape and style references
			b.para.ParaShapeID = strconv.Itoa(int(binary.LittleEndian.Uint16(rec.Data[8:])))
			b.para.StyleID = strconv.Itoa(int(rec.Data[10]))
		}

	case TagParaText:
		text := DecodeParaText(rec.Data)
		if b.inTable(rec.Level) {
			b.cellText(text)
			return
		}
		if b.para != nil {
			b.para.Text += text
		}

	case TagParaLineSeg:
		if b.inTable(rec.Level) {
			return
		}
		if b.para != nil {
			b.para.LineSegments = append(b.para.LineSegments, parseLineSegments(rec.Data)...)
		}

	case TagCtrlHeader:
		// a control at or above the table's level ends the table
		if b.table != nil && rec.Level <= b.tableLevel {
			b.closeTable()
		}

	case TagTable:
		b.closeTable()
		b.openTable(rec)

	case TagListHeader:
		if b.table != nil && rec.Level >= b.tableLevel {
			b.openCell(rec.Data)
		}
	}
}

// inTable reports whether a record at the given level belongs to the open
// table's cell content rather than the surrounding body.
func (b *sectionBuilder) inTable(level uint16) bool {
	return b.table != nil && level > b.tableLevel
}

func (b *sectionBuilder) flushPara() {
	if b.para == nil {
		return
	}
	if strings.TrimSpace(b.para.Text) != "" || len(b.para.Tables) > 0 {
		b.sec.Paragraphs = append(b.sec.Paragraphs, b.para)
	}
	b.para = nil
}

func (b *sectionBuilder) pageDef(data []byte) {
	if len(data) < 24 {
		return
	}
	b.sec.PageWidth = int32(binary.LittleEndian.Uint32(data[0:]))
	b.sec.PageHeight = int32(binary.LittleEndian.Uint32(data[4:]))
	b.sec.MarginLeft = int32(binary.LittleEndian.Uint32(data[8:]))
	b.sec.MarginRight = int32(binary.LittleEndian.Uint32(data[12:]))
	b.sec.MarginTop = int32(binary.LittleEndian.Uint32(data[16:]))
	b.sec.MarginBottom = int32(binary.LittleEndian.Uint32(data[20:]))
	if len(data) >= 28 {
		// bit 0 of the attribute word selects landscape orientation
		attr := binary.LittleEndian.Uint32(data[24:])
		b.sec.Landscape = attr&0x1 != 0
	}
}

func (b *sectionBuilder) openTable(rec Record) {
	if rec.Size < 8 {
		return
	}
	rows := int(binary.LittleEndian.Uint16(rec.Data[4:]))
	cols := int(binary.LittleEndian.Uint16(rec.Data[6:]))
	if rows <= 0 || cols <= 0 {
		return
	}
	b.tableID++
	b.table = &model.Table{
		ID:   strconv.Itoa(b.tableID),
		Rows: rows,
		Cols: cols,
	}
	b.tableLevel = rec.Level
	b.nextRow, b.nextCol = 0, 0

	if b.para == nil {
		b.para = &model.Paragraph{}
	}
	b.para.Tables = append(b.para.Tables, b.table)
}

func (b *sectionBuilder) closeTable() {
	b.closeCell()
	b.table = nil
}

// openCell starts a cell from a LIST_HEADER payload. The cell address and
// span fields follow a fixed part shared with other list headers; when the
// address is out of range the row-major cursor supplies it instead.
func (b *sectionBuilder) openCell(data []byte) {
	b.closeCell()
	if len(b.table.Cells) >= b.table.Rows*b.table.Cols {
		return
	}

	cell := model.Cell{Row: b.nextRow, Col: b.nextCol, RowSpan: 1, ColSpan: 1}
	if len(data) >= 16 {
		col := int(binary.LittleEndian.Uint16(data[8:]))
		row := int(binary.LittleEndian.Uint16(data[10:]))
		if row < b.table.Rows && col < b.table.Cols {
			cell.Row, cell.Col = row, col
		}
		if span := int(binary.LittleEndian.Uint16(data[12:])); span > 0 {
			cell.ColSpan = span
		}
		if span := int(binary.LittleEndian.Uint16(data[14:])); span > 0 {
			cell.RowSpan = span
		}
	}
	if len(data) >= 24 {
		cell.Size.Width = int32(binary.LittleEndian.Uint32(data[16:]))
		cell.Size.Height = int32(binary.LittleEndian.Uint32(data[20:]))
	}
	if len(data) >= 40 {
		cell.Margin.Left = int32(binary.LittleEndian.Uint32(data[24:]))
		cell.Margin.Right = int32(binary.LittleEndian.Uint32(data[28:]))
		cell.Margin.Top = int32(binary.LittleEndian.Uint32(data[32:]))
		cell.Margin.Bottom = int32(binary.LittleEndian.Uint32(data[36:]))
	}
	if len(data) >= 42 {
		cell.BorderFillID = strconv.Itoa(int(binary.LittleEndian.Uint16(data[40:])))
	}

	b.nextCol = cell.Col + cell.ColSpan
	if b.nextCol >= b.table.Cols {
		b.nextCol = 0
		b.nextRow = cell.Row + 1
	} else {
		b.nextRow = cell.Row
	}

	b.table.Cells = append(b.table.Cells, cell)
	b.cell = &b.table.Cells[len(b.table.Cells)-1]
	b.cellPara = false
}

func (b *sectionBuilder) closeCell() {
	if b.cell != nil {
		b.cell.Text = strings.TrimSpace(b.cell.Text)
		b.cell = nil
	}
}

func (b *sectionBuilder) cellText(text string) {
	if b.cell == nil {
		return
	}
	if b.cellPara && b.cell.Text != "" {
		b.cell.Text += "\n"
	}
	b.cellPara = false
	b.cell.Text += text
}

// parseLineSegments unpacks a PARA_LINE_SEG payload: 32-byte entries of
// eight little-endian 32-bit fields, all in document units.
func parseLineSegments(data []byte) []model.LineSegment {
	n := len(data) / 32
	if n == 0 {
		return nil
	}
	segs := make([]model.LineSegment, 0, n)
	for i := 0; i < n; i++ {
		p := data[i*32:]
		segs = append(segs, model.LineSegment{
			TextPos:    int32(binary.LittleEndian.Uint32(p[0:])),
			VertPos:    int32(binary.LittleEndian.Uint32(p[4:])),
			VertSize:   int32(binary.LittleEndian.Uint32(p[8:])),
			TextHeight: int32(binary.LittleEndian.Uint32(p[12:])),
			Baseline:   int32(binary.LittleEndian.Uint32(p[16:])),
			Spacing:    int32(binary.LittleEndian.Uint32(p[20:])),
			HorzPos:    int32(binary.LittleEndian.Uint32(p[24:])),
			HorzSize:   int32(binary.LittleEndian.Uint32(p[28:])),
		})
	}
	return segs
}

// parseFaceNames collects font face records from a DocInfo stream.
func parseFaceNames(data []byte) []model.FontInfo {
	var fonts []model.FontInfo
	rr := NewRecordReader(data)
	id := 0
	for {
		rec, ok := rr.Next()
		if !ok {
			break
		}
		if rec.TagID != TagFaceName {
			continue
		}
		if name := faceName(rec.Data); name != "" {
			fonts = append(fonts, model.FontInfo{ID: id, Name: name})
		}
		id++
	}
	return fonts
}

// faceName extracts the font name from a FACE_NAME payload: a property
// byte, a 16-bit character count, then the UTF-16 name.
func faceName(data []byte) string {
	if len(data) < 3 {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(data[1:]))
	end := 3 + n*2
	if n <= 0 || end > len(data) {
		return ""
	}
	return strings.TrimSpace(DecodeUTF16(data[3:end]))
}
