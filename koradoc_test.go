package koradoc

import (
	"archive/zip"
	"bytes"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/koradoc/koradoc/model"
)

func textPara(text, styleID string) *model.Paragraph {
	return &model.Paragraph{
		Text:    text,
		StyleID: styleID,
		LineSegments: []model.LineSegment{
			{HorzPos: 0, HorzSize: 42520, VertPos: 0, VertSize: 1200},
		},
	}
}

func testDoc(paragraphs ...*model.Paragraph) *model.Document {
	doc := model.NewDocument("test.hwp", model.FormatCompound)
	doc.Title = "test"
	doc.Sections = []*model.Section{{Index: 0, Paragraphs: paragraphs}}
	return doc
}

func TestAssembleHierarchy(t *testing.T) {
	doc := testDoc(
		textPara("제1장 총칙", ""),
		textPara("이 장은 일반 원칙을 다룬다.", ""),
		textPara("제1조(목적)", ""),
		textPara("이 조는 목적을 정한다.", ""),
		textPara("제2장 재정", ""),
	)

	out, warns := assemble(doc, defaultOptions())
	if len(warns) != 0 {
		t.Errorf("warnings = %v", warns)
	}

	if len(out.Headings) != 3 || len(out.Paragraphs) != 2 {
		t.Fatalf("got %d headings, %d paragraphs", len(out.Headings), len(out.Paragraphs))
	}
	if out.Headings[0].Level != 1 || out.Headings[1].Level != 2 {
		t.Errorf("levels = %d, %d", out.Headings[0].Level, out.Headings[1].Level)
	}

	if len(out.Sections) != 2 {
		t.Fatalf("got %d root sections, want 2", len(out.Sections))
	}
	ch1 := out.Sections[0]
	if ch1.Title != "제1장 총칙" || len(ch1.Children) != 1 {
		t.Fatalf("first chapter = %+v", ch1)
	}
	art := ch1.Children[0]
	if art.Title != "제1조(목적)" || len(art.Content) != 1 {
		t.Errorf("article = %+v", art)
	}
	if len(ch1.Content) != 1 {
		t.Errorf("chapter content = %v", ch1.Content)
	}
	if len(out.Sections[1].Children) != 0 {
		t.Errorf("second chapter inherited children")
	}
}

func TestAssembleTable(t *testing.T) {
	tbl := &model.Table{
		ID: "1", Rows: 2, Cols: 2,
		Size: model.Size{Width: 42520, Height: 5669},
		Cells: []model.Cell{
			{Row: 0, Col: 0, Text: "구분", RowSpan: 1, ColSpan: 1},
			{Row: 0, Col: 1, Text: "내용", RowSpan: 1, ColSpan: 1},
			{Row: 1, Col: 0, Text: "항목", RowSpan: 1, ColSpan: 1},
			{Row: 1, Col: 1, Text: "값", RowSpan: 1, ColSpan: 1},
		},
	}
	doc := testDoc(
		textPara("제1장 현황", ""),
		textPara("<표1> 연간 실적", ""),
		&model.Paragraph{Tables: []*model.Table{tbl}},
	)

	out, _ := assemble(doc, defaultOptions())
	if len(out.Tables) != 1 {
		t.Fatalf("got %d tables", len(out.Tables))
	}

	ts := out.Tables[0]
	if ts.Title != "연간 실적" {
		t.Errorf("title = %q", ts.Title)
	}
	if len(ts.Headers) != 1 || ts.Headers[0][0] != "구분" {
		t.Errorf("headers = %v", ts.Headers)
	}
	if len(ts.Rows) != 1 || ts.Rows[0][1] != "값" {
		t.Errorf("rows = %v", ts.Rows)
	}
	if !ts.BBox.IsValid() {
		t.Error("table box not resolved")
	}

	// the table belongs to the open chapter
	if len(out.Sections) != 1 || len(out.Sections[0].Tables) != 1 {
		t.Fatalf("sections = %+v", out.Sections)
	}

	var cells []*model.DocumentElement
	var tableEl *model.DocumentElement
	for _, el := range out.Elements {
		switch el.Type {
		case model.ElementTableCell:
			cells = append(cells, el)
		case model.ElementTable:
			tableEl = el
		}
	}
	if tableEl == nil || len(cells) != 4 {
		t.Fatalf("table element %v, %d cells", tableEl, len(cells))
	}
	for _, c := range cells {
		if c.ParentID != tableEl.ID {
			t.Errorf("cell %s parent = %q, want %q", c.ID, c.ParentID, tableEl.ID)
		}
		if !c.BBox.IsValid() {
			t.Errorf("cell %s has no box", c.ID)
		}
	}
	if len(tableEl.Children) != 4 {
		t.Errorf("table children = %v", tableEl.Children)
	}
}

func TestAssembleFallbackBox(t *testing.T) {
	doc := testDoc(&model.Paragraph{Text: "세그먼트 없는 문단"})

	out, _ := assemble(doc, defaultOptions())
	if len(out.Paragraphs) != 1 {
		t.Fatal("paragraph not emitted")
	}
	box := out.Paragraphs[0].BBox
	if !box.IsValid() {
		t.Fatal("fallback box missing")
	}
	if box.Height != fallbackParaHeight {
		t.Errorf("height = %f, want %f", box.Height, fallbackParaHeight)
	}
	// full content width of the default A4 page
	if box.Width != 170 || box.X != 20 {
		t.Errorf("box = %+v", box)
	}
}

func idNum(t *testing.T, id string) int {
	t.Helper()
	i := strings.LastIndexByte(id, '_')
	n, err := strconv.Atoi(id[i+1:])
	if err != nil {
		t.Fatalf("bad id %q", id)
	}
	return n
}

func TestAssembleMonotonicIDs(t *testing.T) {
	tbl := &model.Table{Rows: 1, Cols: 1, Cells: []model.Cell{{Text: "x", RowSpan: 1, ColSpan: 1}}}
	doc := testDoc(
		textPara("제1장 총칙", ""),
		textPara("본문입니다.", ""),
		&model.Paragraph{Tables: []*model.Table{tbl}},
		textPara("가. 소제목", ""),
	)

	out, _ := assemble(doc, defaultOptions())
	seen := map[string]bool{}
	last := 0
	for _, el := range out.Elements {
		if seen[el.ID] {
			t.Fatalf("duplicate id %s", el.ID)
		}
		seen[el.ID] = true
		n := idNum(t, el.ID)
		if n <= last {
			t.Fatalf("id %s out of order after %d", el.ID, last)
		}
		last = n
	}
}

func TestAssembleMultiSectionPages(t *testing.T) {
	doc := model.NewDocument("multi.hwp", model.FormatCompound)
	doc.Sections = []*model.Section{
		{Index: 0, Paragraphs: []*model.Paragraph{textPara("첫 섹션", "")}},
		{Index: 1, Paragraphs: []*model.Paragraph{textPara("둘째 섹션", "")}},
	}

	out, _ := assemble(doc, defaultOptions())
	if len(out.Pages) != 2 {
		t.Fatalf("got %d pages", len(out.Pages))
	}
	if out.Pages[0].PageNum != 1 || out.Pages[1].PageNum != 2 {
		t.Errorf("page numbers = %d, %d", out.Pages[0].PageNum, out.Pages[1].PageNum)
	}
	if len(out.Elements) != 2 || out.Elements[1].Page != 1 {
		t.Errorf("second section's element on page %d, want 1", out.Elements[1].Page)
	}

	// section selection drops the other section entirely
	out, _ = assemble(doc, ExtractOptions{sections: []int{1}})
	if len(out.Elements) != 1 || out.Elements[0].Text != "둘째 섹션" {
		t.Errorf("selected extraction = %+v", out.Elements)
	}
}

type staticImages struct {
	items []model.ImageItem
	err   error
}

func (s staticImages) Images(string, model.Format) ([]model.ImageItem, error) {
	return s.items, s.err
}

func TestMergeImages(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 3, 2))); err != nil {
		t.Fatal(err)
	}

	doc := testDoc(textPara("제1장", ""))
	opts := defaultOptions()
	opts.images = staticImages{items: []model.ImageItem{
		{Filename: "chart.png", Data: buf.Bytes(), Page: 0},
	}}

	out, warns := assemble(doc, opts)
	if len(warns) != 0 {
		t.Errorf("warnings = %v", warns)
	}
	if len(out.Images) != 1 {
		t.Fatal("image not merged")
	}
	img := out.Images[0]
	if img.Format != "png" || img.PixelWidth != 3 || img.PixelHeight != 2 {
		t.Errorf("sniffed = %s %dx%d", img.Format, img.PixelWidth, img.PixelHeight)
	}
	if img.ID == "" {
		t.Error("image got no id")
	}

	last := out.Elements[len(out.Elements)-1]
	if last.Type != model.ElementImage || last.Text != "chart.png" {
		t.Errorf("image element = %+v", last)
	}

	opts.images = staticImages{err: errors.New("collaborator down")}
	_, warns = assemble(doc, opts)
	if len(warns) != 1 {
		t.Errorf("provider failure produced %d warnings, want 1", len(warns))
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := Open(path).Extract()
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("error = %v, want ErrUnsupportedFormat", err)
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatal("error is not a *ParseError")
	}
	if pe.Path != path || pe.Stage != "detect" {
		t.Errorf("context = %+v", pe)
	}
}

const e2eSection = `<?xml version="1.0" encoding="UTF-8"?>
<hs:sec xmlns:hs="urn:s" xmlns:hp="urn:p">
  <hp:p id="1">
    <hp:run charPrIDRef="0">
      <hp:secPr>
        <hp:pagePr width="59528" height="84188">
          <hp:margin left="5668" right="5668" top="5668" bottom="5668"/>
        </hp:pagePr>
      </hp:secPr>
      <hp:t>제1장 사업 개요</hp:t>
    </hp:run>
    <hp:linesegarray>
      <hp:lineseg textpos="0" vertpos="0" vertsize="1200" textheight="1200" baseline="1000" spacing="600" horzpos="0" horzsize="48192"/>
    </hp:linesegarray>
  </hp:p>
  <hp:p id="2">
    <hp:run charPrIDRef="0"><hp:t>이 사업은 예시를 위한 것입니다.</hp:t></hp:run>
  </hp:p>
  <hp:p id="3">
    <hp:run charPrIDRef="0"><hp:t>&lt;표1&gt; 연간 실적</hp:t></hp:run>
  </hp:p>
  <hp:p id="4">
    <hp:run charPrIDRef="0">
      <hp:tbl id="9" rowCnt="2" colCnt="2">
        <hp:sz width="48192" height="5669"/>
        <hp:pos treatAsChar="1"/>
        <hp:tr>
          <hp:tc><hp:cellAddr colAddr="0" rowAddr="0"/><hp:cellSpan colSpan="1" rowSpan="1"/><hp:cellSz width="24096" height="2835"/><hp:subList><hp:p><hp:run><hp:t>구분</hp:t></hp:run></hp:p></hp:subList></hp:tc>
          <hp:tc><hp:cellAddr colAddr="1" rowAddr="0"/><hp:cellSpan colSpan="1" rowSpan="1"/><hp:cellSz width="24096" height="2835"/><hp:subList><hp:p><hp:run><hp:t>실적</hp:t></hp:run></hp:p></hp:subList></hp:tc>
        </hp:tr>
        <hp:tr>
          <hp:tc><hp:cellAddr colAddr="0" rowAddr="1"/><hp:cellSpan colSpan="1" rowSpan="1"/><hp:cellSz width="24096" height="2834"/><hp:subList><hp:p><hp:run><hp:t>매출</hp:t></hp:run></hp:p></hp:subList></hp:tc>
          <hp:tc><hp:cellAddr colAddr="1" rowAddr="1"/><hp:cellSpan colSpan="1" rowSpan="1"/><hp:cellSz width="24096" height="2834"/><hp:subList><hp:p><hp:run><hp:t>120억</hp:t></hp:run></hp:p></hp:subList></hp:tc>
        </hp:tr>
      </hp:tbl>
    </hp:run>
  </hp:p>
</hs:sec>`

func writeTestArchive(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"mimetype":              "application/hwp+zip",
		"version.xml":           `<hv:HCFVersion xmlns:hv="urn:v" major="5" minor="1" micro="0" buildNumber="0"/>`,
		"Contents/content.hpf":  `<opf:package xmlns:opf="urn:o" xmlns:dc="urn:d"><opf:metadata><dc:title>사업 보고서</dc:title></opf:metadata></opf:package>`,
		"Contents/section0.xml": e2eSection,
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "report.hwpx")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractEndToEnd(t *testing.T) {
	path := writeTestArchive(t)

	out, warnings, err := Open(path).Extract()
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v", warnings)
	}

	if out.Title != "사업 보고서" {
		t.Errorf("title = %q", out.Title)
	}
	if out.Format != model.FormatZipXML {
		t.Errorf("format = %v", out.Format)
	}
	if len(out.Headings) != 1 || out.Headings[0].Text != "제1장 사업 개요" {
		t.Fatalf("headings = %+v", out.Headings)
	}
	if len(out.Tables) != 1 || out.Tables[0].Title != "연간 실적" {
		t.Fatalf("tables = %+v", out.Tables)
	}
	if len(out.Pages) == 0 {
		t.Error("no pages reported")
	}

	text := MustExtract(Open(path).Text())
	if !strings.Contains(text, "예시를 위한") {
		t.Errorf("text = %q", text)
	}

	st := MustExtract(Open(path).StructuredText())
	if !strings.Contains(st, "## 제1장 사업 개요") || !strings.Contains(st, "[header] 구분 | 실적") {
		t.Errorf("structured text = %q", st)
	}

	md := MustExtract(Open(path).Markdown())
	if !strings.Contains(md, "## 제1장 사업 개요") || !strings.Contains(md, "| 매출 | 120억 |") {
		t.Errorf("markdown = %q", md)
	}

	chunks := MustExtract(Open(path).ChunkSize(2000).Chunks())
	if len(chunks) < 2 {
		t.Fatalf("chunks = %+v", chunks)
	}
	if !chunks[len(chunks)-1].IsTable {
		t.Error("table chunk missing")
	}
}

func TestExtractorChainImmutable(t *testing.T) {
	base := Open("whatever.hwp")
	derived := base.ChunkSize(10).Sections(2)

	if base.options.chunkSize != defaultChunkSize || base.options.sections != nil {
		t.Errorf("base options mutated: %+v", base.options)
	}
	if derived.options.chunkSize != 10 || len(derived.options.sections) != 1 {
		t.Errorf("derived options = %+v", derived.options)
	}
}
