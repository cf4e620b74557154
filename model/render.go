package model

import (
	"fmt"
	"strings"
)

// ToMarkdown renders the table as a GitHub-style markdown table, title in
// bold above when present.
func (t *TableStructure) ToMarkdown() string {
	var lines []string
	if t.Title != "" {
		lines = append(lines, fmt.Sprintf("**%s**", t.Title), "")
	}

	all := append(append([][]string{}, t.Headers...), t.Rows...)
	if len(all) == 0 {
		return strings.Join(lines, "\n")
	}

	maxCols := 0
	for _, row := range all {
		if len(row) > maxCols {
			maxCols = len(row)
		}
	}

	for i, row := range all {
		cells := make([]string, maxCols)
		for j := range cells {
			if j < len(row) {
				cells[j] = escapeCell(row[j])
			}
		}
		lines = append(lines, "| "+strings.Join(cells, " | ")+" |")
		if i == len(t.Headers)-1 && len(t.Headers) > 0 {
			sep := make([]string, maxCols)
			for j := range sep {
				sep[j] = "---"
			}
			lines = append(lines, "|"+strings.Join(sep, "|")+"|")
		}
	}
	return strings.Join(lines, "\n")
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// StructuredText renders the table in a labeled line-per-row form that
// language models handle better than raw grids.
func (t *TableStructure) StructuredText() string {
	var lines []string
	if t.Title != "" {
		lines = append(lines, fmt.Sprintf("[table title] %s", t.Title))
	}
	for i, h := range t.Headers {
		label := "[header]"
		if i > 0 {
			label = "[subheader]"
		}
		lines = append(lines, label+" "+strings.Join(h, " | "))
	}
	for i, row := range t.Rows {
		lines = append(lines, fmt.Sprintf("[row %d] %s", i+1, strings.Join(row, " | ")))
	}
	return strings.Join(lines, "\n")
}

// StructuredText renders the section subtree as heading-marked text.
func (s *HierarchicalSection) StructuredText() string {
	var b strings.Builder
	s.writeStructured(&b)
	return b.String()
}

func (s *HierarchicalSection) writeStructured(b *strings.Builder) {
	b.WriteString(strings.Repeat("#", s.Level+1))
	b.WriteString(" ")
	b.WriteString(s.Title)
	b.WriteString("\n\n")
	for _, c := range s.Content {
		if strings.TrimSpace(c) != "" {
			b.WriteString(c)
			b.WriteString("\n\n")
		}
	}
	for _, t := range s.Tables {
		b.WriteString(t.StructuredText())
		b.WriteString("\n\n")
	}
	for _, child := range s.Children {
		child.writeStructured(b)
	}
}

// StructuredText renders the whole extraction as hierarchy-preserving text,
// the form intended for chunking into a retrieval index.
func (d *ExtractedDocument) StructuredText() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Title)
	fmt.Fprintf(&b, "[document type] %s\n", strings.ToUpper(d.Format.String()))
	fmt.Fprintf(&b, "[pages] %d\n\n", len(d.Pages))

	if len(d.Sections) > 0 {
		for _, s := range d.Sections {
			b.WriteString(s.StructuredText())
		}
	} else {
		currentPage := -1
		for _, e := range d.Elements {
			if e.Page != currentPage {
				currentPage = e.Page
				fmt.Fprintf(&b, "## page %d\n\n", currentPage+1)
			}
			switch e.Type {
			case ElementHeading:
				level := e.Level
				if level < 1 {
					level = 1
				}
				b.WriteString(strings.Repeat("#", level+2))
				b.WriteString(" ")
				b.WriteString(e.Text)
				b.WriteString("\n\n")
			case ElementParagraph:
				if strings.TrimSpace(e.Text) != "" {
					b.WriteString(strings.TrimSpace(e.Text))
					b.WriteString("\n\n")
				}
			}
		}
	}

	if len(d.Tables) > 0 {
		b.WriteString("## tables\n\n")
		for i, t := range d.Tables {
			fmt.Fprintf(&b, "### table %d\n", i+1)
			b.WriteString(t.StructuredText())
			b.WriteString("\n\n")
		}
	}
	return b.String()
}

// Chunk is one retrieval-ready piece of the document with its provenance.
type Chunk struct {
	Text    string
	Title   string
	Level   int
	Page    int
	Source  string
	IsTable bool
}

// RAGChunks splits the extraction into chunks of at most maxSize runes,
// one chunk per hierarchical section where it fits, paragraph-split where
// it does not. Tables always become their own chunk.
func (d *ExtractedDocument) RAGChunks(maxSize int) []Chunk {
	if maxSize <= 0 {
		maxSize = 1000
	}
	var chunks []Chunk

	for _, s := range d.Sections {
		text := s.StructuredText()
		if len([]rune(text)) <= maxSize {
			chunks = append(chunks, Chunk{
				Text: strings.TrimSpace(text), Title: s.Title,
				Level: s.Level, Page: s.Page, Source: d.SourcePath,
			})
			continue
		}
		current := fmt.Sprintf("## %s\n\n", s.Title)
		for _, content := range s.Content {
			if len([]rune(current))+len([]rune(content)) > maxSize {
				if strings.TrimSpace(current) != "" {
					chunks = append(chunks, Chunk{
						Text: strings.TrimSpace(current), Title: s.Title,
						Level: s.Level, Page: s.Page, Source: d.SourcePath,
					})
				}
				current = fmt.Sprintf("## %s (cont.)\n\n%s\n\n", s.Title, content)
			} else {
				current += content + "\n\n"
			}
		}
		if strings.TrimSpace(current) != "" {
			chunks = append(chunks, Chunk{
				Text: strings.TrimSpace(current), Title: s.Title,
				Level: s.Level, Page: s.Page, Source: d.SourcePath,
			})
		}
	}

	for _, t := range d.Tables {
		chunks = append(chunks, Chunk{
			Text: t.StructuredText(), Title: t.Title,
			Page: t.Page, Source: d.SourcePath, IsTable: true,
		})
	}
	return chunks
}
