package structure

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// titleRejectLen rejects a candidate outright; titleVerbatimLen bounds how
// long a plain preceding line may be to pass as a title unchanged.
const (
	titleRejectLen   = 100
	titleVerbatimLen = 50
)

// titlePatterns match explicit table captions; the capture group holds the
// title proper with the marker stripped.
var titlePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^<표\s*\d*>\s*(.+)`),
	regexp.MustCompile(`^표\s*\d+[.:]\s*(.+)`),
	regexp.MustCompile(`^\[표\s*\d*\]\s*(.+)`),
	regexp.MustCompile(`^【표\s*\d*】\s*(.+)`),
}

// TableTitle infers a table's title from the text of the paragraph
// immediately preceding it. Explicit caption markers win and contribute
// only the text after the marker; failing that, a short line not ending a
// sentence passes verbatim. Everything else yields an empty title.
func TableTitle(preceding string) string {
	text := strings.TrimSpace(preceding)
	if text == "" || utf8.RuneCountInString(text) > titleRejectLen {
		return ""
	}

	for _, re := range titlePatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}

	if utf8.RuneCountInString(text) < titleVerbatimLen && !strings.HasSuffix(text, ".") {
		return text
	}
	return ""
}
