// Package structure classifies paragraphs into document structure:
// headings with levels, table titles, and the hierarchical section tree
// they imply. Detection is tuned for Korean administrative and legal
// documents, whose heading conventions (장/조 markers, lettered and
// circled list items) are regular enough for pattern matching.
package structure

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// levelPattern couples a heading pattern with the level it indicates.
type levelPattern struct {
	re    *regexp.Regexp
	level int
}

// headingPatterns are checked in order against trimmed paragraph text;
// the first match decides. Chapter and part markers outrank article and
// clause markers, which outrank lettered and circled sub-items.
var headingPatterns = []levelPattern{
	{regexp.MustCompile(`^제\s*\d+\s*장`), 1},
	{regexp.MustCompile(`^제\s*\d+\s*편`), 1},
	{regexp.MustCompile(`^[ⅠⅡⅢⅣⅤⅥⅦⅧⅨⅩ][.．]?\s*`), 1},

	{regexp.MustCompile(`^제\s*\d+\s*조`), 2},
	{regexp.MustCompile(`^제\s*\d+\s*절`), 2},
	{regexp.MustCompile(`^\d+\.\s+[가-힣]`), 2},
	{regexp.MustCompile(`^[가-다]\.\s`), 2},
	{regexp.MustCompile(`^[1-9]\)\s`), 2},
	{regexp.MustCompile(`^【.+】$`), 2},
	{regexp.MustCompile(`^\[.+\]$`), 2},

	{regexp.MustCompile(`^[가-힣]\)\s`), 3},
	{regexp.MustCompile(`^[ㄱ-ㅎ]\.\s`), 3},
	{regexp.MustCompile(`^[①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮]`), 3},
	{regexp.MustCompile(`^-\s+[가-힣]`), 3},
}

// fallbackMaxLen is the longest text, in runes, the length heuristic will
// still accept as a heading.
const fallbackMaxLen = 50

// sentence-final characters that rule the fallback heuristic out: a full
// stop or the usual Korean sentence-ending syllables.
var sentenceFinal = map[rune]bool{'.': true, '다': true, '요': true, '음': true, '임': true}

// MaxLevel is the deepest heading level the section hierarchy tracks.
// Style-derived levels beyond it still classify as headings but nest at
// this depth.
const MaxLevel = 3

// HeadingLevel classifies a paragraph as a heading, returning its level or
// 0 for plain body text. The checks cascade: an explicit numeric style id
// in 1..6 is authoritative, then the ordered patterns, then a length
// heuristic for short marker-like lines. The order is load bearing;
// ambiguous input classifies differently if it changes.
func HeadingLevel(text, styleID string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	if n, err := strconv.Atoi(styleID); err == nil && n >= 1 && n <= 6 {
		return n
	}

	for _, p := range headingPatterns {
		if p.re.MatchString(text) {
			return p.level
		}
	}

	if fallbackHeading(text) {
		return 2
	}
	return 0
}

// fallbackHeading accepts short lines that read like section markers:
// they do not end a sentence and open with a digit, Korean script, or a
// header bracket. Angle brackets stay out; they open table captions, not
// headings.
func fallbackHeading(text string) bool {
	if utf8.RuneCountInString(text) >= fallbackMaxLen {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(text)
	if sentenceFinal[last] {
		return false
	}
	first, _ := utf8.DecodeRuneInString(text)
	return headingStart(first)
}

func headingStart(r rune) bool {
	switch {
	case unicode.IsDigit(r):
		return true
	case r >= '가' && r <= '힣': // Hangul syllables
		return true
	case r >= 'ㄱ' && r <= 'ㅣ': // Hangul compatibility jamo
		return true
	case r == '[' || r == '【' || r == '「':
		return true
	case r >= '①' && r <= '⑮':
		return true
	}
	return false
}

// CapLevel clamps a heading level into the hierarchy's supported depth.
func CapLevel(level int) int {
	if level > MaxLevel {
		return MaxLevel
	}
	if level < 1 {
		return 1
	}
	return level
}
