package hwp

import (
	"unicode/utf16"

	"golang.org/x/text/encoding/unicode"
)

// Paragraph text is a sequence of little-endian UTF-16 code units where
// values below 32 are inline control characters. Extended controls carry an
// 8-byte parameter block after the code unit.
var extendedControls = map[uint16]bool{
	2: true, 3: true, 11: true, 14: true, 15: true,
	21: true, 23: true, 24: true, 30: true,
}

// DecodeParaText converts a PARA_TEXT payload to plain text. Controls map
// to their visible equivalents: tab stays a tab, line and paragraph breaks
// become newlines, the fixed-width hyphen becomes '-'. Everything else
// below 32 is dropped along with any parameter block.
func DecodeParaText(data []byte) string {
	var out []rune
	var pending []uint16

	flush := func() {
		if len(pending) > 0 {
			out = append(out, utf16.Decode(pending)...)
			pending = pending[:0]
		}
	}

	for i := 0; i+1 < len(data); i += 2 {
		code := uint16(data[i]) | uint16(data[i+1])<<8

		switch {
		case code >= 32:
			pending = append(pending, code)
		case code == 0:
			flush()
			return string(out)
		case code == 9:
			flush()
			out = append(out, '\t')
		case code == 10 || code == 13 || code == 16:
			flush()
			out = append(out, '\n')
		case code == 17:
			flush()
			out = append(out, '-')
		default:
			flush()
			if extendedControls[code] {
				i += 8
			}
		}
	}
	flush()
	return string(out)
}

// DecodeUTF16 decodes a raw little-endian UTF-16 buffer, used for the
// PrvText preview stream and DocInfo strings. Invalid sequences become
// replacement characters rather than errors.
func DecodeUTF16(data []byte) string {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	s, err := dec.Bytes(data)
	if err != nil {
		return ""
	}
	return string(s)
}
