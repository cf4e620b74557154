package hwp

import "encoding/binary"

// Record tag IDs used by this backend. DocInfo tags live in the 0x00 range,
// body-text tags start at 0x42.
const (
	TagDocumentProperties = 0x00
	TagIDMappings         = 0x01
	TagBinData            = 0x02
	TagFaceName           = 0x03
	TagBorderFill         = 0x04
	TagCharShape          = 0x05
	TagParaShape          = 0x09
	TagStyle              = 0x0A

	TagParaHeader    = 0x42
	TagParaText      = 0x43
	TagParaCharShape = 0x44
	TagParaLineSeg   = 0x45
	TagParaRangeTag  = 0x46
	TagCtrlHeader    = 0x47
	TagListHeader    = 0x48
	TagPageDef       = 0x49
	TagFootnoteShape = 0x4A
	TagTable         = 0x4D
	TagTableCell     = 0x4E
)

// File header flag bits.
const (
	FlagCompressed = 0x01
	FlagEncrypted  = 0x02
	FlagDistribute = 0x04
	FlagScript     = 0x08
	FlagDRM        = 0x10
)

// Record is one tagged record from a document stream. The header packs the
// fields into a little-endian uint32: tag in the low 10 bits, nesting level
// in the next 10, size in the top 12.
type Record struct {
	TagID uint16
	Level uint16
	Size  int
	Data  []byte
}

// sizeEscape in the 12-bit size field means the true size follows as a
// 4-byte little-endian integer.
const sizeEscape = 0xFFF

// RecordReader walks a decompressed stream buffer as a lazy record
// sequence. Malformed input truncates the sequence: a record whose declared
// payload exceeds the remaining buffer ends iteration instead of failing.
type RecordReader struct {
	data []byte
	off  int
}

// NewRecordReader returns a reader positioned at the start of the buffer.
func NewRecordReader(data []byte) *RecordReader {
	return &RecordReader{data: data}
}

// Next returns the next record, or ok=false when the stream is exhausted or
// truncated. Record data aliases the underlying buffer.
func (r *RecordReader) Next() (Record, bool) {
	if r.off+4 > len(r.data) {
		return Record{}, false
	}

	header := binary.LittleEndian.Uint32(r.data[r.off:])
	r.off += 4

	rec := Record{
		TagID: uint16(header & 0x3FF),
		Level: uint16((header >> 10) & 0x3FF),
	}
	size := int(header >> 20 & sizeEscape)

	if size == sizeEscape {
		if r.off+4 > len(r.data) {
			r.off = len(r.data)
			return Record{}, false
		}
		size = int(binary.LittleEndian.Uint32(r.data[r.off:]))
		r.off += 4
	}

	if size < 0 || r.off+size > len(r.data) {
		r.off = len(r.data)
		return Record{}, false
	}

	rec.Size = size
	rec.Data = r.data[r.off : r.off+size]
	r.off += size
	return rec, true
}
