// Package hwp reads the OLE compound-document container format. The
// container holds a FileHeader stream describing compression and protection
// flags, a DocInfo stream with shared tables such as fonts, and one
// BodyText/Section stream per section, each a flat sequence of tagged
// binary records.
package hwp

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/richardlehane/mscfb"
	"github.com/richardlehane/msoleps"

	"github.com/koradoc/koradoc/internal/filters"
	"github.com/koradoc/koradoc/model"
)

var (
	// ErrInvalidHeader means the FileHeader stream is missing or does not
	// carry the expected signature.
	ErrInvalidHeader = errors.New("hwp: invalid or missing file header")

	// ErrEncrypted means the document is password protected or packaged
	// for controlled distribution; neither variant can be read.
	ErrEncrypted = errors.New("hwp: document is encrypted")

	// ErrDRMProtected means the document carries DRM and cannot be read.
	ErrDRMProtected = errors.New("hwp: document is DRM protected")
)

const headerSignature = "HWP Document File"

// Parse reads a compound document from disk and builds the parse model.
// Warnings report recoverable oddities such as a stream that would not
// decompress; the error is reserved for documents that cannot be read at
// all.
func Parse(path string) (*model.Document, []model.Warning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return parse(f, path)
}

// ParseBytes builds the parse model from an in-memory compound document.
func ParseBytes(data []byte, path string) (*model.Document, []model.Warning, error) {
	return parse(bytes.NewReader(data), path)
}

func parse(ra io.ReaderAt, path string) (*model.Document, []model.Warning, error) {
	cfb, err := mscfb.New(ra)
	if err != nil {
		return nil, nil, fmt.Errorf("hwp: open container: %w", err)
	}

	streams := make(map[string][]byte)
	for {
		entry, err := cfb.Next()
		if err != nil {
			break
		}
		if entry.Size == 0 {
			continue
		}
		data, err := io.ReadAll(entry)
		if err != nil || len(data) == 0 {
			continue
		}
		streams[streamKey(entry)] = data
	}

	doc := model.NewDocument(path, model.FormatCompound)
	doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	header, err := parseFileHeader(streams["FileHeader"])
	if err != nil {
		return nil, nil, err
	}
	doc.Header = header
	if header.Encrypted || header.Distribution {
		return nil, nil, ErrEncrypted
	}
	if header.DRM {
		return nil, nil, ErrDRMProtected
	}

	var warnings []model.Warning
	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, model.Warning{
			Stage:   "hwp",
			Message: fmt.Sprintf(format, args...),
		})
	}

	unpack := func(name string, data []byte) []byte {
		if !header.Compressed {
			return data
		}
		out, ok := filters.Inflate(data)
		if !ok {
			// some producers leave individual streams stored even
			// when the header claims compression
			warn("stream %s did not decompress, using raw bytes", name)
		}
		return out
	}

	if info, ok := streams["DocInfo"]; ok {
		doc.Fonts = parseFaceNames(unpack("DocInfo", info))
	}

	for _, name := range sectionStreams(streams) {
		data := unpack(name, streams["BodyText/"+name])
		idx := sectionIndex(name)
		doc.Sections = append(doc.Sections, buildSection(data, idx))
	}
	if len(doc.Sections) == 0 {
		warn("no body text sections found")
	}

	if prv, ok := streams["PrvText"]; ok {
		doc.PreviewText = strings.Trim(DecodeUTF16(prv), "\x00 \t\r\n")
	}

	for name, data := range streams {
		if strings.Contains(name, "SummaryInformation") {
			readSummary(doc, data)
			break
		}
	}

	return doc, warnings, nil
}

func streamKey(entry *mscfb.File) string {
	name := strings.TrimLeft(entry.Name, "\x01\x02\x03\x04\x05")
	if len(entry.Path) == 0 {
		return name
	}
	return strings.Join(entry.Path, "/") + "/" + name
}

// parseFileHeader unpacks the 256-byte FileHeader stream: a 32-byte
// signature, the format version, then the attribute flags.
func parseFileHeader(data []byte) (model.FileHeader, error) {
	var h model.FileHeader
	if len(data) < 40 {
		return h, ErrInvalidHeader
	}
	sig := strings.TrimRight(string(data[:32]), "\x00")
	if !strings.HasPrefix(sig, headerSignature) {
		return h, ErrInvalidHeader
	}
	h.Signature = sig
	h.Version = fmt.Sprintf("%d.%d.%d.%d", data[35], data[34], data[33], data[32])
	h.Flags = uint32(data[36]) | uint32(data[37])<<8 | uint32(data[38])<<16 | uint32(data[39])<<24
	h.Compressed = h.Flags&FlagCompressed != 0
	h.Encrypted = h.Flags&FlagEncrypted != 0
	h.Distribution = h.Flags&FlagDistribute != 0
	h.DRM = h.Flags&FlagDRM != 0
	return h, nil
}

// sectionStreams returns the BodyText section stream names in section
// order. Producers are not required to emit directory entries in order.
func sectionStreams(streams map[string][]byte) []string {
	var names []string
	for key := range streams {
		if strings.HasPrefix(key, "BodyText/Section") {
			names = append(names, strings.TrimPrefix(key, "BodyText/"))
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return sectionIndex(names[i]) < sectionIndex(names[j])
	})
	return names
}

func sectionIndex(name string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(name, "Section"))
	if err != nil {
		return 0
	}
	return n
}

// readSummary copies OLE property-set metadata into the document. A title
// property also overrides the filename-derived title.
func readSummary(doc *model.Document, data []byte) {
	props := msoleps.New()
	if err := props.Reset(bytes.NewReader(data)); err != nil {
		return
	}
	for _, p := range props.Property {
		if p == nil || p.Name == "" || p.T == nil {
			continue
		}
		val := strings.TrimSpace(p.T.String())
		if val == "" {
			continue
		}
		doc.Metadata[p.Name] = val
		if strings.EqualFold(p.Name, "title") {
			doc.Title = val
		}
	}
}
