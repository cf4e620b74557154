// Package format provides container format detection for the koradoc library.
package format

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Format represents a supported document container.
type Format int

const (
	// Unknown indicates an unrecognized container.
	Unknown Format = iota
	// HWP indicates the OLE compound-document binary container.
	HWP
	// HWPX indicates the ZIP-XML container.
	HWPX
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case HWP:
		return "HWP"
	case HWPX:
		return "HWPX"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case HWP:
		return ".hwp"
	case HWPX:
		return ".hwpx"
	default:
		return ""
	}
}

// oleMagic is the compound-document header signature.
var oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}

// Detect determines the file format from the filename extension alone.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".hwp":
		return HWP
	case ".hwpx":
		return HWPX
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine the container format.
// This is more reliable than extension-based detection. ZIP archives are
// returned as HWPX only when the caller cannot inspect further; use
// DetectFromReader to verify the archive actually holds section XML.
func DetectFromMagic(data []byte) Format {
	if len(data) >= len(oleMagic) && string(data[:len(oleMagic)]) == string(oleMagic) {
		return HWP
	}
	if len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return HWPX
	}
	return Unknown
}

// DetectFromReader inspects content to determine the format, verifying a
// ZIP archive's payload before calling it HWPX.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if len(magic) >= len(oleMagic) && string(magic[:len(oleMagic)]) == string(oleMagic) {
		return HWP, nil
	}

	if len(magic) >= 4 && magic[0] == 0x50 && magic[1] == 0x4B && magic[2] == 0x03 && magic[3] == 0x04 {
		return detectZIPFormat(r, size)
	}

	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive for the ZIP-XML container layout:
// a Contents/ directory with section XML, or the declared mimetype.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if f.Name == "mimetype" {
			rc, err := f.Open()
			if err == nil {
				data := make([]byte, 128)
				n, _ := rc.Read(data)
				rc.Close()
				if strings.Contains(string(data[:n]), "hwp") {
					return HWPX, nil
				}
			}
		}
		if strings.HasPrefix(f.Name, "Contents/section") && strings.HasSuffix(f.Name, ".xml") {
			return HWPX, nil
		}
		if f.Name == "Contents/content.hpf" || f.Name == "version.xml" {
			return HWPX, nil
		}
	}
	return Unknown, nil
}

// DetectFile determines the format of a file on disk, preferring content
// sniffing and falling back to the extension when the file cannot be read.
func DetectFile(path string) Format {
	f, err := os.Open(path)
	if err != nil {
		return Detect(path)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Detect(path)
	}

	format, err := DetectFromReader(f, info.Size())
	if err != nil || format == Unknown {
		return Detect(path)
	}
	return format
}
