// Package hwpx reads the ZIP-XML container format. The archive holds a
// mimetype marker, a version.xml manifest, a Contents/content.hpf package
// description, and one Contents/sectionN.xml file per section.
package hwpx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/koradoc/koradoc/model"
)

// ErrNoSections means the archive holds no section file that parses; a
// document without any readable body cannot be represented.
var ErrNoSections = errors.New("hwpx: no readable sections")

// Parse reads a ZIP-XML document from disk and builds the parse model.
// A section file with malformed XML is skipped with a warning; the error
// return is reserved for an unreadable archive or a document where every
// section is unreadable.
func Parse(path string) (*model.Document, []model.Warning, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, nil, fmt.Errorf("hwpx: open archive: %w", err)
	}
	defer zr.Close()
	return parse(&zr.Reader, path)
}

// ParseBytes builds the parse model from an in-memory archive.
func ParseBytes(data []byte, path string) (*model.Document, []model.Warning, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("hwpx: open archive: %w", err)
	}
	return parse(zr, path)
}

func parse(zr *zip.Reader, path string) (*model.Document, []model.Warning, error) {
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	doc := model.NewDocument(path, model.FormatZipXML)
	doc.Title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))

	var warnings []model.Warning
	warn := func(format string, args ...interface{}) {
		warnings = append(warnings, model.Warning{
			Stage:   "hwpx",
			Message: fmt.Sprintf(format, args...),
		})
	}

	if f, ok := files["version.xml"]; ok {
		if data, err := readZipFile(f); err == nil {
			readVersion(doc, data)
		}
	}
	if f, ok := files["Contents/content.hpf"]; ok {
		if data, err := readZipFile(f); err == nil {
			readPackage(doc, data)
		}
	}

	for _, name := range sectionFiles(files) {
		data, err := readZipFile(files[name])
		if err != nil {
			warn("read %s: %v", name, err)
			continue
		}
		sec, err := parseSection(data, sectionIndex(name))
		if err != nil {
			warn("parse %s: %v", name, err)
			continue
		}
		doc.Sections = append(doc.Sections, sec)
	}
	if len(doc.Sections) == 0 {
		return nil, warnings, ErrNoSections
	}

	return doc, warnings, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// sectionFiles returns the Contents/sectionN.xml names in section order.
func sectionFiles(files map[string]*zip.File) []string {
	var names []string
	for name := range files {
		base := strings.TrimPrefix(name, "Contents/")
		if base != name && strings.HasPrefix(base, "section") && strings.HasSuffix(base, ".xml") {
			names = append(names, name)
		}
	}
	sort.Slice(names, func(i, j int) bool {
		return sectionIndex(names[i]) < sectionIndex(names[j])
	})
	return names
}

func sectionIndex(name string) int {
	base := strings.TrimSuffix(strings.TrimPrefix(name, "Contents/section"), ".xml")
	n, err := strconv.Atoi(base)
	if err != nil {
		return 0
	}
	return n
}

// readVersion copies the version.xml attributes into the document
// metadata and derives the format version string.
func readVersion(doc *model.Document, data []byte) {
	root, err := parseXML(data)
	if err != nil {
		return
	}
	for name, value := range root.attr {
		if value != "" {
			doc.Metadata["version."+name] = value
		}
	}

	parts := make([]string, 0, 4)
	for _, name := range []string{"major", "minor", "micro", "buildNumber"} {
		if v, ok := root.attr[name]; ok {
			parts = append(parts, v)
		}
	}
	switch {
	case len(parts) > 0:
		doc.Header.Version = strings.Join(parts, ".")
	case root.attr["xmlVersion"] != "":
		doc.Header.Version = root.attr["xmlVersion"]
	}
}

// readPackage pulls document metadata out of the content.hpf package
// description, which follows the OPF layout with a dc-prefixed metadata
// block.
func readPackage(doc *model.Document, data []byte) {
	root, err := parseXML(data)
	if err != nil {
		return
	}
	meta := root.find("metadata")
	if meta == nil {
		return
	}
	for _, c := range meta.children {
		val := strings.TrimSpace(c.text)
		if val == "" {
			continue
		}
		doc.Metadata[c.name] = val
		if c.name == "title" {
			doc.Title = val
		}
	}
}
