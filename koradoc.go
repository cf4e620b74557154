// Package koradoc provides a fluent API for extracting structured content
// from Korean word-processor documents, covering both container formats:
// the OLE compound binary format and the ZIP-XML format. Extraction yields
// positioned elements (millimeter, page-relative bounding boxes), table
// structures with inferred titles, and a heading-driven section hierarchy
// suited to retrieval pipelines.
//
// Basic usage:
//
//	text, warnings, err := koradoc.Open("document.hwp").Text()
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", koradoc.FormatWarnings(warnings))
//	}
//
// With options:
//
//	chunks, _, err := koradoc.Open("report.hwpx").
//	    Sections(0, 1).
//	    ChunkSize(800).
//	    Chunks()
//
// For lower-level access the hwp and hwpx reader packages are also
// available.
package koradoc

import (
	"github.com/koradoc/koradoc/model"
)

// Open prepares an Extractor for the given file. The file is not touched
// until a terminal operation runs, so configuration chains stay cheap.
//
// Example:
//
//	doc, warnings, err := koradoc.Open("document.hwp").Extract()
func Open(filename string) *Extractor {
	return &Extractor{
		filename: filename,
		options:  defaultOptions(),
	}
}

// FromDocument creates an Extractor over an already-parsed document model,
// useful when the same parse feeds several extractions.
//
// Example:
//
//	doc, _, err := hwp.Parse("document.hwp")
//	if err != nil {
//	    // handle error
//	}
//	text, _, _ := koradoc.FromDocument(doc).StructuredText()
func FromDocument(doc *model.Document) *Extractor {
	return &Extractor{
		doc:     doc,
		loaded:  true,
		options: defaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustExtract wraps a terminal operation returning (T, []Warning, error),
// panicking on error and discarding warnings.
//
// Example:
//
//	text := koradoc.MustExtract(koradoc.Open("document.hwp").Text())
func MustExtract[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
