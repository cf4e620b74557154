// Package model provides the intermediate representation (IR) for extracted
// document content.
//
// This package defines the data structures shared by the two container
// backends: the hwp package (OLE compound documents) and the hwpx package
// (ZIP-XML containers). Both backends produce the same [Document] tree, so
// everything downstream of parsing (the layout engine, the structure
// classifier, and the extraction assembler) is format-agnostic.
//
// # Document Structure
//
// A [Document] owns ordered [Section] values, one per body-text stream or
// section XML file. Each Section carries its page geometry in native units
// and an ordered list of [Paragraph] values. Paragraphs own their text,
// layout [LineSegment] records, and any embedded [Table] values.
//
// # Units
//
// Positions and sizes on the parse-model types are native HWPUNIT integers
// (1 unit = 1/7200 inch). The [ToMM] and [FromMM] functions convert between
// native units and millimeters; the extraction output types ([BBox],
// [DocumentElement], [TableStructure], [HierarchicalSection]) are always in
// millimeters, page-relative, origin at the page's top-left corner.
package model
