// Package filters implements stream decompression for the compound-document
// backend. Body-text and document-info streams are raw-deflate compressed
// when the file header's compressed flag is set; real files also contain
// uncompressed streams under the same flag, so inflation falls back to the
// raw bytes instead of failing.
package filters
