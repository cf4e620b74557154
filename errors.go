package koradoc

import (
	"errors"
	"fmt"

	"github.com/koradoc/koradoc/format"
)

// ErrUnsupportedFormat means the input is neither container format.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ParseError is the single typed error surfaced when a whole document
// fails to parse. It carries enough context for the caller to decide
// between retrying, converting, and skipping.
type ParseError struct {
	Path   string
	Format format.Format
	Stage  string // "detect", "parse", "extract"
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s (%s, stage %s): %v", e.Path, e.Format, e.Stage, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }
