package koradoc

import (
	"strings"

	"github.com/koradoc/koradoc/model"
)

// Warning is a non-fatal issue reported alongside results.
type Warning = model.Warning

// FormatWarnings renders warnings one per line for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	lines := make([]string, len(warnings))
	for i, w := range warnings {
		lines[i] = w.Stage + ": " + w.Message
	}
	return strings.Join(lines, "\n")
}
