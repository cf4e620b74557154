package koradoc

// ExtractOptions holds configuration for an extraction.
type ExtractOptions struct {
	// Section selection (0-indexed; nil means all sections)
	sections []int

	// Maximum chunk size in runes for Chunks()
	chunkSize int

	// Optional collaborator supplying embedded images
	images ImageProvider
}

const defaultChunkSize = 1000

// defaultOptions returns the default extraction options.
func defaultOptions() ExtractOptions {
	return ExtractOptions{
		sections:  nil,
		chunkSize: defaultChunkSize,
	}
}

// clone creates a deep copy of ExtractOptions.
func (o ExtractOptions) clone() ExtractOptions {
	newOpts := ExtractOptions{
		chunkSize: o.chunkSize,
		images:    o.images,
	}
	if o.sections != nil {
		newOpts.sections = make([]int, len(o.sections))
		copy(newOpts.sections, o.sections)
	}
	return newOpts
}

// wantSection reports whether a section index is selected.
func (o ExtractOptions) wantSection(idx int) bool {
	if o.sections == nil {
		return true
	}
	for _, s := range o.sections {
		if s == idx {
			return true
		}
	}
	return false
}
