package structure

import "github.com/koradoc/koradoc/model"

// Builder assembles the hierarchical section tree during the assembler's
// single forward pass. It keeps one open section per level; opening a
// section at level n closes everything deeper, so a level-1 heading always
// resets the level-2 and level-3 slots.
type Builder struct {
	roots []*model.HierarchicalSection
	path  [MaxLevel]*model.HierarchicalSection
}

// NewBuilder returns a builder with no open sections.
func NewBuilder() *Builder {
	return &Builder{}
}

// OpenSection starts a new section for a heading and returns it. The level
// is clamped into the supported depth; the parent is the nearest open
// section at a shallower level, or the root list when none is open.
func (b *Builder) OpenSection(id, title string, level int, box model.BBox, page int) *model.HierarchicalSection {
	level = CapLevel(level)

	sec := &model.HierarchicalSection{
		ID:    id,
		Title: title,
		Level: level,
		BBox:  box,
		Page:  page,
	}

	var parent *model.HierarchicalSection
	for l := level - 1; l >= 1; l-- {
		if b.path[l-1] != nil {
			parent = b.path[l-1]
			break
		}
	}
	if parent != nil {
		parent.Children = append(parent.Children, sec)
	} else {
		b.roots = append(b.roots, sec)
	}

	b.path[level-1] = sec
	for l := level; l < MaxLevel; l++ {
		b.path[l] = nil
	}
	return sec
}

// Current returns the deepest open section, or nil before any heading.
func (b *Builder) Current() *model.HierarchicalSection {
	for l := MaxLevel - 1; l >= 0; l-- {
		if b.path[l] != nil {
			return b.path[l]
		}
	}
	return nil
}

// AddContent appends body text to the deepest open section. It reports
// false for text preceding the first heading, which has no section to
// belong to.
func (b *Builder) AddContent(text string) bool {
	sec := b.Current()
	if sec == nil {
		return false
	}
	sec.Content = append(sec.Content, text)
	return true
}

// AddTable attaches a table to the deepest open section, reporting false
// when no section is open.
func (b *Builder) AddTable(t *model.TableStructure) bool {
	sec := b.Current()
	if sec == nil {
		return false
	}
	sec.Tables = append(sec.Tables, t)
	return true
}

// Roots returns the top of the section tree in document order.
func (b *Builder) Roots() []*model.HierarchicalSection {
	return b.roots
}
