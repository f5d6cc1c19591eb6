// internal/docpath/types.go
package docpath

import "fmt"

// Segment is a single step of a Path: either a map key or a list index.
type Segment struct {
	key     string
	index   int
	isIndex bool
}

// Key creates a segment that addresses a map entry.
func Key(name string) Segment {
	return Segment{key: name}
}

// Index creates a segment that addresses a list element. Negative indices
// are a programming error.
func Index(i int) Segment {
	if i < 0 {
		panic(fmt.Sprintf("docpath: negative index %d", i))
	}
	return Segment{index: i, isIndex: true}
}

// IsIndex reports whether the segment addresses a list element.
func (s Segment) IsIndex() bool {
	return s.isIndex
}

// Key returns the map key of a key segment, or "" for index segments.
func (s Segment) Key() string {
	return s.key
}

// Index returns the list index of an index segment, or -1 for key segments.
func (s Segment) Index() int {
	if !s.isIndex {
		return -1
	}
	return s.index
}

// String renders the segment the way it appears inside a canonical path.
func (s Segment) String() string {
	if s.isIndex {
		return fmt.Sprintf("[%d]", s.index)
	}
	return s.key
}

// Path is an immutable address into a document tree. The zero value is the
// root path.
type Path struct {
	segments []Segment
}
