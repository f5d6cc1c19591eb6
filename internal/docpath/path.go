// internal/docpath/path.go
package docpath

import (
	"fmt"
	"slices"
	"strings"
)

// Root is the empty path, addressing the whole tree.
var Root = Path{}

// New builds a path from string keys, int indices or Segments, mirroring the
// literal arrays used to address the store, e.g. New("wizard", "config", "Region").
// Any other element type is a programming error.
func New(elems ...any) Path {
	return Root.Append(elems...)
}

// Append returns a new path with the given elements added after p.
func (p Path) Append(elems ...any) Path {
	segs := make([]Segment, len(p.segments), len(p.segments)+len(elems))
	copy(segs, p.segments)
	for _, e := range elems {
		switch v := e.(type) {
		case string:
			segs = append(segs, Key(v))
		case int:
			segs = append(segs, Index(v))
		case Segment:
			segs = append(segs, v)
		case Path:
			segs = append(segs, v.segments...)
		default:
			panic(fmt.Sprintf("docpath: unsupported path element %T", e))
		}
	}
	return Path{segments: segs}
}

// Child returns p extended by a single key or index.
func (p Path) Child(elem any) Path {
	return p.Append(elem)
}

// Len returns the number of segments.
func (p Path) Len() int {
	return len(p.segments)
}

// IsRoot reports whether p addresses the whole tree.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []Segment {
	return slices.Clone(p.segments)
}

// Last returns the final segment. It panics on the root path.
func (p Path) Last() Segment {
	if p.IsRoot() {
		panic("docpath: root path has no last segment")
	}
	return p.segments[len(p.segments)-1]
}

// Parent returns the path without its final segment. The parent of the root
// is the root.
func (p Path) Parent() Path {
	if p.IsRoot() {
		return p
	}
	return Path{segments: slices.Clone(p.segments[:len(p.segments)-1])}
}

// Equal reports whether both paths have the same segments in the same order.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p.segments, other.segments)
}

// HasPrefix reports whether prefix is equal to p or an ancestor of it.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	return slices.Equal(p.segments[:len(prefix.segments)], prefix.segments)
}

// Intersects reports whether one path is a prefix of the other, i.e. a change
// at one of them touches the subtree addressed by the other.
func (p Path) Intersects(other Path) bool {
	return p.HasPrefix(other) || other.HasPrefix(p)
}

// String serializes the path into its canonical representation.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p.segments {
		if i > 0 && !seg.isIndex {
			sb.WriteRune('.')
		}
		sb.WriteString(seg.String())
	}
	return sb.String()
}
