package store

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/pcwizard/internal/docpath"
	"github.com/tiendc/go-deepcopy"
)

// lookup finds the node at p without copying it.
func lookup(root map[string]any, p docpath.Path) (any, bool, error) {
	var node any = root
	for i, seg := range p.Segments() {
		switch n := node.(type) {
		case nil:
			return nil, false, nil
		case map[string]any:
			if seg.IsIndex() {
				return nil, false, malformed(p, i, "index segment on a map")
			}
			child, ok := n[seg.Key()]
			if !ok {
				return nil, false, nil
			}
			node = child
		case []any:
			if !seg.IsIndex() {
				return nil, false, malformed(p, i, "key segment on a list")
			}
			// nil slots are padding left by a write past the end.
			if seg.Index() >= len(n) || n[seg.Index()] == nil {
				return nil, false, nil
			}
			node = n[seg.Index()]
		default:
			return nil, false, malformed(p, i, fmt.Sprintf("cannot descend into %T", node))
		}
	}
	return node, true, nil
}

// setIn returns node with v assigned at p.Segments()[at:]. Containers are
// only written back once the whole descent has succeeded, so a malformed path
// leaves the tree untouched.
func setIn(node any, p docpath.Path, at int, v any) (any, error) {
	segs := p.Segments()
	if at == len(segs) {
		return v, nil
	}
	seg := segs[at]

	if seg.IsIndex() {
		var list []any
		switch n := node.(type) {
		case nil:
		case []any:
			list = n
		default:
			return nil, malformed(p, at, fmt.Sprintf("index segment on %T", node))
		}
		i := seg.Index()
		var child any
		if i < len(list) {
			child = list[i]
		}
		updated, err := setIn(child, p, at+1, v)
		if err != nil {
			return nil, err
		}
		if i >= len(list) {
			list = append(list, make([]any, i-len(list)+1)...)
		}
		list[i] = updated
		return list, nil
	}

	var m map[string]any
	switch n := node.(type) {
	case nil:
		m = map[string]any{}
	case map[string]any:
		m = n
	default:
		return nil, malformed(p, at, fmt.Sprintf("key segment on %T", node))
	}
	updated, err := setIn(m[seg.Key()], p, at+1, v)
	if err != nil {
		return nil, err
	}
	m[seg.Key()] = updated
	return m, nil
}

// clearIn returns node with the subtree at p.Segments()[at:] removed and
// whether anything was removed.
func clearIn(node any, p docpath.Path, at int) (any, bool, error) {
	segs := p.Segments()
	seg := segs[at]
	last := at == len(segs)-1

	switch n := node.(type) {
	case nil:
		return node, false, nil
	case map[string]any:
		if seg.IsIndex() {
			return nil, false, malformed(p, at, "index segment on a map")
		}
		child, ok := n[seg.Key()]
		if !ok {
			return node, false, nil
		}
		if last {
			delete(n, seg.Key())
			return n, true, nil
		}
		updated, removed, err := clearIn(child, p, at+1)
		if err != nil {
			return nil, false, err
		}
		n[seg.Key()] = updated
		return n, removed, nil
	case []any:
		if !seg.IsIndex() {
			return nil, false, malformed(p, at, "key segment on a list")
		}
		i := seg.Index()
		if i >= len(n) {
			return node, false, nil
		}
		if last {
			return slices.Delete(n, i, i+1), true, nil
		}
		updated, removed, err := clearIn(n[i], p, at+1)
		if err != nil {
			return nil, false, err
		}
		n[i] = updated
		return n, removed, nil
	default:
		return nil, false, malformed(p, at, fmt.Sprintf("cannot descend into %T", node))
	}
}

// clone deep-copies containers; scalars are returned as-is.
func clone(v any) (any, error) {
	switch n := v.(type) {
	case map[string]any:
		var out map[string]any
		if err := deepcopy.Copy(&out, &n); err != nil {
			return nil, fmt.Errorf("copy map: %w", err)
		}
		return out, nil
	case []any:
		var out []any
		if err := deepcopy.Copy(&out, &n); err != nil {
			return nil, fmt.Errorf("copy list: %w", err)
		}
		return out, nil
	default:
		return v, nil
	}
}
