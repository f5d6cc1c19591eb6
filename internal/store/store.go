package store

import (
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/pcwizard/internal/docpath"
	"github.com/tiendc/go-deepcopy"
)

// ErrMalformedPath is returned when a path cannot be applied to the tree.
var ErrMalformedPath = errors.New("malformed path")

// Change describes a single successful mutation.
type Change struct {
	Path    docpath.Path
	Cleared bool
}

// Listener receives change notifications for a subscribed path.
type Listener func(Change)

type subscription struct {
	id   uint64
	path docpath.Path
	fn   Listener
}

// Store is a path-addressed document tree with change subscriptions. It is
// safe for concurrent use; a wizard session drives it from a single logical
// writer.
type Store struct {
	mu     sync.Mutex
	root   map[string]any
	subs   []subscription
	nextID uint64
}

// New creates an empty store.
func New() *Store {
	return &Store{root: map[string]any{}}
}

// Get returns the value at p. found is false when no node exists there,
// which is distinct from a node holding a zero value. A nil list element is
// padding and reads as absent, while a nil map value reads as set. Containers
// are returned as deep copies.
func (s *Store) Get(p docpath.Path) (value any, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node, found, err := lookup(s.root, p)
	if err != nil || !found {
		return nil, false, err
	}

	out, err := clone(node)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

// Set assigns value at p, creating intermediate maps for key segments and
// lists for index segments. Setting an index past the end of a list extends
// it with nil elements. Setting the root requires a map value.
func (s *Store) Set(p docpath.Path, value any) error {
	v, err := normalize(value)
	if err != nil {
		return fmt.Errorf("set %q: %w", p, err)
	}

	s.mu.Lock()
	if p.IsRoot() {
		m, ok := v.(map[string]any)
		if !ok {
			s.mu.Unlock()
			return fmt.Errorf("set %q: %w: root must be a map, got %T", p, ErrMalformedPath, v)
		}
		s.root = m
	} else {
		updated, err := setIn(s.root, p, 0, v)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.root = updated.(map[string]any)
	}
	listeners := s.listenersFor(p)
	s.mu.Unlock()

	notify(listeners, Change{Path: p})
	return nil
}

// Replace swaps the subtree at p for value in one step and returns a copy of
// what was there before, or nil when p was unset.
func (s *Store) Replace(p docpath.Path, value any) (previous any, err error) {
	v, err := normalize(value)
	if err != nil {
		return nil, fmt.Errorf("replace %q: %w", p, err)
	}

	s.mu.Lock()
	old, found, err := lookup(s.root, p)
	if err == nil && found {
		previous, err = clone(old)
	}
	if err == nil {
		if p.IsRoot() {
			m, ok := v.(map[string]any)
			if !ok {
				err = fmt.Errorf("replace %q: %w: root must be a map, got %T", p, ErrMalformedPath, v)
			} else {
				s.root = m
			}
		} else {
			var updated any
			if updated, err = setIn(s.root, p, 0, v); err == nil {
				s.root = updated.(map[string]any)
			}
		}
	}
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	listeners := s.listenersFor(p)
	s.mu.Unlock()

	notify(listeners, Change{Path: p})
	return previous, nil
}

// Clear removes the node at p and everything below it. Clearing a path that
// does not exist is a no-op and does not notify subscribers. Clearing the
// root empties the tree.
func (s *Store) Clear(p docpath.Path) error {
	s.mu.Lock()
	var removed bool
	if p.IsRoot() {
		removed = len(s.root) > 0
		s.root = map[string]any{}
	} else {
		updated, ok, err := clearIn(s.root, p, 0)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		s.root = updated.(map[string]any)
		removed = ok
	}
	var listeners []Listener
	if removed {
		listeners = s.listenersFor(p)
	}
	s.mu.Unlock()

	notify(listeners, Change{Path: p, Cleared: true})
	return nil
}

// Snapshot returns a deep copy of the whole tree.
func (s *Store) Snapshot() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out map[string]any
	if err := deepcopy.Copy(&out, &s.root); err != nil {
		// The tree only ever holds normalised values, which always copy.
		panic(fmt.Sprintf("store: snapshot failed: %v", err))
	}
	return out
}

// Subscribe registers fn for changes intersecting p. The returned function
// removes the subscription; calling it more than once is harmless.
func (s *Store) Subscribe(p docpath.Path, fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, path: p, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// listenersFor must be called with s.mu held.
func (s *Store) listenersFor(p docpath.Path) []Listener {
	var out []Listener
	for _, sub := range s.subs {
		if sub.path.Intersects(p) {
			out = append(out, sub.fn)
		}
	}
	return out
}

func notify(listeners []Listener, c Change) {
	for _, fn := range listeners {
		fn(c)
	}
}

func malformed(p docpath.Path, at int, reason string) error {
	return fmt.Errorf("%w: %q at segment %d: %s", ErrMalformedPath, p, at, reason)
}
