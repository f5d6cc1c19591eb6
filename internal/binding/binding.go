// Package binding connects a single form control to one path of a store.
//
// A binding only transports values: Read returns what is stored (or the
// field's fallback) and Write stores the new value, or clears the path when
// the value is the field's empty sentinel. Bindings never validate.
package binding

import (
	"fmt"

	"github.com/specialistvlad/pcwizard/internal/docpath"
	"github.com/specialistvlad/pcwizard/internal/store"
)

// Field binds values of type T to a path.
type Field[T any] struct {
	store    *store.Store
	path     docpath.Path
	fallback T
	isEmpty  func(T) bool
	decode   func(any) (T, bool)
}

// New creates a binding. isEmpty may be nil, in which case Write always
// stores. decode may be nil, in which case stored values are type-asserted.
func New[T any](s *store.Store, p docpath.Path, fallback T, isEmpty func(T) bool, decode func(any) (T, bool)) Field[T] {
	if decode == nil {
		decode = func(v any) (T, bool) {
			t, ok := v.(T)
			return t, ok
		}
	}
	return Field[T]{store: s, path: p, fallback: fallback, isEmpty: isEmpty, decode: decode}
}

// Path returns the bound path.
func (f Field[T]) Path() docpath.Path {
	return f.path
}

// Read returns the stored value, or the fallback when the path is unset or
// holds a value of another type. A malformed path is a programming error and
// panics.
func (f Field[T]) Read() T {
	v, found, err := f.store.Get(f.path)
	if err != nil {
		panic(fmt.Sprintf("binding: read %s: %v", f.path, err))
	}
	if !found {
		return f.fallback
	}
	t, ok := f.decode(v)
	if !ok {
		return f.fallback
	}
	return t
}

// IsSet reports whether anything is stored at the bound path.
func (f Field[T]) IsSet() bool {
	_, found, err := f.store.Get(f.path)
	if err != nil {
		panic(fmt.Sprintf("binding: read %s: %v", f.path, err))
	}
	return found
}

// Write stores v, or clears the path when v is the empty sentinel.
func (f Field[T]) Write(v T) error {
	if f.isEmpty != nil && f.isEmpty(v) {
		return f.store.Clear(f.path)
	}
	return f.store.Set(f.path, v)
}

// Clear unsets the bound path.
func (f Field[T]) Clear() error {
	return f.store.Clear(f.path)
}
