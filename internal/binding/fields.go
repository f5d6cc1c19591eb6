package binding

import (
	"math"

	"github.com/specialistvlad/pcwizard/internal/docpath"
	"github.com/specialistvlad/pcwizard/internal/store"
)

// String binds a text input. Writing "" clears the path.
func String(s *store.Store, p docpath.Path) Field[string] {
	return New(s, p, "", func(v string) bool { return v == "" }, nil)
}

// Bool binds a checkbox. Writing false clears the path.
func Bool(s *store.Store, p docpath.Path) Field[bool] {
	return New(s, p, false, func(v bool) bool { return !v }, nil)
}

// Flag binds a checkbox whose false state is meaningful and therefore stored.
func Flag(s *store.Store, p docpath.Path) Field[bool] {
	return New(s, p, false, nil, nil)
}

// Int binds a numeric input. Writing 0 clears the path.
func Int(s *store.Store, p docpath.Path) Field[int] {
	return New(s, p, 0, func(v int) bool { return v == 0 }, decodeInt)
}

// Strings binds a multi-select. Writing an empty list clears the path.
func Strings(s *store.Store, p docpath.Path) Field[[]string] {
	return New(s, p, nil, func(v []string) bool { return len(v) == 0 }, decodeStrings)
}

func decodeInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	}
	return 0, false
}

func decodeStrings(v any) ([]string, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		s, ok := e.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
