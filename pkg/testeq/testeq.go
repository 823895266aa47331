// Package testeq provides comparison helpers for tests
// reporting every difference instead of the first one.
package testeq

import (
	"github.com/google/go-cmp/cmp"
	"github.com/graph-guard/inthash/pkg/container"
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Writer is implemented by *testing.T and *testing.B.
type Writer interface {
	Helper()
	Errorf(fmt string, v ...any)
}

// Maps reports mismatching, missing and unexpected keys
// in ascending key order. Values are compared with cmp.Equal.
func Maps[K constraints.Ordered, V any](
	writer Writer,
	title string,
	expected, actual map[K]V,
) (ok bool) {
	writer.Helper()
	ok = true

	expKeys := maps.Keys(expected)
	slices.Sort(expKeys)
	for _, k := range expKeys {
		ev := expected[k]
		av, found := actual[k]
		if !found {
			writer.Errorf("missing %s %v (%v)", title, k, ev)
			ok = false
			continue
		}
		if !cmp.Equal(ev, av) {
			writer.Errorf(
				"mismatching %s %v: expected %v, got %v",
				title, k, ev, av,
			)
			ok = false
		}
	}

	actKeys := maps.Keys(actual)
	slices.Sort(actKeys)
	for _, k := range actKeys {
		if _, found := expected[k]; !found {
			writer.Errorf("unexpected %s %v (%v)", title, k, actual[k])
			ok = false
		}
	}
	return ok
}

// Table compares the entries of t against expected.
// Duplicate keys in t are reported as errors.
func Table(writer Writer, expected map[int]int, t container.Table) (ok bool) {
	writer.Helper()
	actual := make(map[int]int, t.Len())
	ok = true
	t.Visit(func(key, value int) bool {
		if _, dup := actual[key]; dup {
			writer.Errorf("duplicate key %d", key)
			ok = false
		}
		actual[key] = value
		return false
	})
	if t.Len() != len(expected) {
		writer.Errorf("expected length %d, got %d", len(expected), t.Len())
		ok = false
	}
	for k, v := range expected {
		if got, found := t.Get(k); !found || got != v {
			writer.Errorf(
				"get %d: expected (%d, true), got (%d, %t)",
				k, v, got, found,
			)
			ok = false
		}
	}
	return Maps(writer, "key", expected, actual) && ok
}
