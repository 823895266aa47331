// Package gomap provides a container.Table implementation
// backed by Go's native map for reference and benchmark comparison.
package gomap

import (
	"github.com/graph-guard/inthash/pkg/container"
	"github.com/graph-guard/inthash/pkg/math"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Gomap wraps a Go map. Insert overwrites existing associations.
type Gomap struct {
	m map[int]int
}

var _ container.Table = new(Gomap)

func New(capacity int) *Gomap {
	return &Gomap{
		m: make(map[int]int, capacity),
	}
}

func (m *Gomap) Insert(key, value int) {
	m.m[key] = value
}

func (m *Gomap) Remove(key int) bool {
	if _, ok := m.m[key]; !ok {
		return false
	}
	delete(m.m, key)
	return true
}

func (m *Gomap) Get(key int) (v int, ok bool) {
	v, ok = m.m[key]
	return v, ok
}

func (m *Gomap) Reset() {
	m.m = make(map[int]int)
}

func (m *Gomap) Len() int {
	return len(m.m)
}

// BucketCount equals Len since Go maps don't expose their buckets,
// but is never less than 1.
func (m *Gomap) BucketCount() int {
	return math.Max(len(m.m), 1)
}

// Visit visits entries in ascending key order.
func (m *Gomap) Visit(fn func(key, value int) bool) {
	keys := maps.Keys(m.m)
	slices.Sort(keys)
	for _, k := range keys {
		if fn(k, m.m[k]) {
			break
		}
	}
}

func (m *Gomap) Stats() container.Stats {
	return container.Stats{
		Len:     len(m.m),
		Buckets: m.BucketCount(),
	}
}
