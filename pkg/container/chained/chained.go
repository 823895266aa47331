// Package chained provides a container.Table resolving collisions
// by separate chaining. Every bucket holds its entries in insertion order.
//
// Insert never checks for an existing key: inserting the same key twice
// stores two entries. Get returns the first of them in chain order
// and Remove removes only the first.
package chained

import (
	"github.com/graph-guard/inthash/pkg/container"
	"github.com/graph-guard/inthash/pkg/hash"
	"github.com/graph-guard/inthash/pkg/math"
	"github.com/phuslu/log"
)

type entry struct {
	Key   int
	Value int
}

type bucket []entry

// Table is a separately chained hash table.
type Table struct {
	size      int
	resizes   int
	threshold int
	d         []bucket
	hasher    hash.Hasher
	log       *log.Logger
}

var _ container.Table = new(Table)

// New creates a table with bucketCount buckets.
// A non-positive bucketCount selects container.DefaultBucketCount.
func New(bucketCount int, opts ...container.Option) *Table {
	o := container.MakeOptions(opts...)
	return &Table{
		threshold: o.ChainThreshold,
		d:         make([]bucket, container.BucketCount(bucketCount)),
		hasher:    o.Hasher,
		log:       o.Logger,
	}
}

func (m *Table) index(key int) int {
	return m.hasher.Index(key, len(m.d))
}

// Insert appends (key, value) to the key's chain.
func (m *Table) Insert(key, value int) {
	i := m.index(key)
	m.d[i] = append(m.d[i], entry{Key: key, Value: value})
	m.size++
	m.maybeResize()
}

// Remove removes the first entry for key in chain order.
// Noop if the key doesn't exist.
func (m *Table) Remove(key int) bool {
	i := m.index(key)
	b := m.d[i]
	for j := range b {
		if b[j].Key == key {
			copy(b[j:], b[j+1:])
			m.d[i] = b[:len(b)-1]
			m.size--
			return true
		}
	}
	return false
}

// Get returns the value of the first entry for key in chain order.
func (m *Table) Get(key int) (value int, ok bool) {
	b := m.d[m.index(key)]
	for j := range b {
		if b[j].Key == key {
			return b[j].Value, true
		}
	}
	return 0, false
}

// Len returns the number of stored entries, duplicates included.
func (m *Table) Len() int { return m.size }

// BucketCount returns the current number of buckets.
func (m *Table) BucketCount() int { return len(m.d) }

// Reset removes all entries. The bucket count is kept.
func (m *Table) Reset() {
	for i := range m.d {
		m.d[i] = m.d[i][:0]
	}
	m.size = 0
}

// Visit calls fn for every entry, bucket by bucket in chain order.
func (m *Table) Visit(fn func(key, value int) (stop bool)) {
	for i := range m.d {
		for _, e := range m.d[i] {
			if fn(e.Key, e.Value) {
				return
			}
		}
	}
}

// Stats returns a snapshot of the table's internals.
func (m *Table) Stats() container.Stats {
	s := container.Stats{
		Len:     m.size,
		Buckets: len(m.d),
		Resizes: m.resizes,
	}
	for i := range m.d {
		s.Longest = math.Max(s.Longest, len(m.d[i]))
	}
	return s
}

// maybeResize doubles the bucket count once the average chain length
// reaches the threshold.
func (m *Table) maybeResize() {
	if m.size/len(m.d) < m.threshold {
		return
	}
	n := len(m.d) * 2
	d := make([]bucket, n)
	for i := range m.d {
		for _, e := range m.d[i] {
			j := m.hasher.Index(e.Key, n)
			d[j] = append(d[j], e)
		}
	}
	if m.log != nil {
		m.log.Debug().
			Str("table", "chained").
			Int("from", len(m.d)).
			Int("to", n).
			Int("size", m.size).
			Msg("resize")
	}
	m.d = d
	m.resizes++
}
