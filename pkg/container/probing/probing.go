// Package probing provides a container.Table resolving collisions
// by open addressing with linear probing.
//
// Slot state is tracked apart from the stored keys so that any integer,
// including 0, is a valid key. Removed entries leave a tombstone behind
// which keeps the probe sequences of other keys intact. Tombstones are
// reused by Insert and dropped whenever the table is rebuilt.
// Every scan visits at most BucketCount slots.
package probing

import (
	"github.com/graph-guard/inthash/pkg/container"
	"github.com/graph-guard/inthash/pkg/hash"
	"github.com/graph-guard/inthash/pkg/math"
	"github.com/phuslu/log"
	"github.com/yourbasic/bit"
)

type slot struct {
	Key   int
	Value int
}

// Table is a linear probing hash table.
type Table struct {
	size       int
	resizes    int
	rehashes   int
	maxLoad    float64
	d          []slot
	occupied   *bit.Set
	tombstones *bit.Set
	hasher     hash.Hasher
	log        *log.Logger
}

var _ container.Table = new(Table)

// New creates a table with bucketCount slots.
// A non-positive bucketCount selects container.DefaultBucketCount.
func New(bucketCount int, opts ...container.Option) *Table {
	o := container.MakeOptions(opts...)
	return &Table{
		maxLoad:    o.MaxLoad,
		d:          make([]slot, container.BucketCount(bucketCount)),
		occupied:   bit.New(),
		tombstones: bit.New(),
		hasher:     o.Hasher,
		log:        o.Logger,
	}
}

// Insert associates value with key overwriting any existing association.
// The table grows before the insertion if the load factor limit is reached.
// Tombstones reaching the limit trigger a rebuild at the same size,
// or growth if live entries already fill half of the limit.
func (m *Table) Insert(key, value int) {
	switch {
	case m.exceeds(m.size):
		m.rebuild(len(m.d) * 2)
		m.resizes++
	case !m.exceeds(m.size + m.tombstones.Size()):
	case float64(m.size) >= float64(len(m.d))*m.maxLoad/2:
		m.rebuild(len(m.d) * 2)
		m.resizes++
	default:
		m.rebuild(len(m.d))
		m.rehashes++
	}

	i, found := m.seek(key)
	if found {
		m.d[i].Value = value
		return
	}
	m.d[i] = slot{Key: key, Value: value}
	m.occupied.Add(i)
	m.tombstones.Delete(i)
	m.size++
}

// Remove replaces the entry for key with a tombstone.
// Noop if the key doesn't exist.
func (m *Table) Remove(key int) bool {
	i, found := m.seek(key)
	if !found {
		return false
	}
	m.d[i] = slot{}
	m.occupied.Delete(i)
	m.tombstones.Add(i)
	m.size--
	return true
}

// Get returns (value, true) if key exists,
// otherwise returns (0, false).
func (m *Table) Get(key int) (value int, ok bool) {
	if i, found := m.seek(key); found {
		return m.d[i].Value, true
	}
	return 0, false
}

// Len returns the number of stored entries.
func (m *Table) Len() int { return m.size }

// BucketCount returns the current number of slots.
func (m *Table) BucketCount() int { return len(m.d) }

// Reset removes all entries and tombstones. The bucket count is kept.
func (m *Table) Reset() {
	for i := range m.d {
		m.d[i] = slot{}
	}
	m.occupied, m.tombstones = bit.New(), bit.New()
	m.size = 0
}

// Visit calls fn for every entry in slot order.
func (m *Table) Visit(fn func(key, value int) (stop bool)) {
	m.occupied.Visit(func(i int) bool {
		return fn(m.d[i].Key, m.d[i].Value)
	})
}

// Stats returns a snapshot of the table's internals.
// Longest is the largest distance between an entry and its home slot.
func (m *Table) Stats() container.Stats {
	s := container.Stats{
		Len:        m.size,
		Buckets:    len(m.d),
		Resizes:    m.resizes,
		Rehashes:   m.rehashes,
		Tombstones: m.tombstones.Size(),
	}
	n := len(m.d)
	m.occupied.Visit(func(i int) bool {
		home := m.hasher.Index(m.d[i].Key, n)
		s.Longest = math.Max(s.Longest, hash.Mod(i-home, n))
		return false
	})
	return s
}

// exceeds reports whether used slots reached the load factor limit.
// A table always keeps at least one empty slot.
func (m *Table) exceeds(used int) bool {
	return float64(used) >= float64(len(m.d))*m.maxLoad ||
		used+1 >= len(m.d)
}

// seek scans at most len(m.d) slots starting at the key's home slot.
// It returns the slot holding key and true, or the slot a new entry
// for key should be placed in and false. Tombstones are skipped
// but the first one encountered is preferred for placement.
func (m *Table) seek(key int) (i int, found bool) {
	n := len(m.d)
	free := -1
	i = m.hasher.Index(key, n)
	for probes := 0; probes < n; probes++ {
		switch {
		case m.occupied.Contains(i):
			if m.d[i].Key == key {
				return i, true
			}
		case m.tombstones.Contains(i):
			if free < 0 {
				free = i
			}
		default:
			if free < 0 {
				free = i
			}
			return free, false
		}
		if i++; i == n {
			i = 0
		}
	}
	return free, false
}

// rebuild reinserts every entry into a fresh array of n slots.
func (m *Table) rebuild(n int) {
	if m.log != nil {
		m.log.Debug().
			Str("table", "probing").
			Int("from", len(m.d)).
			Int("to", n).
			Int("size", m.size).
			Int("tombstones", m.tombstones.Size()).
			Msg("rebuild")
	}
	old, occupied := m.d, m.occupied
	m.d = make([]slot, n)
	m.occupied, m.tombstones = bit.New(), bit.New()
	occupied.Visit(func(j int) bool {
		i := m.hasher.Index(old[j].Key, n)
		for m.occupied.Contains(i) {
			if i++; i == n {
				i = 0
			}
		}
		m.d[i] = old[j]
		m.occupied.Add(i)
		return false
	})
}
