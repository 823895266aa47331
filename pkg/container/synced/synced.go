// Package synced wraps a container.Table behind a single
// read-write lock making it safe for concurrent use.
package synced

import (
	"sync"

	"github.com/graph-guard/inthash/pkg/container"
)

// Table is a container.Table safe for concurrent use.
// Mutations take the write lock, lookups the read lock.
type Table struct {
	mu sync.RWMutex
	t  container.Table
}

var _ container.Table = new(Table)

// New wraps t. t must not be accessed directly afterwards.
func New(t container.Table) *Table {
	return &Table{t: t}
}

func (s *Table) Insert(key, value int) {
	s.mu.Lock()
	s.t.Insert(key, value)
	s.mu.Unlock()
}

func (s *Table) Remove(key int) bool {
	s.mu.Lock()
	ok := s.t.Remove(key)
	s.mu.Unlock()
	return ok
}

func (s *Table) Get(key int) (int, bool) {
	s.mu.RLock()
	v, ok := s.t.Get(key)
	s.mu.RUnlock()
	return v, ok
}

func (s *Table) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Len()
}

func (s *Table) BucketCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.BucketCount()
}

func (s *Table) Reset() {
	s.mu.Lock()
	s.t.Reset()
	s.mu.Unlock()
}

// Visit holds the read lock for the whole iteration,
// fn must not call back into s.
func (s *Table) Visit(fn func(key, value int) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.t.Visit(fn)
}

func (s *Table) Stats() container.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.t.Stats()
}
