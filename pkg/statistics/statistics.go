// Package statistics provides synchronized thread-safe counters
// for operations executed against tables.
package statistics

import (
	"sync/atomic"
	"time"
)

// Op identifies a table operation.
type Op int8

const (
	_ Op = iota
	OpInsert
	OpRemove
	OpGet
)

type OpsSync struct {
	inserts            int64
	removes            int64
	removeMisses       int64
	hits               int64
	misses             int64
	highestOpTime      int64
	averageOpTime      int64
	operationsRecorded int64
}

func NewOpsSync() *OpsSync {
	return &OpsSync{}
}

// Update records one operation. found is the outcome of
// Get and Remove and is ignored for Insert.
func (s *OpsSync) Update(op Op, found bool, opTime time.Duration) {
	recorded := atomic.AddInt64(&s.operationsRecorded, 1)

	switch op {
	case OpInsert:
		atomic.AddInt64(&s.inserts, 1)
	case OpRemove:
		if found {
			atomic.AddInt64(&s.removes, 1)
		} else {
			atomic.AddInt64(&s.removeMisses, 1)
		}
	case OpGet:
		if found {
			atomic.AddInt64(&s.hits, 1)
		} else {
			atomic.AddInt64(&s.misses, 1)
		}
	}

	// Highest operation time
	if int64(opTime) > atomic.LoadInt64(&s.highestOpTime) {
		atomic.StoreInt64(&s.highestOpTime, int64(opTime))
	}

	// Average operation time
	curAvgOpTime := atomic.LoadInt64(&s.averageOpTime)
	atomic.AddInt64(
		&s.averageOpTime,
		(int64(opTime)-curAvgOpTime)/recorded,
	)
}

func (s *OpsSync) GetInserts() int64 {
	return atomic.LoadInt64(&s.inserts)
}

func (s *OpsSync) GetRemoves() int64 {
	return atomic.LoadInt64(&s.removes)
}

func (s *OpsSync) GetRemoveMisses() int64 {
	return atomic.LoadInt64(&s.removeMisses)
}

func (s *OpsSync) GetHits() int64 {
	return atomic.LoadInt64(&s.hits)
}

func (s *OpsSync) GetMisses() int64 {
	return atomic.LoadInt64(&s.misses)
}

func (s *OpsSync) GetOperations() int64 {
	return atomic.LoadInt64(&s.operationsRecorded)
}

func (s *OpsSync) GetHighestOpTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&s.highestOpTime))
}

func (s *OpsSync) GetAverageOpTime() time.Duration {
	return time.Duration(atomic.LoadInt64(&s.averageOpTime))
}
