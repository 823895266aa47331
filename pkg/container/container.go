// Package container defines the contract shared by the integer keyed
// hash tables in its subpackages.
package container

import (
	"github.com/graph-guard/inthash/pkg/hash"
	"github.com/phuslu/log"
)

const (
	// DefaultBucketCount is used when a table is constructed
	// with a non-positive bucket count.
	DefaultBucketCount = 10

	// DefaultChainThreshold is the average chain length
	// at which a chained table grows.
	DefaultChainThreshold = 3

	// DefaultMaxLoad is the load factor at which a probing table grows.
	DefaultMaxLoad = 0.75
)

// Table maps integer keys to integer values.
//
// Implementations are not safe for concurrent use,
// see package synced for a locking wrapper.
type Table interface {
	// Insert associates value with key.
	Insert(key, value int)

	// Remove removes the entry for key and reports whether it existed.
	Remove(key int) (removed bool)

	// Get returns (value, true) if key exists,
	// otherwise returns (0, false).
	Get(key int) (value int, ok bool)

	// Len returns the number of stored entries.
	Len() int

	// BucketCount returns the current number of buckets.
	BucketCount() int

	// Reset removes all entries keeping the current bucket count.
	Reset()

	// Visit calls fn for every stored entry in bucket order.
	// Returns immediately if fn returns true.
	Visit(fn func(key, value int) (stop bool))

	// Stats returns a snapshot of the table's internals.
	Stats() Stats
}

// Stats is a snapshot of a table's internal state.
type Stats struct {
	Len        int
	Buckets    int
	Resizes    int // growth events
	Rehashes   int // same-size rehashes purging tombstones
	Tombstones int
	Longest    int // longest chain, or longest probe distance
}

// LoadFactor returns Len / Buckets.
func (s Stats) LoadFactor() float64 {
	if s.Buckets == 0 {
		return 0
	}
	return float64(s.Len) / float64(s.Buckets)
}

// Options carries the tuning parameters accepted by the table constructors.
type Options struct {
	Hasher         hash.Hasher
	Logger         *log.Logger
	ChainThreshold int
	MaxLoad        float64
}

// Option modifies Options.
type Option func(*Options)

// WithHasher sets the bucket index strategy. nil selects hash.Modulo.
func WithHasher(h hash.Hasher) Option {
	return func(o *Options) { o.Hasher = h }
}

// WithLogger enables debug logging of resize events.
func WithLogger(l *log.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithChainThreshold sets the average chain length triggering growth.
func WithChainThreshold(n int) Option {
	return func(o *Options) { o.ChainThreshold = n }
}

// WithMaxLoad sets the probing load factor triggering growth.
// Must be in (0, 1).
func WithMaxLoad(f float64) Option {
	return func(o *Options) { o.MaxLoad = f }
}

// MakeOptions applies opts over the defaults
// and replaces invalid values with their defaults.
func MakeOptions(opts ...Option) Options {
	o := Options{
		Hasher:         hash.Modulo{},
		ChainThreshold: DefaultChainThreshold,
		MaxLoad:        DefaultMaxLoad,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.Hasher == nil {
		o.Hasher = hash.Modulo{}
	}
	if o.ChainThreshold < 1 {
		o.ChainThreshold = DefaultChainThreshold
	}
	if !(o.MaxLoad > 0 && o.MaxLoad < 1) {
		o.MaxLoad = DefaultMaxLoad
	}
	return o
}

// BucketCount returns n if positive, otherwise DefaultBucketCount.
func BucketCount(n int) int {
	if n < 1 {
		return DefaultBucketCount
	}
	return n
}
