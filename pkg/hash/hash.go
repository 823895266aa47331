// Package hash provides bucket index strategies for the integer keyed
// tables in pkg/container and the Horner string hash used to map
// string keys onto integer keys.
package hash

import (
	"encoding/binary"
	"fmt"

	"github.com/pierrec/xxHash/xxHash64"
	"github.com/zeebo/xxh3"
)

// Hasher maps a key onto a bucket index in [0, buckets).
// buckets is always positive.
type Hasher interface {
	Index(key, buckets int) int
}

// Names of the available strategies as used in configuration files.
const (
	NameModulo = "modulo"
	NameXXH3   = "xxh3"
	NameXXH64  = "xxh64"
)

// Modulo indexes a key by its non-negative remainder.
// Negative keys are normalized so that -1 lands in the last bucket.
type Modulo struct{}

// Index returns ((key % buckets) + buckets) % buckets.
func (Modulo) Index(key, buckets int) int {
	return Mod(key, buckets)
}

// Mod is the non-negative remainder of a divided by n.
func Mod(a, n int) int {
	return ((a % n) + n) % n
}

// XXH3 scrambles keys with XXH3 before reducing them,
// which spreads sequential keys across the whole table.
type XXH3 struct {
	Seed uint64
}

// Index hashes the key's little-endian bytes.
func (h XXH3) Index(key, buckets int) int {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(key))
	return int(xxh3.HashSeed(b[:], h.Seed) % uint64(buckets))
}

// XXH64 scrambles keys with XXH64.
type XXH64 struct {
	Seed uint64
}

// Index hashes the key's little-endian bytes.
func (h XXH64) Index(key, buckets int) int {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(key))
	return int(xxHash64.Checksum(b[:], h.Seed) % uint64(buckets))
}

// ByName returns the strategy registered under name.
// An empty name selects Modulo.
func ByName(name string, seed uint64) (Hasher, error) {
	switch name {
	case "", NameModulo:
		return Modulo{}, nil
	case NameXXH3:
		return XXH3{Seed: seed}, nil
	case NameXXH64:
		return XXH64{Seed: seed}, nil
	}
	return nil, fmt.Errorf("unknown hasher %q", name)
}

const (
	HornerBase = 31
	HornerMod  = 1_000_000_009
)

// Horner computes the polynomial rolling hash of s using Horner's method.
// Bytes are sign-extended so that bytes >= 0x80 contribute negative
// values. The result is normalized into [0, mod).
// Horner panics if mod isn't positive.
func Horner(s string, base, mod int) int {
	if mod < 1 {
		panic(fmt.Errorf("hash: non-positive horner modulus %d", mod))
	}
	var h int64
	b, m := int64(base), int64(mod)
	for i := 0; i < len(s); i++ {
		h = (h*b + int64(int8(s[i]))) % m
	}
	if h < 0 {
		h += m
	}
	return int(h)
}

// HornerString is Horner with HornerBase and HornerMod.
func HornerString(s string) int {
	return Horner(s, HornerBase, HornerMod)
}
