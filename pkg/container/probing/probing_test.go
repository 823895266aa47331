package probing_test

import (
	"bytes"
	"testing"

	"github.com/graph-guard/inthash/pkg/container"
	"github.com/graph-guard/inthash/pkg/container/probing"
	"github.com/phuslu/log"
	"github.com/stretchr/testify/require"
)

func TestUpdateInPlace(t *testing.T) {
	m := probing.New(5)
	m.Insert(7, 1)
	m.Insert(7, 2)
	require.Equal(t, 1, m.Len())
	v, ok := m.Get(7)
	require.True(t, ok)
	require.Equal(t, 2, v)

	require.True(t, m.Remove(7))
	require.Zero(t, m.Len())
	_, ok = m.Get(7)
	require.False(t, ok)
}

func TestTombstoneKeepsProbeSequence(t *testing.T) {
	m := probing.New(10)
	m.Insert(1, 10)
	m.Insert(11, 110)
	m.Insert(21, 210)

	require.True(t, m.Remove(11))
	require.Equal(t, 1, m.Stats().Tombstones)

	v, ok := m.Get(21)
	require.True(t, ok, "key behind a tombstone must stay reachable")
	require.Equal(t, 210, v)
	require.True(t, m.Remove(21))
	_, ok = m.Get(21)
	require.False(t, ok)
	require.Equal(t, 2, m.Stats().Tombstones)
}

func TestTombstoneReused(t *testing.T) {
	m := probing.New(10)
	m.Insert(1, 10)
	m.Insert(11, 110)
	m.Insert(21, 210)
	m.Remove(11)

	m.Insert(31, 310)
	s := m.Stats()
	require.Zero(t, s.Tombstones)
	require.Equal(t, 3, s.Len)
	require.Equal(t, 2, s.Longest) // 21 sits two slots past its home
	require.Equal(t, []Entry{{1, 10}, {31, 310}, {21, 210}}, Entries(m))
}

func TestUpdateBehindTombstone(t *testing.T) {
	m := probing.New(10)
	m.Insert(1, 10)
	m.Insert(11, 110)
	m.Insert(21, 210)
	m.Remove(11)

	// Must update 21 in place rather than insert a second entry
	// into the tombstone in front of it.
	m.Insert(21, 999)
	require.Equal(t, 2, m.Len())
	require.Equal(t, 1, m.Stats().Tombstones)
	require.Equal(t, []Entry{{1, 10}, {21, 999}}, Entries(m))
}

func TestKeyZero(t *testing.T) {
	m := probing.New(5)
	m.Insert(0, 0)
	require.Equal(t, 1, m.Len())
	v, ok := m.Get(0)
	require.True(t, ok)
	require.Zero(t, v)

	m.Insert(5, 50)
	require.Equal(t, []Entry{{0, 0}, {5, 50}}, Entries(m))
	require.True(t, m.Remove(0))
	v, ok = m.Get(5)
	require.True(t, ok)
	require.Equal(t, 50, v)
}

func TestLoadFactor(t *testing.T) {
	for _, n := range []int{1, 2, 3, 4, 5, 8, 10} {
		m := probing.New(n)
		for i := 0; i < 200; i++ {
			m.Insert(i*3, i)
			s := m.Stats()
			require.Less(t, s.Len, s.Buckets, "initial %d, after %d inserts", n, i+1)
			require.Less(t, s.Len+s.Tombstones, s.Buckets)
			if i%3 == 0 {
				m.Remove(i * 3)
			}
		}
	}
}

func TestGrowsBeforeInsert(t *testing.T) {
	m := probing.New(8)
	for i := 0; i < 6; i++ {
		m.Insert(i, i)
	}
	require.Equal(t, 8, m.BucketCount())
	// 6 >= 8 * 0.75
	m.Insert(6, 6)
	require.Equal(t, 16, m.BucketCount())
	require.Equal(t, 1, m.Stats().Resizes)
	require.Equal(t, 7, m.Len())
}

func TestCustomMaxLoad(t *testing.T) {
	m := probing.New(8, container.WithMaxLoad(0.5))
	for i := 0; i < 4; i++ {
		m.Insert(i, i)
	}
	require.Equal(t, 8, m.BucketCount())
	m.Insert(4, 4)
	require.Equal(t, 16, m.BucketCount())
}

func TestTombstonePurge(t *testing.T) {
	m := probing.New(10)
	for k := 0; k < 100; k++ {
		m.Insert(k, k)
		require.True(t, m.Remove(k))
	}
	s := m.Stats()
	require.Equal(t, 10, s.Buckets)
	require.Zero(t, s.Resizes)
	require.Greater(t, s.Rehashes, 0)
	require.Less(t, s.Tombstones, 10)
	require.Zero(t, s.Len)
}

func TestChurnNearLimit(t *testing.T) {
	m := probing.New(1024)
	for k := 0; k < 767; k++ {
		m.Insert(k, k)
	}
	require.Equal(t, 1024, m.BucketCount())

	for i := 0; i < 1000; i++ {
		require.True(t, m.Remove(i))
		m.Insert(767+i, i)
	}
	s := m.Stats()
	require.Equal(t, 767, s.Len)
	require.Equal(t, 1, s.Resizes)
	require.LessOrEqual(t, s.Rehashes, 1)
	for k := 1000; k < 1767; k++ {
		v, ok := m.Get(k)
		require.True(t, ok, "key %d", k)
		require.Equal(t, k-767, v)
	}
}

func TestBoundedScan(t *testing.T) {
	m := probing.New(10)
	// Most slots hold tombstones.
	for k := 0; k < 7; k++ {
		m.Insert(k, k)
	}
	for k := 0; k < 7; k++ {
		m.Remove(k)
	}
	for k := 100; k < 102; k++ {
		m.Insert(k, k)
	}
	for k := -50; k < 50; k++ {
		_, ok := m.Get(k)
		require.False(t, ok)
		require.False(t, m.Remove(k))
	}
}

func TestRebuildLogged(t *testing.T) {
	var buf bytes.Buffer
	l := &log.Logger{
		Level:  log.DebugLevel,
		Writer: &log.IOWriter{Writer: &buf},
	}
	m := probing.New(4, container.WithLogger(l))
	for i := 0; i < 3; i++ {
		m.Insert(i, i)
	}
	require.Empty(t, buf.String())

	m.Insert(3, 3)
	require.Contains(t, buf.String(), `"table":"probing"`)
	require.Contains(t, buf.String(), `"from":4`)
	require.Contains(t, buf.String(), `"to":8`)
}

type Entry struct{ Key, Value int }

func Entries(m *probing.Table) (e []Entry) {
	m.Visit(func(key, value int) bool {
		e = append(e, Entry{key, value})
		return false
	})
	return e
}
