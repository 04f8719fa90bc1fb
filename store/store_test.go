package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
	"github.com/ndn-go/ndncore/security/signer"
	"github.com/ndn-go/ndncore/store"
)

func mkData(t *testing.T, name names.Name, freshMs uint64, content string) *packet.Data {
	t.Helper()
	d := packet.NewData(name)
	d.SetContent([]byte(content))
	if freshMs > 0 {
		d.SetFreshnessPeriod(freshMs)
	}
	require.NoError(t, d.Sign(signer.NewDigestSigner()))
	return d
}

func nameOf(s string) names.Name {
	parts := []names.Component{}
	cur := ""
	for _, r := range s {
		if r == '/' {
			if cur != "" {
				parts = append(parts, names.NewStringComponent(cur))
				cur = ""
			}
			continue
		}
		cur += string(r)
	}
	if cur != "" {
		parts = append(parts, names.NewStringComponent(cur))
	}
	return names.Parse(parts...)
}

func TestInsertAndFindExact(t *testing.T) {
	s := store.New(store.NewFIFO())
	d := mkData(t, nameOf("/a/b"), 0, "hello")
	require.NoError(t, s.Insert(d))
	require.Equal(t, 1, s.Size())

	interest := packet.NewInterest(nameOf("/a/b"))
	found, ok := s.Find(interest)
	require.True(t, ok)
	require.Equal(t, "hello", string(found.Content))
}

func TestFindPrefixMatch(t *testing.T) {
	s := store.New(store.NewFIFO())
	require.NoError(t, s.Insert(mkData(t, nameOf("/a/b/c"), 0, "leaf")))

	found, ok := s.Find(packet.NewInterest(nameOf("/a/b")))
	require.True(t, ok)
	require.Equal(t, "leaf", string(found.Content))
}

func TestMustBeFreshExcludesStale(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := store.New(store.NewFIFO(), store.WithClock(func() time.Time { return now }))
	require.NoError(t, s.Insert(mkData(t, nameOf("/a"), 1000, "fresh-for-1s")))

	now = now.Add(2 * time.Second) // advance past freshness window

	interest := packet.NewInterest(nameOf("/a"))
	interest.Selectors.MustBeFresh = true
	_, ok := s.Find(interest)
	require.False(t, ok, "stale entry must not satisfy MustBeFresh")

	interest.Selectors.MustBeFresh = false
	_, ok = s.Find(interest)
	require.True(t, ok, "stale entry still satisfies an Interest without MustBeFresh")
}

func TestChildSelectorLeftmostRightmost(t *testing.T) {
	s := store.New(store.NewFIFO())
	require.NoError(t, s.Insert(mkData(t, nameOf("/a/1"), 0, "one")))
	require.NoError(t, s.Insert(mkData(t, nameOf("/a/2"), 0, "two")))

	left := packet.NewInterest(nameOf("/a"))
	left.Selectors.HasChildSelector = true
	left.Selectors.ChildSelector = packet.ChildSelectorLeftmost
	lf, ok := s.Find(left)
	require.True(t, ok)
	require.Equal(t, "one", string(lf.Content))

	right := packet.NewInterest(nameOf("/a"))
	right.Selectors.HasChildSelector = true
	right.Selectors.ChildSelector = packet.ChildSelectorRightmost
	rf, ok := s.Find(right)
	require.True(t, ok)
	require.Equal(t, "two", string(rf.Content))
}

func TestExcludeSelector(t *testing.T) {
	s := store.New(store.NewFIFO())
	require.NoError(t, s.Insert(mkData(t, nameOf("/a/1"), 0, "one")))
	require.NoError(t, s.Insert(mkData(t, nameOf("/a/2"), 0, "two")))

	interest := packet.NewInterest(nameOf("/a"))
	interest.Selectors.HasExclude = true
	interest.Selectors.Exclude = packet.Exclude{Components: []names.Component{names.NewStringComponent("1")}}
	interest.Selectors.HasChildSelector = true
	interest.Selectors.ChildSelector = packet.ChildSelectorLeftmost

	found, ok := s.Find(interest)
	require.True(t, ok)
	require.Equal(t, "two", string(found.Content))
}

func TestFIFOEviction(t *testing.T) {
	s := store.New(store.NewFIFO(), store.WithCapacity(2), store.WithHardLimit(2))
	require.NoError(t, s.Insert(mkData(t, nameOf("/1"), 0, "a")))
	require.NoError(t, s.Insert(mkData(t, nameOf("/2"), 0, "b")))
	require.NoError(t, s.Insert(mkData(t, nameOf("/3"), 0, "c")))

	require.Equal(t, 2, s.Size())
	_, ok := s.Find(packet.NewInterest(nameOf("/1")))
	require.False(t, ok, "oldest entry should have been evicted")
	_, ok = s.Find(packet.NewInterest(nameOf("/3")))
	require.True(t, ok)
}

func TestLRUEvictionSparesRecentlyAccessed(t *testing.T) {
	s := store.New(store.NewLRU(), store.WithCapacity(2), store.WithHardLimit(2))
	require.NoError(t, s.Insert(mkData(t, nameOf("/1"), 0, "a")))
	require.NoError(t, s.Insert(mkData(t, nameOf("/2"), 0, "b")))

	_, ok := s.Find(packet.NewInterest(nameOf("/1"))) // touch /1, making /2 the LRU victim
	require.True(t, ok)

	require.NoError(t, s.Insert(mkData(t, nameOf("/3"), 0, "c")))

	_, ok = s.Find(packet.NewInterest(nameOf("/2")))
	require.False(t, ok, "/2 was least recently used and should be evicted")
	_, ok = s.Find(packet.NewInterest(nameOf("/1")))
	require.True(t, ok, "/1 was recently accessed and should survive")
}

func TestCapacityDoublesBeforeEvicting(t *testing.T) {
	s := store.New(store.NewFIFO(), store.WithCapacity(1), store.WithHardLimit(4))
	require.NoError(t, s.Insert(mkData(t, nameOf("/1"), 0, "a")))
	require.NoError(t, s.Insert(mkData(t, nameOf("/2"), 0, "b")))

	require.Equal(t, 2, s.Capacity(), "capacity should have doubled instead of evicting")
	require.Equal(t, 2, s.Size())

	_, ok := s.Find(packet.NewInterest(nameOf("/1")))
	require.True(t, ok, "no eviction should have occurred while capacity had room to grow")
}

func TestErasePrefix(t *testing.T) {
	s := store.New(store.NewFIFO())
	require.NoError(t, s.Insert(mkData(t, nameOf("/a/1"), 0, "one")))
	require.NoError(t, s.Insert(mkData(t, nameOf("/a/2"), 0, "two")))
	require.NoError(t, s.Insert(mkData(t, nameOf("/b"), 0, "three")))

	n := s.ErasePrefix(nameOf("/a"))
	require.Equal(t, 2, n)
	require.Equal(t, 1, s.Size())
}

func TestFindByFullNameExactDigest(t *testing.T) {
	s := store.New(store.NewFIFO())
	d := mkData(t, nameOf("/a"), 0, "hello")
	require.NoError(t, s.Insert(d))

	full, err := d.FullName()
	require.NoError(t, err)

	interest := packet.NewInterest(full)
	found, ok := s.Find(interest)
	require.True(t, ok)
	require.Equal(t, "hello", string(found.Content))
}

func TestMustBeFreshBypassedByExactFullNameMatch(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := store.New(store.NewFIFO(), store.WithClock(func() time.Time { return now }))
	d := mkData(t, nameOf("/a"), 1000, "fresh-for-1s")
	require.NoError(t, s.Insert(d))

	full, err := d.FullName()
	require.NoError(t, err)

	now = now.Add(2 * time.Second) // advance past freshness window

	interest := packet.NewInterest(full)
	interest.Selectors.MustBeFresh = true
	found, ok := s.Find(interest)
	require.True(t, ok, "an exact full-name match must satisfy MustBeFresh regardless of staleness")
	require.Equal(t, "fresh-for-1s", string(found.Content))
}
