package store

import (
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/ndn-go/ndncore/names"
	"github.com/ndn-go/ndncore/packet"
)

// defaultCapacity matches spec.md §6.4's documented default for the
// in-memory store.
const defaultCapacity = 16

// defaultHardLimit bounds how far capacity is allowed to double before
// the store falls back to evicting instead of growing further.
const defaultHardLimit = 1 << 16

// Store is an in-memory, name-indexed cache of Data packets (spec.md
// §4.5). It is not safe for concurrent use without external
// synchronization, matching the teacher's object/storage store, which
// is always driven from a single reactor goroutine.
type Store struct {
	buckets  map[uint64][]*Entry // primary index: xxhash(canonical full name) -> chain
	count    int
	capacity int // 0 means unbounded, only meaningful with Persistent
	hardLimit int
	policy   Policy
	nextSeq  uint64
	now      func() time.Time
}

// Option configures a new Store.
type Option func(*Store)

// WithCapacity sets the initial capacity (spec.md §6.4 default 16).
func WithCapacity(n int) Option {
	return func(s *Store) { s.capacity = n }
}

// WithHardLimit caps how large capacity is allowed to grow via doubling.
func WithHardLimit(n int) Option {
	return func(s *Store) { s.hardLimit = n }
}

// WithClock overrides the time source, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New returns an empty Store using the given eviction policy.
func New(policy Policy, opts ...Option) *Store {
	s := &Store{
		buckets:   make(map[uint64][]*Entry),
		capacity:  defaultCapacity,
		hardLimit: defaultHardLimit,
		policy:    policy,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// canonicalKey builds the map key used by the primary index.
func canonicalKey(n names.Name) string {
	return n.Key()
}

// Size returns the number of entries currently stored.
func (s *Store) Size() int { return s.count }

// Capacity returns the current capacity ceiling.
func (s *Store) Capacity() int { return s.capacity }

// SetCapacity changes the capacity ceiling, evicting entries via the
// policy until size fits if the new capacity is smaller and nonzero
// (spec.md §4.5.2).
func (s *Store) SetCapacity(n int) {
	s.capacity = n
	if n <= 0 {
		return
	}
	for s.count > n {
		victim, ok := s.policy.EvictItem()
		if !ok {
			return
		}
		s.removeEntry(victim)
	}
}

func (s *Store) bucketFor(key string) uint64 {
	return xxhash.Sum64String(key)
}

func (s *Store) lookup(key string) *Entry {
	for _, e := range s.buckets[s.bucketFor(key)] {
		if e.FullNameKey == key {
			return e
		}
	}
	return nil
}

// Insert adds data to the store under its FullName, overwriting any
// existing entry with the same full name (spec.md §4.5). The entry's
// freshness window is the Data's MetaInfo.FreshnessPeriod (zero or absent
// means "never fresh", per spec.md §4.5.1 rule 3); Insert takes no
// separate window argument.
func (s *Store) Insert(data *packet.Data) error {
	fullName, err := data.FullName()
	if err != nil {
		return err
	}
	key := canonicalKey(fullName)

	if existing := s.lookup(key); existing != nil {
		s.policy.BeforeErase(existing)
		s.replaceEntry(existing, data, key)
		s.policy.AfterInsert(existing)
		return nil
	}

	s.makeRoom()

	e := &Entry{FullNameKey: key, seq: s.nextSeq}
	s.nextSeq++
	s.replaceEntry(e, data, key)
	hash := s.bucketFor(key)
	s.buckets[hash] = append(s.buckets[hash], e)
	s.count++
	s.policy.AfterInsert(e)
	return nil
}

func (s *Store) replaceEntry(e *Entry, data *packet.Data, key string) {
	now := s.now()
	e.Data = data
	e.FullNameKey = key
	e.InsertedAt = now
	e.FreshUntil = now
	if data.HasMeta && data.Meta.HasFreshness && data.Meta.FreshnessPeriod > 0 {
		e.FreshUntil = now.Add(data.Meta.FreshnessPeriod)
	}
	e.AccessCount = 0
	e.LastAccess = now
}

// makeRoom ensures there is space for one more entry, growing capacity
// (doubling, up to hardLimit) when the policy can tolerate it, and
// falling back to a single eviction otherwise (spec.md §4.5.2 "capacity
// doubling growth").
func (s *Store) makeRoom() {
	if s.capacity <= 0 {
		return // unbounded store (Persistent with capacity 0, spec.md §6.4)
	}
	if s.count < s.capacity {
		return
	}
	if s.capacity < s.hardLimit {
		newCap := s.capacity * 2
		if newCap > s.hardLimit {
			newCap = s.hardLimit
		}
		if newCap > s.capacity {
			s.capacity = newCap
			return
		}
	}
	if victim, ok := s.policy.EvictItem(); ok {
		s.removeEntry(victim)
	}
	// If the policy has nothing to evict (Persistent at its hard limit),
	// the insert proceeds and size temporarily exceeds capacity.
}

func (s *Store) removeEntry(e *Entry) {
	s.policy.BeforeErase(e)
	hash := s.bucketFor(e.FullNameKey)
	chain := s.buckets[hash]
	for i, c := range chain {
		if c == e {
			chain = append(chain[:i], chain[i+1:]...)
			break
		}
	}
	if len(chain) == 0 {
		delete(s.buckets, hash)
	} else {
		s.buckets[hash] = chain
	}
	s.count--
}

// EraseByFullName removes the entry with the given full name, if any.
// Reports whether an entry was removed.
func (s *Store) EraseByFullName(fullName names.Name) bool {
	key := canonicalKey(fullName)
	e := s.lookup(key)
	if e == nil {
		return false
	}
	s.removeEntry(e)
	return true
}

// ErasePrefix removes every entry whose name has prefix as a prefix,
// returning the number of entries removed.
func (s *Store) ErasePrefix(prefix names.Name) int {
	var victims []*Entry
	for _, chain := range s.buckets {
		for _, e := range chain {
			if prefix.IsPrefixOf(e.Data.Name()) {
				victims = append(victims, e)
			}
		}
	}
	for _, e := range victims {
		s.removeEntry(e)
	}
	return len(victims)
}

// FindByFullName returns the entry exactly matching fullName, if any, and
// records an access against it.
func (s *Store) FindByFullName(fullName names.Name) (*packet.Data, bool) {
	e := s.lookup(canonicalKey(fullName))
	if e == nil {
		return nil, false
	}
	s.touch(e)
	return e.Data, true
}

func (s *Store) touch(e *Entry) {
	e.AccessCount++
	e.LastAccess = s.now()
	s.policy.AfterAccess(e)
}

// all returns every entry currently stored, for linear-scan matching.
// The store is sized for a client-side cache (default capacity 16), so a
// full scan per Interest is acceptable; spec.md does not mandate
// sub-linear lookup.
func (s *Store) all() []*Entry {
	out := make([]*Entry, 0, s.count)
	for _, chain := range s.buckets {
		out = append(out, chain...)
	}
	return out
}
