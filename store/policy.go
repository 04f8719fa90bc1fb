// Package store implements the in-memory content store (spec.md §3
// "Content store entry", §4.5): a multi-index store keyed by full name,
// with pluggable eviction (FIFO/LRU/LFU/persistent), bounded capacity with
// doubling growth, and interest-matching retrieval. Grounded on the
// teacher's object/storage/store_memory.go for the overall store shape,
// and on ndn-cxx's ims/in-memory-storage-{fifo,lfu}.hpp for the eviction
// policies (see _examples/original_source/ndn-cxx/ims/).
package store

import (
	"time"

	"github.com/ndn-go/ndncore/packet"
)

// Entry is a single content-store entry (spec.md §3 "Content store
// entry").
type Entry struct {
	Data        *packet.Data
	FullNameKey string // canonical byte key, see canonicalKey in store.go
	InsertedAt  time.Time
	FreshUntil  time.Time
	AccessCount uint64
	LastAccess  time.Time

	seq          uint64 // arrival sequence number, for LFU tie-breaking
	policyHandle any    // opaque handle owned by the active Policy
}

// Fresh reports whether the entry is still fresh at time now. An entry
// with a zero FreshnessPeriod (FreshUntil == InsertedAt) is never fresh
// (spec.md §4.5.1 rule 3).
func (e *Entry) Fresh(now time.Time) bool {
	return now.Before(e.FreshUntil)
}

// Policy is the pluggable eviction strategy (spec.md §4.5.2). Each policy
// maintains its own secondary ordering index, updated through these hooks;
// the primary by-full-name index (store.go) is shared by all policies.
type Policy interface {
	// AfterInsert is called once a new entry has been added to the
	// primary index.
	AfterInsert(e *Entry)
	// AfterAccess is called whenever an entry is returned by Find.
	AfterAccess(e *Entry)
	// BeforeErase is called just before an entry is removed from the
	// primary index, whether by explicit Erase or by eviction.
	BeforeErase(e *Entry)
	// EvictItem selects and returns one victim entry to remove, or
	// (nil, false) if the policy never evicts on its own (Persistent).
	EvictItem() (*Entry, bool)
}
