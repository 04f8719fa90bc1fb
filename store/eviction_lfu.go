package store

import "github.com/ndn-go/ndncore/internal/pqueue"

// LFU evicts the entry with the smallest access count, breaking ties by
// earliest arrival (spec.md §4.5.2; grounded on ndn-cxx's
// ims/in-memory-storage-lfu.hpp, which the design notes there call out as
// having an arbitrary but deterministic tie-break).
type LFU struct {
	q pqueue.Queue[*Entry, uint64]
}

// lfuPriority packs access count into the high 32 bits and arrival
// sequence into the low 32 bits, so the queue's plain uint64 ordering
// compares by count first and breaks ties by earliest arrival. This
// keeps priority within pqueue's constraints.Ordered requirement, which
// a struct key cannot satisfy.
func lfuPriority(count, seq uint64) uint64 {
	return (count << 32) | (seq & 0xFFFFFFFF)
}

// NewLFU returns an LFU eviction policy.
func NewLFU() *LFU {
	return &LFU{q: pqueue.New[*Entry, uint64]()}
}

func (p *LFU) AfterInsert(e *Entry) {
	e.policyHandle = p.q.Push(e, lfuPriority(e.AccessCount, e.seq))
}

func (p *LFU) AfterAccess(e *Entry) {
	if item, ok := e.policyHandle.(*pqueue.Item[*Entry, uint64]); ok {
		p.q.UpdatePriority(item, lfuPriority(e.AccessCount, e.seq))
	}
}

func (p *LFU) BeforeErase(e *Entry) {
	if item, ok := e.policyHandle.(*pqueue.Item[*Entry, uint64]); ok {
		p.q.Remove(item)
		e.policyHandle = nil
	}
}

func (p *LFU) EvictItem() (*Entry, bool) {
	if p.q.Len() == 0 {
		return nil, false
	}
	return p.q.Peek(), true
}
