package store

import "container/list"

// FIFO evicts the entry that was inserted first, ignoring subsequent
// accesses (spec.md §4.5.2; grounded on ndn-cxx's
// ims/in-memory-storage-fifo.hpp, which keeps arrival order in a plain
// queue).
type FIFO struct {
	order *list.List // front = oldest
}

// NewFIFO returns a FIFO eviction policy.
func NewFIFO() *FIFO {
	return &FIFO{order: list.New()}
}

func (p *FIFO) AfterInsert(e *Entry) {
	e.policyHandle = p.order.PushBack(e)
}

func (p *FIFO) AfterAccess(*Entry) {
	// FIFO order is unaffected by access (spec.md §4.5.2).
}

func (p *FIFO) BeforeErase(e *Entry) {
	if el, ok := e.policyHandle.(*list.Element); ok {
		p.order.Remove(el)
		e.policyHandle = nil
	}
}

func (p *FIFO) EvictItem() (*Entry, bool) {
	front := p.order.Front()
	if front == nil {
		return nil, false
	}
	return front.Value.(*Entry), true
}
