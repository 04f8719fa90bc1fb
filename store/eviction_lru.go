package store

import "container/list"

// LRU evicts the least recently accessed entry, moving an entry to the
// back of the order on every access (spec.md §4.5.2).
type LRU struct {
	order *list.List // front = least recently used
}

// NewLRU returns an LRU eviction policy.
func NewLRU() *LRU {
	return &LRU{order: list.New()}
}

func (p *LRU) AfterInsert(e *Entry) {
	e.policyHandle = p.order.PushBack(e)
}

func (p *LRU) AfterAccess(e *Entry) {
	if el, ok := e.policyHandle.(*list.Element); ok {
		p.order.MoveToBack(el)
	}
}

func (p *LRU) BeforeErase(e *Entry) {
	if el, ok := e.policyHandle.(*list.Element); ok {
		p.order.Remove(el)
		e.policyHandle = nil
	}
}

func (p *LRU) EvictItem() (*Entry, bool) {
	front := p.order.Front()
	if front == nil {
		return nil, false
	}
	return front.Value.(*Entry), true
}
