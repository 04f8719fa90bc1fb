// Package pqueue provides a generic minimum-priority heap, adapted from
// the teacher's std/types/priority_queue package. It backs both the LFU
// eviction policy (store/eviction_lfu.go) and the deadline scheduler
// (schedule/scheduler.go), which is why it lives under internal rather
// than inside either consumer.
package pqueue

import (
	"container/heap"

	"golang.org/x/exp/constraints"
)

// Item is a single entry tracked by a Queue. Callers keep the pointer
// returned by Push to later call UpdatePriority or Remove.
type Item[V any, P constraints.Ordered] struct {
	object   V
	priority P
	index    int
}

// Value returns the item's current payload.
func (item *Item[V, P]) Value() V { return item.object }

type heapSlice[V any, P constraints.Ordered] []*Item[V, P]

func (h *heapSlice[V, P]) Len() int { return len(*h) }

func (h *heapSlice[V, P]) Less(i, j int) bool { return (*h)[i].priority < (*h)[j].priority }

func (h *heapSlice[V, P]) Swap(i, j int) {
	(*h)[i], (*h)[j] = (*h)[j], (*h)[i]
	(*h)[i].index = i
	(*h)[j].index = j
}

func (h *heapSlice[V, P]) Push(x any) {
	item := x.(*Item[V, P])
	item.index = len(*h)
	*h = append(*h, item)
}

func (h *heapSlice[V, P]) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*h = old[:n-1]
	return item
}

// Queue is a priority queue ordered by minimum priority.
type Queue[V any, P constraints.Ordered] struct {
	h heapSlice[V, P]
}

// New returns an empty Queue. The zero value is also usable.
func New[V any, P constraints.Ordered]() Queue[V, P] {
	return Queue[V, P]{}
}

// Len returns the number of items in the queue.
func (q *Queue[V, P]) Len() int { return q.h.Len() }

// Push adds value with the given priority and returns a handle for
// later UpdatePriority/Remove calls.
func (q *Queue[V, P]) Push(value V, priority P) *Item[V, P] {
	item := &Item[V, P]{object: value, priority: priority}
	heap.Push(&q.h, item)
	return item
}

// Peek returns the minimum-priority value without removing it.
func (q *Queue[V, P]) Peek() V { return q.h[0].object }

// PeekPriority returns the minimum priority without removing it.
func (q *Queue[V, P]) PeekPriority() P { return q.h[0].priority }

// Pop removes and returns the minimum-priority value.
func (q *Queue[V, P]) Pop() V {
	return heap.Pop(&q.h).(*Item[V, P]).object
}

// UpdatePriority changes item's priority and re-heapifies.
func (q *Queue[V, P]) UpdatePriority(item *Item[V, P], priority P) {
	item.priority = priority
	heap.Fix(&q.h, item.index)
}

// Remove deletes item from the queue regardless of its position.
func (q *Queue[V, P]) Remove(item *Item[V, P]) {
	if item.index < 0 || item.index >= q.h.Len() {
		return
	}
	heap.Remove(&q.h, item.index)
	item.index = -1
}
