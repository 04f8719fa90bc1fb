// Package schedule implements a deadline scheduler layered over a single
// underlying timer primitive (spec.md §4.6). Many logical, cancellable
// events share one armed callback on the reactor's ndn.Timer; the
// scheduler keeps them ordered in a min-heap by deadline and only ever
// arms the underlying timer for the single earliest pending deadline.
// Grounded on the teacher's engine/basic/timer.go Timer contract and
// internal/pqueue (itself adapted from the teacher's generic priority
// queue).
package schedule

import (
	"time"

	"github.com/ndn-go/ndncore/internal/pqueue"
	"github.com/ndn-go/ndncore/ndn"
)

// EventID identifies a scheduled event for later cancellation. The zero
// value never refers to a real event.
type EventID uint64

type event struct {
	id       EventID
	deadline time.Time
	f        func()
	canceled bool
}

// Scheduler multiplexes many deadline-ordered callbacks onto one
// underlying ndn.Timer.
type Scheduler struct {
	timer   ndn.Timer
	pq      pqueue.Queue[*event, int64]
	byID    map[EventID]*event
	nextID  EventID
	armedAt *time.Time
	cancel  func() error

	dispatching bool
}

// New returns a Scheduler driven by timer.
func New(timer ndn.Timer) *Scheduler {
	return &Scheduler{
		timer:  timer,
		pq:     pqueue.New[*event, int64](),
		byID:   make(map[EventID]*event),
		nextID: 1,
	}
}

// Schedule arranges for f to run after d has elapsed (measured from the
// timer's current time) and returns an id that can be passed to Cancel.
func (s *Scheduler) Schedule(d time.Duration, f func()) EventID {
	if d < 0 {
		d = 0
	}
	id := s.nextID
	s.nextID++
	e := &event{id: id, deadline: s.timer.Now().Add(d), f: f}
	s.byID[id] = e
	s.pq.Push(e, e.deadline.UnixNano())

	if !s.dispatching {
		s.rearm()
	}
	return id
}

// Cancel tombstones the event with the given id, preventing it from
// firing if it hasn't already. Reports whether an event was actually
// canceled.
func (s *Scheduler) Cancel(id EventID) bool {
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	e.canceled = true
	delete(s.byID, id)

	if !s.dispatching {
		s.rearm()
	}
	return true
}

// Pending returns the number of events that have not yet fired or been
// canceled.
func (s *Scheduler) Pending() int {
	return len(s.byID)
}

// rearm cancels any currently-armed underlying timer callback and arms a
// new one for the earliest live (non-canceled) event, lazily discarding
// tombstoned entries from the front of the heap as it goes.
func (s *Scheduler) rearm() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
		s.armedAt = nil
	}
	for s.pq.Len() > 0 {
		e := s.pq.Peek()
		if e.canceled {
			s.pq.Pop()
			continue
		}
		deadline := e.deadline
		delay := deadline.Sub(s.timer.Now())
		if delay < 0 {
			delay = 0
		}
		s.cancel = s.timer.Schedule(delay, s.onFire)
		s.armedAt = &deadline
		return
	}
}

// onFire is invoked by the underlying timer. It pops and runs every
// event whose deadline has arrived, in deadline order, then rearms once
// for whatever remains. The dispatching guard ensures that callbacks
// which themselves call Schedule or Cancel don't trigger a rearm per
// call — only a single rearm after the whole batch has run, so an
// in-callback Schedule can never race the still-executing dispatch loop.
func (s *Scheduler) onFire() {
	s.dispatching = true
	s.cancel = nil
	s.armedAt = nil

	now := s.timer.Now()
	var due []*event
	for s.pq.Len() > 0 {
		e := s.pq.Peek()
		if e.deadline.After(now) {
			break
		}
		s.pq.Pop()
		if e.canceled {
			continue
		}
		delete(s.byID, e.id)
		due = append(due, e)
	}

	for _, e := range due {
		e.f()
	}

	s.dispatching = false
	s.rearm()
}
