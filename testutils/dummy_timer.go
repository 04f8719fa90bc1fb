// Package testutils provides deterministic test doubles shared across
// this repository's test suites.
package testutils

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

type dummyEvent struct {
	t time.Time
	f func()
}

// DummyTimer is a manually-advanced ndn.Timer for deterministic tests: no
// wall-clock time passes except when MoveForward is called. Grounded on
// the teacher's std/engine/basic/dummy_timer.go.
type DummyTimer struct {
	mu     sync.Mutex
	now    time.Time
	events []dummyEvent
}

// NewDummyTimer returns a DummyTimer starting at the Unix epoch.
func NewDummyTimer() *DummyTimer {
	return &DummyTimer{now: time.Unix(0, 0).UTC()}
}

// Now returns the timer's current simulated time.
func (tm *DummyTimer) Now() time.Time {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return tm.now
}

// MoveForward advances the simulated clock by d, firing any scheduled
// callback whose deadline is now at or before the new time, in deadline
// order.
func (tm *DummyTimer) MoveForward(d time.Duration) {
	tm.mu.Lock()
	tm.now = tm.now.Add(d)
	now := tm.now
	var due []dummyEvent
	for i, e := range tm.events {
		if e.f != nil && !e.t.After(now) {
			due = append(due, e)
			tm.events[i].f = nil // fired; the slot stays so cancel indices remain valid
		}
	}
	tm.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].t.Before(due[j].t) })
	for _, e := range due {
		e.f()
	}
}

// Schedule runs f after d simulated time has passed, returning a cancel
// function. Firing order among events with equal deadlines follows
// insertion order.
func (tm *DummyTimer) Schedule(d time.Duration, f func()) func() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	deadline := tm.now.Add(d)
	idx := len(tm.events)
	tm.events = append(tm.events, dummyEvent{t: deadline, f: f})

	return func() error {
		tm.mu.Lock()
		defer tm.mu.Unlock()
		if idx >= len(tm.events) || tm.events[idx].f == nil {
			return fmt.Errorf("testutils: event has already fired or been canceled")
		}
		tm.events[idx].f = nil
		return nil
	}
}

// Sleep blocks the calling goroutine until d simulated time has elapsed
// according to some other goroutine calling MoveForward.
func (tm *DummyTimer) Sleep(d time.Duration) {
	done := make(chan struct{})
	tm.Schedule(d, func() { close(done) })
	<-done
}

// Nonce returns a fixed, non-random nonce, for reproducible test output.
func (*DummyTimer) Nonce() []byte {
	return []byte{0x01, 0x02, 0x03, 0x04}
}
