package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ndn-go/ndncore/schedule"
	"github.com/ndn-go/ndncore/testutils"
)

func TestFiresInDeadlineOrder(t *testing.T) {
	timer := testutils.NewDummyTimer()
	s := schedule.New(timer)

	var order []string
	s.Schedule(30*time.Millisecond, func() { order = append(order, "c") })
	s.Schedule(10*time.Millisecond, func() { order = append(order, "a") })
	s.Schedule(20*time.Millisecond, func() { order = append(order, "b") })

	timer.MoveForward(10 * time.Millisecond)
	timer.MoveForward(10 * time.Millisecond)
	timer.MoveForward(10 * time.Millisecond)

	require.Equal(t, []string{"a", "b", "c"}, order)
	require.Equal(t, 0, s.Pending())
}

func TestCancelPreventsFire(t *testing.T) {
	timer := testutils.NewDummyTimer()
	s := schedule.New(timer)

	fired := false
	id := s.Schedule(10*time.Millisecond, func() { fired = true })
	require.True(t, s.Cancel(id))
	require.False(t, s.Cancel(id), "canceling twice should report no-op")

	timer.MoveForward(50 * time.Millisecond)
	require.False(t, fired)
}

func TestReentrantScheduleDuringDispatch(t *testing.T) {
	timer := testutils.NewDummyTimer()
	s := schedule.New(timer)

	var secondFired bool
	s.Schedule(10*time.Millisecond, func() {
		s.Schedule(5*time.Millisecond, func() { secondFired = true })
	})

	timer.MoveForward(10 * time.Millisecond)
	require.False(t, secondFired, "nested event should not fire until its own deadline")

	timer.MoveForward(5 * time.Millisecond)
	require.True(t, secondFired)
}

func TestSimultaneousDeadlinesAllFire(t *testing.T) {
	timer := testutils.NewDummyTimer()
	s := schedule.New(timer)

	count := 0
	s.Schedule(10*time.Millisecond, func() { count++ })
	s.Schedule(10*time.Millisecond, func() { count++ })
	s.Schedule(10*time.Millisecond, func() { count++ })

	timer.MoveForward(10 * time.Millisecond)
	require.Equal(t, 3, count)
}
