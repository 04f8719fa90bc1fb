package schedule

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/ndn-go/ndncore/ndn"
)

// realTimer is the wall-clock ndn.Timer used outside of tests.
// Grounded on the teacher's std/engine/basic/timer.go.
type realTimer struct{}

// NewRealTimer returns an ndn.Timer backed by the standard library's
// wall clock (time.AfterFunc, time.Now, time.Sleep).
func NewRealTimer() ndn.Timer { return realTimer{} }

func (realTimer) Sleep(d time.Duration) { time.Sleep(d) }

func (realTimer) Schedule(d time.Duration, f func()) func() error {
	t := time.AfterFunc(d, f)
	return func() error {
		if !t.Stop() {
			return fmt.Errorf("schedule: event has already fired")
		}
		return nil
	}
}

func (realTimer) Now() time.Time { return time.Now() }

func (realTimer) Nonce() []byte {
	buf := make([]byte, 8)
	n, _ := rand.Read(buf)
	return buf[:n]
}
