// Package clock abstracts the monotonic time source used by both node
// control loops. Debounce settles, blink intervals, send cadence and the
// link timeout are all expressed as elapsed-time checks against a Clock,
// which keeps the loops testable without real sleeps.
package clock

import "time"

type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// System is the wall Clock backed by the runtime's monotonic reading.
type System struct{}

func (System) Now() time.Time        { return time.Now() }
func (System) Sleep(d time.Duration) { time.Sleep(d) }
