package clock

import "time"

// Fake is a manually advanced Clock for tests. Sleep advances the fake
// time instead of blocking, matching the cooperative single-thread model
// of the node loops.
type Fake struct {
	now time.Time
}

func NewFake() *Fake {
	return &Fake{now: time.Unix(0, 0)}
}

func (f *Fake) Now() time.Time { return f.now }

func (f *Fake) Sleep(d time.Duration) { f.now = f.now.Add(d) }

func (f *Fake) Advance(d time.Duration) { f.now = f.now.Add(d) }
