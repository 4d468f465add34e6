package receiver

import "time"

// Actuator positions a servo-style output.
type Actuator interface {
	Write(pos int)
}

// DigitalOut drives a single on/off output (lights, indicator LEDs).
type DigitalOut interface {
	Set(on bool)
}

// Sounder plays a tone on the horn.
type Sounder interface {
	Tone(hz int, d time.Duration)
}

// Outputs bundles the vehicle's hardware collaborators. Nil members are
// replaced by no-ops so a bench receiver can run with whatever subset is
// wired up.
type Outputs struct {
	Steering Actuator
	Drive    Actuator

	HeadLight       DigitalOut
	TailLight       DigitalOut
	ReceivedLED     DigitalOut
	InterferenceLED DigitalOut

	Horn Sounder
}

func (o *Outputs) fillNops() {
	if o.Steering == nil {
		o.Steering = nopActuator{}
	}
	if o.Drive == nil {
		o.Drive = nopActuator{}
	}
	if o.HeadLight == nil {
		o.HeadLight = nopOut{}
	}
	if o.TailLight == nil {
		o.TailLight = nopOut{}
	}
	if o.ReceivedLED == nil {
		o.ReceivedLED = nopOut{}
	}
	if o.InterferenceLED == nil {
		o.InterferenceLED = nopOut{}
	}
	if o.Horn == nil {
		o.Horn = nopSounder{}
	}
}

type nopActuator struct{}

func (nopActuator) Write(int) {}

type nopOut struct{}

func (nopOut) Set(bool) {}

type nopSounder struct{}

func (nopSounder) Tone(int, time.Duration) {}

// RecordedActuator keeps the last written position, for tests and the
// link simulator.
type RecordedActuator struct {
	Pos     int
	Written bool
}

func (a *RecordedActuator) Write(pos int) {
	a.Pos = pos
	a.Written = true
}

// LatchOut remembers the last Set value and counts transitions to on.
type LatchOut struct {
	On      bool
	Rises   int
	lastSet bool
}

func (l *LatchOut) Set(on bool) {
	if on && !l.On {
		l.Rises++
	}
	l.On = on
	l.lastSet = on
}

// RecordedSounder logs every tone played.
type RecordedSounder struct {
	Tones []int
}

func (s *RecordedSounder) Tone(hz int, d time.Duration) {
	s.Tones = append(s.Tones, hz)
}
