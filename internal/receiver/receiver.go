package receiver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkuiper/rclink/internal/clock"
	"github.com/mkuiper/rclink/internal/observability"
	"github.com/mkuiper/rclink/internal/protocol"
	"github.com/mkuiper/rclink/internal/radio"
)

const (
	// SearchBlinkInterval paces the head/tail light blink while the
	// receiver is searching for the remote.
	SearchBlinkInterval = 1500 * time.Millisecond

	hornHz       = 220
	reconnectHz  = 880
	hornDuration = 500 * time.Millisecond

	dumpInterval = time.Second
	loopPace     = time.Millisecond
)

// Config wires a Receiver's collaborators.
type Config struct {
	Driver  radio.Driver
	Outputs Outputs
	Clock   clock.Clock
	Logger  zerolog.Logger

	// LinkTimeout overrides the default when >0.
	LinkTimeout time.Duration
}

// Receiver owns all receiver-side mutable state: the active packet, the
// link timer and the blink phase. Single control loop, no locking.
type Receiver struct {
	log    zerolog.Logger
	clk    clock.Clock
	driver radio.Driver
	out    Outputs
	link   *LinkMonitor

	active protocol.Packet

	blinkOn   bool
	lastBlink time.Time

	lastDump       time.Time
	dumpedAnything bool

	snapMu sync.Mutex
	snap   Snapshot
}

// Snapshot is a copy of the receiver state safe to read from other
// goroutines, published once per Step.
type Snapshot struct {
	Mode      string
	Connected bool
	Active    protocol.Packet
}

func New(cfg Config) *Receiver {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	cfg.Outputs.fillNops()
	return &Receiver{
		log:    cfg.Logger,
		clk:    cfg.Clock,
		driver: cfg.Driver,
		out:    cfg.Outputs,
		link:   NewLinkMonitor(cfg.Clock, cfg.LinkTimeout),
		active: protocol.NewPacket(),
	}
}

// Mode reports the currently active mode, link fallback included.
func (r *Receiver) Mode() protocol.Mode { return r.link.Mode() }

// Active returns a copy of the active packet.
func (r *Receiver) Active() protocol.Packet { return r.active }

// Snapshot returns the state published by the last Step.
func (r *Receiver) Snapshot() Snapshot {
	r.snapMu.Lock()
	defer r.snapMu.Unlock()
	return r.snap
}

func (r *Receiver) publish() {
	r.snapMu.Lock()
	r.snap = Snapshot{
		Mode:      r.link.Mode().String(),
		Connected: r.link.Connected(),
		Active:    r.active,
	}
	r.snapMu.Unlock()
}

// Run steps the control loop until ctx is cancelled.
func (r *Receiver) Run(ctx context.Context) error {
	for ctx.Err() == nil {
		r.Step()
		r.clk.Sleep(loopPace)
	}
	return ctx.Err()
}

// Step executes one cooperative pass: poll, validate, re-evaluate the
// link, then act for the active mode. Link loss preempts whatever the
// last packet said, on any cycle.
func (r *Receiver) Step() {
	defer r.publish()
	r.poll()

	if r.link.Check() {
		r.log.Warn().Msg("link timeout, falling back to not connected")
	}

	switch r.link.Mode() {
	case protocol.ModeNotConnected:
		r.stepSearching()
	case protocol.ModeIdle:
		r.neutral()
		r.accessories()
	case protocol.ModeEasy, protocol.ModePro:
		r.accessories()
		r.drive()
	case protocol.ModeDebug:
		// Diagnostics only, no actuation.
	}

	r.dump()
}

// poll reads at most one datagram off the radio and, if it survives
// validation, promotes it to the active packet.
func (r *Receiver) poll() {
	data, ok, err := r.driver.TryReceive()
	if err != nil {
		if !errors.Is(err, radio.ErrClosed) {
			r.log.Error().Err(err).Msg("radio poll failed")
		}
		return
	}
	if !ok {
		return
	}
	observability.RecordPacketReceived()
	r.out.ReceivedLED.Set(true)
	defer r.out.ReceivedLED.Set(false)

	p, err := protocol.DecodeValidated(data)
	if err != nil {
		field := "datagram"
		var verr protocol.ValidationError
		if errors.As(err, &verr) {
			field = verr.Field
		}
		observability.RecordPacketRejected(field)
		r.out.InterferenceLED.Set(true)
		r.log.Warn().Err(err).Msg("packet rejected")
		return
	}

	observability.RecordPacketAccepted()
	r.out.InterferenceLED.Set(false)

	if r.link.Accept(p.Mode) {
		r.reconnectCue()
	}
	r.active = p
}

// reconnectCue plays the two-tone chirp exactly once per reacquisition.
func (r *Receiver) reconnectCue() {
	r.log.Info().Msg("remote reacquired")
	r.out.Horn.Tone(hornHz, hornDuration)
	r.clk.Sleep(hornDuration)
	r.out.Horn.Tone(reconnectHz, hornDuration)
	r.clk.Sleep(2 * hornDuration)
}

// stepSearching is the not-connected fallback: actuators neutral and a
// slow head/tail blink, independent of whatever the last packet carried.
func (r *Receiver) stepSearching() {
	r.neutral()
	now := r.clk.Now()
	if now.Sub(r.lastBlink) > SearchBlinkInterval {
		r.lastBlink = now
		r.blinkOn = !r.blinkOn
		r.out.HeadLight.Set(r.blinkOn)
		r.out.TailLight.Set(r.blinkOn)
	}
}

func (r *Receiver) neutral() {
	r.out.Steering.Write(ActuatorNeutral)
	r.out.Drive.Write(ActuatorNeutral)
}

// accessories mirrors the active packet's accessory booleans onto the
// hardware every cycle; the toggle memory lives on the transmitter.
func (r *Receiver) accessories() {
	r.out.HeadLight.Set(r.active.HeadLight)
	r.out.TailLight.Set(r.active.TailLight)
	if r.active.Honk {
		r.out.Horn.Tone(hornHz, hornDuration)
	}
}

// drive applies the sensitivity-scaled axis mapping. Steering follows the
// left stick's X axis, throttle the right stick's Y axis; brake overrides
// the throttle to the minimum position no matter what was mapped.
func (r *Receiver) drive() {
	steer := MapActuator(int(r.active.LeftX), r.active.SteerSensitivity, ActuatorNeutral)
	r.out.Steering.Write(steer)

	if r.active.Brake {
		r.out.Drive.Write(ActuatorMin)
		return
	}
	throttle := MapActuator(int(r.active.RightY), r.active.ThrottleSensitivity, ActuatorNeutral)
	r.out.Drive.Write(throttle)
}

// dump logs the active packet at most once per second.
func (r *Receiver) dump() {
	now := r.clk.Now()
	if r.dumpedAnything && now.Sub(r.lastDump) < dumpInterval {
		return
	}
	r.lastDump = now
	r.dumpedAnything = true
	p := r.active
	r.log.Debug().
		Stringer("link", r.link.Mode()).
		Stringer("mode", p.Mode).
		Int16("rightY", p.RightY).Int16("leftX", p.LeftX).
		Int8("throttleSens", p.ThrottleSensitivity).
		Int8("steerSens", p.SteerSensitivity).
		Bool("brake", p.Brake).Bool("honk", p.Honk).
		Bool("headLight", p.HeadLight).Bool("tailLight", p.TailLight).
		Msg("active packet")
}
