// Package transmitter implements the handheld node: it samples the
// operator's sticks and buttons, runs the mode state machine and
// broadcasts the control packet over the radio.
package transmitter

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkuiper/rclink/internal/clock"
	"github.com/mkuiper/rclink/internal/display"
	"github.com/mkuiper/rclink/internal/input"
	"github.com/mkuiper/rclink/internal/observability"
	"github.com/mkuiper/rclink/internal/protocol"
	"github.com/mkuiper/rclink/internal/radio"
	"github.com/mkuiper/rclink/internal/settings"
)

const (
	// ThrottledSendInterval is the cadence in Idle and Debug, where the
	// vehicle only needs to know the remote is alive. Easy and Pro send
	// on every loop pass.
	ThrottledSendInterval = 2000 * time.Millisecond

	// Fixed sensitivities for Easy mode; not operator-editable.
	EasySteerSensitivity    int8 = 50
	EasyThrottleSensitivity int8 = 40

	// dumpInterval paces the diagnostic packet dump.
	dumpInterval = time.Second

	// loopPace keeps a free-running host loop from spinning a core.
	loopPace = time.Millisecond
)

// Indicator is a single on/off output, the send LED here.
type Indicator interface {
	Set(on bool)
}

type nullIndicator struct{}

func (nullIndicator) Set(bool) {}

// BatterySense samples the remote's own battery, raw ADC counts.
type BatterySense interface {
	Read() (int, error)
}

// Config wires a Transmitter's collaborators.
type Config struct {
	Source  input.Source
	Display display.Display
	Store   settings.Store
	Driver  radio.Driver
	Clock   clock.Clock
	Logger  zerolog.Logger
	SendLED Indicator

	// Battery is optional; without it the voltage rows read "NC".
	Battery BatterySense

	// ThrottledInterval overrides ThrottledSendInterval when >0.
	ThrottledInterval time.Duration
}

// Transmitter owns all mutable transmitter-side state: the outgoing
// packet, debounce history, homing flags and timers. Everything is
// driven from a single control loop; nothing here is safe for
// concurrent use.
type Transmitter struct {
	log     zerolog.Logger
	clk     clock.Clock
	src     input.Source
	disp    display.Display
	store   settings.Store
	driver  radio.Driver
	led     Indicator
	battery BatterySense

	edges  *input.EdgeDetector
	sticks *input.AxisHomingFilter

	throttled time.Duration

	mode           protocol.Mode
	packet         protocol.Packet
	steerSens      int8
	throttleSens   int8
	cursor         int
	debugPage      int
	editor         editorState
	lastSend       time.Time
	sentAnything   bool
	lastDump       time.Time
	dumpedAnything bool

	snapMu sync.Mutex
	snap   Snapshot
}

// Snapshot is a copy of the transmitter state safe to read from other
// goroutines, published once per Step.
type Snapshot struct {
	Mode                string
	Editing             bool
	SteerSensitivity    int8
	ThrottleSensitivity int8
	Packet              protocol.Packet
}

func New(cfg Config) *Transmitter {
	if cfg.Clock == nil {
		cfg.Clock = clock.System{}
	}
	if cfg.Display == nil {
		cfg.Display = display.Null{}
	}
	if cfg.SendLED == nil {
		cfg.SendLED = nullIndicator{}
	}
	if cfg.ThrottledInterval <= 0 {
		cfg.ThrottledInterval = ThrottledSendInterval
	}
	return &Transmitter{
		log:          cfg.Logger,
		clk:          cfg.Clock,
		src:          cfg.Source,
		disp:         cfg.Display,
		store:        cfg.Store,
		driver:       cfg.Driver,
		led:          cfg.SendLED,
		battery:      cfg.Battery,
		edges:        input.NewEdgeDetector(cfg.Source, cfg.Clock, cfg.Logger),
		sticks:       input.NewAxisHomingFilter(cfg.Source, cfg.Logger),
		throttled:    cfg.ThrottledInterval,
		mode:         protocol.ModeIdle,
		packet:       protocol.NewPacket(),
		steerSens:    protocol.Uninitialized,
		throttleSens: protocol.Uninitialized,
	}
}

// Mode reports the state machine's current mode.
func (t *Transmitter) Mode() protocol.Mode { return t.mode }

// Snapshot returns the state published by the last Step.
func (t *Transmitter) Snapshot() Snapshot {
	t.snapMu.Lock()
	defer t.snapMu.Unlock()
	return t.snap
}

func (t *Transmitter) publish() {
	t.snapMu.Lock()
	t.snap = Snapshot{
		Mode:                t.mode.String(),
		Editing:             t.editor.active,
		SteerSensitivity:    t.steerSens,
		ThrottleSensitivity: t.throttleSens,
		Packet:              t.packet,
	}
	t.snapMu.Unlock()
}

// Packet returns a copy of the packet as last populated.
func (t *Transmitter) Packet() protocol.Packet { return t.packet }

// Run plays the startup animation and then steps the control loop until
// ctx is cancelled.
func (t *Transmitter) Run(ctx context.Context) error {
	t.startupAnimation()
	for ctx.Err() == nil {
		t.Step()
		t.clk.Sleep(loopPace)
	}
	return ctx.Err()
}

// Step executes one cooperative pass of the mode state machine.
func (t *Transmitter) Step() {
	defer t.publish()
	if t.editor.active {
		t.stepEditor()
		return
	}
	switch t.mode {
	case protocol.ModeIdle:
		t.stepIdle()
	case protocol.ModeEasy:
		t.stepEasy()
	case protocol.ModePro:
		t.stepPro()
	case protocol.ModeDebug:
		t.stepDebug()
	}
}

func (t *Transmitter) setMode(m protocol.Mode) {
	switch m {
	case protocol.ModeEasy:
		t.steerSens = EasySteerSensitivity
		t.throttleSens = EasyThrottleSensitivity
	case protocol.ModePro:
		t.steerSens = t.loadSlot(settings.SlotSteer)
		t.throttleSens = t.loadSlot(settings.SlotThrottle)
	case protocol.ModeDebug:
		t.debugPage = 0
	}
	t.log.Info().Stringer("from", t.mode).Stringer("to", m).Msg("mode change")
	t.mode = m
}

func (t *Transmitter) loadSlot(s settings.Slot) int8 {
	v, err := t.store.Load(s)
	if err != nil {
		t.log.Error().Err(err).Stringer("slot", s).Msg("settings load failed")
		return protocol.Uninitialized
	}
	return v
}

func (t *Transmitter) stepIdle() {
	t.send(protocol.ModeIdle)
	t.drawMenu()

	switch t.sticks.Deflected(input.AxisRightY) {
	case 1:
		if t.cursor < len(menuItems)-1 {
			t.cursor++
		}
	case -1:
		if t.cursor > 0 {
			t.cursor--
		}
	}

	if t.edges.Detect(input.BtnAck) {
		t.setMode(menuItems[t.cursor].mode)
	}
}

func (t *Transmitter) stepEasy() {
	if t.edges.Detect(input.BtnBack) {
		t.setMode(protocol.ModeIdle)
		return
	}
	t.sampleAccessories()
	t.send(protocol.ModeEasy)
	t.drawEasy()
}

func (t *Transmitter) stepPro() {
	if t.edges.Detect(input.BtnBack) {
		t.setMode(protocol.ModeIdle)
		return
	}
	t.sampleAccessories()
	t.send(protocol.ModePro)
	t.drawPro()

	if t.edges.Detect(input.BtnAck) {
		t.enterEditor()
	}
}

func (t *Transmitter) stepDebug() {
	if t.edges.Detect(input.BtnBack) {
		t.setMode(protocol.ModeIdle)
		return
	}
	t.sampleAccessories()
	t.send(protocol.ModeDebug)
	t.drawDebug()

	if t.sticks.Deflected(input.AxisLeftX) != 0 {
		t.debugPage = (t.debugPage + 1) % debugPageCount
	}
}

// sampleAccessories applies the shared accessory logic: honk and brake
// follow the current button level every tick, head and tail light toggle
// on edges and keep their state until toggled again.
func (t *Transmitter) sampleAccessories() {
	t.packet.Honk = t.level(input.BtnRightStick)
	t.packet.Brake = t.level(input.BtnAux1)

	if t.edges.Detect(input.BtnLeftStick) {
		t.packet.HeadLight = !t.packet.HeadLight
	}
	if t.edges.Detect(input.BtnAux2) {
		t.packet.TailLight = !t.packet.TailLight
	}
}

func (t *Transmitter) level(b input.Button) bool {
	v, err := t.src.Level(b)
	if err != nil {
		t.log.Error().Err(err).Stringer("button", b).Msg("button level failed")
		return false
	}
	return v
}

// send rebuilds the packet from current input state and hands it to the
// radio, rate-limited to the throttled cadence in Idle and Debug.
func (t *Transmitter) send(wire protocol.Mode) {
	var interval time.Duration
	if wire == protocol.ModeIdle || wire == protocol.ModeDebug {
		interval = t.throttled
	}
	now := t.clk.Now()
	if t.sentAnything && now.Sub(t.lastSend) < interval {
		return
	}
	t.lastSend = now
	t.sentAnything = true

	t.led.Set(true)
	defer t.led.Set(false)

	t.packet.Mode = wire
	t.packet.ThrottleSensitivity = t.throttleSens
	t.packet.SteerSensitivity = t.steerSens
	t.packet.RightX = t.readAxis(input.AxisRightX)
	t.packet.RightY = t.readAxis(input.AxisRightY)
	t.packet.LeftX = t.readAxis(input.AxisLeftX)
	t.packet.LeftY = t.readAxis(input.AxisLeftY)
	t.packet.RightStick = t.level(input.BtnRightStick)
	t.packet.LeftStick = t.level(input.BtnLeftStick)
	t.packet.Ack = t.level(input.BtnAck)
	t.packet.Back = t.level(input.BtnBack)
	t.packet.Aux1 = t.level(input.BtnAux1)
	t.packet.Aux2 = t.level(input.BtnAux2)

	data, err := protocol.Encode(t.packet)
	if err != nil {
		t.log.Error().Err(err).Msg("packet encode failed")
		return
	}
	if err := t.driver.Send(data); err != nil {
		t.log.Error().Err(err).Msg("radio send failed")
		return
	}
	observability.RecordPacketSent()
	t.dump(now)
}

func (t *Transmitter) readAxis(a input.Axis) int16 {
	v, err := t.src.Read(a)
	if err != nil {
		t.log.Error().Err(err).Stringer("axis", a).Msg("axis read failed")
		return protocol.Uninitialized
	}
	return int16(v)
}

// dump logs the outgoing packet at most once per second.
func (t *Transmitter) dump(now time.Time) {
	if t.dumpedAnything && now.Sub(t.lastDump) < dumpInterval {
		return
	}
	t.lastDump = now
	t.dumpedAnything = true
	p := t.packet
	t.log.Debug().
		Stringer("mode", p.Mode).
		Int16("rightX", p.RightX).Int16("rightY", p.RightY).
		Int16("leftX", p.LeftX).Int16("leftY", p.LeftY).
		Int8("throttleSens", p.ThrottleSensitivity).
		Int8("steerSens", p.SteerSensitivity).
		Bool("brake", p.Brake).Bool("honk", p.Honk).
		Bool("headLight", p.HeadLight).Bool("tailLight", p.TailLight).
		Msg("outgoing packet")
}
