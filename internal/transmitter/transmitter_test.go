package transmitter

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/mkuiper/rclink/internal/clock"
	"github.com/mkuiper/rclink/internal/display"
	"github.com/mkuiper/rclink/internal/input"
	"github.com/mkuiper/rclink/internal/protocol"
	"github.com/mkuiper/rclink/internal/radio"
	"github.com/mkuiper/rclink/internal/settings"
)

type txHarness struct {
	tx    *Transmitter
	src   *input.ScriptSource
	clk   *clock.Fake
	store *settings.MemStore
	disp  *display.Capture
	rx    *radio.Loopback
}

func newTxHarness(t *testing.T) *txHarness {
	t.Helper()
	src := input.NewScriptSource()
	clk := clock.NewFake()
	store := settings.NewMemStore()
	disp := display.NewCapture()
	drv, rx := radio.NewLoopbackPair()
	tx := New(Config{
		Source:  src,
		Display: disp,
		Store:   store,
		Driver:  drv,
		Clock:   clk,
		Logger:  zerolog.Nop(),
	})
	return &txHarness{tx: tx, src: src, clk: clk, store: store, disp: disp, rx: rx}
}

func (h *txHarness) lastSent(t *testing.T) (protocol.Packet, bool) {
	t.Helper()
	data, ok, err := h.rx.TryReceive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if !ok {
		return protocol.Packet{}, false
	}
	p, err := protocol.DecodeValidated(data)
	if err != nil {
		t.Fatalf("transmitter emitted invalid packet: %v", err)
	}
	return p, true
}

// pressOnce produces a single released→pressed edge over two steps.
func (h *txHarness) pressOnce(b input.Button) {
	h.src.Release(b)
	h.tx.Step()
	h.src.Press(b)
	h.tx.Step()
	h.src.Release(b)
}

func TestIdleSendThrottledCadence(t *testing.T) {
	h := newTxHarness(t)

	h.tx.Step()
	if _, ok := h.lastSent(t); !ok {
		t.Fatal("first idle pass should send immediately")
	}

	h.tx.Step()
	if _, ok := h.lastSent(t); ok {
		t.Fatal("second idle pass inside cadence window should not send")
	}

	h.clk.Advance(ThrottledSendInterval)
	h.tx.Step()
	if p, ok := h.lastSent(t); !ok {
		t.Fatal("idle pass after cadence elapsed should send")
	} else if p.Mode != protocol.ModeIdle {
		t.Fatalf("idle pass sent mode %s", p.Mode)
	}
}

func TestFreshBootPacketCarriesSentinels(t *testing.T) {
	h := newTxHarness(t)
	h.src.SetAxis(input.AxisRightX, 512)

	h.tx.Step()
	p, ok := h.lastSent(t)
	if !ok {
		t.Fatal("no packet sent")
	}
	if p.ThrottleSensitivity != protocol.Uninitialized || p.SteerSensitivity != protocol.Uninitialized {
		t.Fatalf("sensitivities should start uninitialized: %+v", p)
	}
	if p.RightX != 512 {
		t.Fatalf("analog field not sampled: %d", p.RightX)
	}
}

func TestMenuCursorAndModeCommit(t *testing.T) {
	h := newTxHarness(t)

	// One sustained deflection moves the cursor exactly once.
	h.src.SetAxis(input.AxisRightY, 700)
	h.tx.Step()
	h.tx.Step()
	if h.tx.cursor != 1 {
		t.Fatalf("cursor: got %d want 1", h.tx.cursor)
	}

	// Re-home, deflect again: cursor reaches Debug.
	h.src.SetAxis(input.AxisRightY, 512)
	h.tx.Step()
	h.src.SetAxis(input.AxisRightY, 700)
	h.tx.Step()
	if h.tx.cursor != 2 {
		t.Fatalf("cursor: got %d want 2", h.tx.cursor)
	}
	h.src.SetAxis(input.AxisRightY, 700)
	h.tx.Step()
	if h.tx.cursor != 2 {
		t.Fatalf("cursor moved past last item: %d", h.tx.cursor)
	}

	h.src.SetAxis(input.AxisRightY, 512)
	h.pressOnce(input.BtnAck)
	if h.tx.Mode() != protocol.ModeDebug {
		t.Fatalf("mode: got %s want debug", h.tx.Mode())
	}
}

func TestEasyModeFixedSensitivities(t *testing.T) {
	h := newTxHarness(t)
	h.pressOnce(input.BtnAck) // cursor 0 = Easy
	if h.tx.Mode() != protocol.ModeEasy {
		t.Fatalf("mode: got %s", h.tx.Mode())
	}

	h.rx.TryReceive() // drain idle sends
	h.tx.Step()
	p, ok := h.lastSent(t)
	if !ok {
		t.Fatal("easy mode should send every pass")
	}
	if p.SteerSensitivity != EasySteerSensitivity || p.ThrottleSensitivity != EasyThrottleSensitivity {
		t.Fatalf("easy sensitivities: %+v", p)
	}

	// Unthrottled: a second pass with no time advance still sends.
	h.tx.Step()
	if _, ok := h.lastSent(t); !ok {
		t.Fatal("easy mode send was throttled")
	}

	h.pressOnce(input.BtnBack)
	if h.tx.Mode() != protocol.ModeIdle {
		t.Fatalf("back should return to idle, got %s", h.tx.Mode())
	}
}

func TestProModeLoadsStoredSensitivities(t *testing.T) {
	h := newTxHarness(t)
	h.store.Save(settings.SlotSteer, 65)
	h.store.Save(settings.SlotThrottle, 80)

	// Move cursor to Pro and commit.
	h.src.SetAxis(input.AxisRightY, 700)
	h.tx.Step()
	h.src.SetAxis(input.AxisRightY, 512)
	h.pressOnce(input.BtnAck)
	if h.tx.Mode() != protocol.ModePro {
		t.Fatalf("mode: got %s", h.tx.Mode())
	}

	h.rx.TryReceive()
	h.tx.Step()
	p, ok := h.lastSent(t)
	if !ok {
		t.Fatal("pro mode should send every pass")
	}
	if p.SteerSensitivity != 65 || p.ThrottleSensitivity != 80 {
		t.Fatalf("pro sensitivities not loaded from store: %+v", p)
	}
}

func TestAccessoryToggleAndLevelSampling(t *testing.T) {
	h := newTxHarness(t)
	h.pressOnce(input.BtnAck) // into Easy

	// Headlight toggles on a left stick edge and stays on.
	h.src.Press(input.BtnLeftStick)
	h.tx.Step()
	h.src.Release(input.BtnLeftStick)
	h.tx.Step()
	h.rx.TryReceive()
	h.tx.Step()
	p, _ := h.lastSent(t)
	if !p.HeadLight {
		t.Fatal("headlight toggle lost")
	}

	// Second edge toggles it back off.
	h.src.Press(input.BtnLeftStick)
	h.tx.Step()
	h.rx.TryReceive()
	h.src.Release(input.BtnLeftStick)
	h.tx.Step()
	p, _ = h.lastSent(t)
	if p.HeadLight {
		t.Fatal("headlight should have toggled off")
	}

	// Honk and brake follow the level.
	h.src.Press(input.BtnRightStick)
	h.src.Press(input.BtnAux1)
	h.tx.Step()
	p, _ = h.lastSent(t)
	if !p.Honk || !p.Brake {
		t.Fatalf("level accessories not sampled: %+v", p)
	}
	h.src.Release(input.BtnRightStick)
	h.src.Release(input.BtnAux1)
	h.tx.Step()
	p, _ = h.lastSent(t)
	if p.Honk || p.Brake {
		t.Fatalf("level accessories have no memory: %+v", p)
	}
}

func TestDebugPageSwitch(t *testing.T) {
	h := newTxHarness(t)
	h.src.SetAxis(input.AxisRightY, 700)
	h.tx.Step()
	h.src.SetAxis(input.AxisRightY, 512)
	h.tx.Step()
	h.src.SetAxis(input.AxisRightY, 700)
	h.tx.Step()
	h.src.SetAxis(input.AxisRightY, 512)
	h.pressOnce(input.BtnAck) // cursor 2 = Debug
	if h.tx.Mode() != protocol.ModeDebug {
		t.Fatalf("mode: got %s", h.tx.Mode())
	}

	if h.tx.debugPage != 0 {
		t.Fatalf("debug page should start 0, got %d", h.tx.debugPage)
	}
	h.src.SetAxis(input.AxisLeftX, 100)
	h.tx.Step()
	if h.tx.debugPage != 1 {
		t.Fatalf("page switch lost: %d", h.tx.debugPage)
	}
	// Held deflection does not keep flipping pages.
	h.tx.Step()
	if h.tx.debugPage != 1 {
		t.Fatalf("held deflection re-triggered page switch: %d", h.tx.debugPage)
	}
}

func TestMenuScreenShowsCursor(t *testing.T) {
	h := newTxHarness(t)
	h.tx.Step()
	if !h.disp.LastContains("Menu") || !h.disp.LastContains(">") {
		t.Fatalf("menu frame missing content: %v", h.disp.LastFrame())
	}
}

type fixedCounts int

func (b fixedCounts) Read() (int, error) { return int(b), nil }

func TestBasicInfoShowsRemoteVoltage(t *testing.T) {
	h := newTxHarness(t)
	h.tx.battery = fixedCounts(806)
	enterPro(t, h)
	h.tx.Step() // draw the pro frame
	if !h.disp.LastContains("RV: 7.8V") {
		t.Fatalf("missing remote voltage row: %v", h.disp.LastFrame())
	}
	if !h.disp.LastContains("VV: NC") {
		t.Fatalf("vehicle voltage should read NC: %v", h.disp.LastFrame())
	}
}

func TestBasicInfoWithoutBatteryReadsNC(t *testing.T) {
	h := newTxHarness(t)
	enterPro(t, h)
	h.tx.Step()
	if !h.disp.LastContains("RV: NC") {
		t.Fatalf("remote voltage should read NC without a sense channel: %v", h.disp.LastFrame())
	}
}
