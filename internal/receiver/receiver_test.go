package receiver

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mkuiper/rclink/internal/clock"
	"github.com/mkuiper/rclink/internal/protocol"
	"github.com/mkuiper/rclink/internal/radio"
)

type rxHarness struct {
	rx    *Receiver
	tx    *radio.Loopback
	clk   *clock.Fake
	steer *RecordedActuator
	drive *RecordedActuator
	head  *LatchOut
	tail  *LatchOut
	intf  *LatchOut
	horn  *RecordedSounder
}

func newRxHarness(t *testing.T) *rxHarness {
	t.Helper()
	tx, rxDrv := radio.NewLoopbackPair()
	clk := clock.NewFake()
	h := &rxHarness{
		tx:    tx,
		clk:   clk,
		steer: &RecordedActuator{},
		drive: &RecordedActuator{},
		head:  &LatchOut{},
		tail:  &LatchOut{},
		intf:  &LatchOut{},
		horn:  &RecordedSounder{},
	}
	h.rx = New(Config{
		Driver: rxDrv,
		Outputs: Outputs{
			Steering:        h.steer,
			Drive:           h.drive,
			HeadLight:       h.head,
			TailLight:       h.tail,
			InterferenceLED: h.intf,
			Horn:            h.horn,
		},
		Clock:  clk,
		Logger: zerolog.Nop(),
	})
	return h
}

func (h *rxHarness) send(t *testing.T, p protocol.Packet) {
	t.Helper()
	data, err := protocol.Encode(p)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := h.tx.Send(data); err != nil {
		t.Fatalf("send: %v", err)
	}
}

func proPacket() protocol.Packet {
	p := protocol.NewPacket()
	p.Mode = protocol.ModePro
	p.LeftX = 200
	p.RightY = 900
	p.SteerSensitivity = 50
	p.ThrottleSensitivity = 80
	return p
}

func TestReceiverBootsSearching(t *testing.T) {
	h := newRxHarness(t)
	h.rx.Step()
	if h.rx.Mode() != protocol.ModeNotConnected {
		t.Fatalf("boot mode: %s", h.rx.Mode())
	}
	if h.steer.Pos != ActuatorNeutral || h.drive.Pos != ActuatorNeutral {
		t.Fatalf("actuators not neutral: steer=%d drive=%d", h.steer.Pos, h.drive.Pos)
	}
}

func TestEndToEndProMapping(t *testing.T) {
	h := newRxHarness(t)
	h.send(t, proPacket())
	h.rx.Step()

	if h.rx.Mode() != protocol.ModePro {
		t.Fatalf("mode: %s", h.rx.Mode())
	}
	// map(200, 0..1023 -> [45,135]) and map(900, 0..1023 -> [18,162]).
	if h.steer.Pos != 62 {
		t.Fatalf("steering: got %d want 62", h.steer.Pos)
	}
	if h.drive.Pos != 144 {
		t.Fatalf("throttle: got %d want 144", h.drive.Pos)
	}
}

func TestBrakeOverridesThrottle(t *testing.T) {
	h := newRxHarness(t)
	p := proPacket()
	p.Brake = true
	h.send(t, p)
	h.rx.Step()

	if h.drive.Pos != ActuatorMin {
		t.Fatalf("brake must force throttle to %d, got %d", ActuatorMin, h.drive.Pos)
	}
	if h.steer.Pos != 62 {
		t.Fatalf("brake must not affect steering: %d", h.steer.Pos)
	}
}

func TestRejectedPacketLeavesActiveStateUntouched(t *testing.T) {
	h := newRxHarness(t)
	h.send(t, proPacket())
	h.rx.Step()

	bad := proPacket()
	bad.SteerSensitivity = 110 // out of domain
	h.send(t, bad)
	h.rx.Step()

	if !h.intf.On {
		t.Fatal("interference indicator not asserted")
	}
	if h.rx.Mode() != protocol.ModePro {
		t.Fatalf("mode changed on rejection: %s", h.rx.Mode())
	}
	if h.rx.Active().SteerSensitivity != 50 {
		t.Fatalf("active packet replaced by invalid data: %+v", h.rx.Active())
	}

	// Self-clearing on the next valid packet.
	h.send(t, proPacket())
	h.rx.Step()
	if h.intf.On {
		t.Fatal("interference indicator should clear on valid reception")
	}
}

func TestShortDatagramIsRejected(t *testing.T) {
	h := newRxHarness(t)
	if err := h.tx.Send([]byte{1, 2, 3}); err != nil {
		t.Fatalf("send: %v", err)
	}
	h.rx.Step()
	if !h.intf.On {
		t.Fatal("interference indicator not asserted for short datagram")
	}
	if h.rx.Mode() != protocol.ModeNotConnected {
		t.Fatalf("garbage must not connect the link: %s", h.rx.Mode())
	}
}

func TestLinkTimeoutForcesFallback(t *testing.T) {
	h := newRxHarness(t)
	p := protocol.NewPacket()
	p.Mode = protocol.ModeEasy
	h.send(t, p)
	h.rx.Step()
	if h.rx.Mode() != protocol.ModeEasy {
		t.Fatalf("mode: %s", h.rx.Mode())
	}

	h.clk.Advance(LinkTimeout + time.Millisecond)
	h.rx.Step()
	if h.rx.Mode() != protocol.ModeNotConnected {
		t.Fatalf("expected fallback, got %s", h.rx.Mode())
	}
	if h.steer.Pos != ActuatorNeutral || h.drive.Pos != ActuatorNeutral {
		t.Fatal("fallback must neutralize actuators")
	}
}

func TestReconnectCuePlaysExactlyOnce(t *testing.T) {
	h := newRxHarness(t)
	p := protocol.NewPacket()
	p.Mode = protocol.ModeEasy

	h.send(t, p)
	h.rx.Step()
	if len(h.horn.Tones) != 2 || h.horn.Tones[0] != 220 || h.horn.Tones[1] != 880 {
		t.Fatalf("expected two-tone cue, got %v", h.horn.Tones)
	}

	// Staying connected: no further cues.
	h.send(t, p)
	h.rx.Step()
	if len(h.horn.Tones) != 2 {
		t.Fatalf("cue repeated while connected: %v", h.horn.Tones)
	}

	// Drop and recover: exactly one more cue.
	h.clk.Advance(LinkTimeout + time.Millisecond)
	h.rx.Step()
	h.send(t, p)
	h.rx.Step()
	if len(h.horn.Tones) != 4 {
		t.Fatalf("expected one cue per reconnection, got %v", h.horn.Tones)
	}
}

func TestSearchingBlinksLightsIndependentOfPacket(t *testing.T) {
	h := newRxHarness(t)
	p := protocol.NewPacket()
	p.Mode = protocol.ModeEasy
	p.HeadLight = true
	p.TailLight = true
	h.send(t, p)
	h.rx.Step()
	if !h.head.On || !h.tail.On {
		t.Fatal("accessory outputs should mirror the packet")
	}

	h.clk.Advance(LinkTimeout + time.Millisecond)
	h.rx.Step() // drop; first blink toggle
	rises := h.head.Rises

	h.clk.Advance(SearchBlinkInterval + time.Millisecond)
	h.rx.Step()
	h.clk.Advance(SearchBlinkInterval + time.Millisecond)
	h.rx.Step()
	if h.head.Rises <= rises {
		t.Fatal("headlight not blinking while searching")
	}
	if h.head.On != h.tail.On {
		t.Fatal("head and tail must blink together")
	}
}

func TestHonkSoundsWhileHeld(t *testing.T) {
	h := newRxHarness(t)
	p := protocol.NewPacket()
	p.Mode = protocol.ModeEasy
	p.Honk = true
	h.send(t, p)
	h.rx.Step()

	base := len(h.horn.Tones) // includes the reconnect cue
	h.rx.Step()               // still honking from the active packet
	if len(h.horn.Tones) != base+1 {
		t.Fatalf("honk should sound every cycle while set: %v", h.horn.Tones)
	}

	p.Honk = false
	h.send(t, p)
	h.rx.Step()
	count := len(h.horn.Tones)
	h.rx.Step()
	if len(h.horn.Tones) != count {
		t.Fatal("honk has no memory once released")
	}
}

func TestDebugModeDoesNotActuate(t *testing.T) {
	h := newRxHarness(t)
	p := protocol.NewPacket()
	p.Mode = protocol.ModeDebug
	p.LeftX = 0
	p.RightY = 1023
	p.SteerSensitivity = 100
	p.ThrottleSensitivity = 100
	h.send(t, p)
	h.rx.Step()

	if h.steer.Written || h.drive.Written {
		t.Fatalf("debug mode drove actuators: steer=%d drive=%d", h.steer.Pos, h.drive.Pos)
	}
}

func TestIdleHoldsActuatorsNeutral(t *testing.T) {
	h := newRxHarness(t)
	p := protocol.NewPacket()
	p.Mode = protocol.ModeIdle
	p.LeftX = 0
	p.RightY = 1023
	h.send(t, p)
	h.rx.Step()

	if h.steer.Pos != ActuatorNeutral || h.drive.Pos != ActuatorNeutral {
		t.Fatalf("idle must hold neutral: steer=%d drive=%d", h.steer.Pos, h.drive.Pos)
	}
}
