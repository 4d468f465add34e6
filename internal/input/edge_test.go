package input

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mkuiper/rclink/internal/clock"
)

func newEdge(src Source) *EdgeDetector {
	return NewEdgeDetector(src, clock.NewFake(), zerolog.Nop())
}

func TestDetectFiresOncePerPress(t *testing.T) {
	src := NewScriptSource()
	e := newEdge(src)

	// Level sequence: released, pressed, pressed, released, pressed.
	levels := []bool{false, true, true, false, true}
	want := []bool{false, true, false, false, true}

	for i, lvl := range levels {
		if lvl {
			src.Press(BtnAck)
		} else {
			src.Release(BtnAck)
		}
		if got := e.Detect(BtnAck); got != want[i] {
			t.Fatalf("index %d: got %v want %v", i, got, want[i])
		}
	}
}

func TestDetectTracksButtonsIndependently(t *testing.T) {
	src := NewScriptSource()
	e := newEdge(src)

	src.Press(BtnAck)
	if !e.Detect(BtnAck) {
		t.Fatal("ack edge lost")
	}
	src.Press(BtnBack)
	if !e.Detect(BtnBack) {
		t.Fatal("back edge lost")
	}
	if e.Detect(BtnAck) {
		t.Fatal("ack re-fired while held")
	}
}

func TestDetectSettleDelayOnTransition(t *testing.T) {
	src := NewScriptSource()
	clk := clock.NewFake()
	e := NewEdgeDetector(src, clk, zerolog.Nop())

	before := clk.Now()
	src.Press(BtnAux1)
	e.Detect(BtnAux1)
	if clk.Now().Sub(before) != DebounceSettle {
		t.Fatalf("expected settle of %v, clock advanced %v", DebounceSettle, clk.Now().Sub(before))
	}

	// No transition, no settle.
	before = clk.Now()
	e.Detect(BtnAux1)
	if !clk.Now().Equal(before) {
		t.Fatal("settle applied without a transition")
	}
}

func TestDetectUnknownButtonIsSafe(t *testing.T) {
	e := newEdge(NewScriptSource())
	if e.Detect(Button(99)) {
		t.Fatal("unknown button produced an edge")
	}
}

func TestDetectSampleFailureIsSafe(t *testing.T) {
	src := NewScriptSource()
	src.Fail(errors.New("bus glitch"))
	e := newEdge(src)
	if e.Detect(BtnAck) {
		t.Fatal("failed sample produced an edge")
	}
}
