package transmitter

import (
	"fmt"
	"time"

	"github.com/mkuiper/rclink/internal/display"
	"github.com/mkuiper/rclink/internal/input"
	"github.com/mkuiper/rclink/internal/protocol"
	"github.com/mkuiper/rclink/internal/settings"
)

// Settings editor, reachable from Pro mode. Two pages (steering,
// throttle), each either browsing or with its value highlighted for
// adjustment. While the editor is open the packet carries Idle at the
// throttled cadence so the vehicle never acts on stale Pro axes.
const (
	editorBlinkInterval  = 700 * time.Millisecond
	editorAdjustCooldown = 100 * time.Millisecond
	confirmDwell         = 500 * time.Millisecond

	editorStep int8 = 5
	editorMin  int8 = 5
	editorMax  int8 = protocol.SensitivityMax
)

type editorPage int

const (
	pageSteer editorPage = iota
	pageThrottle
)

func (p editorPage) slot() settings.Slot {
	if p == pageThrottle {
		return settings.SlotThrottle
	}
	return settings.SlotSteer
}

func (p editorPage) title() string {
	if p == pageThrottle {
		return "Edit Throttle"
	}
	return "Edit Steering"
}

func (p editorPage) rowPrefix() string {
	if p == pageThrottle {
		return "TR = "
	}
	return "ST = "
}

type editorState struct {
	active      bool
	page        editorPage
	highlighted bool
	buffer      int8
	visible     bool
	lastBlink   time.Time
	lastAdjust  time.Time
}

func (t *Transmitter) enterEditor() {
	t.editor = editorState{
		active:  true,
		page:    pageSteer,
		buffer:  t.steerSens,
		visible: true,
	}
}

func (t *Transmitter) liveValue(p editorPage) int8 {
	if p == pageThrottle {
		return t.throttleSens
	}
	return t.steerSens
}

func (t *Transmitter) setLiveValue(p editorPage, v int8) {
	if p == pageThrottle {
		t.throttleSens = v
	} else {
		t.steerSens = v
	}
}

func (t *Transmitter) stepEditor() {
	e := &t.editor
	now := t.clk.Now()

	t.send(protocol.ModeIdle)
	t.drawEditor()

	if e.highlighted && now.Sub(e.lastBlink) > editorBlinkInterval {
		e.lastBlink = now
		e.visible = !e.visible
	}

	// Adjustment reads the stick level directly: a held deflection keeps
	// stepping, paced by the cooldown. A failed sample never adjusts;
	// the stored value can be any multiple of one, so the step is
	// clamped after applying rather than guarded before.
	if e.highlighted && now.Sub(e.lastAdjust) >= editorAdjustCooldown {
		e.lastAdjust = now
		raw, err := t.src.Read(input.AxisRightY)
		if err != nil {
			t.log.Error().Err(err).Stringer("axis", input.AxisRightY).Msg("axis read failed")
		} else {
			next := e.buffer
			switch {
			case raw > input.DeadbandHigh:
				next -= editorStep
			case raw < input.DeadbandLow:
				next += editorStep
			}
			if next < editorMin {
				next = editorMin
			}
			if next > editorMax {
				next = editorMax
			}
			if next != e.buffer {
				e.buffer = next
				e.visible = true
				e.lastBlink = now
			}
		}
	}

	if t.edges.Detect(input.BtnAck) {
		if !e.highlighted {
			e.highlighted = true
			e.visible = true
			e.lastBlink = now
		} else {
			t.commitEditor()
		}
		return
	}

	if t.edges.Detect(input.BtnBack) {
		if e.highlighted {
			e.highlighted = false
			e.visible = true
			e.buffer = t.loadSlot(e.page.slot())
		} else {
			e.active = false
		}
		return
	}

	if !e.highlighted && t.sticks.Deflected(input.AxisLeftY) != 0 {
		if e.page == pageSteer {
			e.page = pageThrottle
		} else {
			e.page = pageSteer
		}
		e.buffer = t.liveValue(e.page)
	}
}

func (t *Transmitter) commitEditor() {
	e := &t.editor
	e.highlighted = false
	e.visible = true
	if err := t.store.Save(e.page.slot(), e.buffer); err != nil {
		t.log.Error().Err(err).Stringer("slot", e.page.slot()).Msg("settings save failed")
	}
	t.setLiveValue(e.page, e.buffer)
	t.drawConfirmation()
	t.clk.Sleep(confirmDwell)
}

func (t *Transmitter) drawEditor() {
	e := &t.editor
	t.disp.Clear()
	t.drawHeader(e.page.title())
	row := e.page.rowPrefix()
	if e.visible {
		row = fmt.Sprintf("%s%d%%", row, e.buffer)
	}
	t.disp.Text(colSpacing/2, rowSpacing*3, row)
	t.disp.Present()
}

func (t *Transmitter) drawConfirmation() {
	t.disp.Clear()
	t.disp.Text(colSpacing/2, display.Height/2+5, "Value Set!")
	t.disp.Present()
}
