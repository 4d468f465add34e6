package transmitter

import (
	"fmt"
	"time"

	"github.com/mkuiper/rclink/internal/display"
	"github.com/mkuiper/rclink/internal/input"
	"github.com/mkuiper/rclink/internal/protocol"
)

// Screen layouts follow the 128x64 OLED of the handheld: a centered
// header with a rule under it, then rows at fixed vertical spacing.
const (
	headerY    = 15
	rowSpacing = display.Height / 4
	colSpacing = display.Width / 2
)

// batteryVoltsPerCount converts a raw battery ADC sample to volts: the
// divider scales the pack down by 3 onto a 3.3V/1023-count input.
const batteryVoltsPerCount = 0.003225287 * 3

// notConnected is the readout for values with no source attached; the
// vehicle's own voltage stays NC until the telemetry pipe is in use.
const notConnected = "NC"

var menuItems = []struct {
	label string
	mode  protocol.Mode
}{
	{"Easy", protocol.ModeEasy},
	{"Pro", protocol.ModePro},
	{"Debug", protocol.ModeDebug},
}

func (t *Transmitter) drawHeader(name string) {
	x := (display.Width - 6*len(name)) / 2
	t.disp.Text(x, headerY, name)
	t.disp.HLine(headerY + 1)
}

func (t *Transmitter) drawMenu() {
	t.disp.Clear()
	t.drawHeader("Menu")
	for i, item := range menuItems {
		y := headerY * (i + 2)
		if i == t.cursor {
			t.disp.Text(0, y, ">")
		}
		t.disp.Text(10, y, item.label)
	}
	t.disp.Present()
}

func (t *Transmitter) drawBasicInfo() {
	hl, tl := "HL: Off", "TL: Off"
	if t.packet.HeadLight {
		hl = "HL: On"
	}
	if t.packet.TailLight {
		tl = "TL: On"
	}
	t.disp.Text(0, rowSpacing*2, hl)
	t.disp.Text(colSpacing, rowSpacing*2, tl)

	rv := notConnected
	if raw, ok := t.readBattery(); ok {
		rv = fmt.Sprintf("%.1fV", float64(raw)*batteryVoltsPerCount)
	}
	t.disp.Text(0, rowSpacing*3, "RV: "+rv)
	t.disp.Text(colSpacing, rowSpacing*3, "VV: "+notConnected)
}

// readBattery samples the battery channel when one is wired up.
func (t *Transmitter) readBattery() (int, bool) {
	if t.battery == nil {
		return 0, false
	}
	raw, err := t.battery.Read()
	if err != nil {
		t.log.Error().Err(err).Msg("battery read failed")
		return 0, false
	}
	return raw, true
}

func (t *Transmitter) drawEasy() {
	t.disp.Clear()
	t.drawHeader("Easy")
	t.drawBasicInfo()
	t.disp.Present()
}

func (t *Transmitter) drawPro() {
	t.disp.Clear()
	t.drawHeader("Pro")
	t.drawBasicInfo()
	t.disp.Text(0, rowSpacing*4, fmt.Sprintf("TH: %d%%", t.throttleSens))
	t.disp.Text(colSpacing, rowSpacing*4, fmt.Sprintf("ST: %d%%", t.steerSens))
	t.disp.Present()
}

func (t *Transmitter) drawDebug() {
	t.disp.Clear()
	t.drawHeader("Debug")
	if t.debugPage == 0 {
		t.disp.Text(0, rowSpacing*2, fmt.Sprintf("LX:%d", t.readAxis(input.AxisLeftX)))
		t.disp.Text(45, rowSpacing*2, fmt.Sprintf("LY:%d", t.readAxis(input.AxisLeftY)))
		t.disp.Text(90, rowSpacing*2, fmt.Sprintf("LSW:%v", t.level(input.BtnLeftStick)))
		t.disp.Text(0, rowSpacing*3, fmt.Sprintf("RX:%d", t.readAxis(input.AxisRightX)))
		t.disp.Text(45, rowSpacing*3, fmt.Sprintf("RY:%d", t.readAxis(input.AxisRightY)))
		t.disp.Text(90, rowSpacing*3, fmt.Sprintf("RSW:%v", t.level(input.BtnRightStick)))
		ra := notConnected
		if raw, ok := t.readBattery(); ok {
			ra = fmt.Sprintf("%d", raw)
		}
		t.disp.Text(0, rowSpacing*4, "RA:"+ra)
		t.disp.Text(colSpacing, rowSpacing*4, "VA:"+notConnected)
	} else {
		t.disp.Text(0, rowSpacing*2, fmt.Sprintf("AB1:%v", t.level(input.BtnAux1)))
		t.disp.Text(45, rowSpacing*2, fmt.Sprintf("AB2:%v", t.level(input.BtnAux2)))
	}
	t.disp.Present()
}

const debugPageCount = 2

// startupAnimation scrolls the boot banner down the screen; an ack press
// skips it.
func (t *Transmitter) startupAnimation() {
	for y := -50; y < 80; y += 2 {
		if t.edges.Detect(input.BtnAck) {
			return
		}
		t.disp.Clear()
		t.disp.Text(50, y, "RC")
		t.disp.Text(15, y+15, "Controller")
		t.disp.Present()
		t.clk.Sleep(20 * time.Millisecond)
	}
}
