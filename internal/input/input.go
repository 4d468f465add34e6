// Package input samples and filters the operator controls on the
// transmitter node: debounced rising-edge detection over the buttons and
// homing suppression over the joystick axes. Raw hardware access sits
// behind the Source interface so the filters are testable on a host.
package input

import "fmt"

// Button identifies one discrete operator input.
type Button int

const (
	BtnRightStick Button = iota
	BtnLeftStick
	BtnAck
	BtnBack
	BtnAux1
	BtnAux2
	buttonCount
)

func (b Button) String() string {
	switch b {
	case BtnRightStick:
		return "right_stick"
	case BtnLeftStick:
		return "left_stick"
	case BtnAck:
		return "ack"
	case BtnBack:
		return "back"
	case BtnAux1:
		return "aux1"
	case BtnAux2:
		return "aux2"
	}
	return fmt.Sprintf("button(%d)", int(b))
}

// Axis identifies one continuous joystick axis.
type Axis int

const (
	AxisLeftX Axis = iota
	AxisLeftY
	AxisRightX
	AxisRightY
	axisCount
)

func (a Axis) String() string {
	switch a {
	case AxisLeftX:
		return "left_x"
	case AxisLeftY:
		return "left_y"
	case AxisRightX:
		return "right_x"
	case AxisRightY:
		return "right_y"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// Source is the hardware collaborator delivering raw input state.
// Level reports true while the button is held; Read returns a raw
// analog sample in [0,1023].
type Source interface {
	Level(b Button) (bool, error)
	Read(a Axis) (int, error)
}
