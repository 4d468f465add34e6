// Package protocol defines the control packet shared by the transmitter and
// receiver nodes: the struct, its on-air codec and the whole-packet validator.
// The packet is the only value that crosses the radio boundary, and every
// field has a declared domain; anything outside it invalidates the packet as
// a whole.
package protocol

import "fmt"

// Mode is the operating mode carried in every packet. Only the four
// connected values are legal on the wire; ModeNotConnected is derived on
// the receiver from link timeout and is never transmitted.
type Mode int8

const (
	ModeIdle  Mode = 0
	ModeEasy  Mode = 1
	ModePro   Mode = 2
	ModeDebug Mode = 3

	// ModeNotConnected is receiver-side state only.
	ModeNotConnected Mode = 4
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModeEasy:
		return "easy"
	case ModePro:
		return "pro"
	case ModeDebug:
		return "debug"
	case ModeNotConnected:
		return "not_connected"
	}
	return fmt.Sprintf("mode(%d)", int8(m))
}

// OnWire reports whether the mode may appear in a transmitted packet.
func (m Mode) OnWire() bool { return m >= ModeIdle && m <= ModeDebug }

const (
	// Uninitialized marks an analog or sensitivity field that has never
	// been sampled.
	Uninitialized = -1

	// AxisMax is the upper bound of a raw analog sample (10-bit ADC).
	AxisMax = 1023

	// AxisCenter is the neutral reading of a centered joystick axis.
	AxisCenter = 512

	// SensitivityMax is the upper bound of a sensitivity percentage.
	SensitivityMax = 100
)

// Packet is the fixed-layout control datagram. All analog fields are raw
// joystick samples in [0,AxisMax] with Uninitialized as the never-sampled
// sentinel. HeadLight and TailLight carry toggle state owned by the
// transmitter; Brake and Honk are level-sampled every tick.
type Packet struct {
	RightX int16
	LeftX  int16
	RightY int16
	LeftY  int16

	Mode Mode

	ThrottleSensitivity int8
	SteerSensitivity    int8

	RightStick bool
	LeftStick  bool
	Ack        bool
	Back       bool
	Aux1       bool
	Aux2       bool
	Brake      bool
	Honk       bool
	HeadLight  bool
	TailLight  bool
}

// NewPacket returns a packet with all analog and sensitivity fields at the
// uninitialized sentinel, matching the state of a freshly booted node.
func NewPacket() Packet {
	return Packet{
		RightX:              Uninitialized,
		LeftX:               Uninitialized,
		RightY:              Uninitialized,
		LeftY:               Uninitialized,
		Mode:                ModeIdle,
		ThrottleSensitivity: Uninitialized,
		SteerSensitivity:    Uninitialized,
	}
}
