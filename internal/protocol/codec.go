package protocol

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire layout, little-endian, fixed order:
//
//	rightX(2) leftX(2) rightY(2) leftY(2) | mode(1) throttleSens(1) steerSens(1) |
//	rightStick leftStick ack back aux1 aux2 brake honk headLight tailLight (1 each)
//
// 21 bytes total, well inside the radio's 32-byte datagram limit.
const PacketSize = 21

var (
	ErrShortPacket = errors.New("protocol: datagram shorter than packet size")
	ErrBadMode     = errors.New("protocol: mode not transmittable")
)

// Encode serialises p into its on-air form. Encoding a receiver-side mode
// is a programming error and is rejected rather than leaked onto the wire.
func Encode(p Packet) ([]byte, error) {
	if !p.Mode.OnWire() {
		return nil, fmt.Errorf("%w: %s", ErrBadMode, p.Mode)
	}

	buf := make([]byte, PacketSize)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(p.RightX))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(p.LeftX))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(p.RightY))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(p.LeftY))
	buf[8] = byte(p.Mode)
	buf[9] = byte(p.ThrottleSensitivity)
	buf[10] = byte(p.SteerSensitivity)
	putBool(buf, 11, p.RightStick)
	putBool(buf, 12, p.LeftStick)
	putBool(buf, 13, p.Ack)
	putBool(buf, 14, p.Back)
	putBool(buf, 15, p.Aux1)
	putBool(buf, 16, p.Aux2)
	putBool(buf, 17, p.Brake)
	putBool(buf, 18, p.Honk)
	putBool(buf, 19, p.HeadLight)
	putBool(buf, 20, p.TailLight)
	return buf, nil
}

// Decode parses an on-air datagram. It only checks length; domain checks
// are the validator's job so that out-of-range values surface as a
// rejected packet, not a decode failure. Boolean bytes outside {0,1} decode
// to true and are caught by Validate via the raw byte check below.
func Decode(data []byte) (Packet, error) {
	if len(data) < PacketSize {
		return Packet{}, fmt.Errorf("%w: got %d bytes", ErrShortPacket, len(data))
	}

	p := Packet{
		RightX:              int16(binary.LittleEndian.Uint16(data[0:2])),
		LeftX:               int16(binary.LittleEndian.Uint16(data[2:4])),
		RightY:              int16(binary.LittleEndian.Uint16(data[4:6])),
		LeftY:               int16(binary.LittleEndian.Uint16(data[6:8])),
		Mode:                Mode(int8(data[8])),
		ThrottleSensitivity: int8(data[9]),
		SteerSensitivity:    int8(data[10]),
		RightStick:          data[11] != 0,
		LeftStick:           data[12] != 0,
		Ack:                 data[13] != 0,
		Back:                data[14] != 0,
		Aux1:                data[15] != 0,
		Aux2:                data[16] != 0,
		Brake:               data[17] != 0,
		Honk:                data[18] != 0,
		HeadLight:           data[19] != 0,
		TailLight:           data[20] != 0,
	}
	return p, nil
}

// DecodeValidated decodes and range-checks a datagram in one step. This is
// the receiver's entry point: a short datagram and an out-of-domain field
// both mean the whole reception is discarded.
func DecodeValidated(data []byte) (Packet, error) {
	p, err := Decode(data)
	if err != nil {
		return Packet{}, err
	}
	for i := 11; i < PacketSize; i++ {
		if data[i] > 1 {
			return Packet{}, ValidationError{Field: boolFieldNames[i-11], Reason: "boolean byte outside {0,1}"}
		}
	}
	if err := Validate(p); err != nil {
		return Packet{}, err
	}
	return p, nil
}

func putBool(buf []byte, i int, v bool) {
	if v {
		buf[i] = 1
	}
}

var boolFieldNames = [...]string{
	"rightJoystickButton", "leftJoystickButton", "ackButton", "backButton",
	"auxButton1", "auxButton2", "brake", "honk", "headLight", "tailLight",
}
