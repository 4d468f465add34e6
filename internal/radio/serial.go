package radio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"time"

	"go.bug.st/serial"
)

// Porter is the minimal interface needed from a serial port, so tests can
// substitute a mock for real hardware.
type Porter interface {
	io.ReadWriter
	io.Closer
}

// Serial framing for UART-bridged radio modules. The bridge firmware
// relays everything between UART and air, so each datagram is wrapped as
//
//	Length(1) | Payload(0-32) | CRC32(4, little-endian, over payload) | Terminal(1)
//
// Length counts everything after the length byte. A frame that fails any
// of these checks is dropped byte-by-byte until the stream resyncs; a
// lost datagram is normal transport behaviour here.
const (
	frameTerminal = 0x55
	frameCRCSize  = 4
	frameOverhead = frameCRCSize + 1 // bytes after payload
)

var ErrDatagramTooLarge = errors.New("radio: datagram exceeds radio payload limit")

// SerialDriver is a Driver over a UART-attached radio bridge.
type SerialDriver struct {
	port   Porter
	rbuf   []byte
	closed bool
}

// OpenSerial opens the bridge device with a short read timeout so that
// TryReceive stays a non-blocking poll.
func OpenSerial(device string, baud int) (*SerialDriver, error) {
	port, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("radio: open %s: %w", device, err)
	}
	if err := port.SetReadTimeout(time.Millisecond); err != nil {
		port.Close()
		return nil, fmt.Errorf("radio: read timeout on %s: %w", device, err)
	}
	return &SerialDriver{port: port}, nil
}

// NewSerialDriver wraps an already-open port. Used by tests.
func NewSerialDriver(port Porter) *SerialDriver {
	return &SerialDriver{port: port}
}

func (d *SerialDriver) Send(data []byte) error {
	if d.closed {
		return ErrClosed
	}
	if len(data) > MaxDatagram {
		return fmt.Errorf("%w: %d bytes", ErrDatagramTooLarge, len(data))
	}
	_, err := d.port.Write(EncodeSerialFrame(data))
	return err
}

func (d *SerialDriver) TryReceive() ([]byte, bool, error) {
	if d.closed {
		return nil, false, ErrClosed
	}

	// Drain whatever the port has pending right now.
	var chunk [64]byte
	for {
		n, err := d.port.Read(chunk[:])
		if n > 0 {
			d.rbuf = append(d.rbuf, chunk[:n]...)
		}
		if err != nil || n == 0 {
			break
		}
	}

	payload, rest, ok := scanSerialFrame(d.rbuf)
	d.rbuf = rest
	return payload, ok, nil
}

func (d *SerialDriver) Close() error {
	d.closed = true
	return d.port.Close()
}

// EncodeSerialFrame wraps one datagram in the bridge framing.
func EncodeSerialFrame(payload []byte) []byte {
	bodyLen := len(payload) + frameOverhead
	out := make([]byte, 1+bodyLen)
	out[0] = byte(bodyLen)
	copy(out[1:], payload)
	crcPos := 1 + len(payload)
	binary.LittleEndian.PutUint32(out[crcPos:crcPos+frameCRCSize], crc32.ChecksumIEEE(payload))
	out[len(out)-1] = frameTerminal
	return out
}

// scanSerialFrame extracts the first complete valid frame from buf,
// returning its payload and the unconsumed remainder. On any framing or
// CRC mismatch it discards one byte and rescans, so a corrupted stream
// self-heals at the next frame boundary.
func scanSerialFrame(buf []byte) (payload, rest []byte, ok bool) {
	for len(buf) > 0 {
		bodyLen := int(buf[0])
		if bodyLen < frameOverhead || bodyLen > MaxDatagram+frameOverhead {
			buf = buf[1:]
			continue
		}
		total := 1 + bodyLen
		if len(buf) < total {
			return nil, buf, false // incomplete, wait for more bytes
		}
		if buf[total-1] != frameTerminal {
			buf = buf[1:]
			continue
		}
		payloadLen := bodyLen - frameOverhead
		got := binary.LittleEndian.Uint32(buf[1+payloadLen : 1+payloadLen+frameCRCSize])
		if got != crc32.ChecksumIEEE(buf[1:1+payloadLen]) {
			buf = buf[1:]
			continue
		}
		out := make([]byte, payloadLen)
		copy(out, buf[1:1+payloadLen])
		return out, buf[total:], true
	}
	return nil, buf, false
}
