// Package radio models the radio module as an unreliable best-effort
// datagram transport. A Driver carries at most one fixed-size control
// datagram per send; delivery is never guaranteed and reception is a
// non-blocking poll. Link reliability lives above this boundary, in
// packet validation and the receiver's timeout fallback.
package radio

// MaxDatagram is the radio module's on-air payload limit.
const MaxDatagram = 32

// Driver is the narrow capability interface over the physical radio.
type Driver interface {
	// Send transmits one datagram, fire-and-forget. A nil return means
	// the datagram was handed to the radio, not that anyone received it.
	Send(data []byte) error

	// TryReceive polls for one datagram without blocking. ok is false
	// when nothing is pending; err reports local I/O failure only.
	TryReceive() (data []byte, ok bool, err error)

	Close() error
}
