// Package receiver implements the onboard node: it polls the radio,
// validates what arrives, tracks link health and drives the steering and
// drive actuators and the accessory outputs.
package receiver

import (
	"time"

	"github.com/mkuiper/rclink/internal/clock"
	"github.com/mkuiper/rclink/internal/observability"
	"github.com/mkuiper/rclink/internal/protocol"
)

// LinkTimeout is how long the receiver tolerates silence before it
// presumes the remote unreachable and falls back to the safe state.
const LinkTimeout = 3000 * time.Millisecond

// LinkMonitor tracks recency of valid reception. It is either connected
// in the mode the last accepted packet dictated, or not connected at all;
// the timeout overrides whatever the last good packet said.
type LinkMonitor struct {
	clk       clock.Clock
	timeout   time.Duration
	mode      protocol.Mode
	lastValid time.Time
	seenValid bool
}

func NewLinkMonitor(clk clock.Clock, timeout time.Duration) *LinkMonitor {
	if timeout <= 0 {
		timeout = LinkTimeout
	}
	return &LinkMonitor{clk: clk, timeout: timeout, mode: protocol.ModeNotConnected}
}

// Accept stamps a valid reception and adopts its mode. It reports whether
// this reception re-established a lost link, which is what drives the
// one-shot reconnection cue.
func (m *LinkMonitor) Accept(mode protocol.Mode) (reconnected bool) {
	reconnected = m.mode == protocol.ModeNotConnected
	m.lastValid = m.clk.Now()
	m.seenValid = true
	m.mode = mode
	if reconnected {
		observability.RecordLinkReconnect()
	}
	return reconnected
}

// Check forces the not-connected fallback once the timeout elapses with
// no accepted packet. It reports whether the link dropped on this call.
func (m *LinkMonitor) Check() (dropped bool) {
	if m.mode == protocol.ModeNotConnected {
		return false
	}
	if !m.seenValid || m.clk.Now().Sub(m.lastValid) > m.timeout {
		m.mode = protocol.ModeNotConnected
		observability.RecordLinkDrop()
		return true
	}
	return false
}

// Mode returns the currently active mode, ModeNotConnected included.
func (m *LinkMonitor) Mode() protocol.Mode { return m.mode }

// Connected reports whether any connected mode is active.
func (m *LinkMonitor) Connected() bool { return m.mode != protocol.ModeNotConnected }
