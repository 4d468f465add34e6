package radio

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("radio: driver closed")

// Loopback is an in-memory Driver pair for host-side testing and the link
// simulator. Each direction is a single-slot mailbox where the latest
// write wins, mirroring how a radio receiver's FIFO overruns under a
// faster sender: stale datagrams are silently lost, never queued forever.
type Loopback struct {
	mu     sync.Mutex
	peer   *Loopback
	slot   []byte
	full   bool
	closed bool

	// drop, when set, makes Send discard the datagram, simulating link
	// loss.
	drop bool
}

// NewLoopbackPair returns two connected endpoints; what one sends the
// other may receive.
func NewLoopbackPair() (*Loopback, *Loopback) {
	a := &Loopback{}
	b := &Loopback{}
	a.peer = b
	b.peer = a
	return a, b
}

func (l *Loopback) Send(data []byte) error {
	l.mu.Lock()
	closed, drop := l.closed, l.drop
	l.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if drop {
		return nil
	}

	p := l.peer
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil // peer gone, datagram lost on air
	}
	p.slot = append(p.slot[:0], data...)
	p.full = true
	return nil
}

func (l *Loopback) TryReceive() ([]byte, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, false, ErrClosed
	}
	if !l.full {
		return nil, false, nil
	}
	out := make([]byte, len(l.slot))
	copy(out, l.slot)
	l.full = false
	return out, true, nil
}

func (l *Loopback) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

// SetDrop toggles simulated link loss.
func (l *Loopback) SetDrop(drop bool) {
	l.mu.Lock()
	l.drop = drop
	l.mu.Unlock()
}
