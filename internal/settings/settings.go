// Package settings persists the operator's sensitivity tuning across
// boots of the transmitter node. The layout is two single-byte slots,
// mirroring the EEPROM cells the receiver-side documentation refers to.
package settings

import (
	"errors"
	"fmt"
)

// Slot indexes one persisted byte.
type Slot uint8

const (
	SlotSteer    Slot = 0
	SlotThrottle Slot = 1
	slotCount         = 2
)

func (s Slot) String() string {
	switch s {
	case SlotSteer:
		return "steer_sensitivity"
	case SlotThrottle:
		return "throttle_sensitivity"
	}
	return fmt.Sprintf("slot(%d)", uint8(s))
}

var (
	ErrUnknownSlot = errors.New("settings: unknown slot")
	ErrOutOfRange  = errors.New("settings: value outside [0,100]")
)

// Store is the persistent settings collaborator.
type Store interface {
	Load(s Slot) (int8, error)
	Save(s Slot, v int8) error
	Close() error
}

func checkSlot(s Slot) error {
	if s >= slotCount {
		return fmt.Errorf("%w: %d", ErrUnknownSlot, s)
	}
	return nil
}

func checkValue(v int8) error {
	if v < 0 || v > 100 {
		return fmt.Errorf("%w: %d", ErrOutOfRange, v)
	}
	return nil
}
