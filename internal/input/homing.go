package input

import (
	"github.com/rs/zerolog"

	"github.com/mkuiper/rclink/internal/protocol"
)

// Deadband within which an axis counts as centered (homed).
const (
	DeadbandLow  = 400
	DeadbandHigh = 600
)

// AxisHomingFilter reduces a sustained joystick deflection to a single
// actionable event. While an axis sits inside the deadband it is homed and
// reads as neutral; the first out-of-band sample after homing passes
// through once, then the axis must return to center before it can fire
// again. Menu scrolling and value adjustment are driven off this so a held
// stick does not retrigger every poll.
type AxisHomingFilter struct {
	src   Source
	log   zerolog.Logger
	homed [axisCount]bool
}

func NewAxisHomingFilter(src Source, log zerolog.Logger) *AxisHomingFilter {
	f := &AxisHomingFilter{src: src, log: log}
	for i := range f.homed {
		f.homed[i] = true
	}
	return f
}

// Sample returns the raw reading of a on its one deflection event and the
// neutral center value otherwise. Unknown axes and read failures are
// reported and read as neutral, never a fault.
func (f *AxisHomingFilter) Sample(a Axis) int {
	if a < 0 || a >= axisCount {
		f.log.Error().Stringer("axis", a).Msg("homing sample on unknown axis")
		return protocol.AxisCenter
	}

	v, err := f.src.Read(a)
	if err != nil {
		f.log.Error().Err(err).Stringer("axis", a).Msg("axis sample failed")
		return protocol.AxisCenter
	}

	if v >= DeadbandLow && v <= DeadbandHigh {
		f.homed[a] = true
		return protocol.AxisCenter
	}
	if f.homed[a] {
		f.homed[a] = false
		return v
	}
	return protocol.AxisCenter
}

// Deflected folds a homing-filtered sample into a scroll direction:
// -1 below the deadband, +1 above it, 0 when suppressed or centered.
func (f *AxisHomingFilter) Deflected(a Axis) int {
	v := f.Sample(a)
	switch {
	case v > DeadbandHigh:
		return 1
	case v < DeadbandLow:
		return -1
	}
	return 0
}
