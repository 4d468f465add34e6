package receiver

import "github.com/mkuiper/rclink/internal/protocol"

// Actuator command range. Servo-style: 0..180 with 90 as the mechanical
// neutral for both steering and the drive controller.
const (
	ActuatorMin     = 0
	ActuatorNeutral = 90
	ActuatorMax     = 180
)

// MapActuator linearly remaps a raw analog sample onto the actuator range
// the sensitivity allows around neutral:
//
//	[neutral - neutral*sens/100, neutral + neutral*sens/100]
//
// Sensitivity 0 pins the actuator at neutral, 100 opens the full range.
// Inputs are clamped into their domains so an uninitialized sentinel
// degrades to the low end instead of extrapolating past the mechanics.
func MapActuator(raw int, sensitivity int8, neutral int) int {
	if raw < 0 {
		raw = 0
	}
	if raw > protocol.AxisMax {
		raw = protocol.AxisMax
	}
	s := int(sensitivity)
	if s < 0 {
		s = 0
	}
	if s > protocol.SensitivityMax {
		s = protocol.SensitivityMax
	}

	span := neutral * s / 100
	lo := neutral - span
	hi := neutral + span
	return lo + raw*(hi-lo)/protocol.AxisMax
}
