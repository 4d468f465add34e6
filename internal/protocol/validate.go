package protocol

import "fmt"

// ValidationError names the first field that fell outside its declared
// domain. One bad field rejects the packet in its entirety; there is no
// field-level recovery or clamping.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("protocol: field %s: %s", e.Field, e.Reason)
}

// Validate range-checks every field of p independently and returns nil iff
// all checks pass. Wire packets must carry one of the four connected modes;
// ModeNotConnected is never a legal reception.
func Validate(p Packet) error {
	if err := checkAxis("rightX", p.RightX); err != nil {
		return err
	}
	if err := checkAxis("leftX", p.LeftX); err != nil {
		return err
	}
	if err := checkAxis("rightY", p.RightY); err != nil {
		return err
	}
	if err := checkAxis("leftY", p.LeftY); err != nil {
		return err
	}
	if !p.Mode.OnWire() {
		return ValidationError{Field: "mode", Reason: fmt.Sprintf("value %d outside [0,3]", int8(p.Mode))}
	}
	if err := checkSensitivity("throttleSensitivity", p.ThrottleSensitivity); err != nil {
		return err
	}
	if err := checkSensitivity("steerSensitivity", p.SteerSensitivity); err != nil {
		return err
	}
	return nil
}

// Valid is the boolean form of Validate.
func Valid(p Packet) bool { return Validate(p) == nil }

func checkAxis(name string, v int16) error {
	if v < Uninitialized || v > AxisMax {
		return ValidationError{Field: name, Reason: fmt.Sprintf("value %d outside [-1,%d]", v, AxisMax)}
	}
	return nil
}

func checkSensitivity(name string, v int8) error {
	if v < Uninitialized || v > SensitivityMax {
		return ValidationError{Field: name, Reason: fmt.Sprintf("value %d outside [-1,%d]", v, SensitivityMax)}
	}
	return nil
}
