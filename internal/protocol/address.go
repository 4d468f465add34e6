package protocol

// PipeAddress is a 40-bit logical radio channel address, most significant
// byte first, as programmed into the radio module's address registers.
type PipeAddress [5]byte

// The two fixed link addresses. Both ends must agree on these or nothing
// is ever received.
var (
	// PipeControl carries transmitter→receiver control packets.
	PipeControl = PipeAddress{0xA4, 0x0F, 0x7C, 0xA5, 0xF7}

	// PipeTelemetry is reserved for receiver→transmitter traffic
	// (battery voltage reporting); unused for now.
	PipeTelemetry = PipeAddress{0x32, 0xFA, 0x46, 0xD0, 0xE2}
)
