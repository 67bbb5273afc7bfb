package hardware

import "context"

// PinDirection configures a pin as input or output.
type PinDirection int

const (
	DirectionInput PinDirection = iota
	DirectionOutput
)

// String returns the direction name for logging.
func (d PinDirection) String() string {
	if d == DirectionOutput {
		return "output"
	}
	return "input"
}

// PullMode configures a pin's internal pull resistor.
type PullMode int

const (
	PullNone PullMode = iota
	PullUp
	PullDown
)

// String returns the pull mode name for logging.
func (p PullMode) String() string {
	switch p {
	case PullUp:
		return "up"
	case PullDown:
		return "down"
	default:
		return "none"
	}
}

// Module is the capability interface every hardware backend implements.
//
// A Module represents one addressable bank of digital pins (the SoC's own
// GPIO header, an I2C expander, a development dummy). Modules are created
// once at startup from configuration and shared read-only by every loop
// that touches their pins; serialisation of writes is the caller's concern.
//
// ReadPin and WritePin accept a context because expander backends go over
// a bus and may block; implementations must return promptly once the
// context is cancelled.
type Module interface {
	// Name returns the configured instance name.
	Name() string

	// ConfigurePin performs one-time pin setup. It is called once per pin
	// at startup, never per poll. opts carries backend-specific per-pin
	// settings; backends ignore keys they do not understand.
	ConfigurePin(pin int, direction PinDirection, pull PullMode, opts map[string]any) error

	// ReadPin returns the current logic level of a pin.
	ReadPin(ctx context.Context, pin int) (bool, error)

	// WritePin drives a pin high (true) or low (false).
	WritePin(ctx context.Context, pin int, value bool) error

	// Close releases backend resources. Called once at process exit.
	Close() error
}
