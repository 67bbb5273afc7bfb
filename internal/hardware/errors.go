package hardware

import "errors"

// Domain errors for the hardware package.
var (
	// ErrUnknownBackend is returned when a module config names a backend
	// type that is not in the static registry.
	ErrUnknownBackend = errors.New("hardware: unknown backend type")

	// ErrInvalidOptions is returned when backend-specific options are
	// malformed (wrong type, out of range).
	ErrInvalidOptions = errors.New("hardware: invalid backend options")

	// ErrInvalidPin is returned when a pin identifier is outside the
	// backend's addressable range.
	ErrInvalidPin = errors.New("hardware: invalid pin")

	// ErrUnsupportedPull is returned when a backend cannot provide the
	// requested pull resistor mode.
	ErrUnsupportedPull = errors.New("hardware: unsupported pull mode")

	// ErrOpenFailed is returned when the underlying device cannot be opened.
	ErrOpenFailed = errors.New("hardware: device open failed")
)
