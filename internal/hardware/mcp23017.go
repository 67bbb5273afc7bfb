package hardware

import (
	"context"
	"fmt"
	"sync"

	mcp23017 "github.com/racerxdl/go-mcp23017"

	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

func init() {
	register("mcp23017", newMCP23017)
}

// mcp23017 pin addressing: 16 pins per chip (0-7 bank A, 8-15 bank B).
const mcp23017PinCount = 16

// mcpModule drives an MCP23017 16-channel I2C port expander.
//
// Options:
//
//	bus:     I2C bus number (default 1, the Pi's user-facing bus)
//	address: device number on the bus, 0-7 selecting 0x20-0x27 (default 0)
type mcpModule struct {
	name string
	dev  *mcp23017.Device

	// Serialises bus transactions; the chip has one register file.
	mu sync.Mutex
}

func newMCP23017(cfg config.ModuleConfig) (Module, error) {
	bus, err := intOption(cfg.Options, "bus", 1)
	if err != nil {
		return nil, err
	}
	addr, err := intOption(cfg.Options, "address", 0)
	if err != nil {
		return nil, err
	}
	if addr < 0 || addr > 7 {
		return nil, fmt.Errorf("%w: address must be 0-7, got %d", ErrInvalidOptions, addr)
	}

	dev, err := mcp23017.Open(uint8(bus), uint8(addr))
	if err != nil {
		return nil, fmt.Errorf("%w: bus %d address %d: %w", ErrOpenFailed, bus, addr, err)
	}

	return &mcpModule{name: cfg.Name, dev: dev}, nil
}

func (m *mcpModule) Name() string { return m.name }

func (m *mcpModule) ConfigurePin(pin int, direction PinDirection, pull PullMode, _ map[string]any) error {
	if pin < 0 || pin >= mcp23017PinCount {
		return fmt.Errorf("%w: %d (chip has %d pins)", ErrInvalidPin, pin, mcp23017PinCount)
	}
	// The chip only has internal pull-ups.
	if pull == PullDown {
		return fmt.Errorf("%w: mcp23017 has no pull-down resistors", ErrUnsupportedPull)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	mode := mcp23017.INPUT
	if direction == DirectionOutput {
		mode = mcp23017.OUTPUT
	}
	if err := m.dev.PinMode(uint8(pin), mode); err != nil {
		return fmt.Errorf("setting pin %d mode: %w", pin, err)
	}
	if direction == DirectionInput {
		if err := m.dev.SetPullUp(uint8(pin), pull == PullUp); err != nil {
			return fmt.Errorf("setting pin %d pull-up: %w", pin, err)
		}
	}
	return nil
}

func (m *mcpModule) ReadPin(ctx context.Context, pin int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if pin < 0 || pin >= mcp23017PinCount {
		return false, fmt.Errorf("%w: %d", ErrInvalidPin, pin)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	level, err := m.dev.DigitalRead(uint8(pin))
	if err != nil {
		return false, fmt.Errorf("reading pin %d: %w", pin, err)
	}
	return bool(level), nil
}

func (m *mcpModule) WritePin(ctx context.Context, pin int, value bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pin < 0 || pin >= mcp23017PinCount {
		return fmt.Errorf("%w: %d", ErrInvalidPin, pin)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.dev.DigitalWrite(uint8(pin), mcp23017.PinLevel(value)); err != nil {
		return fmt.Errorf("writing pin %d: %w", pin, err)
	}
	return nil
}

func (m *mcpModule) Close() error {
	return m.dev.Close()
}
