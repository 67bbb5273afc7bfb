package hardware

import (
	"context"
	"fmt"
	"sync"

	rpio "github.com/stianeikeland/go-rpio/v4"

	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

func init() {
	register("raspberrypi", newRaspberryPi)
}

// raspberryPi drives the Pi's native GPIO header via /dev/gpiomem.
//
// go-rpio memory-maps the GPIO registers, so reads and writes never
// block; the context parameters are only checked for early cancellation.
// Pin numbers are BCM numbering.
//
// rpio.Open and rpio.Close manage one process-wide register mapping, so
// at most one instance of this backend may exist; config validation
// enforces that.
type raspberryPi struct {
	name string

	// go-rpio's register access is not atomic across goroutines.
	mu sync.Mutex
}

func newRaspberryPi(cfg config.ModuleConfig) (Module, error) {
	if err := rpio.Open(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenFailed, err)
	}
	return &raspberryPi{name: cfg.Name}, nil
}

func (m *raspberryPi) Name() string { return m.name }

func (m *raspberryPi) ConfigurePin(pin int, direction PinDirection, pull PullMode, _ map[string]any) error {
	if pin < 0 || pin > 255 {
		return fmt.Errorf("%w: %d", ErrInvalidPin, pin)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := rpio.Pin(pin)
	switch direction {
	case DirectionOutput:
		p.Output()
	case DirectionInput:
		p.Input()
		switch pull {
		case PullUp:
			p.PullUp()
		case PullDown:
			p.PullDown()
		case PullNone:
			p.PullOff()
		}
	}
	return nil
}

func (m *raspberryPi) ReadPin(ctx context.Context, pin int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if pin < 0 || pin > 255 {
		return false, fmt.Errorf("%w: %d", ErrInvalidPin, pin)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return rpio.Pin(pin).Read() == rpio.High, nil
}

func (m *raspberryPi) WritePin(ctx context.Context, pin int, value bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if pin < 0 || pin > 255 {
		return fmt.Errorf("%w: %d", ErrInvalidPin, pin)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if value {
		rpio.Pin(pin).High()
	} else {
		rpio.Pin(pin).Low()
	}
	return nil
}

func (m *raspberryPi) Close() error {
	return rpio.Close()
}
