package hardware

import (
	"context"
	"sync"

	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

func init() {
	register("dummy", newDummy)
}

// dummyModule is an in-memory backend for development and bring-up on
// machines without GPIO hardware. Writes are stored, reads return the
// stored value (inputs read false until written).
type dummyModule struct {
	name string

	mu   sync.Mutex
	pins map[int]bool
}

func newDummy(cfg config.ModuleConfig) (Module, error) {
	return &dummyModule{
		name: cfg.Name,
		pins: make(map[int]bool),
	}, nil
}

func (m *dummyModule) Name() string { return m.name }

func (m *dummyModule) ConfigurePin(int, PinDirection, PullMode, map[string]any) error {
	return nil
}

func (m *dummyModule) ReadPin(ctx context.Context, pin int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pins[pin], nil
}

func (m *dummyModule) WritePin(ctx context.Context, pin int, value bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pins[pin] = value
	return nil
}

func (m *dummyModule) Close() error {
	return nil
}
