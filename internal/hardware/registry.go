package hardware

import (
	"fmt"
	"sort"

	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

// Factory constructs a Module from its validated configuration.
type Factory func(cfg config.ModuleConfig) (Module, error)

// backends is the static registry mapping backend-type identifiers to
// constructors. Backends register themselves from init(); there is no
// runtime string-based module resolution beyond this one map lookup.
var backends = map[string]Factory{}

// register adds a backend factory. Called from init() in backend files;
// duplicate registration is a programming error.
func register(backendType string, factory Factory) {
	if _, exists := backends[backendType]; exists {
		panic(fmt.Sprintf("hardware: backend %q registered twice", backendType))
	}
	backends[backendType] = factory
}

// New instantiates the hardware module described by cfg.
//
// Returns:
//   - Module: Ready-to-use backend instance
//   - error: ErrUnknownBackend if the backend type is not registered, or
//     the backend's own construction error
func New(cfg config.ModuleConfig) (Module, error) {
	factory, ok := backends[cfg.Backend]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownBackend, cfg.Backend, Backends())
	}

	module, err := factory(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating %q module %q: %w", cfg.Backend, cfg.Name, err)
	}
	return module, nil
}

// Backends returns the registered backend type identifiers, sorted.
func Backends() []string {
	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
