package hardware

import "fmt"

// intOption reads an integer from a backend options map, falling back to
// def when the key is absent. YAML unmarshals numbers as int or uint64
// depending on magnitude, so both are accepted.
func intOption(opts map[string]any, key string, def int) (int, error) {
	v, ok := opts[key]
	if !ok {
		return def, nil
	}
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case uint64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %q must be an integer, got %T", ErrInvalidOptions, key, v)
	}
}
