package runtime

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/stonearc/pinbridge/internal/hardware"
	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

// pulse drives an output to a target level for a requested number of
// milliseconds and then restores the opposite level. Each pulse runs as
// its own supervised task; overlapping pulses on the same pin are not
// coordinated, last write wins.
type pulse struct {
	module hardware.Module
	output config.OutputConfig
	// on selects the pulse direction: true holds the output on then
	// releases it, false holds it off.
	on     bool
	logger Logger
}

// run parses the millisecond payload and executes the pulse. A payload
// that does not parse to a usable duration aborts this pulse only.
func (p *pulse) run(ctx context.Context, payload string) error {
	ms, err := strconv.ParseFloat(strings.TrimSpace(payload), 64)
	if err != nil || ms < 0 || math.IsNaN(ms) || math.IsInf(ms, 0) {
		p.logger.Warn("unusable pulse duration",
			"output", p.output.Name,
			"payload", payload)
		return nil
	}
	duration := time.Duration(ms * float64(time.Millisecond))

	target := p.on
	if p.output.Inverted {
		target = !target
	}

	if err := p.module.WritePin(ctx, p.output.Pin, target); err != nil {
		return fmt.Errorf("pulse output %q pin %d: %w", p.output.Name, p.output.Pin, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(duration):
	}

	if err := p.module.WritePin(ctx, p.output.Pin, !target); err != nil {
		return fmt.Errorf("restore output %q pin %d: %w", p.output.Name, p.output.Pin, err)
	}

	p.logger.Debug("pulse complete",
		"output", p.output.Name,
		"on", p.on,
		"duration", duration)
	return nil
}
