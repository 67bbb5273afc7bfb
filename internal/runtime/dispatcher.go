package runtime

import (
	"context"
	"fmt"

	"github.com/stonearc/pinbridge/internal/hardware"
	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

// OutputCommand is a single set request for a digital output, queued for
// sequential execution by the owning module's dispatcher.
type OutputCommand struct {
	Module  hardware.Module
	Output  config.OutputConfig
	Payload string
}

// dispatcher drains one module's command queue, applying set commands to
// the hardware in arrival order. Each module gets its own dispatcher so
// a slow bus never stalls commands destined for another module.
type dispatcher struct {
	module string
	queue  *commandQueue
	logger Logger
}

func newDispatcher(module string, logger Logger) *dispatcher {
	return &dispatcher{
		module: module,
		queue:  newCommandQueue(),
		logger: logger,
	}
}

// enqueue adds a command to the dispatcher's queue without blocking.
func (d *dispatcher) enqueue(cmd OutputCommand) {
	d.queue.enqueue(cmd)
}

// run processes queued commands until ctx is cancelled. A payload that
// matches neither configured payload is logged and dropped; a hardware
// write failure terminates the loop.
func (d *dispatcher) run(ctx context.Context) error {
	for {
		cmd, err := d.queue.dequeue(ctx)
		if err != nil {
			return err
		}

		value, ok := resolvePayload(cmd.Output, cmd.Payload)
		if !ok {
			d.logger.Warn("unrecognised output payload",
				"module", d.module,
				"output", cmd.Output.Name,
				"payload", cmd.Payload)
			continue
		}

		if err := cmd.Module.WritePin(ctx, cmd.Output.Pin, value); err != nil {
			return fmt.Errorf("write output %q pin %d: %w", cmd.Output.Name, cmd.Output.Pin, err)
		}

		d.logger.Debug("output set",
			"module", d.module,
			"output", cmd.Output.Name,
			"value", value)
	}
}

// resolvePayload maps a command payload to a pin level by exact string
// match against the output's configured payloads. The inverted flag does
// not apply here, only pulses invert their target level.
func resolvePayload(out config.OutputConfig, payload string) (bool, bool) {
	switch payload {
	case out.OnPayload:
		return true, true
	case out.OffPayload:
		return false, true
	default:
		return false, false
	}
}
