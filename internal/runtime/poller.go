package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/stonearc/pinbridge/internal/hardware"
	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

const pollInterval = 100 * time.Millisecond

// poller samples one digital input and publishes its configured payload
// whenever the sampled level differs from the previous sample. The first
// sample always publishes so subscribers learn the initial state.
type poller struct {
	module hardware.Module
	input  config.InputConfig
	topic  string
	broker Broker
	logger Logger
}

func newPoller(module hardware.Module, input config.InputConfig, topic string, broker Broker, logger Logger) *poller {
	return &poller{
		module: module,
		input:  input,
		topic:  topic,
		broker: broker,
		logger: logger,
	}
}

// run polls until ctx is cancelled. Read and publish failures terminate
// the loop; transient broker outages are absorbed by the client's own
// buffering, so an error here means something is genuinely wrong.
func (p *poller) run(ctx context.Context) error {
	var last *bool

	for {
		value, err := p.module.ReadPin(ctx, p.input.Pin)
		if err != nil {
			return fmt.Errorf("read input %q pin %d: %w", p.input.Name, p.input.Pin, err)
		}

		if last == nil || *last != value {
			payload := p.input.OffPayload
			if value {
				payload = p.input.OnPayload
			}
			if err := p.broker.PublishString(p.topic, payload, false); err != nil {
				return fmt.Errorf("publish input %q: %w", p.input.Name, err)
			}
			p.logger.Debug("input changed",
				"input", p.input.Name,
				"value", value)
			v := value
			last = &v
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}
