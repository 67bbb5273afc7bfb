package runtime

import (
	"context"
	"fmt"
	"sync"

	"github.com/stonearc/pinbridge/internal/hardware"
	"github.com/stonearc/pinbridge/internal/infrastructure/config"
	"github.com/stonearc/pinbridge/internal/infrastructure/mqtt"
)

// inboundBuffer bounds the channel between broker callbacks and the
// receive loop so a burst of messages never blocks the MQTT client.
const inboundBuffer = 64

// Broker is the messaging surface the runtime needs. The concrete MQTT
// client is adapted to this interface by the caller.
type Broker interface {
	// PublishString sends payload to topic.
	PublishString(topic, payload string, retained bool) error

	// Subscribe registers handler for messages matching topic.
	Subscribe(topic string, handler func(topic string, payload []byte)) error
}

// message is one inbound broker message awaiting routing.
type message struct {
	topic   string
	payload []byte
}

// output pairs a configured digital output with the module that owns it
// and the dispatcher that serializes writes to it.
type output struct {
	module     hardware.Module
	cfg        config.OutputConfig
	dispatcher *dispatcher
}

// Options configures a Runtime.
type Options struct {
	Config *config.Config
	Broker Broker
	Logger Logger
}

// Runtime wires configured hardware modules to the broker: it polls
// inputs, routes inbound commands to per-module dispatchers, schedules
// pulses and supervises all of it as background tasks.
type Runtime struct {
	cfg    *config.Config
	broker Broker
	topics mqtt.Topics
	logger Logger

	modules     map[string]hardware.Module
	dispatchers map[string]*dispatcher
	outputs     map[string]*output

	sup     *Supervisor
	inbound chan message

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
}

// New builds a Runtime from configuration: it opens every configured
// hardware module and configures each declared pin. On any failure the
// modules opened so far are closed before returning.
func New(opts Options) (*Runtime, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("runtime: config is required")
	}
	if opts.Broker == nil {
		return nil, fmt.Errorf("runtime: broker is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = noopLogger{}
	}

	r := &Runtime{
		cfg:         opts.Config,
		broker:      opts.Broker,
		topics:      mqtt.Topics{Prefix: opts.Config.MQTT.TopicPrefix},
		logger:      logger,
		modules:     make(map[string]hardware.Module),
		dispatchers: make(map[string]*dispatcher),
		outputs:     make(map[string]*output),
		sup:         NewSupervisor(logger),
		inbound:     make(chan message, inboundBuffer),
	}

	if err := r.openModules(); err != nil {
		r.closeModules()
		return nil, err
	}
	if err := r.configurePins(); err != nil {
		r.closeModules()
		return nil, err
	}

	for _, out := range r.cfg.DigitalOutputs {
		r.outputs[out.Name] = &output{
			module:     r.modules[out.Module],
			cfg:        out,
			dispatcher: r.dispatchers[out.Module],
		}
	}

	return r, nil
}

func (r *Runtime) openModules() error {
	for _, mc := range r.cfg.Modules {
		mod, err := hardware.New(mc)
		if err != nil {
			return fmt.Errorf("open module %q: %w", mc.Name, err)
		}
		r.modules[mc.Name] = mod
		r.dispatchers[mc.Name] = newDispatcher(mc.Name, r.logger)
	}
	return nil
}

func (r *Runtime) configurePins() error {
	for _, in := range r.cfg.DigitalInputs {
		pull := hardware.PullNone
		if in.Pullup {
			pull = hardware.PullUp
		} else if in.Pulldown {
			pull = hardware.PullDown
		}
		if err := r.modules[in.Module].ConfigurePin(in.Pin, hardware.DirectionInput, pull, nil); err != nil {
			return fmt.Errorf("configure input %q: %w", in.Name, err)
		}
	}
	for _, out := range r.cfg.DigitalOutputs {
		if err := r.modules[out.Module].ConfigurePin(out.Pin, hardware.DirectionOutput, hardware.PullNone, nil); err != nil {
			return fmt.Errorf("configure output %q: %w", out.Name, err)
		}
	}
	return nil
}

// Start subscribes to the command namespace and launches the background
// tasks. It returns once everything is running; call Stop to shut down.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.started {
		r.mu.Unlock()
		return ErrAlreadyStarted
	}
	r.started = true
	ctx, r.cancel = context.WithCancel(ctx)
	r.mu.Unlock()

	if err := r.broker.Subscribe(r.topics.All(), func(topic string, payload []byte) {
		select {
		case r.inbound <- message{topic: topic, payload: payload}:
		case <-ctx.Done():
		}
	}); err != nil {
		return fmt.Errorf("subscribe %q: %w", r.topics.All(), err)
	}

	r.sup.Spawn(ctx, "reaper", r.sup.Run)
	r.sup.Spawn(ctx, "receive", r.receiveLoop)

	for name, d := range r.dispatchers {
		r.sup.Spawn(ctx, "dispatch:"+name, d.run)
	}
	for _, in := range r.cfg.DigitalInputs {
		p := newPoller(r.modules[in.Module], in, r.topics.InputState(in.Name), r.broker, r.logger)
		r.sup.Spawn(ctx, "poll:"+in.Name, p.run)
	}

	r.logger.Info("runtime started",
		"modules", len(r.modules),
		"inputs", len(r.cfg.DigitalInputs),
		"outputs", len(r.outputs))
	return nil
}

// receiveLoop drains inbound messages and routes each one.
func (r *Runtime) receiveLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg := <-r.inbound:
			r.handleMessage(ctx, msg)
		}
	}
}

// handleMessage classifies one inbound message and either enqueues a set
// command or spawns a pulse. Topics outside the command grammar include
// our own input and status publishes, so they stay at debug.
func (r *Runtime) handleMessage(ctx context.Context, msg message) {
	name, action, err := ParseTopic(r.cfg.MQTT.TopicPrefix, msg.topic)
	if err != nil {
		r.logger.Debug("ignoring message", "topic", msg.topic)
		return
	}

	out, ok := r.outputs[name]
	if !ok {
		r.logger.Warn("command for unknown output",
			"output", name,
			"topic", msg.topic)
		return
	}

	switch action {
	case ActionSet:
		out.dispatcher.enqueue(OutputCommand{
			Module:  out.module,
			Output:  out.cfg,
			Payload: string(msg.payload),
		})
	case ActionPulseOn, ActionPulseOff:
		p := &pulse{
			module: out.module,
			output: out.cfg,
			on:     action == ActionPulseOn,
			logger: r.logger,
		}
		payload := string(msg.payload)
		r.sup.Spawn(ctx, "pulse:"+name, func(ctx context.Context) error {
			return p.run(ctx, payload)
		})
	}
}

// Stop cancels all background tasks, waits for them to finish and closes
// the hardware modules. Safe to call once after a successful Start.
func (r *Runtime) Stop() {
	r.mu.Lock()
	cancel := r.cancel
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}

	r.sup.Wait()
	r.closeModules()
	r.logger.Info("runtime stopped")
}

func (r *Runtime) closeModules() {
	for name, mod := range r.modules {
		if err := mod.Close(); err != nil {
			r.logger.Error("close module failed", "module", name, "error", err)
		}
	}
}
