package runtime

import (
	"context"
	"sync"

	"github.com/stonearc/pinbridge/internal/hardware"
)

type pinWrite struct {
	pin   int
	value bool
}

// mockModule implements hardware.Module with scripted reads and recorded
// writes.
type mockModule struct {
	mu sync.Mutex

	name    string
	reads   []bool
	readIdx int
	readErr error

	writes   []pinWrite
	writeErr error
}

func (m *mockModule) Name() string {
	return m.name
}

func (m *mockModule) ConfigurePin(int, hardware.PinDirection, hardware.PullMode, map[string]any) error {
	return nil
}

func (m *mockModule) ReadPin(_ context.Context, _ int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return false, m.readErr
	}
	if len(m.reads) == 0 {
		return false, nil
	}
	v := m.reads[m.readIdx]
	if m.readIdx < len(m.reads)-1 {
		m.readIdx++
	}
	return v, nil
}

func (m *mockModule) WritePin(_ context.Context, pin int, value bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.writeErr != nil {
		return m.writeErr
	}
	m.writes = append(m.writes, pinWrite{pin: pin, value: value})
	return nil
}

func (m *mockModule) Close() error {
	return nil
}

func (m *mockModule) writeLog() []pinWrite {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]pinWrite, len(m.writes))
	copy(out, m.writes)
	return out
}

type publication struct {
	topic    string
	payload  string
	retained bool
}

// mockBroker records publishes and lets tests inject inbound messages
// through registered handlers.
type mockBroker struct {
	mu        sync.Mutex
	published []publication
	handlers  map[string]func(topic string, payload []byte)

	publishErr   error
	subscribeErr error
}

func newMockBroker() *mockBroker {
	return &mockBroker{
		handlers: make(map[string]func(topic string, payload []byte)),
	}
}

func (b *mockBroker) PublishString(topic, payload string, retained bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.publishErr != nil {
		return b.publishErr
	}
	b.published = append(b.published, publication{topic: topic, payload: payload, retained: retained})
	return nil
}

func (b *mockBroker) Subscribe(topic string, handler func(topic string, payload []byte)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribeErr != nil {
		return b.subscribeErr
	}
	b.handlers[topic] = handler
	return nil
}

// deliver invokes the handler registered for filter with a message.
func (b *mockBroker) deliver(filter, topic string, payload []byte) {
	b.mu.Lock()
	handler := b.handlers[filter]
	b.mu.Unlock()
	if handler != nil {
		handler(topic, payload)
	}
}

func (b *mockBroker) publications() []publication {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]publication, len(b.published))
	copy(out, b.published)
	return out
}
