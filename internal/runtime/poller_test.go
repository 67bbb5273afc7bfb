package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stonearc/pinbridge/internal/infrastructure/config"
)

func waitForPublications(t *testing.T, broker *mockBroker, n int) []publication {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if pubs := broker.publications(); len(pubs) >= n {
			return pubs
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d publications, have %d", n, len(broker.publications()))
	return nil
}

func TestPollerPublishesInitialStateAndTransitions(t *testing.T) {
	// false, false, true, true, false then steady false.
	mod := &mockModule{name: "board", reads: []bool{false, false, true, true, false}}
	broker := newMockBroker()
	in := config.InputConfig{
		Name:       "door",
		Module:     "board",
		Pin:        7,
		OnPayload:  "OPEN",
		OffPayload: "CLOSED",
	}

	p := newPoller(mod, in, "home/input/door", broker, noopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.run(ctx)

	pubs := waitForPublications(t, broker, 3)
	cancel()

	want := []string{"CLOSED", "OPEN", "CLOSED"}
	for i, w := range want {
		if pubs[i].topic != "home/input/door" {
			t.Errorf("publication %d topic = %q, want %q", i, pubs[i].topic, "home/input/door")
		}
		if pubs[i].payload != w {
			t.Errorf("publication %d payload = %q, want %q", i, pubs[i].payload, w)
		}
	}
}

func TestPollerSilentOnSteadyState(t *testing.T) {
	mod := &mockModule{name: "board", reads: []bool{true}}
	broker := newMockBroker()
	in := config.InputConfig{
		Name:       "door",
		Module:     "board",
		Pin:        7,
		OnPayload:  "OPEN",
		OffPayload: "CLOSED",
	}

	p := newPoller(mod, in, "home/input/door", broker, noopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go p.run(ctx)

	// Long enough for several poll cycles.
	time.Sleep(5 * pollInterval)
	cancel()

	pubs := broker.publications()
	if len(pubs) != 1 {
		t.Fatalf("got %d publications on a steady input, want 1", len(pubs))
	}
	if pubs[0].payload != "OPEN" {
		t.Errorf("payload = %q, want %q", pubs[0].payload, "OPEN")
	}
}

func TestPollerStopsOnReadError(t *testing.T) {
	mod := &mockModule{name: "board", readErr: errors.New("bus gone")}
	broker := newMockBroker()
	in := config.InputConfig{Name: "door", Module: "board", Pin: 7}

	p := newPoller(mod, in, "home/input/door", broker, noopLogger{})

	err := p.run(context.Background())
	if err == nil {
		t.Fatal("expected error from run")
	}
}

func TestPollerReturnsOnCancel(t *testing.T) {
	mod := &mockModule{name: "board"}
	broker := newMockBroker()
	in := config.InputConfig{Name: "door", Module: "board", Pin: 7, OffPayload: "CLOSED"}

	p := newPoller(mod, in, "home/input/door", broker, noopLogger{})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- p.run(ctx)
	}()

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("run error = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
