package runtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// reapInterval is how often finished tasks are collected from the registry.
const reapInterval = time.Second

// task is one supervised background goroutine.
type task struct {
	id   uint64
	name string
	done chan struct{}
	err  error
}

// Supervisor owns every background goroutine of the runtime: pollers,
// dispatchers, pulses and the receive loop. Tasks register on spawn and
// are reaped once finished; a task failure is logged but never takes the
// rest of the runtime down.
type Supervisor struct {
	mu     sync.Mutex
	tasks  map[uint64]*task
	nextID uint64

	wg     sync.WaitGroup
	logger Logger
}

// NewSupervisor returns a Supervisor that logs task outcomes to logger.
func NewSupervisor(logger Logger) *Supervisor {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Supervisor{
		tasks:  make(map[uint64]*task),
		logger: logger,
	}
}

// Spawn runs fn in a new supervised goroutine. A panic inside fn is
// recovered and recorded as the task's error.
func (s *Supervisor) Spawn(ctx context.Context, name string, fn func(ctx context.Context) error) {
	s.mu.Lock()
	s.nextID++
	t := &task{
		id:   s.nextID,
		name: name,
		done: make(chan struct{}),
	}
	s.tasks[t.id] = t
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("task %q panicked: %v", t.name, r)
			}
		}()
		t.err = fn(ctx)
	}()
}

// Reap removes finished tasks from the registry, logging any that failed.
// Cancellation errors are expected during shutdown and stay at debug.
func (s *Supervisor) Reap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.tasks {
		select {
		case <-t.done:
		default:
			continue
		}
		delete(s.tasks, id)

		switch {
		case t.err == nil:
			s.logger.Debug("task finished", "task", t.name)
		case errors.Is(t.err, context.Canceled):
			s.logger.Debug("task cancelled", "task", t.name)
		default:
			s.logger.Error("task failed", "task", t.name, "error", t.err)
		}
	}
}

// Run reaps finished tasks on a fixed interval until ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) error {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Reap()
		}
	}
}

// Wait blocks until every spawned task has returned, then performs a
// final reap so late failures are still reported.
func (s *Supervisor) Wait() {
	s.wg.Wait()
	s.Reap()
}

// Active returns the number of tasks that have been spawned and not yet
// reaped.
func (s *Supervisor) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
