package runtime

import (
	"context"
	"sync"
)

// commandQueue is an unbounded FIFO of output commands.
//
// Enqueue never blocks; dequeue blocks until an item is available or the
// context is cancelled. One producer (the receive loop) and one consumer
// (the module's dispatcher worker) is the intended shape, but the queue
// is safe for any number of either.
type commandQueue struct {
	mu    sync.Mutex
	items []OutputCommand

	// wake is a 1-buffered signal; a lost signal is recovered by the
	// re-check loop in dequeue.
	wake chan struct{}
}

func newCommandQueue() *commandQueue {
	return &commandQueue{
		wake: make(chan struct{}, 1),
	}
}

// enqueue appends a command to the tail of the queue.
func (q *commandQueue) enqueue(cmd OutputCommand) {
	q.mu.Lock()
	q.items = append(q.items, cmd)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// dequeue removes and returns the head of the queue, blocking until an
// item is available or ctx is cancelled.
func (q *commandQueue) dequeue(ctx context.Context) (OutputCommand, error) {
	for {
		q.mu.Lock()
		if len(q.items) > 0 {
			cmd := q.items[0]
			q.items = q.items[1:]
			q.mu.Unlock()
			return cmd, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return OutputCommand{}, ctx.Err()
		case <-q.wake:
		}
	}
}

// len returns the number of queued commands.
func (q *commandQueue) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
