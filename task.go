// SPDX-License-Identifier: EPL-2.0

package audtrack

import (
	"context"
	"sync"
)

// Task is the pending result of an asynchronous open or export.
type Task[T any] struct {
	done   chan struct{}
	cancel context.CancelFunc

	mu        sync.Mutex
	finished  bool
	cancelled bool
	val       T
	err       error
}

// startTask runs fn on its own goroutine. When the task is cancelled
// before fn returns, a successful result is handed to discard and the
// task fails with context.Canceled.
func startTask[T any](parent context.Context, fn func(context.Context) (T, error), discard func(T)) *Task[T] {
	ctx, cancel := context.WithCancel(parent)
	t := &Task[T]{
		done:   make(chan struct{}),
		cancel: cancel,
	}

	go func() {
		val, err := fn(ctx)

		t.mu.Lock()
		if t.cancelled && err == nil {
			discard(val)
			var zero T
			val, err = zero, context.Canceled
		}
		t.val, t.err = val, err
		t.finished = true
		t.mu.Unlock()

		cancel()
		close(t.done)
	}()

	return t
}

// Done is closed once the result is available.
func (t *Task[T]) Done() <-chan struct{} { return t.done }

// Wait blocks until the task finishes or ctx is done.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-t.done:
		t.mu.Lock()
		defer t.mu.Unlock()
		return t.val, t.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel abandons the task. A result that is not yet delivered is
// discarded. Cancel after completion has no effect.
func (t *Task[T]) Cancel() {
	t.mu.Lock()
	if !t.finished {
		t.cancelled = true
	}
	t.mu.Unlock()

	t.cancel()
}
