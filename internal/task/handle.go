package task

import (
	"context"
	"sync"
)

// Handle is the awaitable completion signal returned by Enqueue. It settles
// exactly once, when the task reaches a terminal state: success, permanent
// failure after the retry cap, or removal by Clear.
type Handle struct {
	done chan struct{}

	mu  sync.Mutex
	err error
	set bool
}

func newHandle() *Handle {
	return &Handle{done: make(chan struct{})}
}

// Done returns a channel closed when the task completes or permanently fails.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Err returns the terminal error, or nil on success. Valid only after Done
// is closed; before that it always returns nil.
func (h *Handle) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

// Wait blocks until the task settles or ctx is cancelled.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle records the terminal outcome. Later calls are no-ops, so a task
// cleared from the queue and a concurrently finishing execution cannot
// double-close.
func (h *Handle) settle(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.set {
		return
	}
	h.set = true
	h.err = err
	close(h.done)
}
