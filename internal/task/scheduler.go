// Package task implements the background content-generation scheduler: a
// deduplicating priority queue drained one task at a time, with bounded
// retries, and the executors that produce curriculum and module content.
//
// Serial execution is deliberate. It throttles the rate-limited generation
// backend and keeps cache writes race-free.
package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ErrCleared settles the handles of tasks removed by Clear before they ran.
var ErrCleared = errors.New("task cleared from queue")

// Executor runs one task type. Implementations report failure by returning
// an error; the scheduler owns the retry policy.
type Executor interface {
	Execute(ctx context.Context, payload Payload) error
}

// Config tunes the scheduler.
type Config struct {
	// MaxAttempts is how many times a task runs before it is dropped.
	MaxAttempts int

	// RetryBackoff is the delay after a failed attempt, doubled per attempt.
	// Zero disables backoff (used in tests).
	RetryBackoff time.Duration

	// Logger receives scheduler events. Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultConfig returns the standard retry policy.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		RetryBackoff: time.Second,
	}
}

// Scheduler is the priority work queue. At most one task executes at a
// time; pending tasks drain in priority order, FIFO within a tier.
type Scheduler struct {
	cfg       Config
	log       *slog.Logger
	executors map[Type]Executor

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu           sync.Mutex
	pending      queue
	isProcessing bool
}

// NewScheduler creates a stopped-idle scheduler. Register executors before
// the first Enqueue.
func NewScheduler(cfg Config) *Scheduler {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultConfig().MaxAttempts
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cfg:       cfg,
		log:       log,
		executors: make(map[Type]Executor),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Register installs the executor for a task type, replacing any previous one.
func (s *Scheduler) Register(t Type, e Executor) {
	s.mu.Lock()
	s.executors[t] = e
	s.mu.Unlock()
}

// Enqueue adds a task and starts draining if idle. When an equal task
// (same type, structurally equal payload) is already pending, the duplicate
// is dropped and the existing task's handle is returned, so both callers
// await the same completion. The returned handle settles when the task
// succeeds, permanently fails, or is cleared.
func (s *Scheduler) Enqueue(payload Payload, priority Priority) *Handle {
	if payload == nil {
		h := newHandle()
		h.settle(errors.New("nil task payload"))
		return h
	}

	t := newTask(payload, priority)

	s.mu.Lock()
	if existing := s.pending.find(t.dedupKey()); existing != nil {
		s.mu.Unlock()
		s.log.Debug("duplicate task dropped",
			"type", t.Type,
			"key", t.dedupKey())
		return existing.handle
	}

	s.pending.insert(t)
	start := !s.isProcessing
	if start {
		s.isProcessing = true
		s.wg.Add(1)
	}
	s.mu.Unlock()

	s.log.Debug("task enqueued",
		"type", t.Type,
		"priority", t.Priority.String(),
		"task_id", t.ID)

	if start {
		go s.runDrain()
	}
	return t.handle
}

// Clear discards every pending task, settling their handles with
// ErrCleared. An in-flight task keeps running to completion.
func (s *Scheduler) Clear() {
	s.mu.Lock()
	dropped := s.pending.drain()
	s.mu.Unlock()

	for _, t := range dropped {
		t.handle.settle(ErrCleared)
	}
	if len(dropped) > 0 {
		s.log.Debug("queue cleared", "dropped", len(dropped))
	}
}

// Pending returns a snapshot of the queue in drain order. The in-flight
// task, if any, is not included.
func (s *Scheduler) Pending() []*Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending.snapshot()
}

// IsProcessing reports whether a drain loop is active.
func (s *Scheduler) IsProcessing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isProcessing
}

// Close stops the scheduler: the executor context is cancelled and the
// method blocks until the drain loop exits.
func (s *Scheduler) Close() {
	s.cancel()
	s.Clear()
	s.wg.Wait()
}

func (s *Scheduler) runDrain() {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		t := s.pending.pop()
		if t == nil {
			s.isProcessing = false
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		t.Attempts++
		err := s.dispatch(t)
		if err == nil {
			s.log.Debug("task completed",
				"type", t.Type,
				"task_id", t.ID,
				"attempts", t.Attempts)
			t.handle.settle(nil)
			continue
		}

		if t.Attempts >= s.cfg.MaxAttempts {
			s.log.Error("task permanently failed",
				"type", t.Type,
				"task_id", t.ID,
				"attempts", t.Attempts,
				"error", err)
			t.handle.settle(err)
			continue
		}

		s.log.Warn("task failed, retrying",
			"type", t.Type,
			"task_id", t.ID,
			"attempt", t.Attempts,
			"error", err)
		s.reinsert(t)
		s.backoff(t.Attempts)
	}
}

// reinsert returns a failed task to the queue for another attempt. If an
// equal task was enqueued while this one was in flight, the retry is
// dropped and its handle forwards to the pending task's outcome, keeping
// the no-duplicates invariant.
func (s *Scheduler) reinsert(t *Task) {
	s.mu.Lock()
	existing := s.pending.find(t.dedupKey())
	if existing == nil {
		s.pending.insert(t)
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()

	go func() {
		<-existing.handle.Done()
		t.handle.settle(existing.handle.Err())
	}()
}

// dispatch runs the task's executor, converting panics into errors so a
// misbehaving executor never kills the drain loop.
func (s *Scheduler) dispatch(t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("executor panic: %v", r)
		}
	}()

	s.mu.Lock()
	exec, ok := s.executors[t.Type]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("no executor registered for task type %q", t.Type)
	}
	return exec.Execute(s.ctx, t.Payload)
}

func (s *Scheduler) backoff(attempts int) {
	d := s.cfg.RetryBackoff
	if d <= 0 {
		return
	}
	if attempts > 1 {
		d <<= attempts - 1
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-s.ctx.Done():
	}
}
