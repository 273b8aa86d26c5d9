package task

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testScheduler() *Scheduler {
	return NewScheduler(Config{
		MaxAttempts:  3,
		RetryBackoff: 0,
		Logger:       testLogger(),
	})
}

// testPayload is a minimal payload for queue-behavior tests.
type testPayload struct {
	key string
}

func (p *testPayload) TaskType() Type   { return Type("test") }
func (p *testPayload) DedupKey() string { return p.key }

// countingExecutor records calls and runs an optional script per call.
type countingExecutor struct {
	mu    sync.Mutex
	calls []Payload
	fn    func(call int, payload Payload) error
}

func (e *countingExecutor) Execute(_ context.Context, payload Payload) error {
	e.mu.Lock()
	e.calls = append(e.calls, payload)
	n := len(e.calls)
	fn := e.fn
	e.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(n, payload)
}

func (e *countingExecutor) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.calls)
}

// gatedExecutor blocks inside Execute until released, freezing the drain so
// tests can inspect the pending queue.
type gatedExecutor struct {
	entered chan struct{}
	release chan struct{}
}

func newGatedExecutor() *gatedExecutor {
	return &gatedExecutor{
		entered: make(chan struct{}, 8),
		release: make(chan struct{}),
	}
}

func (e *gatedExecutor) Execute(_ context.Context, _ Payload) error {
	e.entered <- struct{}{}
	<-e.release
	return nil
}

func waitEntered(t *testing.T, e *gatedExecutor) {
	t.Helper()
	select {
	case <-e.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("executor never started")
	}
}

func waitDone(t *testing.T, h *Handle) error {
	t.Helper()
	select {
	case <-h.Done():
		return h.Err()
	case <-time.After(2 * time.Second):
		t.Fatal("handle never settled")
		return nil
	}
}

func TestEnqueueDeduplicatesEqualTasks(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	gate := newGatedExecutor()
	s.Register(Type("test"), gate)

	// The blocker occupies the drain so later tasks stay pending.
	blocker := s.Enqueue(&testPayload{key: "blocker"}, PriorityCritical)
	waitEntered(t, gate)

	h1 := s.Enqueue(&testPayload{key: "same"}, PriorityMedium)
	h2 := s.Enqueue(&testPayload{key: "same"}, PriorityMedium)

	if h1 != h2 {
		t.Error("duplicate enqueue should return the existing task's handle")
	}
	if got := len(s.Pending()); got != 1 {
		t.Errorf("pending = %d, want 1", got)
	}

	close(gate.release)
	if err := waitDone(t, blocker); err != nil {
		t.Errorf("blocker err = %v", err)
	}
	if err := waitDone(t, h1); err != nil {
		t.Errorf("deduped task err = %v", err)
	}
}

func TestQueueOrdersByPriorityThenFIFO(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	gate := newGatedExecutor()
	s.Register(Type("test"), gate)

	s.Enqueue(&testPayload{key: "blocker"}, PriorityCritical)
	waitEntered(t, gate)

	s.Enqueue(&testPayload{key: "low"}, PriorityLow)
	s.Enqueue(&testPayload{key: "critical"}, PriorityCritical)
	s.Enqueue(&testPayload{key: "medium-1"}, PriorityMedium)
	s.Enqueue(&testPayload{key: "medium-2"}, PriorityMedium)

	want := []string{"critical", "medium-1", "medium-2", "low"}
	pending := s.Pending()
	if len(pending) != len(want) {
		t.Fatalf("pending = %d tasks, want %d", len(pending), len(want))
	}
	for i, task := range pending {
		if got := task.Payload.DedupKey(); got != want[i] {
			t.Errorf("pending[%d] = %s, want %s", i, got, want[i])
		}
	}

	close(gate.release)
}

func TestSingleDrainNoParallelExecution(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	var inFlight, maxInFlight atomic.Int32
	exec := &countingExecutor{fn: func(int, Payload) error {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			cur := maxInFlight.Load()
			if n <= cur || maxInFlight.CompareAndSwap(cur, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return nil
	}}
	s.Register(Type("test"), exec)

	handles := make(chan *Handle, 4)
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles <- s.Enqueue(&testPayload{key: string(rune('a' + i))}, PriorityMedium)
		}(i)
	}
	wg.Wait()
	close(handles)
	for h := range handles {
		if err := waitDone(t, h); err != nil {
			t.Errorf("task err = %v", err)
		}
	}

	if exec.count() != 4 {
		t.Errorf("executions = %d, want 4", exec.count())
	}
	if maxInFlight.Load() != 1 {
		t.Errorf("max concurrent executions = %d, want 1", maxInFlight.Load())
	}
	idleBy := time.Now().Add(time.Second)
	for s.IsProcessing() {
		if time.Now().After(idleBy) {
			t.Error("scheduler should go idle after the queue drains")
			break
		}
		time.Sleep(time.Millisecond)
	}
}

func TestSuccessfulTaskRunsOnceAndIsRemoved(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	exec := &countingExecutor{}
	s.Register(Type("test"), exec)

	h := s.Enqueue(&testPayload{key: "t1"}, PriorityMedium)
	if err := waitDone(t, h); err != nil {
		t.Fatalf("handle err = %v", err)
	}

	if exec.count() != 1 {
		t.Errorf("executions = %d, want exactly 1", exec.count())
	}
	if got := len(s.Pending()); got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}
}

func TestFailedTaskRetriesUpToCap(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	failure := errors.New("generation unavailable")
	exec := &countingExecutor{fn: func(int, Payload) error { return failure }}
	s.Register(Type("test"), exec)

	h := s.Enqueue(&testPayload{key: "t1"}, PriorityMedium)
	err := waitDone(t, h)

	if !errors.Is(err, failure) {
		t.Errorf("handle err = %v, want %v", err, failure)
	}
	if exec.count() != 3 {
		t.Errorf("executions = %d, want 3 (the retry cap)", exec.count())
	}
	if got := len(s.Pending()); got != 0 {
		t.Errorf("pending = %d, want 0 after permanent failure", got)
	}
}

func TestFailedTaskSucceedsOnRetry(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	exec := &countingExecutor{fn: func(call int, _ Payload) error {
		if call == 1 {
			return errors.New("transient")
		}
		return nil
	}}
	s.Register(Type("test"), exec)

	h := s.Enqueue(&testPayload{key: "t1"}, PriorityMedium)
	if err := waitDone(t, h); err != nil {
		t.Errorf("handle err = %v, want nil after successful retry", err)
	}
	if exec.count() != 2 {
		t.Errorf("executions = %d, want 2", exec.count())
	}
}

func TestExecutorPanicIsContained(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	exec := &countingExecutor{fn: func(int, Payload) error {
		panic("executor bug")
	}}
	s.Register(Type("test"), exec)

	h := s.Enqueue(&testPayload{key: "t1"}, PriorityMedium)
	err := waitDone(t, h)

	if err == nil {
		t.Fatal("panicking executor should settle the handle with an error")
	}
	if exec.count() != 3 {
		t.Errorf("executions = %d, want 3", exec.count())
	}

	// The drain loop must survive: a later task still runs.
	ok := &countingExecutor{}
	s.Register(Type("test"), ok)
	if err := waitDone(t, s.Enqueue(&testPayload{key: "t2"}, PriorityMedium)); err != nil {
		t.Errorf("follow-up task err = %v", err)
	}
}

func TestUnregisteredTypeFailsTask(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	h := s.Enqueue(&testPayload{key: "t1"}, PriorityMedium)
	if err := waitDone(t, h); err == nil {
		t.Error("task with no registered executor should fail")
	}
}

func TestClearDropsPendingKeepsInFlight(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	gate := newGatedExecutor()
	s.Register(Type("test"), gate)

	inflight := s.Enqueue(&testPayload{key: "inflight"}, PriorityHigh)
	waitEntered(t, gate)

	pending := s.Enqueue(&testPayload{key: "pending"}, PriorityLow)

	s.Clear()

	if err := waitDone(t, pending); !errors.Is(err, ErrCleared) {
		t.Errorf("cleared task err = %v, want ErrCleared", err)
	}
	if got := len(s.Pending()); got != 0 {
		t.Errorf("pending = %d, want 0 after Clear", got)
	}

	close(gate.release)
	if err := waitDone(t, inflight); err != nil {
		t.Errorf("in-flight task err = %v, want nil (Clear must not cancel it)", err)
	}
}

func TestRetryMergesWithDuplicatePendingTask(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	block := make(chan struct{})
	exec := &countingExecutor{fn: func(call int, _ Payload) error {
		if call == 1 {
			<-block
			return errors.New("transient")
		}
		return nil
	}}
	s.Register(Type("test"), exec)

	h1 := s.Enqueue(&testPayload{key: "same"}, PriorityMedium)
	// Give the drain a moment to take the task in flight, then enqueue the
	// structurally equal duplicate; dedup only scans pending, so it lands
	// in the queue.
	time.Sleep(20 * time.Millisecond)
	h2 := s.Enqueue(&testPayload{key: "same"}, PriorityMedium)
	close(block)

	if err := waitDone(t, h2); err != nil {
		t.Errorf("duplicate task err = %v", err)
	}
	if err := waitDone(t, h1); err != nil {
		t.Errorf("retried task should forward the duplicate's success, got %v", err)
	}
	if got := len(s.Pending()); got != 0 {
		t.Errorf("pending = %d, want 0", got)
	}
}

func TestNilPayloadSettlesImmediately(t *testing.T) {
	s := testScheduler()
	defer s.Close()

	h := s.Enqueue(nil, PriorityMedium)
	if err := waitDone(t, h); err == nil {
		t.Error("nil payload should settle with an error")
	}
}

func TestPriorityString(t *testing.T) {
	cases := map[Priority]string{
		PriorityLow:      "LOW",
		PriorityMedium:   "MEDIUM",
		PriorityHigh:     "HIGH",
		PriorityCritical: "CRITICAL",
	}
	for p, want := range cases {
		if got := p.String(); got != want {
			t.Errorf("Priority(%d).String() = %s, want %s", int(p), got, want)
		}
	}
}
