package prefetch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/profile"
	"github.com/sprouthq/sprout/internal/task"
)

type fakeChecker struct {
	cached map[string]bool
	err    error
}

func (c *fakeChecker) HasGame(_ context.Context, moduleID string) (bool, error) {
	if c.err != nil {
		return false, c.err
	}
	return c.cached[moduleID], nil
}

type fakeQueue struct {
	payloads []task.Payload
}

func (q *fakeQueue) Enqueue(payload task.Payload, priority task.Priority) *task.Handle {
	if priority != task.PriorityLow {
		panic("prefetch must enqueue at LOW priority")
	}
	q.payloads = append(q.payloads, payload)
	return nil
}

func testCurriculum() *content.Curriculum {
	return &content.Curriculum{
		ID: "cur-1",
		Modules: []content.Module{
			{ID: "m1", Template: content.TemplateChoice, Description: "count", Interest: "dinosaurs"},
			{ID: "m2", Template: content.TemplateFeeding, Description: "sort", Interest: "space"},
			{ID: "m3", Template: content.TemplateStory, Description: "listen", Interest: "dinosaurs"},
		},
		GeneratedAt: time.Now(),
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepEnqueuesOnlyUncachedModules(t *testing.T) {
	profiles := profile.NewStore(nil)
	profiles.SetCurriculum(testCurriculum())

	checker := &fakeChecker{cached: map[string]bool{"m2": true}}
	queue := &fakeQueue{}

	s := New(profiles, checker, queue, discard())
	if got := s.Sweep(context.Background()); got != 2 {
		t.Fatalf("Sweep() = %d, want 2", got)
	}

	ids := make([]string, len(queue.payloads))
	for i, p := range queue.payloads {
		mp, ok := p.(*task.ModuleContentPayload)
		if !ok {
			t.Fatalf("payload %d is %T, want *ModuleContentPayload", i, p)
		}
		ids[i] = mp.ModuleID
	}
	if ids[0] != "m1" || ids[1] != "m3" {
		t.Errorf("enqueued modules = %v, want [m1 m3]", ids)
	}
}

func TestSweepWithoutCurriculumIsNoop(t *testing.T) {
	queue := &fakeQueue{}
	s := New(profile.NewStore(nil), &fakeChecker{}, queue, discard())

	if got := s.Sweep(context.Background()); got != 0 {
		t.Errorf("Sweep() = %d, want 0 without a curriculum", got)
	}
	if len(queue.payloads) != 0 {
		t.Errorf("enqueued = %d, want 0", len(queue.payloads))
	}
}

func TestSweepSkipsModulesOnCacheError(t *testing.T) {
	profiles := profile.NewStore(nil)
	profiles.SetCurriculum(testCurriculum())

	queue := &fakeQueue{}
	s := New(profiles, &fakeChecker{err: errors.New("db locked")}, queue, discard())

	if got := s.Sweep(context.Background()); got != 0 {
		t.Errorf("Sweep() = %d, want 0 when every check fails", got)
	}
}
