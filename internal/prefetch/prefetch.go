// Package prefetch keeps the content cache warm: a periodic sweep walks the
// active curriculum and enqueues generation tasks for any module whose pack
// is not cached yet.
package prefetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/sprouthq/sprout/internal/profile"
	"github.com/sprouthq/sprout/internal/task"
)

// DefaultInterval is how often the sweep runs.
const DefaultInterval = 2 * time.Minute

// PackChecker reports whether a module already has a cached pack.
// store.GameRepo implements it.
type PackChecker interface {
	HasGame(ctx context.Context, moduleID string) (bool, error)
}

// Enqueuer accepts generation tasks. task.Scheduler implements it.
type Enqueuer interface {
	Enqueue(payload task.Payload, priority task.Priority) *task.Handle
}

// Sweeper periodically enqueues module-content generation for uncached
// curriculum modules. Tasks go in at LOW priority so on-demand work always
// wins; the scheduler's dedup absorbs repeat sweeps.
type Sweeper struct {
	profiles *profile.Store
	cache    PackChecker
	queue    Enqueuer
	log      *slog.Logger

	cron *gocron.Scheduler
}

// New creates a sweeper. logger may be nil.
func New(profiles *profile.Store, cache PackChecker, queue Enqueuer, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		profiles: profiles,
		cache:    cache,
		queue:    queue,
		log:      logger,
		cron:     gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the sweep at the given interval and runs it in the
// background. interval <= 0 selects DefaultInterval.
func (s *Sweeper) Start(interval time.Duration) error {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if _, err := s.cron.Every(interval).Do(func() {
		s.Sweep(context.Background())
	}); err != nil {
		return err
	}
	s.cron.StartAsync()
	return nil
}

// Stop halts the periodic sweep. Pending generation tasks stay queued.
func (s *Sweeper) Stop() {
	s.cron.Stop()
}

// Sweep enqueues one generation task per uncached curriculum module and
// returns how many were enqueued.
func (s *Sweeper) Sweep(ctx context.Context) int {
	curriculum := s.profiles.Curriculum()
	if curriculum == nil {
		return 0
	}

	enqueued := 0
	for _, m := range curriculum.Modules {
		cached, err := s.cache.HasGame(ctx, m.ID)
		if err != nil {
			s.log.Warn("prefetch cache check failed",
				"module_id", m.ID,
				"error", err)
			continue
		}
		if cached {
			continue
		}

		s.queue.Enqueue(&task.ModuleContentPayload{
			ModuleID:    m.ID,
			ModuleType:  m.Template,
			Description: m.Description,
			Interest:    m.Interest,
		}, task.PriorityLow)
		enqueued++
	}

	if enqueued > 0 {
		s.log.Info("prefetch sweep enqueued tasks", "count", enqueued)
	}
	return enqueued
}
