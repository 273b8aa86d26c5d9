// Package session tracks a child's progress through one module's questions
// and applies the completion, break and mistake policies.
package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/profile"
)

// TargetQuestions is how many answered questions complete a standard module.
const TargetQuestions = 5

// DefaultMaxMistakesForBreak is the mistake count that starts offering a
// break.
const DefaultMaxMistakesForBreak = 3

// BuddyNotifier receives fire-and-forget companion notifications. The
// controller never depends on their completion or success.
type BuddyNotifier interface {
	CorrectAnswer(score int)
	WrongAnswer(consecutiveErrors int)
	Speak(text string)
}

// Navigator switches the app's top-level stage.
type Navigator interface {
	SetStage(stage content.Stage)
}

// Config tunes the controller's policies and pacing.
type Config struct {
	// TargetQuestions completes a standard module. Defaults to
	// TargetQuestions.
	TargetQuestions int

	// MaxMistakesForBreak starts offering a break. Defaults to
	// DefaultMaxMistakesForBreak.
	MaxMistakesForBreak int

	// Pacing delays for UI feedback. Zero runs the follow-up synchronously,
	// which the tests rely on.
	AdvanceDelay   time.Duration // after a correct, non-final answer
	BreakExitDelay time.Duration // after finishing a break activity
	CompleteDelay  time.Duration // after completing a module
}

// DefaultConfig returns the production pacing.
func DefaultConfig() Config {
	return Config{
		TargetQuestions:     TargetQuestions,
		MaxMistakesForBreak: DefaultMaxMistakesForBreak,
		AdvanceDelay:        500 * time.Millisecond,
		BreakExitDelay:      2 * time.Second,
		CompleteDelay:       3 * time.Second,
	}
}

// Stats are the ephemeral counters of one module attempt. They are discarded
// when the module is exited; the durable outcome is the performance record.
type Stats struct {
	CorrectCount      int
	MistakeCount      int
	ConsecutiveErrors int
	QuestionsAnswered int
	StartTime         time.Time
}

// Controller is the per-module state machine. HandleLevelComplete is the
// sole entry point for reporting a question outcome.
type Controller struct {
	cfg      Config
	profiles *profile.Store
	buddy    BuddyNotifier
	nav      Navigator
	log      *slog.Logger

	// onBreakOffer is owned by the caller; the controller only decides when
	// it fires.
	onBreakOffer func()

	mu            sync.Mutex
	module        *content.Module
	pack          *content.GamePayload
	questionIndex int
	stats         Stats
	processing    bool
	completed     bool
}

// NewController wires the controller to its collaborators. onBreakOffer and
// logger may be nil.
func NewController(cfg Config, profiles *profile.Store, buddy BuddyNotifier, nav Navigator, onBreakOffer func(), logger *slog.Logger) *Controller {
	if cfg.TargetQuestions <= 0 {
		cfg.TargetQuestions = TargetQuestions
	}
	if cfg.MaxMistakesForBreak <= 0 {
		cfg.MaxMistakesForBreak = DefaultMaxMistakesForBreak
	}
	if onBreakOffer == nil {
		onBreakOffer = func() {}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		cfg:          cfg,
		profiles:     profiles,
		buddy:        buddy,
		nav:          nav,
		onBreakOffer: onBreakOffer,
		log:          logger,
	}
}

// StartModule begins a fresh attempt of the module with its question pack.
// Counters reset; nothing from a previous attempt carries over.
func (c *Controller) StartModule(module *content.Module, pack *content.GamePayload) {
	c.mu.Lock()
	c.module = module
	c.pack = pack
	c.questionIndex = 0
	c.stats = Stats{StartTime: time.Now()}
	c.processing = false
	c.completed = false
	c.mu.Unlock()

	c.profiles.SetActiveModule(module)
	c.log.Info("module started",
		"module_id", module.ID,
		"questions", pack.QuestionCount())
}

// CurrentQuestion returns the question awaiting an answer, or nil when the
// pack is exhausted.
func (c *Controller) CurrentQuestion() *content.GamePayload {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pack == nil {
		return nil
	}
	return c.pack.Question(c.questionIndex)
}

// Stats returns a snapshot of the attempt counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

// ResetProcessingFlag re-arms HandleLevelComplete. The UI calls this when a
// new question is presented; the controller never auto-clears the guard.
func (c *Controller) ResetProcessingFlag() {
	c.mu.Lock()
	c.processing = false
	c.mu.Unlock()
}

// HandleLevelComplete reports the outcome of the current question. A second
// call before ResetProcessingFlag is a no-op, so duplicate UI events (rapid
// double taps) cannot double-count.
func (c *Controller) HandleLevelComplete(success bool) {
	c.mu.Lock()
	if c.processing || c.module == nil || c.completed {
		c.mu.Unlock()
		return
	}
	c.processing = true

	if !success {
		c.stats.MistakeCount++
		c.stats.ConsecutiveErrors++
		mistakes := c.stats.MistakeCount
		consecutive := c.stats.ConsecutiveErrors
		offerBreak := mistakes >= c.cfg.MaxMistakesForBreak
		c.mu.Unlock()

		c.buddy.WrongAnswer(consecutive)
		if offerBreak {
			c.onBreakOffer()
		}
		return
	}

	c.stats.CorrectCount++
	c.stats.QuestionsAnswered++
	c.stats.ConsecutiveErrors = 0
	score := c.stats.CorrectCount

	module := c.module
	current := c.pack.Question(c.questionIndex)

	if module.IsBreak {
		c.mu.Unlock()
		c.profiles.AddToken()
		c.buddy.CorrectAnswer(score)
		// Breaks are not real modules: no completion, no logging.
		c.buddy.Speak("That was fun! Back to our adventure.")
		after(c.cfg.BreakExitDelay, func() {
			c.nav.SetStage(content.StageHome)
		})
		return
	}

	done := module.Kind.SingleQuestion() ||
		c.stats.QuestionsAnswered >= c.cfg.TargetQuestions ||
		(current != nil && current.Template == content.TemplateStory)

	if done {
		c.completed = true
		stats := c.stats
		c.mu.Unlock()

		c.profiles.AddToken()
		c.buddy.CorrectAnswer(score)
		c.completeModule(module, stats)
		return
	}

	c.questionIndex++
	c.mu.Unlock()

	c.profiles.AddToken()
	c.buddy.CorrectAnswer(score)
	after(c.cfg.AdvanceDelay, func() {
		c.buddy.Speak("Great job! Here comes the next one.")
	})
}

// completeModule runs the terminal bookkeeping for a finished module: the
// completion mark, the performance record and the exit transition.
func (c *Controller) completeModule(module *content.Module, stats Stats) {
	c.profiles.MarkModuleComplete(module.ID)

	rec := content.PerformanceRecord{
		ID:           uuid.NewString(),
		ModuleID:     module.ID,
		ModuleTitle:  module.Title,
		Timestamp:    time.Now(),
		Duration:     time.Since(stats.StartTime),
		CorrectCount: stats.CorrectCount,
		MistakeCount: stats.MistakeCount,
		Stress:       c.stressFor(stats),
	}
	if err := c.profiles.LogSessionPerformance(context.Background(), rec); err != nil {
		c.log.Warn("performance record not persisted",
			"module_id", module.ID,
			"error", err)
	}

	c.log.Info("module completed",
		"module_id", module.ID,
		"correct", stats.CorrectCount,
		"mistakes", stats.MistakeCount,
		"stress", string(rec.Stress))

	if stats.MistakeCount >= c.cfg.MaxMistakesForBreak {
		// The child struggled; offer a break instead of marching on.
		c.onBreakOffer()
		return
	}

	c.buddy.Speak("You did it! Let's see what's next.")
	after(c.cfg.CompleteDelay, func() {
		c.nav.SetStage(content.StageCurriculum)
	})
}

// stressFor derives the stress signal from the attempt counters.
func (c *Controller) stressFor(stats Stats) content.StressLevel {
	switch {
	case stats.MistakeCount >= c.cfg.MaxMistakesForBreak:
		return content.StressHigh
	case stats.MistakeCount > 0:
		return content.StressMedium
	default:
		return content.StressLow
	}
}

// after schedules fn. Zero and negative durations run synchronously so tests
// with disabled pacing stay deterministic.
func after(d time.Duration, fn func()) {
	if d <= 0 {
		fn()
		return
	}
	time.AfterFunc(d, fn)
}
