package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/gamegen"
	"github.com/sprouthq/sprout/internal/profile"
)

// QuestionsPerModule is how many questions a standard module pack holds.
const QuestionsPerModule = 5

// DefaultInterQuestionDelay paces generation calls against the rate-limited
// backend.
const DefaultInterQuestionDelay = 500 * time.Millisecond

// GameCache is the persistent pack store consumed by the module content
// executor. store.GameRepo implements it.
type GameCache interface {
	GetGame(ctx context.Context, moduleID string) (*content.GamePayload, error)
	SetGame(ctx context.Context, moduleID string, pack *content.GamePayload) error
}

// ModuleContentConfig tunes the module content executor.
type ModuleContentConfig struct {
	// Questions is the pack size to generate. Defaults to QuestionsPerModule.
	Questions int

	// InterQuestionDelay is the pause between generation calls. Zero in
	// tests; DefaultInterQuestionDelay in production wiring.
	InterQuestionDelay time.Duration
}

// ModuleContentExecutor handles module_content_generation tasks. It serves
// cached packs without touching the generator; on a miss it generates the
// module's questions sequentially, carrying a cumulative avoid list, wraps
// them in a multi-question pack and writes cache first, profile state second.
type ModuleContentExecutor struct {
	gen      gamegen.Generator
	cache    GameCache
	profiles *profile.Store
	cfg      ModuleContentConfig
	log      *slog.Logger
}

var _ Executor = (*ModuleContentExecutor)(nil)

// NewModuleContentExecutor wires the executor to its collaborators. logger
// may be nil.
func NewModuleContentExecutor(gen gamegen.Generator, cache GameCache, profiles *profile.Store, cfg ModuleContentConfig, logger *slog.Logger) *ModuleContentExecutor {
	if cfg.Questions <= 0 {
		cfg.Questions = QuestionsPerModule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ModuleContentExecutor{gen: gen, cache: cache, profiles: profiles, cfg: cfg, log: logger}
}

func (e *ModuleContentExecutor) Execute(ctx context.Context, payload Payload) error {
	p, ok := payload.(*ModuleContentPayload)
	if !ok {
		return fmt.Errorf("module content executor: unexpected payload %T", payload)
	}
	if p.ModuleID == "" {
		return errors.New("module content executor: payload missing module id")
	}
	if p.ModuleType == "" {
		return errors.New("module content executor: payload missing module type")
	}
	if p.Description == "" {
		return errors.New("module content executor: payload missing description")
	}

	cached, err := e.cache.GetGame(ctx, p.ModuleID)
	if err != nil {
		return fmt.Errorf("cache read for module %q: %w", p.ModuleID, err)
	}
	if cached.Playable() {
		e.profiles.CacheModuleContent(p.ModuleID, cached)
		e.log.Info("module content served from cache",
			"module_id", p.ModuleID,
			"questions", cached.QuestionCount())
		return nil
	}

	questions, genErr := e.generateQuestions(ctx, p)
	if len(questions) == 0 {
		if genErr != nil {
			return fmt.Errorf("module %q produced no questions: %w", p.ModuleID, genErr)
		}
		return fmt.Errorf("module %q produced no questions", p.ModuleID)
	}

	// Neutral container template; the playable templates live on the
	// individual questions.
	pack := &content.GamePayload{
		ID:        uuid.NewString(),
		Template:  content.TemplateChoice,
		Questions: questions,
	}

	// Cache before profile state so an observer woken by the update always
	// finds the pack persisted.
	if err := e.cache.SetGame(ctx, p.ModuleID, pack); err != nil {
		return fmt.Errorf("cache write for module %q: %w", p.ModuleID, err)
	}
	e.profiles.CacheModuleContent(p.ModuleID, pack)

	e.log.Info("module content generated",
		"module_id", p.ModuleID,
		"questions", len(questions))
	return nil
}

// generateQuestions runs the sequential generation loop. A failed call
// yields no question for that slot but does not abort the loop; the last
// generation error is returned beside whatever questions were produced.
func (e *ModuleContentExecutor) generateQuestions(ctx context.Context, p *ModuleContentPayload) ([]content.GamePayload, error) {
	var (
		questions []content.GamePayload
		avoid     []string
		lastErr   error
	)

	childProfile := e.profiles.Profile()

	for i := 0; i < e.cfg.Questions; i++ {
		if i > 0 {
			if err := e.pause(ctx); err != nil {
				return questions, err
			}
		}

		q, err := e.gen.Generate(ctx, gamegen.GenerateInput{
			ModuleType:  p.ModuleType,
			Interest:    p.Interest,
			Description: p.Description,
			GalleryRef:  p.GalleryRef,
			AvoidList:   avoid,
			Profile:     childProfile,
		})
		if err != nil {
			lastErr = err
			e.log.Warn("question generation failed",
				"module_id", p.ModuleID,
				"question", i+1,
				"error", err)
			continue
		}

		questions = append(questions, *q)
		avoid = append(avoid, q.ItemNames()...)

		// A story consumes the whole module in one question.
		if q.Template == content.TemplateStory {
			break
		}
	}

	return questions, lastErr
}

func (e *ModuleContentExecutor) pause(ctx context.Context) error {
	if e.cfg.InterQuestionDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(e.cfg.InterQuestionDelay)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
