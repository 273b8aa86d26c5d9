package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sprouthq/sprout/internal/content"
	"github.com/sprouthq/sprout/internal/currgen"
	"github.com/sprouthq/sprout/internal/profile"
)

// CurriculumSaver persists generated curricula. store.CurriculumRepo
// implements it.
type CurriculumSaver interface {
	Save(ctx context.Context, c *content.Curriculum) error
}

// CurriculumExecutor handles curriculum_generation tasks: it calls the
// curriculum generator, persists the plan and writes it into profile state.
type CurriculumExecutor struct {
	gen      currgen.Generator
	saver    CurriculumSaver
	profiles *profile.Store
	log      *slog.Logger
}

var _ Executor = (*CurriculumExecutor)(nil)

// NewCurriculumExecutor wires the executor to its collaborators. saver and
// logger may be nil.
func NewCurriculumExecutor(gen currgen.Generator, saver CurriculumSaver, profiles *profile.Store, logger *slog.Logger) *CurriculumExecutor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CurriculumExecutor{gen: gen, saver: saver, profiles: profiles, log: logger}
}

func (e *CurriculumExecutor) Execute(ctx context.Context, payload Payload) error {
	p, ok := payload.(*CurriculumPayload)
	if !ok {
		return fmt.Errorf("curriculum executor: unexpected payload %T", payload)
	}
	if p.Profile == nil {
		return errors.New("curriculum executor: payload missing profile")
	}

	curr, err := e.gen.Generate(ctx, currgen.Input{
		Profile:       *p.Profile,
		History:       p.History,
		AssessedLevel: p.AssessedLevel,
	})
	if err != nil {
		return fmt.Errorf("curriculum generation: %w", err)
	}
	if curr == nil {
		return errors.New("curriculum generator returned no plan")
	}

	// Persist before profile state so an observer woken by the update
	// always finds the plan durable.
	if e.saver != nil {
		if err := e.saver.Save(ctx, curr); err != nil {
			return fmt.Errorf("save curriculum: %w", err)
		}
	}
	e.profiles.SetCurriculum(curr)
	e.log.Info("curriculum generated",
		"curriculum_id", curr.ID,
		"modules", len(curr.Modules))
	return nil
}
