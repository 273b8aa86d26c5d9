// Package app wires the application together: the durable store, shared
// profile state, the LLM provider, the generators, the task scheduler with
// its executors, the pack loader and the prefetch sweeper.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sprouthq/sprout/internal/currgen"
	"github.com/sprouthq/sprout/internal/gamegen"
	"github.com/sprouthq/sprout/internal/llm"
	"github.com/sprouthq/sprout/internal/loader"
	"github.com/sprouthq/sprout/internal/prefetch"
	"github.com/sprouthq/sprout/internal/profile"
	"github.com/sprouthq/sprout/internal/store"
	"github.com/sprouthq/sprout/internal/task"
)

// Options configures app construction.
type Options struct {
	// DBPath overrides the default database location. Empty resolves via
	// store.DefaultDBPath.
	DBPath string

	// LLMConfig overrides the environment-derived provider config.
	LLMConfig *llm.Config

	// Logger receives scheduler and executor events. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

// App holds the wired application.
type App struct {
	Store     *store.Store
	Profiles  *profile.Store
	Provider  llm.Provider
	Scheduler *task.Scheduler
	Loader    *loader.Loader
	Sweeper   *prefetch.Sweeper

	LLMConfig llm.Config
}

// New builds the application. The saved child profile, if any, is loaded
// into shared state.
func New(ctx context.Context, opts Options) (*App, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	dbPath := opts.DBPath
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, err
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	profiles := profile.NewStore(st.Performance())
	if saved, err := st.Profiles().Load(ctx); err != nil {
		st.Close()
		return nil, err
	} else if saved != nil {
		profiles.SetProfile(*saved)
	}
	if curriculum, err := st.Curricula().Latest(ctx); err != nil {
		st.Close()
		return nil, err
	} else if curriculum != nil {
		profiles.SetCurriculum(curriculum)
	}

	llmCfg := resolveLLMConfig(opts)
	if err := llmCfg.Validate(); err != nil {
		st.Close()
		return nil, fmt.Errorf("llm configuration: %w", err)
	}
	provider, err := llm.NewProvider(ctx, llmCfg, st.LLMRequests())
	if err != nil {
		st.Close()
		return nil, err
	}

	gameGen := gamegen.New(provider, gamegen.DefaultConfig())
	currGen := currgen.New(provider, currgen.DefaultConfig())

	schedCfg := task.DefaultConfig()
	schedCfg.Logger = log
	scheduler := task.NewScheduler(schedCfg)
	scheduler.Register(task.TypeCurriculumGeneration,
		task.NewCurriculumExecutor(currGen, st.Curricula(), profiles, log))
	scheduler.Register(task.TypeModuleContentGeneration,
		task.NewModuleContentExecutor(gameGen, st.Games(), profiles,
			task.ModuleContentConfig{InterQuestionDelay: task.DefaultInterQuestionDelay}, log))

	return &App{
		Store:     st,
		Profiles:  profiles,
		Provider:  provider,
		Scheduler: scheduler,
		Loader:    loader.New(profiles, loader.DefaultTimeout),
		Sweeper:   prefetch.New(profiles, st.Games(), scheduler, log),
		LLMConfig: llmCfg,
	}, nil
}

// Close shuts the app down: the scheduler finishes its in-flight task, the
// sweeper stops, the database closes.
func (a *App) Close() error {
	a.Sweeper.Stop()
	a.Scheduler.Close()
	return a.Store.Close()
}

// resolveLLMConfig picks the provider configuration in priority order:
// explicit option, SPROUT_* environment, discovered standard API key vars.
func resolveLLMConfig(opts Options) llm.Config {
	if opts.LLMConfig != nil {
		return *opts.LLMConfig
	}

	cfg := llm.ConfigFromEnv()
	if cfg.Validate() == nil {
		return cfg
	}
	if discovered, ok := llm.DiscoverConfig(); ok {
		return discovered
	}
	return cfg
}
