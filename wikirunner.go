package wikirunner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vedant6oyal/Wiki-Runner/internal/adapters/cached"
	"github.com/Vedant6oyal/Wiki-Runner/internal/adapters/embedding"
	rediscache "github.com/Vedant6oyal/Wiki-Runner/internal/adapters/redis"
	"github.com/Vedant6oyal/Wiki-Runner/internal/adapters/wikipedia"
	"github.com/Vedant6oyal/Wiki-Runner/internal/config"
	"github.com/Vedant6oyal/Wiki-Runner/internal/runtime"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/solver"
)

// Version is the wikirun release version.
var Version = "0.1.0"

// Agent is the high-level entry point for the Wiki-Runner library. It
// wraps the internal runtime and assembles the graph source, solver and
// cache from configuration.
type Agent struct {
	runner      *runtime.Runner
	source      ports.GraphSource
	solver      ports.Solver
	logger      *slog.Logger
	hooks       domain.LifecycleHooks
	cache       *rediscache.Cache
	runDefaults config.RunConfig
}

// Option defines a functional option for configuring the Agent.
type Option func(*Agent)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(a *Agent) {
		a.hooks = hooks
	}
}

// WithGraphSource overrides the assembled graph source. Intended for
// tests and offline fixtures.
func WithGraphSource(source ports.GraphSource) Option {
	return func(a *Agent) {
		a.source = source
	}
}

// WithSolver overrides the assembled solver.
func WithSolver(s ports.Solver) Option {
	return func(a *Agent) {
		a.solver = s
	}
}

// New assembles an agent from configuration. The similarity solver
// initializes the shared embedding provider on first use, so New stays
// cheap even when the embedding service is down.
func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Agent, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	a := &Agent{runDefaults: cfg.Run}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}

	if a.source == nil {
		source := buildSource(cfg, a)
		a.source = source
	}

	if a.solver == nil {
		s, err := buildSolver(ctx, cfg, a.logger)
		if err != nil {
			return nil, err
		}
		a.solver = s
	}

	runnerOpts := []runtime.Option{
		runtime.WithLogger(a.logger),
		runtime.WithLifecycleHooks(a.hooks),
	}
	if cfg.Run.Pacing > 0 {
		runnerOpts = append(runnerOpts, runtime.WithPacing(cfg.Run.Pacing))
	}
	a.runner = runtime.NewRunner(a.source, a.solver, runnerOpts...)

	return a, nil
}

func buildSource(cfg *config.Config, a *Agent) ports.GraphSource {
	wikiOpts := []wikipedia.Option{wikipedia.WithLogger(a.logger)}
	if cfg.Wikipedia.APIURL != "" {
		wikiOpts = append(wikiOpts, wikipedia.WithBaseURL(cfg.Wikipedia.APIURL))
	}
	var source ports.GraphSource = wikipedia.New(wikiOpts...)

	if cfg.Redis.Addr != "" {
		cacheOpts := []rediscache.Option{}
		if cfg.Redis.TTL > 0 {
			cacheOpts = append(cacheOpts, rediscache.WithTTL(cfg.Redis.TTL))
		}
		a.cache = rediscache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, cacheOpts...)
		source = cached.New(source, a.cache, cached.WithLogger(a.logger))
	}

	return source
}

func buildSolver(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ports.Solver, error) {
	solverCfg := solver.Config{
		Name:    cfg.Solver.Name,
		Model:   cfg.Solver.Model,
		APIKey:  cfg.Solver.APIKey,
		BaseURL: cfg.Solver.BaseURL,
		Logger:  logger,
	}

	if solverCfg.Name == "" || solverCfg.Name == solver.NameSimilarity {
		emb, err := embedding.Shared(ctx, embedding.SharedConfig{
			BaseURL:   cfg.Embedding.BaseURL,
			Model:     cfg.Embedding.Model,
			Dimension: cfg.Embedding.Dimension,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize similarity solver: %w", err)
		}
		solverCfg.Embedder = emb
	}

	return solver.New(solverCfg)
}

// Start begins a run from start to target using the configured defaults.
func (a *Agent) Start(ctx context.Context, start, target string) error {
	return a.StartWith(ctx, runtime.StartConfig{
		Start:  start,
		Target: target,
	})
}

// StartWith begins a run with explicit budgets. Zero budgets fall back to
// the configured run defaults, then to the runtime's built-in limits.
func (a *Agent) StartWith(ctx context.Context, cfg runtime.StartConfig) error {
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = a.runDefaults.StepBudget
	}
	if cfg.WallBudget <= 0 {
		cfg.WallBudget = a.runDefaults.WallBudget
	}
	return a.runner.Start(ctx, cfg)
}

// Pause requests a cooperative pause at the next step boundary.
func (a *Agent) Pause() error { return a.runner.Pause() }

// Resume continues a paused run.
func (a *Agent) Resume() error { return a.runner.Resume() }

// Abort discards the run and returns to idle.
func (a *Agent) Abort() error { return a.runner.Abort() }

// Status returns the current state machine status.
func (a *Agent) Status() domain.RunStatus { return a.runner.Status() }

// Snapshot returns a copy of the run, or nil when idle.
func (a *Agent) Snapshot() *domain.Run { return a.runner.Snapshot() }

// Wait blocks until the run finishes and returns the final snapshot.
func (a *Agent) Wait(ctx context.Context) (*domain.Run, error) {
	return a.runner.Wait(ctx)
}

// Runner exposes the underlying runtime for the control API.
func (a *Agent) Runner() *runtime.Runner { return a.runner }

// RandomTitle returns a random article title from the graph source.
func (a *Agent) RandomTitle(ctx context.Context) (string, error) {
	return a.source.RandomTitle(ctx)
}

// Search returns up to five article titles matching the query.
func (a *Agent) Search(ctx context.Context, query string) ([]string, error) {
	return a.source.Search(ctx, query)
}

// Close releases held resources, closing the Redis client when one was
// assembled.
func (a *Agent) Close() error {
	if a.cache != nil {
		return a.cache.Close()
	}
	return nil
}
