// Package cli implements the wikirun commands on top of the library
// facade.
package cli

import (
	"context"
	"fmt"
	"time"

	wikirunner "github.com/Vedant6oyal/Wiki-Runner"
	"github.com/Vedant6oyal/Wiki-Runner/internal/config"
	"github.com/Vedant6oyal/Wiki-Runner/internal/observability"
	"github.com/Vedant6oyal/Wiki-Runner/internal/presentation/tui"
	"github.com/Vedant6oyal/Wiki-Runner/internal/runtime"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// RunOptions parameterizes a CLI game.
type RunOptions struct {
	ConfigPath string
	Start      string
	Target     string
	Solver     string
	Model      string
	MaxSteps   int
	Timeout    time.Duration
	Random     bool
	Quiet      bool
}

// RunGame plays one game from the command line, streaming steps to the
// terminal and finishing with a rendered summary.
func RunGame(opts RunOptions) error {
	cfg, err := loadConfig(opts.ConfigPath, opts.Solver, opts.Model)
	if err != nil {
		return err
	}
	logger := createLogger(cfg.LogLevel)

	if !opts.Quiet {
		tui.PrintBanner()
	}

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	progress := domain.LifecycleHooks{
		OnStepCommit: func(_ context.Context, e *domain.StepEvent) {
			fmt.Printf("  %2d. %s → %s  (%s)\n", e.Index, e.From, e.To, e.Rationale)
		},
	}

	agent, err := wikirunner.New(ctx, cfg,
		wikirunner.WithLogger(logger),
		wikirunner.WithLifecycleHooks(observability.Merge(observability.Hooks(), progress)),
	)
	if err != nil {
		return err
	}
	defer agent.Close()

	start, target := opts.Start, opts.Target
	if opts.Random {
		if start, target, err = pickRandomPair(ctx, agent); err != nil {
			return err
		}
	}

	fmt.Printf("Navigating from %q to %q with the %s solver...\n\n", start, target, cfg.Solver.Name)

	if err := agent.StartWith(ctx, runtime.StartConfig{
		Start:      start,
		Target:     target,
		StepBudget: opts.MaxSteps,
		WallBudget: opts.Timeout,
	}); err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}

	run, err := agent.Wait(ctx)
	if err != nil {
		agent.Abort()
		return err
	}
	if run == nil {
		return fmt.Errorf("run was reset before finishing")
	}

	fmt.Println(tui.RenderMarkdown(tui.RunSummary(run)))

	if run.Status != domain.StatusSucceeded {
		return fmt.Errorf("run %s: %s", run.Status, run.FailReason)
	}
	return nil
}

// RandomPair prints a random start/target pair without playing.
func RandomPair(configPath string) error {
	cfg, err := loadConfig(configPath, "", "")
	if err != nil {
		return err
	}
	logger := createLogger(cfg.LogLevel)

	ctx, cancel := signalContext(context.Background())
	defer cancel()

	// The similarity embedder is not needed to pick titles.
	cfg.Solver.Name = ""
	agent, err := wikirunner.New(ctx, cfg,
		wikirunner.WithLogger(logger),
		wikirunner.WithSolver(noSolver{}),
	)
	if err != nil {
		return err
	}
	defer agent.Close()

	start, target, err := pickRandomPair(ctx, agent)
	if err != nil {
		return err
	}
	fmt.Printf("%s → %s\n", start, target)
	return nil
}

// noSolver satisfies the solver port for commands that never step.
type noSolver struct{}

func (noSolver) Name() string { return "none" }

func (noSolver) ChooseLink(context.Context, ports.SolveRequest) (ports.Decision, error) {
	return ports.Decision{}, fmt.Errorf("no solver configured")
}

func pickRandomPair(ctx context.Context, agent *wikirunner.Agent) (string, string, error) {
	start, err := agent.RandomTitle(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to pick start article: %w", err)
	}
	target, err := agent.RandomTitle(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to pick target article: %w", err)
	}
	for attempts := 0; domain.SameTitle(start, target) && attempts < 5; attempts++ {
		if target, err = agent.RandomTitle(ctx); err != nil {
			return "", "", err
		}
	}
	return start, target, nil
}

func loadConfig(path, solverName, model string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if solverName != "" {
		cfg.Solver.Name = solverName
	}
	if model != "" {
		cfg.Solver.Model = model
	}
	return cfg, nil
}
