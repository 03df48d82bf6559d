// Package runtime implements the navigation orchestrator: the state
// machine that owns one run, drives the step loop through the active
// solver, and enforces the step and wall-clock budgets.
package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// DefaultStepBudget is the maximum number of hops per run.
const DefaultStepBudget = 40

// DefaultWallBudget is the hard wall-clock limit per run.
const DefaultWallBudget = 5 * time.Minute

// StartConfig parameterizes one run.
type StartConfig struct {
	Start      string
	Target     string
	StepBudget int           // 0 means DefaultStepBudget
	WallBudget time.Duration // 0 means DefaultWallBudget
}

// Runner drives runs one at a time. It exclusively owns the run state; all
// other components see read-only copies. The step loop executes on a single
// goroutine, so steps are strictly sequential: step n+1 never starts before
// step n's destination fetch completed.
type Runner struct {
	source ports.GraphSource
	solver ports.Solver
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	pacing time.Duration

	mu             sync.Mutex
	run            *domain.Run
	pauseRequested bool
	resumeCh       chan struct{}
	done           chan struct{}
	closeDone      *sync.Once
	cancelRun      context.CancelFunc
	wallTimer      *time.Timer
}

// Option configures the Runner.
type Option func(*Runner)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Runner) {
		r.hooks = hooks
	}
}

// WithPacing inserts a delay between solver completion and destination
// fetch. A throttle for interactive viewing, not a correctness mechanism;
// defaults to zero.
func WithPacing(d time.Duration) Option {
	return func(r *Runner) {
		r.pacing = d
	}
}

// NewRunner creates a runner over a graph source and a decision solver.
func NewRunner(source ports.GraphSource, solver ports.Solver, opts ...Option) *Runner {
	r := &Runner{
		source: source,
		solver: solver,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins a new run. It fetches the start article synchronously; on
// fetch failure the runner stays idle and no partial run is retained. When
// the start already matches the target the run succeeds immediately with an
// empty history. Otherwise the step loop takes over on its own goroutine.
func (r *Runner) Start(ctx context.Context, cfg StartConfig) error {
	if cfg.Start == "" || cfg.Target == "" {
		return fmt.Errorf("start and target are required")
	}
	if cfg.StepBudget <= 0 {
		cfg.StepBudget = DefaultStepBudget
	}
	if cfg.WallBudget <= 0 {
		cfg.WallBudget = DefaultWallBudget
	}

	r.mu.Lock()
	if r.run != nil && !r.run.Status.Terminal() {
		r.mu.Unlock()
		return domain.ErrRunActive
	}
	run := &domain.Run{
		ID:         uuid.NewString(),
		Start:      cfg.Start,
		Target:     cfg.Target,
		Status:     domain.StatusStarting,
		StepBudget: cfg.StepBudget,
		WallBudget: cfg.WallBudget,
		SolverName: r.solver.Name(),
		StartedAt:  time.Now(),
	}
	r.installRun(run)
	r.mu.Unlock()

	node, err := r.source.FetchNode(ctx, cfg.Start)
	if err != nil {
		r.mu.Lock()
		// Only clear our own run; an abort during the fetch may have
		// already made way for a newer one.
		if r.run != nil && r.run.ID == run.ID {
			r.clearRunLocked()
		}
		r.mu.Unlock()
		return fmt.Errorf("failed to fetch start article %q: %w", cfg.Start, err)
	}

	r.mu.Lock()
	if r.run == nil || r.run.ID != run.ID {
		// Aborted or timed out while the start fetch was in flight.
		r.mu.Unlock()
		return domain.ErrNoRun
	}
	r.run.Current = node
	r.run.Start = node.Title // resolved title after redirects

	if domain.SameTitle(node.Title, cfg.Target) {
		r.finishLocked(domain.StatusSucceeded, "")
		r.mu.Unlock()
		r.fireRunEnd(ctx, run.ID)
		return nil
	}

	r.run.Status = domain.StatusPlaying
	runCtx, cancel := context.WithCancel(context.Background())
	r.cancelRun = cancel
	r.wallTimer = time.AfterFunc(cfg.WallBudget, func() { r.forceReset(run.ID) })
	r.mu.Unlock()

	r.fireRunStart(runCtx, run.ID, node.Title, cfg.Target)

	go r.loop(runCtx, run.ID)
	return nil
}

// Pause requests a cooperative pause. A request arriving while a step is in
// flight does not abort it; the hop still commits and only the next
// automatic tick is withheld.
func (r *Runner) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run == nil || r.run.Status.Terminal() {
		return domain.ErrNoRun
	}
	r.pauseRequested = true
	return nil
}

// Resume continues a paused run.
func (r *Runner) Resume() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run == nil || r.run.Status.Terminal() {
		return domain.ErrNoRun
	}
	r.pauseRequested = false
	if r.run.Status == domain.StatusPaused {
		r.run.Status = domain.StatusPlaying
		if r.resumeCh != nil {
			close(r.resumeCh)
			r.resumeCh = nil
		}
	}
	return nil
}

// Abort clears the run entirely, returning to idle. It takes effect at the
// next step boundary and discards any solver result already computed for
// the in-flight step.
func (r *Runner) Abort() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run == nil {
		return domain.ErrNoRun
	}
	r.logger.Info("run aborted", "run_id", r.run.ID)
	r.clearRunLocked()
	return nil
}

// Status returns the current state machine status.
func (r *Runner) Status() domain.RunStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run == nil {
		return domain.StatusIdle
	}
	return r.run.Status
}

// Snapshot returns a deep copy of the run, or nil when idle.
func (r *Runner) Snapshot() *domain.Run {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.run.Clone()
}

// Wait blocks until the run reaches a terminal state or is cleared, then
// returns the final snapshot. A nil run means the runner was reset to idle
// (abort or wall-clock expiry) without a terminal outcome.
func (r *Runner) Wait(ctx context.Context) (*domain.Run, error) {
	r.mu.Lock()
	done := r.done
	r.mu.Unlock()
	if done == nil {
		return nil, domain.ErrNoRun
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
		return r.Snapshot(), nil
	}
}

// loop is the run's single stream of control.
func (r *Runner) loop(ctx context.Context, runID string) {
	for {
		r.mu.Lock()
		if r.run == nil || r.run.ID != runID || r.run.Status.Terminal() {
			r.mu.Unlock()
			return
		}

		if r.pauseRequested {
			r.pauseRequested = false
			r.run.Status = domain.StatusPaused
			resume := make(chan struct{})
			r.resumeCh = resume
			r.mu.Unlock()
			r.logger.Info("run paused", "run_id", runID)
			select {
			case <-resume:
				continue
			case <-ctx.Done():
				return
			}
		}

		// Tick: playing -> loading_step.
		r.run.Status = domain.StatusLoadingStep
		run := r.run
		current := run.Current
		target := run.Target
		path := run.Path()
		visitedSteps := len(run.Steps)
		budget := run.StepBudget
		r.mu.Unlock()

		if visitedSteps >= budget {
			r.fail(ctx, runID, fmt.Sprintf("step budget of %d exhausted: %v", budget, domain.ErrBudgetExceeded))
			return
		}

		stepStart := time.Now()
		decision, err := r.solver.ChooseLink(ctx, ports.SolveRequest{
			Current: current,
			Target:  target,
			Path:    path,
		})
		if err != nil {
			if ctx.Err() != nil {
				return // forced termination won
			}
			r.fail(ctx, runID, fmt.Sprintf("solver %s failed: %v", r.solver.Name(), err))
			return
		}

		// The solver is never trusted blindly: the chosen link must be an
		// actual outgoing edge of the current article.
		if !current.HasLink(decision.Link) {
			r.fail(ctx, runID, (&domain.InvalidDecisionError{
				Solver: r.solver.Name(),
				Node:   current.Title,
				Link:   decision.Link,
			}).Error())
			return
		}

		if r.pacing > 0 {
			select {
			case <-time.After(r.pacing):
			case <-ctx.Done():
				return
			}
		}

		next, err := r.source.FetchNode(ctx, decision.Link)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			r.fail(ctx, runID, fmt.Sprintf("failed to fetch %q: %v", decision.Link, err))
			return
		}

		step := domain.Step{
			From:      current.Title,
			To:        next.Title,
			Rationale: decision.Rationale,
			Solver:    r.solver.Name(),
			At:        stepStart,
			Duration:  time.Since(stepStart),
		}

		r.mu.Lock()
		if r.run == nil || r.run.ID != runID {
			// Aborted while the step was in flight: discard the result.
			r.mu.Unlock()
			return
		}
		r.run.Steps = append(r.run.Steps, step)
		r.run.Current = next
		index := len(r.run.Steps)

		if domain.SameTitle(next.Title, target) {
			r.finishLocked(domain.StatusSucceeded, "")
			r.mu.Unlock()
			r.fireStepCommit(ctx, runID, index, step)
			r.fireRunEnd(ctx, runID)
			return
		}
		// Back to playing; a pending pause request is honored at the top
		// of the next iteration, after this hop has committed.
		r.run.Status = domain.StatusPlaying
		r.mu.Unlock()

		r.fireStepCommit(ctx, runID, index, step)
	}
}

// fail marks the run failed with the given reason.
func (r *Runner) fail(ctx context.Context, runID, reason string) {
	r.mu.Lock()
	if r.run == nil || r.run.ID != runID {
		r.mu.Unlock()
		return
	}
	r.finishLocked(domain.StatusFailed, reason)
	r.mu.Unlock()
	r.fireRunEnd(ctx, runID)
}

// finishLocked commits a terminal status. Caller holds mu.
func (r *Runner) finishLocked(status domain.RunStatus, reason string) {
	r.run.Status = status
	r.run.FailReason = reason
	r.run.FinishedAt = time.Now()
	r.stopTimersLocked()
	if r.closeDone != nil {
		once, done := r.closeDone, r.done
		once.Do(func() { close(done) })
	}
	r.logger.Info("run finished",
		"run_id", r.run.ID,
		"status", string(status),
		"steps", len(r.run.Steps),
		"reason", reason,
	)
}

// installRun wires the per-run synchronization primitives. Caller holds mu.
func (r *Runner) installRun(run *domain.Run) {
	r.run = run
	r.pauseRequested = false
	r.resumeCh = nil
	r.done = make(chan struct{})
	r.closeDone = &sync.Once{}
}

// clearRunLocked resets to idle, discarding the run. Caller holds mu.
func (r *Runner) clearRunLocked() {
	r.stopTimersLocked()
	if r.closeDone != nil {
		once, done := r.closeDone, r.done
		once.Do(func() { close(done) })
	}
	if r.resumeCh != nil {
		close(r.resumeCh)
		r.resumeCh = nil
	}
	r.run = nil
	r.pauseRequested = false
}

// stopTimersLocked halts the wall-clock valve and cancels the run context.
func (r *Runner) stopTimersLocked() {
	if r.wallTimer != nil {
		r.wallTimer.Stop()
		r.wallTimer = nil
	}
	if r.cancelRun != nil {
		r.cancelRun()
		r.cancelRun = nil
	}
}

// forceReset is the wall-clock safety valve: a full reset to idle
// regardless of what is in flight, including a paused run. It never
// produces a terminal outcome; the run simply disappears from the caller's
// perspective.
func (r *Runner) forceReset(runID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.run == nil || r.run.ID != runID || r.run.Status.Terminal() {
		return
	}
	r.logger.Warn("wall-clock budget expired, resetting run",
		"run_id", runID,
		"steps", len(r.run.Steps),
	)
	r.clearRunLocked()
}

func (r *Runner) fireRunStart(ctx context.Context, runID, start, target string) {
	if r.hooks.OnRunStart == nil {
		return
	}
	r.hooks.OnRunStart(ctx, &domain.RunEvent{
		RunID:  runID,
		Start:  start,
		Target: target,
		Status: domain.StatusPlaying,
	})
}

func (r *Runner) fireStepCommit(ctx context.Context, runID string, index int, step domain.Step) {
	if r.hooks.OnStepCommit == nil {
		return
	}
	r.hooks.OnStepCommit(ctx, &domain.StepEvent{
		RunID:     runID,
		Index:     index,
		From:      step.From,
		To:        step.To,
		Solver:    step.Solver,
		Rationale: step.Rationale,
		Duration:  step.Duration,
	})
}

func (r *Runner) fireRunEnd(ctx context.Context, runID string) {
	snapshot := r.Snapshot()
	if snapshot == nil || r.hooks.OnRunEnd == nil {
		return
	}
	r.hooks.OnRunEnd(ctx, &domain.RunEvent{
		RunID:    runID,
		Start:    snapshot.Start,
		Target:   snapshot.Target,
		Status:   snapshot.Status,
		Steps:    len(snapshot.Steps),
		Reason:   snapshot.FailReason,
		Duration: snapshot.FinishedAt.Sub(snapshot.StartedAt),
	})
}
