package runtime_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Vedant6oyal/Wiki-Runner/internal/adapters/memory"
	"github.com/Vedant6oyal/Wiki-Runner/internal/runtime"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// scriptedSolver returns canned decisions in order, then repeats the last.
// It can park on a gate channel to let tests interleave pause/abort with an
// in-flight step.
type scriptedSolver struct {
	mu        sync.Mutex
	decisions []ports.Decision
	errs      []error
	calls     int
	gate      chan struct{} // if non-nil, each call waits on it
	started   chan struct{} // if non-nil, signaled when a call begins
}

func (s *scriptedSolver) Name() string { return "scripted" }

func (s *scriptedSolver) ChooseLink(ctx context.Context, _ ports.SolveRequest) (ports.Decision, error) {
	s.mu.Lock()
	i := s.calls
	s.calls++
	started, gate := s.started, s.gate
	s.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ports.Decision{}, ctx.Err()
		}
	}

	if i < len(s.errs) && s.errs[i] != nil {
		return ports.Decision{}, s.errs[i]
	}
	if len(s.decisions) == 0 {
		return ports.Decision{}, errors.New("no scripted decision")
	}
	if i >= len(s.decisions) {
		i = len(s.decisions) - 1
	}
	return s.decisions[i], nil
}

// gatedSource parks FetchNode for one specific title until told how to
// answer; all other titles pass through to the underlying graph.
type gatedSource struct {
	*memory.Source
	title   string
	result  chan error
	started chan struct{}
}

func (s *gatedSource) FetchNode(ctx context.Context, title string) (*domain.Node, error) {
	if domain.SameTitle(title, s.title) {
		s.started <- struct{}{}
		select {
		case err := <-s.result:
			return nil, err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.Source.FetchNode(ctx, title)
}

func lineGraph() *memory.Source {
	return memory.MustSource(
		&domain.Node{Title: "A", Links: []string{"B", "C"}},
		&domain.Node{Title: "B", Links: []string{"C", "A"}},
		&domain.Node{Title: "C", Links: []string{"D"}},
		&domain.Node{Title: "D", Links: nil},
	)
}

func waitTerminal(t *testing.T, r *runtime.Runner) *domain.Run {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	run, err := r.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	return run
}

func TestRunner_ImmediateSuccessWhenStartIsTarget(t *testing.T) {
	r := runtime.NewRunner(lineGraph(), &scriptedSolver{})

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "Apollo_11", Target: "apollo 11"}); err == nil {
		t.Fatal("expected fetch error for unknown article")
	}

	src := memory.MustSource(&domain.Node{Title: "Apollo 11", Links: []string{"Moon"}})
	r = runtime.NewRunner(src, &scriptedSolver{})
	if err := r.Start(context.Background(), runtime.StartConfig{Start: "Apollo_11", Target: "apollo 11"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	run := waitTerminal(t, r)
	if run.Status != domain.StatusSucceeded {
		t.Fatalf("status = %s, want succeeded", run.Status)
	}
	if len(run.Steps) != 0 {
		t.Errorf("expected empty history, got %d steps", len(run.Steps))
	}
}

func TestRunner_WalksToTarget(t *testing.T) {
	solver := &scriptedSolver{decisions: []ports.Decision{
		{Link: "B", Rationale: "first hop"},
		{Link: "C", Rationale: "second hop"},
	}}
	r := runtime.NewRunner(lineGraph(), solver)

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "C"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	run := waitTerminal(t, r)
	if run.Status != domain.StatusSucceeded {
		t.Fatalf("status = %s (%s), want succeeded", run.Status, run.FailReason)
	}
	if len(run.Steps) != 2 {
		t.Fatalf("expected 2 steps, got %d", len(run.Steps))
	}
	if run.Steps[0].To != "B" || run.Steps[1].To != "C" {
		t.Errorf("unexpected path %v", run.Path())
	}
	if run.Current.Title != run.Steps[len(run.Steps)-1].To {
		t.Error("current article must equal the last step's destination")
	}
	for _, s := range run.Steps {
		if s.Solver != "scripted" {
			t.Errorf("step solver = %q, want scripted", s.Solver)
		}
		if s.Duration < 0 {
			t.Error("step duration must be non-negative")
		}
	}
}

func TestRunner_StartFetchFailureLeavesIdle(t *testing.T) {
	r := runtime.NewRunner(lineGraph(), &scriptedSolver{})

	err := r.Start(context.Background(), runtime.StartConfig{Start: "Nope", Target: "C"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if r.Status() != domain.StatusIdle {
		t.Errorf("status = %s, want idle (no partial run retained)", r.Status())
	}
	if r.Snapshot() != nil {
		t.Error("expected nil snapshot after failed start")
	}
}

func TestRunner_StartFetchFailureAfterAbortKeepsNewerRun(t *testing.T) {
	src := &gatedSource{
		Source:  lineGraph(),
		title:   "Slow",
		result:  make(chan error),
		started: make(chan struct{}),
	}
	solver := &scriptedSolver{decisions: []ports.Decision{{Link: "B"}, {Link: "A"}}}
	r := runtime.NewRunner(src, solver)

	errCh := make(chan error, 1)
	go func() {
		errCh <- r.Start(context.Background(), runtime.StartConfig{Start: "Slow", Target: "C"})
	}()
	<-src.started // first run is parked in its start fetch

	if err := r.Abort(); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "Zzz"}); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	// The aborted run's fetch now fails; it must not touch the newer run.
	src.result <- errors.New("upstream gone")

	if err := <-errCh; err == nil {
		t.Fatal("the first Start should report its fetch failure")
	}
	if snap := r.Snapshot(); snap == nil || snap.Start != "A" {
		t.Fatalf("the newer run must survive the stale cleanup, got %+v", snap)
	}
	r.Abort()
}

func TestRunner_StepBudgetExhaustion(t *testing.T) {
	// Oscillate B <-> A forever; budget cuts it off.
	solver := &scriptedSolver{decisions: []ports.Decision{
		{Link: "B"}, {Link: "A"}, {Link: "B"}, {Link: "A"},
	}}
	r := runtime.NewRunner(lineGraph(), solver)

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "Zzz", StepBudget: 3}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	run := waitTerminal(t, r)
	if run.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", run.Status)
	}
	if len(run.Steps) != 3 {
		t.Errorf("history length = %d, must equal the step budget", len(run.Steps))
	}
	if !strings.Contains(run.FailReason, "budget") {
		t.Errorf("fail reason %q should mention the budget", run.FailReason)
	}
}

func TestRunner_InvalidSolverEdgeFailsRun(t *testing.T) {
	solver := &scriptedSolver{decisions: []ports.Decision{{Link: "Narnia"}}}
	r := runtime.NewRunner(lineGraph(), solver)

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "C"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	run := waitTerminal(t, r)
	if run.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", run.Status)
	}
	if len(run.Steps) != 0 {
		t.Error("no step may commit for a link that is not an outgoing edge")
	}
	if !strings.Contains(run.FailReason, "Narnia") {
		t.Errorf("fail reason %q should name the invalid link", run.FailReason)
	}
}

func TestRunner_DeadEndFailsRun(t *testing.T) {
	solver := &scriptedSolver{decisions: []ports.Decision{{Link: "C"}, {Link: "D"}}}
	r := runtime.NewRunner(lineGraph(), solver)

	// D has no outgoing links; the solver surfaces ErrNoCandidates there.
	solver.errs = []error{nil, nil, domain.ErrNoCandidates}

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "Zzz"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	run := waitTerminal(t, r)
	if run.Status != domain.StatusFailed {
		t.Fatalf("status = %s, want failed", run.Status)
	}
}

func TestRunner_PauseDuringStepCommitsHop(t *testing.T) {
	solver := &scriptedSolver{
		decisions: []ports.Decision{{Link: "B"}},
		gate:      make(chan struct{}),
		started:   make(chan struct{}, 1),
	}
	r := runtime.NewRunner(lineGraph(), solver)

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "Zzz"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-solver.started // step one is in flight
	if err := r.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	solver.gate <- struct{}{} // let the solver finish

	// The in-flight hop must commit, then the loop parks.
	deadline := time.Now().Add(5 * time.Second)
	for r.Status() != domain.StatusPaused {
		if time.Now().After(deadline) {
			t.Fatalf("run never paused, status = %s", r.Status())
		}
		time.Sleep(5 * time.Millisecond)
	}

	snap := r.Snapshot()
	if len(snap.Steps) != 1 || snap.Steps[0].To != "B" {
		t.Fatalf("expected the in-flight hop to commit, got %v", snap.Steps)
	}

	// Resume continues the walk to the next solver call.
	solver.mu.Lock()
	solver.decisions = []ports.Decision{{Link: "C"}, {Link: "C"}}
	solver.gate = nil
	solver.started = nil
	solver.mu.Unlock()

	if err := r.Resume(); err != nil {
		t.Fatalf("Resume failed: %v", err)
	}

	deadline = time.Now().Add(5 * time.Second)
	for {
		snap = r.Snapshot()
		if snap != nil && len(snap.Steps) >= 2 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("run did not continue after resume")
		}
		time.Sleep(5 * time.Millisecond)
	}

	r.Abort()
}

func TestRunner_AbortDiscardsInFlightResult(t *testing.T) {
	solver := &scriptedSolver{
		decisions: []ports.Decision{{Link: "B"}},
		gate:      make(chan struct{}),
		started:   make(chan struct{}, 1),
	}
	r := runtime.NewRunner(lineGraph(), solver)

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "Zzz"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	<-solver.started
	if err := r.Abort(); err != nil {
		t.Fatalf("Abort failed: %v", err)
	}
	close(solver.gate)

	if r.Status() != domain.StatusIdle {
		t.Errorf("status = %s, want idle after abort", r.Status())
	}
	if r.Snapshot() != nil {
		t.Error("abort must clear the run entirely")
	}
}

func TestRunner_WallClockResetsFromPaused(t *testing.T) {
	solver := &scriptedSolver{decisions: []ports.Decision{{Link: "B"}, {Link: "A"}}}
	r := runtime.NewRunner(lineGraph(), solver, runtime.WithPacing(10*time.Millisecond))

	if err := r.Start(context.Background(), runtime.StartConfig{
		Start:      "A",
		Target:     "Zzz",
		WallBudget: 150 * time.Millisecond,
	}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := r.Pause(); err != nil {
		t.Fatalf("Pause failed: %v", err)
	}

	// The hard timer always wins: the run disappears without reaching a
	// terminal state.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	run, err := r.Wait(ctx)
	if err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
	if run != nil {
		t.Fatalf("expected the run to be cleared, got status %s", run.Status)
	}
	if r.Status() != domain.StatusIdle {
		t.Errorf("status = %s, want idle", r.Status())
	}
}

func TestRunner_SecondStartWhileActiveIsRejected(t *testing.T) {
	solver := &scriptedSolver{
		decisions: []ports.Decision{{Link: "B"}},
		gate:      make(chan struct{}),
		started:   make(chan struct{}, 1),
	}
	r := runtime.NewRunner(lineGraph(), solver)

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "Zzz"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	<-solver.started

	err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "C"})
	if !errors.Is(err, domain.ErrRunActive) {
		t.Fatalf("expected ErrRunActive, got %v", err)
	}

	r.Abort()
	close(solver.gate)
}

func TestRunner_HistoryNeverExceedsBudget(t *testing.T) {
	solver := &scriptedSolver{decisions: []ports.Decision{
		{Link: "B"}, {Link: "A"},
	}}
	r := runtime.NewRunner(lineGraph(), solver)

	for _, budget := range []int{1, 2, 5} {
		if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "Zzz", StepBudget: budget}); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		run := waitTerminal(t, r)
		if len(run.Steps) > budget {
			t.Errorf("budget %d: history length %d exceeds budget", budget, len(run.Steps))
		}
		solver.mu.Lock()
		solver.calls = 0
		solver.mu.Unlock()
	}
}

func TestRunner_HooksFire(t *testing.T) {
	var mu sync.Mutex
	var commits []string
	var ended bool

	hooks := domain.LifecycleHooks{
		OnStepCommit: func(_ context.Context, e *domain.StepEvent) {
			mu.Lock()
			commits = append(commits, e.To)
			mu.Unlock()
		},
		OnRunEnd: func(_ context.Context, e *domain.RunEvent) {
			mu.Lock()
			ended = true
			mu.Unlock()
		},
	}

	solver := &scriptedSolver{decisions: []ports.Decision{{Link: "C"}, {Link: "D"}}}
	r := runtime.NewRunner(lineGraph(), solver, runtime.WithLifecycleHooks(hooks))

	if err := r.Start(context.Background(), runtime.StartConfig{Start: "A", Target: "D"}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	waitTerminal(t, r)

	mu.Lock()
	defer mu.Unlock()
	if len(commits) != 2 || commits[0] != "C" || commits[1] != "D" {
		t.Errorf("unexpected step commits %v", commits)
	}
	if !ended {
		t.Error("OnRunEnd never fired")
	}
}
