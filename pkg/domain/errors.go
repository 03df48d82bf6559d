package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the graph source cannot resolve a title,
// even after redirect following.
var ErrNotFound = errors.New("article not found")

// ErrNoCandidates is returned when the current article has no viable
// outgoing edge. Fatal for the run.
var ErrNoCandidates = errors.New("no candidate links")

// ErrBudgetExceeded marks the normal terminal outcome of running out of
// steps or wall-clock time. Not a bug condition.
var ErrBudgetExceeded = errors.New("budget exceeded")

// ErrEmbedding is returned when the embedding provider fails or produces a
// degenerate (zero-norm) vector. Fatal for the step, never retried.
var ErrEmbedding = errors.New("embedding failed")

// ErrRunActive is returned when a new run is requested while one is
// already in progress.
var ErrRunActive = errors.New("a run is already active")

// ErrNoRun is returned when an operation requires an active run and none
// exists.
var ErrNoRun = errors.New("no active run")

// InvalidDecisionError is raised by the runtime when a solver returns a
// link that is not an outgoing edge of the current article. Remote solvers
// degrade malformed payloads themselves; this error only fires when the
// chosen link itself fails the edge-membership check.
type InvalidDecisionError struct {
	Solver string
	Node   string
	Link   string
}

func (e *InvalidDecisionError) Error() string {
	return fmt.Sprintf("solver %s chose %q, which is not a link of %q", e.Solver, e.Link, e.Node)
}
