package ports

import (
	"context"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

// SolveRequest carries the read-only view of the run a solver is allowed to
// see: the current article, the target descriptor and the path so far. It
// never exposes the full run state or the timers.
type SolveRequest struct {
	// Current is the article the agent sits on. Solvers must not mutate it.
	Current *domain.Node

	// Target is the target descriptor (an article title).
	Target string

	// Path is the ordered list of article titles visited so far,
	// starting at the start article and ending at Current.
	Path []string
}

// Decision is a solver's answer for one step.
type Decision struct {
	// Link must be a member of the current article's outgoing link set.
	// The runtime verifies this; it is never trusted blindly.
	Link string

	// Rationale is a short human-readable explanation of the choice.
	Rationale string
}

// Solver is the single contract every decision strategy implements, local
// or remote. The runtime calls ChooseLink at most once per step and never
// concurrently for the same run. Implementations must not retain req or
// mutate anything reachable from it.
type Solver interface {
	// Name identifies the strategy (e.g. "similarity", "openai").
	Name() string

	// ChooseLink picks exactly one outgoing link to follow.
	ChooseLink(ctx context.Context, req SolveRequest) (Decision, error)
}
