// Package solver implements the decision strategies that pick the next
// link to follow: the local semantic-similarity solver (candidate filter +
// embedding scorer) and the remote reasoning solvers that delegate the
// choice to a hosted model. All strategies implement ports.Solver and are
// registered in a closed set; the runtime never needs to know which one is
// active.
package solver
