// Package ports defines the interfaces between the run state machine and
// its collaborators: the graph source, the decision solvers, the embedding
// provider and the node cache. Adapters live under internal/adapters; the
// runtime only ever sees these contracts.
package ports
