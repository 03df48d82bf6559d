package solver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// NameSimilarity identifies the local semantic-similarity solver.
const NameSimilarity = "similarity"

// exactMatchRationale is the fixed rationale used when a candidate is the
// target itself and embedding work is skipped entirely.
const exactMatchRationale = "exact match with target"

// Similarity is the local decision strategy: filter the outgoing links,
// then rank the survivors against the target by embedding cosine
// similarity. It is the only solver that runs entirely in-process.
type Similarity struct {
	embedder ports.Embedder
	logger   *slog.Logger
}

// SimilarityOption configures the similarity solver.
type SimilarityOption func(*Similarity)

// WithSimilarityLogger sets a structured logger.
func WithSimilarityLogger(logger *slog.Logger) SimilarityOption {
	return func(s *Similarity) {
		s.logger = logger
	}
}

// NewSimilarity creates the local similarity solver over an embedding
// provider.
func NewSimilarity(embedder ports.Embedder, opts ...SimilarityOption) *Similarity {
	s := &Similarity{
		embedder: embedder,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	return s
}

// Name implements ports.Solver.
func (s *Similarity) Name() string { return NameSimilarity }

// ChooseLink implements ports.Solver.
//
// Before any embedding work, candidates are checked for an exact canonical
// match with the target: an exact textual match must always be taken, and
// skipping the batch call is also the cheap path.
func (s *Similarity) ChooseLink(ctx context.Context, req ports.SolveRequest) (ports.Decision, error) {
	visited := domain.NewVisitedSet(req.Path...)
	visited.Add(req.Current.Title)

	candidates, usedFallback, err := Filter(req.Current, visited)
	if err != nil {
		return ports.Decision{}, err
	}

	for _, c := range candidates {
		if domain.SameTitle(c, req.Target) {
			return ports.Decision{Link: c, Rationale: exactMatchRationale}, nil
		}
	}

	best, score, err := SelectBest(ctx, s.embedder, req.Target, candidates)
	if err != nil {
		return ports.Decision{}, err
	}

	rationale := fmt.Sprintf("closest to %q by cosine similarity (%.4f)", req.Target, score)
	if usedFallback {
		rationale += "; dead end, backtracking over visited links"
	}

	s.logger.Debug("similarity choice",
		"from", req.Current.Title,
		"link", best,
		"score", score,
		"candidates", len(candidates),
		"fallback", usedFallback,
	)

	return ports.Decision{Link: best, Rationale: rationale}, nil
}
