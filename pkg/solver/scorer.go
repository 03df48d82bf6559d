package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// SelectBest ranks candidates against the target text by cosine similarity
// and returns the single best match with its score in [-1, 1].
//
// All candidate vectors come from one batch call. Every vector is L2
// normalized before scoring, so cosine similarity reduces to a dot product.
// Ties break to the first occurrence in candidate order, which keeps the
// result deterministic for identical inputs.
func SelectBest(ctx context.Context, emb ports.Embedder, target string, candidates []string) (best string, score float64, err error) {
	if len(candidates) == 0 {
		return "", 0, domain.ErrNoCandidates
	}

	targetVec, err := emb.Embed(ctx, target)
	if err != nil {
		return "", 0, fmt.Errorf("%w: target %q: %v", domain.ErrEmbedding, target, err)
	}
	if err := normalize(targetVec); err != nil {
		return "", 0, fmt.Errorf("%w: target %q: %v", domain.ErrEmbedding, target, err)
	}

	vecs, err := emb.BatchEmbed(ctx, candidates)
	if err != nil {
		return "", 0, fmt.Errorf("%w: candidate batch: %v", domain.ErrEmbedding, err)
	}
	if len(vecs) != len(candidates) {
		return "", 0, fmt.Errorf("%w: got %d vectors for %d candidates", domain.ErrEmbedding, len(vecs), len(candidates))
	}

	bestIdx := -1
	bestScore := math.Inf(-1)
	for i, vec := range vecs {
		if err := normalize(vec); err != nil {
			return "", 0, fmt.Errorf("%w: candidate %q: %v", domain.ErrEmbedding, candidates[i], err)
		}
		s := dot(targetVec, vec)
		// Strictly greater: earlier candidates win ties.
		if s > bestScore {
			bestScore = s
			bestIdx = i
		}
	}

	return candidates[bestIdx], bestScore, nil
}

// normalize divides the vector by its Euclidean norm in place.
// A zero-norm vector is degenerate input, not a zero score.
func normalize(v []float32) error {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return fmt.Errorf("zero-norm vector")
	}
	norm := float32(math.Sqrt(sum))
	for i := range v {
		v[i] /= norm
	}
	return nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}
