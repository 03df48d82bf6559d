package ports

import "context"

// Embedder produces fixed-length vectors for text. Batching is a
// performance contract, not a correctness one: BatchEmbed must produce the
// same vectors as per-item Embed calls.
type Embedder interface {
	// Embed returns the vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// BatchEmbed returns one vector per input text, in input order.
	BatchEmbed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the fixed vector length this provider produces.
	Dimension() int
}
