package ports

import (
	"context"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

// GraphSource retrieves articles and their outgoing links from the backing
// encyclopedia. Every call is potentially slow and potentially failing; the
// runtime never retries automatically, a fetch failure surfaces as a run
// failure.
type GraphSource interface {
	// FetchNode resolves a title (following redirects) and returns the
	// article with its ordered outgoing links.
	// Returns domain.ErrNotFound if the title resolves to nothing.
	FetchNode(ctx context.Context, title string) (*domain.Node, error)

	// RandomTitle returns the title of a random article.
	RandomTitle(ctx context.Context) (string, error)

	// Search returns up to 5 candidate titles for a free-text query,
	// best match first.
	Search(ctx context.Context, query string) ([]string, error)
}

// NodeCache is an optional read-through cache in front of a GraphSource.
// A miss returns (nil, nil); errors are reserved for backend failures.
type NodeCache interface {
	Get(ctx context.Context, title string) (*domain.Node, error)
	Put(ctx context.Context, node *domain.Node) error
}
