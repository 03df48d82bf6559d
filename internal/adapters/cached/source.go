// Package cached decorates a ports.GraphSource with a read-through
// ports.NodeCache.
package cached

import (
	"context"
	"log/slog"

	"github.com/Vedant6oyal/Wiki-Runner/internal/logging"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
	"github.com/Vedant6oyal/Wiki-Runner/pkg/ports"
)

// Source serves FetchNode from the cache when possible and populates it
// on a miss. Cache failures degrade to the upstream source; they never
// fail a fetch.
type Source struct {
	upstream ports.GraphSource
	cache    ports.NodeCache
	logger   *slog.Logger
}

var _ ports.GraphSource = (*Source)(nil)

type Option func(*Source)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps upstream with a read-through cache.
func New(upstream ports.GraphSource, cache ports.NodeCache, opts ...Option) *Source {
	s := &Source{
		upstream: upstream,
		cache:    cache,
		logger:   logging.NewNop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Source) FetchNode(ctx context.Context, title string) (*domain.Node, error) {
	if node, err := s.cache.Get(ctx, title); err != nil {
		s.logger.Warn("node cache read failed", "title", title, "error", err)
	} else if node != nil {
		return node, nil
	}

	node, err := s.upstream.FetchNode(ctx, title)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Put(ctx, node); err != nil {
		s.logger.Warn("node cache write failed", "title", node.Title, "error", err)
	}
	return node, nil
}

// RandomTitle is never cached; a cached random title would not be random.
func (s *Source) RandomTitle(ctx context.Context) (string, error) {
	return s.upstream.RandomTitle(ctx)
}

// Search is passed through uncached; queries rarely repeat within a run.
func (s *Source) Search(ctx context.Context, query string) ([]string, error) {
	return s.upstream.Search(ctx, query)
}
