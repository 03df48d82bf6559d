// Package memory provides an in-memory ports.GraphSource, used by tests
// and local fixtures.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

// Source implements ports.GraphSource over an in-memory map keyed by
// canonical title.
type Source struct {
	nodes map[string]*domain.Node
}

// NewSource creates a source from domain nodes.
func NewSource(nodes ...*domain.Node) (*Source, error) {
	m := make(map[string]*domain.Node, len(nodes))
	for _, n := range nodes {
		if n.Title == "" {
			return nil, fmt.Errorf("node missing title")
		}
		m[domain.CanonicalTitle(n.Title)] = n
	}
	return &Source{nodes: m}, nil
}

// MustSource is NewSource for test fixtures; panics on invalid input.
func MustSource(nodes ...*domain.Node) *Source {
	s, err := NewSource(nodes...)
	if err != nil {
		panic(err)
	}
	return s
}

// FetchNode implements ports.GraphSource.
func (s *Source) FetchNode(_ context.Context, title string) (*domain.Node, error) {
	n, ok := s.nodes[domain.CanonicalTitle(title)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrNotFound, title)
	}
	return n, nil
}

// RandomTitle implements ports.GraphSource with a deterministic pick (the
// first title in sorted order), which is all the fixtures need.
func (s *Source) RandomTitle(context.Context) (string, error) {
	if len(s.nodes) == 0 {
		return "", fmt.Errorf("%w: source is empty", domain.ErrNotFound)
	}
	titles := make([]string, 0, len(s.nodes))
	for _, n := range s.nodes {
		titles = append(titles, n.Title)
	}
	sort.Strings(titles)
	return titles[0], nil
}

// Search implements ports.GraphSource with canonical substring matching.
func (s *Source) Search(_ context.Context, query string) ([]string, error) {
	q := domain.CanonicalTitle(query)
	titles := make([]string, 0, len(s.nodes))
	for key, n := range s.nodes {
		if q == "" || strings.Contains(key, q) {
			titles = append(titles, n.Title)
		}
	}
	sort.Strings(titles)
	if len(titles) > 5 {
		titles = titles[:5]
	}
	return titles, nil
}
