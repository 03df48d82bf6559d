package solver

import (
	"fmt"

	"github.com/Vedant6oyal/Wiki-Runner/pkg/domain"
)

// MaxCandidates bounds the candidate list handed to a scorer or a remote
// model, to keep the downstream cost predictable. Truncation keeps the
// first N links in source order; the order is never shuffled.
const MaxCandidates = 200

// Filter reduces an article's outgoing links to the ordered candidate list
// a solver ranks.
//
// It deduplicates preserving first-seen order, removes every link already
// in visited (the current article included), and on a dead end (all forward
// edges lead somewhere visited) falls back to the deduplicated list minus
// only the current article itself, reporting usedFallback=true. Forward
// progress therefore stays possible as long as one non-self outgoing edge
// exists.
//
// An article with no viable edge at all yields domain.ErrNoCandidates,
// which is fatal for the run.
func Filter(current *domain.Node, visited domain.VisitedSet) (candidates []string, usedFallback bool, err error) {
	deduped := dedupe(current.Links)

	self := domain.CanonicalTitle(current.Title)

	fresh := make([]string, 0, len(deduped))
	for _, link := range deduped {
		if !visited.Contains(link) {
			fresh = append(fresh, link)
		}
	}

	if len(fresh) == 0 {
		// Dead end: allow backtracking to visited articles, but never a
		// self-loop.
		for _, link := range deduped {
			if domain.CanonicalTitle(link) != self {
				candidates = append(candidates, link)
			}
		}
		usedFallback = true
	} else {
		candidates = fresh
	}

	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}

	if len(candidates) == 0 {
		return nil, usedFallback, fmt.Errorf("%w: %q has no viable outgoing edge", domain.ErrNoCandidates, current.Title)
	}
	return candidates, usedFallback, nil
}

// dedupe removes canonical duplicates preserving first-seen order.
func dedupe(links []string) []string {
	seen := make(map[string]struct{}, len(links))
	out := make([]string, 0, len(links))
	for _, l := range links {
		key := domain.CanonicalTitle(l)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, l)
	}
	return out
}
