package domain

import "strings"

// CanonicalTitle normalizes an article title for equality checks.
// Rules: trim surrounding whitespace, fold case, treat underscores and
// spaces as equivalent, and collapse internal runs of whitespace.
// "Apollo_11", " apollo  11 " and "APOLLO 11" all map to the same key.
func CanonicalTitle(title string) string {
	s := strings.ReplaceAll(title, "_", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// SameTitle reports whether two titles refer to the same article under
// canonicalization.
func SameTitle(a, b string) bool {
	return CanonicalTitle(a) == CanonicalTitle(b)
}

// VisitedSet tracks the canonical keys of articles seen during a run.
// It only ever grows; entries are never pruned.
type VisitedSet map[string]struct{}

// NewVisitedSet builds a set from the given titles.
func NewVisitedSet(titles ...string) VisitedSet {
	v := make(VisitedSet, len(titles))
	for _, t := range titles {
		v.Add(t)
	}
	return v
}

// Add records a title.
func (v VisitedSet) Add(title string) {
	v[CanonicalTitle(title)] = struct{}{}
}

// Contains reports whether the title (in any spelling) has been seen.
func (v VisitedSet) Contains(title string) bool {
	_, ok := v[CanonicalTitle(title)]
	return ok
}

// Len returns the number of distinct articles seen.
func (v VisitedSet) Len() int {
	return len(v)
}
