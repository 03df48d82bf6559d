// Package domain contains the pure data model of a wiki run: articles
// (nodes), hops (steps), the run aggregate and the canonicalization rules
// used to compare article titles. It has no dependencies on adapters or the
// runtime and is safe to import from anywhere.
package domain
