// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"slices"

	"github.com/sc4cleanitol/cleanitol/internal/catalog"
)

type (
	// Counters tallies rule outcomes for one run. Every dependency rule bumps
	// Scanned once and exactly one of Found, Missing, Skipped, Unchecked or
	// Unresolved.
	Counters struct {
		// Scanned counts evaluated dependency rules.
		Scanned int
		Found   int
		Missing int
		// Skipped counts conditional rules whose condition was not met.
		Skipped int
		// Unchecked counts legacy rules that cannot be verified.
		Unchecked int
		// Unresolved counts TGI rules evaluated without a TGI index.
		Unresolved int
		// Removals counts distinct files matched by removal rules.
		Removals int
	}

	// Session holds the mutable state of one script evaluation. It must not
	// be shared between runs or used from several goroutines.
	Session struct {
		catalog  *catalog.Catalog
		verbose  bool
		counters Counters
		removals []string
		listed   map[string]struct{}
		matcher  *removalMatcher
	}
)

// NewSession starts an evaluation over cat. When verbose is false, runs for
// found, skipped and not-present outcomes are suppressed.
func NewSession(cat *catalog.Catalog, verbose bool) *Session {
	return &Session{
		catalog: cat,
		verbose: verbose,
		listed:  make(map[string]struct{}),
		matcher: newRemovalMatcher(cat.UserRoot, cat.UserFiles),
	}
}

// Catalog returns the catalog the session evaluates against.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Counters returns a copy of the current counters.
func (s *Session) Counters() Counters {
	return s.counters
}

// FilesToRemove returns a copy of the removal list in first-match order.
// A file matched by several removal rules is listed once.
func (s *Session) FilesToRemove() []string {
	return slices.Clone(s.removals)
}

// Balanced reports whether every scanned dependency rule was attributed to
// exactly one outcome.
func (c Counters) Balanced() bool {
	return c.Scanned == c.Found+c.Missing+c.Skipped+c.Unchecked+c.Unresolved
}
