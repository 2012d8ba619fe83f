package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/interfaces"
	"golang.org/x/sync/errgroup"
)

// separators are tried in order; the first one present in a term splits it.
var separators = []string{"|", " OR "}

const maxParallelLookups = 8

// Matcher finds drugs whose name contains a term, with OR-splitting.
type Matcher struct {
	store interfaces.RecordStore
}

// NewMatcher creates a matcher reading from store.
func NewMatcher(store interfaces.RecordStore) *Matcher {
	return &Matcher{store: store}
}

// splitTerm splits term around the first occurrence of the first separator it
// contains.
func splitTerm(term string) (first, rest string, ok bool) {
	for _, sep := range separators {
		if i := strings.Index(term, sep); i != -1 {
			return term[:i], term[i+len(sep):], true
		}
	}
	return term, "", false
}

// subTerms flattens the recursive split of term into its leaf terms, left to
// right. Leaves may be empty, e.g. for a trailing separator.
func subTerms(term string) []string {
	first, rest, ok := splitTerm(term)
	if !ok {
		return []string{term}
	}
	return append(subTerms(first), subTerms(rest)...)
}

// FindMatches returns the records whose name contains term, ignoring case.
//
// A term holding a separator is split and every side is matched on its own;
// the results are concatenated left to right, so a record matching several
// sides appears once per side. An empty term (or an empty side) matches every
// record. The only error is a store failure.
func (m *Matcher) FindMatches(ctx context.Context, term string) ([]entities.Drug, error) {
	terms := subTerms(term)
	if len(terms) == 1 {
		drugs, err := m.store.FindByNameSubstring(ctx, term)
		if err != nil {
			return nil, fmt.Errorf("matching %q: %w", term, err)
		}
		if drugs == nil {
			drugs = []entities.Drug{}
		}
		return drugs, nil
	}

	parts := make([][]entities.Drug, len(terms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLookups)
	for i, t := range terms {
		i, t := i, t
		g.Go(func() error {
			drugs, err := m.store.FindByNameSubstring(gctx, t)
			if err != nil {
				return fmt.Errorf("matching %q: %w", t, err)
			}
			parts[i] = drugs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	results := make([]entities.Drug, 0, total)
	for _, p := range parts {
		results = append(results, p...)
	}
	return results, nil
}
