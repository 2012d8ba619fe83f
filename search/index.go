// Package search implements drug lookup: OR-split substring matching against the
// record store, a fuzzy fallback over the startup name index, and the dispatch
// between the two.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/giygas/openbnf/fold"
	"github.com/giygas/openbnf/interfaces"
)

// Compile-time check to ensure NameIndex exposes its bookkeeping
var _ interfaces.NameIndexInfo = (*NameIndex)(nil)

// NameIndex is the ordered list of drug names known when the process started.
//
// It is built once and never refreshed. Records added to or renamed in the
// store afterwards are invisible to suggestions until the next restart; the
// store monitor only reports the drift. A NameIndex is immutable and safe for
// concurrent use.
type NameIndex struct {
	names   []string
	keys    []string // upper-cased names, compared against upper-cased terms
	builtAt time.Time
}

// NewNameIndex creates an index over names, keeping their order.
func NewNameIndex(names []string) *NameIndex {
	ix := &NameIndex{
		names:   append([]string(nil), names...),
		keys:    make([]string, len(names)),
		builtAt: time.Now(),
	}
	for i, n := range names {
		ix.keys[i] = fold.Upper(n)
	}
	return ix
}

// BuildNameIndex loads every record name from the store.
func BuildNameIndex(ctx context.Context, store interfaces.RecordStore) (*NameIndex, error) {
	drugs, err := store.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load drug names: %w", err)
	}

	names := make([]string, len(drugs))
	for i := range drugs {
		names[i] = drugs[i].Name
	}
	return NewNameIndex(names), nil
}

// Len returns the number of indexed names.
func (ix *NameIndex) Len() int {
	return len(ix.names)
}

// Names returns a copy of the indexed names.
func (ix *NameIndex) Names() []string {
	return append([]string(nil), ix.names...)
}

// BuiltAt returns when the index was built.
func (ix *NameIndex) BuiltAt() time.Time {
	return ix.builtAt
}
