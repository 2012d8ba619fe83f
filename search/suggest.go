package search

import (
	"strings"

	"github.com/giygas/openbnf/fold"
)

const (
	// DefaultSuggestionLimit is the number of close names kept per lookup
	DefaultSuggestionLimit = 3
	// DefaultSuggestionCutoff is the minimum similarity ratio of a close name
	DefaultSuggestionCutoff = 0.6
)

// Suggester finds close drug names for terms that matched nothing.
type Suggester struct {
	index  *NameIndex
	limit  int
	cutoff float64
}

// NewSuggester creates a suggester over index. Non-positive limit or cutoff
// fall back to the defaults.
func NewSuggester(index *NameIndex, limit int, cutoff float64) *Suggester {
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultSuggestionCutoff
	}
	return &Suggester{index: index, limit: limit, cutoff: cutoff}
}

// Suggest returns the names close to the whole term together with the names
// close to its first word, without duplicates. Comparison is done on upper
// case; the indexed spelling is returned. The result is never nil.
func (s *Suggester) Suggest(term string) []string {
	suggestions := []string{}
	seen := make(map[string]struct{})
	add := func(indexes []int) {
		for _, i := range indexes {
			name := s.index.names[i]
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			suggestions = append(suggestions, name)
		}
	}

	add(s.closest(term))
	if words := strings.Fields(term); len(words) > 0 {
		add(s.closest(words[0]))
	}
	return suggestions
}

func (s *Suggester) closest(term string) []int {
	return closeMatches(fold.Upper(term), s.index.keys, s.limit, s.cutoff)
}
