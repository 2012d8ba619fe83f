package search

import (
	"context"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/fold"
	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/metrics"
)

// Compile-time check to ensure Service implements SearchService
var _ interfaces.SearchService = (*Service)(nil)

// Options tunes the fuzzy fallback.
type Options struct {
	SuggestionLimit  int
	SuggestionCutoff float64
}

// Service dispatches a query to the matcher and the fuzzy fallback.
// It holds no per-request state.
type Service struct {
	matcher   *Matcher
	suggester *Suggester
}

// NewService creates a search service over store and the startup name index.
func NewService(store interfaces.RecordStore, index *NameIndex, opts Options) *Service {
	return &Service{
		matcher:   NewMatcher(store),
		suggester: NewSuggester(index, opts.SuggestionLimit, opts.SuggestionCutoff),
	}
}

func (s *Service) FindMatches(ctx context.Context, term string) ([]entities.Drug, error) {
	return s.matcher.FindMatches(ctx, term)
}

func (s *Service) Suggest(term string) []string {
	return s.suggester.Suggest(term)
}

// Search resolves query into an exact single match, a result list, or
// suggestions when nothing matched.
func (s *Service) Search(ctx context.Context, query string) (entities.SearchOutcome, error) {
	results, err := s.matcher.FindMatches(ctx, query)
	if err != nil {
		return entities.SearchOutcome{}, err
	}

	outcome := entities.SearchOutcome{
		Query:       query,
		Results:     results,
		Suggestions: []string{},
	}

	switch {
	case len(results) == 1 && fold.Equal(results[0].Name, query):
		outcome.Kind = entities.OutcomeExactSingle
	case len(results) > 0:
		outcome.Kind = entities.OutcomeMatched
	default:
		outcome.Kind = entities.OutcomeNoMatch
		outcome.Suggestions = s.suggester.Suggest(query)
		metrics.SearchSuggestions.Observe(float64(len(outcome.Suggestions)))
		logging.Debug("No match, suggesting close names", "query", query, "suggestions", outcome.Suggestions)
	}

	metrics.SearchOutcomes.WithLabelValues(string(outcome.Kind)).Inc()
	return outcome, nil
}

// Autocomplete returns the names of the first limit matches, or the
// suggestions for term when nothing matches.
func (s *Service) Autocomplete(ctx context.Context, term string, limit int) ([]string, error) {
	results, err := s.matcher.FindMatches(ctx, term)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		suggestions := s.suggester.Suggest(term)
		metrics.SearchOutcomes.WithLabelValues(string(entities.OutcomeNoMatch)).Inc()
		metrics.SearchSuggestions.Observe(float64(len(suggestions)))
		return suggestions, nil
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	names := make([]string, len(results))
	for i := range results {
		names[i] = results[i].Name
	}
	metrics.SearchOutcomes.WithLabelValues(string(entities.OutcomeMatched)).Inc()
	return names, nil
}
