package entities

// OutcomeKind tells how a query was resolved.
type OutcomeKind string

const (
	// OutcomeExactSingle is a single result whose name equals the query
	OutcomeExactSingle OutcomeKind = "exact_single"
	OutcomeMatched     OutcomeKind = "matched"
	// OutcomeNoMatch carries suggestions instead of results
	OutcomeNoMatch OutcomeKind = "no_match"
)

// SearchOutcome is the result of dispatching one query.
type SearchOutcome struct {
	Query       string
	Kind        OutcomeKind
	Results     []Drug
	Suggestions []string
}
