// Package interfaces defines core abstractions for the OpenBNF API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/openbnf/entities"
)

// RecordStore defines the contract for the read side of the drug record store.
// Implementations must be safe for concurrent use.
type RecordStore interface {
	// FindAll returns every drug record, used to build the name index
	FindAll(ctx context.Context) ([]entities.Drug, error)

	// FindByNameSubstring returns records whose name contains term, ignoring case
	// under simple case folding ("K" matches the Kelvin sign, "ß" never matches
	// "SS"). An empty term matches every record.
	FindByNameSubstring(ctx context.Context, term string) ([]entities.Drug, error)

	// FindOneByExactName returns the record with exactly this name
	FindOneByExactName(ctx context.Context, name string) (*entities.Drug, error)

	// FindByFieldSubstring searches a searchable free-text field, ignoring case
	FindByFieldSubstring(ctx context.Context, field, term string) ([]entities.Drug, error)

	// FindOneByCode resolves a BNF code to its mapping
	FindOneByCode(ctx context.Context, code string) (*entities.CodeMapping, error)

	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// NameIndexInfo exposes the bookkeeping of the startup name index.
type NameIndexInfo interface {
	Len() int
	BuiltAt() time.Time
}

// SearchService defines the search and fuzzy fallback operations.
type SearchService interface {
	// Search runs the matcher and falls back to suggestions when nothing matches
	Search(ctx context.Context, query string) (entities.SearchOutcome, error)

	// FindMatches splits the term on OR separators and concatenates the matches
	FindMatches(ctx context.Context, term string) ([]entities.Drug, error)

	// Suggest returns close names for a term that matched nothing
	Suggest(term string) []string

	// Autocomplete returns up to limit matching names, or suggestions when none match
	Autocomplete(ctx context.Context, term string, limit int) ([]string, error)
}

// Scheduler defines the contract for background jobs.
type Scheduler interface {
	// Lifecycle management
	Start() error
	Stop()
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	// HealthCheck returns the status, its details and the HTTP status to answer with
	HealthCheck(ctx context.Context) (status string, details map[string]any, httpStatus int)
}

// InputValidator defines the contract for user input validation.
type InputValidator interface {
	ValidateTerm(term string) error
	ValidateCode(code string) error
	ValidateCallback(callback string) error
}

// DataValidator checks drug documents and code mappings before they are served
// or imported.
type DataValidator interface {
	ValidateDrug(d *entities.Drug) error
	ReportDataQuality(drugs []entities.Drug, codes []entities.CodeMapping) *DataQualityReport
}

// DataQualityReport summarises problems found in a data set. Lists hold at
// most the first 10 offending names or codes.
type DataQualityReport struct {
	DuplicateNames         []string `json:"duplicate_names"`
	DuplicateCodes         []string `json:"duplicate_codes"`
	DrugsWithoutDoses      int      `json:"drugs_without_doses"`
	DrugsWithoutDosesNames []string `json:"drugs_without_doses_names"`
	DanglingCodes          int      `json:"dangling_codes"`
	DanglingCodesList      []string `json:"dangling_codes_list"`
}

// HTTPHandler defines the contract for HTTP request handlers.
type HTTPHandler interface {
	// HTML pages
	Index(w http.ResponseWriter, r *http.Request)
	About(w http.ResponseWriter, r *http.Request)
	APIDoc(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	Result(w http.ResponseWriter, r *http.Request)
	NotFound(w http.ResponseWriter, r *http.Request)
	Static() http.Handler

	// JSON API
	AjaxSearch(w http.ResponseWriter, r *http.Request)
	DrugsV1(w http.ResponseWriter, r *http.Request)
	DrugsV2(w http.ResponseWriter, r *http.Request)
	DrugByCodeV2(w http.ResponseWriter, r *http.Request)
	IndicationsV2(w http.ResponseWriter, r *http.Request)
	SideEffectsV2(w http.ResponseWriter, r *http.Request)

	// API self-description
	APIResourceListing(w http.ResponseWriter, r *http.Request)
	APIDeclaration(resource string) http.HandlerFunc

	// This will stay in all versions
	HealthCheck(w http.ResponseWriter, r *http.Request)
}
