// Package handlers provides the HTTP handlers of the OpenBNF site and API.
// This file implements the HTTPHandler interface with dependency injection
// and the shared response helpers.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/store"
)

var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// autocompleteLimit caps the names returned to the search box.
const autocompleteLimit = 10

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	store     interfaces.RecordStore
	search    interfaces.SearchService
	validator interfaces.InputValidator
	health    interfaces.HealthChecker
	pages     map[string]*template.Template
	started   time.Time
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(
	store interfaces.RecordStore,
	search interfaces.SearchService,
	validator interfaces.InputValidator,
	health interfaces.HealthChecker,
) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		store:     store,
		search:    search,
		validator: validator,
		health:    health,
		pages:     mustParsePages(),
		started:   time.Now(),
	}
}

// RespondWithJSON writes a JSON response
func (h *HTTPHandlerImpl) RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func (h *HTTPHandlerImpl) RespondWithError(w http.ResponseWriter, code int, message string) {
	errorResponse := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	h.RespondWithJSON(w, code, errorResponse)
}

// RespondWithJSONP writes payload as JSON, or wrapped in the callback named by
// the callback query parameter. Invalid callback names are rejected before
// anything is written.
func (h *HTTPHandlerImpl) RespondWithJSONP(w http.ResponseWriter, r *http.Request, code int, payload any) {
	callback := r.URL.Query().Get("callback")
	if callback == "" {
		h.RespondWithJSON(w, code, payload)
		return
	}

	if err := h.validator.ValidateCallback(callback); err != nil {
		logging.Warn("Invalid JSONP callback", "callback", callback, "error", err)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSONP response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/javascript; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, "%s(%s)", callback, data)
}

// storeFailure answers a failed store call: 404 for a missing record, 500 otherwise.
func (h *HTTPHandlerImpl) storeFailure(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	if errors.Is(err, store.ErrNotFound) {
		h.RespondWithError(w, http.StatusNotFound, notFound)
		return
	}
	logging.Error("Record store request failed", "path", r.URL.Path, "error", err)
	h.RespondWithError(w, http.StatusInternalServerError, "The drug database is unavailable")
}

// queryParam returns a required query parameter. It distinguishes an absent
// parameter from an empty one, which matches every record.
func queryParam(r *http.Request, name string) (string, bool) {
	q := r.URL.Query()
	if !q.Has(name) {
		return "", false
	}
	return q.Get(name), true
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
