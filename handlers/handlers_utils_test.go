package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/interfaces"
	"github.com/giygas/openbnf/search"
	"github.com/giygas/openbnf/store"
	"github.com/giygas/openbnf/validation"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// ============================================================================
// TEST DATA
// ============================================================================

func testDrugs() []entities.Drug {
	return []entities.Drug{
		{
			Name:              "Aspirin",
			FName:             "aspirin.htm",
			Breadcrumbs:       []string{"4 Central nervous system", "4.7 Analgesics"},
			Indications:       "mild to moderate pain, pyrexia",
			Doses:             "300-900 mg every 4-6 hours\n\nMax. 4 g daily",
			SideEffects:       "gastro-intestinal irritation",
			HepaticImpairment: "avoid in severe impairment",
			Extra:             map[string]any{"cautions": "asthma"},
		},
		{
			Name:        "Paracetamol",
			Indications: "mild to moderate pain",
			Doses:       "0.5-1 g every 4-6 hours",
		},
		{
			Name:            "Ibuprofen",
			Doses:           "200-400 mg 3 times daily",
			SideEffects:     "gastro-intestinal disturbances",
			RenalImpairment: "use the lowest effective dose",
		},
		{
			Name:  "Co-codamol 8/500",
			Doses: "2 tablets every 4 hours",
		},
	}
}

func testCodes() []entities.CodeMapping {
	return []entities.CodeMapping{
		{Code: "0407010H0", Name: "Paracetamol"},
		{Code: "0407010B0", Name: "Aspirin"},
		{Code: "9999", Name: "Withdrawn drug"},
	}
}

// ============================================================================
// MOCKS
// ============================================================================

type mockHealthChecker struct {
	status     string
	data       map[string]any
	httpStatus int
}

func (m *mockHealthChecker) HealthCheck(ctx context.Context) (string, map[string]any, int) {
	return m.status, m.data, m.httpStatus
}

var errStoreDown = errors.New("store unavailable")

// downStore fails every lookup.
type downStore struct {
	*store.MemoryStore
}

func (downStore) FindByNameSubstring(ctx context.Context, term string) ([]entities.Drug, error) {
	return nil, errStoreDown
}

func (downStore) FindOneByExactName(ctx context.Context, name string) (*entities.Drug, error) {
	return nil, errStoreDown
}

func (downStore) FindByFieldSubstring(ctx context.Context, field, term string) ([]entities.Drug, error) {
	return nil, errStoreDown
}

func (downStore) FindOneByCode(ctx context.Context, code string) (*entities.CodeMapping, error) {
	return nil, errStoreDown
}

// ============================================================================
// BUILDERS
// ============================================================================

func newTestHandler(t testing.TB) *HTTPHandlerImpl {
	t.Helper()
	st := store.NewMemoryStore(testDrugs(), testCodes())
	return newHandlerOver(t, st)
}

func newDownHandler(t testing.TB) *HTTPHandlerImpl {
	t.Helper()
	return newHandlerOver(t, downStore{store.NewMemoryStore(testDrugs(), nil)})
}

func newHandlerOver(t testing.TB, st interfaces.RecordStore) *HTTPHandlerImpl {
	t.Helper()
	ix := search.NewNameIndex(namesOf(testDrugs()))
	svc := search.NewService(st, ix, search.Options{})
	health := &mockHealthChecker{status: "healthy", data: map[string]any{"name_index_size": ix.Len()}, httpStatus: http.StatusOK}
	return NewHTTPHandler(st, svc, validation.NewDataValidator(), health)
}

func namesOf(drugs []entities.Drug) []string {
	names := make([]string, len(drugs))
	for i, d := range drugs {
		names[i] = d.Name
	}
	return names
}

// newTestRouter mounts the handler the way the server does.
func newTestRouter(h *HTTPHandlerImpl) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.StripSlashes)
	r.NotFound(h.NotFound)
	r.Get("/", h.Index)
	r.Get("/about", h.About)
	r.Get("/api/v2/doc", h.APIDoc)
	r.Get("/search", h.Search)
	r.Post("/search", h.Search)
	r.Get("/result/*", h.Result)
	r.Handle("/static/*", h.Static())
	r.Get("/ajaxsearch", h.AjaxSearch)
	r.Get("/api", h.DrugsV1)
	r.Get("/api/v2/drug", h.DrugsV2)
	r.Get("/api/v2/drug/{code}", h.DrugByCodeV2)
	r.Get("/api/v2/indication", h.IndicationsV2)
	r.Get("/api/v2/sideeffects", h.SideEffectsV2)
	r.Get("/api/v2/openbnf", h.APIResourceListing)
	for _, resource := range []string{"drug", "indication", "sideeffects"} {
		r.Get("/api/v2/openbnf/"+resource, h.APIDeclaration(resource))
	}
	r.Get("/health", h.HealthCheck)
	return r
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func postForm(t *testing.T, h http.Handler, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeNames(t *testing.T, body []byte) []string {
	t.Helper()
	var docs []map[string]any
	if err := json.Unmarshal(body, &docs); err != nil {
		t.Fatalf("Failed to decode records: %v (%s)", err, body)
	}
	names := make([]string, len(docs))
	for i, d := range docs {
		names[i], _ = d["name"].(string)
	}
	return names
}

func decodeError(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var e map[string]any
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("Failed to decode error: %v (%s)", err, body)
	}
	return e
}

func newGet(target string) *http.Request {
	return httptest.NewRequest(http.MethodGet, target, nil)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}
