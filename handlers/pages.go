package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/giygas/openbnf/entities"
	"github.com/giygas/openbnf/logging"
	"github.com/giygas/openbnf/store"
)

type searchPage struct {
	Query       string
	Results     []entities.Drug
	Suggestions []string
}

type resultPage struct {
	Drug        *entities.Drug
	Sections    []entities.Section
	Impairments []entities.Section
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

// render executes a page into a buffer first so a template error still
// produces a clean 500.
func (h *HTTPHandlerImpl) render(w http.ResponseWriter, code int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		logging.Error("Failed to render page", "page", page, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func (h *HTTPHandlerImpl) renderError(w http.ResponseWriter, code int, message string) {
	h.render(w, code, "error", errorPage{Status: code, Title: http.StatusText(code), Message: message})
}

func (h *HTTPHandlerImpl) Index(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "index", nil)
}

func (h *HTTPHandlerImpl) About(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "about", nil)
}

func (h *HTTPHandlerImpl) APIDoc(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "apidoc", nil)
}

// NotFound renders the HTML 404 page for unknown routes.
func (h *HTTPHandlerImpl) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, http.StatusNotFound, "There is nothing at "+r.URL.Path)
}

// Search runs a query from the search form. A query naming exactly one drug
// redirects to its result page; anything else renders the results, or the
// suggestions when nothing matched.
func (h *HTTPHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	var query string
	if r.Method == http.MethodPost {
		query = r.PostFormValue("q")
	} else {
		query = r.URL.Query().Get("q")
	}

	if err := h.validator.ValidateTerm(query); err != nil {
		h.renderError(w, http.StatusBadRequest, err.Error())
		return
	}

	outcome, err := h.search.Search(r.Context(), query)
	if err != nil {
		logging.Error("Search failed", "query", query, "error", err)
		h.renderError(w, http.StatusInternalServerError, "The drug database is unavailable, please try again later.")
		return
	}

	if outcome.Kind == entities.OutcomeExactSingle {
		http.Redirect(w, r, resultURL(outcome.Results[0].Name), http.StatusFound)
		return
	}

	h.render(w, http.StatusOK, "search", searchPage{
		Query:       outcome.Query,
		Results:     outcome.Results,
		Suggestions: outcome.Suggestions,
	})
}

// Result renders one drug, looked up by its exact name.
func (h *HTTPHandlerImpl) Result(w http.ResponseWriter, r *http.Request) {
	name := resultName(r)

	drug, err := h.store.FindOneByExactName(r.Context(), name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			h.renderError(w, http.StatusNotFound, "No drug is called "+name+".")
			return
		}
		logging.Error("Result lookup failed", "name", name, "error", err)
		h.renderError(w, http.StatusInternalServerError, "The drug database is unavailable, please try again later.")
		return
	}

	h.render(w, http.StatusOK, "result", resultPage{
		Drug: drug,
		Sections: drug.Sections(func(f entities.FieldSpec) bool {
			return entities.IsResultField(f) && f.Category == entities.CategoryClinical
		}),
		Impairments: drug.Sections(entities.IsImpairment),
	})
}

// resultName reads the drug name of a /result/ path. r.URL.Path is decoded
// exactly once. A trailing slash is dropped unless it was escaped.
func resultName(r *http.Request) string {
	name := strings.TrimPrefix(r.URL.Path, "/result/")
	if strings.HasSuffix(r.URL.EscapedPath(), "/") {
		name = strings.TrimSuffix(name, "/")
	}
	return name
}

// Static serves the embedded stylesheet and scripts under /static/.
func (h *HTTPHandlerImpl) Static() http.Handler {
	return http.StripPrefix("/static/", http.FileServer(http.FS(staticFiles())))
}
