package handlers

import (
	"net/http"
	"strings"

	"github.com/giygas/openbnf/logging"
	"github.com/go-chi/chi/v5"
)

// AjaxSearch feeds the search box: up to ten matching names, or the close
// names when nothing matches. The answer is always a JSON array of strings.
func (h *HTTPHandlerImpl) AjaxSearch(w http.ResponseWriter, r *http.Request) {
	term, ok := queryParam(r, "term")
	if !ok {
		h.RespondWithError(w, http.StatusBadRequest, "Missing term parameter")
		return
	}
	term = strings.ReplaceAll(term, "+", " ")

	if err := h.validator.ValidateTerm(term); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	names, err := h.search.Autocomplete(r.Context(), term, autocompleteLimit)
	if err != nil {
		h.storeFailure(w, r, err, "")
		return
	}
	h.RespondWithJSON(w, http.StatusOK, names)
}

// DrugsV1 serves /api/?drug=
func (h *HTTPHandlerImpl) DrugsV1(w http.ResponseWriter, r *http.Request) {
	h.serveMatches(w, r, "drug")
}

// DrugsV2 serves /api/v2/drug?name=
func (h *HTTPHandlerImpl) DrugsV2(w http.ResponseWriter, r *http.Request) {
	h.serveMatches(w, r, "name")
}

func (h *HTTPHandlerImpl) serveMatches(w http.ResponseWriter, r *http.Request, param string) {
	term, ok := queryParam(r, param)
	if !ok {
		h.RespondWithError(w, http.StatusBadRequest, "Missing "+param+" parameter")
		return
	}

	if err := h.validator.ValidateTerm(term); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	drugs, err := h.search.FindMatches(r.Context(), term)
	if err != nil {
		h.storeFailure(w, r, err, "")
		return
	}
	h.RespondWithJSONP(w, r, http.StatusOK, drugs)
}

// DrugByCodeV2 resolves a BNF code to its drug record.
func (h *HTTPHandlerImpl) DrugByCodeV2(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if err := h.validator.ValidateCode(code); err != nil {
		logging.Warn("Unusual user input", "code", code)
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	mapping, err := h.store.FindOneByCode(r.Context(), code)
	if err != nil {
		h.storeFailure(w, r, err, "No drug for code "+code)
		return
	}

	drug, err := h.store.FindOneByExactName(r.Context(), mapping.Name)
	if err != nil {
		h.storeFailure(w, r, err, "No drug for code "+code)
		return
	}

	h.RespondWithJSONP(w, r, http.StatusOK, drug)
}

// IndicationsV2 serves /api/v2/indication?indication=
func (h *HTTPHandlerImpl) IndicationsV2(w http.ResponseWriter, r *http.Request) {
	h.serveFieldMatches(w, r, "indication", "indications")
}

// SideEffectsV2 serves /api/v2/sideeffects?sideeffects=
func (h *HTTPHandlerImpl) SideEffectsV2(w http.ResponseWriter, r *http.Request) {
	h.serveFieldMatches(w, r, "sideeffects", "side-effects")
}

// serveFieldMatches answers 404 when no record mentions the term.
func (h *HTTPHandlerImpl) serveFieldMatches(w http.ResponseWriter, r *http.Request, param, field string) {
	term, ok := queryParam(r, param)
	if !ok {
		h.RespondWithError(w, http.StatusBadRequest, "Missing "+param+" parameter")
		return
	}

	if err := h.validator.ValidateTerm(term); err != nil {
		h.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	drugs, err := h.store.FindByFieldSubstring(r.Context(), field, term)
	if err != nil {
		h.storeFailure(w, r, err, "")
		return
	}
	if len(drugs) == 0 {
		h.RespondWithError(w, http.StatusNotFound, "No drugs with "+field+" matching "+term)
		return
	}

	h.RespondWithJSONP(w, r, http.StatusOK, drugs)
}
