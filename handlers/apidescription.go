package handlers

import (
	"net/http"

	"github.com/giygas/openbnf/entities"
)

const (
	apiVersion     = "2.0"
	swaggerVersion = "1.2"
)

// ResourceListing is the entry document of the API description.
type ResourceListing struct {
	APIVersion     string        `json:"apiVersion"`
	SwaggerVersion string        `json:"swaggerVersion"`
	BasePath       string        `json:"basePath"`
	APIs           []ResourceRef `json:"apis"`
}

type ResourceRef struct {
	Path        string `json:"path"`
	Description string `json:"description"`
}

// APIDeclarationDoc describes the operations of one resource.
type APIDeclarationDoc struct {
	APIVersion     string           `json:"apiVersion"`
	SwaggerVersion string           `json:"swaggerVersion"`
	BasePath       string           `json:"basePath"`
	ResourcePath   string           `json:"resourcePath"`
	Produces       []string         `json:"produces"`
	APIs           []APIPath        `json:"apis"`
	Models         map[string]Model `json:"models"`
}

type APIPath struct {
	Path       string      `json:"path"`
	Operations []Operation `json:"operations"`
}

type Operation struct {
	Method           string            `json:"method"`
	Nickname         string            `json:"nickname"`
	Summary          string            `json:"summary"`
	Type             string            `json:"type"`
	Items            *ModelRef         `json:"items,omitempty"`
	Parameters       []Parameter       `json:"parameters"`
	ResponseMessages []ResponseMessage `json:"responseMessages"`
}

type ModelRef struct {
	Ref  string `json:"$ref,omitempty"`
	Type string `json:"type,omitempty"`
}

type Parameter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ParamType   string `json:"paramType"`
	Type        string `json:"type"`
	Required    bool   `json:"required"`
}

type ResponseMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type Model struct {
	ID         string              `json:"id"`
	Required   []string            `json:"required"`
	Properties map[string]Property `json:"properties"`
}

type Property struct {
	Type        string    `json:"type"`
	Description string    `json:"description,omitempty"`
	Items       *ModelRef `json:"items,omitempty"`
}

var resourceDescriptions = []ResourceRef{
	{Path: "/drug", Description: "Drugs by name or BNF code"},
	{Path: "/indication", Description: "Drugs by indication"},
	{Path: "/sideeffects", Description: "Drugs by side-effect"},
}

var callbackParam = Parameter{
	Name:        "callback",
	Description: "JSONP callback name; the answer is then application/javascript",
	ParamType:   "query",
	Type:        "string",
}

var listOfDrugs = &ModelRef{Ref: "Drug"}

// declarations builds the operations of each resource.
var declarations = map[string][]APIPath{
	"drug": {
		{
			Path: "/drug",
			Operations: []Operation{{
				Method:   http.MethodGet,
				Nickname: "drugsByName",
				Summary:  "Drugs whose name contains the term, ignoring case. | and OR combine terms",
				Type:     "array",
				Items:    listOfDrugs,
				Parameters: []Parameter{
					{Name: "name", Description: "Part of a drug name", ParamType: "query", Type: "string", Required: true},
					callbackParam,
				},
				ResponseMessages: []ResponseMessage{{Code: http.StatusBadRequest, Message: "Missing or invalid name"}},
			}},
		},
		{
			Path: "/drug/{code}",
			Operations: []Operation{{
				Method:   http.MethodGet,
				Nickname: "drugByCode",
				Summary:  "The drug filed under a BNF code",
				Type:     "Drug",
				Parameters: []Parameter{
					{Name: "code", Description: "BNF code", ParamType: "path", Type: "string", Required: true},
					callbackParam,
				},
				ResponseMessages: []ResponseMessage{
					{Code: http.StatusBadRequest, Message: "Invalid code"},
					{Code: http.StatusNotFound, Message: "Unknown code"},
				},
			}},
		},
	},
	"indication": {
		{
			Path: "/indication",
			Operations: []Operation{{
				Method:   http.MethodGet,
				Nickname: "drugsByIndication",
				Summary:  "Drugs whose indications contain the term, ignoring case",
				Type:     "array",
				Items:    listOfDrugs,
				Parameters: []Parameter{
					{Name: "indication", Description: "Part of an indication", ParamType: "query", Type: "string", Required: true},
					callbackParam,
				},
				ResponseMessages: []ResponseMessage{{Code: http.StatusNotFound, Message: "No drug has a matching indication"}},
			}},
		},
	},
	"sideeffects": {
		{
			Path: "/sideeffects",
			Operations: []Operation{{
				Method:   http.MethodGet,
				Nickname: "drugsBySideEffect",
				Summary:  "Drugs whose side-effects contain the term, ignoring case",
				Type:     "array",
				Items:    listOfDrugs,
				Parameters: []Parameter{
					{Name: "sideeffects", Description: "Part of a side-effect", ParamType: "query", Type: "string", Required: true},
					callbackParam,
				},
				ResponseMessages: []ResponseMessage{{Code: http.StatusNotFound, Message: "No drug has a matching side-effect"}},
			}},
		},
	},
}

// drugModel describes a drug record from the field schema.
func drugModel() Model {
	props := make(map[string]Property, len(entities.Schema))
	for _, f := range entities.Schema {
		p := Property{Type: "string", Description: f.Label}
		if f.Key == "breadcrumbs" {
			p = Property{Type: "array", Description: f.Label, Items: &ModelRef{Type: "string"}}
		}
		props[f.Key] = p
	}
	return Model{ID: "Drug", Required: []string{"name"}, Properties: props}
}

// baseURL is the scheme and host the request reached us on.
func baseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

// APIResourceListing serves /api/v2/openbnf
func (h *HTTPHandlerImpl) APIResourceListing(w http.ResponseWriter, r *http.Request) {
	h.RespondWithJSON(w, http.StatusOK, ResourceListing{
		APIVersion:     apiVersion,
		SwaggerVersion: swaggerVersion,
		BasePath:       baseURL(r) + "/api/v2/openbnf",
		APIs:           resourceDescriptions,
	})
}

// APIDeclaration serves /api/v2/openbnf/{resource}
func (h *HTTPHandlerImpl) APIDeclaration(resource string) http.HandlerFunc {
	apis, ok := declarations[resource]
	return func(w http.ResponseWriter, r *http.Request) {
		if !ok {
			h.RespondWithError(w, http.StatusNotFound, "Unknown API resource "+resource)
			return
		}
		h.RespondWithJSON(w, http.StatusOK, APIDeclarationDoc{
			APIVersion:     apiVersion,
			SwaggerVersion: swaggerVersion,
			BasePath:       baseURL(r) + "/api/v2",
			ResourcePath:   "/" + resource,
			Produces:       []string{"application/json", "application/javascript"},
			APIs:           apis,
			Models:         map[string]Model{"Drug": drugModel()},
		})
	}
}
