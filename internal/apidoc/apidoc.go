// Package apidoc describes the JSON endpoints of the registration server as
// an OpenAPI 3 document.
package apidoc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-regform/pkg/registration"
)

// Paths locates the documented routes.
type Paths struct {
	Countries string
	Lookup    string
	Validate  string
	Health    string
}

// DefaultPaths match the routes mounted by the HTTP server.
func DefaultPaths() Paths {
	return Paths{
		Countries: "/api/countries",
		Lookup:    "/api/countries/lookup",
		Validate:  "/api/validate",
		Health:    "/healthz",
	}
}

// New builds and validates the document.
func New(ctx context.Context, version string, paths Paths) (*openapi3.T, error) {
	if version == "" {
		version = "dev"
	}
	defaults := DefaultPaths()
	if paths.Countries == "" {
		paths.Countries = defaults.Countries
	}
	if paths.Lookup == "" {
		paths.Lookup = defaults.Lookup
	}
	if paths.Validate == "" {
		paths.Validate = defaults.Validate
	}
	if paths.Health == "" {
		paths.Health = defaults.Health
	}

	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       "regform",
			Description: "Country lookup and field validation for the registration form.",
			Version:     version,
		},
		Paths: openapi3.NewPaths(),
	}

	doc.AddOperation(paths.Countries, http.MethodGet, countriesOperation())
	doc.AddOperation(paths.Lookup, http.MethodGet, lookupOperation())
	doc.AddOperation(paths.Validate, http.MethodPost, validateOperation())
	doc.AddOperation(paths.Health, http.MethodGet, healthOperation())

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("apidoc: validate: %w", err)
	}
	return doc, nil
}

// Handler serves doc as JSON.
func Handler(doc *openapi3.T) (http.Handler, error) {
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("apidoc: marshal: %w", err)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(payload)
	}), nil
}

func countriesOperation() *openapi3.Operation {
	option := openapi3.NewObjectSchema().
		WithProperty("value", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema()).
		WithProperty("code", openapi3.NewStringSchema()).
		WithProperty("flag", openapi3.NewStringSchema()).
		WithProperty("dial_code", openapi3.NewStringSchema())
	body := openapi3.NewObjectSchema().
		WithProperty("data", openapi3.NewArraySchema().WithItems(option)).
		WithProperty("loading", openapi3.NewBoolSchema())

	op := openapi3.NewOperation()
	op.OperationID = "listCountries"
	op.Summary = "Search the loaded country options"
	op.Tags = []string{"countries"}
	op.AddParameter(openapi3.NewQueryParameter("q").
		WithDescription("Case-insensitive match on name or code").
		WithSchema(openapi3.NewStringSchema()))
	op.AddParameter(openapi3.NewQueryParameter("limit").
		WithSchema(openapi3.NewIntegerSchema().WithMin(1)))
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("Matching countries", body)),
	)
	return op
}

func lookupOperation() *openapi3.Operation {
	body := openapi3.NewObjectSchema().
		WithProperty("country", openapi3.NewStringSchema()).
		WithProperty("code", openapi3.NewStringSchema()).
		WithProperty("dial_code", openapi3.NewStringSchema()).
		WithProperty("flag", openapi3.NewStringSchema())

	op := openapi3.NewOperation()
	op.OperationID = "lookupCountry"
	op.Summary = "Dial code and flag for a country name"
	op.Tags = []string{"countries"}
	op.AddParameter(openapi3.NewQueryParameter("country").
		WithDescription("Exact country name; unknown names yield empty values").
		WithRequired(true).
		WithSchema(openapi3.NewStringSchema()))
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("Derived display values", body)),
	)
	return op
}

func validateOperation() *openapi3.Operation {
	fields := make([]any, 0, len(registration.Fields))
	for _, field := range registration.Fields {
		fields = append(fields, string(field))
	}

	form := openapi3.NewObjectSchema()
	for _, field := range registration.Fields {
		if field == registration.FieldHobbies {
			form.WithProperty(string(field), openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
			continue
		}
		form.WithProperty(string(field), openapi3.NewStringSchema())
	}

	body := openapi3.NewObjectSchema().
		WithProperty("field", openapi3.NewStringSchema()).
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("touched", openapi3.NewBoolSchema())

	op := openapi3.NewOperation()
	op.OperationID = "validateField"
	op.Summary = "Validate one field against the submitted form values"
	op.Tags = []string{"form"}
	op.AddParameter(openapi3.NewQueryParameter("field").
		WithRequired(true).
		WithSchema(openapi3.NewStringSchema().WithEnum(fields...)))
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithDescription("Current form values").
			WithFormDataSchema(form),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse("Message for the field, empty when valid", body)),
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Unknown field"),
		}),
	)
	return op
}

func healthOperation() *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "health"
	op.Summary = "Liveness probe"
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().
				WithDescription("Server is up").
				WithContent(openapi3.NewContentWithSchema(openapi3.NewStringSchema(), []string{"text/plain"})),
		}),
	)
	return op
}

func jsonResponse(description string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().WithDescription(description).WithJSONSchema(schema),
	}
}
