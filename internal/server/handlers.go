package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
)

// maxFormBytes caps the urlencoded body read by submit and validate.
const maxFormBytes = 64 << 10

func (s *Server) newForm(values *registration.Values) (*registration.Form, error) {
	opts := []registration.FormOption{
		registration.WithValidator(s.validator),
		registration.WithCountryState(s.countries.Snapshot()),
		registration.WithSubmitFunc(s.submit),
	}
	if values != nil {
		opts = append(opts, registration.WithValues(*values))
	}
	return registration.NewForm(opts...)
}

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	form, err := s.newForm(nil)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	s.renderPage(w, r, http.StatusOK, render.Page{Form: form})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	values := registration.ValuesFromForm(r.PostForm)
	form, err := s.newForm(&values)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	confirmation, err := form.Submit(r.Context())
	if err != nil {
		var invalid *registration.ValidationError
		if errors.As(err, &invalid) {
			s.logger.DebugContext(r.Context(), "submission rejected", "fields", len(invalid.Errors))
			s.renderPage(w, r, http.StatusUnprocessableEntity, render.Page{Form: form})
			return
		}
		s.internalError(w, r, err)
		return
	}

	s.renderPage(w, r, http.StatusOK, render.Page{Form: form, Confirmation: &confirmation})
}

type validateResponse struct {
	Field   string `json:"field"`
	Error   string `json:"error"`
	Touched bool   `json:"touched"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	field, ok := registration.ParseField(r.URL.Query().Get("field"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown field"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid form body"})
		return
	}

	values := registration.ValuesFromForm(r.PostForm)
	msg := s.validator.ValidateField(field, values, s.countries.Snapshot().Countries)
	writeJSON(w, http.StatusOK, validateResponse{Field: string(field), Error: msg, Touched: true})
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, page render.Page) {
	body, err := s.renderer.Render(r.Context(), page)
	if err != nil {
		s.internalError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", s.renderer.ContentType())
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write(body)
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.ErrorContext(r.Context(), "request failed", "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
