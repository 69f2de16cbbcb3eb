package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/goliatone/go-regform/components/countries"
	"github.com/goliatone/go-regform/pkg/registration"
)

var sampleCountries = []countries.Country{
	{Name: "Peru", Code: "PE", Flag: "https://flagcdn.com/pe.svg", DialCode: "+51"},
	{Name: "United States", Code: "US", Flag: "https://flagcdn.com/us.svg", DialCode: "+1201"},
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestServer(t *testing.T, component *countries.Component, opts ...Option) *Server {
	t.Helper()
	base := []Option{WithLogger(discardLogger()), WithVersion("test")}
	srv, err := New(context.Background(), component, append(base, opts...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func validForm() url.Values {
	return url.Values{
		"name":    {"Ada"},
		"email":   {"ada@example.com"},
		"age":     {"18"},
		"gender":  {"Female"},
		"hobbies": {"Reading", "Gaming"},
		"country": {"Peru"},
		"phone":   {"1234567890"},
	}
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, target, body)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServer_FormPage(t *testing.T) {
	srv := newTestServer(t, countries.New(countries.WithCountries(sampleCountries)))

	rec := do(t, srv.Handler(), http.MethodGet, "/", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{"Select Country", `<option value="Peru">Peru (PE)</option>`, `data-validate-url="/api/validate"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page", want)
		}
	}
	if strings.Contains(body, registration.ErrorClass) {
		t.Fatalf("fresh page must not mark errors")
	}
}

func TestServer_SubmitInvalid(t *testing.T) {
	var submitted []registration.Submission
	srv := newTestServer(t, countries.New(countries.WithCountries(sampleCountries)),
		WithSubmitFunc(func(_ context.Context, sub registration.Submission) {
			submitted = append(submitted, sub)
		}))

	form := validForm()
	form.Set("age", "17")
	form.Set("phone", "12345abc")
	rec := do(t, srv.Handler(), http.MethodPost, "/", form)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"You must be at least 18 years old",
		"Phone must contain only digits",
		`value="17" class="input-error"`,
		`value="Ada" class=""`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in page:\n%s", want, body)
		}
	}
	if len(submitted) != 0 {
		t.Fatalf("invalid form must not be submitted")
	}
}

func TestServer_SubmitValid(t *testing.T) {
	var submitted []registration.Submission
	srv := newTestServer(t, countries.New(countries.WithCountries(sampleCountries)),
		WithSubmitFunc(func(_ context.Context, sub registration.Submission) {
			submitted = append(submitted, sub)
		}))

	rec := do(t, srv.Handler(), http.MethodPost, "/", validForm())
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, registration.ConfirmationMessage) {
		t.Fatalf("expected confirmation in page")
	}
	if strings.Contains(body, `value="Ada"`) {
		t.Fatalf("expected values discarded after submit")
	}

	if len(submitted) != 1 {
		t.Fatalf("expected one submission, got %d", len(submitted))
	}
	want := registration.Values{
		Name:    "Ada",
		Email:   "ada@example.com",
		Age:     "18",
		Gender:  "Female",
		Hobbies: []string{"Reading", "Gaming"},
		Country: "Peru",
		Phone:   "1234567890",
	}
	if diff := cmp.Diff(want, submitted[0].Values); diff != "" {
		t.Fatalf("submitted values mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_SubmitWithoutCountriesAfterFetchFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer upstream.Close()

	component := countries.New(
		countries.WithEndpoint(upstream.URL),
		countries.WithLogger(discardLogger()),
	)
	ctx := context.Background()
	component.Start(ctx)
	if err := component.Loader().Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	defer component.Close()

	var submitted int
	srv := newTestServer(t, component, WithSubmitFunc(func(context.Context, registration.Submission) {
		submitted++
	}))

	page := do(t, srv.Handler(), http.MethodGet, "/", nil).Body.String()
	if !strings.Contains(page, `<option value="">Select Country</option>`) || strings.Contains(page, "Peru") {
		t.Fatalf("expected placeholder-only select:\n%s", page)
	}

	form := validForm()
	form.Del("country")
	rec := do(t, srv.Handler(), http.MethodPost, "/", form)
	if rec.Code != http.StatusOK || submitted != 1 {
		t.Fatalf("expected submission without country, status %d submitted %d", rec.Code, submitted)
	}
}

func TestServer_ValidateField(t *testing.T) {
	srv := newTestServer(t, countries.New(countries.WithCountries(sampleCountries)))

	form := validForm()
	form.Set("phone", "123456789")
	rec := do(t, srv.Handler(), http.MethodPost, "/api/validate?field=phone", form)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var got validateResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := validateResponse{Field: "phone", Error: "Phone must be at least 10 digits", Touched: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}

	form.Set("country", "Atlantis")
	rec = do(t, srv.Handler(), http.MethodPost, "/api/validate?field=country", form)
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Error != "Select a country from the list" {
		t.Fatalf("unexpected country message %q", got.Error)
	}

	rec = do(t, srv.Handler(), http.MethodPost, "/api/validate?field=nickname", form)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestServer_CountryEndpoints(t *testing.T) {
	srv := newTestServer(t, countries.New(countries.WithCountries(sampleCountries)))

	rec := do(t, srv.Handler(), http.MethodGet, "/api/countries/lookup?country=United+States", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var lookup map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&lookup); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if lookup["dial_code"] != "+1201" {
		t.Fatalf("unexpected lookup %v", lookup)
	}

	rec = do(t, srv.Handler(), http.MethodGet, "/api/countries?q=pe", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Peru"`) {
		t.Fatalf("unexpected search response %d %s", rec.Code, rec.Body.String())
	}

	rec = do(t, srv.Handler(), http.MethodPost, "/api/countries", nil)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}

func TestServer_StaticRoutes(t *testing.T) {
	srv := newTestServer(t, countries.New(countries.WithCountries(sampleCountries)))

	cases := []struct {
		target      string
		contentType string
	}{
		{"/healthz", "text/plain"},
		{"/openapi.json", "application/json"},
		{"/assets/regform.css", "text/css"},
		{"/assets/regform.js", ""},
	}
	for _, tc := range cases {
		rec := do(t, srv.Handler(), http.MethodGet, tc.target, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: unexpected status %d", tc.target, rec.Code)
		}
		if tc.contentType != "" && !strings.HasPrefix(rec.Header().Get("Content-Type"), tc.contentType) {
			t.Fatalf("%s: unexpected content type %q", tc.target, rec.Header().Get("Content-Type"))
		}
	}

	if body := do(t, srv.Handler(), http.MethodGet, "/healthz", nil).Body.String(); body != "ok" {
		t.Fatalf("unexpected health body %q", body)
	}
	if rec := do(t, srv.Handler(), http.MethodDelete, "/", nil); rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 for DELETE /, got %d", rec.Code)
	}
}

func TestServer_RequestID(t *testing.T) {
	srv := newTestServer(t, countries.New(countries.WithCountries(sampleCountries)))

	rec := do(t, srv.Handler(), http.MethodGet, "/healthz", nil)
	if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
		t.Fatalf("expected generated request id, got %q", rec.Header().Get(RequestIDHeader))
	}

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, id)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	if rec.Header().Get(RequestIDHeader) != id {
		t.Fatalf("expected incoming request id echoed")
	}
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	srv := newTestServer(t, countries.New(countries.WithCountries(sampleCountries)),
		WithShutdownTimeout(time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	target := "http://" + ln.Addr().String() + "/healthz"
	var res *http.Response
	for i := 0; i < 50; i++ {
		res, err = http.Get(target)
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	res.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server did not shut down")
	}
}
