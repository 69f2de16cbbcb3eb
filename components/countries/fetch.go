package countries

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/goliatone/go-regform/components/countries"

// Fetcher retrieves the country list.
type Fetcher interface {
	Fetch(ctx context.Context) ([]Country, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]Country, error)

func (f FetcherFunc) Fetch(ctx context.Context) ([]Country, error) {
	return f(ctx)
}

// HTTPFetcher issues a single GET against Endpoint.
type HTTPFetcher struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPFetcher builds a fetcher from options, applying the fetch timeout
// to the default client.
func NewHTTPFetcher(fns ...OptionFn) *HTTPFetcher {
	opts := NewOptions(fns...)
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPFetcher{Endpoint: opts.Endpoint, Client: client}
}

func (f *HTTPFetcher) Fetch(ctx context.Context) (list []Country, err error) {
	if f == nil {
		return nil, fmt.Errorf("countries: fetcher is nil")
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, "countries.fetch",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.url", f.Endpoint)),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetAttributes(attribute.Int("countries.count", len(list)))
		}
		span.End()
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.Endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("countries: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("countries: fetch: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, StatusError{Code: res.StatusCode, Err: fmt.Errorf("countries: fetch: unexpected status %d", res.StatusCode)}
	}

	return Decode(res.Body)
}
