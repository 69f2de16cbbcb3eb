package countries

import (
	"log/slog"
	"net/http"
	"time"
)

// DefaultEndpoint is the public countries API queried by the loader. The
// fields filter keeps the payload to the attributes the form needs.
const DefaultEndpoint = "https://restcountries.com/v3.1/all?fields=name,cca2,flags,idd"

type EmptySearchMode string

const (
	EmptySearchNone EmptySearchMode = "none"
	EmptySearchTop  EmptySearchMode = "top"
)

type GuardFunc func(r *http.Request) error

// Source provides the current country options. *Loader satisfies it.
type Source interface {
	Snapshot() State
}

type Options struct {
	RoutePath       string
	LookupPath      string
	SearchParam     string
	LimitParam      string
	CountryParam    string
	DefaultLimit    int
	MaxLimit        int
	EmptySearchMode EmptySearchMode
	Guard           GuardFunc

	Endpoint   string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger

	Source    Source
	Countries []Country
}

type OptionFn func(*Options)

func DefaultOptions() Options {
	return Options{
		RoutePath:       "/api/countries",
		LookupPath:      "/api/countries/lookup",
		SearchParam:     "q",
		LimitParam:      "limit",
		CountryParam:    "country",
		DefaultLimit:    300,
		MaxLimit:        300,
		EmptySearchMode: EmptySearchTop,
		Endpoint:        DefaultEndpoint,
		Timeout:         10 * time.Second,
	}
}

func NewOptions(fns ...OptionFn) Options {
	opts := DefaultOptions()
	for _, fn := range fns {
		if fn == nil {
			continue
		}
		fn(&opts)
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 300
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 300
	}
	if opts.EmptySearchMode == "" {
		opts.EmptySearchMode = EmptySearchTop
	}
	if opts.RoutePath == "" {
		opts.RoutePath = "/api/countries"
	}
	if opts.LookupPath == "" {
		opts.LookupPath = "/api/countries/lookup"
	}
	if opts.SearchParam == "" {
		opts.SearchParam = "q"
	}
	if opts.LimitParam == "" {
		opts.LimitParam = "limit"
	}
	if opts.CountryParam == "" {
		opts.CountryParam = "country"
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Countries != nil {
		opts.Countries = append([]Country{}, opts.Countries...)
	}
	return opts
}

func WithRoutePath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.RoutePath = path
	}
}

func WithLookupPath(path string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LookupPath = path
	}
}

func WithSearchParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.SearchParam = name
	}
}

func WithLimitParam(name string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.LimitParam = name
	}
}

func WithDefaultLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.DefaultLimit = limit
	}
}

func WithMaxLimit(limit int) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.MaxLimit = limit
	}
}

func WithEmptySearchMode(mode EmptySearchMode) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.EmptySearchMode = mode
	}
}

func WithGuard(guard GuardFunc) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Guard = guard
	}
}

// WithEndpoint overrides the URL the loader fetches.
func WithEndpoint(endpoint string) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Endpoint = endpoint
	}
}

// WithTimeout bounds the single fetch issued by the loader.
func WithTimeout(timeout time.Duration) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Timeout = timeout
	}
}

func WithHTTPClient(client *http.Client) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.HTTPClient = client
	}
}

func WithLogger(logger *slog.Logger) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Logger = logger
	}
}

// WithSource makes handlers read options from src on every request.
func WithSource(src Source) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		o.Source = src
	}
}

// WithCountries serves a fixed list instead of a Source.
func WithCountries(list []Country) OptionFn {
	return func(o *Options) {
		if o == nil {
			return
		}
		if list == nil {
			o.Countries = nil
			return
		}
		o.Countries = append([]Country{}, list...)
	}
}

func clampLimit(limit int, opts Options) int {
	if limit < 0 {
		return 0
	}
	if limit == 0 {
		limit = opts.DefaultLimit
	}
	if opts.MaxLimit > 0 && limit > opts.MaxLimit {
		return opts.MaxLimit
	}
	return limit
}

// state resolves the options a handler should serve right now.
func (o Options) state() State {
	if o.Source != nil {
		return o.Source.Snapshot()
	}
	return State{Countries: append([]Country{}, o.Countries...)}
}
