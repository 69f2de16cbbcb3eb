// Package server exposes the registration form over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/goliatone/go-regform/components/countries"
	"github.com/goliatone/go-regform/internal/apidoc"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

const (
	ValidatePath = "/api/validate"
	OpenAPIPath  = "/openapi.json"
	HealthPath   = "/healthz"
	AssetsPrefix = "/assets/"
)

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithReadTimeout bounds reading a request.
func WithReadTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.readTimeout = d
		}
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRenderer replaces the page renderer.
func WithRenderer(r render.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

// WithValidator shares a compiled validator.
func WithValidator(v *registration.Validator) Option {
	return func(s *Server) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithSubmitFunc receives accepted submissions. Defaults to logging them.
func WithSubmitFunc(fn registration.SubmitFunc) Option {
	return func(s *Server) {
		if fn != nil {
			s.submit = fn
		}
	}
}

// WithVersion is reported in the OpenAPI document.
func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// Server serves the form page, the country endpoints, field validation and
// the embedded assets.
type Server struct {
	countries *countries.Component
	renderer  render.Renderer
	validator *registration.Validator
	submit    registration.SubmitFunc
	logger    *slog.Logger
	version   string

	addr            string
	readTimeout     time.Duration
	shutdownTimeout time.Duration

	handler http.Handler
}

// New wires the router. The component's loader is started by Run, or by the
// caller when only Handler is used.
func New(ctx context.Context, component *countries.Component, opts ...Option) (*Server, error) {
	if component == nil {
		return nil, errors.New("server: countries component is required")
	}

	s := &Server{
		countries:       component,
		logger:          slog.Default(),
		addr:            ":8080",
		readTimeout:     10 * time.Second,
		shutdownTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.renderer == nil {
		renderer, err := vanilla.New()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}
	if s.validator == nil {
		v, err := registration.NewValidator()
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.validator = v
	}
	if s.submit == nil {
		s.submit = registration.LogSubmitter(s.logger)
	}

	router, err := s.routes(ctx)
	if err != nil {
		return nil, err
	}
	s.handler = requestData(s.logger, router)
	return s, nil
}

// Handler returns the root handler with request middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes(ctx context.Context) (*mux.Router, error) {
	r := mux.NewRouter()

	r.HandleFunc("/", s.handleForm).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/", s.handleSubmit).Methods(http.MethodPost)
	r.HandleFunc(ValidatePath, s.handleValidate).Methods(http.MethodPost)
	r.HandleFunc(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet, http.MethodHead)

	// The country handlers answer 405 themselves, so they take every method.
	paths, err := s.countries.RegisterRoutes(countries.MuxFunc(func(pattern string, h http.Handler) {
		r.Handle(pattern, h)
	}), "")
	if err != nil {
		return nil, fmt.Errorf("server: register country routes: %w", err)
	}

	doc, err := apidoc.New(ctx, s.version, apidoc.Paths{
		Countries: paths[0],
		Lookup:    paths[1],
		Validate:  ValidatePath,
		Health:    HealthPath,
	})
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	docHandler, err := apidoc.Handler(doc)
	if err != nil {
		return nil, fmt.Errorf("server: %w", err)
	}
	r.Handle(OpenAPIPath, docHandler)

	assets := http.StripPrefix(AssetsPrefix, http.FileServer(http.FS(vanilla.AssetsFS())))
	r.PathPrefix(AssetsPrefix).Handler(assets).Methods(http.MethodGet, http.MethodHead)

	return r, nil
}

// Run starts the country fetch, serves on the configured address and shuts
// down gracefully when ctx ends.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.countries.Start(ctx)
	defer s.countries.Close()

	httpServer := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: s.readTimeout,
		ReadTimeout:       s.readTimeout,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	s.logger.InfoContext(ctx, "listening", "addr", ln.Addr().String())

	errChan := make(chan error, 1)
	go func() {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err, ok := <-errChan:
		if ok {
			return fmt.Errorf("server: serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.shutdownTimeout)
	defer cancel()

	s.logger.InfoContext(ctx, "shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
