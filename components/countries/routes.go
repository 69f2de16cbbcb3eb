package countries

import (
	"fmt"
	"net/http"
	"strings"
)

// Mux is the minimal interface required to register a net/http handler.
// It is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MuxFunc adapts routers whose Handle method returns a route value, such as
// gorilla/mux, to Mux.
type MuxFunc func(pattern string, handler http.Handler)

func (f MuxFunc) Handle(pattern string, handler http.Handler) {
	f(pattern, handler)
}

// MountPath returns the full mount path for the options route under basePath.
func MountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.RoutePath)
}

// LookupMountPath returns the full mount path for the lookup route.
func LookupMountPath(basePath string, fns ...OptionFn) string {
	opts := NewOptions(fns...)
	return mountPath(basePath, opts.LookupPath)
}

// RegisterRoutes registers the options and lookup handlers under basePath.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) ([]string, error) {
	opts := NewOptions(fns...)
	return RegisterRoutesWithOptions(mux, basePath, opts)
}

// RegisterRoutesWithOptions registers both handlers using a pre-built Options value.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) ([]string, error) {
	if mux == nil {
		return nil, fmt.Errorf("countries: missing mux")
	}
	opts = NewOptions(func(o *Options) { *o = opts })

	lookup := mountPath(basePath, opts.LookupPath)
	options := mountPath(basePath, opts.RoutePath)
	if lookup == options {
		return nil, fmt.Errorf("countries: lookup path %q collides with options path", lookup)
	}

	mux.Handle(lookup, LookupHandlerWithOptions(opts))
	mux.Handle(options, HandlerWithOptions(opts))
	return []string{options, lookup}, nil
}

func mountPath(basePath, routePath string) string {
	basePath = strings.TrimSpace(basePath)
	routePath = strings.TrimSpace(routePath)

	if routePath == "" {
		routePath = "/"
	}
	if !strings.HasPrefix(routePath, "/") {
		routePath = "/" + routePath
	}

	if basePath == "" || basePath == "/" {
		return routePath
	}
	if !strings.HasPrefix(basePath, "/") {
		basePath = "/" + basePath
	}
	basePath = strings.TrimRight(basePath, "/")
	return basePath + routePath
}
