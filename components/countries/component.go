package countries

import (
	"context"
	"net/http"
)

// Component bundles a loader with the handlers that serve its options.
type Component struct {
	opts   Options
	loader *Loader
}

// New constructs a component whose handlers read from a fresh loader,
// unless a Source or fixed list was supplied.
func New(fns ...OptionFn) *Component {
	opts := NewOptions(fns...)
	c := &Component{opts: opts}
	if opts.Source == nil && opts.Countries == nil {
		c.loader = NewLoader(func(o *Options) { *o = opts })
		c.opts.Source = c.loader
	}
	return c
}

// Options returns a copy of the component configuration.
func (c *Component) Options() Options {
	if c == nil {
		return DefaultOptions()
	}
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Loader returns the component's loader, or nil when it serves an external
// source.
func (c *Component) Loader() *Loader {
	if c == nil {
		return nil
	}
	return c.loader
}

// Start issues the one-shot fetch.
func (c *Component) Start(ctx context.Context) {
	if c == nil || c.loader == nil {
		return
	}
	c.loader.Start(ctx)
}

// Close tears the loader down.
func (c *Component) Close() {
	if c == nil || c.loader == nil {
		return
	}
	c.loader.Close()
}

// Snapshot satisfies Source.
func (c *Component) Snapshot() State {
	if c == nil {
		return State{}
	}
	return c.opts.state()
}

// Handler returns the options handler.
func (c *Component) Handler() http.Handler {
	if c == nil {
		return Handler()
	}
	return HandlerWithOptions(c.opts)
}

// LookupHandler returns the dial code lookup handler.
func (c *Component) LookupHandler() http.Handler {
	if c == nil {
		return LookupHandler()
	}
	return LookupHandlerWithOptions(c.opts)
}

// RegisterRoutes registers the component handlers under basePath on mux.
func (c *Component) RegisterRoutes(mux Mux, basePath string) ([]string, error) {
	if c == nil {
		return RegisterRoutes(mux, basePath)
	}
	return RegisterRoutesWithOptions(mux, basePath, c.opts)
}
