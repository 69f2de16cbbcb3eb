package countries

import (
	"context"
	"log/slog"
	"sync"
)

// State is a copy of the loader's observable state.
type State struct {
	Countries []Country `json:"countries"`
	Loading   bool      `json:"loading"`
}

// Lookup returns the country whose Name matches name in the snapshot.
func (s State) Lookup(name string) (Country, bool) {
	return Find(s.Countries, name)
}

// Loader fetches the country list once and stores the result. It starts in
// the loading state; Start issues the fetch and the flag is cleared when the
// fetch settles, whatever the outcome.
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger

	once sync.Once
	done chan struct{}

	mu     sync.RWMutex
	state  State
	closed bool
}

// NewLoader builds a loader using the HTTP fetcher configured by fns.
func NewLoader(fns ...OptionFn) *Loader {
	opts := NewOptions(fns...)
	return NewLoaderWithFetcher(NewHTTPFetcher(func(o *Options) { *o = opts }), opts.Logger)
}

// NewLoaderWithFetcher builds a loader around a custom fetcher.
func NewLoaderWithFetcher(fetcher Fetcher, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		fetcher: fetcher,
		logger:  logger,
		done:    make(chan struct{}),
		state:   State{Loading: true},
	}
}

// Start launches the fetch in the background. Only the first call has an
// effect.
func (l *Loader) Start(ctx context.Context) {
	if l == nil {
		return
	}
	l.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		go l.run(ctx)
	})
}

// Load runs the fetch synchronously if it has not been started yet, then
// waits for it to settle.
func (l *Loader) Load(ctx context.Context) State {
	if l == nil {
		return State{}
	}
	l.once.Do(func() {
		if ctx == nil {
			ctx = context.Background()
		}
		l.run(ctx)
	})
	_ = l.Wait(ctx)
	return l.Snapshot()
}

// Wait blocks until the fetch settles or ctx is done.
func (l *Loader) Wait(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close tears the loader down. A fetch that settles afterwards is dropped.
func (l *Loader) Close() {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
}

// Snapshot returns a copy of the current state.
func (l *Loader) Snapshot() State {
	if l == nil {
		return State{}
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return State{
		Countries: append([]Country{}, l.state.Countries...),
		Loading:   l.state.Loading,
	}
}

// Countries returns the loaded options, empty while loading or after a
// failed fetch.
func (l *Loader) Countries() []Country {
	return l.Snapshot().Countries
}

func (l *Loader) run(ctx context.Context) {
	var list []Country
	defer func() {
		l.update(list)
		close(l.done)
	}()

	if l.fetcher == nil {
		l.logger.Error("countries: no fetcher configured")
		return
	}

	fetched, err := l.fetcher.Fetch(ctx)
	if err != nil {
		l.logger.ErrorContext(ctx, "failed to fetch countries", slog.Any("error", err))
		return
	}
	list = fetched
	l.logger.DebugContext(ctx, "countries loaded", slog.Int("count", len(list)))
}

// update is the single write path into the loader state.
func (l *Loader) update(list []Country) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return
	}
	l.state = State{Countries: list, Loading: false}
}
