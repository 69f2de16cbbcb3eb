package countries

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoader_StartsLoading(t *testing.T) {
	loader := NewLoaderWithFetcher(FetcherFunc(func(context.Context) ([]Country, error) {
		return nil, nil
	}), discardLogger())

	state := loader.Snapshot()
	if !state.Loading {
		t.Fatalf("expected loader to start in loading state")
	}
	if len(state.Countries) != 0 {
		t.Fatalf("expected no countries before start, got %#v", state.Countries)
	}
}

func TestLoader_StoresFetchedCountries(t *testing.T) {
	list := []Country{{Name: "Peru", Code: "PE", DialCode: "+51"}}
	loader := NewLoaderWithFetcher(FetcherFunc(func(context.Context) ([]Country, error) {
		return list, nil
	}), discardLogger())

	loader.Start(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := loader.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}

	state := loader.Snapshot()
	if state.Loading {
		t.Fatalf("expected loading flag cleared")
	}
	if len(state.Countries) != 1 || state.Countries[0].Name != "Peru" {
		t.Fatalf("unexpected countries: %#v", state.Countries)
	}
}

func TestLoader_FailureClearsLoadingAndLeavesListEmpty(t *testing.T) {
	loader := NewLoaderWithFetcher(FetcherFunc(func(context.Context) ([]Country, error) {
		return nil, errors.New("network down")
	}), discardLogger())

	state := loader.Load(context.Background())
	if state.Loading {
		t.Fatalf("expected loading flag cleared after failure")
	}
	if len(state.Countries) != 0 {
		t.Fatalf("expected empty list after failure, got %#v", state.Countries)
	}
}

func TestLoader_FetchesOnce(t *testing.T) {
	var calls atomic.Int32
	loader := NewLoaderWithFetcher(FetcherFunc(func(context.Context) ([]Country, error) {
		calls.Add(1)
		return []Country{{Name: "Chad"}}, nil
	}), discardLogger())

	loader.Start(context.Background())
	loader.Start(context.Background())
	_ = loader.Load(context.Background())

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected exactly one fetch, got %d", got)
	}
}

func TestLoader_CloseDropsLateResult(t *testing.T) {
	release := make(chan struct{})
	loader := NewLoaderWithFetcher(FetcherFunc(func(context.Context) ([]Country, error) {
		<-release
		return []Country{{Name: "Chad"}}, nil
	}), discardLogger())

	loader.Start(context.Background())
	loader.Close()
	close(release)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := loader.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if got := loader.Countries(); len(got) != 0 {
		t.Fatalf("expected late result to be dropped, got %#v", got)
	}
}

func TestLoader_WaitHonoursContext(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	loader := NewLoaderWithFetcher(FetcherFunc(func(context.Context) ([]Country, error) {
		<-block
		return nil, nil
	}), discardLogger())
	loader.Start(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := loader.Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestLoader_SnapshotIsACopy(t *testing.T) {
	loader := NewLoaderWithFetcher(FetcherFunc(func(context.Context) ([]Country, error) {
		return []Country{{Name: "Chad"}}, nil
	}), discardLogger())
	state := loader.Load(context.Background())
	state.Countries[0].Name = "mutated"

	if got := loader.Countries()[0].Name; got != "Chad" {
		t.Fatalf("expected snapshot mutation not to leak, got %q", got)
	}
}
