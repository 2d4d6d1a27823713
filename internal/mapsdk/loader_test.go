package mapsdk

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// blockingKeySource holds every MapsAPIKey call until released, so
// tests can pile callers onto an in-flight load.
type blockingKeySource struct {
	key     string
	err     error
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (s *blockingKeySource) MapsAPIKey(ctx context.Context) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.release != nil {
		<-s.release
	}
	return s.key, s.err
}

func (s *blockingKeySource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestEnsureLoadedOnce(t *testing.T) {
	src := &blockingKeySource{key: "test-key", release: make(chan struct{})}
	loader := NewLoader(src)

	type outcome struct {
		sdk *SDK
		err error
	}
	results := make(chan outcome, 10)

	go func() {
		sdk, err := loader.EnsureLoaded(context.Background())
		results <- outcome{sdk, err}
	}()

	// Wait for the first caller to start the load, then pile on.
	deadline := time.Now().Add(2 * time.Second)
	for loader.State() != StateLoading {
		if time.Now().After(deadline) {
			t.Fatal("loader never entered the loading state")
		}
		time.Sleep(time.Millisecond)
	}
	for i := 0; i < 9; i++ {
		go func() {
			sdk, err := loader.EnsureLoaded(context.Background())
			results <- outcome{sdk, err}
		}()
	}
	close(src.release)

	var first *SDK
	for i := 0; i < 10; i++ {
		got := <-results
		if got.err != nil {
			t.Fatalf("unexpected error: %v", got.err)
		}
		if first == nil {
			first = got.sdk
		}
		if got.sdk != first {
			t.Fatal("callers received different SDK instances")
		}
	}

	if n := src.callCount(); n != 1 {
		t.Fatalf("key fetched %d times, want 1", n)
	}
	if loader.State() != StateReady {
		t.Fatalf("state = %v, want ready", loader.State())
	}
	if first.APIKey() != "test-key" {
		t.Fatalf("api key = %q, want test-key", first.APIKey())
	}
}

func TestEnsureLoadedErrorIsTerminal(t *testing.T) {
	src := &blockingKeySource{err: errors.New("backend down")}
	loader := NewLoader(src)

	if _, err := loader.EnsureLoaded(context.Background()); err == nil {
		t.Fatal("expected load to fail")
	}
	if loader.State() != StateError {
		t.Fatalf("state = %v, want error", loader.State())
	}

	// The source recovering must not trigger a second load attempt.
	src.err = nil
	src.key = "late-key"
	if _, err := loader.EnsureLoaded(context.Background()); err == nil {
		t.Fatal("failed load should stay failed")
	}
	if n := src.callCount(); n != 1 {
		t.Fatalf("key fetched %d times, want 1", n)
	}
}

func TestEnsureLoadedRejectsEmptyKey(t *testing.T) {
	src := &blockingKeySource{key: "   "}
	loader := NewLoader(src)

	if _, err := loader.EnsureLoaded(context.Background()); err == nil {
		t.Fatal("blank api key should fail the load")
	}
	if loader.State() != StateError {
		t.Fatalf("state = %v, want error", loader.State())
	}
}

func TestEnsureLoadedWaiterHonorsContext(t *testing.T) {
	src := &blockingKeySource{key: "k", release: make(chan struct{})}
	loader := NewLoader(src)

	go loader.EnsureLoaded(context.Background())
	deadline := time.Now().Add(2 * time.Second)
	for loader.State() != StateLoading {
		if time.Now().After(deadline) {
			t.Fatal("loader never entered the loading state")
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := loader.EnsureLoaded(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}

	close(src.release)
}
