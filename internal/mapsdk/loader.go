// Package mapsdk owns the external mapping SDK lifecycle: a
// process-wide loader that initializes the SDK exactly once, and the
// per-view map surface the render engine draws on.
package mapsdk

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"itinerary-view-service/internal/ports"
)

type State int

const (
	StateUnloaded State = iota
	StateLoading
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Loader initializes the mapping SDK exactly once, no matter how many
// callers request it concurrently. Callers arriving while a load is in
// flight wait for the same outcome instead of starting a second load.
//
// A failed load is terminal: every later call reports the original
// error. Restarting the process is the only recovery, since silently
// retrying the injection risks a duplicated SDK.
type Loader struct {
	keys ports.MapsKeySource

	mu    sync.Mutex
	state State
	done  chan struct{} // closed when the in-flight load settles
	sdk   *SDK
	err   error
}

func NewLoader(keys ports.MapsKeySource) *Loader {
	return &Loader{keys: keys}
}

func (l *Loader) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// EnsureLoaded resolves once the SDK is available. Safe to call from
// any number of independent call sites.
func (l *Loader) EnsureLoaded(ctx context.Context) (*SDK, error) {
	l.mu.Lock()
	switch l.state {
	case StateReady:
		sdk := l.sdk
		l.mu.Unlock()
		return sdk, nil

	case StateError:
		err := l.err
		l.mu.Unlock()
		return nil, err

	case StateLoading:
		done := l.done
		l.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-done:
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.state == StateReady {
			return l.sdk, nil
		}
		return nil, l.err
	}

	// This caller performs the load.
	l.state = StateLoading
	l.done = make(chan struct{})
	done := l.done
	l.mu.Unlock()

	key, err := l.keys.MapsAPIKey(ctx)

	l.mu.Lock()
	if err != nil {
		l.state = StateError
		l.err = fmt.Errorf("load map sdk: fetch api key: %w", err)
	} else if strings.TrimSpace(key) == "" {
		l.state = StateError
		l.err = fmt.Errorf("load map sdk: backend returned an empty api key")
	} else {
		l.sdk = &SDK{apiKey: key}
		l.state = StateReady
	}
	sdk, lerr := l.sdk, l.err
	l.mu.Unlock()
	close(done)

	if lerr != nil {
		return nil, lerr
	}
	return sdk, nil
}
