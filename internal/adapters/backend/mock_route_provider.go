package backend

import (
	"context"
	"fmt"
	"sync"

	"itinerary-view-service/internal/domain"
)

type MockRoute struct {
	From, To domain.Coordinates
	Path     []domain.Coordinates
}

// MockRouteProvider serves scripted routed geometry for tests. With
// FailAll set, every request errors, which exercises the straight-line
// fallback path.
type MockRouteProvider struct {
	FailAll bool

	mu    sync.Mutex
	m     map[string][]domain.Coordinates
	calls []string
}

func NewMockRouteProvider(routes []MockRoute) *MockRouteProvider {
	m := make(map[string][]domain.Coordinates, len(routes))
	for _, r := range routes {
		m[r.From.Key()+"|"+r.To.Key()] = r.Path
	}
	return &MockRouteProvider{m: m}
}

func (p *MockRouteProvider) RouteBetweenPoints(ctx context.Context, origin, destination domain.Coordinates) ([]domain.Coordinates, error) {
	key := origin.Key() + "|" + destination.Key()

	p.mu.Lock()
	p.calls = append(p.calls, key)
	p.mu.Unlock()

	if p.FailAll {
		return nil, fmt.Errorf("routing unavailable for %q", key)
	}

	path, ok := p.m[key]
	if !ok {
		return nil, fmt.Errorf("missing route %q", key)
	}
	return path, nil
}

// Calls returns the request keys in the order they were issued.
func (p *MockRouteProvider) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.calls))
	copy(out, p.calls)
	return out
}
