package mapsdk

import (
	"errors"
	"fmt"
	"sync"

	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/ports"
)

// Writes against a disposed map surface fail with this error; callers
// in the draw pipeline drop the result instead of propagating it.
var ErrMapDisposed = errors.New("map surface is disposed")

// Handle to the loaded mapping SDK.
type SDK struct {
	apiKey string
}

// NewSDK wraps an already-obtained credential. Production code goes
// through the Loader; this is for embedding and tests.
func NewSDK(apiKey string) *SDK {
	return &SDK{apiKey: apiKey}
}

func (s *SDK) APIKey() string { return s.apiKey }

// NewMap creates a map surface. One surface is acquired per mounted
// planning view and kept for the view's whole lifetime; itinerary and
// selection changes tear down overlays, never the surface itself.
func (s *SDK) NewMap() *Map {
	return &Map{
		markers:   map[ports.OverlayID]ports.MarkerSpec{},
		polylines: map[ports.OverlayID]ports.PolylineSpec{},
	}
}

// Current viewport box of a map surface.
type Viewport struct {
	Min domain.Coordinates
	Max domain.Coordinates
}

// Map is the in-process rendition of the map widget: an overlay
// container with a viewport. It implements ports.MapSurface and is
// safe for concurrent use (segment upgrades land asynchronously).
type Map struct {
	mu        sync.Mutex
	disposed  bool
	seq       int
	order     []ports.OverlayID
	markers   map[ports.OverlayID]ports.MarkerSpec
	polylines map[ports.OverlayID]ports.PolylineSpec
	viewport  *Viewport
}

func (m *Map) AddMarker(spec ports.MarkerSpec) (ports.OverlayID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return "", ErrMapDisposed
	}
	m.seq++
	id := ports.OverlayID(fmt.Sprintf("marker-%d", m.seq))
	m.markers[id] = spec
	m.order = append(m.order, id)
	return id, nil
}

func (m *Map) AddPolyline(spec ports.PolylineSpec) (ports.OverlayID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return "", ErrMapDisposed
	}
	m.seq++
	id := ports.OverlayID(fmt.Sprintf("polyline-%d", m.seq))
	m.polylines[id] = spec
	m.order = append(m.order, id)
	return id, nil
}

func (m *Map) Remove(id ports.OverlayID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.markers[id]; !ok {
		if _, ok := m.polylines[id]; !ok {
			return
		}
	}
	delete(m.markers, id)
	delete(m.polylines, id)
	for i, other := range m.order {
		if other == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (m *Map) FitBounds(min, max domain.Coordinates) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.disposed {
		return ErrMapDisposed
	}
	m.viewport = &Viewport{Min: min, Max: max}
	return nil
}

// Dispose releases the surface. Subsequent writes fail with
// ErrMapDisposed; in-flight draw results are thereby ignored.
func (m *Map) Dispose() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disposed = true
	m.order = nil
	m.markers = map[ports.OverlayID]ports.MarkerSpec{}
	m.polylines = map[ports.OverlayID]ports.PolylineSpec{}
	m.viewport = nil
}

// OverlayCount returns the number of live overlays on the surface.
func (m *Map) OverlayCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}

type MarkerState struct {
	ID   ports.OverlayID
	Spec ports.MarkerSpec
}

type PolylineState struct {
	ID   ports.OverlayID
	Spec ports.PolylineSpec
}

// Rendered state of the surface in insertion order.
type MapState struct {
	Markers   []MarkerState
	Polylines []PolylineState
	Viewport  *Viewport
}

// Snapshot copies the current overlay state for serialization.
func (m *Map) Snapshot() MapState {
	m.mu.Lock()
	defer m.mu.Unlock()

	var st MapState
	for _, id := range m.order {
		if spec, ok := m.markers[id]; ok {
			st.Markers = append(st.Markers, MarkerState{ID: id, Spec: spec})
			continue
		}
		if spec, ok := m.polylines[id]; ok {
			st.Polylines = append(st.Polylines, PolylineState{ID: id, Spec: spec})
		}
	}
	if m.viewport != nil {
		vp := *m.viewport
		st.Viewport = &vp
	}
	return st
}
