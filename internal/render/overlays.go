package render

import (
	"sync"

	"github.com/google/uuid"

	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/ports"
)

// Identifies one intra-day segment slot within a render cycle.
type segmentKey struct {
	day   int // 0-based index within the rendered scope
	index int // 0-based pair index within the day
}

type segmentEntry struct {
	id   ports.OverlayID
	spec ports.PolylineSpec
}

// OverlaySet owns every overlay created by one render cycle. Overlay
// ownership belongs to the most recent render call: starting a new
// cycle clears the previous set and marks it stale, so late async
// results against it are dropped rather than applied.
type OverlaySet struct {
	cycle   uuid.UUID
	surface ports.MapSurface

	mu       sync.Mutex
	stale    bool
	ids      []ports.OverlayID
	segments map[segmentKey]segmentEntry
}

func newOverlaySet(surface ports.MapSurface) *OverlaySet {
	return &OverlaySet{
		cycle:    uuid.New(),
		surface:  surface,
		segments: map[segmentKey]segmentEntry{},
	}
}

// Cycle returns the token identifying this render cycle.
func (s *OverlaySet) Cycle() uuid.UUID { return s.cycle }

func (s *OverlaySet) addMarker(spec ports.MarkerSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale {
		return nil
	}
	id, err := s.surface.AddMarker(spec)
	if err != nil {
		return err
	}
	s.ids = append(s.ids, id)
	return nil
}

func (s *OverlaySet) addPolyline(spec ports.PolylineSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale {
		return nil
	}
	id, err := s.surface.AddPolyline(spec)
	if err != nil {
		return err
	}
	s.ids = append(s.ids, id)
	return nil
}

// addSegment draws the placeholder polyline for a stop pair and records
// the slot so a later routed upgrade can replace exactly this overlay.
func (s *OverlaySet) addSegment(key segmentKey, spec ports.PolylineSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale {
		return nil
	}
	id, err := s.surface.AddPolyline(spec)
	if err != nil {
		return err
	}
	s.ids = append(s.ids, id)
	s.segments[key] = segmentEntry{id: id, spec: spec}
	return nil
}

// upgradeSegment swaps a segment's placeholder line for routed
// geometry. Returns false when the cycle is stale, the slot is unknown,
// or the surface has been disposed; the caller drops the result.
func (s *OverlaySet) upgradeSegment(key segmentKey, path []domain.Coordinates) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale {
		return false
	}
	entry, ok := s.segments[key]
	if !ok {
		return false
	}

	spec := entry.spec
	spec.Path = path

	newID, err := s.surface.AddPolyline(spec)
	if err != nil {
		return false
	}
	s.surface.Remove(entry.id)

	for i, id := range s.ids {
		if id == entry.id {
			s.ids[i] = newID
			break
		}
	}
	s.segments[key] = segmentEntry{id: newID, spec: spec}
	return true
}

// clear removes every owned overlay from the surface and marks the set
// stale. Idempotent.
func (s *OverlaySet) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stale {
		return
	}
	s.stale = true
	for _, id := range s.ids {
		s.surface.Remove(id)
	}
	s.ids = nil
	s.segments = map[segmentKey]segmentEntry{}
}

// count returns the number of overlays the set currently owns.
func (s *OverlaySet) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
