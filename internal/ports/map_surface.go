package ports

import (
	"time"

	"itinerary-view-service/internal/domain"
)

// Identifier of one overlay (marker or polyline) on a map surface.
type OverlayID string

// Popup payload attached to a marker.
type MarkerInfo struct {
	Name            string
	Address         string
	ArriveAt        time.Time
	DurationMinutes int
	DistanceMeters  int
	Notes           string
}

type MarkerSpec struct {
	Position domain.Coordinates
	Label    string
	Color    string
	Info     MarkerInfo
}

type PolylineSpec struct {
	Path   []domain.Coordinates
	Color  string
	Dashed bool
}

// Port: the map widget as an owned overlay container.
//
// The surface only stores what it is told; ownership of overlays stays
// with the render engine, which tracks every id it created and never
// discovers state from the surface. A disposed surface rejects writes,
// which is how late async results are dropped after teardown.
type MapSurface interface {
	AddMarker(spec MarkerSpec) (OverlayID, error)
	AddPolyline(spec PolylineSpec) (OverlayID, error)
	// Remove is a no-op for unknown ids.
	Remove(id OverlayID)
	// FitBounds recomputes the viewport to the given box.
	FitBounds(min, max domain.Coordinates) error
}
