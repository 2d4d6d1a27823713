// Package geo provides the great-circle estimates used when routed
// geometry is unavailable. Estimates are an explicit approximation
// path, clearly separated from backend-provided travel data.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"

	"itinerary-view-service/internal/domain"
)

const (
	// AssumedSpeedKmh converts estimated distances into durations for
	// inter-day connections the backend never routed.
	AssumedSpeedKmh = 30.0

	// SameLocationThresholdMeters: boundary stops closer than this are
	// reported as the same location instead of a numeric estimate.
	SameLocationThresholdMeters = 50.0
)

func toPoint(c domain.Coordinates) orb.Point {
	return orb.Point{c.Lng, c.Lat}
}

// Distance returns the haversine distance in meters.
func Distance(a, b domain.Coordinates) float64 {
	return geo.DistanceHaversine(toPoint(a), toPoint(b))
}

// EstimateTravel approximates a travel leg between two coordinates
// using haversine distance and the assumed speed.
func EstimateTravel(a, b domain.Coordinates) (meters, seconds int) {
	d := Distance(a, b)
	meters = int(math.Round(d))
	seconds = int(math.Round(d / (AssumedSpeedKmh * 1000 / 3600)))
	return meters, seconds
}

// SameLocation reports whether two coordinates fall within the
// same-location threshold.
func SameLocation(a, b domain.Coordinates) bool {
	return Distance(a, b) < SameLocationThresholdMeters
}

// StraightPath returns an interpolated geodesic-ish straight segment
// between two points. Intermediate points keep fallback geometry shaped
// like routed geometry for bounds and rendering purposes.
func StraightPath(a, b domain.Coordinates, points int) []domain.Coordinates {
	if points < 2 {
		points = 2
	}
	path := make([]domain.Coordinates, 0, points)
	for i := 0; i < points; i++ {
		t := float64(i) / float64(points-1)
		path = append(path, domain.Coordinates{
			Lat: a.Lat + (b.Lat-a.Lat)*t,
			Lng: a.Lng + (b.Lng-a.Lng)*t,
		})
	}
	return path
}

// BoundFor returns the padded bounding box of the given coordinates.
// ok is false when the input is empty.
func BoundFor(coords []domain.Coordinates, padding float64) (orb.Bound, bool) {
	if len(coords) == 0 {
		return orb.Bound{}, false
	}
	b := orb.Bound{Min: toPoint(coords[0]), Max: toPoint(coords[0])}
	for _, c := range coords[1:] {
		b = b.Extend(toPoint(c))
	}
	if padding > 0 {
		b = b.Pad(padding)
	}
	return b, true
}
