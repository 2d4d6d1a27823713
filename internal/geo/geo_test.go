package geo

import (
	"math"
	"testing"

	"itinerary-view-service/internal/domain"
)

func TestDistance(t *testing.T) {
	a := domain.Coordinates{Lat: 0, Lng: 0}
	b := domain.Coordinates{Lat: 0, Lng: 0.01}

	// 0.01 degrees of longitude at the equator is roughly 1.11 km.
	d := Distance(a, b)
	if d < 1100 || d > 1125 {
		t.Fatalf("distance = %f, want roughly 1113", d)
	}

	if Distance(a, a) != 0 {
		t.Fatalf("distance to self = %f, want 0", Distance(a, a))
	}
}

func TestEstimateTravel(t *testing.T) {
	a := domain.Coordinates{Lat: 48.8566, Lng: 2.3522}
	b := domain.Coordinates{Lat: 48.8606, Lng: 2.3376}

	meters, seconds := EstimateTravel(a, b)
	if meters <= 0 || seconds <= 0 {
		t.Fatalf("estimate = (%d, %d), want positive values", meters, seconds)
	}

	// Duration must follow from the assumed speed.
	want := int(math.Round(float64(meters) / (AssumedSpeedKmh * 1000 / 3600)))
	if diff := seconds - want; diff < -1 || diff > 1 {
		t.Fatalf("seconds = %d, want about %d at %v km/h", seconds, want, AssumedSpeedKmh)
	}
}

func TestSameLocation(t *testing.T) {
	a := domain.Coordinates{Lat: 45, Lng: 7}

	if !SameLocation(a, a) {
		t.Fatal("identical coordinates should be the same location")
	}

	near := domain.Coordinates{Lat: 45.0003, Lng: 7} // ~33 m
	if !SameLocation(a, near) {
		t.Fatal("coordinates 33 m apart should be the same location")
	}

	far := domain.Coordinates{Lat: 45.001, Lng: 7} // ~111 m
	if SameLocation(a, far) {
		t.Fatal("coordinates 111 m apart should not be the same location")
	}
}

func TestStraightPath(t *testing.T) {
	a := domain.Coordinates{Lat: 10, Lng: 20}
	b := domain.Coordinates{Lat: 12, Lng: 24}

	path := StraightPath(a, b, 5)
	if len(path) != 5 {
		t.Fatalf("path has %d points, want 5", len(path))
	}
	if path[0] != a {
		t.Fatalf("path starts at %+v, want %+v", path[0], a)
	}
	if path[4] != b {
		t.Fatalf("path ends at %+v, want %+v", path[4], b)
	}

	mid := path[2]
	if mid.Lat != 11 || mid.Lng != 22 {
		t.Fatalf("midpoint = %+v, want {11 22}", mid)
	}

	// Fewer than two points clamps to the endpoints.
	short := StraightPath(a, b, 0)
	if len(short) != 2 || short[0] != a || short[1] != b {
		t.Fatalf("clamped path = %+v, want [a b]", short)
	}
}

func TestBoundFor(t *testing.T) {
	if _, ok := BoundFor(nil, 0.01); ok {
		t.Fatal("empty input should not produce a bound")
	}

	coords := []domain.Coordinates{
		{Lat: 45.0, Lng: 7.0},
		{Lat: 45.2, Lng: 7.4},
		{Lat: 44.9, Lng: 7.2},
	}

	b, ok := BoundFor(coords, 0.01)
	if !ok {
		t.Fatal("expected a bound")
	}
	if b.Min.Lat() > 44.9 || b.Max.Lat() < 45.2 {
		t.Fatalf("bound latitudes [%f, %f] do not cover input", b.Min.Lat(), b.Max.Lat())
	}
	if b.Min.Lon() > 7.0 || b.Max.Lon() < 7.4 {
		t.Fatalf("bound longitudes [%f, %f] do not cover input", b.Min.Lon(), b.Max.Lon())
	}
	// Padding widens the box past the extremes.
	if b.Min.Lat() >= 44.9 || b.Max.Lon() <= 7.4 {
		t.Fatal("bound is not padded")
	}
}

func TestPolylineRoundTrip(t *testing.T) {
	path := []domain.Coordinates{
		{Lat: 38.5, Lng: -120.2},
		{Lat: 40.7, Lng: -120.95},
		{Lat: 43.252, Lng: -126.453},
	}

	encoded := EncodePath(path)
	if encoded == "" {
		t.Fatal("encoded polyline is empty")
	}

	decoded, err := DecodePath(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(decoded) != len(path) {
		t.Fatalf("decoded %d points, want %d", len(decoded), len(path))
	}
	for i := range path {
		if math.Abs(decoded[i].Lat-path[i].Lat) > 1e-5 || math.Abs(decoded[i].Lng-path[i].Lng) > 1e-5 {
			t.Fatalf("point %d = %+v, want %+v", i, decoded[i], path[i])
		}
	}

	if _, err := DecodePath(""); err == nil {
		t.Fatal("empty polyline should not decode")
	}
}
