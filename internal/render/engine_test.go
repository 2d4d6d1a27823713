package render

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"itinerary-view-service/internal/adapters/backend"
	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/geo"
	"itinerary-view-service/internal/mapsdk"
	"itinerary-view-service/internal/ports"
)

var (
	d1Start  = domain.Coordinates{Lat: 45.00, Lng: 7.00}
	d1Stop   = domain.Coordinates{Lat: 45.05, Lng: 7.05}
	d1Return = domain.Coordinates{Lat: 45.00, Lng: 7.00}
	d2Start  = domain.Coordinates{Lat: 45.20, Lng: 7.20}
	d2Stop   = domain.Coordinates{Lat: 45.25, Lng: 7.25}
	d2Return = domain.Coordinates{Lat: 45.20, Lng: 7.20}
)

func visit(name string, c domain.Coordinates, isStart bool) domain.Visit {
	return domain.Visit{
		Location: domain.Location{
			Name:         name,
			Coords:       &domain.Coordinates{Lat: c.Lat, Lng: c.Lng},
			IsStartPoint: isStart,
		},
	}
}

func returnVisit(name string, c domain.Coordinates) domain.Visit {
	v := visit(name, c, false)
	v.Travel = &domain.TravelInfo{DistanceMeters: 5000, DurationSeconds: 900, FromPrevious: true, IsReturn: true}
	return v
}

func lunchVisit() domain.Visit {
	return domain.Visit{Location: domain.Location{Name: "Lunch break", IsLunchBreak: true}}
}

// Two days of three drawable stops each, with a lunch break in day one.
func twoDayItinerary() *domain.Itinerary {
	return &domain.Itinerary{
		Days: []domain.Day{
			{
				Date: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
				Visits: []domain.Visit{
					visit("Hotel", d1Start, true),
					visit("Museum", d1Stop, false),
					lunchVisit(),
					returnVisit("Hotel", d1Return),
				},
			},
			{
				Date: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
				Visits: []domain.Visit{
					visit("Hotel North", d2Start, true),
					visit("Castle", d2Stop, false),
					returnVisit("Hotel North", d2Return),
				},
			},
		},
		Stats: domain.Stats{StopCount: 6},
	}
}

func newTestSurface() *mapsdk.Map {
	return mapsdk.NewSDK("test-key").NewMap()
}

type memSegmentCache struct {
	mu   sync.Mutex
	m    map[string]string
	puts int
}

func newMemSegmentCache() *memSegmentCache {
	return &memSegmentCache{m: map[string]string{}}
}

func (c *memSegmentCache) Get(ctx context.Context, origin, destination string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.m[origin+"|"+destination]
	return g, ok, nil
}

func (c *memSegmentCache) Put(ctx context.Context, origin, destination, geometry string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[origin+"|"+destination] = geometry
	c.puts++
	return nil
}

func TestRenderCountsAndLabels(t *testing.T) {
	provider := backend.NewMockRouteProvider(nil)
	provider.FailAll = true
	engine := NewEngine(provider, nil, 2)
	defer engine.Close()
	surface := newTestSurface()

	res := engine.Render(context.Background(), surface, twoDayItinerary(), domain.AllDays, Options{ShowConnections: true})
	engine.Wait()

	if res.Warning != "" {
		t.Fatalf("unexpected warning %q", res.Warning)
	}
	if res.Markers != 6 {
		t.Fatalf("markers = %d, want 6", res.Markers)
	}
	if res.Segments != 4 {
		t.Fatalf("segments = %d, want 4", res.Segments)
	}
	if res.Connections != 1 {
		t.Fatalf("connections = %d, want 1", res.Connections)
	}
	if got := engine.OwnedOverlays(); got != 11 {
		t.Fatalf("owned overlays = %d, want 11", got)
	}
	if got := surface.OverlayCount(); got != 11 {
		t.Fatalf("surface overlays = %d, want 11", got)
	}

	st := surface.Snapshot()
	wantLabels := []string{"1P", "1.1", "1A", "2P", "2.1", "2A"}
	if len(st.Markers) != len(wantLabels) {
		t.Fatalf("snapshot has %d markers, want %d", len(st.Markers), len(wantLabels))
	}
	for i, want := range wantLabels {
		if got := st.Markers[i].Spec.Label; got != want {
			t.Fatalf("marker %d label = %q, want %q", i, got, want)
		}
	}
	if st.Markers[0].Spec.Color != colorStart {
		t.Fatalf("start marker color = %q, want %q", st.Markers[0].Spec.Color, colorStart)
	}
	if st.Markers[2].Spec.Color != colorReturn {
		t.Fatalf("return marker color = %q, want %q", st.Markers[2].Spec.Color, colorReturn)
	}

	// One dashed gray connector between the days.
	dashed := 0
	for _, p := range st.Polylines {
		if p.Spec.Dashed {
			dashed++
			if p.Spec.Color != colorConnector {
				t.Fatalf("connector color = %q, want %q", p.Spec.Color, colorConnector)
			}
		}
	}
	if dashed != 1 {
		t.Fatalf("dashed polylines = %d, want 1", dashed)
	}

	if st.Viewport == nil {
		t.Fatal("viewport not fitted")
	}
}

func TestRenderSingleDayLabels(t *testing.T) {
	provider := backend.NewMockRouteProvider(nil)
	provider.FailAll = true
	engine := NewEngine(provider, nil, 1)
	defer engine.Close()
	surface := newTestSurface()

	it := twoDayItinerary()
	single, ok := it.DaySubset(1)
	if !ok {
		t.Fatal("day 1 should exist")
	}

	res := engine.Render(context.Background(), surface, single, domain.AllDays, Options{})
	engine.Wait()

	if res.Markers != 3 || res.Segments != 2 || res.Connections != 0 {
		t.Fatalf("result = %d/%d/%d, want 3 markers, 2 segments, 0 connections",
			res.Markers, res.Segments, res.Connections)
	}

	st := surface.Snapshot()
	wantLabels := []string{"P", "1", "A"}
	for i, want := range wantLabels {
		if got := st.Markers[i].Spec.Label; got != want {
			t.Fatalf("marker %d label = %q, want %q", i, got, want)
		}
	}
	// Non-boundary stops in single-day scope use palette slot 0.
	if got := st.Markers[1].Spec.Color; got != dayPalette[0] {
		t.Fatalf("stop color = %q, want palette slot 0", got)
	}
}

func TestRenderFallbackKeepsStraightLines(t *testing.T) {
	provider := backend.NewMockRouteProvider(nil)
	provider.FailAll = true
	engine := NewEngine(provider, nil, 4)
	defer engine.Close()
	surface := newTestSurface()

	res := engine.Render(context.Background(), surface, twoDayItinerary(), domain.AllDays, Options{})
	engine.Wait()

	if res.Segments != 4 {
		t.Fatalf("segments = %d, want 4", res.Segments)
	}
	if calls := provider.Calls(); len(calls) != 4 {
		t.Fatalf("provider called %d times, want 4", len(calls))
	}

	// Every segment keeps its interpolated placeholder.
	st := surface.Snapshot()
	for _, p := range st.Polylines {
		if len(p.Spec.Path) != fallbackPathPoints {
			t.Fatalf("segment has %d points, want %d placeholder points", len(p.Spec.Path), fallbackPathPoints)
		}
	}
}

func TestRenderUpgradesSegments(t *testing.T) {
	routed := []domain.Coordinates{d1Start, {Lat: 45.02, Lng: 7.01}, {Lat: 45.04, Lng: 7.03}, d1Stop}
	provider := backend.NewMockRouteProvider([]backend.MockRoute{
		{From: d1Start, To: d1Stop, Path: routed},
	})
	engine := NewEngine(provider, nil, 2)
	defer engine.Close()
	surface := newTestSurface()

	it := twoDayItinerary()
	single, _ := it.DaySubset(1)

	res := engine.Render(context.Background(), surface, single, domain.AllDays, Options{})
	engine.Wait()

	if res.Segments != 2 {
		t.Fatalf("segments = %d, want 2", res.Segments)
	}
	// The upgrade replaces, never duplicates.
	if got := surface.OverlayCount(); got != 5 {
		t.Fatalf("surface overlays = %d, want 5", got)
	}

	st := surface.Snapshot()
	upgraded := 0
	for _, p := range st.Polylines {
		if len(p.Spec.Path) == len(routed) {
			upgraded++
		}
	}
	if upgraded != 1 {
		t.Fatalf("upgraded segments = %d, want 1", upgraded)
	}
}

func TestRenderUsesSegmentCache(t *testing.T) {
	routed := []domain.Coordinates{d1Start, {Lat: 45.02, Lng: 7.01}, d1Stop}
	cache := newMemSegmentCache()

	warm := backend.NewMockRouteProvider([]backend.MockRoute{
		{From: d1Start, To: d1Stop, Path: routed},
		{From: d1Stop, To: d1Return, Path: []domain.Coordinates{d1Stop, {Lat: 45.02, Lng: 7.02}, d1Return}},
	})
	it := twoDayItinerary()
	single, _ := it.DaySubset(1)

	engine := NewEngine(warm, cache, 2)
	surface := newTestSurface()
	engine.Render(context.Background(), surface, single, domain.AllDays, Options{})
	engine.Wait()
	engine.Close()

	if cache.puts != 2 {
		t.Fatalf("cache puts = %d, want 2", cache.puts)
	}

	// A cold provider must not be called when the cache is warm.
	cold := backend.NewMockRouteProvider(nil)
	cold.FailAll = true
	engine2 := NewEngine(cold, cache, 2)
	defer engine2.Close()
	surface2 := newTestSurface()
	engine2.Render(context.Background(), surface2, single, domain.AllDays, Options{})
	engine2.Wait()

	if calls := cold.Calls(); len(calls) != 0 {
		t.Fatalf("provider called %d times on a warm cache, want 0", len(calls))
	}

	st := surface2.Snapshot()
	found := false
	for _, p := range st.Polylines {
		if len(p.Spec.Path) == len(routed) {
			found = true
			for i := range routed {
				if math.Abs(p.Spec.Path[i].Lat-routed[i].Lat) > 1e-5 ||
					math.Abs(p.Spec.Path[i].Lng-routed[i].Lng) > 1e-5 {
					t.Fatalf("cached point %d = %+v, want %+v", i, p.Spec.Path[i], routed[i])
				}
			}
		}
	}
	if !found {
		t.Fatal("no segment was upgraded from the cache")
	}
}

func TestRenderReplacesPreviousCycle(t *testing.T) {
	provider := backend.NewMockRouteProvider(nil)
	provider.FailAll = true
	engine := NewEngine(provider, nil, 2)
	defer engine.Close()
	surface := newTestSurface()

	it := twoDayItinerary()

	first := engine.Render(context.Background(), surface, it, domain.AllDays, Options{ShowConnections: true})
	engine.Wait()

	single, _ := it.DaySubset(2)
	second := engine.Render(context.Background(), surface, single, domain.AllDays, Options{})
	engine.Wait()

	if first.Cycle == second.Cycle {
		t.Fatal("render cycles must have distinct tokens")
	}
	if second.Markers != 3 || second.Segments != 2 {
		t.Fatalf("second render = %d markers / %d segments, want 3/2", second.Markers, second.Segments)
	}
	// Old overlays are gone; only the new cycle's remain.
	if got := surface.OverlayCount(); got != 5 {
		t.Fatalf("surface overlays = %d, want 5", got)
	}
	if got := engine.OwnedOverlays(); got != 5 {
		t.Fatalf("owned overlays = %d, want 5", got)
	}
}

func TestRenderEmptyItineraryWarns(t *testing.T) {
	provider := backend.NewMockRouteProvider(nil)
	engine := NewEngine(provider, nil, 1)
	defer engine.Close()
	surface := newTestSurface()

	res := engine.Render(context.Background(), surface, nil, domain.AllDays, Options{})
	if res.Warning != WarnNoRouteData {
		t.Fatalf("warning = %q, want %q", res.Warning, WarnNoRouteData)
	}
	if res.Markers != 0 || res.Segments != 0 {
		t.Fatalf("empty render produced %d markers / %d segments", res.Markers, res.Segments)
	}

	empty := &domain.Itinerary{}
	res = engine.Render(context.Background(), surface, empty, domain.AllDays, Options{})
	if res.Warning != WarnNoRouteData {
		t.Fatalf("warning = %q, want %q", res.Warning, WarnNoRouteData)
	}
}

func TestRenderDisposedSurfaceWarns(t *testing.T) {
	provider := backend.NewMockRouteProvider(nil)
	provider.FailAll = true
	engine := NewEngine(provider, nil, 1)
	defer engine.Close()
	surface := newTestSurface()
	surface.Dispose()

	res := engine.Render(context.Background(), surface, twoDayItinerary(), domain.AllDays, Options{})
	engine.Wait()

	if res.Markers != 0 || res.Segments != 0 {
		t.Fatalf("disposed surface accepted %d markers / %d segments", res.Markers, res.Segments)
	}
	if res.Warning != WarnNoRouteData {
		t.Fatalf("warning = %q, want %q", res.Warning, WarnNoRouteData)
	}
}

func TestStaleCycleDropsUpgrades(t *testing.T) {
	surface := newTestSurface()
	set := newOverlaySet(surface)

	key := segmentKey{day: 0, index: 0}
	spec := placeholderSpec(d1Start, d1Stop)
	if err := set.addSegment(key, spec); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	set.clear()

	if set.upgradeSegment(key, []domain.Coordinates{d1Start, d1Stop}) {
		t.Fatal("stale cycle accepted an upgrade")
	}
	if got := surface.OverlayCount(); got != 0 {
		t.Fatalf("surface overlays = %d, want 0 after clear", got)
	}

	// clear is idempotent.
	set.clear()
}

func placeholderSpec(a, b domain.Coordinates) ports.PolylineSpec {
	return ports.PolylineSpec{Path: geo.StraightPath(a, b, fallbackPathPoints), Color: dayPalette[0]}
}
