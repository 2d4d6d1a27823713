// Package render keeps a map surface's markers and polylines
// consistent with an (itinerary, view selection) pair. It owns every
// overlay it creates, upgrades segment placeholders to routed geometry
// as asynchronous resolutions land, and degrades per segment instead of
// failing a whole render.
package render

import (
	"context"
	"log"
	"sync"

	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/geo"
	"itinerary-view-service/internal/ports"

	"github.com/google/uuid"
)

// User-visible warning when nothing can be drawn.
const WarnNoRouteData = "no valid route data"

const (
	defaultWorkers = 4

	// Interpolation points for straight-line placeholders.
	fallbackPathPoints = 8

	// Viewport padding in degrees (~1 km at mid latitudes).
	viewportPadding = 0.01
)

type Options struct {
	ShowConnections bool
}

// Outcome of one render call. Warnings are user-visible; everything
// else inside the draw pipeline is log-only.
type Result struct {
	Cycle       uuid.UUID
	Markers     int
	Segments    int
	Connections int
	Warning     string
}

// Engine renders itineraries onto a map surface. One engine serves one
// planning view; the surface it draws on is created once and reused
// across renders.
type Engine struct {
	routes  ports.RouteProvider
	cache   ports.SegmentCache // optional; nil disables caching
	workers int

	mu      sync.Mutex
	current *OverlaySet
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewEngine(routes ports.RouteProvider, cache ports.SegmentCache, workers int) *Engine {
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Engine{routes: routes, cache: cache, workers: workers}
}

// Render replaces all overlays from the previous cycle with the given
// itinerary's projection. Placeholder segment lines are drawn
// synchronously in stop order; routed upgrades resolve in the
// background and are dropped if a newer cycle has started. Render never
// panics or returns an error: an empty or undrawable itinerary yields a
// Result carrying WarnNoRouteData.
func (e *Engine) Render(ctx context.Context, surface ports.MapSurface, it *domain.Itinerary, sel domain.ViewSelection, opts Options) *Result {
	// Upgrades must outlive the caller's request but die with the cycle.
	cycleCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
	}
	prev := e.current
	set := newOverlaySet(surface)
	e.current = set
	e.cancel = cancel
	e.mu.Unlock()

	if prev != nil {
		prev.clear()
	}

	res := &Result{Cycle: set.Cycle()}

	days := scopeDays(it, sel)
	if len(days) == 0 {
		res.Warning = WarnNoRouteData
		log.Printf("render: cycle=%s no days in scope", set.Cycle())
		return res
	}
	multiDay := len(days) > 1

	var fitCoords []domain.Coordinates
	var pending []pendingSegment

	for di, day := range days {
		stops := day.DrawableVisits()
		dayColor := DayColor(di)

		for pos, v := range stops {
			isStart := v.Location.IsStartPoint
			isReturn := v.IsReturn()

			spec := ports.MarkerSpec{
				Position: *v.Location.Coords,
				Label:    StopLabel(di+1, pos+1, multiDay, isStart, isReturn),
				Color:    StopColor(di, isStart, isReturn),
				Info:     markerInfo(v),
			}
			if err := set.addMarker(spec); err != nil {
				log.Printf("render: cycle=%s add marker failed: %v", set.Cycle(), err)
				continue
			}
			res.Markers++
			fitCoords = append(fitCoords, *v.Location.Coords)
		}

		for i := 0; i+1 < len(stops); i++ {
			origin := *stops[i].Location.Coords
			dest := *stops[i+1].Location.Coords
			key := segmentKey{day: di, index: i}

			// Straight placeholder first, so the map is never empty
			// while routed geometry is in flight.
			spec := ports.PolylineSpec{
				Path:  geo.StraightPath(origin, dest, fallbackPathPoints),
				Color: dayColor,
			}
			if err := set.addSegment(key, spec); err != nil {
				log.Printf("render: cycle=%s add segment failed: %v", set.Cycle(), err)
				continue
			}
			res.Segments++
			pending = append(pending, pendingSegment{key: key, origin: origin, dest: dest})
		}
	}

	if opts.ShowConnections && multiDay {
		res.Connections = e.drawConnections(set, days)
	}

	if b, ok := geo.BoundFor(fitCoords, viewportPadding); ok {
		min := domain.Coordinates{Lat: b.Min.Lat(), Lng: b.Min.Lon()}
		max := domain.Coordinates{Lat: b.Max.Lat(), Lng: b.Max.Lon()}
		if err := surface.FitBounds(min, max); err != nil {
			log.Printf("render: cycle=%s fit bounds failed: %v", set.Cycle(), err)
		}
	} else {
		// No valid marker: leave the viewport unchanged and warn
		// instead of failing silently.
		res.Warning = WarnNoRouteData
		log.Printf("render: cycle=%s no drawable stops", set.Cycle())
	}

	e.resolveSegments(cycleCtx, set, pending)
	return res
}

// drawConnections draws dashed connectors between the last drawable
// stop of each day and the first of the next, skipping pairs where
// either side lacks coordinates.
func (e *Engine) drawConnections(set *OverlaySet, days []domain.Day) int {
	drawn := 0
	for di := 0; di+1 < len(days); di++ {
		last, ok := days[di].LastNonBreak()
		if !ok {
			continue
		}
		first, ok := days[di+1].FirstNonBreak()
		if !ok {
			continue
		}
		if last.Location.Coords == nil || first.Location.Coords == nil {
			continue
		}

		spec := ports.PolylineSpec{
			Path:   geo.StraightPath(*last.Location.Coords, *first.Location.Coords, 2),
			Color:  colorConnector,
			Dashed: true,
		}
		if err := set.addPolyline(spec); err != nil {
			log.Printf("render: cycle=%s add connector failed: %v", set.Cycle(), err)
			continue
		}
		drawn++
	}
	return drawn
}

// Wait blocks until every in-flight segment resolution has settled.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close cancels in-flight resolutions and removes all owned overlays.
// Called when the planning view unmounts.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	cur := e.current
	e.current = nil
	e.mu.Unlock()

	if cur != nil {
		cur.clear()
	}
	e.wg.Wait()
}

// OwnedOverlays reports how many overlays the current cycle owns.
func (e *Engine) OwnedOverlays() int {
	e.mu.Lock()
	cur := e.current
	e.mu.Unlock()
	if cur == nil {
		return 0
	}
	return cur.count()
}

// scopeDays resolves which days a selection puts in scope. Single-day
// callers usually pass a pre-filtered one-day itinerary with AllDays;
// selecting a day of a full itinerary narrows scope the same way.
func scopeDays(it *domain.Itinerary, sel domain.ViewSelection) []domain.Day {
	if it == nil {
		return nil
	}
	if sel.IsAll() {
		return it.Days
	}
	sub, ok := it.DaySubset(sel.DayNumber())
	if !ok {
		return nil
	}
	return sub.Days
}

func markerInfo(v domain.Visit) ports.MarkerInfo {
	info := ports.MarkerInfo{
		Name:            v.Location.Name,
		Address:         v.Location.Address,
		ArriveAt:        v.ArriveAt,
		DurationMinutes: v.Location.DurationMinutes,
		Notes:           v.Location.Notes,
	}
	if v.Travel != nil && v.Travel.FromPrevious {
		info.DistanceMeters = v.Travel.DistanceMeters
	}
	return info
}
