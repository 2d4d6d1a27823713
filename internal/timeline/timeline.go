// Package timeline projects an itinerary into a chronological list,
// independent of the map. Stops carry the same marker-equivalent
// numbering the map uses, so the two views cross-reference.
package timeline

import (
	"time"

	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/geo"
	"itinerary-view-service/internal/render"
)

type EntryKind string

const (
	KindStop  EntryKind = "stop"
	KindBreak EntryKind = "break"
)

type ConnectionStatus string

const (
	// Numbers below come from the haversine estimate, not the backend.
	ConnectionEstimated    ConnectionStatus = "estimated"
	ConnectionSameLocation ConnectionStatus = "same_location"
	ConnectionUnavailable  ConnectionStatus = "not_available"
)

// The travel leg preceding a stop, from the optimizer's travel data.
type TravelLeg struct {
	DistanceMeters  int
	DurationSeconds int
	IsReturn        bool
}

// One rendered block: a stop or a lunch break.
type Entry struct {
	Kind            EntryKind
	Label           string // marker-equivalent; empty for breaks and unmapped stops
	Name            string
	Address         string
	ArriveAt        time.Time
	DepartAt        time.Time
	DurationMinutes int
	Continuation    bool // second part of a split visit: no duration chip
	Travel          *TravelLeg
	Notes           string
}

// Approximate link between two consecutive days. Explicitly an
// estimate: distance is haversine, duration assumes a fixed speed.
type Connection struct {
	Status          ConnectionStatus
	DistanceMeters  int
	DurationSeconds int
}

type DayView struct {
	DayNumber  int
	Date       time.Time
	Entries    []Entry
	Connection *Connection // to the following day, when requested
}

type Timeline struct {
	Days    []DayView
	Warning string
}

// Render projects the selected days chronologically. It never fails:
// an empty scope yields a warning instead.
func Render(it *domain.Itinerary, sel domain.ViewSelection, showConnections bool) *Timeline {
	days := scopeDays(it, sel)
	if len(days) == 0 {
		return &Timeline{Warning: render.WarnNoRouteData}
	}
	multiDay := len(days) > 1

	out := &Timeline{Days: make([]DayView, 0, len(days))}
	for di, day := range days {
		dv := DayView{
			DayNumber: di + 1,
			Date:      day.Date,
			Entries:   renderDay(day, di, multiDay),
		}
		if showConnections && multiDay && di+1 < len(days) {
			dv.Connection = connection(day, days[di+1])
		}
		out.Days = append(out.Days, dv)
	}
	return out
}

func renderDay(day domain.Day, dayIndex int, multiDay bool) []Entry {
	entries := make([]Entry, 0, len(day.Visits))
	position := 0

	for i, v := range day.Visits {
		if v.Location.IsLunchBreak {
			entries = append(entries, Entry{
				Kind:     KindBreak,
				Name:     v.Location.Name,
				ArriveAt: v.ArriveAt,
				DepartAt: v.DepartAt,
			})
			continue
		}

		e := Entry{
			Kind:            KindStop,
			Name:            v.Location.Name,
			Address:         v.Location.Address,
			ArriveAt:        v.ArriveAt,
			DepartAt:        v.DepartAt,
			DurationMinutes: v.Location.DurationMinutes,
			Continuation:    v.Part == domain.PartAfterLunch,
			Notes:           v.Location.Notes,
		}

		// Numbering counts drawable stops only, matching the map.
		if v.Drawable() {
			position++
			e.Label = render.StopLabel(dayIndex+1, position, multiDay, v.Location.IsStartPoint, v.IsReturn())
		}

		if i > 0 && v.Travel != nil && v.Travel.FromPrevious {
			e.Travel = &TravelLeg{
				DistanceMeters:  v.Travel.DistanceMeters,
				DurationSeconds: v.Travel.DurationSeconds,
				IsReturn:        v.Travel.IsReturn,
			}
		}

		entries = append(entries, e)
	}
	return entries
}

// connection estimates the link between two days from their boundary
// stops. The backend never routes day boundaries, so this stays a
// clearly labeled approximation.
func connection(from, to domain.Day) *Connection {
	last, ok := from.LastNonBreak()
	if !ok {
		return &Connection{Status: ConnectionUnavailable}
	}
	first, ok := to.FirstNonBreak()
	if !ok {
		return &Connection{Status: ConnectionUnavailable}
	}
	if last.Location.Coords == nil || first.Location.Coords == nil {
		return &Connection{Status: ConnectionUnavailable}
	}

	a := *last.Location.Coords
	b := *first.Location.Coords
	if geo.SameLocation(a, b) {
		return &Connection{Status: ConnectionSameLocation}
	}

	meters, seconds := geo.EstimateTravel(a, b)
	return &Connection{
		Status:          ConnectionEstimated,
		DistanceMeters:  meters,
		DurationSeconds: seconds,
	}
}

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
