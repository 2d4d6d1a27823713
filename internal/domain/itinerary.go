package domain

import "time"

type PriorityTier string

const (
	PriorityHigh   PriorityTier = "high"
	PriorityNormal PriorityTier = "normal"
	PriorityLow    PriorityTier = "low"
)

// VisitPart marks one half of a stop whose service time is split
// around a lunch break.
type VisitPart string

const (
	PartBeforeLunch VisitPart = "before_lunch"
	PartAfterLunch  VisitPart = "after_lunch"
)

// Represents a place that can be scheduled into an itinerary.
// Coordinates are nil until the address has been geocoded.
type Location struct {
	ID              string
	Name            string
	Address         string
	Coords          *Coordinates
	DurationMinutes int
	Priority        PriorityTier
	Notes           string
	IsStartPoint    bool
	IsLunchBreak    bool
}

// Describes the travel leg that produced an arrival at a visit.
// IsReturn marks the closing leg back to the start/hub.
type TravelInfo struct {
	DistanceMeters  int
	DurationSeconds int
	FromPrevious    bool
	IsReturn        bool
}

// A Location placed in time within a day's sequence.
type Visit struct {
	Location Location
	ArriveAt time.Time
	DepartAt time.Time
	Travel   *TravelInfo
	Part     VisitPart
}

// Drawable reports whether the visit gets a map marker: it must carry
// coordinates and must not be a lunch break.
func (v *Visit) Drawable() bool {
	return !v.Location.IsLunchBreak && v.Location.Coords != nil
}

func (v *Visit) IsReturn() bool {
	return v.Travel != nil && v.Travel.IsReturn
}

// One calendar day's ordered stop sequence. Visit order is the
// rendering order and is never re-sorted by the view layer.
type Day struct {
	Date   time.Time
	Visits []Visit
}

// DrawableVisits returns the visits that produce markers, in order.
func (d *Day) DrawableVisits() []Visit {
	out := make([]Visit, 0, len(d.Visits))
	for _, v := range d.Visits {
		if v.Drawable() {
			out = append(out, v)
		}
	}
	return out
}

// FirstNonBreak returns the first visit that is not a lunch break.
// Lunch breaks never anchor an inter-day connection.
func (d *Day) FirstNonBreak() (Visit, bool) {
	for _, v := range d.Visits {
		if !v.Location.IsLunchBreak {
			return v, true
		}
	}
	return Visit{}, false
}

// LastNonBreak returns the last visit that is not a lunch break.
func (d *Day) LastNonBreak() (Visit, bool) {
	for i := len(d.Visits) - 1; i >= 0; i-- {
		if !d.Visits[i].Location.IsLunchBreak {
			return d.Visits[i], true
		}
	}
	return Visit{}, false
}

// Plan-level totals reported by the optimizer.
type Stats struct {
	TotalDistanceMeters  int
	TotalDurationSeconds int
	StopCount            int
}

// The full multi-day plan returned by the external optimizer.
// It is read-only input to the view layer: replaced wholesale on
// refresh, never mutated in place.
type Itinerary struct {
	Days  []Day
	Stats Stats
}

// DaySubset returns a one-day itinerary for the given 1-based day
// number, preserving plan stats. ok is false when out of range.
func (it *Itinerary) DaySubset(dayNumber int) (*Itinerary, bool) {
	if dayNumber < 1 || dayNumber > len(it.Days) {
		return nil, false
	}
	return &Itinerary{
		Days:  []Day{it.Days[dayNumber-1]},
		Stats: it.Stats,
	}, true
}
