package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/platform/obs"
	"itinerary-view-service/internal/ports"
)

// --- Wire structs for the optimization endpoint ---

type wireLocation struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	DurationMinutes int      `json:"duration_minutes"`
	Priority        string   `json:"priority"`
	Notes           string   `json:"notes,omitempty"`
	IsStartPoint    bool     `json:"is_start_point,omitempty"`
	IsLunchBreak    bool     `json:"is_lunch_break,omitempty"`
}

type wireTravel struct {
	DistanceMeters  int  `json:"distance_meters"`
	DurationSeconds int  `json:"duration_seconds"`
	FromPrevious    bool `json:"from_previous"`
	IsReturn        bool `json:"is_return"`
}

type wireVisit struct {
	Location      wireLocation `json:"location"`
	ArrivalTime   time.Time    `json:"arrival_time"`
	DepartureTime time.Time    `json:"departure_time"`
	Travel        *wireTravel  `json:"travel,omitempty"`
	VisitPart     string       `json:"visit_part,omitempty"`
}

type wireDay struct {
	Date   string      `json:"date"`
	Visits []wireVisit `json:"visits"`
}

type wireStats struct {
	TotalDistanceMeters  int `json:"total_distance_meters"`
	TotalDurationSeconds int `json:"total_duration_seconds"`
	StopCount            int `json:"stop_count"`
}

type optimizeRequest struct {
	Locations []wireLocation         `json:"locations"`
	Settings  ports.OptimizeSettings `json:"settings"`
}

type optimizeResponse struct {
	Route struct {
		Days []wireDay `json:"days"`
	} `json:"route"`
	Stats wireStats `json:"stats"`
}

// Optimize submits locations to the external optimizer and converts
// the computed itinerary into the domain model. The algorithm behind
// the endpoint is opaque here; its output is consumed read-only.
func (c *Client) Optimize(
	ctx context.Context,
	locations []domain.Location,
	settings ports.OptimizeSettings,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "backend.Optimize")(&err)

	if len(locations) == 0 {
		return nil, errors.New("optimize route: no locations given")
	}

	body := optimizeRequest{
		Locations: make([]wireLocation, 0, len(locations)),
		Settings:  settings,
	}
	for _, l := range locations {
		body.Locations = append(body.Locations, locationToWire(l))
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal optimize request: %w", err)
	}

	endpoint := c.baseURL + "/routes/optimize"

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		return c.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}
	defer resp.Body.Close()

	var decoded optimizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode optimize response: %w", err)
	}

	it, err := itineraryFromWire(decoded)
	if err != nil {
		return nil, fmt.Errorf("optimize route: %w", err)
	}

	return it, nil
}

func locationToWire(l domain.Location) wireLocation {
	w := wireLocation{
		ID:              l.ID,
		Name:            l.Name,
		Address:         l.Address,
		DurationMinutes: l.DurationMinutes,
		Priority:        string(l.Priority),
		Notes:           l.Notes,
		IsStartPoint:    l.IsStartPoint,
		IsLunchBreak:    l.IsLunchBreak,
	}
	if l.Coords != nil {
		lat, lng := l.Coords.Lat, l.Coords.Lng
		w.Lat, w.Lng = &lat, &lng
	}
	return w
}

func locationFromWire(w wireLocation) domain.Location {
	l := domain.Location{
		ID:              w.ID,
		Name:            w.Name,
		Address:         w.Address,
		DurationMinutes: w.DurationMinutes,
		Priority:        domain.PriorityTier(w.Priority),
		Notes:           w.Notes,
		IsStartPoint:    w.IsStartPoint,
		IsLunchBreak:    w.IsLunchBreak,
	}
	if w.Lat != nil && w.Lng != nil {
		l.Coords = &domain.Coordinates{Lat: *w.Lat, Lng: *w.Lng}
	}
	return l
}

func itineraryFromWire(resp optimizeResponse) (*domain.Itinerary, error) {
	it := &domain.Itinerary{
		Days: make([]domain.Day, 0, len(resp.Route.Days)),
		Stats: domain.Stats{
			TotalDistanceMeters:  resp.Stats.TotalDistanceMeters,
			TotalDurationSeconds: resp.Stats.TotalDurationSeconds,
			StopCount:            resp.Stats.StopCount,
		},
	}

	for i, wd := range resp.Route.Days {
		date, err := time.Parse("2006-01-02", wd.Date)
		if err != nil {
			return nil, fmt.Errorf("day %d: parse date %q: %w", i+1, wd.Date, err)
		}

		day := domain.Day{Date: date, Visits: make([]domain.Visit, 0, len(wd.Visits))}
		for _, wv := range wd.Visits {
			v := domain.Visit{
				Location: locationFromWire(wv.Location),
				ArriveAt: wv.ArrivalTime,
				DepartAt: wv.DepartureTime,
				Part:     domain.VisitPart(wv.VisitPart),
			}
			if wv.Travel != nil {
				v.Travel = &domain.TravelInfo{
					DistanceMeters:  wv.Travel.DistanceMeters,
					DurationSeconds: wv.Travel.DurationSeconds,
					FromPrevious:    wv.Travel.FromPrevious,
					IsReturn:        wv.Travel.IsReturn,
				}
			}
			day.Visits = append(day.Visits, v)
		}
		it.Days = append(it.Days, day)
	}

	return it, nil
}
