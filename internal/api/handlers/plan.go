package handlers

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"itinerary-view-service/internal/api/dto"
	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/ports"
	"itinerary-view-service/internal/view"
)

const (
	maxLocations    = 100
	defaultDayStart = "09:00"
	defaultDayEnd   = "18:00"
)

type PlanHandler struct {
	Optimizer  ports.RouteOptimizer
	Geocoder   ports.Geocoder
	Controller *view.Controller
}

// Plan submits the locations to the external optimizer and replaces the
// active itinerary with the result. Locations without coordinates are
// geocoded from their address first.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	if len(req.Locations) == 0 {
		writeError(w, r, http.StatusBadRequest, "locations are required")
		return
	}
	if len(req.Locations) > maxLocations {
		writeError(w, r, http.StatusBadRequest, "too many locations")
		return
	}

	days := req.Settings.Days
	if days == 0 {
		days = 1
	}
	if days < 1 || days > 14 {
		writeError(w, r, http.StatusBadRequest, "settings.days must be between 1 and 14")
		return
	}

	settings := ports.OptimizeSettings{
		Days:          days,
		DayStart:      req.Settings.DayStart,
		DayEnd:        req.Settings.DayEnd,
		ReturnToStart: req.Settings.ReturnToStart,
		LunchBreak:    req.Settings.LunchBreak,
	}
	if settings.DayStart == "" {
		settings.DayStart = defaultDayStart
	}
	if settings.DayEnd == "" {
		settings.DayEnd = defaultDayEnd
	}

	locations, errMsg := h.buildLocations(r, req.Locations)
	if errMsg != "" {
		writeError(w, r, http.StatusBadRequest, errMsg)
		return
	}

	it, err := h.Optimizer.Optimize(r.Context(), locations, settings)
	if err != nil {
		log.Printf("optimize failed: %v", err)
		writeError(w, r, http.StatusBadGateway, "route optimization failed")
		return
	}

	res := h.Controller.SetItinerary(r.Context(), it)

	writeJSON(w, r, http.StatusOK, dto.PlanResponse{
		Days: len(it.Days),
		Stats: dto.StatsResponse{
			TotalDistanceMeters:  it.Stats.TotalDistanceMeters,
			TotalDurationSeconds: it.Stats.TotalDurationSeconds,
			StopCount:            it.Stats.StopCount,
		},
		Render: renderToDTO(res),
	})
}

// buildLocations validates and converts the request, geocoding entries
// that arrive with an address but no coordinates. Returns a client
// error message on the first invalid entry.
func (h *PlanHandler) buildLocations(r *http.Request, in []dto.LocationRequest) ([]domain.Location, string) {
	out := make([]domain.Location, 0, len(in))
	for i, lr := range in {
		name := strings.TrimSpace(lr.Name)
		if name == "" {
			return nil, "location name is required"
		}

		loc := domain.Location{
			ID:              strings.TrimSpace(lr.ID),
			Name:            name,
			Address:         strings.TrimSpace(lr.Address),
			DurationMinutes: lr.DurationMinutes,
			Priority:        domain.PriorityNormal,
			Notes:           lr.Notes,
			IsStartPoint:    lr.IsStartPoint,
		}

		switch lr.Priority {
		case "":
		case string(domain.PriorityHigh), string(domain.PriorityNormal), string(domain.PriorityLow):
			loc.Priority = domain.PriorityTier(lr.Priority)
		default:
			return nil, "priority must be one of high, normal, low"
		}

		switch {
		case lr.Lat != nil && lr.Lng != nil:
			c := domain.Coordinates{Lat: *lr.Lat, Lng: *lr.Lng}
			if !c.InRange() {
				return nil, "lat/lng out of range"
			}
			loc.Coords = &c
		case loc.Address != "":
			c, err := h.Geocoder.Geocode(r.Context(), loc.Address)
			if err != nil {
				log.Printf("geocode failed: location=%d address=%q err=%v", i, loc.Address, err)
				return nil, "address could not be geocoded: " + loc.Address
			}
			loc.Coords = &c
		default:
			return nil, "each location needs lat/lng or an address"
		}

		out = append(out, loc)
	}
	return out, ""
}
