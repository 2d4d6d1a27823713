package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"itinerary-view-service/internal/api/dto"
	"itinerary-view-service/internal/domain"
	"itinerary-view-service/internal/mapsdk"
	"itinerary-view-service/internal/render"
	"itinerary-view-service/internal/timeline"
	"itinerary-view-service/internal/view"
)

type ViewHandler struct {
	Controller *view.Controller
	Surface    *mapsdk.Map
}

// Select switches between the all-days view and a single day, and
// toggles inter-day connections. Day 0 or null selects all days.
func (h *ViewHandler) Select(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ViewRequest

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

	sel := domain.AllDays
	if req.Day != nil && *req.Day != 0 {
		if *req.Day < 0 {
			writeError(w, r, http.StatusBadRequest, "day must be 0 or a positive day number")
			return
		}
		sel = domain.ViewSelection(*req.Day)
	}

	res, err := h.Controller.Select(r.Context(), sel, req.ShowConnections)
	if errors.Is(err, view.ErrNoSuchDay) {
		writeError(w, r, http.StatusNotFound, "selected day does not exist")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.ViewResponse{
		Day:             sel.DayNumber(),
		ShowConnections: req.ShowConnections,
		Render:          renderToDTO(res),
	})
}

// Map serializes the current overlay state of the map surface. With
// ?wait=1 the response waits for in-flight segment upgrades, which
// keeps integration tests deterministic.
func (h *ViewHandler) Map(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.URL.Query().Get("wait") == "1" {
		h.Controller.Wait()
	}

	st := h.Surface.Snapshot()

	res := dto.MapResponse{
		Markers:   make([]dto.MarkerResponse, 0, len(st.Markers)),
		Polylines: make([]dto.PolylineResponse, 0, len(st.Polylines)),
	}
	if last := h.Controller.LastResult(); last != nil {
		res.Cycle = last.Cycle.String()
		res.Warning = last.Warning
	}

	for _, m := range st.Markers {
		res.Markers = append(res.Markers, dto.MarkerResponse{
			ID:       string(m.ID),
			Position: dto.CoordsResponse{Lat: m.Spec.Position.Lat, Lng: m.Spec.Position.Lng},
			Label:    m.Spec.Label,
			Color:    m.Spec.Color,
			Info: dto.MarkerInfoResponse{
				Name:            m.Spec.Info.Name,
				Address:         m.Spec.Info.Address,
				ArriveAt:        m.Spec.Info.ArriveAt,
				DurationMinutes: m.Spec.Info.DurationMinutes,
				DistanceMeters:  m.Spec.Info.DistanceMeters,
				Notes:           m.Spec.Info.Notes,
			},
		})
	}
	for _, p := range st.Polylines {
		path := make([]dto.CoordsResponse, 0, len(p.Spec.Path))
		for _, c := range p.Spec.Path {
			path = append(path, dto.CoordsResponse{Lat: c.Lat, Lng: c.Lng})
		}
		res.Polylines = append(res.Polylines, dto.PolylineResponse{
			ID:     string(p.ID),
			Path:   path,
			Color:  p.Spec.Color,
			Dashed: p.Spec.Dashed,
		})
	}
	if st.Viewport != nil {
		res.Viewport = &dto.ViewportResponse{
			Min: dto.CoordsResponse{Lat: st.Viewport.Min.Lat, Lng: st.Viewport.Min.Lng},
			Max: dto.CoordsResponse{Lat: st.Viewport.Max.Lat, Lng: st.Viewport.Max.Lng},
		}
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Timeline serializes the chronological projection of the current view.
func (h *ViewHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	tl := h.Controller.Timeline()

	res := dto.TimelineResponse{
		Days:    make([]dto.TimelineDayResponse, 0, len(tl.Days)),
		Warning: tl.Warning,
	}
	for _, d := range tl.Days {
		res.Days = append(res.Days, timelineDayToDTO(d))
	}

	writeJSON(w, r, http.StatusOK, res)
}

func renderToDTO(res *render.Result) dto.RenderResponse {
	if res == nil {
		return dto.RenderResponse{}
	}
	return dto.RenderResponse{
		Cycle:       res.Cycle.String(),
		Markers:     res.Markers,
		Segments:    res.Segments,
		Connections: res.Connections,
		Warning:     res.Warning,
	}
}

func timelineDayToDTO(d timeline.DayView) dto.TimelineDayResponse {
	out := dto.TimelineDayResponse{
		DayNumber: d.DayNumber,
		Date:      d.Date.Format("2006-01-02"),
		Entries:   make([]dto.TimelineEntryResponse, 0, len(d.Entries)),
	}
	for _, e := range d.Entries {
		entry := dto.TimelineEntryResponse{
			Kind:            string(e.Kind),
			Label:           e.Label,
			Name:            e.Name,
			Address:         e.Address,
			ArriveAt:        e.ArriveAt,
			DepartAt:        e.DepartAt,
			DurationMinutes: e.DurationMinutes,
			Continuation:    e.Continuation,
			Notes:           e.Notes,
		}
		if e.Travel != nil {
			entry.Travel = &dto.TravelLegResponse{
				DistanceMeters:  e.Travel.DistanceMeters,
				DurationSeconds: e.Travel.DurationSeconds,
				IsReturn:        e.Travel.IsReturn,
			}
		}
		out.Entries = append(out.Entries, entry)
	}
	if d.Connection != nil {
		out.Connection = &dto.ConnectionResponse{
			Status:          string(d.Connection.Status),
			DistanceMeters:  d.Connection.DistanceMeters,
			DurationSeconds: d.Connection.DurationSeconds,
		}
	}
	return out
}
