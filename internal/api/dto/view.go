package dto

import "time"

// ViewRequest selects the day scope. Day null or 0 means all days.
type ViewRequest struct {
	Day             *int `json:"day"`
	ShowConnections bool `json:"show_connections"`
}

type RenderResponse struct {
	Cycle       string `json:"cycle"`
	Markers     int    `json:"markers"`
	Segments    int    `json:"segments"`
	Connections int    `json:"connections"`
	Warning     string `json:"warning,omitempty"`
}

type ViewResponse struct {
	Day             int            `json:"day"` // 0 = all days
	ShowConnections bool           `json:"show_connections"`
	Render          RenderResponse `json:"render"`
}

type CoordsResponse struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type MarkerInfoResponse struct {
	Name            string    `json:"name"`
	Address         string    `json:"address,omitempty"`
	ArriveAt        time.Time `json:"arrive_at"`
	DurationMinutes int       `json:"duration_minutes,omitempty"`
	DistanceMeters  int       `json:"distance_meters,omitempty"`
	Notes           string    `json:"notes,omitempty"`
}

type MarkerResponse struct {
	ID       string             `json:"id"`
	Position CoordsResponse     `json:"position"`
	Label    string             `json:"label"`
	Color    string             `json:"color"`
	Info     MarkerInfoResponse `json:"info"`
}

type PolylineResponse struct {
	ID     string           `json:"id"`
	Path   []CoordsResponse `json:"path"`
	Color  string           `json:"color"`
	Dashed bool             `json:"dashed"`
}

type ViewportResponse struct {
	Min CoordsResponse `json:"min"`
	Max CoordsResponse `json:"max"`
}

type MapResponse struct {
	Cycle     string             `json:"cycle"`
	Markers   []MarkerResponse   `json:"markers"`
	Polylines []PolylineResponse `json:"polylines"`
	Viewport  *ViewportResponse  `json:"viewport,omitempty"`
	Warning   string             `json:"warning,omitempty"`
}

type TravelLegResponse struct {
	DistanceMeters  int  `json:"distance_meters"`
	DurationSeconds int  `json:"duration_seconds"`
	IsReturn        bool `json:"is_return,omitempty"`
}

type TimelineEntryResponse struct {
	Kind            string             `json:"kind"`
	Label           string             `json:"label,omitempty"`
	Name            string             `json:"name"`
	Address         string             `json:"address,omitempty"`
	ArriveAt        time.Time          `json:"arrive_at"`
	DepartAt        time.Time          `json:"depart_at"`
	DurationMinutes int                `json:"duration_minutes,omitempty"`
	Continuation    bool               `json:"continuation,omitempty"`
	Travel          *TravelLegResponse `json:"travel,omitempty"`
	Notes           string             `json:"notes,omitempty"`
}

type ConnectionResponse struct {
	Status          string `json:"status"`
	DistanceMeters  int    `json:"distance_meters,omitempty"`
	DurationSeconds int    `json:"duration_seconds,omitempty"`
}

type TimelineDayResponse struct {
	DayNumber  int                     `json:"day_number"`
	Date       string                  `json:"date"`
	Entries    []TimelineEntryResponse `json:"entries"`
	Connection *ConnectionResponse     `json:"connection,omitempty"`
}

type TimelineResponse struct {
	Days    []TimelineDayResponse `json:"days"`
	Warning string                `json:"warning,omitempty"`
}
