package dto

type LocationRequest struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
	DurationMinutes int      `json:"duration_minutes"`
	Priority        string   `json:"priority"`
	Notes           string   `json:"notes"`
	IsStartPoint    bool     `json:"is_start_point"`
}

type PlanSettingsRequest struct {
	Days          int    `json:"days"`
	DayStart      string `json:"day_start"`
	DayEnd        string `json:"day_end"`
	ReturnToStart bool   `json:"return_to_start"`
	LunchBreak    bool   `json:"lunch_break"`
}

type PlanRequest struct {
	Locations []LocationRequest   `json:"locations"`
	Settings  PlanSettingsRequest `json:"settings"`
}

type StatsResponse struct {
	TotalDistanceMeters  int `json:"total_distance_meters"`
	TotalDurationSeconds int `json:"total_duration_seconds"`
	StopCount            int `json:"stop_count"`
}

type PlanResponse struct {
	Days   int            `json:"days"`
	Stats  StatsResponse  `json:"stats"`
	Render RenderResponse `json:"render"`
}
