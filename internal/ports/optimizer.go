package ports

import (
	"context"

	"itinerary-view-service/internal/domain"
)

// Settings forwarded verbatim to the external optimization service.
// The optimization algorithm itself is opaque to this service.
type OptimizeSettings struct {
	Days          int    `json:"days"`
	DayStart      string `json:"day_start"`
	DayEnd        string `json:"day_end"`
	ReturnToStart bool   `json:"return_to_start"`
	LunchBreak    bool   `json:"lunch_break"`
}

// Port: a boundary to the external itinerary optimizer.
type RouteOptimizer interface {
	// Compute a multi-day itinerary for the given locations. The result
	// is consumed read-only and replaced wholesale on the next call.
	Optimize(ctx context.Context, locations []domain.Location, settings OptimizeSettings) (*domain.Itinerary, error)
}
