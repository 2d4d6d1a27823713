package ports

import (
	"context"

	"itinerary-view-service/internal/domain"
)

// Contract for retrieving detailed road geometry between two points.
type RouteProvider interface {
	// Return the routed path from origin to destination as an ordered
	// coordinate sequence. An empty path is an error, never a result.
	RouteBetweenPoints(ctx context.Context, origin, destination domain.Coordinates) ([]domain.Coordinates, error)
}
