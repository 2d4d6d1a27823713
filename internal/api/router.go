package api

import (
	"net/http"

	"itinerary-view-service/internal/api/handlers"
	"itinerary-view-service/internal/mapsdk"
	"itinerary-view-service/internal/ports"
	"itinerary-view-service/internal/view"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay
// unaware of concrete adapters).
func NewRouter(
	optimizer ports.RouteOptimizer,
	geocoder ports.Geocoder,
	controller *view.Controller,
	surface *mapsdk.Map,
) http.Handler {
	mux := http.NewServeMux()

	planHandler := &handlers.PlanHandler{
		Optimizer:  optimizer,
		Geocoder:   geocoder,
		Controller: controller,
	}
	viewHandler := &handlers.ViewHandler{
		Controller: controller,
		Surface:    surface,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/plan", planHandler.Plan)
	mux.HandleFunc("/view", viewHandler.Select)
	mux.HandleFunc("/view/map", viewHandler.Map)
	mux.HandleFunc("/view/timeline", viewHandler.Timeline)

	return loggingMiddleware(mux)
}
