package api

import (
	"net/http"

	"tour-route-service/internal/api/handlers"
	"tour-route-service/internal/ports"
	"tour-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(venues ports.VenueRepository, planner *services.PlanService) http.Handler {
	mux := http.NewServeMux()

	venueHandler := &handlers.VenueHandler{Repo: venues}
	optimizeHandler := &handlers.OptimizeHandler{Planner: planner}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/venues", venueHandler.List)
	mux.HandleFunc("/optimize", optimizeHandler.Preview)
	mux.HandleFunc("/optimize/apply", optimizeHandler.Apply)

	return loggingMiddleware(mux)
}
