package api

import (
	"net/http"

	"freight-break-service/internal/api/handlers"
	"freight-break-service/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an
// http.Handler. This is the API composition root (handlers stay unaware of
// concrete adapters).
func NewRouter(
	paths ports.PathRepository,
	scenario ports.ScenarioRepository,
	results ports.ResultStore,
	plans ports.PlanCache,
	defaultSpeedKmh float64,
) http.Handler {
	mux := http.NewServeMux()

	pathHandler := &handlers.PathHandler{Repo: paths}
	breakHandler := &handlers.BreakHandler{Results: results}
	floorHandler := &handlers.FloorHandler{Results: results}
	preprocessHandler := &handlers.PreprocessHandler{
		Paths:           paths,
		Scenario:        scenario,
		Results:         results,
		Plans:           plans,
		DefaultSpeedKmh: defaultSpeedKmh,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/paths", pathHandler.List)
	mux.HandleFunc("/breaks", breakHandler.List)
	mux.HandleFunc("/floors", floorHandler.List)
	mux.HandleFunc("/preprocess", preprocessHandler.Run)

	return loggingMiddleware(mux)
}
