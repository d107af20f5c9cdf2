package handler

import (
	"net/http"
)

func NewRouter(dbctx *DBContext) *http.ServeMux {
	mux := http.NewServeMux()

	// Error route
	mux.HandleFunc("GET /favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Not Found", http.StatusNotFound)
	})

	mux.HandleFunc("GET /api/v1/health", dbctx.HealthCheck)

	// Block reports
	mux.HandleFunc("POST /api/v1/blocks/{dialect}", dbctx.ImportBlocksHandler)

	// Runs
	mux.HandleFunc("GET /api/v1/runs", dbctx.ListRunsHandler)
	mux.HandleFunc("GET /api/v1/runs/{run_id}", dbctx.GetRunHandler)
	mux.HandleFunc("GET /api/v1/runs/{run_id}/blocks", dbctx.GetRunBlocksHandler)
	mux.HandleFunc("GET /api/v1/runs/{run_id}/locations", dbctx.GetRunLocationsHandler)

	// Linear genome axis
	mux.HandleFunc("GET /api/v1/location", dbctx.GeneLocationHandler)
	mux.HandleFunc("GET /api/v1/homologs", dbctx.HomologHandler)

	return mux
}
