// Handler for miscellaneous endpoints such as health check

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/yumyai/ggsynteny/logger"
	"go.uber.org/zap"
)

type HealthResponse struct {
	Health    string    `json:"health"`
	Database  string    `json:"database"`
	Timestamp time.Time `json:"timestamp"`
}

// Generic envelope for API answers
type APIResponse struct {
	Success bool        `json:"success"`
	Payload interface{} `json:"payload,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Encoding response failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, APIResponse{Success: false, Error: err.Error()})
}

func writePayload(w http.ResponseWriter, payload interface{}) {
	writeJSON(w, http.StatusOK, APIResponse{Success: true, Payload: payload})
}

func (dbctx *DBContext) HealthCheck(w http.ResponseWriter, r *http.Request) {

	response := HealthResponse{
		Health:    "ok",
		Database:  "ok",
		Timestamp: time.Now(),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	if dbctx.Store == nil {
		response.Health = "degraded"
		response.Database = "not configured"
		status = http.StatusServiceUnavailable
	} else if err := dbctx.Store.Ping(ctx); err != nil {
		response.Health = "degraded"
		response.Database = err.Error()
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, response)
}
