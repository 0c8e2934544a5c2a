package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/coworking-reservation/internal/api/response"
)

// Pinger is anything whose connectivity can be checked
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including database and cache connectivity
func ReadyCheck(db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			response.Error(w, http.StatusServiceUnavailable, "database not ready")
			return
		}
		if cache != nil {
			if err := cache.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "cache not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}
