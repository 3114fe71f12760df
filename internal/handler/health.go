package handler

import (
	"context"
	"net/http"
	"time"
)

// readyTimeout bounds the dependency checks of a readiness probe.
const readyTimeout = 3 * time.Second

// HealthChecker defines an interface for checking service health.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler manages health check endpoints.
type HealthHandler struct {
	db       HealthChecker
	dbEngine string
	sessions HealthChecker
}

// NewHealthHandler creates a new HealthHandler. engine labels the database
// check. A nil sessions checker means sessions are held in process.
func NewHealthHandler(db HealthChecker, engine string, sessions HealthChecker) *HealthHandler {
	if engine == "" {
		engine = "database"
	}
	return &HealthHandler{
		db:       db,
		dbEngine: engine,
		sessions: sessions,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthz is a liveness probe. It never touches dependencies.
//
// GET /healthz
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Readyz is a readiness probe. It returns 200 only when the database and,
// if configured, Redis answer a ping.
//
// GET /readyz
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	checks := make(map[string]string, 2)
	healthy := true

	if h.db == nil {
		checks[h.dbEngine] = "not configured"
		healthy = false
	} else if err := h.db.Ping(ctx); err != nil {
		checks[h.dbEngine] = "error: " + err.Error()
		healthy = false
	} else {
		checks[h.dbEngine] = "ok"
	}

	if h.sessions == nil {
		checks["sessions"] = "in-process"
	} else if err := h.sessions.Ping(ctx); err != nil {
		checks["sessions"] = "error: " + err.Error()
		healthy = false
	} else {
		checks["sessions"] = "ok"
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "unhealthy", http.StatusServiceUnavailable
	}

	writeJSON(w, code, HealthResponse{Status: status, Checks: checks})
}
