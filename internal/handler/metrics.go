package handler

import (
	"fmt"
	"net/http"

	"github.com/mediconnect/mediconnect/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		writeError(w, http.StatusServiceUnavailable, "metrics disabled")
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeCounter(w, "mediconnect_users_registered_total", "", snap.UsersRegistered)
	writeCounter(w, "mediconnect_auth_attempts_total", `outcome="accepted"`, snap.AuthAccepted)
	writeCounter(w, "mediconnect_auth_attempts_total", `outcome="rejected"`, snap.AuthRejected)

	writeCounter(w, "mediconnect_hospitals_created_total", "", snap.HospitalsCreated)
	writeCounter(w, "mediconnect_hospitals_deleted_total", "", snap.HospitalsDeleted)
	writeCounter(w, "mediconnect_doctors_created_total", "", snap.DoctorsCreated)
	writeCounter(w, "mediconnect_doctors_deleted_total", "", snap.DoctorsDeleted)

	writeCounter(w, "mediconnect_searches_total", "", snap.Searches)
	writeCounter(w, "mediconnect_search_results_total", "", snap.SearchResults)
	_, _ = fmt.Fprintf(w, "mediconnect_search_duration_seconds_sum %.6f\n", float64(snap.SearchDurationTotalNs)/1e9)
}

func writeCounter(w http.ResponseWriter, name, labels string, value uint64) {
	if labels != "" {
		_, _ = fmt.Fprintf(w, "%s{%s} %d\n", name, labels, value)
		return
	}
	_, _ = fmt.Fprintf(w, "%s %d\n", name, value)
}
