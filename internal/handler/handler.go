// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mediconnect/mediconnect/internal/handler/dto"
	"github.com/mediconnect/mediconnect/internal/middleware"
	"github.com/mediconnect/mediconnect/internal/service"
)

// Handler serves the informational and fallback routes.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Home describes the service.
// GET /
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.ServiceInfo{
		Name:   "MediConnect",
		Status: "running",
		Endpoints: []string{
			"POST /register",
			"POST /login",
			"POST /logout",
			"GET /me",
			"GET /api/hospitals",
			"GET /api/doctors",
			"GET /api/search?q=heart",
			"GET /healthz",
			"GET /readyz",
			"GET /metrics",
		},
	})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

// decodeJSON decodes the request body into v. Unknown fields are ignored
// so that form front ends can post extra inputs.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// pathID parses the {id} URL parameter. Routes constrain it to digits, so
// a failure here means an out-of-range id, which cannot exist.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "resource not found")
		return 0, false
	}
	return id, true
}

// fieldError reports a malformed numeric field.
func fieldError(w http.ResponseWriter, field string, err error) {
	writeError(w, http.StatusBadRequest, field+": "+err.Error())
}

// handleServiceError maps service errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, verr.Field+" "+verr.Reason)
	case errors.Is(err, service.ErrValidation):
		writeError(w, http.StatusBadRequest, "invalid request")
	case errors.Is(err, service.ErrDuplicateEmail):
		writeError(w, http.StatusConflict, "email already exists")
	case errors.Is(err, service.ErrAuthFailed):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, service.ErrSessionInvalid):
		writeError(w, http.StatusUnauthorized, "authentication required")
	case errors.Is(err, service.ErrHospitalNotFound):
		writeError(w, http.StatusBadRequest, "hospital not found")
	case errors.Is(err, service.ErrHospitalInUse):
		writeError(w, http.StatusConflict, "hospital is referenced by doctors")
	default:
		logger.Error("internal_error",
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.GetRequestID(r.Context())),
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
