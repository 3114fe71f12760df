package handler

import (
	"log/slog"
	"net/http"

	"github.com/mediconnect/mediconnect/internal/handler/dto"
	"github.com/mediconnect/mediconnect/internal/service"
)

// HospitalHandler handles HTTP requests for hospitals.
type HospitalHandler struct {
	svc    *service.ProviderService
	logger *slog.Logger
}

// NewHospitalHandler creates a new HospitalHandler.
func NewHospitalHandler(svc *service.ProviderService, logger *slog.Logger) *HospitalHandler {
	return &HospitalHandler{svc: svc, logger: logger}
}

// List handles GET /api/hospitals.
func (h *HospitalHandler) List(w http.ResponseWriter, r *http.Request) {
	hospitals, err := h.svc.ListHospitals(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, hospitals)
}

// Create handles POST /api/hospitals.
func (h *HospitalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateHospitalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lat, err := req.Latitude.Float64()
	if err != nil {
		fieldError(w, "latitude", err)
		return
	}
	lng, err := req.Longitude.Float64()
	if err != nil {
		fieldError(w, "longitude", err)
		return
	}

	id, err := h.svc.CreateHospital(r.Context(), service.CreateHospitalInput{
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  lat,
		Longitude: lng,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("hospital_created", "hospital_id", id)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{
		Message: "Hospital added successfully!",
		ID:      id,
	})
}

// Delete handles DELETE /api/hospitals/{id}.
func (h *HospitalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteHospital(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("hospital_deleted", "hospital_id", id, "policy", string(h.svc.Policy()))

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Hospital deleted successfully!"})
}
