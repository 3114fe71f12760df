package handler

import (
	"log/slog"
	"net/http"

	"github.com/mediconnect/mediconnect/internal/handler/dto"
	"github.com/mediconnect/mediconnect/internal/service"
)

// DoctorHandler handles HTTP requests for doctors.
type DoctorHandler struct {
	svc    *service.ProviderService
	logger *slog.Logger
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(svc *service.ProviderService, logger *slog.Logger) *DoctorHandler {
	return &DoctorHandler{svc: svc, logger: logger}
}

// List handles GET /api/doctors.
func (h *DoctorHandler) List(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.svc.ListDoctors(r.Context())
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, doctors)
}

// Create handles POST /api/doctors.
func (h *DoctorHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateDoctorRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	experience, err := req.Experience.Int()
	if err != nil {
		fieldError(w, "experience", err)
		return
	}
	hospitalID, err := req.HospitalID.Int64()
	if err != nil {
		fieldError(w, "hospital_id", err)
		return
	}

	id, err := h.svc.CreateDoctor(r.Context(), service.CreateDoctorInput{
		Name:           req.Name,
		Specialization: req.Specialization,
		Experience:     experience,
		HospitalID:     hospitalID,
		Contact:        req.Contact,
		Email:          req.Email,
	})
	if err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("doctor_created", "doctor_id", id, "hospital_id", *hospitalID)

	writeJSON(w, http.StatusCreated, dto.MessageResponse{
		Message: "Doctor added successfully!",
		ID:      id,
	})
}

// Delete handles DELETE /api/doctors/{id}.
func (h *DoctorHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteDoctor(r.Context(), id); err != nil {
		handleServiceError(w, r, h.logger, err)
		return
	}

	h.logger.Info("doctor_deleted", "doctor_id", id)

	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "Doctor deleted successfully!"})
}
