// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/mediconnect/mediconnect/internal/model"
)

// RegisterRequest is the body of POST /register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body of POST /login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful login. Token is also set as a
// cookie; non-browser clients send it back as a Bearer token.
type LoginResponse struct {
	Message   string            `json:"message"`
	User      model.UserSummary `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// MeResponse is returned by GET /me.
type MeResponse struct {
	User model.UserSummary `json:"user"`
}

// CreateHospitalRequest is the body of POST /api/hospitals.
type CreateHospitalRequest struct {
	Name      string `json:"name"`
	Address   string `json:"address"`
	Latitude  Number `json:"latitude"`
	Longitude Number `json:"longitude"`
}

// CreateDoctorRequest is the body of POST /api/doctors.
type CreateDoctorRequest struct {
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Experience     Number `json:"experience"`
	HospitalID     Number `json:"hospital_id"`
	Contact        string `json:"contact"`
	Email          string `json:"email"`
}

// MessageResponse acknowledges a mutation. ID is set on creation.
type MessageResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id,omitempty"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ServiceInfo describes the API on GET /.
type ServiceInfo struct {
	Name      string   `json:"name"`
	Status    string   `json:"status"`
	Endpoints []string `json:"endpoints"`
}
