package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/mediconnect/mediconnect/internal/metrics"
	"github.com/mediconnect/mediconnect/internal/model"
	"github.com/mediconnect/mediconnect/internal/repository"
)

// ProviderStore persists hospitals and doctors.
type ProviderStore interface {
	ListHospitals(ctx context.Context) ([]model.Hospital, error)
	CreateHospital(ctx context.Context, hospital *model.Hospital) error
	DeleteHospital(ctx context.Context, id int64) (bool, error)
	DeleteHospitalRestrict(ctx context.Context, id int64) (bool, error)
	DeleteHospitalCascade(ctx context.Context, id int64) (deleted bool, removed int64, err error)

	ListDoctors(ctx context.Context) ([]model.DoctorWithHospital, error)
	CreateDoctor(ctx context.Context, doctor *model.Doctor) error
	CreateDoctorChecked(ctx context.Context, doctor *model.Doctor) error
	DeleteDoctor(ctx context.Context, id int64) (bool, error)
}

// ProviderService manages the hospital and doctor registry.
type ProviderService struct {
	store   ProviderStore
	policy  model.ReferencePolicy
	metrics metrics.Recorder
}

// NewProviderService creates a new ProviderService.
// An empty policy means model.ReferenceSoft.
func NewProviderService(store ProviderStore, policy model.ReferencePolicy, recorder metrics.Recorder) *ProviderService {
	if policy == "" {
		policy = model.ReferenceSoft
	}
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &ProviderService{
		store:   store,
		policy:  policy,
		metrics: recorder,
	}
}

// Policy returns the active reference policy.
func (s *ProviderService) Policy() model.ReferencePolicy {
	return s.policy
}

// CreateHospitalInput defines input for creating a hospital.
type CreateHospitalInput struct {
	Name      string
	Address   string
	Latitude  *float64
	Longitude *float64
}

// CreateDoctorInput defines input for creating a doctor. Pointer fields
// distinguish an omitted value from zero.
type CreateDoctorInput struct {
	Name           string
	Specialization string
	Experience     *int
	HospitalID     *int64
	Contact        string
	Email          string
}

// ListHospitals returns every hospital.
func (s *ProviderService) ListHospitals(ctx context.Context) ([]model.Hospital, error) {
	hospitals, err := s.store.ListHospitals(ctx)
	if err != nil {
		return nil, storageError("list hospitals", err)
	}
	return hospitals, nil
}

// CreateHospital validates input and stores a hospital, returning its id.
func (s *ProviderService) CreateHospital(ctx context.Context, input CreateHospitalInput) (int64, error) {
	if strings.TrimSpace(input.Name) == "" {
		return 0, required("name")
	}
	if strings.TrimSpace(input.Address) == "" {
		return 0, required("address")
	}
	if err := validateCoordinate("latitude", input.Latitude, 90); err != nil {
		return 0, err
	}
	if err := validateCoordinate("longitude", input.Longitude, 180); err != nil {
		return 0, err
	}

	hospital := &model.Hospital{
		Name:      input.Name,
		Address:   input.Address,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
	}
	if err := s.store.CreateHospital(ctx, hospital); err != nil {
		return 0, storageError("create hospital", err)
	}

	s.metrics.IncHospitalCreated()

	return hospital.ID, nil
}

// DeleteHospital removes a hospital. Deleting a missing id succeeds.
// What happens to referencing doctors depends on the reference policy.
func (s *ProviderService) DeleteHospital(ctx context.Context, id int64) error {
	switch s.policy {
	case model.ReferenceReject:
		deleted, err := s.store.DeleteHospitalRestrict(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrHospitalReferenced) {
				return ErrHospitalInUse
			}
			return storageError("delete hospital", err)
		}
		if deleted {
			s.metrics.IncHospitalDeleted()
		}
		return nil

	case model.ReferenceCascade:
		deleted, removed, err := s.store.DeleteHospitalCascade(ctx, id)
		if err != nil {
			return storageError("delete hospital", err)
		}
		if deleted {
			s.metrics.IncHospitalDeleted()
		}
		if removed > 0 {
			s.metrics.IncDoctorDeleted(int(removed))
		}
		return nil

	default:
		deleted, err := s.store.DeleteHospital(ctx, id)
		if err != nil {
			return storageError("delete hospital", err)
		}
		if deleted {
			s.metrics.IncHospitalDeleted()
		}
		return nil
	}
}

// ListDoctors returns every doctor with the name of its hospital, if any.
func (s *ProviderService) ListDoctors(ctx context.Context) ([]model.DoctorWithHospital, error) {
	doctors, err := s.store.ListDoctors(ctx)
	if err != nil {
		return nil, storageError("list doctors", err)
	}
	return doctors, nil
}

// CreateDoctor validates input and stores a doctor, returning its id.
// Under the soft policy the hospital id is stored without checking it.
func (s *ProviderService) CreateDoctor(ctx context.Context, input CreateDoctorInput) (int64, error) {
	if strings.TrimSpace(input.Name) == "" {
		return 0, required("name")
	}
	if strings.TrimSpace(input.Specialization) == "" {
		return 0, required("specialization")
	}
	if input.Experience == nil {
		return 0, required("experience")
	}
	if *input.Experience < 0 {
		return 0, invalid("experience", "must not be negative")
	}
	if input.HospitalID == nil {
		return 0, required("hospital_id")
	}
	if strings.TrimSpace(input.Contact) == "" {
		return 0, required("contact")
	}
	if strings.TrimSpace(input.Email) == "" {
		return 0, required("email")
	}

	hospitalID := *input.HospitalID
	doctor := &model.Doctor{
		Name:           input.Name,
		Specialization: input.Specialization,
		Experience:     *input.Experience,
		HospitalID:     &hospitalID,
		Contact:        input.Contact,
		Email:          input.Email,
	}

	var err error
	if s.policy.IsStrict() {
		err = s.store.CreateDoctorChecked(ctx, doctor)
	} else {
		err = s.store.CreateDoctor(ctx, doctor)
	}
	if err != nil {
		if errors.Is(err, repository.ErrHospitalNotFound) {
			return 0, ErrHospitalNotFound
		}
		return 0, storageError("create doctor", err)
	}

	s.metrics.IncDoctorCreated()

	return doctor.ID, nil
}

// DeleteDoctor removes a doctor. Deleting a missing id succeeds.
func (s *ProviderService) DeleteDoctor(ctx context.Context, id int64) error {
	deleted, err := s.store.DeleteDoctor(ctx, id)
	if err != nil {
		return storageError("delete doctor", err)
	}
	if deleted {
		s.metrics.IncDoctorDeleted(1)
	}
	return nil
}

func validateCoordinate(field string, v *float64, limit float64) error {
	if v == nil {
		return nil
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < -limit || *v > limit {
		return invalid(field, "is out of range")
	}
	return nil
}
