package model

// Doctor represents a practitioner.
// HospitalID is a weak reference: it may be nil, and it may point at a
// hospital that has since been deleted.
type Doctor struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization"`
	Experience     int    `json:"experience"`
	HospitalID     *int64 `json:"hospital_id"`
	Contact        string `json:"contact"`
	Email          string `json:"email"`
}

// DoctorWithHospital is a doctor row joined with its hospital's name.
// HospitalName is nil when the reference is absent or dangling.
type DoctorWithHospital struct {
	Doctor
	HospitalName *string `json:"hospital_name"`
}

// ProviderMatch is a single search hit: a doctor together with the
// hospital it resolves to.
type ProviderMatch struct {
	DoctorID        int64  `json:"doctor_id"`
	DoctorName      string `json:"doctor_name"`
	Specialization  string `json:"specialization"`
	Experience      int    `json:"experience"`
	Contact         string `json:"contact"`
	Email           string `json:"email"`
	HospitalID      int64  `json:"hospital_id"`
	HospitalName    string `json:"hospital_name"`
	HospitalAddress string `json:"address"`
}
