package repository

import (
	"database/sql"

	"github.com/uptrace/bun"

	"github.com/mediconnect/mediconnect/internal/model"
)

// userRow maps the users table.
type userRow struct {
	bun.BaseModel `bun:"table:users"`

	ID           int64  `bun:"id,pk,autoincrement"`
	Name         string `bun:"name,notnull"`
	Email        string `bun:"email,notnull,unique"`
	PasswordHash string `bun:"password_hash,notnull"`
	Role         string `bun:"role,notnull,default:'user'"`
}

// hospitalRow maps the hospitals table.
type hospitalRow struct {
	bun.BaseModel `bun:"table:hospitals"`

	ID        int64    `bun:"id,pk,autoincrement"`
	Name      string   `bun:"name,notnull"`
	Address   string   `bun:"address,notnull"`
	Latitude  *float64 `bun:"latitude"`
	Longitude *float64 `bun:"longitude"`
}

// doctorRow maps the doctors table.
// hospital_id carries no foreign key constraint: the reference is weak.
type doctorRow struct {
	bun.BaseModel `bun:"table:doctors"`

	ID             int64  `bun:"id,pk,autoincrement"`
	Name           string `bun:"name,notnull"`
	Specialization string `bun:"specialization,notnull"`
	Experience     int    `bun:"experience,notnull"`
	HospitalID     *int64 `bun:"hospital_id"`
	Contact        string `bun:"contact,notnull"`
	Email          string `bun:"email,notnull"`
}

// doctorJoinRow is a doctors LEFT JOIN hospitals row.
type doctorJoinRow struct {
	ID             int64          `bun:"id"`
	Name           string         `bun:"name"`
	Specialization string         `bun:"specialization"`
	Experience     int            `bun:"experience"`
	HospitalID     sql.NullInt64  `bun:"hospital_id"`
	Contact        string         `bun:"contact"`
	Email          string         `bun:"email"`
	HospitalName   sql.NullString `bun:"hospital_name"`
}

// providerMatchRow is a doctors INNER JOIN hospitals row.
type providerMatchRow struct {
	DoctorID        int64  `bun:"doctor_id"`
	DoctorName      string `bun:"doctor_name"`
	Specialization  string `bun:"specialization"`
	Experience      int    `bun:"experience"`
	Contact         string `bun:"contact"`
	Email           string `bun:"email"`
	HospitalID      int64  `bun:"hospital_id"`
	HospitalName    string `bun:"hospital_name"`
	HospitalAddress string `bun:"hospital_address"`
}

func userRowToModel(r userRow) *model.User {
	return &model.User{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		Role:         r.Role,
	}
}

func hospitalRowToModel(r hospitalRow) model.Hospital {
	return model.Hospital{
		ID:        r.ID,
		Name:      r.Name,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
	}
}

func doctorJoinRowToModel(r doctorJoinRow) model.DoctorWithHospital {
	out := model.DoctorWithHospital{
		Doctor: model.Doctor{
			ID:             r.ID,
			Name:           r.Name,
			Specialization: r.Specialization,
			Experience:     r.Experience,
			Contact:        r.Contact,
			Email:          r.Email,
		},
	}
	if r.HospitalID.Valid {
		id := r.HospitalID.Int64
		out.HospitalID = &id
	}
	if r.HospitalName.Valid {
		name := r.HospitalName.String
		out.HospitalName = &name
	}
	return out
}

func providerMatchRowToModel(r providerMatchRow) model.ProviderMatch {
	return model.ProviderMatch{
		DoctorID:        r.DoctorID,
		DoctorName:      r.DoctorName,
		Specialization:  r.Specialization,
		Experience:      r.Experience,
		Contact:         r.Contact,
		Email:           r.Email,
		HospitalID:      r.HospitalID,
		HospitalName:    r.HospitalName,
		HospitalAddress: r.HospitalAddress,
	}
}
