package repository

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mediconnect/mediconnect/internal/model"
)

const listDoctorsQuery = `
	SELECT d.id, d.name, d.specialization, d.experience, d.hospital_id, d.contact, d.email,
	       h.name AS hospital_name
	FROM doctors AS d
	LEFT JOIN hospitals AS h ON d.hospital_id = h.id
	ORDER BY d.id ASC
`

// ListDoctors returns every doctor with its hospital's name. Doctors whose
// hospital is absent or deleted are included with a nil HospitalName.
func (r *Repository) ListDoctors(ctx context.Context) ([]model.DoctorWithHospital, error) {
	var rows []doctorJoinRow
	if err := r.db.NewRaw(listDoctorsQuery).Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}

	doctors := make([]model.DoctorWithHospital, 0, len(rows))
	for _, row := range rows {
		doctors = append(doctors, doctorJoinRowToModel(row))
	}
	return doctors, nil
}

// CreateDoctor inserts a doctor and sets doctor.ID. The hospital reference
// is not checked.
func (r *Repository) CreateDoctor(ctx context.Context, doctor *model.Doctor) error {
	return insertDoctor(ctx, r.db, doctor)
}

// CreateDoctorChecked inserts a doctor only if its hospital exists. The
// check and the insert share one transaction.
func (r *Repository) CreateDoctorChecked(ctx context.Context, doctor *model.Doctor) error {
	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if doctor.HospitalID == nil {
			return ErrHospitalNotFound
		}
		exists, err := hospitalExists(ctx, tx, *doctor.HospitalID)
		if err != nil {
			return err
		}
		if !exists {
			return ErrHospitalNotFound
		}
		return insertDoctor(ctx, tx, doctor)
	})
}

// DeleteDoctor removes a doctor. It reports whether a row was removed; a
// missing id is not an error.
func (r *Repository) DeleteDoctor(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.NewDelete().
		Model((*doctorRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete doctor: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}

func insertDoctor(ctx context.Context, db bun.IDB, doctor *model.Doctor) error {
	row := &doctorRow{
		Name:           doctor.Name,
		Specialization: doctor.Specialization,
		Experience:     doctor.Experience,
		HospitalID:     doctor.HospitalID,
		Contact:        doctor.Contact,
		Email:          doctor.Email,
	}

	_, err := db.NewInsert().
		Model(row).
		Column("name", "specialization", "experience", "hospital_id", "contact", "email").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}

	doctor.ID = row.ID
	return nil
}
