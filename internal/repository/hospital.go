package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/mediconnect/mediconnect/internal/model"
)

// Common errors for hospital repository operations.
var (
	ErrHospitalNotFound   = errors.New("hospital not found")
	ErrHospitalReferenced = errors.New("hospital is referenced by doctors")
)

// ListHospitals returns every hospital.
func (r *Repository) ListHospitals(ctx context.Context) ([]model.Hospital, error) {
	var rows []hospitalRow
	if err := r.db.NewSelect().Model(&rows).Order("id ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list hospitals: %w", err)
	}

	hospitals := make([]model.Hospital, 0, len(rows))
	for _, row := range rows {
		hospitals = append(hospitals, hospitalRowToModel(row))
	}
	return hospitals, nil
}

// CreateHospital inserts a hospital and sets hospital.ID.
// Nil coordinates are stored as NULL.
func (r *Repository) CreateHospital(ctx context.Context, hospital *model.Hospital) error {
	row := &hospitalRow{
		Name:      hospital.Name,
		Address:   hospital.Address,
		Latitude:  hospital.Latitude,
		Longitude: hospital.Longitude,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Column("name", "address", "latitude", "longitude").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create hospital: %w", err)
	}

	hospital.ID = row.ID
	return nil
}

// DeleteHospital removes a hospital. Doctors referencing it are left
// untouched. It reports whether a row was removed; a missing id is not an
// error.
func (r *Repository) DeleteHospital(ctx context.Context, id int64) (bool, error) {
	return deleteHospital(ctx, r.db, id)
}

// DeleteHospitalRestrict removes a hospital only if no doctor references it.
// A missing id is a no-op even when dangling doctors still point at it.
func (r *Repository) DeleteHospitalRestrict(ctx context.Context, id int64) (bool, error) {
	var deleted bool
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		exists, err := hospitalExists(ctx, tx, id)
		if err != nil || !exists {
			return err
		}

		count, err := tx.NewSelect().
			Model((*doctorRow)(nil)).
			Where("hospital_id = ?", id).
			Count(ctx)
		if err != nil {
			return fmt.Errorf("failed to count referencing doctors: %w", err)
		}
		if count > 0 {
			return ErrHospitalReferenced
		}

		deleted, err = deleteHospital(ctx, tx, id)
		return err
	})
	return deleted, err
}

// DeleteHospitalCascade removes a hospital together with every doctor that
// references it, atomically. It reports whether the hospital row existed
// and how many doctors were removed with it.
func (r *Repository) DeleteHospitalCascade(ctx context.Context, id int64) (deleted bool, removed int64, err error) {
	err = r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewDelete().
			Model((*doctorRow)(nil)).
			Where("hospital_id = ?", id).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to delete referencing doctors: %w", err)
		}
		removed, err = res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to count deleted doctors: %w", err)
		}

		deleted, err = deleteHospital(ctx, tx, id)
		return err
	})
	if err != nil {
		return false, 0, err
	}
	return deleted, removed, nil
}

func hospitalExists(ctx context.Context, db bun.IDB, id int64) (bool, error) {
	exists, err := db.NewSelect().
		Model((*hospitalRow)(nil)).
		Where("id = ?", id).
		Exists(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to check hospital existence: %w", err)
	}
	return exists, nil
}

func deleteHospital(ctx context.Context, db bun.IDB, id int64) (bool, error) {
	res, err := db.NewDelete().
		Model((*hospitalRow)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to delete hospital: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return affected > 0, nil
}
