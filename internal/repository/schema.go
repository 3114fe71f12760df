package repository

import (
	"context"
	"fmt"
)

// EnsureSchema creates the users, hospitals and doctors tables if they do
// not exist. It never alters or drops existing tables and is safe to call
// on every start.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	tables := []struct {
		name  string
		model any
	}{
		{"users", (*userRow)(nil)},
		{"hospitals", (*hospitalRow)(nil)},
		{"doctors", (*doctorRow)(nil)},
	}

	for _, t := range tables {
		if _, err := r.db.NewCreateTable().Model(t.model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create %s table: %w", t.name, err)
		}
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS; lookups there fall back to a scan.
	if r.engine != EngineMySQL {
		_, err := r.db.NewCreateIndex().
			Model((*doctorRow)(nil)).
			Index("doctors_hospital_id_idx").
			Column("hospital_id").
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to create doctors hospital index: %w", err)
		}
	}

	return nil
}
