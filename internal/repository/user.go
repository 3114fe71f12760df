package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mediconnect/mediconnect/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

// CreateUser inserts a new user and sets user.ID to the assigned key.
// Duplicate emails are detected by the unique constraint, not a pre-check,
// so concurrent registrations resolve to exactly one winner.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	row := &userRow{
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Role:         user.Role,
	}

	_, err := r.db.NewInsert().
		Model(row).
		Column("name", "email", "password_hash", "role").
		Returning("id").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID = row.ID
	return nil
}

// GetUserByEmail retrieves a user by exact email match.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var row userRow
	err := r.db.NewSelect().
		Model(&row).
		Where("email = ?", email).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return userRowToModel(row), nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	var row userRow
	err := r.db.NewSelect().
		Model(&row).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return userRowToModel(row), nil
}
