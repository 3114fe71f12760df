// Package service provides business logic for the application.
package service

import (
	"errors"
	"fmt"
)

// Service errors.
var (
	ErrValidation       = errors.New("validation failed")
	ErrDuplicateEmail   = errors.New("email already exists")
	ErrAuthFailed       = errors.New("invalid email or password")
	ErrStorage          = errors.New("storage failure")
	ErrHospitalNotFound = errors.New("hospital not found")
	ErrHospitalInUse    = errors.New("hospital is referenced by doctors")
)

// ValidationError reports a missing or malformed input field.
// It matches ErrValidation under errors.Is.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation, e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func required(field string) error {
	return &ValidationError{Field: field, Reason: "is required"}
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// storageError marks err as a store failure outside this service's control.
func storageError(op string, err error) error {
	return fmt.Errorf("%w: failed to %s: %w", ErrStorage, op, err)
}
