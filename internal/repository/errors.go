package repository

import "errors"

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a write violates a uniqueness or
	// foreign key constraint.
	ErrConflict = errors.New("constraint violation")
)
