// Package storage defines the persistence interface shared by the SQLite and
// PostgreSQL backends.
package storage

import "errors"

var (
	// ErrNotFound is returned when a row does not exist or is owned by another user
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a write violates a uniqueness constraint
	ErrConflict = errors.New("already exists")
)
