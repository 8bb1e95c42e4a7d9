// ABOUTME: Error kinds for store operations
// ABOUTME: Sentinels for not-found, conflict, and validation failures
package db

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks lookups, updates, and deletes against a name
	// with no matching row.
	ErrNotFound = errors.New("does not exist")

	// ErrConflict marks unique-name violations on create and rename.
	ErrConflict = errors.New("already exists")

	// ErrInvalid marks input rejected before any write was attempted.
	ErrInvalid = errors.New("invalid input")
)

func notFound(kind, name string) error {
	return fmt.Errorf("%s %q %w", kind, name, ErrNotFound)
}

func conflict(kind, name string) error {
	return fmt.Errorf("%s %q %w", kind, name, ErrConflict)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalid)
}
