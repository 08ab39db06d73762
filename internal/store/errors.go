package store

import "errors"

var (
	// ErrNotFound is returned when no record with the requested id exists.
	ErrNotFound = errors.New("store: record not found")

	// ErrBusy is returned when a collection lock cannot be acquired within
	// the configured wait. Callers may retry.
	ErrBusy = errors.New("store: collection busy")

	// ErrUnavailable is returned when the backing file cannot be read or
	// written. An absent file is NOT unavailable; it reads as empty.
	ErrUnavailable = errors.New("store: collection unavailable")

	// ErrDecode is returned when the persisted contents do not parse as
	// the expected record shape.
	ErrDecode = errors.New("store: collection contents invalid")

	// ErrDuplicate is returned when a unique constraint is violated.
	ErrDuplicate = errors.New("store: duplicate value for unique field")

	// ErrDanglingReference is returned when an operation references a
	// parent record that does not exist. The operation's own write has
	// still been applied.
	ErrDanglingReference = errors.New("store: reference to missing parent record")
)
