package persistence

import "errors"

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("persistence: not found")
	// ErrConflict is returned when a booking write loses the race against a
	// concurrent overlapping booking for the same room.
	ErrConflict = errors.New("persistence: booking conflict")
	// ErrDuplicate is returned when a unique constraint rejects a record.
	ErrDuplicate = errors.New("persistence: duplicate record")
	// ErrConstraintViolation is returned when a check constraint rejects a
	// record, e.g. a booking whose end does not follow its start.
	ErrConstraintViolation = errors.New("persistence: constraint violation")
	// ErrForeignKeyViolation is returned when a referenced record is missing.
	ErrForeignKeyViolation = errors.New("persistence: foreign key violation")
)
