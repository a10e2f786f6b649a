package application

import (
	"errors"
	"fmt"

	"github.com/example/room-booking/internal/booking"
)

var (
	// ErrNotFound is returned when the requested resource does not exist.
	ErrNotFound = errors.New("application: not found")
)

// RejectionError carries the validator's tagged reason for refusing a
// proposed booking. It is an expected outcome, not an exceptional one: the
// transport layer maps the reason to a user-facing message. Write-time
// conflict losses from storage are re-surfaced under the same type with
// ReasonRoomConflict so both race outcomes look identical to callers.
type RejectionError struct {
	Reason booking.Reason
}

// Error implements the error interface.
func (e *RejectionError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("booking rejected: %s", e.Reason)
}

// Rejected wraps a validator reason in a RejectionError.
func Rejected(reason booking.Reason) *RejectionError {
	return &RejectionError{Reason: reason}
}

// ErrorKind maps errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrNotFound) {
		return "not_found"
	}

	var rej *RejectionError
	if errors.As(err, &rej) {
		return "rejected_" + string(rej.Reason)
	}

	return "unexpected"
}
