package application

import (
	"time"

	"github.com/example/room-booking/internal/booking"
)

// Room is a catalog entry for a bookable space as exposed by the services.
type Room struct {
	ID          string
	Name        string
	Type        string
	Capacity    *int
	Features    *string
	Description *string
	ImageURL    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RoomWithStatus pairs a room with its status computed at read time. The
// status is derived fresh on every call and never persisted.
type RoomWithStatus struct {
	Room   Room
	Status booking.RoomStatus
}

// Booking is a persisted reservation as exposed by the services.
type Booking struct {
	ID        string
	RoomID    string
	UserID    *string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateBookingParams carries the raw user input for a new reservation. Date
// is a calendar date in booking.DateLayout form; StartTime and EndTime are
// HH:MM wall-clock values. EndTime may be empty, in which case the policy's
// default duration is filled in after the start time snaps to the grid.
type CreateBookingParams struct {
	RoomID    string
	Date      string
	StartTime string
	EndTime   string
	UserID    *string
}

// UpdateBookingTimesParams carries the new interval for an existing
// reservation. Only the times may change; room and owner are fixed.
type UpdateBookingTimesParams struct {
	BookingID string
	Date      string
	StartTime string
	EndTime   string
}

// ListUserBookingsParams narrows the per-user booking listing.
type ListUserBookingsParams struct {
	UserID      string
	IncludePast bool
}
