package persistence

import (
	"context"
	"time"
)

// RoomRepository exposes storage operations for the room catalog.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) error
	UpdateRoom(ctx context.Context, room Room) error
	GetRoom(ctx context.Context, id string) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id string) error
}

// BookingFilter narrows booking queries. Zero fields are ignored.
type BookingFilter struct {
	RoomID    string
	UserID    string
	EndsAfter *time.Time
	StartsBy  *time.Time
}

// BookingRepository stores reservations. Writes enforce the no-overlap
// invariant per room and return ErrConflict when a candidate loses the race
// against a concurrent overlapping write; the validator's own check is only
// the optimistic fast path.
type BookingRepository interface {
	CreateBooking(ctx context.Context, booking Booking) error
	UpdateBookingTimes(ctx context.Context, id string, start, end, updatedAt time.Time) error
	GetBooking(ctx context.Context, id string) (Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}
