// Package testfixtures provides deterministic clocks, identifier generators
// and record builders shared by tests across the module.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
)

var (
	roomCounter    uint64
	bookingCounter uint64
)

var referenceTime = time.Date(2025, time.December, 25, 12, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ----------------------------- Room fixtures -----------------------------

// RoomFixture represents a deterministic room record that can be materialised
// for application or persistence tests.
type RoomFixture struct {
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

// RoomOption configures the generated room fixture.
type RoomOption func(*RoomFixture)

// NewRoomFixture returns a deterministic room fixture with optional overrides.
func NewRoomFixture(opts ...RoomOption) RoomFixture {
	idx := atomic.AddUint64(&roomCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	fixture := RoomFixture{
		ID:        fmt.Sprintf("room-%03d", idx),
		Name:      fmt.Sprintf("Lokale 1.%02d", idx),
		Type:      "Klasselokale",
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithRoomID overrides the generated room ID.
func WithRoomID(id string) RoomOption {
	return func(f *RoomFixture) {
		f.ID = id
	}
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(f *RoomFixture) {
		f.Name = name
	}
}

// WithRoomType overrides the generated room type.
func WithRoomType(roomType string) RoomOption {
	return func(f *RoomFixture) {
		f.Type = roomType
	}
}

// WithRoomCapacity sets the capacity on the fixture.
func WithRoomCapacity(capacity int) RoomOption {
	return func(f *RoomFixture) {
		f.Capacity = &capacity
	}
}

// WithRoomFeatures sets the feature list on the fixture.
func WithRoomFeatures(features string) RoomOption {
	return func(f *RoomFixture) {
		f.Features = &features
	}
}

// Persistence converts the fixture into a persistence record.
func (f RoomFixture) Persistence() persistence.Room {
	return persistence.Room{
		ID:          f.ID,
		Name:        f.Name,
		Type:        f.Type,
		Capacity:    f.Capacity,
		Features:    f.Features,
		Description: f.Description,
		ImageURL:    f.ImageURL,
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   f.UpdatedAt,
	}
}

// --------------------------- Booking fixtures ----------------------------

// BookingFixture represents a deterministic booking record.
type BookingFixture struct {
	ID        string
	RoomID    string
	UserID    *string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BookingOption configures the generated booking fixture.
type BookingOption func(*BookingFixture)

// NewBookingFixture returns a deterministic booking fixture. Successive
// fixtures occupy consecutive one-hour slots starting at 13:00 on the
// reference day, so they never overlap unless a test makes them.
func NewBookingFixture(opts ...BookingOption) BookingFixture {
	idx := atomic.AddUint64(&bookingCounter, 1)
	start := referenceTime.Add(time.Hour + time.Duration(idx-1)*time.Hour)
	fixture := BookingFixture{
		ID:        fmt.Sprintf("booking-%03d", idx),
		RoomID:    "room-001",
		Start:     start,
		End:       start.Add(time.Hour),
		CreatedAt: referenceTime,
		UpdatedAt: referenceTime,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithBookingID overrides the generated booking ID.
func WithBookingID(id string) BookingOption {
	return func(f *BookingFixture) {
		f.ID = id
	}
}

// WithBookingRoom assigns the booking to a room.
func WithBookingRoom(roomID string) BookingOption {
	return func(f *BookingFixture) {
		f.RoomID = roomID
	}
}

// WithBookingUser assigns the booking to a user.
func WithBookingUser(userID string) BookingOption {
	return func(f *BookingFixture) {
		f.UserID = &userID
	}
}

// WithBookingInterval sets the start and end instants on the fixture.
func WithBookingInterval(start, end time.Time) BookingOption {
	return func(f *BookingFixture) {
		f.Start = start
		f.End = end
	}
}

// Persistence converts the fixture into a persistence record.
func (f BookingFixture) Persistence() persistence.Booking {
	return persistence.Booking{
		ID:        f.ID,
		RoomID:    f.RoomID,
		UserID:    f.UserID,
		Start:     f.Start,
		End:       f.End,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.UpdatedAt,
	}
}

// Engine converts the fixture into the validator's booking form.
func (f BookingFixture) Engine() booking.Booking {
	return booking.Booking{
		ID:     f.ID,
		RoomID: f.RoomID,
		UserID: f.UserID,
		Start:  f.Start,
		End:    f.End,
	}
}
