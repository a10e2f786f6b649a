package persistence

import "time"

// Room is a bookable physical space in the catalog. Rooms are maintained by
// administrative tooling and read-only through the service API.
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

// Booking is a stored reservation of one room for one contiguous interval.
// Start and End are wall-clock instants interpreted in local time; the
// interval is half-open, so an End never conflicts with an equal Start.
type Booking struct {
	ID        string
	RoomID    string
	UserID    *string
	Start     time.Time
	End       time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
