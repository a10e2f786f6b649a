package application

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
)

// RoomService serves the room catalog and the availability view built on top
// of it.
type RoomService struct {
	rooms    RoomStore
	bookings BookingStore
	policy   booking.Policy
	now      func() time.Time
	logger   *slog.Logger
}

// NewRoomService constructs a room service with the provided collaborators.
func NewRoomService(rooms RoomStore, bookings BookingStore, policy booking.Policy, now func() time.Time, logger *slog.Logger) *RoomService {
	if now == nil {
		now = time.Now
	}
	return &RoomService{
		rooms:    rooms,
		bookings: bookings,
		policy:   policy,
		now:      now,
		logger:   defaultLogger(logger),
	}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// ListRooms returns the full room catalog.
func (s *RoomService) ListRooms(ctx context.Context) ([]Room, error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room store not configured")
	}

	records, err := s.rooms.ListRooms(ctx)
	if err != nil {
		err = mapBookingRepoError(err)
		s.loggerWith(ctx, "ListRooms").ErrorContext(ctx, "failed to list rooms", "error", err, "error_kind", ErrorKind(err))
		return nil, err
	}
	return toRooms(records), nil
}

// GetRoom retrieves a single catalog entry.
func (s *RoomService) GetRoom(ctx context.Context, roomID string) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room store not configured")
	}

	record, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, mapBookingRepoError(err)
	}
	return toRoom(record), nil
}

// ListRoomsWithStatus returns every room annotated with its availability at
// the moment of the call. Each room's status derives from its bookings for
// the remainder of the day; nothing is cached between calls.
func (s *RoomService) ListRoomsWithStatus(ctx context.Context) (result []RoomWithStatus, err error) {
	if s == nil || s.rooms == nil || s.bookings == nil {
		return nil, fmt.Errorf("room service not configured")
	}

	logger := s.loggerWith(ctx, "ListRoomsWithStatus")
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to compute room statuses", "error", err, "error_kind", ErrorKind(err))
		}
	}()

	records, err := s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}

	now := s.now()
	result = make([]RoomWithStatus, 0, len(records))
	for _, record := range records {
		status, err := s.statusAt(ctx, record.ID, now)
		if err != nil {
			return nil, err
		}
		result = append(result, RoomWithStatus{Room: toRoom(record), Status: status})
	}
	return result, nil
}

// GetRoomWithStatus returns one room annotated with its current availability.
func (s *RoomService) GetRoomWithStatus(ctx context.Context, roomID string) (RoomWithStatus, error) {
	if s == nil || s.rooms == nil || s.bookings == nil {
		return RoomWithStatus{}, fmt.Errorf("room service not configured")
	}

	record, err := s.rooms.GetRoom(ctx, roomID)
	if err != nil {
		return RoomWithStatus{}, mapBookingRepoError(err)
	}

	status, err := s.statusAt(ctx, record.ID, s.now())
	if err != nil {
		return RoomWithStatus{}, err
	}
	return RoomWithStatus{Room: toRoom(record), Status: status}, nil
}

// statusAt evaluates a room's availability from its bookings between now and
// the end of the day.
func (s *RoomService) statusAt(ctx context.Context, roomID string, now time.Time) (booking.RoomStatus, error) {
	until := startOfNextDay(now)
	records, err := s.bookings.ListBookings(ctx, persistence.BookingFilter{
		RoomID:    roomID,
		EndsAfter: &now,
		StartsBy:  &until,
	})
	if err != nil {
		return booking.RoomStatus{}, mapBookingRepoError(err)
	}

	engineBookings := make([]booking.Booking, 0, len(records))
	for _, record := range records {
		engineBookings = append(engineBookings, toEngineBooking(record))
	}
	return booking.ComputeStatus(now, engineBookings, s.policy), nil
}

func toRoom(record persistence.Room) Room {
	return Room{
		ID:          record.ID,
		Name:        record.Name,
		Type:        record.Type,
		Capacity:    record.Capacity,
		Features:    record.Features,
		Description: record.Description,
		ImageURL:    record.ImageURL,
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
	}
}

func toRooms(records []persistence.Room) []Room {
	if len(records) == 0 {
		return nil
	}
	out := make([]Room, 0, len(records))
	for _, record := range records {
		out = append(out, toRoom(record))
	}
	return out
}
