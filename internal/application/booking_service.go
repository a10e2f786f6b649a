package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
)

// BookingStore captures the persistence interactions needed by the service.
type BookingStore interface {
	CreateBooking(ctx context.Context, b persistence.Booking) error
	GetBooking(ctx context.Context, id string) (persistence.Booking, error)
	UpdateBookingTimes(ctx context.Context, id string, start, end, updatedAt time.Time) error
	ListBookings(ctx context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error)
	DeleteBooking(ctx context.Context, id string) error
}

// RoomStore exposes the room catalog lookups needed by the services.
type RoomStore interface {
	GetRoom(ctx context.Context, id string) (persistence.Room, error)
	ListRooms(ctx context.Context) ([]persistence.Room, error)
}

// BookingService wires the validator to persistence. The validator runs as
// the optimistic fast path; the store's own write-time overlap check is the
// authoritative one, and a write-time conflict is re-surfaced as the same
// RoomConflict rejection the validator would have produced.
type BookingService struct {
	bookings    BookingStore
	rooms       RoomStore
	policy      booking.Policy
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewBookingService constructs a booking service with the provided
// collaborators. The clock and id generator are injected so validation and
// persistence are deterministic under test.
func NewBookingService(bookings BookingStore, rooms RoomStore, policy booking.Policy, idGenerator func() string, now func() time.Time, logger *slog.Logger) *BookingService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &BookingService{
		bookings:    bookings,
		rooms:       rooms,
		policy:      policy,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *BookingService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BookingService", operation, attrs...)
}

// CreateBooking validates a proposed reservation and persists it when
// accepted. When the end time is omitted the start snaps to the slot grid
// and the policy's default duration fills the gap, matching the quick
// booking entry point.
func (s *BookingService) CreateBooking(ctx context.Context, params CreateBookingParams) (created Booking, err error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking store not configured")
	}

	logger := s.loggerWith(ctx, "CreateBooking", "room_id", params.RoomID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("booking_id", created.ID).InfoContext(ctx, "booking created")
	}()

	startTime, endTime := s.fillDefaultEnd(params.StartTime, params.EndTime)

	existing, err := s.bookingsOnDate(ctx, params.RoomID, params.Date)
	if err != nil {
		return Booking{}, err
	}

	decision := booking.Validate(s.now(), booking.Request{
		RoomID:    params.RoomID,
		Date:      params.Date,
		StartTime: startTime,
		EndTime:   endTime,
		UserID:    params.UserID,
	}, existing, s.policy)
	if !decision.Accepted {
		return Booking{}, Rejected(decision.Reason)
	}

	if err := s.ensureRoomExists(ctx, decision.Booking.RoomID); err != nil {
		return Booking{}, err
	}

	now := s.now()
	record := persistence.Booking{
		ID:        s.idGenerator(),
		RoomID:    decision.Booking.RoomID,
		UserID:    decision.Booking.UserID,
		Start:     decision.Booking.Start,
		End:       decision.Booking.End,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.bookings.CreateBooking(ctx, record); err != nil {
		return Booking{}, mapBookingRepoError(err)
	}

	return toBooking(record), nil
}

// UpdateBookingTimes re-validates an edited reservation against all other
// bookings for its room, excluding itself, then persists the new interval.
// Room and owner never change through this path.
func (s *BookingService) UpdateBookingTimes(ctx context.Context, params UpdateBookingTimesParams) (updated Booking, err error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking store not configured")
	}

	logger := s.loggerWith(ctx, "UpdateBookingTimes", "booking_id", params.BookingID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update booking", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "booking times updated")
	}()

	current, err := s.bookings.GetBooking(ctx, params.BookingID)
	if err != nil {
		return Booking{}, mapBookingRepoError(err)
	}

	// An edit that omits the date keeps the booking on its original day.
	date := strings.TrimSpace(params.Date)
	if date == "" {
		date = current.Start.Format(booking.DateLayout)
	}

	existing, err := s.bookingsOnDate(ctx, current.RoomID, date)
	if err != nil {
		return Booking{}, err
	}

	decision := booking.Validate(s.now(), booking.Request{
		RoomID:    current.RoomID,
		Date:      date,
		StartTime: params.StartTime,
		EndTime:   params.EndTime,
		UserID:    current.UserID,
		ExcludeID: current.ID,
	}, existing, s.policy)
	if !decision.Accepted {
		return Booking{}, Rejected(decision.Reason)
	}

	updatedAt := s.now()
	if err := s.bookings.UpdateBookingTimes(ctx, current.ID, decision.Booking.Start, decision.Booking.End, updatedAt); err != nil {
		return Booking{}, mapBookingRepoError(err)
	}

	current.Start = decision.Booking.Start
	current.End = decision.Booking.End
	current.UpdatedAt = updatedAt
	return toBooking(current), nil
}

// DeleteBooking cancels a reservation. Cancellation is unconditional; there
// is no rule set to consult.
func (s *BookingService) DeleteBooking(ctx context.Context, bookingID string) error {
	if s == nil || s.bookings == nil {
		return fmt.Errorf("booking store not configured")
	}

	logger := s.loggerWith(ctx, "DeleteBooking", "booking_id", bookingID)

	if err := s.bookings.DeleteBooking(ctx, bookingID); err != nil {
		err = mapBookingRepoError(err)
		logger.ErrorContext(ctx, "failed to delete booking", "error", err, "error_kind", ErrorKind(err))
		return err
	}

	logger.InfoContext(ctx, "booking deleted")
	return nil
}

// GetBooking retrieves a single reservation.
func (s *BookingService) GetBooking(ctx context.Context, bookingID string) (Booking, error) {
	if s == nil || s.bookings == nil {
		return Booking{}, fmt.Errorf("booking store not configured")
	}

	record, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return Booking{}, mapBookingRepoError(err)
	}
	return toBooking(record), nil
}

// ListRoomBookings returns a room's bookings for one calendar day, ordered
// by start time. An empty date means the remainder of today.
func (s *BookingService) ListRoomBookings(ctx context.Context, roomID, date string) ([]Booking, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking store not configured")
	}

	filter := persistence.BookingFilter{RoomID: roomID}
	if strings.TrimSpace(date) == "" {
		from := s.now()
		until := startOfNextDay(from)
		filter.EndsAfter = &from
		filter.StartsBy = &until
	} else {
		day, err := time.ParseInLocation(booking.DateLayout, strings.TrimSpace(date), s.now().Location())
		if err != nil {
			return nil, Rejected(booking.ReasonInvalidTime)
		}
		until := day.AddDate(0, 0, 1)
		filter.EndsAfter = &day
		filter.StartsBy = &until
	}

	records, err := s.bookings.ListBookings(ctx, filter)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return toBookings(records), nil
}

// ListUserBookings returns a user's reservations across rooms, upcoming only
// unless IncludePast is set.
func (s *BookingService) ListUserBookings(ctx context.Context, params ListUserBookingsParams) ([]Booking, error) {
	if s == nil || s.bookings == nil {
		return nil, fmt.Errorf("booking store not configured")
	}
	if strings.TrimSpace(params.UserID) == "" {
		return nil, nil
	}

	filter := persistence.BookingFilter{UserID: params.UserID}
	if !params.IncludePast {
		from := s.now()
		filter.EndsAfter = &from
	}

	records, err := s.bookings.ListBookings(ctx, filter)
	if err != nil {
		return nil, mapBookingRepoError(err)
	}
	return toBookings(records), nil
}

// fillDefaultEnd derives an end time when only a start was supplied,
// snapping the start onto the grid first.
func (s *BookingService) fillDefaultEnd(startTime, endTime string) (string, string) {
	if strings.TrimSpace(endTime) != "" || strings.TrimSpace(startTime) == "" {
		return startTime, endTime
	}

	snapped := booking.SnapToSlot(startTime, s.policy.SlotMinutes)
	start, err := booking.CombineDateTime(snapped, time.Time{})
	if err != nil {
		return startTime, endTime
	}
	return snapped, s.policy.DefaultEnd(start).Format("15:04")
}

// bookingsOnDate loads the room's bookings for the candidate's day so the
// validator has its conflict set. An unparseable date returns no bookings;
// the validator reports it before the conflict check runs.
func (s *BookingService) bookingsOnDate(ctx context.Context, roomID, date string) ([]booking.Booking, error) {
	if strings.TrimSpace(roomID) == "" {
		return nil, nil
	}
	day, err := time.ParseInLocation(booking.DateLayout, strings.TrimSpace(date), s.now().Location())
	if err != nil {
		return nil, nil
	}

	until := day.AddDate(0, 0, 1)
	records, err := s.bookings.ListBookings(ctx, persistence.BookingFilter{
		RoomID:    roomID,
		EndsAfter: &day,
		StartsBy:  &until,
	})
	if err != nil {
		return nil, mapBookingRepoError(err)
	}

	out := make([]booking.Booking, 0, len(records))
	for _, record := range records {
		out = append(out, toEngineBooking(record))
	}
	return out, nil
}

func (s *BookingService) ensureRoomExists(ctx context.Context, roomID string) error {
	if s.rooms == nil {
		return nil
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return mapBookingRepoError(err)
	}
	return nil
}

func toEngineBooking(record persistence.Booking) booking.Booking {
	return booking.Booking{
		ID:     record.ID,
		RoomID: record.RoomID,
		UserID: record.UserID,
		Start:  record.Start,
		End:    record.End,
	}
}

func toBooking(record persistence.Booking) Booking {
	return Booking{
		ID:        record.ID,
		RoomID:    record.RoomID,
		UserID:    record.UserID,
		Start:     record.Start,
		End:       record.End,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

func toBookings(records []persistence.Booking) []Booking {
	if len(records) == 0 {
		return nil
	}
	out := make([]Booking, 0, len(records))
	for _, record := range records {
		out = append(out, toBooking(record))
	}
	return out
}

func startOfNextDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

// mapBookingRepoError translates persistence sentinels into the service's
// error taxonomy. A write-time conflict becomes the RoomConflict rejection so
// the user sees one consistent conflict story regardless of which layer
// caught the race.
func mapBookingRepoError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, persistence.ErrConflict), errors.Is(err, persistence.ErrDuplicate):
		return Rejected(booking.ReasonRoomConflict)
	case errors.Is(err, persistence.ErrNotFound), errors.Is(err, persistence.ErrForeignKeyViolation):
		return ErrNotFound
	case errors.Is(err, persistence.ErrConstraintViolation):
		return Rejected(booking.ReasonEndBeforeStart)
	}
	return err
}
