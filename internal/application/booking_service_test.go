package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/room-booking/internal/booking"
	"github.com/example/room-booking/internal/persistence"
	"github.com/example/room-booking/internal/testfixtures"
)

var testReference = testfixtures.ReferenceTime()

type stubBookingStore struct {
	records map[string]persistence.Booking

	createErr error
	updateErr error
	listErr   error
}

func newStubBookingStore(records ...persistence.Booking) *stubBookingStore {
	store := &stubBookingStore{records: map[string]persistence.Booking{}}
	for _, record := range records {
		store.records[record.ID] = record
	}
	return store
}

func (s *stubBookingStore) CreateBooking(_ context.Context, b persistence.Booking) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.records[b.ID]; ok {
		return persistence.ErrDuplicate
	}
	s.records[b.ID] = b
	return nil
}

func (s *stubBookingStore) GetBooking(_ context.Context, id string) (persistence.Booking, error) {
	record, ok := s.records[id]
	if !ok {
		return persistence.Booking{}, persistence.ErrNotFound
	}
	return record, nil
}

func (s *stubBookingStore) UpdateBookingTimes(_ context.Context, id string, start, end, updatedAt time.Time) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	record, ok := s.records[id]
	if !ok {
		return persistence.ErrNotFound
	}
	record.Start = start
	record.End = end
	record.UpdatedAt = updatedAt
	s.records[id] = record
	return nil
}

func (s *stubBookingStore) ListBookings(_ context.Context, filter persistence.BookingFilter) ([]persistence.Booking, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []persistence.Booking
	for _, record := range s.records {
		if filter.RoomID != "" && record.RoomID != filter.RoomID {
			continue
		}
		if filter.UserID != "" && (record.UserID == nil || *record.UserID != filter.UserID) {
			continue
		}
		if filter.EndsAfter != nil && record.End.Before(*filter.EndsAfter) {
			continue
		}
		if filter.StartsBy != nil && !record.Start.Before(*filter.StartsBy) {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *stubBookingStore) DeleteBooking(_ context.Context, id string) error {
	if _, ok := s.records[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

type stubRoomStore struct {
	rooms   []persistence.Room
	listErr error
}

func (s *stubRoomStore) GetRoom(_ context.Context, id string) (persistence.Room, error) {
	for _, room := range s.rooms {
		if room.ID == id {
			return room, nil
		}
	}
	return persistence.Room{}, persistence.ErrNotFound
}

func (s *stubRoomStore) ListRooms(_ context.Context) ([]persistence.Room, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.rooms, nil
}

func testRoomStore(ids ...string) *stubRoomStore {
	store := &stubRoomStore{}
	for i, id := range ids {
		store.rooms = append(store.rooms, persistence.Room{
			ID:        id,
			Name:      fmt.Sprintf("Lokale 1.%02d", i+1),
			Type:      "Klasselokale",
			CreatedAt: testReference,
			UpdatedAt: testReference,
		})
	}
	return store
}

func storedBooking(id, roomID string, start, end time.Time) persistence.Booking {
	return testfixtures.NewBookingFixture(
		testfixtures.WithBookingID(id),
		testfixtures.WithBookingRoom(roomID),
		testfixtures.WithBookingInterval(start, end),
	).Persistence()
}

func newTestBookingService(store *stubBookingStore, rooms *stubRoomStore) *BookingService {
	clock := testfixtures.NewClock(testReference)
	return NewBookingService(store, rooms, booking.DefaultPolicy(), testfixtures.NewIDGenerator("bk").NextFunc(), clock.NowFunc(), nil)
}

func requireRejection(t *testing.T, err error, want booking.Reason) {
	t.Helper()
	var rej *RejectionError
	if !errors.As(err, &rej) {
		t.Fatalf("expected rejection, got %v", err)
	}
	if rej.Reason != want {
		t.Fatalf("expected reason %s, got %s", want, rej.Reason)
	}
}

func TestBookingService_CreateBooking(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("persists an accepted booking", func(t *testing.T) {
		t.Parallel()
		store := newStubBookingStore()
		service := newTestBookingService(store, testRoomStore("room-1"))

		created, err := service.CreateBooking(ctx, CreateBookingParams{
			RoomID:    "room-1",
			Date:      "2025-12-25",
			StartTime: "13:00",
			EndTime:   "14:30",
		})
		if err != nil {
			t.Fatalf("CreateBooking returned error: %v", err)
		}
		if created.ID != "bk-1" {
			t.Fatalf("expected generated id bk-1, got %q", created.ID)
		}
		wantStart := time.Date(2025, time.December, 25, 13, 0, 0, 0, time.UTC)
		if !created.Start.Equal(wantStart) || !created.End.Equal(wantStart.Add(90*time.Minute)) {
			t.Fatalf("unexpected interval %v..%v", created.Start, created.End)
		}
		if _, ok := store.records["bk-1"]; !ok {
			t.Fatal("expected booking to be persisted")
		}
	})

	t.Run("fills the default duration when the end is omitted", func(t *testing.T) {
		t.Parallel()
		store := newStubBookingStore()
		service := newTestBookingService(store, testRoomStore("room-1"))

		created, err := service.CreateBooking(ctx, CreateBookingParams{
			RoomID:    "room-1",
			Date:      "2025-12-25",
			StartTime: "13:15",
		})
		if err != nil {
			t.Fatalf("CreateBooking returned error: %v", err)
		}
		wantStart := time.Date(2025, time.December, 25, 13, 0, 0, 0, time.UTC)
		if !created.Start.Equal(wantStart) {
			t.Fatalf("expected start snapped to %v, got %v", wantStart, created.Start)
		}
		if !created.End.Equal(wantStart.Add(30 * time.Minute)) {
			t.Fatalf("expected one slot of duration, got end %v", created.End)
		}
	})

	t.Run("rejects a conflicting booking before writing", func(t *testing.T) {
		t.Parallel()
		existing := storedBooking("bk-existing", "room-1",
			time.Date(2025, time.December, 25, 13, 0, 0, 0, time.UTC),
			time.Date(2025, time.December, 25, 15, 0, 0, 0, time.UTC))
		store := newStubBookingStore(existing)
		service := newTestBookingService(store, testRoomStore("room-1"))

		_, err := service.CreateBooking(ctx, CreateBookingParams{
			RoomID:    "room-1",
			Date:      "2025-12-25",
			StartTime: "14:00",
			EndTime:   "16:00",
		})
		requireRejection(t, err, booking.ReasonRoomConflict)
		if len(store.records) != 1 {
			t.Fatal("rejected booking must not be persisted")
		}
	})

	t.Run("maps a write-time conflict to the same rejection", func(t *testing.T) {
		t.Parallel()
		store := newStubBookingStore()
		store.createErr = persistence.ErrConflict
		service := newTestBookingService(store, testRoomStore("room-1"))

		_, err := service.CreateBooking(ctx, CreateBookingParams{
			RoomID:    "room-1",
			Date:      "2025-12-25",
			StartTime: "13:00",
			EndTime:   "14:00",
		})
		requireRejection(t, err, booking.ReasonRoomConflict)
	})

	t.Run("reports an unknown room as not found", func(t *testing.T) {
		t.Parallel()
		service := newTestBookingService(newStubBookingStore(), testRoomStore("room-1"))

		_, err := service.CreateBooking(ctx, CreateBookingParams{
			RoomID:    "room-404",
			Date:      "2025-12-25",
			StartTime: "13:00",
			EndTime:   "14:00",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reports missing fields before touching the store", func(t *testing.T) {
		t.Parallel()
		store := newStubBookingStore()
		store.listErr = errors.New("store must not be queried")
		service := newTestBookingService(store, testRoomStore("room-1"))

		_, err := service.CreateBooking(ctx, CreateBookingParams{
			Date:      "2025-12-25",
			StartTime: "13:00",
			EndTime:   "14:00",
		})
		requireRejection(t, err, booking.ReasonMissingRoom)
	})
}

func TestBookingService_UpdateBookingTimes(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	day := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)

	t.Run("moves a booking while excluding itself from the conflict check", func(t *testing.T) {
		t.Parallel()
		store := newStubBookingStore(storedBooking("bk-1", "room-1", day.Add(13*time.Hour), day.Add(14*time.Hour)))
		service := newTestBookingService(store, testRoomStore("room-1"))

		updated, err := service.UpdateBookingTimes(ctx, UpdateBookingTimesParams{
			BookingID: "bk-1",
			StartTime: "13:30",
			EndTime:   "14:30",
		})
		if err != nil {
			t.Fatalf("UpdateBookingTimes returned error: %v", err)
		}
		if !updated.Start.Equal(day.Add(13*time.Hour + 30*time.Minute)) {
			t.Fatalf("unexpected start %v", updated.Start)
		}
		if !updated.UpdatedAt.Equal(testReference) {
			t.Fatalf("expected UpdatedAt from the clock, got %v", updated.UpdatedAt)
		}
	})

	t.Run("keeps the original day when no date is supplied", func(t *testing.T) {
		t.Parallel()
		store := newStubBookingStore(storedBooking("bk-1", "room-1", day.Add(13*time.Hour), day.Add(14*time.Hour)))
		service := newTestBookingService(store, testRoomStore("room-1"))

		updated, err := service.UpdateBookingTimes(ctx, UpdateBookingTimesParams{
			BookingID: "bk-1",
			StartTime: "15:00",
			EndTime:   "16:00",
		})
		if err != nil {
			t.Fatalf("UpdateBookingTimes returned error: %v", err)
		}
		if got := updated.Start.Format(booking.DateLayout); got != "2025-12-25" {
			t.Fatalf("expected booking to stay on 2025-12-25, got %s", got)
		}
	})

	t.Run("rejects a move onto another booking", func(t *testing.T) {
		t.Parallel()
		store := newStubBookingStore(
			storedBooking("bk-1", "room-1", day.Add(13*time.Hour), day.Add(14*time.Hour)),
			storedBooking("bk-2", "room-1", day.Add(15*time.Hour), day.Add(16*time.Hour)),
		)
		service := newTestBookingService(store, testRoomStore("room-1"))

		_, err := service.UpdateBookingTimes(ctx, UpdateBookingTimesParams{
			BookingID: "bk-1",
			StartTime: "15:00",
			EndTime:   "16:00",
		})
		requireRejection(t, err, booking.ReasonRoomConflict)
	})

	t.Run("reports a missing booking as not found", func(t *testing.T) {
		t.Parallel()
		service := newTestBookingService(newStubBookingStore(), testRoomStore("room-1"))

		_, err := service.UpdateBookingTimes(ctx, UpdateBookingTimesParams{
			BookingID: "missing",
			StartTime: "13:00",
			EndTime:   "14:00",
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBookingService_DeleteBooking(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	day := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)
	store := newStubBookingStore(storedBooking("bk-1", "room-1", day.Add(13*time.Hour), day.Add(14*time.Hour)))
	service := newTestBookingService(store, testRoomStore("room-1"))

	if err := service.DeleteBooking(ctx, "bk-1"); err != nil {
		t.Fatalf("DeleteBooking returned error: %v", err)
	}
	if err := service.DeleteBooking(ctx, "bk-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestBookingService_ListRoomBookings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	day := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)
	store := newStubBookingStore(
		storedBooking("bk-1", "room-1", day.Add(9*time.Hour), day.Add(10*time.Hour)),
		storedBooking("bk-2", "room-1", day.AddDate(0, 0, 1).Add(9*time.Hour), day.AddDate(0, 0, 1).Add(10*time.Hour)),
		storedBooking("bk-3", "room-2", day.Add(9*time.Hour), day.Add(10*time.Hour)),
	)
	service := newTestBookingService(store, testRoomStore("room-1", "room-2"))

	t.Run("limits results to the requested day and room", func(t *testing.T) {
		t.Parallel()
		listed, err := service.ListRoomBookings(ctx, "room-1", "2025-12-25")
		if err != nil {
			t.Fatalf("ListRoomBookings returned error: %v", err)
		}
		if len(listed) != 1 || listed[0].ID != "bk-1" {
			t.Fatalf("unexpected result %+v", listed)
		}
	})

	t.Run("rejects an unparseable date", func(t *testing.T) {
		t.Parallel()
		_, err := service.ListRoomBookings(ctx, "room-1", "25/12/2025")
		requireRejection(t, err, booking.ReasonInvalidTime)
	})
}

func TestBookingService_ListUserBookings(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	user := "user-1"
	day := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)
	past := storedBooking("bk-past", "room-1", day.Add(8*time.Hour), day.Add(9*time.Hour))
	past.UserID = &user
	upcoming := storedBooking("bk-next", "room-1", day.Add(14*time.Hour), day.Add(15*time.Hour))
	upcoming.UserID = &user

	store := newStubBookingStore(past, upcoming)
	service := newTestBookingService(store, testRoomStore("room-1"))

	t.Run("hides finished bookings by default", func(t *testing.T) {
		t.Parallel()
		listed, err := service.ListUserBookings(ctx, ListUserBookingsParams{UserID: user})
		if err != nil {
			t.Fatalf("ListUserBookings returned error: %v", err)
		}
		if len(listed) != 1 || listed[0].ID != "bk-next" {
			t.Fatalf("unexpected result %+v", listed)
		}
	})

	t.Run("includes history on request", func(t *testing.T) {
		t.Parallel()
		listed, err := service.ListUserBookings(ctx, ListUserBookingsParams{UserID: user, IncludePast: true})
		if err != nil {
			t.Fatalf("ListUserBookings returned error: %v", err)
		}
		if len(listed) != 2 {
			t.Fatalf("expected both bookings, got %d", len(listed))
		}
	})

	t.Run("returns nothing for an empty user", func(t *testing.T) {
		t.Parallel()
		listed, err := service.ListUserBookings(ctx, ListUserBookingsParams{})
		if err != nil || listed != nil {
			t.Fatalf("expected empty result, got %+v, %v", listed, err)
		}
	})
}
