package booking

import (
	"math/rand"
	"testing"
	"time"
)

func availabilityBooking(startHour, startMin, endHour, endMin int) Booking {
	day := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)
	return Booking{
		ID:     "b-1",
		RoomID: "r-1",
		Start:  day.Add(time.Duration(startHour)*time.Hour + time.Duration(startMin)*time.Minute),
		End:    day.Add(time.Duration(endHour)*time.Hour + time.Duration(endMin)*time.Minute),
	}
}

func TestComputeStatus(t *testing.T) {
	t.Parallel()

	at := func(hour, minute int) time.Time {
		return time.Date(2025, time.December, 25, hour, minute, 0, 0, time.UTC)
	}
	policy := DefaultPolicy()

	t.Run("no bookings means free", func(t *testing.T) {
		t.Parallel()
		got := ComputeStatus(at(13, 0), nil, policy)
		if got.Status != StatusFree {
			t.Fatalf("expected free, got %q", got.Status)
		}
		if got.Info != "No upcoming bookings" {
			t.Fatalf("unexpected info %q", got.Info)
		}
	})

	t.Run("fully past bookings are ignored", func(t *testing.T) {
		t.Parallel()
		got := ComputeStatus(at(13, 0), []Booking{availabilityBooking(9, 0, 10, 0)}, policy)
		if got.Status != StatusFree || got.Info != "No upcoming bookings" {
			t.Fatalf("expected free with no upcoming bookings, got %+v", got)
		}
	})

	t.Run("occupied until the booking ends", func(t *testing.T) {
		t.Parallel()
		got := ComputeStatus(at(13, 10), []Booking{availabilityBooking(13, 0, 14, 30)}, policy)
		if got.Status != StatusOccupied {
			t.Fatalf("expected occupied, got %q", got.Status)
		}
		if got.Info != "Occupied until 14:30" {
			t.Fatalf("unexpected info %q", got.Info)
		}
	})

	t.Run("soon free inside the threshold", func(t *testing.T) {
		t.Parallel()
		got := ComputeStatus(at(13, 45), []Booking{availabilityBooking(13, 0, 14, 0)}, policy)
		if got.Status != StatusSoonFree {
			t.Fatalf("expected soon free, got %q", got.Status)
		}
		if got.Info != "Free in 15 min" {
			t.Fatalf("unexpected info %q", got.Info)
		}
	})

	t.Run("free until the next booking starts", func(t *testing.T) {
		t.Parallel()
		got := ComputeStatus(at(13, 25), []Booking{availabilityBooking(14, 0, 15, 0)}, policy)
		if got.Status != StatusFree {
			t.Fatalf("expected free, got %q", got.Status)
		}
		if got.Info != "Free for next 35 min (until 14:00)" {
			t.Fatalf("unexpected info %q", got.Info)
		}
	})

	t.Run("earliest upcoming booking decides the status", func(t *testing.T) {
		t.Parallel()
		bookings := []Booking{
			availabilityBooking(16, 0, 17, 0),
			availabilityBooking(13, 0, 14, 30),
			availabilityBooking(9, 0, 10, 0),
		}
		got := ComputeStatus(at(13, 10), bookings, policy)
		if got.Status != StatusOccupied || got.Info != "Occupied until 14:30" {
			t.Fatalf("expected the in-progress booking to win, got %+v", got)
		}
	})

	t.Run("booking ending exactly now leaves the room free", func(t *testing.T) {
		t.Parallel()
		// End == now survives the past filter but under half-open
		// intervals the room is neither occupied nor upcoming.
		got := ComputeStatus(at(14, 0), []Booking{availabilityBooking(13, 0, 14, 0)}, policy)
		if got.Status != StatusFree {
			t.Fatalf("expected free, got %q", got.Status)
		}
		if got.Info != "No current bookings" {
			t.Fatalf("unexpected info %q", got.Info)
		}
	})

	t.Run("minutes are rounded up", func(t *testing.T) {
		t.Parallel()
		now := time.Date(2025, time.December, 25, 13, 44, 30, 0, time.UTC)
		got := ComputeStatus(now, []Booking{availabilityBooking(13, 0, 14, 0)}, policy)
		if got.Info != "Free in 16 min" {
			t.Fatalf("expected ceiling to the minute, got %q", got.Info)
		}
	})

	t.Run("threshold is a policy value", func(t *testing.T) {
		t.Parallel()
		tight := policy
		tight.SoonFreeThresholdMinutes = 5
		got := ComputeStatus(at(13, 45), []Booking{availabilityBooking(13, 0, 14, 0)}, tight)
		if got.Status != StatusOccupied {
			t.Fatalf("expected occupied under a 5 minute threshold, got %q", got.Status)
		}
	})
}

// Every input yields exactly one of the three states, and an empty list is
// always free.
func TestComputeStatus_Coverage(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	rng := rand.New(rand.NewSource(5))
	day := time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 1000; i++ {
		count := rng.Intn(5)
		bookings := make([]Booking, 0, count)
		for j := 0; j < count; j++ {
			start := rng.Intn(24 * 60)
			length := 30 + rng.Intn(120)
			bookings = append(bookings, Booking{
				ID:     "b",
				RoomID: "r-1",
				Start:  day.Add(time.Duration(start) * time.Minute),
				End:    day.Add(time.Duration(start+length) * time.Minute),
			})
		}
		now := day.Add(time.Duration(rng.Intn(24*60)) * time.Minute)

		got := ComputeStatus(now, bookings, policy)
		switch got.Status {
		case StatusFree, StatusOccupied, StatusSoonFree:
		default:
			t.Fatalf("unexpected status %q", got.Status)
		}
		if len(bookings) == 0 && got.Status != StatusFree {
			t.Fatalf("expected empty list to be free, got %q", got.Status)
		}
		if got.Info == "" {
			t.Fatal("expected a non-empty info string")
		}
	}
}
