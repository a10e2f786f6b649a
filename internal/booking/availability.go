package booking

import (
	"fmt"
	"sort"
	"time"
)

// Status is the derived live state of a room.
type Status string

const (
	// StatusFree marks a room with no booking in progress.
	StatusFree Status = "free"
	// StatusOccupied marks a room with a booking in progress.
	StatusOccupied Status = "occupied"
	// StatusSoonFree marks an occupied room whose booking ends within the
	// policy's soon-free window.
	StatusSoonFree Status = "soon_free"
)

// RoomStatus is the computed state of one room at one instant, with the info
// text shown on its card. It is derived on every read from (now, bookings)
// and never stored, so it cannot go stale against the wall clock.
type RoomStatus struct {
	Status Status
	Info   string
}

// ComputeStatus derives a room's live status from its bookings. Fully past
// bookings are ignored; the earliest remaining one decides the outcome.
func ComputeStatus(now time.Time, bookings []Booking, policy Policy) RoomStatus {
	upcoming := make([]Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.End.Before(now) {
			continue
		}
		upcoming = append(upcoming, b)
	}
	if len(upcoming) == 0 {
		return RoomStatus{Status: StatusFree, Info: "No upcoming bookings"}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].Start.Before(upcoming[j].Start)
	})
	next := upcoming[0]

	switch {
	case !next.Start.After(now) && now.Before(next.End):
		untilEnd := ceilMinutes(next.End.Sub(now))
		if untilEnd <= policy.SoonFreeThresholdMinutes {
			return RoomStatus{
				Status: StatusSoonFree,
				Info:   fmt.Sprintf("Free in %d min", untilEnd),
			}
		}
		return RoomStatus{
			Status: StatusOccupied,
			Info:   fmt.Sprintf("Occupied until %s", formatClock(next.End)),
		}
	case next.Start.After(now):
		untilNext := ceilMinutes(next.Start.Sub(now))
		return RoomStatus{
			Status: StatusFree,
			Info:   fmt.Sprintf("Free for next %d min (until %s)", untilNext, formatClock(next.Start)),
		}
	}

	// A booking ending exactly now survives the filter but is neither in
	// progress nor upcoming under half-open intervals.
	return RoomStatus{Status: StatusFree, Info: "No current bookings"}
}

// ceilMinutes rounds a duration up to whole minutes, floored at zero.
func ceilMinutes(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Minute - 1) / time.Minute)
}

func formatClock(t time.Time) string {
	return t.Format("15:04")
}
