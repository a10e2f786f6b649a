package booking

import (
	"strings"
	"time"
)

// Reason identifies the first rule a proposed booking violated. The checks
// run in a fixed order so the reported reason, and the message built from it,
// is deterministic when several rules fail at once. Structural problems are
// reported before the conflict check because they are the ones the user can
// act on directly.
type Reason string

const (
	ReasonMissingDate      Reason = "missing_date"
	ReasonMissingStartTime Reason = "missing_start_time"
	ReasonMissingEndTime   Reason = "missing_end_time"
	ReasonMissingRoom      Reason = "missing_room"
	ReasonInvalidTime      Reason = "invalid_time"
	ReasonEndBeforeStart   Reason = "end_before_start"
	ReasonOffGrid          Reason = "off_grid"
	ReasonDurationExceeded Reason = "duration_exceeded"
	ReasonInPast           Reason = "in_past"
	ReasonRoomConflict     Reason = "room_conflict"
)

// Request carries the raw user input for a proposed booking. Date is a
// calendar date in DateLayout form; StartTime and EndTime are HH:MM wall
// clock values. ExcludeID names the booking being edited, if any, so it is
// not matched against itself during the conflict check.
type Request struct {
	RoomID    string
	Date      string
	StartTime string
	EndTime   string
	UserID    *string
	ExcludeID string
}

// Decision is the validator's outcome: either an accepted, normalized
// candidate booking or the first violated rule.
type Decision struct {
	Accepted bool
	Reason   Reason
	Booking  Booking
}

// Accept wraps a normalized booking in an accepting decision.
func Accept(b Booking) Decision {
	return Decision{Accepted: true, Booking: b}
}

// Reject produces a rejecting decision with the given reason.
func Reject(reason Reason) Decision {
	return Decision{Reason: reason}
}

// Validate decides whether a proposed booking is legal against the policy and
// the room's existing bookings. It is a pure function of its inputs and has
// no side effects; persistence happens elsewhere, only after acceptance, and
// remains the authoritative overlap enforcement point for concurrent
// submissions.
//
// "Today" is local calendar-date equality against now, so the in-past check
// never applies to a booking dated tomorrow regardless of the current time.
func Validate(now time.Time, req Request, existing []Booking, policy Policy) Decision {
	if strings.TrimSpace(req.Date) == "" {
		return Reject(ReasonMissingDate)
	}
	if strings.TrimSpace(req.StartTime) == "" {
		return Reject(ReasonMissingStartTime)
	}
	if strings.TrimSpace(req.EndTime) == "" {
		return Reject(ReasonMissingEndTime)
	}
	if strings.TrimSpace(req.RoomID) == "" {
		return Reject(ReasonMissingRoom)
	}

	date, err := time.ParseInLocation(DateLayout, strings.TrimSpace(req.Date), now.Location())
	if err != nil {
		return Reject(ReasonInvalidTime)
	}
	start, err := CombineDateTime(req.StartTime, date)
	if err != nil {
		return Reject(ReasonInvalidTime)
	}
	end, err := CombineDateTime(req.EndTime, date)
	if err != nil {
		return Reject(ReasonInvalidTime)
	}

	if !end.After(start) {
		return Reject(ReasonEndBeforeStart)
	}
	if !OnGrid(start, policy.SlotMinutes) || !OnGrid(end, policy.SlotMinutes) {
		return Reject(ReasonOffGrid)
	}
	if end.Sub(start) > policy.MaxDuration() {
		return Reject(ReasonDurationExceeded)
	}
	if !policy.AllowPastBookingToday && sameDay(date, now) && start.Before(now) {
		return Reject(ReasonInPast)
	}

	candidate := Interval{Start: start, End: end}
	if HasConflict(candidate, existing, req.ExcludeID) {
		return Reject(ReasonRoomConflict)
	}

	return Accept(Booking{
		ID:     req.ExcludeID,
		RoomID: strings.TrimSpace(req.RoomID),
		UserID: req.UserID,
		Start:  start,
		End:    end,
	})
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
