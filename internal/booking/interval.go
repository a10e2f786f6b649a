package booking

import "time"

// Interval is a half-open time range [Start, End): it includes its start
// instant and excludes its end instant, so a booking ending at 14:00 does not
// conflict with one starting at 14:00.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals intersect. This single
// predicate subsumes the start-inside / end-inside / fully-containing clauses
// the booking forms used to spell out individually.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Booking is a reservation of one room for one contiguous interval. Start and
// End are wall-clock instants in local time.
type Booking struct {
	ID     string
	RoomID string
	UserID *string
	Start  time.Time
	End    time.Time
}

// Interval returns the booking's occupied range.
func (b Booking) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// HasConflict reports whether the candidate interval overlaps any of the
// existing bookings. A booking whose ID equals excludeID is skipped so an
// edit can be validated against all other bookings without colliding with
// itself.
func HasConflict(candidate Interval, existing []Booking, excludeID string) bool {
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if candidate.Overlaps(b.Interval()) {
			return true
		}
	}
	return false
}
