package booking

import (
	"fmt"
	"time"
)

// Policy captures the booking rules that differ between entry points. The
// product shipped two variants of the same form: a 30-minute grid with
// explicit start/end pickers, and a legacy hour grid that auto-filled a fixed
// default duration. Both are presets over this one structure rather than
// separate code paths.
type Policy struct {
	// SlotMinutes is the granularity of the slot grid. Booking boundaries
	// must land on a multiple of this value within the hour.
	SlotMinutes int
	// MaxDurationMinutes caps the length of a single booking.
	MaxDurationMinutes int
	// SoonFreeThresholdMinutes is the window before an occupied room's
	// booking ends during which the room reports as soon-free.
	SoonFreeThresholdMinutes int
	// DefaultDurationMinutes is the duration auto-filled when a caller
	// supplies only a start time. Zero means one slot.
	DefaultDurationMinutes int
	// AllowPastBookingToday disables the same-day in-past check.
	AllowPastBookingToday bool
}

// DefaultPolicy returns the rules of the current booking form: 30-minute
// slots, two-hour cap, 20-minute soon-free window.
func DefaultPolicy() Policy {
	return Policy{
		SlotMinutes:              30,
		MaxDurationMinutes:       120,
		SoonFreeThresholdMinutes: 20,
	}
}

// HourGridPolicy returns the legacy quick-booking rules: whole-hour slots,
// three-hour cap, and a one-hour default duration filled in for the caller.
func HourGridPolicy() Policy {
	return Policy{
		SlotMinutes:              60,
		MaxDurationMinutes:       180,
		SoonFreeThresholdMinutes: 20,
		DefaultDurationMinutes:   60,
	}
}

// Validate reports whether the policy is internally consistent. A failure
// here is a configuration mistake, not a user-input error.
func (p Policy) Validate() error {
	if p.SlotMinutes <= 0 || 60%p.SlotMinutes != 0 {
		return fmt.Errorf("booking: slot minutes must evenly divide an hour, got %d", p.SlotMinutes)
	}
	if p.MaxDurationMinutes <= 0 {
		return fmt.Errorf("booking: max duration must be positive, got %d", p.MaxDurationMinutes)
	}
	if p.MaxDurationMinutes%p.SlotMinutes != 0 {
		return fmt.Errorf("booking: max duration %d is not a multiple of the %d minute grid", p.MaxDurationMinutes, p.SlotMinutes)
	}
	if p.SoonFreeThresholdMinutes < 0 {
		return fmt.Errorf("booking: soon-free threshold must not be negative, got %d", p.SoonFreeThresholdMinutes)
	}
	if p.DefaultDurationMinutes < 0 {
		return fmt.Errorf("booking: default duration must not be negative, got %d", p.DefaultDurationMinutes)
	}
	if p.DefaultDurationMinutes%p.SlotMinutes != 0 {
		return fmt.Errorf("booking: default duration %d is not a multiple of the %d minute grid", p.DefaultDurationMinutes, p.SlotMinutes)
	}
	return nil
}

// MaxDuration returns the duration cap as a time.Duration.
func (p Policy) MaxDuration() time.Duration {
	return time.Duration(p.MaxDurationMinutes) * time.Minute
}

// SoonFreeThreshold returns the soon-free window as a time.Duration.
func (p Policy) SoonFreeThreshold() time.Duration {
	return time.Duration(p.SoonFreeThresholdMinutes) * time.Minute
}

// DefaultEnd derives an end instant for callers that supplied only a start.
func (p Policy) DefaultEnd(start time.Time) time.Time {
	minutes := p.DefaultDurationMinutes
	if minutes == 0 {
		minutes = p.SlotMinutes
	}
	return start.Add(time.Duration(minutes) * time.Minute)
}
