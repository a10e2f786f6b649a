package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format accepted from callers.
const DateLayout = "2006-01-02"

// CombineDateTime parses an HH:MM wall-clock value and anchors it on the
// given calendar date, in the date's location. Seconds and below are zeroed.
func CombineDateTime(timeOfDay string, date time.Time) (time.Time, error) {
	hours, minutes, err := parseTimeOfDay(timeOfDay)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), hours, minutes, 0, 0, date.Location()), nil
}

// SnapToSlot coerces a manually typed time onto the slot grid by flooring the
// minute component to the nearest boundary: on the 30-minute grid "9:45"
// becomes "09:30", on the hour grid every minute value becomes ":00". Input
// that cannot be parsed is returned unchanged so the caller's own validation
// reports it. Snapping an already snapped value is a no-op.
func SnapToSlot(timeOfDay string, slotMinutes int) string {
	if strings.TrimSpace(timeOfDay) == "" {
		return timeOfDay
	}
	if slotMinutes <= 0 || 60%slotMinutes != 0 {
		return timeOfDay
	}

	parts := strings.SplitN(timeOfDay, ":", 2)
	rawMinutes := "0"
	if len(parts) == 2 {
		rawMinutes = parts[1]
	}
	hours, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hours < 0 || hours > 23 {
		return timeOfDay
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(rawMinutes))
	if err != nil || minutes < 0 || minutes > 59 {
		return timeOfDay
	}

	snapped := (minutes / slotMinutes) * slotMinutes
	return fmt.Sprintf("%02d:%02d", hours, snapped)
}

// OnGrid reports whether the instant's minute component lands on the slot
// grid, e.g. {0, 30} for 30-minute slots or {0} for the hour grid.
func OnGrid(t time.Time, slotMinutes int) bool {
	if slotMinutes <= 0 {
		return false
	}
	return t.Minute()%slotMinutes == 0
}

func parseTimeOfDay(value string) (hours, minutes int, err error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("booking: time %q is not in HH:MM form", value)
	}
	hours, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("booking: time %q has a non-numeric hour", value)
	}
	minutes, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("booking: time %q has a non-numeric minute", value)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, 0, fmt.Errorf("booking: time %q is out of range", value)
	}
	return hours, minutes, nil
}
