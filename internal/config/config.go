// Package config loads the service configuration from the process
// environment, applying defaults and validating the booking policy before
// the server starts.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/example/room-booking/internal/booking"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort                 int
	SQLiteDSN                string
	SlotMinutes              int
	MaxDurationMinutes       int
	SoonFreeThresholdMinutes int
	DefaultDurationMinutes   int
	AllowPastBookingToday    bool
}

// Policy assembles the booking policy from the loaded values.
func (c Config) Policy() booking.Policy {
	return booking.Policy{
		SlotMinutes:              c.SlotMinutes,
		MaxDurationMinutes:       c.MaxDurationMinutes,
		SoonFreeThresholdMinutes: c.SoonFreeThresholdMinutes,
		DefaultDurationMinutes:   c.DefaultDurationMinutes,
		AllowPastBookingToday:    c.AllowPastBookingToday,
	}
}

// Load parses configuration values from the current process environment.
//
// Every value has a default, so an empty environment yields a working
// configuration. Invalid values are accumulated and reported together, and a
// policy that fails its own validation aborts startup.
func Load() (Config, error) {
	defaults := booking.DefaultPolicy()
	cfg := Config{
		HTTPPort:                 8080,
		SQLiteDSN:                "file:roombooking.db",
		SlotMinutes:              defaults.SlotMinutes,
		MaxDurationMinutes:       defaults.MaxDurationMinutes,
		SoonFreeThresholdMinutes: defaults.SoonFreeThresholdMinutes,
		DefaultDurationMinutes:   defaults.DefaultDurationMinutes,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMBOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMBOOKING_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	intVars := []struct {
		key      string
		target   *int
		minValue int
	}{
		{"ROOMBOOKING_SLOT_MINUTES", &cfg.SlotMinutes, 1},
		{"ROOMBOOKING_MAX_DURATION_MINUTES", &cfg.MaxDurationMinutes, 1},
		{"ROOMBOOKING_SOON_FREE_THRESHOLD_MINUTES", &cfg.SoonFreeThresholdMinutes, 0},
		{"ROOMBOOKING_DEFAULT_DURATION_MINUTES", &cfg.DefaultDurationMinutes, 0},
	}
	for _, v := range intVars {
		raw := strings.TrimSpace(os.Getenv(v.key))
		if raw == "" {
			continue
		}
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < v.minValue {
			invalid = append(invalid, v.key)
			continue
		}
		*v.target = parsed
	}

	if raw := strings.TrimSpace(os.Getenv("ROOMBOOKING_ALLOW_PAST_TODAY")); raw != "" {
		allow, err := strconv.ParseBool(raw)
		if err != nil {
			invalid = append(invalid, "ROOMBOOKING_ALLOW_PAST_TODAY")
		} else {
			cfg.AllowPastBookingToday = allow
		}
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	if err := cfg.Policy().Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid booking policy: %w", err)
	}

	return cfg, nil
}
