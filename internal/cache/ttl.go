package cache

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Store defaults, matching the upstream-facing services this cache fronts.
const (
	// DefaultTTL is the default entry lifetime.
	DefaultTTL = 24 * time.Hour

	// DefaultMaxEntries is the default per-namespace capacity.
	DefaultMaxEntries = 100

	// DefaultExtension is the entry file extension.
	DefaultExtension = ".json"

	// minutesPerHour is used for duration formatting calculations.
	minutesPerHour = 60

	// hoursPerDay is used for duration formatting calculations.
	hoursPerDay = 24
)

// ErrInvalidTTL is returned by ParseTTL for malformed or negative values.
var ErrInvalidTTL = errors.New("TTL must be a non-negative number of seconds or a duration")

// ParseTTL parses a TTL string in either form:
// - Integer seconds: "3600".
// - Duration string: "24h", "30m", "1h30m".
//
// Zero is valid and means entries expire as soon as any time has passed.
func ParseTTL(s string) (time.Duration, error) {
	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		if seconds < 0 {
			return 0, fmt.Errorf("%w: got %d", ErrInvalidTTL, seconds)
		}
		return time.Duration(seconds) * time.Second, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidTTL, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%w: got %s", ErrInvalidTTL, s)
	}

	return d, nil
}

// FormatDuration formats a duration in a human-readable way.
// Examples: "0s", "30m", "5h30m", "2d".
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	if d < hoursPerDay*time.Hour {
		hours := int(d.Hours())
		minutes := int(d.Minutes()) % minutesPerHour
		if minutes == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		return fmt.Sprintf("%dh%dm", hours, minutes)
	}
	days := int(d.Hours()) / hoursPerDay
	hours := int(d.Hours()) % hoursPerDay
	if hours == 0 {
		return fmt.Sprintf("%dd", days)
	}
	return fmt.Sprintf("%dd%dh", days, hours)
}
