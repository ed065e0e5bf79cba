package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/bium/internal/constants"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// ParseTimeToMinutes parses a zero-padded 24-hour "HH:MM" string and returns
// the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	h, m, ok := strings.Cut(timeStr, ":")
	if !ok || len(h) != 2 || len(m) != 2 {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", timeStr)
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("invalid hour in %q", timeStr)
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("invalid minute in %q", timeStr)
	}
	return hour*60 + minute, nil
}

// ValidateTimeFormat checks if the string is a zero-padded HH:MM time.
func ValidateTimeFormat(timeStr string) bool {
	_, err := ParseTimeToMinutes(timeStr)
	return err == nil
}

// FormatTimestamp renders t as a UTC ISO-8601 timestamp with milliseconds.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constants.TimestampFormat)
}

// ParseTimestamp accepts both the millisecond form written by FormatTimestamp
// and plain RFC 3339.
func ParseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(constants.TimestampFormat, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
