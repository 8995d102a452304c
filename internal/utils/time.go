package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/models"
)

// LoadLocation loads a timezone location from an IANA timezone name.
// If the timezone is "Local" or empty, it returns the system's local timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// NowInTimezone returns the current time in the specified timezone.
func NowInTimezone(timezone string) (time.Time, error) {
	loc, err := LoadLocation(timezone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return time.Now().In(loc), nil
}

// ValidateTimezone checks if the timezone name is valid.
func ValidateTimezone(timezone string) bool {
	_, err := LoadLocation(timezone)
	return err == nil
}

// ParseTimeToMinutes parses a time string (HH:MM) and returns the number of minutes from midnight.
func ParseTimeToMinutes(timeStr string) (int, error) {
	t, err := time.Parse(constants.TimeFormat, strings.TrimSpace(timeStr))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q (expected HH:MM): %w", timeStr, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// ParseTimesToMinutes parses a comma-separated list of HH:MM values.
func ParseTimesToMinutes(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var minutes []int
	for _, part := range strings.Split(s, ",") {
		m, err := ParseTimeToMinutes(part)
		if err != nil {
			return nil, err
		}
		minutes = append(minutes, m)
	}
	return minutes, nil
}

// FormatMinutes renders a minute-of-day offset as HH:MM.
func FormatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// FormatMinutesList renders offsets as a comma-separated HH:MM list.
func FormatMinutesList(times []int) string {
	parts := make([]string, len(times))
	for i, m := range times {
		parts[i] = FormatMinutes(m)
	}
	return strings.Join(parts, ", ")
}

// SameISOWeek reports whether a and b fall in the same ISO 8601 week.
// Both instants are compared in b's location.
func SameISOWeek(a, b time.Time) bool {
	ay, aw := a.In(b.Location()).ISOWeek()
	by, bw := b.ISOWeek()
	return ay == by && aw == bw
}

// ParseWeekDays parses a comma-separated list of weekdays into a set.
func ParseWeekDays(s string) (models.DaySet, error) {
	var set models.DaySet
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		d, err := models.ParseWeekDay(part)
		if err != nil {
			return 0, err
		}
		set = set.Add(d)
	}
	if set.IsEmpty() {
		return 0, fmt.Errorf("at least one weekday is required")
	}
	return set, nil
}
