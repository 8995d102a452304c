package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WeekDay is a calendar day with a stable ordinal (1=Sunday..7=Saturday).
type WeekDay int

const (
	Sunday WeekDay = iota + 1
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

// AllWeekDays lists the days in display order (Monday first).
var AllWeekDays = []WeekDay{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekDayNames = map[WeekDay]string{
	Sunday:    "sunday",
	Monday:    "monday",
	Tuesday:   "tuesday",
	Wednesday: "wednesday",
	Thursday:  "thursday",
	Friday:    "friday",
	Saturday:  "saturday",
}

func (d WeekDay) IsValid() bool {
	return d >= Sunday && d <= Saturday
}

// Ordinal returns the calendar ordinal used for weekly triggers.
func (d WeekDay) Ordinal() int {
	return int(d)
}

// Weekday converts to the standard library representation.
func (d WeekDay) Weekday() time.Weekday {
	return time.Weekday(d - 1)
}

func (d WeekDay) String() string {
	if name, ok := weekDayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("WeekDay(%d)", int(d))
}

// ShortName returns the three letter abbreviation, e.g. "Mon".
func (d WeekDay) ShortName() string {
	if !d.IsValid() {
		return "???"
	}
	name := weekDayNames[d]
	return strings.ToUpper(name[:1]) + name[1:3]
}

// FromWeekday converts a time.Weekday into a WeekDay.
func FromWeekday(wd time.Weekday) WeekDay {
	return WeekDay(wd) + 1
}

// Today returns the WeekDay of now.
func Today(now time.Time) WeekDay {
	return FromWeekday(now.Weekday())
}

// ParseWeekDay accepts full names, three letter abbreviations and ordinals (1=Sunday).
func ParseWeekDay(s string) (WeekDay, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	for d, name := range weekDayNames {
		if s == name || (len(s) == 3 && strings.HasPrefix(name, s)) {
			return d, nil
		}
	}
	if n, err := strconv.Atoi(s); err == nil && WeekDay(n).IsValid() {
		return WeekDay(n), nil
	}
	return 0, fmt.Errorf("invalid weekday: %s", s)
}

func (d WeekDay) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, fmt.Errorf("invalid weekday: %d", int(d))
	}
	return []byte(d.String()), nil
}

func (d *WeekDay) UnmarshalText(text []byte) error {
	parsed, err := ParseWeekDay(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaySet is a set of WeekDays stored as a bitmask.
type DaySet uint8

// NewDaySet builds a set from the given days, ignoring invalid values.
func NewDaySet(days ...WeekDay) DaySet {
	var s DaySet
	for _, d := range days {
		s = s.Add(d)
	}
	return s
}

func bit(d WeekDay) DaySet {
	if !d.IsValid() {
		return 0
	}
	return 1 << uint(d-1)
}

func (s DaySet) Has(d WeekDay) bool {
	b := bit(d)
	return b != 0 && s&b != 0
}

func (s DaySet) Add(d WeekDay) DaySet {
	return s | bit(d)
}

func (s DaySet) Remove(d WeekDay) DaySet {
	return s &^ bit(d)
}

func (s DaySet) Toggle(d WeekDay) DaySet {
	return s ^ bit(d)
}

func (s DaySet) Intersect(other DaySet) DaySet {
	return s & other
}

func (s DaySet) IsSubsetOf(other DaySet) bool {
	return s&^other == 0
}

func (s DaySet) IsEmpty() bool {
	return s == 0
}

// Len returns the number of days in the set.
func (s DaySet) Len() int {
	return len(s.Days())
}

// Days returns members in ascending ordinal order.
func (s DaySet) Days() []WeekDay {
	var days []WeekDay
	for d := Sunday; d <= Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

func (s DaySet) String() string {
	days := s.Days()
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.ShortName()
	}
	return strings.Join(names, ",")
}

func (s DaySet) MarshalJSON() ([]byte, error) {
	days := s.Days()
	if days == nil {
		days = []WeekDay{}
	}
	return json.Marshal(days)
}

func (s *DaySet) UnmarshalJSON(data []byte) error {
	var days []WeekDay
	if err := json.Unmarshal(data, &days); err != nil {
		return err
	}
	*s = NewDaySet(days...)
	return nil
}
