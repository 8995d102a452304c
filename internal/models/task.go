package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/routine/internal/constants"
)

var ErrInvalidMinute = errors.New("notification time must be between 00:00 and 23:59")

type StreakTier string

const (
	StreakNone    StreakTier = "none"
	StreakSprout  StreakTier = "sprout"
	StreakSapling StreakTier = "sapling"
	StreakTree    StreakTier = "tree"
)

// Emoji returns the badge shown next to a streak.
func (t StreakTier) Emoji() string {
	switch t {
	case StreakSprout:
		return "🌱"
	case StreakSapling:
		return "🌿"
	case StreakTree:
		return "🌳"
	default:
		return ""
	}
}

type TaskItem struct {
	ID                  string    `json:"id"`
	Title               string    `json:"title"`
	CreatedAt           time.Time `json:"created_at"`
	WeekDays            DaySet    `json:"week_days"`
	CompletedDays       DaySet    `json:"completed_days"`
	FlaggedDays         DaySet    `json:"flagged_days"`
	Streak              int       `json:"streak"`
	NotificationEnabled bool      `json:"notification_enabled"`
	NotificationTimes   []int     `json:"notification_times"` // minutes from midnight, ascending
}

// NewTaskItem creates a task with a fresh ID. Reminders are enabled when times are given.
func NewTaskItem(title string, days DaySet, times []int, now time.Time) TaskItem {
	return TaskItem{
		ID:                  uuid.New().String(),
		Title:               strings.TrimSpace(title),
		CreatedAt:           now,
		WeekDays:            days,
		NotificationEnabled: len(times) > 0,
		NotificationTimes:   NormalizeTimes(times),
	}
}

func (t TaskItem) Validate() error {
	if strings.TrimSpace(t.Title) == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if t.WeekDays.IsEmpty() {
		return fmt.Errorf("task must be scheduled on at least one weekday")
	}
	for _, m := range t.NotificationTimes {
		if !ValidMinute(m) {
			return fmt.Errorf("%w: %d", ErrInvalidMinute, m)
		}
	}
	return nil
}

func (t TaskItem) IsCompleted(day WeekDay) bool {
	return t.CompletedDays.Has(day)
}

func (t TaskItem) IsFlagged(day WeekDay) bool {
	return t.FlaggedDays.Has(day)
}

// Clone returns a copy that shares no slices with t.
func (t TaskItem) Clone() TaskItem {
	t.NotificationTimes = slices.Clone(t.NotificationTimes)
	return t
}

// Normalize repairs a task loaded from storage. Completed and flagged days are
// trimmed to the scheduled days and reminder times are cleaned with NormalizeTimes.
// A negative streak becomes zero.
func (t *TaskItem) Normalize() {
	t.CompletedDays = t.CompletedDays.Intersect(t.WeekDays)
	t.FlaggedDays = t.FlaggedDays.Intersect(t.WeekDays)
	t.NotificationTimes = NormalizeTimes(t.NotificationTimes)
	if t.Streak < 0 {
		t.Streak = 0
	}
}

// RemoveDay unschedules a day along with its completion and flag marks.
func (t *TaskItem) RemoveDay(day WeekDay) {
	t.WeekDays = t.WeekDays.Remove(day)
	t.CompletedDays = t.CompletedDays.Remove(day)
	t.FlaggedDays = t.FlaggedDays.Remove(day)
}

func (t *TaskItem) AddNotificationTime(minute int) error {
	if !ValidMinute(minute) {
		return fmt.Errorf("%w: %d", ErrInvalidMinute, minute)
	}
	t.NotificationTimes = NormalizeTimes(append(slices.Clone(t.NotificationTimes), minute))
	return nil
}

// UpdateNotificationTime replaces old with minute. It is a no-op when old is not present.
func (t *TaskItem) UpdateNotificationTime(old, minute int) error {
	if !ValidMinute(minute) {
		return fmt.Errorf("%w: %d", ErrInvalidMinute, minute)
	}
	idx := slices.Index(t.NotificationTimes, old)
	if idx < 0 {
		return nil
	}
	times := slices.Clone(t.NotificationTimes)
	times[idx] = minute
	t.NotificationTimes = NormalizeTimes(times)
	return nil
}

func (t *TaskItem) RemoveNotificationTime(minute int) {
	t.NotificationTimes = slices.DeleteFunc(slices.Clone(t.NotificationTimes), func(m int) bool {
		return m == minute
	})
}

// EarliestNotificationTime returns the first reminder of the day, if any.
func (t TaskItem) EarliestNotificationTime() (int, bool) {
	if len(t.NotificationTimes) == 0 {
		return 0, false
	}
	return slices.Min(t.NotificationTimes), true
}

func (t TaskItem) StreakTier() StreakTier {
	switch {
	case t.Streak >= constants.StreakTreeMin:
		return StreakTree
	case t.Streak >= constants.StreakSaplingMin:
		return StreakSapling
	case t.Streak > 0:
		return StreakSprout
	default:
		return StreakNone
	}
}

// ValidMinute reports whether m is a minute-of-day offset.
func ValidMinute(m int) bool {
	return m >= 0 && m < constants.MinutesPerDay
}

// NormalizeTimes returns a sorted copy of times without duplicates or out-of-range values.
func NormalizeTimes(times []int) []int {
	out := make([]int, 0, len(times))
	for _, m := range times {
		if ValidMinute(m) {
			out = append(out, m)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
