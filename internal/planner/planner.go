// Package planner decides which weekly reminders should exist for a task.
//
// Every plan for a (task, weekday) pair retracts the full set of identifiers
// previously issued for that pair before scheduling the new set, so a change to
// days, times, flags or the enabled switch never leaves an orphaned reminder.
package planner

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/models"
)

// Class selects the tone of a reminder.
type Class string

const (
	ClassRegular   Class = "regular"
	ClassImportant Class = "important"
)

// Spec describes one weekly repeating reminder.
type Spec struct {
	ID             string         `json:"id"`
	TaskID         string         `json:"task_id"`
	Title          string         `json:"title"`
	Body           string         `json:"body"`
	Class          Class          `json:"class"`
	Day            models.WeekDay `json:"day"`
	WeekdayOrdinal int            `json:"weekday_ordinal"`
	Hour           int            `json:"hour"`
	Minute         int            `json:"minute"`
	MinuteOffset   int            `json:"minute_offset"`
	Repeats        bool           `json:"repeats"`
}

// Plan is the set of commands that brings one (task, day) pair up to date.
// Retractions must be applied before the schedule entries.
type Plan struct {
	TaskID   string
	Day      models.WeekDay
	Retract  []string
	Schedule []Spec
}

func (p Plan) IsEmpty() bool {
	return len(p.Retract) == 0 && len(p.Schedule) == 0
}

// NotificationID builds the identifier for a task's reminder on day at minute.
// Task IDs never contain '.', and the suffix is fixed width, so identifiers are
// unique across tasks.
func NotificationID(taskID string, day models.WeekDay, minute int) string {
	return fmt.Sprintf("%s.%d.%04d", taskID, day.Ordinal(), minute)
}

// ParseNotificationID splits an identifier produced by NotificationID.
func ParseNotificationID(id string) (taskID string, day models.WeekDay, minute int, err error) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 || parts[0] == "" {
		return "", 0, 0, fmt.Errorf("malformed notification id: %q", id)
	}
	ord, err := strconv.Atoi(parts[1])
	if err != nil || !models.WeekDay(ord).IsValid() {
		return "", 0, 0, fmt.Errorf("malformed weekday in notification id: %q", id)
	}
	minute, err = strconv.Atoi(parts[2])
	if err != nil || !models.ValidMinute(minute) {
		return "", 0, 0, fmt.Errorf("malformed minute in notification id: %q", id)
	}
	return parts[0], models.WeekDay(ord), minute, nil
}

// Identifiers returns the identifiers task would own on day given its current times.
func Identifiers(task models.TaskItem, day models.WeekDay) []string {
	ids := make([]string, 0, len(task.NotificationTimes))
	for _, m := range task.NotificationTimes {
		ids = append(ids, NotificationID(task.ID, day, m))
	}
	return ids
}

// ClassFor reports the presentation class of task's reminders on day.
func ClassFor(task models.TaskItem, day models.WeekDay) Class {
	if task.IsFlagged(day) {
		return ClassImportant
	}
	return ClassRegular
}

// Body renders the reminder text for a class.
func Body(title string, class Class) string {
	if class == ClassImportant {
		return fmt.Sprintf(constants.ImportantReminderBody, title)
	}
	return fmt.Sprintf(constants.RegularReminderBody, title)
}

// PlanFor computes the reminders for task on day. issued holds the identifiers
// previously handed out for the pair; they are always retracted together with
// the identifiers derived from the task's current times.
func PlanFor(task models.TaskItem, day models.WeekDay, issued []string) Plan {
	plan := Plan{
		TaskID:  task.ID,
		Day:     day,
		Retract: mergeIDs(issued, Identifiers(task, day)),
	}
	if !task.NotificationEnabled || !task.WeekDays.Has(day) {
		return plan
	}

	class := ClassFor(task, day)
	body := Body(task.Title, class)
	for _, m := range models.NormalizeTimes(task.NotificationTimes) {
		plan.Schedule = append(plan.Schedule, Spec{
			ID:             NotificationID(task.ID, day, m),
			TaskID:         task.ID,
			Title:          task.Title,
			Body:           body,
			Class:          class,
			Day:            day,
			WeekdayOrdinal: day.Ordinal(),
			Hour:           m / 60,
			Minute:         m % 60,
			MinuteOffset:   m,
			Repeats:        true,
		})
	}
	return plan
}

// Retraction plans the removal of every reminder task may own on day.
func Retraction(task models.TaskItem, day models.WeekDay, issued []string) Plan {
	return Plan{
		TaskID:  task.ID,
		Day:     day,
		Retract: mergeIDs(issued, Identifiers(task, day)),
	}
}

func mergeIDs(sets ...[]string) []string {
	var out []string
	for _, s := range sets {
		out = append(out, s...)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
