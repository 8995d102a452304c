// Package tasks holds the task collection and is the only code that mutates it.
//
// Each mutation is applied to a copy of the collection, persisted, and only
// then made visible. Reminder plans for the affected (task, day) pairs are
// handed to a Dispatcher afterwards without waiting for the reminder service.
package tasks

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/models"
	"github.com/julianstephens/routine/internal/planner"
	"github.com/julianstephens/routine/internal/storage"
)

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrDayNotScheduled  = errors.New("task is not scheduled on that day")
	ErrTimeNotScheduled = errors.New("task has no reminder at that time")
)

// Dispatcher receives reminder plans. Apply must not block on the reminder
// service.
type Dispatcher interface {
	Apply(plans ...planner.Plan)
}

type ChangeKind string

const (
	ChangeAdded         ChangeKind = "added"
	ChangeUpdated       ChangeKind = "updated"
	ChangeDayRemoved    ChangeKind = "day_removed"
	ChangeDeleted       ChangeKind = "deleted"
	ChangeCompletion    ChangeKind = "completion"
	ChangeFlag          ChangeKind = "flag"
	ChangeNotifications ChangeKind = "notifications"
	ChangeCleared       ChangeKind = "cleared"
	ChangeReset         ChangeKind = "reset"
)

// Change describes a committed mutation. TaskID and Day are empty for
// collection-wide changes.
type Change struct {
	Kind   ChangeKind
	TaskID string
	Day    models.WeekDay
}

type Store struct {
	provider   storage.Provider
	dispatcher Dispatcher
	ledger     *planner.Ledger
	now        func() time.Time

	tasks     []models.TaskItem
	listeners []func(Change)
}

type Option func(*Store)

// WithLedger shares a ledger of issued reminder identifiers, so a store that
// is reloaded keeps retracting what an earlier load scheduled.
func WithLedger(l *planner.Ledger) Option {
	return func(s *Store) {
		s.ledger = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func New(provider storage.Provider, dispatcher Dispatcher, opts ...Option) *Store {
	s := &Store{
		provider:   provider,
		dispatcher: dispatcher,
		ledger:     planner.NewLedger(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory collection with the persisted one. A document
// that cannot be decoded is logged and treated as empty.
func (s *Store) Load() error {
	data, err := s.provider.Get(constants.KeyTasks)
	if errors.Is(err, storage.ErrNotFound) {
		s.tasks = nil
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	var loaded []models.TaskItem
	if err := json.Unmarshal(data, &loaded); err != nil {
		logger.Warn("Failed to decode tasks, starting with an empty list", "error", err)
		s.tasks = nil
		return nil
	}

	tasks := make([]models.TaskItem, 0, len(loaded))
	for _, t := range loaded {
		t.Normalize()
		if t.ID == "" || t.WeekDays.IsEmpty() {
			logger.Warn("Skipping stored task without id or weekdays", "id", t.ID, "title", t.Title)
			continue
		}
		tasks = append(tasks, t)
	}
	s.tasks = tasks
	return nil
}

// OnChange registers fn to be called after every committed mutation.
func (s *Store) OnChange(fn func(Change)) {
	s.listeners = append(s.listeners, fn)
}

func (s *Store) Ledger() *planner.Ledger {
	return s.ledger
}

// AddTask appends item and schedules its reminders. The caller guarantees a
// non-empty title and at least one weekday.
func (s *Store) AddTask(item models.TaskItem) error {
	item = item.Clone()
	item.Normalize()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}

	next := append(s.snapshot(), item)
	if err := s.commit(next); err != nil {
		return err
	}

	s.dispatch(s.planDays(models.TaskItem{ID: item.ID}, item, item.WeekDays))
	s.emit(Change{Kind: ChangeAdded, TaskID: item.ID})
	return nil
}

// DeleteTask removes day from the task. The last remaining day takes the whole
// task with it; otherwise only that day's reminders are retracted.
func (s *Store) DeleteTask(id string, day models.WeekDay) error {
	idx := s.index(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	old := s.tasks[idx]
	if !old.WeekDays.Has(day) {
		return ErrDayNotScheduled
	}

	if old.WeekDays.Len() == 1 {
		return s.removeTask(idx)
	}

	updated := old.Clone()
	updated.RemoveDay(day)
	next := s.snapshot()
	next[idx] = updated
	if err := s.commit(next); err != nil {
		return err
	}

	s.dispatch(s.planDays(old, updated, models.NewDaySet(day)))
	s.emit(Change{Kind: ChangeDayRemoved, TaskID: id, Day: day})
	return nil
}

// RemoveTask deletes a task from every day.
func (s *Store) RemoveTask(id string) error {
	idx := s.index(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	return s.removeTask(idx)
}

func (s *Store) removeTask(idx int) error {
	old := s.tasks[idx]
	next := slices.Delete(s.snapshot(), idx, idx+1)
	if err := s.commit(next); err != nil {
		return err
	}

	s.dispatch(s.retractAll(old))
	s.ledger.Forget(old.ID)
	s.emit(Change{Kind: ChangeDeleted, TaskID: old.ID})
	return nil
}

// ToggleCompletion flips the completion mark for day. Completing raises the
// streak by one; un-completing lowers it, never below zero.
func (s *Store) ToggleCompletion(id string, day models.WeekDay) error {
	idx := s.index(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	updated := s.tasks[idx].Clone()
	if !updated.WeekDays.Has(day) {
		return ErrDayNotScheduled
	}

	updated.CompletedDays = updated.CompletedDays.Toggle(day)
	if updated.CompletedDays.Has(day) {
		updated.Streak++
	} else if updated.Streak > 0 {
		updated.Streak--
	}

	next := s.snapshot()
	next[idx] = updated
	if err := s.commit(next); err != nil {
		return err
	}
	s.emit(Change{Kind: ChangeCompletion, TaskID: id, Day: day})
	return nil
}

// ToggleFlag flips the important mark for day and re-plans that day so future
// reminders use the matching tone.
func (s *Store) ToggleFlag(id string, day models.WeekDay) error {
	idx := s.index(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	old := s.tasks[idx]
	if !old.WeekDays.Has(day) {
		return ErrDayNotScheduled
	}

	updated := old.Clone()
	updated.FlaggedDays = updated.FlaggedDays.Toggle(day)
	next := s.snapshot()
	next[idx] = updated
	if err := s.commit(next); err != nil {
		return err
	}

	s.dispatch(s.planDays(old, updated, models.NewDaySet(day)))
	s.emit(Change{Kind: ChangeFlag, TaskID: id, Day: day})
	return nil
}

// UpdateTask replaces the task with the same id. Identity fields and the streak
// are kept from the stored task; only ToggleCompletion moves a streak.
// Every identifier the old version could own is retracted before the new set
// is scheduled.
func (s *Store) UpdateTask(updated models.TaskItem) error {
	idx := s.index(updated.ID)
	if idx < 0 {
		return ErrTaskNotFound
	}
	old := s.tasks[idx]

	updated = updated.Clone()
	updated.CreatedAt = old.CreatedAt
	updated.Streak = old.Streak
	updated.Normalize()
	if updated.WeekDays.IsEmpty() {
		return s.removeTask(idx)
	}

	next := s.snapshot()
	next[idx] = updated
	if err := s.commit(next); err != nil {
		return err
	}

	s.dispatch(s.planDays(old, updated, old.WeekDays|updated.WeekDays))
	s.emit(Change{Kind: ChangeUpdated, TaskID: updated.ID})
	return nil
}

func (s *Store) SetNotificationEnabled(id string, enabled bool) error {
	return s.updateNotifications(id, func(t *models.TaskItem) error {
		t.NotificationEnabled = enabled
		return nil
	})
}

func (s *Store) AddNotificationTime(id string, minute int) error {
	return s.updateNotifications(id, func(t *models.TaskItem) error {
		return t.AddNotificationTime(minute)
	})
}

// UpdateNotificationTime moves the reminder at old to minute.
func (s *Store) UpdateNotificationTime(id string, old, minute int) error {
	return s.updateNotifications(id, func(t *models.TaskItem) error {
		if !slices.Contains(t.NotificationTimes, old) {
			return ErrTimeNotScheduled
		}
		return t.UpdateNotificationTime(old, minute)
	})
}

func (s *Store) RemoveNotificationTime(id string, minute int) error {
	return s.updateNotifications(id, func(t *models.TaskItem) error {
		if !slices.Contains(t.NotificationTimes, minute) {
			return ErrTimeNotScheduled
		}
		t.RemoveNotificationTime(minute)
		return nil
	})
}

func (s *Store) updateNotifications(id string, mutate func(*models.TaskItem) error) error {
	idx := s.index(id)
	if idx < 0 {
		return ErrTaskNotFound
	}
	old := s.tasks[idx]
	updated := old.Clone()
	if err := mutate(&updated); err != nil {
		return err
	}
	updated.Normalize()

	next := s.snapshot()
	next[idx] = updated
	if err := s.commit(next); err != nil {
		return err
	}

	s.dispatch(s.planDays(old, updated, updated.WeekDays))
	s.emit(Change{Kind: ChangeNotifications, TaskID: id})
	return nil
}

// RemoveAllTasks clears the collection and retracts every outstanding reminder.
func (s *Store) RemoveAllTasks() error {
	old := s.tasks
	if err := s.commit([]models.TaskItem{}); err != nil {
		return err
	}

	var plans []planner.Plan
	for _, t := range old {
		plans = append(plans, s.retractAll(t)...)
	}
	s.record(plans)
	orphans := s.ledger.Orphans(nil)
	s.record(orphans)
	s.send(append(plans, orphans...))

	s.emit(Change{Kind: ChangeCleared})
	return nil
}

// ApplyDefaultNotificationTimes gives every task with reminders enabled the
// supplied times and re-plans the whole collection.
func (s *Store) ApplyDefaultNotificationTimes(times []int) error {
	times = models.NormalizeTimes(times)
	old := s.tasks
	next := s.snapshot()
	for i := range next {
		if next[i].NotificationEnabled {
			next[i].NotificationTimes = slices.Clone(times)
		}
	}
	if err := s.commit(next); err != nil {
		return err
	}

	plans := s.ledger.Orphans(next)
	for i := range next {
		plans = append(plans, s.planDays(old[i], next[i], next[i].WeekDays)...)
	}
	s.dispatch(plans)
	s.emit(Change{Kind: ChangeNotifications})
	return nil
}

// ResetCompletions clears every completion mark. Streaks are untouched.
func (s *Store) ResetCompletions() error {
	next := s.snapshot()
	for i := range next {
		next[i].CompletedDays = 0
	}
	if err := s.commit(next); err != nil {
		return err
	}
	s.emit(Change{Kind: ChangeReset})
	return nil
}

// ReconcileAll re-plans every task on every scheduled day and retracts
// reminders the ledger holds for pairs that no longer exist.
func (s *Store) ReconcileAll() {
	s.dispatch(planner.PlanAll(s.tasks, s.ledger))
}

// Tasks returns a copy of the collection in insertion order.
func (s *Store) Tasks() []models.TaskItem {
	return s.snapshot()
}

func (s *Store) Get(id string) (models.TaskItem, bool) {
	idx := s.index(id)
	if idx < 0 {
		return models.TaskItem{}, false
	}
	return s.tasks[idx].Clone(), true
}

// TasksForDay returns the tasks scheduled on day: flagged first, then by
// earliest reminder (tasks without reminders last), then by creation time.
func (s *Store) TasksForDay(day models.WeekDay) []models.TaskItem {
	var out []models.TaskItem
	for _, t := range s.tasks {
		if t.WeekDays.Has(day) {
			out = append(out, t.Clone())
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if fa, fb := a.IsFlagged(day), b.IsFlagged(day); fa != fb {
			return fa
		}
		ma, okA := a.EarliestNotificationTime()
		mb, okB := b.EarliestNotificationTime()
		if okA != okB {
			return okA
		}
		if okA && ma != mb {
			return ma < mb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return out
}

func (s *Store) CompletedTasksCount(day models.WeekDay) int {
	n := 0
	for _, t := range s.tasks {
		if t.WeekDays.Has(day) && t.CompletedDays.Has(day) {
			n++
		}
	}
	return n
}

func (s *Store) TotalTasksCount(day models.WeekDay) int {
	n := 0
	for _, t := range s.tasks {
		if t.WeekDays.Has(day) {
			n++
		}
	}
	return n
}

// CompletionRate is the completed share of day's tasks, or 0 when none are scheduled.
func (s *Store) CompletionRate(day models.WeekDay) float64 {
	total := s.TotalTasksCount(day)
	if total == 0 {
		return 0
	}
	return float64(s.CompletedTasksCount(day)) / float64(total)
}

// WeeklyTotals counts completed and scheduled occurrences across the week.
func (s *Store) WeeklyTotals() (completed, scheduled int) {
	for _, t := range s.tasks {
		completed += t.CompletedDays.Intersect(t.WeekDays).Len()
		scheduled += t.WeekDays.Len()
	}
	return completed, scheduled
}

// ActiveDays lists the days that have at least one task, starting with today
// and continuing through the week.
func (s *Store) ActiveDays(today models.WeekDay) []models.WeekDay {
	var used models.DaySet
	for _, t := range s.tasks {
		used |= t.WeekDays
	}

	start := slices.Index(models.AllWeekDays, today)
	if start < 0 {
		start = 0
	}
	var out []models.WeekDay
	for i := range models.AllWeekDays {
		d := models.AllWeekDays[(start+i)%len(models.AllWeekDays)]
		if used.Has(d) {
			out = append(out, d)
		}
	}
	return out
}

func (s *Store) index(id string) int {
	return slices.IndexFunc(s.tasks, func(t models.TaskItem) bool {
		return t.ID == id
	})
}

func (s *Store) snapshot() []models.TaskItem {
	out := make([]models.TaskItem, len(s.tasks))
	for i, t := range s.tasks {
		out[i] = t.Clone()
	}
	return out
}

// commit persists next and makes it the current collection. On failure the
// in-memory collection is left as it was.
func (s *Store) commit(next []models.TaskItem) error {
	if next == nil {
		next = []models.TaskItem{}
	}
	if err := storage.SetJSON(s.provider, constants.KeyTasks, next); err != nil {
		return fmt.Errorf("failed to persist tasks: %w", err)
	}
	s.tasks = next
	return nil
}

// planDays plans days for the transition from old to updated. Identifiers old
// could own are retracted together with whatever the ledger holds.
func (s *Store) planDays(old, updated models.TaskItem, days models.DaySet) []planner.Plan {
	var plans []planner.Plan
	for _, day := range days.Days() {
		issued := append(s.ledger.Issued(updated.ID, day), planner.Identifiers(old, day)...)
		plans = append(plans, planner.PlanFor(updated, day, issued))
	}
	return plans
}

// retractAll plans the removal of every reminder t owns on any day.
func (s *Store) retractAll(t models.TaskItem) []planner.Plan {
	var plans []planner.Plan
	for _, day := range models.AllWeekDays {
		issued := s.ledger.Issued(t.ID, day)
		if !t.WeekDays.Has(day) && len(issued) == 0 {
			continue
		}
		plans = append(plans, planner.Retraction(t, day, issued))
	}
	return plans
}

func (s *Store) dispatch(plans []planner.Plan) {
	s.record(plans)
	s.send(plans)
}

func (s *Store) record(plans []planner.Plan) {
	for _, p := range plans {
		s.ledger.Record(p)
	}
}

func (s *Store) send(plans []planner.Plan) {
	plans = slices.DeleteFunc(plans, planner.Plan.IsEmpty)
	if len(plans) == 0 || s.dispatcher == nil {
		return
	}
	s.dispatcher.Apply(plans...)
}

func (s *Store) emit(c Change) {
	for _, fn := range s.listeners {
		fn(c)
	}
}
