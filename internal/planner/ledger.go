package planner

import (
	"slices"
	"sort"
	"sync"

	"github.com/julianstephens/routine/internal/models"
)

type ledgerKey struct {
	taskID string
	day    models.WeekDay
}

// Ledger remembers which identifiers were handed to the reminder service for
// each (task, day) pair.
type Ledger struct {
	mu     sync.Mutex
	issued map[ledgerKey][]string
}

func NewLedger() *Ledger {
	return &Ledger{issued: make(map[ledgerKey][]string)}
}

// Issued returns the identifiers currently recorded for the pair.
func (l *Ledger) Issued(taskID string, day models.WeekDay) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.issued[ledgerKey{taskID, day}])
}

// Record replaces the pair's entry with the identifiers plan schedules.
func (l *Ledger) Record(plan Plan) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ledgerKey{plan.TaskID, plan.Day}
	if len(plan.Schedule) == 0 {
		delete(l.issued, key)
		return
	}
	ids := make([]string, len(plan.Schedule))
	for i, spec := range plan.Schedule {
		ids[i] = spec.ID
	}
	l.issued[key] = ids
}

// Forget drops every entry for taskID.
func (l *Ledger) Forget(taskID string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for key := range l.issued {
		if key.taskID == taskID {
			delete(l.issued, key)
		}
	}
}

// Len returns the number of identifiers outstanding.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, ids := range l.issued {
		n += len(ids)
	}
	return n
}

// Orphans returns retraction plans for recorded pairs whose task is gone or no
// longer scheduled on that day.
func (l *Ledger) Orphans(tasks []models.TaskItem) []Plan {
	l.mu.Lock()
	defer l.mu.Unlock()

	days := make(map[string]models.DaySet, len(tasks))
	for _, t := range tasks {
		days[t.ID] = t.WeekDays
	}

	var plans []Plan
	for key, ids := range l.issued {
		if set, ok := days[key.taskID]; ok && set.Has(key.day) {
			continue
		}
		plans = append(plans, Plan{
			TaskID:  key.taskID,
			Day:     key.day,
			Retract: mergeIDs(ids),
		})
	}
	sort.Slice(plans, func(i, j int) bool {
		if plans[i].TaskID != plans[j].TaskID {
			return plans[i].TaskID < plans[j].TaskID
		}
		return plans[i].Day < plans[j].Day
	})
	return plans
}

// PlanAll recomputes reminders for every task on every scheduled day, preceded
// by retractions for pairs the ledger still holds but no task owns anymore.
func PlanAll(tasks []models.TaskItem, ledger *Ledger) []Plan {
	plans := ledger.Orphans(tasks)
	for _, t := range tasks {
		for _, day := range t.WeekDays.Days() {
			plans = append(plans, PlanFor(t, day, ledger.Issued(t.ID, day)))
		}
	}
	return plans
}
