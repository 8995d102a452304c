// Package reset clears weekly completion marks once per ISO week.
package reset

import (
	"fmt"
	"time"

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/logger"
	"github.com/julianstephens/routine/internal/storage"
	"github.com/julianstephens/routine/internal/utils"
)

type State string

const (
	StatePending State = "pending"
	StateSettled State = "settled"
)

// Resetter clears completion marks while keeping streaks. *tasks.Store
// satisfies it.
type Resetter interface {
	ResetCompletions() error
}

type Scheduler struct {
	provider storage.Provider
	tasks    Resetter
	state    State
}

func New(provider storage.Provider, tasks Resetter) *Scheduler {
	return &Scheduler{
		provider: provider,
		tasks:    tasks,
		state:    StateSettled,
	}
}

func (s *Scheduler) State() State {
	return s.state
}

// LastReset returns when completions were last cleared.
func (s *Scheduler) LastReset() (time.Time, bool, error) {
	return storage.GetTime(s.provider, constants.KeyLastResetAt)
}

// Check resets completions when now falls in a different ISO week than the
// last reset, or when no reset was ever recorded. It reports whether a reset
// happened. Repeated calls within the same week do nothing.
func (s *Scheduler) Check(now time.Time) (bool, error) {
	last, ok, err := s.LastReset()
	if err != nil {
		return false, fmt.Errorf("failed to read last reset: %w", err)
	}
	if ok && utils.SameISOWeek(last, now) {
		s.state = StateSettled
		return false, nil
	}

	s.state = StatePending
	if err := s.tasks.ResetCompletions(); err != nil {
		return false, fmt.Errorf("failed to reset completions: %w", err)
	}
	if err := storage.SetTime(s.provider, constants.KeyLastResetAt, now); err != nil {
		return false, fmt.Errorf("failed to record reset: %w", err)
	}
	s.state = StateSettled

	year, week := now.ISOWeek()
	logger.Info("Weekly reset applied", "year", year, "week", week, "first_run", !ok)
	return true, nil
}
