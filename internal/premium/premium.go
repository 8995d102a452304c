// Package premium stores the local premium flag and the free-tier limits it lifts.
package premium

import (
	"fmt"

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/storage"
)

type Manager struct {
	provider storage.Provider
}

func New(provider storage.Provider) *Manager {
	return &Manager{provider: provider}
}

func (m *Manager) IsPremium() (bool, error) {
	return storage.GetBool(m.provider, constants.KeyPremium, false)
}

func (m *Manager) Unlock() error {
	if err := storage.SetBool(m.provider, constants.KeyPremium, true); err != nil {
		return fmt.Errorf("failed to unlock premium: %w", err)
	}
	return nil
}

func (m *Manager) Lock() error {
	return storage.SetBool(m.provider, constants.KeyPremium, false)
}

// CanAddMoreTasks reports whether another task fits next to count existing ones.
func (m *Manager) CanAddMoreTasks(count int) (bool, error) {
	return m.within(count, constants.MaxTasksInFree)
}

// CanAddMoreNotificationTimes reports whether a task with count reminder
// times may get another one.
func (m *Manager) CanAddMoreNotificationTimes(count int) (bool, error) {
	return m.within(count, constants.MaxNotificationTimesInFree)
}

func (m *Manager) within(count, limit int) (bool, error) {
	ok, err := m.IsPremium()
	if err != nil {
		return false, err
	}
	return ok || count < limit, nil
}
