package storage

import (
	"errors"
	"slices"

	"github.com/julianstephens/routine/internal/constants"
	"github.com/julianstephens/routine/internal/models"
)

// LoadSettings reads each setting from its own key, falling back to defaults
// for keys that were never written.
func LoadSettings(p Provider) (models.Settings, error) {
	settings := models.Settings{}

	showStreaks, err := GetBool(p, constants.SettingShowStreaks, constants.DefaultShowStreaks)
	if err != nil {
		return models.Settings{}, err
	}
	settings.ShowStreaks = showStreaks

	var times []int
	switch err := GetJSON(p, constants.SettingDefaultNotificationTimes, &times); {
	case errors.Is(err, ErrNotFound):
		settings.DefaultNotificationTimes = slices.Clone(constants.DefaultNotificationTimes)
	case err != nil:
		return models.Settings{}, err
	default:
		settings.DefaultNotificationTimes = models.NormalizeTimes(times)
	}

	var tz string
	switch err := GetJSON(p, constants.SettingTimezone, &tz); {
	case errors.Is(err, ErrNotFound):
		settings.Timezone = constants.DefaultTimezone
	case err != nil:
		return models.Settings{}, err
	default:
		settings.Timezone = tz
	}

	return settings, nil
}

// SaveSettings writes every setting to its key.
func SaveSettings(p Provider, settings models.Settings) error {
	if err := SetBool(p, constants.SettingShowStreaks, settings.ShowStreaks); err != nil {
		return err
	}
	times := models.NormalizeTimes(settings.DefaultNotificationTimes)
	if err := SetJSON(p, constants.SettingDefaultNotificationTimes, times); err != nil {
		return err
	}
	tz := settings.Timezone
	if tz == "" {
		tz = constants.DefaultTimezone
	}
	return SetJSON(p, constants.SettingTimezone, tz)
}

// DefaultSettings returns the settings a fresh store starts with.
func DefaultSettings() models.Settings {
	return models.Settings{
		ShowStreaks:              constants.DefaultShowStreaks,
		DefaultNotificationTimes: slices.Clone(constants.DefaultNotificationTimes),
		Timezone:                 constants.DefaultTimezone,
	}
}
