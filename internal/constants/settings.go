package constants

const (
	// Collections
	KeyTasks = "tasks"
	KeyPets  = "pets"

	// General Settings
	SettingShowStreaks              = "show_streaks"
	SettingDefaultNotificationTimes = "default_notification_times"
	SettingTimezone                 = "timezone"

	// Component state
	KeyLastResetAt       = "last_reset_at"
	KeyLastRewardCheckAt = "last_reward_check_at"
	KeyPremium           = "is_premium"

	// Default Settings Values
	DefaultShowStreaks = true
	DefaultTimezone    = "Local" // Use system local timezone by default
)

// DefaultNotificationTimes are the minute-of-day offsets applied to new tasks (09:00).
var DefaultNotificationTimes = []int{9 * 60}
