package constants

const (
	AppName            = "routine"
	DefaultKeyringUser = "database-connection"
	DefaultConfigPath  = "~/.config/routine/routine.json"
	Version            = "v0.3.0"

	// EnvDBConnection holds a PostgreSQL connection string when the keyring is not used.
	EnvDBConnection = "ROUTINE_DB_CONNECTION"

	// TimeFormat is the standard time format used throughout the application (HH:MM)
	TimeFormat = "15:04"

	// MinutesPerDay bounds notification minute offsets to [0, MinutesPerDay).
	MinutesPerDay = 24 * 60

	// Notify constants
	NotifierLockfileName    = "routine-notifier.lock"
	NotificationDurationMs  = 5000
	ImportantNotificationMs = 10000
	TrayAppIdentifier       = "com.julianstephens.routine"
	TrayExecutable          = "routine-tray"

	// Free tier limits
	MaxTasksInFree             = 7
	MaxNotificationTimesInFree = 2

	// Reward constants
	RewardCompletionThreshold = 0.8
	CommonTierCutoff          = 0.5
	RareTierCutoff            = 0.8
	ExperiencePerLevel        = 100
	MaxHappiness              = 100
	HappinessSwingScale       = 20

	// Streak tier thresholds
	StreakSaplingMin = 7
	StreakTreeMin    = 30

	// Reminder body templates, formatted with the task title.
	RegularReminderBody   = "Time for %s"
	ImportantReminderBody = "Important: don't skip %s today!"
)
