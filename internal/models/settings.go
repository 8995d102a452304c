package models

// Settings represents user-facing preferences
type Settings struct {
	ShowStreaks              bool   `json:"show_streaks"`               // whether streak badges are rendered
	DefaultNotificationTimes []int  `json:"default_notification_times"` // minutes from midnight applied to new tasks
	Timezone                 string `json:"timezone"`                   // IANA timezone name or "Local"
}
