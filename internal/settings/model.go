package settings

import "time"

// Settings is the single per-account preferences row. Reads return defaults
// until the first save.
type Settings struct {
	AccountID            string    `json:"accountId"`
	BusinessName         string    `json:"businessName,omitempty"`
	Timezone             string    `json:"timezone"`
	NotificationEmail    string    `json:"notificationEmail,omitempty"`
	EmailNotifications   bool      `json:"emailNotifications"`
	SMSNotifications     bool      `json:"smsNotifications"`
	MissedCallAlerts     bool      `json:"missedCallAlerts"`
	WeeklySummaryEnabled bool      `json:"weeklySummaryEnabled"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

// Defaults returns the settings used before an account saves anything.
func Defaults(accountID string) *Settings {
	return &Settings{
		AccountID:            accountID,
		Timezone:             "America/New_York",
		EmailNotifications:   true,
		MissedCallAlerts:     true,
		WeeklySummaryEnabled: true,
	}
}

// Profile is the editable slice of the account owner's user record.
type Profile struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}
