package domain

import "time"

type User struct {
	Id        UserId
	Username  Username
	PassHash  string
	Bio       *string
	AvatarUrl *string
	CreatedAt time.Time
}

// Preferences are per-user delivery and display settings. Users without
// a stored row read as DefaultPreferences.
type Preferences struct {
	Theme                string `json:"theme"`
	NotificationSound    bool   `json:"notification_sound"`
	BrowserNotifications bool   `json:"browser_notifications"`
	ShowReadReceipts     bool   `json:"show_read_receipts"`
	ShowTypingIndicators bool   `json:"show_typing_indicators"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		Theme:                "dark",
		NotificationSound:    true,
		BrowserNotifications: true,
		ShowReadReceipts:     true,
		ShowTypingIndicators: true,
	}
}

// PreferencesUpdate carries a partial change; nil fields are left as-is.
type PreferencesUpdate struct {
	Theme                *string `json:"theme"`
	NotificationSound    *bool   `json:"notification_sound"`
	BrowserNotifications *bool   `json:"browser_notifications"`
	ShowReadReceipts     *bool   `json:"show_read_receipts"`
	ShowTypingIndicators *bool   `json:"show_typing_indicators"`
}
