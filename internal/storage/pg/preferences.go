package pg

import (
	"database/sql"
	"errors"

	"github.com/murmur-dev/murmur/internal/domain"
)

// Preferences returns the user's stored settings, or the defaults when
// the user never saved any.
func (s *Storage) Preferences(userId domain.UserId) (domain.Preferences, error) {
	prefs := domain.DefaultPreferences()
	err := s.db.QueryRow(`
	SELECT theme, notification_sound, browser_notifications, show_read_receipts, show_typing_indicators
	FROM user_preferences WHERE user_id = $1`, userId).Scan(
		&prefs.Theme, &prefs.NotificationSound, &prefs.BrowserNotifications,
		&prefs.ShowReadReceipts, &prefs.ShowTypingIndicators)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.DefaultPreferences(), nil
		}
		return domain.Preferences{}, storageErr("query preferences", err)
	}
	return prefs, nil
}

// UpsertPreferences applies a partial update and returns the resulting
// row. Nil fields keep their stored value, or the default on first save.
func (s *Storage) UpsertPreferences(userId domain.UserId, update domain.PreferencesUpdate) (domain.Preferences, error) {
	var prefs domain.Preferences
	err := s.db.QueryRow(`
	INSERT INTO user_preferences(user_id, theme, notification_sound, browser_notifications, show_read_receipts, show_typing_indicators)
	VALUES($1, COALESCE($2, 'dark'), COALESCE($3, TRUE), COALESCE($4, TRUE), COALESCE($5, TRUE), COALESCE($6, TRUE))
	ON CONFLICT (user_id) DO UPDATE SET
		theme = COALESCE($2, user_preferences.theme),
		notification_sound = COALESCE($3, user_preferences.notification_sound),
		browser_notifications = COALESCE($4, user_preferences.browser_notifications),
		show_read_receipts = COALESCE($5, user_preferences.show_read_receipts),
		show_typing_indicators = COALESCE($6, user_preferences.show_typing_indicators)
	RETURNING theme, notification_sound, browser_notifications, show_read_receipts, show_typing_indicators`,
		userId, update.Theme, update.NotificationSound, update.BrowserNotifications,
		update.ShowReadReceipts, update.ShowTypingIndicators).Scan(
		&prefs.Theme, &prefs.NotificationSound, &prefs.BrowserNotifications,
		&prefs.ShowReadReceipts, &prefs.ShowTypingIndicators)
	if err != nil {
		return domain.Preferences{}, storageErr("upsert preferences", err)
	}
	return prefs, nil
}
