package pg

import (
	"database/sql"

	"github.com/murmur-dev/murmur/internal/domain"
)

// TogglePinMessage flips the per-user pin on a message and reports the new
// state (true = pinned).
func (s *Storage) TogglePinMessage(id domain.MsgId, userId domain.UserId) (bool, error) {
	return s.togglePin("pinned_messages", "message_id", id, userId)
}

// TogglePinThread flips the per-user pin on a thread.
func (s *Storage) TogglePinThread(threadId domain.ThreadId, userId domain.UserId) (bool, error) {
	return s.togglePin("pinned_threads", "thread_id", threadId, userId)
}

func (s *Storage) togglePin(table, column string, targetId, userId domain.UserId) (bool, error) {
	var pinned bool
	err := s.withTx(func(tx *sql.Tx) error {
		result, err := tx.Exec(
			"DELETE FROM "+table+" WHERE "+column+" = $1 AND user_id = $2",
			targetId, userId)
		if err != nil {
			return storageErr("toggle pin", err)
		}
		removed, err := result.RowsAffected()
		if err != nil {
			return storageErr("toggle pin", err)
		}
		if removed > 0 {
			pinned = false
			return nil
		}
		if _, err := tx.Exec(
			"INSERT INTO "+table+"("+column+", user_id) VALUES($1, $2)",
			targetId, userId); err != nil {
			return storageErr("toggle pin", err)
		}
		pinned = true
		return nil
	})
	return pinned, err
}

// PinnedMessages returns the ids of messages the user has pinned.
func (s *Storage) PinnedMessages(userId domain.UserId) ([]domain.MsgId, error) {
	return s.pinnedIds("pinned_messages", "message_id", userId)
}

// PinnedThreads returns the ids of threads the user has pinned.
func (s *Storage) PinnedThreads(userId domain.UserId) ([]domain.ThreadId, error) {
	return s.pinnedIds("pinned_threads", "thread_id", userId)
}

func (s *Storage) pinnedIds(table, column string, userId domain.UserId) ([]domain.UserId, error) {
	rows, err := s.db.Query(
		"SELECT "+column+" FROM "+table+" WHERE user_id = $1 ORDER BY created_at DESC",
		userId)
	if err != nil {
		return nil, storageErr("query pins", err)
	}
	defer rows.Close()

	var ids []domain.UserId
	for rows.Next() {
		var id domain.UserId
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan pin", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate pins", err)
	}
	return ids, nil
}
