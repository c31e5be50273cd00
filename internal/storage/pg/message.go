package pg

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
)

// messageColumns is the shared projection for message queries. reactions is
// aggregated inline so a single scan produces a complete record.
const messageColumns = `
	m.id, m.thread_id, m.sender_id, m.recipient_id, m.content, m.created_at,
	m.is_read, m.read_at, m.edited_at, m.deleted_at, m.deleted_by,
	(SELECT json_object_agg(r.emoji, r.cnt)
	 FROM (SELECT emoji, COUNT(*) AS cnt
	       FROM message_reactions
	       WHERE message_id = m.id
	       GROUP BY emoji) r) AS reactions`

func scanMessage(row interface{ Scan(...interface{}) error }) (domain.Message, error) {
	var msg domain.Message
	var deletedBy uuid.NullUUID
	var reactions []byte
	err := row.Scan(&msg.Id, &msg.ThreadId, &msg.SenderId, &msg.RecipientId,
		&msg.Content, &msg.CreatedAt, &msg.IsRead, &msg.ReadAt, &msg.EditedAt,
		&msg.DeletedAt, &deletedBy, &reactions)
	if err != nil {
		return domain.Message{}, err
	}
	if deletedBy.Valid {
		msg.DeletedBy = &deletedBy.UUID
	}
	msg.Reactions, err = scanReactions(reactions)
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// CreateMessage persists a new message into the given thread.
func (s *Storage) CreateMessage(threadId domain.ThreadId, senderId, recipientId domain.UserId, content string) (domain.Message, error) {
	var msg domain.Message
	err := s.db.QueryRow(`
	INSERT INTO messages(thread_id, sender_id, recipient_id, content)
	VALUES($1, $2, $3, $4)
	RETURNING id, thread_id, sender_id, recipient_id, content, created_at, is_read`,
		threadId, senderId, recipientId, content).Scan(
		&msg.Id, &msg.ThreadId, &msg.SenderId, &msg.RecipientId, &msg.Content, &msg.CreatedAt, &msg.IsRead)
	if err != nil {
		return domain.Message{}, storageErr("create message", err)
	}
	return msg, nil
}

// getMessage runs against either the pool or an open transaction.
func getMessage(q Querier, id domain.MsgId) (domain.Message, error) {
	msg, err := scanMessage(q.QueryRow(`
	SELECT `+messageColumns+`
	FROM messages m
	WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Message{}, internal_errors.NotFound("Message not found")
		}
		return domain.Message{}, storageErr("query message", err)
	}
	return msg, nil
}

func (s *Storage) GetMessage(id domain.MsgId) (domain.Message, error) {
	return getMessage(s.db, id)
}

// ThreadMessages returns every message in the thread, oldest first.
func (s *Storage) ThreadMessages(threadId domain.ThreadId) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT `+messageColumns+`
	FROM messages m
	WHERE m.thread_id = $1
	ORDER BY m.created_at, m.id`, threadId)
	if err != nil {
		return nil, storageErr("query thread messages", err)
	}
	return collectMessages(rows, "thread messages")
}

// ThreadParticipants derives the thread's identity pair from its earliest
// message. The pair is immutable for the thread's lifetime.
func (s *Storage) ThreadParticipants(threadId domain.ThreadId) (domain.ThreadParticipants, error) {
	var p domain.ThreadParticipants
	err := s.db.QueryRow(`
	SELECT sender_id, recipient_id
	FROM messages
	WHERE thread_id = $1
	ORDER BY created_at, id
	LIMIT 1`, threadId).Scan(&p.First, &p.Second)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ThreadParticipants{}, internal_errors.NotFound("Thread not found")
		}
		return domain.ThreadParticipants{}, storageErr("query thread participants", err)
	}
	return p, nil
}

// Conversations returns the latest message of every thread the viewer
// participates in, newest thread first, enriched with the viewer's unread
// count and the counterparty's username.
func (s *Storage) Conversations(viewerId domain.UserId) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT last.*,
		(SELECT COUNT(*) FROM messages u
		 WHERE u.thread_id = last.thread_id AND u.recipient_id = $1 AND NOT u.is_read AND u.deleted_at IS NULL) AS unread_count,
		other.username AS other_username
	FROM (
		SELECT DISTINCT ON (m.thread_id) `+messageColumns+`
		FROM messages m
		WHERE m.sender_id = $1 OR m.recipient_id = $1
		ORDER BY m.thread_id, m.created_at DESC, m.id DESC
	) last
	JOIN users other ON other.id = CASE WHEN last.sender_id = $1 THEN last.recipient_id ELSE last.sender_id END
	ORDER BY last.created_at DESC`, viewerId)
	if err != nil {
		return nil, storageErr("query conversations", err)
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var deletedBy uuid.NullUUID
		var reactions []byte
		if err := rows.Scan(&msg.Id, &msg.ThreadId, &msg.SenderId, &msg.RecipientId,
			&msg.Content, &msg.CreatedAt, &msg.IsRead, &msg.ReadAt, &msg.EditedAt,
			&msg.DeletedAt, &deletedBy, &reactions,
			&msg.UnreadCount, &msg.RecipientUsername); err != nil {
			return nil, storageErr("scan conversation", err)
		}
		if deletedBy.Valid {
			msg.DeletedBy = &deletedBy.UUID
		}
		if msg.Reactions, err = scanReactions(reactions); err != nil {
			return nil, storageErr("decode reactions", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate conversations", err)
	}
	return messages, nil
}

// Inbox returns messages received by the viewer, newest first.
func (s *Storage) Inbox(viewerId domain.UserId) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT `+messageColumns+`
	FROM messages m
	WHERE m.recipient_id = $1 AND m.deleted_at IS NULL
	ORDER BY m.created_at DESC, m.id DESC`, viewerId)
	if err != nil {
		return nil, storageErr("query inbox", err)
	}
	return collectMessages(rows, "inbox")
}

// SearchMessages runs a case-insensitive substring search over the viewer's
// threads. Deleted messages are excluded.
func (s *Storage) SearchMessages(viewerId domain.UserId, query string, limit int) ([]domain.Message, error) {
	rows, err := s.db.Query(`
	SELECT `+messageColumns+`
	FROM messages m
	WHERE (m.sender_id = $1 OR m.recipient_id = $1)
		AND m.deleted_at IS NULL
		AND m.content ILIKE '%' || $2 || '%'
	ORDER BY m.created_at DESC, m.id DESC
	LIMIT $3`, viewerId, query, limit)
	if err != nil {
		return nil, storageErr("search messages", err)
	}
	return collectMessages(rows, "search")
}

func collectMessages(rows *sql.Rows, op string) ([]domain.Message, error) {
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, storageErr("scan "+op, err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate "+op, err)
	}
	return messages, nil
}

// MarkThreadRead flags the viewer's unread received messages in the thread
// as read and returns their ids. An empty result means nothing changed.
func (s *Storage) MarkThreadRead(threadId domain.ThreadId, viewerId domain.UserId) ([]domain.MsgId, error) {
	rows, err := s.db.Query(`
	UPDATE messages
	SET is_read = TRUE, read_at = now()
	WHERE thread_id = $1 AND recipient_id = $2 AND NOT is_read
	RETURNING id`, threadId, viewerId)
	if err != nil {
		return nil, storageErr("mark thread read", err)
	}
	defer rows.Close()

	var ids []domain.MsgId
	for rows.Next() {
		var id domain.MsgId
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr("scan read id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate read ids", err)
	}
	return ids, nil
}

// EditMessage replaces the content and archives the previous content in
// message_edits within the same transaction. Only the sender may edit.
func (s *Storage) EditMessage(id domain.MsgId, editorId domain.UserId, content string) (domain.Message, error) {
	var msg domain.Message
	err := s.withTx(func(tx *sql.Tx) error {
		var oldContent string
		var senderId domain.UserId
		err := tx.QueryRow(`
		SELECT sender_id, content FROM messages
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`, id).Scan(&senderId, &oldContent)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return internal_errors.NotFound("Message not found")
			}
			return storageErr("query message for edit", err)
		}
		if senderId != editorId {
			return internal_errors.Forbidden("Only the sender can edit a message")
		}

		if _, err := tx.Exec(`
		INSERT INTO message_edits(message_id, old_content, edited_by)
		VALUES($1, $2, $3)`, id, oldContent, editorId); err != nil {
			return storageErr("archive message edit", err)
		}

		msg, err = scanMessage(tx.QueryRow(`
		UPDATE messages m
		SET content = $2, edited_at = now()
		WHERE m.id = $1
		RETURNING `+messageColumns, id, content))
		if err != nil {
			return storageErr("update message", err)
		}
		return nil
	})
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}

// SoftDeleteMessage marks the message deleted. Either participant may
// delete; content stays for the edit-history audit trail.
func (s *Storage) SoftDeleteMessage(id domain.MsgId, deleterId domain.UserId) (domain.Message, error) {
	msg, err := s.GetMessage(id)
	if err != nil {
		return domain.Message{}, err
	}
	if msg.SenderId != deleterId && msg.RecipientId != deleterId {
		return domain.Message{}, internal_errors.Forbidden("Not a participant of this thread")
	}
	if msg.DeletedAt != nil {
		return domain.Message{}, internal_errors.NotFound("Message already deleted")
	}

	msg, err = scanMessage(s.db.QueryRow(`
	UPDATE messages m
	SET deleted_at = now(), deleted_by = $2
	WHERE m.id = $1 AND m.deleted_at IS NULL
	RETURNING `+messageColumns, id, deleterId))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Message{}, internal_errors.NotFound("Message already deleted")
		}
		return domain.Message{}, storageErr("delete message", err)
	}
	return msg, nil
}

// DeleteThread tombstones every remaining message in the thread.
func (s *Storage) DeleteThread(threadId domain.ThreadId, deleterId domain.UserId) error {
	_, err := s.db.Exec(`
	UPDATE messages SET deleted_at = now(), deleted_by = $2
	WHERE thread_id = $1 AND deleted_at IS NULL`, threadId, deleterId)
	if err != nil {
		return storageErr("delete thread", err)
	}
	return nil
}

// UpsertMessageReaction sets the user's single reaction on a message. A
// repeat reaction with a different emoji replaces the previous one. The
// guard and the upsert share a transaction so a concurrent delete cannot
// slip a reaction onto a tombstoned message.
func (s *Storage) UpsertMessageReaction(id domain.MsgId, userId domain.UserId, emoji domain.Emoji) (domain.Message, error) {
	var msg domain.Message
	err := s.withTx(func(tx *sql.Tx) error {
		var err error
		msg, err = getMessage(tx, id)
		if err != nil {
			return err
		}
		if msg.SenderId != userId && msg.RecipientId != userId {
			return internal_errors.Forbidden("Not a participant of this thread")
		}
		if msg.DeletedAt != nil {
			return internal_errors.NotFound("Message already deleted")
		}

		if _, err := tx.Exec(`
		INSERT INTO message_reactions(message_id, user_id, emoji)
		VALUES($1, $2, $3)
		ON CONFLICT (message_id, user_id) DO UPDATE SET emoji = EXCLUDED.emoji`,
			id, userId, emoji); err != nil {
			return storageErr("upsert reaction", err)
		}

		msg, err = getMessage(tx, id)
		return err
	})
	if err != nil {
		return domain.Message{}, err
	}
	return msg, nil
}
