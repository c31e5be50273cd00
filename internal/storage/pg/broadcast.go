package pg

import (
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
)

// CreateBroadcast inserts a public post. For anonymous broadcasts senderId
// is NOT stored at all, so the association cannot be recovered later.
func (s *Storage) CreateBroadcast(senderId domain.UserId, content string, anonymous bool) (domain.Broadcast, error) {
	var storedSender uuid.NullUUID
	if !anonymous {
		storedSender = uuid.NullUUID{UUID: senderId, Valid: true}
	}

	var b domain.Broadcast
	var senderOut uuid.NullUUID
	err := s.db.QueryRow(`
	INSERT INTO broadcasts(sender_id, content, is_anonymous)
	VALUES($1, $2, $3)
	RETURNING id, sender_id, content, is_anonymous, created_at`,
		storedSender, content, anonymous).Scan(&b.Id, &senderOut, &b.Content, &b.IsAnonymous, &b.CreatedAt)
	if err != nil {
		return domain.Broadcast{}, storageErr("create broadcast", err)
	}
	if senderOut.Valid {
		b.SenderId = &senderOut.UUID
	}
	return b, nil
}

// Broadcasts lists recent posts with author names and view counts, newest
// first, capped at limit.
func (s *Storage) Broadcasts(limit int) ([]domain.Broadcast, error) {
	rows, err := s.db.Query(`
	SELECT b.id, b.sender_id, u.username, b.content, b.is_anonymous, b.created_at,
		(SELECT COUNT(*) FROM broadcast_views v WHERE v.broadcast_id = b.id) AS view_count
	FROM broadcasts b
	LEFT JOIN users u ON u.id = b.sender_id
	WHERE b.deleted_at IS NULL
	ORDER BY b.created_at DESC
	LIMIT $1`, limit)
	if err != nil {
		return nil, storageErr("query broadcasts", err)
	}
	defer rows.Close()

	var broadcasts []domain.Broadcast
	for rows.Next() {
		var b domain.Broadcast
		var senderId uuid.NullUUID
		var senderName sql.NullString
		if err := rows.Scan(&b.Id, &senderId, &senderName, &b.Content, &b.IsAnonymous, &b.CreatedAt, &b.ViewCount); err != nil {
			return nil, storageErr("scan broadcast", err)
		}
		if senderId.Valid {
			b.SenderId = &senderId.UUID
		}
		if senderName.Valid {
			name := senderName.String
			b.SenderName = &name
		}
		broadcasts = append(broadcasts, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate broadcasts", err)
	}
	return broadcasts, nil
}

// TrackBroadcastView records that the user saw the broadcast, once per user.
func (s *Storage) TrackBroadcastView(broadcastId domain.BroadcastId, userId domain.UserId) error {
	result, err := s.db.Exec(`
	INSERT INTO broadcast_views(broadcast_id, user_id)
	SELECT $1, $2 WHERE EXISTS(SELECT 1 FROM broadcasts WHERE id = $1 AND deleted_at IS NULL)
	ON CONFLICT (broadcast_id, user_id) DO NOTHING`, broadcastId, userId)
	if err != nil {
		return storageErr("track broadcast view", err)
	}
	// Distinguish "already viewed" (fine) from "no such broadcast".
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		var exists bool
		if err := s.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM broadcasts WHERE id = $1 AND deleted_at IS NULL)`, broadcastId).Scan(&exists); err != nil {
			return storageErr("track broadcast view", err)
		}
		if !exists {
			return internal_errors.NotFound("Broadcast not found")
		}
	}
	return nil
}

// CreateComment adds a comment to a broadcast, optionally nested under a
// parent comment of the same broadcast.
func (s *Storage) CreateComment(broadcastId domain.BroadcastId, userId domain.UserId, parentId *domain.CommentId, content string) (domain.Comment, error) {
	var c domain.Comment
	err := s.withTx(func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM broadcasts WHERE id = $1 AND deleted_at IS NULL)`, broadcastId).Scan(&exists); err != nil {
			return storageErr("query broadcast for comment", err)
		}
		if !exists {
			return internal_errors.NotFound("Broadcast not found")
		}

		if parentId != nil {
			var parentBroadcast domain.BroadcastId
			err := tx.QueryRow(`
			SELECT broadcast_id FROM broadcast_comments WHERE id = $1 AND deleted_at IS NULL`, *parentId).Scan(&parentBroadcast)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return internal_errors.NotFound("Parent comment not found")
				}
				return storageErr("query parent comment", err)
			}
			if parentBroadcast != broadcastId {
				return internal_errors.InvalidInput("Parent comment belongs to another broadcast")
			}
		}

		var parent uuid.NullUUID
		if parentId != nil {
			parent = uuid.NullUUID{UUID: *parentId, Valid: true}
		}
		err := tx.QueryRow(`
		INSERT INTO broadcast_comments(broadcast_id, user_id, parent_comment_id, content)
		VALUES($1, $2, $3, $4)
		RETURNING id, created_at`, broadcastId, userId, parent, content).Scan(&c.Id, &c.CreatedAt)
		if err != nil {
			return storageErr("create comment", err)
		}

		c.BroadcastId = broadcastId
		c.UserId = userId
		c.ParentCommentId = parentId
		c.Content = content
		if err := tx.QueryRow(`SELECT username FROM users WHERE id = $1`, userId).Scan(&c.Username); err != nil {
			return storageErr("query comment author", err)
		}
		return nil
	})
	if err != nil {
		return domain.Comment{}, err
	}
	return c, nil
}

// BroadcastComments returns the broadcast's comments, oldest first, with
// author names and aggregated reactions. Nesting is left to the caller.
func (s *Storage) BroadcastComments(broadcastId domain.BroadcastId) ([]domain.Comment, error) {
	rows, err := s.db.Query(`
	SELECT c.id, c.broadcast_id, c.user_id, u.username, c.parent_comment_id,
		c.content, c.created_at, c.deleted_at,
		(SELECT json_object_agg(r.emoji, r.cnt)
		 FROM (SELECT emoji, COUNT(*) AS cnt
		       FROM broadcast_comment_reactions
		       WHERE comment_id = c.id
		       GROUP BY emoji) r) AS reactions
	FROM broadcast_comments c
	JOIN users u ON u.id = c.user_id
	WHERE c.broadcast_id = $1 AND c.deleted_at IS NULL
	ORDER BY c.created_at, c.id`, broadcastId)
	if err != nil {
		return nil, storageErr("query comments", err)
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var c domain.Comment
		var parent uuid.NullUUID
		var reactions []byte
		if err := rows.Scan(&c.Id, &c.BroadcastId, &c.UserId, &c.Username, &parent,
			&c.Content, &c.CreatedAt, &c.DeletedAt, &reactions); err != nil {
			return nil, storageErr("scan comment", err)
		}
		if parent.Valid {
			c.ParentCommentId = &parent.UUID
		}
		if c.Reactions, err = scanReactions(reactions); err != nil {
			return nil, storageErr("decode comment reactions", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate comments", err)
	}
	return comments, nil
}

// UpsertCommentReaction sets the user's single reaction on a comment.
func (s *Storage) UpsertCommentReaction(commentId domain.CommentId, userId domain.UserId, emoji domain.Emoji) (domain.BroadcastId, error) {
	var broadcastId domain.BroadcastId
	err := s.db.QueryRow(`
	SELECT broadcast_id FROM broadcast_comments WHERE id = $1 AND deleted_at IS NULL`, commentId).Scan(&broadcastId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.BroadcastId{}, internal_errors.NotFound("Comment not found")
		}
		return domain.BroadcastId{}, storageErr("query comment", err)
	}

	if _, err := s.db.Exec(`
	INSERT INTO broadcast_comment_reactions(comment_id, user_id, emoji)
	VALUES($1, $2, $3)
	ON CONFLICT (comment_id, user_id) DO UPDATE SET emoji = EXCLUDED.emoji`,
		commentId, userId, emoji); err != nil {
		return domain.BroadcastId{}, storageErr("upsert comment reaction", err)
	}
	return broadcastId, nil
}

// SoftDeleteComment marks the comment deleted. Only its author may delete.
func (s *Storage) SoftDeleteComment(commentId domain.CommentId, userId domain.UserId) error {
	var authorId domain.UserId
	err := s.db.QueryRow(`
	SELECT user_id FROM broadcast_comments WHERE id = $1 AND deleted_at IS NULL`, commentId).Scan(&authorId)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return internal_errors.NotFound("Comment not found")
		}
		return storageErr("query comment for delete", err)
	}
	if authorId != userId {
		return internal_errors.Forbidden("Only the author can delete a comment")
	}

	if _, err := s.db.Exec(`
	UPDATE broadcast_comments SET deleted_at = now() WHERE id = $1`, commentId); err != nil {
		return storageErr("delete comment", err)
	}
	return nil
}
