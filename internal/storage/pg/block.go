package pg

import (
	"github.com/murmur-dev/murmur/internal/domain"
)

// IsBlocked reports whether blocker has blocked blocked.
func (s *Storage) IsBlocked(blockerId, blockedId domain.UserId) (bool, error) {
	var exists bool
	err := s.db.QueryRow(`
	SELECT EXISTS(SELECT 1 FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2)`,
		blockerId, blockedId).Scan(&exists)
	if err != nil {
		return false, storageErr("query block", err)
	}
	return exists, nil
}

// BlockUser records a block. Repeated blocks are a no-op.
func (s *Storage) BlockUser(blockerId, blockedId domain.UserId) error {
	_, err := s.db.Exec(`
	INSERT INTO user_blocks(blocker_id, blocked_id)
	VALUES($1, $2)
	ON CONFLICT (blocker_id, blocked_id) DO NOTHING`, blockerId, blockedId)
	if err != nil {
		return storageErr("block user", err)
	}
	return nil
}

// UnblockUser removes a block. Unblocking an unblocked user is a no-op.
func (s *Storage) UnblockUser(blockerId, blockedId domain.UserId) error {
	_, err := s.db.Exec(`
	DELETE FROM user_blocks WHERE blocker_id = $1 AND blocked_id = $2`, blockerId, blockedId)
	if err != nil {
		return storageErr("unblock user", err)
	}
	return nil
}

// BlockedUsers lists the accounts the viewer has blocked.
func (s *Storage) BlockedUsers(blockerId domain.UserId) ([]domain.User, error) {
	rows, err := s.db.Query(`
	SELECT u.id, u.username, u.password_hash, u.bio, u.avatar_url, u.created_at
	FROM user_blocks b
	JOIN users u ON u.id = b.blocked_id
	WHERE b.blocker_id = $1
	ORDER BY b.created_at DESC`, blockerId)
	if err != nil {
		return nil, storageErr("query blocked users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Id, &user.Username, &user.PassHash, &user.Bio, &user.AvatarUrl, &user.CreatedAt); err != nil {
			return nil, storageErr("scan blocked user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate blocked users", err)
	}
	return users, nil
}
