package pg

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
)

const uniqueViolation = "23505"

// SaveUser inserts a new account and returns the generated id.
func (s *Storage) SaveUser(user domain.User) (domain.UserId, error) {
	var id domain.UserId
	err := s.db.QueryRow(`
	INSERT INTO users(username, password_hash, bio, avatar_url)
	VALUES($1, $2, $3, $4)
	RETURNING id`,
		user.Username, user.PassHash, user.Bio, user.AvatarUrl).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.UserId{}, internal_errors.Conflict("Username already taken")
		}
		return domain.UserId{}, storageErr("save user", err)
	}
	return id, nil
}

func (s *Storage) UserByUsername(username domain.Username) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(`
	SELECT id, username, password_hash, bio, avatar_url, created_at
	FROM users WHERE username = $1`, username))
}

func (s *Storage) UserById(id domain.UserId) (domain.User, error) {
	return s.scanUser(s.db.QueryRow(`
	SELECT id, username, password_hash, bio, avatar_url, created_at
	FROM users WHERE id = $1`, id))
}

func (s *Storage) scanUser(row *sql.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.Id, &user.Username, &user.PassHash, &user.Bio, &user.AvatarUrl, &user.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, internal_errors.NotFound("User not found")
		}
		return domain.User{}, storageErr("query user", err)
	}
	return user, nil
}

// UpdateProfile sets the mutable profile fields. Nil pointers clear them.
func (s *Storage) UpdateProfile(id domain.UserId, bio, avatarUrl *string) error {
	result, err := s.db.Exec(`
	UPDATE users SET bio = $1, avatar_url = $2 WHERE id = $3`, bio, avatarUrl, id)
	if err != nil {
		return storageErr("update profile", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("update profile", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

// DeleteUser removes the account. Messages and reactions cascade away,
// broadcasts stay behind with a null sender.
func (s *Storage) DeleteUser(id domain.UserId) error {
	result, err := s.db.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete user", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return storageErr("delete user", err)
	}
	if affected == 0 {
		return internal_errors.NotFound("User not found")
	}
	return nil
}

// AllUsers lists every account except the viewer, for recipient picking.
func (s *Storage) AllUsers(except domain.UserId) ([]domain.User, error) {
	rows, err := s.db.Query(`
	SELECT id, username, password_hash, bio, avatar_url, created_at
	FROM users WHERE id <> $1
	ORDER BY username`, except)
	if err != nil {
		return nil, storageErr("query users", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(&user.Id, &user.Username, &user.PassHash, &user.Bio, &user.AvatarUrl, &user.CreatedAt); err != nil {
			return nil, storageErr("scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate users", err)
	}
	return users, nil
}
