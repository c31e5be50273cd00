package service

import (
	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
)

// Profile is a user as shown to other users (and to themselves).
type Profile struct {
	Id        domain.UserId   `json:"id"`
	Username  domain.Username `json:"username"`
	Bio       *string         `json:"bio,omitempty"`
	AvatarUrl *string         `json:"avatar_url,omitempty"`
}

type UserService interface {
	Me(user *domain.User) (Profile, error)
	UpdateMe(user *domain.User, bio, avatarUrl *string) (Profile, error)
	List(user *domain.User) ([]Profile, error)
	Block(user *domain.User, targetId domain.UserId) error
	Unblock(user *domain.User, targetId domain.UserId) error
	Blocked(user *domain.User) ([]Profile, error)
	Preferences(user *domain.User) (domain.Preferences, error)
	UpdatePreferences(user *domain.User, update domain.PreferencesUpdate) (domain.Preferences, error)
	DeleteMe(user *domain.User) error
}

type UserStorage interface {
	UserById(id domain.UserId) (domain.User, error)
	UpdateProfile(id domain.UserId, bio, avatarUrl *string) error
	AllUsers(except domain.UserId) ([]domain.User, error)
	BlockUser(blockerId, blockedId domain.UserId) error
	UnblockUser(blockerId, blockedId domain.UserId) error
	BlockedUsers(blockerId domain.UserId) ([]domain.User, error)
	Preferences(userId domain.UserId) (domain.Preferences, error)
	UpsertPreferences(userId domain.UserId, update domain.PreferencesUpdate) (domain.Preferences, error)
	DeleteUser(id domain.UserId) error
}

type Users struct {
	storage UserStorage
}

func NewUsers(storage UserStorage) UserService {
	return &Users{storage}
}

func toProfile(u domain.User) Profile {
	return Profile{Id: u.Id, Username: u.Username, Bio: u.Bio, AvatarUrl: u.AvatarUrl}
}

func toProfiles(users []domain.User) []Profile {
	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, toProfile(u))
	}
	return profiles
}

func (s *Users) Me(user *domain.User) (Profile, error) {
	u, err := s.storage.UserById(user.Id)
	if err != nil {
		return Profile{}, err
	}
	return toProfile(u), nil
}

func (s *Users) UpdateMe(user *domain.User, bio, avatarUrl *string) (Profile, error) {
	if err := s.storage.UpdateProfile(user.Id, bio, avatarUrl); err != nil {
		return Profile{}, err
	}
	return s.Me(user)
}

// List returns everyone but the viewer, for recipient picking.
func (s *Users) List(user *domain.User) ([]Profile, error) {
	users, err := s.storage.AllUsers(user.Id)
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}

func (s *Users) Block(user *domain.User, targetId domain.UserId) error {
	if targetId == user.Id {
		return internal_errors.InvalidInput("Cannot block yourself")
	}
	// Surface a 404 for unknown targets instead of silently recording
	// a dangling block.
	if _, err := s.storage.UserById(targetId); err != nil {
		return err
	}
	return s.storage.BlockUser(user.Id, targetId)
}

func (s *Users) Unblock(user *domain.User, targetId domain.UserId) error {
	return s.storage.UnblockUser(user.Id, targetId)
}

func (s *Users) Preferences(user *domain.User) (domain.Preferences, error) {
	return s.storage.Preferences(user.Id)
}

func (s *Users) UpdatePreferences(user *domain.User, update domain.PreferencesUpdate) (domain.Preferences, error) {
	return s.storage.UpsertPreferences(user.Id, update)
}

// DeleteMe removes the account and all its messages. Broadcasts survive
// with their sender detached.
func (s *Users) DeleteMe(user *domain.User) error {
	return s.storage.DeleteUser(user.Id)
}

func (s *Users) Blocked(user *domain.User) ([]Profile, error) {
	users, err := s.storage.BlockedUsers(user.Id)
	if err != nil {
		return nil, err
	}
	return toProfiles(users), nil
}
