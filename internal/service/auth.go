package service

import (
	"strings"

	"github.com/murmur-dev/murmur/internal/domain"
	internal_errors "github.com/murmur-dev/murmur/internal/errors"
	"github.com/murmur-dev/murmur/internal/logger"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(username domain.Username, password string) (string, error)
	Login(username domain.Username, password string) (string, error)
}

type AuthStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserByUsername(username domain.Username) (domain.User, error)
}

type Jwt interface {
	NewToken(user domain.User) (string, error)
}

type Auth struct {
	storage AuthStorage
	jwt     Jwt
}

func NewAuth(storage AuthStorage, jwt Jwt) AuthService {
	return &Auth{storage, jwt}
}

// Register creates the account and immediately logs it in.
func (a *Auth) Register(username domain.Username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", internal_errors.InvalidInput("Username cannot be empty")
	}
	if len(password) < 8 {
		return "", internal_errors.InvalidInput("Password must be at least 8 characters")
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Error("failed to hash password", "error", err)
		return "", err
	}

	id, err := a.storage.SaveUser(domain.User{Username: username, PassHash: string(passHash)})
	if err != nil {
		return "", err
	}

	logger.Log.Info("user registered", "component", "auth_service", "user_id", id)
	return a.jwt.NewToken(domain.User{Id: id, Username: username})
}

// Login checks credentials and mints a token. Unknown user and wrong
// password are indistinguishable to the caller.
func (a *Auth) Login(username domain.Username, password string) (string, error) {
	user, err := a.storage.UserByUsername(strings.TrimSpace(username))
	if err != nil {
		if internal_errors.IsNotFound(err) {
			return "", internal_errors.Unauthorized("Invalid username or password")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PassHash), []byte(password)); err != nil {
		return "", internal_errors.Unauthorized("Invalid username or password")
	}

	return a.jwt.NewToken(user)
}
