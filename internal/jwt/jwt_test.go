package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/murmur-dev/murmur/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := New("test-secret", time.Hour)
	user := domain.User{Id: uuid.New(), Username: "alice"}

	tokenStr, err := svc.NewToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokenStr)

	token, err := svc.DecodeToken(tokenStr)
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, user.Id.String(), claims["uid"])
	assert.Equal(t, "alice", claims["username"])
}

func TestDecodeToken_WrongSecret(t *testing.T) {
	user := domain.User{Id: uuid.New(), Username: "alice"}

	tokenStr, err := New("secret-a", time.Hour).NewToken(user)
	require.NoError(t, err)

	_, err = New("secret-b", time.Hour).DecodeToken(tokenStr)
	assert.Error(t, err)
}

func TestDecodeToken_Expired(t *testing.T) {
	user := domain.User{Id: uuid.New(), Username: "alice"}
	svc := New("test-secret", -time.Minute)

	tokenStr, err := svc.NewToken(user)
	require.NoError(t, err)

	_, err = svc.DecodeToken(tokenStr)
	assert.Error(t, err)
}

func TestDecodeToken_Garbage(t *testing.T) {
	_, err := New("test-secret", time.Hour).DecodeToken("not.a.token")
	assert.Error(t, err)
}
