package jwt

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func testManager() *Manager {
	return NewManager(TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager()
	email := "u@example.com"
	user := User{ID: uuid.New(), Email: &email, DisplayName: "U", Role: "student"}

	token, err := m.GenerateAccessToken(user)
	assert.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, email, claims.Email)
	assert.Equal(t, "student", claims.Role)
	assert.Equal(t, "fluentora", claims.Issuer)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	m := testManager()
	user := User{ID: uuid.New(), DisplayName: "U", Role: "student"}

	refresh, err := m.GenerateRefreshToken(user)
	assert.NoError(t, err)

	_, err = m.ValidateAccessToken(refresh)
	assert.Equal(t, ErrInvalidToken, err)

	claims, err := m.ValidateRefreshToken(refresh)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestExpiredToken(t *testing.T) {
	m := NewManager(TokenConfig{
		AccessSecret:  []byte("access-secret"),
		RefreshSecret: []byte("refresh-secret"),
		AccessTTL:     -time.Minute,
	})

	token, err := m.GenerateAccessToken(User{ID: uuid.New()})
	assert.NoError(t, err)

	_, err = m.ValidateAccessToken(token)
	assert.Equal(t, ErrExpiredToken, err)
}

func TestGarbageToken(t *testing.T) {
	_, err := testManager().ValidateAccessToken("not.a.token")
	assert.Equal(t, ErrInvalidToken, err)
}
