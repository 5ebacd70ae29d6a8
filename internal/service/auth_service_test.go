package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptscore/internal/config"
)

func newTestAuth() *AuthService {
	return NewAuthService(config.AuthConfig{JWTSecret: "test-secret", Username: "client", Password: "hunter2"})
}

func TestAuthLoginAndValidate(t *testing.T) {
	auth := newTestAuth()

	resp, err := auth.Login("client", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.ClientID, "client_")

	claims, err := auth.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.ClientID, claims.ClientID)
	assert.Equal(t, resp.ExpiresAt, claims.ExpiresAt.Unix())
}

func TestAuthRejectsBadCredentials(t *testing.T) {
	auth := newTestAuth()

	_, err := auth.Login("client", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	noPassword := NewAuthService(config.AuthConfig{JWTSecret: "test-secret", Username: "client"})
	_, err = noPassword.Login("client", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthRejectsBadTokens(t *testing.T) {
	auth := newTestAuth()

	_, err := auth.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewAuthService(config.AuthConfig{JWTSecret: "other-secret", Username: "client", Password: "hunter2"})
	resp, err := other.Login("client", "hunter2")
	require.NoError(t, err)
	_, err = auth.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken, "signature from another secret")

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"clientId": "x"}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = auth.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthTokenExpires(t *testing.T) {
	auth := newTestAuth()
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }

	resp, err := auth.Login("client", "hunter2")
	require.NoError(t, err)

	auth.now = func() time.Time { return issued.Add(tokenTTL + time.Minute) }
	_, err = auth.ValidateToken(resp.Token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthDisabled(t *testing.T) {
	auth := NewAuthService(config.AuthConfig{})

	assert.False(t, auth.Enabled())
	_, err := auth.Login("any", "thing")
	assert.ErrorIs(t, err, ErrAuthDisabled)
	_, err = auth.ValidateToken("x")
	assert.ErrorIs(t, err, ErrAuthDisabled)
}
