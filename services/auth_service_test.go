package services

import (
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"draftday/utils"
)

func TestVerifyPasswordPlain(t *testing.T) {
	svc := NewAuthService(AuthConfig{
		AdminPassword: "opensesame",
		JWTSecret:     []byte("test-secret"),
	})

	valid, token, err := svc.VerifyPassword("opensesame")
	require.NoError(t, err)
	assert.True(t, valid)
	assert.NotEmpty(t, token)

	valid, token, err = svc.VerifyPassword("wrong")
	require.NoError(t, err)
	assert.False(t, valid)
	assert.Empty(t, token)
}

func TestVerifyPasswordBcryptHashWins(t *testing.T) {
	hash, err := utils.HashPassword("hashed-secret")
	require.NoError(t, err)

	svc := NewAuthService(AuthConfig{
		AdminPassword:     "plain-secret",
		AdminPasswordHash: hash,
		JWTSecret:         []byte("test-secret"),
	})

	valid, _, err := svc.VerifyPassword("hashed-secret")
	require.NoError(t, err)
	assert.True(t, valid)

	// The plain password is ignored once a hash is configured.
	valid, _, err = svc.VerifyPassword("plain-secret")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestVerifyPasswordUnconfigured(t *testing.T) {
	svc := NewAuthService(AuthConfig{JWTSecret: []byte("test-secret")})

	_, _, err := svc.VerifyPassword("anything")
	assert.ErrorIs(t, err, ErrPasswordNotConfigured)
}

func TestHostTokenCarriesRole(t *testing.T) {
	secret := []byte("test-secret")
	svc := NewAuthService(AuthConfig{AdminPassword: "pw", JWTSecret: secret})

	valid, signed, err := svc.VerifyPassword("pw")
	require.NoError(t, err)
	require.True(t, valid)

	parsed, err := jwt.Parse(signed, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "host", claims["role"])
	assert.NotZero(t, claims["exp"])
}
