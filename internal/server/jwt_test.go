package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backgrounder/internal/config"
)

var jwtTestConfig = config.JWTConfig{
	Secret:          "test-secret-at-least-32-characters-long",
	ExpirationHours: 1,
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(&jwtTestConfig)

	token, err := svc.GenerateToken("ops")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, svc.ValidateToken(token))
}

func TestJWTService_WrongSecretRejected(t *testing.T) {
	token, err := NewJWTService(&jwtTestConfig).GenerateToken("ops")
	require.NoError(t, err)

	other := NewJWTService(&config.JWTConfig{
		Secret:          "a-completely-different-signing-secret!!",
		ExpirationHours: 1,
	})
	assert.Error(t, other.ValidateToken(token))
}

func TestJWTService_ExpiredTokenRejected(t *testing.T) {
	svc := NewJWTService(&jwtTestConfig)

	claims := jwt.RegisteredClaims{
		Subject:   "ops",
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(jwtTestConfig.Secret))
	require.NoError(t, err)

	assert.Error(t, svc.ValidateToken(signed))
}

func TestJWTService_EmptyTokenRejected(t *testing.T) {
	assert.Error(t, NewJWTService(&jwtTestConfig).ValidateToken(""))
}
