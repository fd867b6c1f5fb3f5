package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-at-least-32-chars-long"

func TestJWTService_GenerateAndValidate(t *testing.T) {
	service := NewJWTService(testSecret, time.Hour)

	token, expiresAt, err := service.GenerateToken("admin@example.com", RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", claims.Email)
	assert.Equal(t, RoleAdmin, claims.Role)
	assert.Equal(t, "admin@example.com", claims.Subject)
}

func TestJWTService_ValidateToken_Expired(t *testing.T) {
	service := NewJWTService(testSecret, -time.Minute)

	token, _, err := service.GenerateToken("admin@example.com", RoleAdmin)
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ValidateToken_WrongSecret(t *testing.T) {
	service := NewJWTService(testSecret, time.Hour)
	other := NewJWTService("another-secret-key-also-32-chars-xx", time.Hour)

	token, _, err := service.GenerateToken("admin@example.com", RoleAdmin)
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ValidateToken_Garbage(t *testing.T) {
	service := NewJWTService(testSecret, time.Hour)

	_, err := service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_TokenExpiry(t *testing.T) {
	service := NewJWTService(testSecret, 12*time.Hour)
	assert.Equal(t, 12*time.Hour, service.TokenExpiry())
}
