package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService("secret", time.Hour)

	token, err := svc.GenerateToken("staff")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "staff", claims.Role)
	assert.Equal(t, "personal-trainer-agenda", claims.Issuer)
}

func TestJWTService_WrongSecretIsRejected(t *testing.T) {
	token, err := NewJWTService("secret", time.Hour).GenerateToken("student")
	require.NoError(t, err)

	_, err = NewJWTService("other-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ExpiredTokenIsRejected(t *testing.T) {
	svc := NewJWTService("secret", -time.Minute)

	token, err := svc.GenerateToken("student")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_GarbageIsRejected(t *testing.T) {
	_, err := NewJWTService("secret", time.Hour).ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
