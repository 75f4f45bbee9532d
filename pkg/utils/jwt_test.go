package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("s3cret", "ai-academy")
	token, err := m.GenerateToken("u-1", "learner", time.Hour)
	require.NoError(t, err)

	claims, err := m.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "learner", claims.Role)
	assert.Equal(t, "u-1", claims.Subject)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("s3cret", "ai-academy")

	expired, err := m.GenerateToken("u-1", "learner", -time.Minute)
	require.NoError(t, err)
	_, err = m.ParseToken(expired)
	assert.ErrorIs(t, err, ErrExpiredToken)

	otherIssuer, err := NewJWTManager("s3cret", "someone-else").GenerateToken("u-1", "learner", time.Hour)
	require.NoError(t, err)
	_, err = m.ParseToken(otherIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": "u-1"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ParseToken(none)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.ParseToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
