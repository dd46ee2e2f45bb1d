package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2", hash)
	assert.True(t, ComparePassword(hash, "hunter2"))
	assert.False(t, ComparePassword(hash, "hunter3"))
}

func TestComparePasswordEmptyHash(t *testing.T) {
	assert.False(t, ComparePassword("", ""))
	assert.False(t, ComparePassword("", "anything"))
}

func TestTokenGenerateAndVerify(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)

	token, err := m.Generate("user-1")
	require.NoError(t, err)

	userID, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret", time.Hour).Generate("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("other", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Generate("user-1")
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejectsOtherAlgorithms(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{UserID: "user-1"})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewTokenManager("secret", time.Hour).Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGoogleVerifierRequiresClientID(t *testing.T) {
	_, err := NewGoogleVerifier("").Verify(context.Background(), "token")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
