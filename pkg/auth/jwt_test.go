package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestAccessToken_RoundTrip(t *testing.T) {
	tok, err := NewAccessToken("5b0c6a3e-1111-4c3b-9a11-3f1e2d4c5b6a", "ana@example.com", "host", testSecret, time.Minute)
	require.NoError(t, err)

	claims, err := ParseAccess(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "5b0c6a3e-1111-4c3b-9a11-3f1e2d4c5b6a", claims.UserID())
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.Equal(t, "host", claims.Role)
	assert.Equal(t, TokenAccess, claims.Type)
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := NewAccessToken("u1", "a@b.co", "guest", testSecret, time.Minute)
	require.NoError(t, err)

	_, err = Parse(tok, "other-secret")
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	tok, err := NewAccessToken("u1", "a@b.co", "guest", testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = Parse(tok, testSecret)
	assert.Error(t, err)
}

func TestParseAccess_RejectsRefreshToken(t *testing.T) {
	tok, err := NewRefreshToken("u1", "a@b.co", testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseAccess(tok, testSecret)
	assert.ErrorIs(t, err, ErrInvalidToken)

	claims, err := Parse(tok, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenRefresh, claims.Type)
}
