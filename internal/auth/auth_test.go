package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	t.Run("issue and verify round trip", func(t *testing.T) {
		token, err := issuer.Issue("user-123")
		require.NoError(t, err)
		require.NotEmpty(t, token)

		sub, err := issuer.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, "user-123", sub)
	})

	t.Run("empty user id", func(t *testing.T) {
		_, err := issuer.Issue("")
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenIssuer("other-secret", time.Hour)
		token, err := other.Issue("user-123")
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		short := NewTokenIssuer("test-secret", -time.Minute)
		token, err := short.Issue("user-123")
		require.NoError(t, err)

		_, err = issuer.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, ComparePassword("correct horse battery staple", hash))
	assert.False(t, ComparePassword("wrong password", hash))
}
