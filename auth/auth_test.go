package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestTokenIssuer(t *testing.T) {
	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	newIssuer := func(secret string, at time.Time) *TokenIssuer {
		issuer := NewTokenIssuer(secret, time.Hour)
		issuer.now = func() time.Time { return at }
		return issuer
	}

	t.Run("round trip", func(t *testing.T) {
		issuer := newIssuer("secret", issuedAt)
		token, err := issuer.Issue("user-1")
		require.NoError(t, err)

		userID, err := issuer.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("expired", func(t *testing.T) {
		token, err := newIssuer("secret", issuedAt).Issue("user-1")
		require.NoError(t, err)

		_, err = newIssuer("secret", issuedAt.Add(2*time.Hour)).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := newIssuer("secret", issuedAt).Issue("user-1")
		require.NoError(t, err)

		_, err = newIssuer("other", issuedAt).Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    issuer,
				Subject:   "user-1",
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
		})
		signed, err := token.SignedString([]byte("secret"))
		require.NoError(t, err)

		_, err = newIssuer("secret", issuedAt).Verify(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := newIssuer("secret", issuedAt).Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestBcryptHasher(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password123")
	require.NoError(t, err)
	assert.NotEqual(t, "password123", hash)

	assert.NoError(t, hasher.Compare(hash, "password123"))
	assert.Error(t, hasher.Compare(hash, "wrong"))

	t.Run("out of range cost falls back to default", func(t *testing.T) {
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(0).cost)
		assert.Equal(t, bcrypt.DefaultCost, NewBcryptHasher(99).cost)
	})
}
