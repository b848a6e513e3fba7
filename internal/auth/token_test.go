package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 0)
	token, err := tm.Issue("user-1")
	require.NoError(t, err)

	userID, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, DefaultSessionTTL, tm.TTL())
}

func TestTokenExpiryBoundary(t *testing.T) {
	issued := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: issued}
	tm := NewTokenManager("test-secret", 0).WithClock(clock.Now)

	token, err := tm.Issue("user-1")
	require.NoError(t, err)

	clock.now = issued.Add(15*24*time.Hour - time.Second)
	_, err = tm.Verify(token)
	assert.NoError(t, err, "one second before expiry is still valid")

	clock.now = issued.Add(15 * 24 * time.Hour)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken, "rejected at exactly T+15d")

	clock.now = issued.Add(15*24*time.Hour + time.Second)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiryBoundarySubSecond(t *testing.T) {
	raw := time.Date(2024, 3, 1, 12, 0, 0, 700_000_000, time.UTC)
	issued := raw.Truncate(time.Second)
	clock := &fakeClock{now: raw}
	tm := NewTokenManager("test-secret", 0).WithClock(clock.Now)

	token, err := tm.Issue("user-1")
	require.NoError(t, err)

	claims := &TokenClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(token, claims)
	require.NoError(t, err)
	assert.True(t, claims.IssuedAt.Time.Equal(issued))
	assert.True(t, claims.ExpiresAt.Time.Equal(issued.Add(15*24*time.Hour)))

	clock.now = issued.Add(15*24*time.Hour - time.Nanosecond)
	_, err = tm.Verify(token)
	assert.NoError(t, err, "valid up to the last instant before issue time + 15d")

	clock.now = issued.Add(15 * 24 * time.Hour)
	_, err = tm.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenRejections(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	valid, err := tm.Issue("user-1")
	require.NoError(t, err)

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewTokenManager("other-secret", time.Hour)
		_, err := other.Verify(valid)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Malformed", func(t *testing.T) {
		_, err := tm.Verify("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Tampered", func(t *testing.T) {
		_, err := tm.Verify(valid + "AA")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("NoneAlgorithm", func(t *testing.T) {
		unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, TokenClaims{
			UserID: "user-1",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		s, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = tm.Verify(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("MissingExpiry", func(t *testing.T) {
		s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, TokenClaims{UserID: "user-1"}).SignedString([]byte("test-secret"))
		require.NoError(t, err)
		_, err = tm.Verify(s)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}
