package security

import (
	"strings"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-hs256"

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func newTestTokens(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()

	s, err := NewTokenService(testSecret, time.Hour, "puremilk", WithClock(clock.Now))
	require.NoError(t, err)
	return s
}

func TestTokenService_IssueAndVerify(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestTokens(t, clock)

	subject := uuid.NewString()
	token, issued, err := s.Issue(subject, "admin")
	require.NoError(t, err)

	claims, err := s.Verify(token)
	require.NoError(t, err)

	assert.Equal(t, subject, claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "puremilk", claims.Issuer)
	assert.Equal(t, issued.ID, claims.ID)
	assert.NotEmpty(t, claims.ID)
	assert.True(t, claims.IssuedAt.Time.Equal(clock.now))
	assert.True(t, claims.ExpiresAt.Time.Equal(clock.now.Add(time.Hour)))
}

func TestTokenService_UniqueTokenIDs(t *testing.T) {
	s := newTestTokens(t, &fakeClock{now: time.Now()})

	_, a, err := s.Issue(uuid.NewString(), "customer")
	require.NoError(t, err)
	_, b, err := s.Issue(uuid.NewString(), "customer")
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
}

func TestTokenService_Expired(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s := newTestTokens(t, clock)

	token, _, err := s.Issue(uuid.NewString(), "customer")
	require.NoError(t, err)

	clock.now = clock.now.Add(2 * time.Hour)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_DefaultExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	s, err := NewTokenService(testSecret, 0, "", WithClock(clock.Now))
	require.NoError(t, err)

	_, claims, err := s.Issue(uuid.NewString(), "customer")
	require.NoError(t, err)
	assert.True(t, claims.ExpiresAt.Time.Equal(clock.now.Add(DefaultTokenExpiry)))
}

func TestTokenService_RejectsTampering(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestTokens(t, clock)

	token, _, err := s.Issue(uuid.NewString(), "customer")
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	// swap in a payload claiming the admin role
	forged := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "puremilk",
			IssuedAt:  jwt.NewNumericDate(clock.now),
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
			ID:        uuid.NewString(),
		},
	}
	other, err := jwt.NewWithClaims(jwt.SigningMethodHS256, forged).SignedString([]byte("other"))
	require.NoError(t, err)
	forgedParts := strings.Split(other, ".")

	tampered := parts[0] + "." + forgedParts[1] + "." + parts[2]
	_, err = s.Verify(tampered)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// signature from another key
	_, err = s.Verify(other)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	// truncated signature
	_, err = s.Verify(parts[0] + "." + parts[1] + "." + parts[2][:len(parts[2])/2])
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RejectsOtherAlgorithms(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestTokens(t, clock)

	claims := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "puremilk",
			IssuedAt:  jwt.NewNumericDate(clock.now),
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
			ID:        uuid.NewString(),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.Verify(hs512)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = s.Verify(none)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_RejectsMissingClaims(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestTokens(t, clock)

	noExpiry := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: uuid.NewString(),
			Issuer:  "puremilk",
			ID:      uuid.NewString(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, noExpiry).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	noID := &Claims{
		Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   uuid.NewString(),
			Issuer:    "puremilk",
			ExpiresAt: jwt.NewNumericDate(clock.now.Add(time.Hour)),
		},
	}
	token, err = jwt.NewWithClaims(jwt.SigningMethodHS256, noID).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_WrongIssuer(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	s := newTestTokens(t, clock)

	other, err := NewTokenService(testSecret, time.Hour, "someone-else", WithClock(clock.Now))
	require.NoError(t, err)

	token, _, err := other.Issue(uuid.NewString(), "admin")
	require.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestTokenService_Garbage(t *testing.T) {
	s := newTestTokens(t, &fakeClock{now: time.Now()})

	for _, token := range []string{"", "abc", "a.b.c", "Bearer x.y.z"} {
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrTokenInvalid, token)
	}
}

func TestNewTokenService_EmptySecret(t *testing.T) {
	_, err := NewTokenService("", time.Hour, "puremilk")
	assert.Error(t, err)
}
