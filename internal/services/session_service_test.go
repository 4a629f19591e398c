package services

import (
	"testing"
	"time"

	"travelplanner/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionIssueAndVerify(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	svc := SessionService{Secret: []byte("test-secret"), Now: func() time.Time { return now }}

	token, expires, err := svc.Issue("acc-1", false)
	require.NoError(t, err)
	assert.Equal(t, now.Add(SessionTTL), expires)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.False(t, claims.Remember)
}

func TestSessionExpiry(t *testing.T) {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	clock := now
	svc := SessionService{Secret: []byte("test-secret"), Now: func() time.Time { return clock }}

	short, _, err := svc.Issue("acc-1", false)
	require.NoError(t, err)
	long, expires, err := svc.Issue("acc-1", true)
	require.NoError(t, err)
	assert.Equal(t, now.Add(RememberTTL), expires)

	clock = now.Add(3 * time.Hour)
	_, err = svc.Verify(short)
	assert.True(t, domain.IsUnauthorized(err))

	claims, err := svc.Verify(long)
	require.NoError(t, err)
	assert.True(t, claims.Remember)

	clock = now.Add(RememberTTL + time.Minute)
	_, err = svc.Verify(long)
	assert.True(t, domain.IsUnauthorized(err))
}

func TestSessionRejectsForeignTokens(t *testing.T) {
	svc := SessionService{Secret: []byte("test-secret")}
	other := SessionService{Secret: []byte("other-secret")}

	token, _, err := other.Issue("acc-1", false)
	require.NoError(t, err)
	_, err = svc.Verify(token)
	assert.True(t, domain.IsUnauthorized(err))

	none := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{Subject: "acc-1", Issuer: "travelplanner"})
	raw, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = svc.Verify(raw)
	assert.True(t, domain.IsUnauthorized(err))

	_, err = svc.Verify("")
	assert.True(t, domain.IsUnauthorized(err))
}

func TestSessionIssueWithoutSecret(t *testing.T) {
	_, _, err := SessionService{}.Issue("acc-1", false)
	assert.Error(t, err)
}
