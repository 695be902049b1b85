// internal/token/token_test.go
//
// Token pair issuance and verification.  Time is pinned through NowFunc so
// expiry behavior is deterministic.
//
// Run: go test ./internal/token -v

package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessSecret  = "access-secret-for-tests-only"
	testRefreshSecret = "refresh-secret-for-tests-only"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	svc, err := NewService(testAccessSecret, testRefreshSecret, 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	return svc
}

func testSubject() Subject {
	return Subject{
		UserID:   "u-1",
		Email:    "ada@acme.test",
		TenantID: "acme",
		Roles:    []string{"instructor"},
		Name:     "Ada",
	}
}

func TestNewServicePolicy(t *testing.T) {
	_, err := NewService("", testRefreshSecret, time.Minute, time.Hour)
	assert.Error(t, err, "empty access secret")

	_, err = NewService(testAccessSecret, "", time.Minute, time.Hour)
	assert.Error(t, err, "empty refresh secret")

	_, err = NewService("same", "same", time.Minute, time.Hour)
	assert.Error(t, err, "equal secrets")

	_, err = NewService(testAccessSecret, testRefreshSecret, 0, time.Hour)
	assert.Error(t, err, "non-positive access TTL")

	_, err = NewService(testAccessSecret, testRefreshSecret, time.Minute, -time.Hour)
	assert.Error(t, err, "negative refresh TTL")
}

func TestIssueAndVerifyPair(t *testing.T) {
	svc := newTestService(t)

	pair, err := svc.IssuePair(testSubject())
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, int64(15*60), pair.ExpiresIn)
	assert.Equal(t, int64(24*60*60), pair.RefreshExpiresIn)

	claims, err := svc.Verify(pair.AccessToken, TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.Subject)
	assert.Equal(t, "ada@acme.test", claims.Email)
	assert.Equal(t, "acme", claims.TenantID)
	assert.Equal(t, []string{"instructor"}, claims.Roles)
	assert.Equal(t, TypeAccess, claims.TokenType)
	assert.NotEmpty(t, claims.ID, "jti must be set")

	refresh, err := svc.Verify(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, TypeRefresh, refresh.TokenType)
}

// A refresh token must never pass where an access token is expected, and
// vice versa.  Both failures collapse into the opaque sentinel.
func TestVerifyRejectsCrossType(t *testing.T) {
	svc := newTestService(t)

	pair, err := svc.IssuePair(testSubject())
	require.NoError(t, err)

	_, err = svc.Verify(pair.RefreshToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify(pair.AccessToken, TypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	svc := newTestService(t)

	for _, raw := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.Verify(raw, TypeAccess)
		assert.ErrorIs(t, err, ErrInvalidToken, "raw=%q", raw)
	}
}

func TestVerifyRejectsForeignSignature(t *testing.T) {
	svc := newTestService(t)
	other, err := NewService("other-access", "other-refresh", 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	pair, err := other.IssuePair(testSubject())
	require.NoError(t, err)

	_, err = svc.Verify(pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	svc := newTestService(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return base }
	defer func() { NowFunc = time.Now }()

	pair, err := svc.IssuePair(testSubject())
	require.NoError(t, err)

	// Still inside the access window.
	NowFunc = func() time.Time { return base.Add(10 * time.Minute) }
	_, err = svc.Verify(pair.AccessToken, TypeAccess)
	require.NoError(t, err)

	// Past the access window but inside the refresh window.
	NowFunc = func() time.Time { return base.Add(time.Hour) }
	_, err = svc.Verify(pair.AccessToken, TypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = svc.Verify(pair.RefreshToken, TypeRefresh)
	require.NoError(t, err)

	// Past both windows.
	NowFunc = func() time.Time { return base.Add(25 * time.Hour) }
	_, err = svc.Verify(pair.RefreshToken, TypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
